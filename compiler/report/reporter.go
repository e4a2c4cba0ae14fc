package report

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	default:
		return "error"
	}
}

// Diagnostic is one reported problem, anchored to a source position.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Msg      string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Column, d.Msg)
}

// Reporter accumulates diagnostics during compilation. StopOnFirst
// makes the parser abort at the first error instead of resyncing to
// the next statement boundary. Limit bounds the number of recorded
// errors; past it the reporter reports saturation and the parser stops.
type Reporter struct {
	diags       []Diagnostic
	Limit       int
	StopOnFirst bool
	MinSeverity Severity
	nErrors     int
}

// Default keeps going past errors until 20 of them accumulated.
// Info-level diagnostics are dropped.
func Default() *Reporter {
	return &Reporter{Limit: 20, MinSeverity: Warning}
}

// Strict stops at the first error.
func Strict() *Reporter {
	return &Reporter{Limit: 1, StopOnFirst: true, MinSeverity: Warning}
}

// Permissive records up to 200 diagnostics of any severity.
func Permissive() *Reporter {
	return &Reporter{Limit: 200, MinSeverity: Info}
}

func (self *Reporter) Report(d Diagnostic) {
	if d.Severity < self.MinSeverity {
		return
	}
	self.diags = append(self.diags, d)
	if d.Severity == Error {
		self.nErrors++
	}
}

func (self *Reporter) Errorf(file string, line, col int, format string, a ...any) {
	self.Report(Diagnostic{Error, file, line, col, fmt.Sprintf(format, a...)})
}

func (self *Reporter) Warnf(file string, line, col int, format string, a ...any) {
	self.Report(Diagnostic{Warning, file, line, col, fmt.Sprintf(format, a...)})
}

func (self *Reporter) HasErrors() bool {
	return self.nErrors > 0
}

func (self *Reporter) ErrorCount() int {
	return self.nErrors
}

// Saturated reports whether the error budget is used up and parsing
// should not continue.
func (self *Reporter) Saturated() bool {
	if self.StopOnFirst && self.nErrors > 0 {
		return true
	}
	return self.Limit > 0 && self.nErrors >= self.Limit
}

func (self *Reporter) Diagnostics() []Diagnostic {
	return self.diags
}

/* renderings */

// Plain renders one diagnostic per line: file:line:col: message.
func (self *Reporter) Plain() string {
	lines := make([]string, len(self.diags))
	for i := range self.diags {
		lines[i] = self.diags[i].String()
	}
	return strings.Join(lines, "\n")
}

// Detailed prefixes each line with its severity and appends a summary.
func (self *Reporter) Detailed() string {
	var b strings.Builder
	for i := range self.diags {
		d := self.diags[i]
		fmt.Fprintf(&b, "[%s] %s:%d:%d: %s\n", d.Severity, d.File, d.Line, d.Column, d.Msg)
	}
	fmt.Fprintf(&b, "%d error(s), %d diagnostic(s)", self.nErrors, len(self.diags))
	return b.String()
}

// Short renders only the first error, or the summary line if none.
func (self *Reporter) Short() string {
	for i := range self.diags {
		if self.diags[i].Severity == Error {
			return self.diags[i].String()
		}
	}
	return fmt.Sprintf("%d diagnostic(s)", len(self.diags))
}

// JSON renders the full diagnostic list as a JSON array.
func (self *Reporter) JSON() string {
	data, err := json.Marshal(self.diags)
	if err != nil {
		return "[]"
	}
	return string(data)
}
