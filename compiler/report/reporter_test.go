package report

import (
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func filled() *Reporter {
	rep := Default()
	rep.Errorf("a.lua", 3, 7, "unexpected symbol")
	rep.Warnf("a.lua", 5, 1, "unused variable 'x'")
	rep.Errorf("b.lua", 1, 1, "'=' expected")
	return rep
}

func TestCounts(t *testing.T) {
	rep := filled()
	if !rep.HasErrors() {
		t.Error("HasErrors should be true")
	}
	if rep.ErrorCount() != 2 {
		t.Errorf("got %d errors, want 2", rep.ErrorCount())
	}
	if len(rep.Diagnostics()) != 3 {
		t.Errorf("got %d diagnostics, want 3", len(rep.Diagnostics()))
	}
}

func TestDefaultDropsInfo(t *testing.T) {
	rep := Default()
	rep.Report(Diagnostic{Info, "a.lua", 1, 1, "note"})
	if len(rep.Diagnostics()) != 0 {
		t.Error("default preset should drop info diagnostics")
	}

	perm := Permissive()
	perm.Report(Diagnostic{Info, "a.lua", 1, 1, "note"})
	if len(perm.Diagnostics()) != 1 {
		t.Error("permissive preset should keep info diagnostics")
	}
}

func TestSaturation(t *testing.T) {
	strict := Strict()
	if strict.Saturated() {
		t.Error("fresh reporter must not be saturated")
	}
	strict.Errorf("a.lua", 1, 1, "boom")
	if !strict.Saturated() {
		t.Error("strict reporter saturates at the first error")
	}

	dflt := Default()
	for i := 0; i < dflt.Limit; i++ {
		dflt.Errorf("a.lua", i, 1, "e")
	}
	if !dflt.Saturated() {
		t.Error("default reporter saturates at its limit")
	}
}

func TestPlainRendering(t *testing.T) {
	got := filled().Plain()
	if !strings.Contains(got, "a.lua:3:7: unexpected symbol") {
		t.Errorf("plain rendering missing position line:\n%s", got)
	}
	if len(strings.Split(got, "\n")) != 3 {
		t.Errorf("plain rendering should have one line per diagnostic:\n%s", got)
	}
}

func TestDetailedRendering(t *testing.T) {
	got := filled().Detailed()
	if !strings.Contains(got, "[error]") || !strings.Contains(got, "[warning]") {
		t.Errorf("detailed rendering missing severities:\n%s", got)
	}
	if !strings.Contains(got, "2 error(s), 3 diagnostic(s)") {
		t.Errorf("detailed rendering missing summary:\n%s", got)
	}
}

func TestShortRendering(t *testing.T) {
	got := filled().Short()
	if got != "a.lua:3:7: unexpected symbol" {
		t.Errorf("short rendering should be the first error, got %q", got)
	}
}

func TestJSONRendering(t *testing.T) {
	got := filled().JSON()
	parsed := gjson.Parse(got)
	if !parsed.IsArray() {
		t.Fatalf("JSON rendering is not an array: %s", got)
	}
	first := parsed.Array()[0]
	if first.Get("file").String() != "a.lua" ||
		first.Get("line").Int() != 3 ||
		first.Get("column").Int() != 7 {
		t.Errorf("JSON diagnostic fields wrong: %s", first.Raw)
	}
}
