package compiler

import (
	"strings"
	"testing"

	"github.com/lollipopkit/glua/compiler/report"
)

func TestCompileOK(t *testing.T) {
	proto, err := Compile("local a = 1 return a", "chunk")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if proto == nil || len(proto.Code) == 0 {
		t.Fatal("no code produced")
	}
}

func TestCompileSyntaxError(t *testing.T) {
	proto, err := Compile("local = 1", "chunk")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if proto != nil {
		t.Error("no prototype on error")
	}
	if !strings.Contains(err.Error(), "chunk:1:") {
		t.Errorf("error lacks position: %v", err)
	}
}

func TestCompileReportsCodegenFailure(t *testing.T) {
	rep := report.Default()
	_, err := CompileWith("break", "chunk", rep)
	if err == nil {
		t.Fatal("break outside a loop must fail compilation")
	}
	if !rep.HasErrors() {
		t.Error("codegen failure not recorded in the reporter")
	}
}

func TestMustCompilePanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile should panic on bad input")
		}
	}()
	MustCompile("local = ", "chunk")
}
