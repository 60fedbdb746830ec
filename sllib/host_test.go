package sllib

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestRegisterFunctionAndPublicCall(t *testing.T) {
	host := New()
	var traced []string
	if err := host.RegisterFunction("trace", func(s string) { traced = append(traced, s) }); err != nil {
		t.Fatalf("RegisterFunction(trace): %v", err)
	}
	if err := host.RegisterFunction("sq", func(n float64) float64 { return n * n }); err != nil {
		t.Fatalf("RegisterFunction(sq): %v", err)
	}

	main := host.Public("main")
	source := `public function void main(){ trace(toString(sq(5))); }`
	if err := host.LoadSource(source); err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if _, err := main.Call(); err != nil {
		t.Fatalf("main.Call: %v", err)
	}
	if len(traced) != 1 || traced[0] != "25" {
		t.Fatalf("traced = %v, want [25]", traced)
	}
}

func TestPublicFuncCallBeforeLoad(t *testing.T) {
	host := New()
	pf := host.Public("main")
	if _, err := pf.Call(); err == nil {
		t.Fatalf("expected an error calling a public function before Load")
	}
}

func TestPublicFuncUnknownName(t *testing.T) {
	host := New()
	if err := host.LoadSource(`public function void main(){}`); err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if _, err := host.Public("notDeclared").Call(); err == nil {
		t.Fatalf("expected an error calling an undeclared public function")
	}
}

func TestRegisterFunctionWithErrorReturn(t *testing.T) {
	host := New()
	if err := host.RegisterFunction("mayFail", func(n float64) (float64, error) {
		if n < 0 {
			return 0, fmt.Errorf("negative input")
		}
		return n, nil
	}); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}

	if err := host.LoadSource(`public function void main(){ mayFail(-1); }`); err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if _, err := host.Public("main").Call(); err == nil {
		t.Fatalf("expected the runtime error from mayFail to propagate")
	}
}

func TestRegisterFunctionRejectsUnsupportedTypes(t *testing.T) {
	host := New()
	if err := host.RegisterFunction("bad", func(b bool) {}); err == nil {
		t.Fatalf("expected RegisterFunction to reject a bool parameter")
	}
}

func TestTryLoadReportsFileNotFound(t *testing.T) {
	host := New()
	var buf bytes.Buffer
	if ok := host.TryLoad("/nonexistent/path/does-not-exist.sl", &buf); ok {
		t.Fatalf("expected TryLoad to fail for a missing file")
	}
	if buf.Len() == 0 {
		t.Fatalf("expected a diagnostic to be written")
	}
}

func TestResetGlobalsRestoresInitialState(t *testing.T) {
	host := New()
	var traced []string
	if err := host.RegisterFunction("trace", func(s string) { traced = append(traced, s) }); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}
	source := `
		number counter = 0;
		function void bump(){ counter = counter + 1; }
		public function void main(){ bump(); trace(toString(counter)); }
	`
	if err := host.LoadSource(source); err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	main := host.Public("main")
	if _, err := main.Call(); err != nil {
		t.Fatalf("main.Call: %v", err)
	}
	if _, err := main.Call(); err != nil {
		t.Fatalf("main.Call: %v", err)
	}
	if err := host.ResetGlobals(); err != nil {
		t.Fatalf("ResetGlobals: %v", err)
	}
	if _, err := main.Call(); err != nil {
		t.Fatalf("main.Call: %v", err)
	}
	want := []string{"1", "2", "1"}
	if strings.Join(traced, ",") != strings.Join(want, ",") {
		t.Fatalf("traced = %v, want %v", traced, want)
	}
}
