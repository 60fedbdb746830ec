package serrors

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestDiagnosticSnapshots pins the exact formatted rendering of one
// diagnostic per Kind, mirroring the teacher's go-snaps-backed fixture
// tests for interpreter output.
func TestDiagnosticSnapshots(t *testing.T) {
	src := "number a = 1\nnumbr b = 2;\n"
	cases := map[string]*Diagnostic{
		"file":     {Kind: KindFile, Message: "open missing.sl: no such file or directory", File: "missing.sl"},
		"parsing":  Wrap(KindParsing, "illegal character '@'", 1, 0, src, "f.sl"),
		"syntax":   Wrap(KindSyntax, "expected ';'", 1, 11, src, "f.sl"),
		"semantic": Wrap(KindSemantic, "undeclared identifier \"b\"", 1, 0, src, "f.sl"),
		"compiler": Wrap(KindCompiler, "cannot convert string to number", 1, 0, src, "f.sl"),
		"runtime":  Wrap(KindRuntime, "array index out of range", 0, 0, "", ""),
	}

	for name, d := range cases {
		snaps.MatchSnapshot(t, name+"_output", d.Format(false))
	}
}
