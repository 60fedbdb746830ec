package serrors

import (
	"testing"

	"github.com/cwbudde/slscript/internal/builder"
	"github.com/cwbudde/slscript/internal/compile"
	"github.com/cwbudde/slscript/internal/exprparser"
	"github.com/cwbudde/slscript/internal/lexer"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/stmt"
)

func TestFromAnyDispatch(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"lex", &lexer.Error{Msg: "illegal character", Line: 0, Char: 1}, KindParsing},
		{"parse syntax", &exprparser.Error{Msg: "expected ')'", Line: 0, Char: 1}, KindSyntax},
		{"parse semantic", &exprparser.Error{Msg: "undeclared identifier", Semantic: true, Line: 0, Char: 1}, KindSemantic},
		{"compile", &builder.CompileError{Msg: "cannot convert string to number", Line: 0, Char: 1}, KindCompiler},
		{"runtime", &runtime.Error{Msg: "array index out of range", Line: 0, Char: 1}, KindRuntime},
		{"stmt syntax", &stmt.Error{Msg: "break outside of a loop", Line: 0, Char: 1}, KindSyntax},
		{"stmt semantic", &stmt.Error{Msg: "redeclaration of x", Semantic: true, Line: 0, Char: 1}, KindSemantic},
		{"program", &compile.Error{Msg: "redeclaration of f", Semantic: true, Line: 0, Char: 1}, KindSemantic},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			diag := FromAny(tc.err, "", "f.sl")
			if diag.Kind != tc.kind {
				t.Errorf("Kind = %s, want %s", diag.Kind, tc.kind)
			}
		})
	}
}

func TestFromAnyFallsBackToFileKind(t *testing.T) {
	diag := FromAny(errNotFound{}, "", "missing.sl")
	if diag.Kind != KindFile {
		t.Errorf("Kind = %s, want %s", diag.Kind, KindFile)
	}
}

type errNotFound struct{}

func (errNotFound) Error() string { return "open missing.sl: no such file or directory" }
