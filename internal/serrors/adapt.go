package serrors

import (
	"github.com/cwbudde/slscript/internal/builder"
	"github.com/cwbudde/slscript/internal/compile"
	"github.com/cwbudde/slscript/internal/exprparser"
	"github.com/cwbudde/slscript/internal/lexer"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/stmt"
)

// FromLex, FromParse, FromCompile, FromRuntime adapt each pipeline stage's
// own small error type into a Diagnostic carrying the stage's Kind, so a
// caller holding a generic `error` from any stage can still report it
// uniformly once it knows which stage produced it. Each stage records a
// zero-based column; the adapters add one, since Diagnostic.Char is 1-based.
func FromLex(err *lexer.Error, source, file string) *Diagnostic {
	return Wrap(KindParsing, err.Msg, err.Line, err.Char+1, source, file)
}

func FromParse(err *exprparser.Error, source, file string) *Diagnostic {
	kind := KindSyntax
	if err.Semantic {
		kind = KindSemantic
	}
	return Wrap(kind, err.Msg, err.Line, err.Char+1, source, file)
}

func FromCompile(err *builder.CompileError, source, file string) *Diagnostic {
	return Wrap(KindCompiler, err.Msg, err.Line, err.Char+1, source, file)
}

func FromRuntime(err *runtime.Error, source, file string) *Diagnostic {
	return Wrap(KindRuntime, err.Msg, err.Line, err.Char+1, source, file)
}

// FromStmt and FromProgram adapt the statement compiler's and the
// top-level program compiler's syntax/semantic errors the same way
// FromParse does for expression-level ones.
func FromStmt(err *stmt.Error, source, file string) *Diagnostic {
	kind := KindSyntax
	if err.Semantic {
		kind = KindSemantic
	}
	return Wrap(kind, err.Msg, err.Line, err.Char+1, source, file)
}

func FromProgram(err *compile.Error, source, file string) *Diagnostic {
	kind := KindSyntax
	if err.Semantic {
		kind = KindSemantic
	}
	return Wrap(kind, err.Msg, err.Line, err.Char+1, source, file)
}

// FromAny classifies err by concrete type and wraps it; a file-not-found
// or other opaque error falls back to KindFile with no position.
func FromAny(err error, source, file string) *Diagnostic {
	switch e := err.(type) {
	case *lexer.Error:
		return FromLex(e, source, file)
	case *exprparser.Error:
		return FromParse(e, source, file)
	case *builder.CompileError:
		return FromCompile(e, source, file)
	case *runtime.Error:
		return FromRuntime(e, source, file)
	case *stmt.Error:
		return FromStmt(e, source, file)
	case *compile.Error:
		return FromProgram(e, source, file)
	default:
		return &Diagnostic{Kind: KindFile, Message: err.Error(), File: file}
	}
}
