// Package compile ties the tokenizer, expression parser, typed builder,
// and statement compiler into the single entry point spec.md §6 describes:
// a source file is a sequence of (public or non-public) function
// definitions and top-level variable declarations, terminated by ';'.
//
// Functions may call each other regardless of declaration order, so
// Compile runs two passes over the token stream: scanHeaders registers
// every function's name, type, and public/private status up front (so a
// forward call resolves via compctx.Context.Find), then the main pass
// compiles each body against the already-populated function table.
package compile

import (
	"fmt"

	"github.com/cwbudde/slscript/internal/builder"
	"github.com/cwbudde/slscript/internal/compctx"
	"github.com/cwbudde/slscript/internal/exprparser"
	"github.com/cwbudde/slscript/internal/lexer"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/stmt"
	"github.com/cwbudde/slscript/internal/token"
	"github.com/cwbudde/slscript/internal/value"
)

// Error is a program-level syntax/semantic failure raised outside any
// expression or statement (a malformed function header, a duplicate
// top-level name).
type Error struct {
	Semantic bool
	Msg      string
	Line     int
	Char     int
}

func (e *Error) Error() string {
	kind := "syntax error"
	if e.Semantic {
		kind = "semantic error"
	}
	return fmt.Sprintf("%s: %s", kind, e.Msg)
}

func semErr(line, char int, format string, args ...any) error {
	return &Error{Semantic: true, Msg: fmt.Sprintf(format, args...), Line: line, Char: char}
}

// paramSpec is one parsed function parameter: its (possibly synthetic,
// spec.md §6 "@0, @1, ...") name, type, and by-reference marker.
type paramSpec struct {
	name  string
	typ   *sltype.Type
	byRef bool
}

// funcHeader is a function declaration's signature, captured during the
// header-scanning pass.
type funcHeader struct {
	public bool
	name   string
	result *sltype.Type
	params []paramSpec
}

// NewContext creates an empty compiler context over a fresh type
// registry. A host module (sllib) calls this, registers its external
// functions into the returned context (so they claim the low function-
// table indices), and then passes it to Compile.
func NewContext() *compctx.Context {
	return compctx.New(sltype.NewRegistry())
}

// CompileStandalone compiles source with no externally pre-registered
// functions, for callers (tests, a bare script runner) that need no host
// interop.
func CompileStandalone(source string) (*runtime.Context, *compctx.Context, error) {
	ctx := NewContext()
	rt, err := Compile(source, ctx, nil)
	return rt, ctx, err
}

// Compile parses source against ctx (which may already hold host-
// registered external functions, spec.md §4.10 "Registration") and
// returns a runtime context with its function table — external entries
// first, in the same order they occupy in ctx, followed by the script's
// own functions — and global initializer list installed. Callers run
// rt.Initialize once any public-function callers have been patched in.
func Compile(source string, ctx *compctx.Context, external []runtime.Func) (*runtime.Context, error) {
	headers, err := scanHeaders(source, ctx)
	if err != nil {
		return nil, err
	}

	p := exprparser.New(lexer.New(source), ctx)
	b := builder.New(ctx)

	rt := runtime.New()
	base := len(external)
	rt.Funcs = make([]runtime.Func, base+len(headers))
	copy(rt.Funcs, external)
	var inits []runtime.Init

	headerIdx := 0
	for {
		pk, err := p.Peek()
		if err != nil {
			return nil, err
		}
		if pk.Kind == token.EOF {
			break
		}
		if pk.Kind == token.KwPublic || pk.Kind == token.KwFunction {
			if pk.Kind == token.KwPublic {
				if _, err := p.Next(); err != nil {
					return nil, err
				}
			}
			h := headers[headerIdx]
			fn, err := compileFunctionBody(p, b, ctx, h)
			if err != nil {
				return nil, err
			}
			rt.Funcs[base+headerIdx] = fn
			if h.public {
				rt.PublicIndex[h.name] = base + headerIdx
			}
			headerIdx++
			continue
		}
		decls, err := compileGlobalDecl(p, b, ctx)
		if err != nil {
			return nil, err
		}
		inits = append(inits, decls...)
	}

	rt.SetInits(inits)
	return rt, nil
}

// scanHeaders runs a first pass over an independent token stream (same
// compiler context, so types and function-table entries persist), parsing
// just enough of each construct to register every function's signature
// and skip its body, so later bodies can call functions declared after
// them in the source.
func scanHeaders(source string, ctx *compctx.Context) ([]funcHeader, error) {
	p := exprparser.New(lexer.New(source), ctx)
	var headers []funcHeader
	for {
		pk, err := p.Peek()
		if err != nil {
			return nil, err
		}
		if pk.Kind == token.EOF {
			break
		}
		public := false
		if pk.Kind == token.KwPublic {
			p.Next()
			public = true
			pk, err = p.Peek()
			if err != nil {
				return nil, err
			}
			if pk.Kind != token.KwFunction {
				return nil, semErr(pk.Line, pk.Char, "expected 'function' after 'public'")
			}
		}
		if pk.Kind == token.KwFunction {
			name, result, params, err := parseFuncSignature(p)
			if err != nil {
				return nil, err
			}
			if !ctx.CanDeclare(name) {
				return nil, semErr(pk.Line, pk.Char, "redeclaration of %q", name)
			}
			fnType := ctx.GetHandle(&sltype.Type{Kind: sltype.Function, Result: result, Params: sltypeParams(params)})
			ctx.CreateFunction(name, fnType)
			headers = append(headers, funcHeader{public: public, name: name, result: result, params: params})
			if err := skipBlock(p); err != nil {
				return nil, err
			}
			continue
		}
		if err := skipToSemi(p); err != nil {
			return nil, err
		}
	}
	return headers, nil
}

// ParseSignature parses a standalone "function R name(T1, T2, ...)" text
// against the given context and registers name into its function table
// (spec.md §4.10 "Registration": the host's synthetic declaration for an
// external function, fed through the same tokenizer+parser used for
// script source), returning the assigned function-table index and the
// parsed result/parameter types.
func ParseSignature(decl string, ctx *compctx.Context) (index int, result *sltype.Type, params []sltype.Param, err error) {
	p := exprparser.New(lexer.New(decl), ctx)
	name, res, ps, err := parseFuncSignature(p)
	if err != nil {
		return 0, nil, nil, err
	}
	if !ctx.CanDeclare(name) {
		return 0, nil, nil, semErr(0, 0, "redeclaration of %q", name)
	}
	paramTypes := sltypeParams(ps)
	fnType := ctx.GetHandle(&sltype.Type{Kind: sltype.Function, Result: res, Params: paramTypes})
	id := ctx.CreateFunction(name, fnType)
	return id.Index, res, paramTypes, nil
}

func sltypeParams(params []paramSpec) []sltype.Param {
	out := make([]sltype.Param, len(params))
	for i, ps := range params {
		out[i] = sltype.Param{Type: ps.typ, ByRef: ps.byRef}
	}
	return out
}

// parseFuncSignature parses "function R name(T1 [&] [name1], ...)",
// assigning synthetic parameter names "@0", "@1", ... where the source
// left one anonymous (spec.md §6).
func parseFuncSignature(p *exprparser.Parser) (name string, result *sltype.Type, params []paramSpec, err error) {
	if _, err = p.Next(); err != nil { // 'function'
		return
	}
	result, err = p.ParseType()
	if err != nil {
		return
	}
	nameTok, err := p.Expect(token.Ident, "a function name")
	if err != nil {
		return
	}
	name = nameTok.Name
	if _, err = p.Expect(token.LParen, "'('"); err != nil {
		return
	}
	first, peekErr := p.Peek()
	if peekErr != nil {
		err = peekErr
		return
	}
	if first.Kind == token.RParen {
		p.Next()
		return
	}
	i := 0
	for {
		var pt *sltype.Type
		pt, err = p.ParseType()
		if err != nil {
			return
		}
		byRef := false
		var nt token.Token
		nt, err = p.Peek()
		if err != nil {
			return
		}
		if nt.Kind == token.Amp {
			p.Next()
			byRef = true
		}
		nt, err = p.Peek()
		if err != nil {
			return
		}
		pname := fmt.Sprintf("@%d", i)
		if nt.Kind == token.Ident {
			p.Next()
			pname = nt.Name
		}
		params = append(params, paramSpec{name: pname, typ: pt, byRef: byRef})
		i++

		nt, err = p.Peek()
		if err != nil {
			return
		}
		if nt.Kind == token.Comma {
			p.Next()
			continue
		}
		break
	}
	_, err = p.Expect(token.RParen, "')'")
	return
}

// skipBlock consumes a balanced "{ ... }" body, brace-counting so a
// nested block doesn't end the skip early.
func skipBlock(p *exprparser.Parser) error {
	if _, err := p.Expect(token.LBrace, "'{'"); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		t, err := p.Next()
		if err != nil {
			return err
		}
		switch t.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		case token.EOF:
			return semErr(t.Line, t.Char, "unexpected end of input inside function body")
		}
	}
	return nil
}

// skipToSemi consumes a top-level variable declaration without
// interpreting it, stopping at the ';' that closes it at bracket depth 0
// (an initializer list literal can itself contain '{'/'}').
func skipToSemi(p *exprparser.Parser) error {
	depth := 0
	for {
		t, err := p.Next()
		if err != nil {
			return err
		}
		switch t.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		case token.EOF:
			return semErr(t.Line, t.Char, "unexpected end of input in top-level declaration")
		case token.Semi:
			if depth == 0 {
				return nil
			}
		}
	}
}

// compileFunctionBody re-parses h's already-registered signature (to
// advance the shared token cursor and bind parameter names into a fresh
// function scope) and compiles its body, wrapping the result so that
// falling off the end of a non-void function stores the type's default
// value in the return slot (spec.md §4.7 "Return").
func compileFunctionBody(p *exprparser.Parser, b *builder.Builder, ctx *compctx.Context, h funcHeader) (runtime.Func, error) {
	if _, _, _, err := parseFuncSignature(p); err != nil {
		return runtime.Func{}, err
	}

	leave := ctx.EnterFunction()
	for _, ps := range h.params {
		ctx.CreateParam(ps.name, ps.typ)
	}
	body, err := stmt.New(p, b, h.result).CompileBlock()
	leave()
	if err != nil {
		return runtime.Func{}, err
	}

	result := h.result
	return runtime.Func{
		Name: h.name,
		Body: func(rt *runtime.Context) error {
			flow, err := body(rt)
			if err != nil {
				return err
			}
			if flow.Kind != stmt.FlowReturn && !result.IsVoid() {
				value.Set(rt.RetVal(), value.Default(result))
			}
			return nil
		},
	}, nil
}
