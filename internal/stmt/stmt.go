// Package stmt implements the statement compiler (spec.md §4.7): it
// parses SL's statement grammar directly against an exprparser.Parser
// (sharing its token cursor and compiler context) and lowers each
// statement to a closure over internal/runtime, mirroring how
// internal/builder lowers expressions.
package stmt

import (
	"fmt"

	"github.com/cwbudde/slscript/internal/builder"
	"github.com/cwbudde/slscript/internal/compctx"
	"github.com/cwbudde/slscript/internal/exprparser"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/token"
)

// FlowKind classifies how a statement's execution completed.
type FlowKind int

const (
	FlowNormal FlowKind = iota
	FlowBreak
	FlowContinue
	FlowReturn
)

// Flow is the control-flow signal a compiled statement hands back to its
// caller: normal completion, or a break/continue/return unwinding toward
// the construct that must absorb it.
type Flow struct {
	Kind FlowKind
	// BreakLevel is the number of remaining loop/switch frames a FlowBreak
	// must still exit, counting this one (spec.md §4.7's "break N").
	BreakLevel int
}

// Eval is a compiled statement.
type Eval func(rt *runtime.Context) (Flow, error)

// Error is a statement-compiler syntax/semantic failure (spec.md §7).
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

func synErr(line, char int, format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...), Line: line, Char: char}
}

// Compiler compiles statements against the shared expression parser and
// builder, tracking the "(break-level, can-continue, return-type)" record
// spec.md §4.7 carries down each recursive call.
type Compiler struct {
	p   *exprparser.Parser
	b   *builder.Builder
	ctx *compctx.Context

	breakDepth int // nested loops+switches enclosing the current point
	loopDepth  int // nested loops only; continue is valid when > 0
	retType    *sltype.Type
}

// New creates a statement compiler for a function body (or top-level
// sequence) whose return type is retType (sltype.VoidType at top level).
func New(p *exprparser.Parser, b *builder.Builder, retType *sltype.Type) *Compiler {
	return &Compiler{p: p, b: b, ctx: p.Ctx(), retType: retType}
}

func isTypeStart(k token.Kind) bool {
	switch k {
	case token.KwVoid, token.KwNumber, token.KwString, token.LBracket:
		return true
	}
	return false
}

// CompileStatement parses and compiles exactly one statement.
func (c *Compiler) CompileStatement() (Eval, error) {
	t, err := c.p.Peek()
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case token.LBrace:
		return c.CompileBlock()
	case token.KwIf:
		return c.compileIf()
	case token.KwSwitch:
		return c.compileSwitch()
	case token.KwWhile:
		return c.compileWhile()
	case token.KwDo:
		return c.compileDoWhile()
	case token.KwFor:
		return c.compileFor()
	case token.KwBreak:
		return c.compileBreak()
	case token.KwContinue:
		return c.compileContinue()
	case token.KwReturn:
		return c.compileReturn()
	}
	if isTypeStart(t.Kind) {
		return c.compileLocalDecl()
	}
	return c.compileSimple()
}

// compileSimple builds a "simple statement": one void-result expression
// terminated by ';'.
func (c *Compiler) compileSimple() (Eval, error) {
	expr, err := c.p.ParseExpr(false)
	if err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.Semi, "';'"); err != nil {
		return nil, err
	}
	ev, err := c.b.BuildVoid(expr)
	if err != nil {
		return nil, err
	}
	return func(rt *runtime.Context) (Flow, error) {
		if err := ev(rt); err != nil {
			return Flow{}, err
		}
		return Flow{}, nil
	}, nil
}

// CompileBlock parses "{ stmt... }", opening a fresh lexical and runtime
// scope that is discarded in full on every exit path.
func (c *Compiler) CompileBlock() (Eval, error) {
	if _, err := c.p.Expect(token.LBrace, "'{'"); err != nil {
		return nil, err
	}
	leave := c.ctx.EnterScope()
	var body []Eval
	for {
		pk, err := c.p.Peek()
		if err != nil {
			leave()
			return nil, err
		}
		if pk.Kind == token.RBrace {
			c.p.Next()
			break
		}
		s, err := c.CompileStatement()
		if err != nil {
			leave()
			return nil, err
		}
		body = append(body, s)
	}
	leave()
	return c.runBlock(body), nil
}

func (c *Compiler) runBlock(body []Eval) Eval {
	return func(rt *runtime.Context) (Flow, error) {
		restore := rt.EnterScope()
		defer restore()
		for _, s := range body {
			flow, err := s(rt)
			if err != nil {
				return Flow{}, err
			}
			if flow.Kind != FlowNormal {
				return flow, nil
			}
		}
		return Flow{}, nil
	}
}
