package stmt

import (
	"github.com/cwbudde/slscript/internal/exprparser"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/token"
	"github.com/cwbudde/slscript/internal/value"
)

// compileBreak parses "break" or "break N" (spec.md §4.7): N must be a
// literal positive integer not exceeding the current nested break depth.
func (c *Compiler) compileBreak() (Eval, error) {
	kw, err := c.p.Next() // 'break'
	if err != nil {
		return nil, err
	}
	level := 1
	pk, err := c.p.Peek()
	if err != nil {
		return nil, err
	}
	if pk.Kind == token.Number {
		c.p.Next()
		n := int(pk.Num)
		if float64(n) != pk.Num || n <= 0 {
			return nil, synErr(pk.Line, pk.Char, "break level must be a positive integer literal")
		}
		level = n
	}
	if level > c.breakDepth {
		return nil, synErr(kw.Line, kw.Char, "break %d exceeds the current nesting depth of %d", level, c.breakDepth)
	}
	if _, err := c.p.Expect(token.Semi, "';'"); err != nil {
		return nil, err
	}
	return func(*runtime.Context) (Flow, error) {
		return Flow{Kind: FlowBreak, BreakLevel: level}, nil
	}, nil
}

// compileContinue parses "continue"; valid only inside a loop, not a bare
// switch (spec.md §4.7).
func (c *Compiler) compileContinue() (Eval, error) {
	kw, err := c.p.Next() // 'continue'
	if err != nil {
		return nil, err
	}
	if c.loopDepth == 0 {
		return nil, synErr(kw.Line, kw.Char, "continue outside of a loop")
	}
	if _, err := c.p.Expect(token.Semi, "';'"); err != nil {
		return nil, err
	}
	return func(*runtime.Context) (Flow, error) {
		return Flow{Kind: FlowContinue}, nil
	}, nil
}

// compileReturn parses "return expr;" or bare "return;" depending on the
// enclosing function's declared return type.
func (c *Compiler) compileReturn() (Eval, error) {
	kw, err := c.p.Next() // 'return'
	if err != nil {
		return nil, err
	}
	if c.retType.IsVoid() {
		if _, err := c.p.Expect(token.Semi, "';'"); err != nil {
			return nil, err
		}
		return func(*runtime.Context) (Flow, error) {
			return Flow{Kind: FlowReturn}, nil
		}, nil
	}

	expr, err := c.p.ParseExpr(false)
	if err != nil {
		return nil, err
	}
	if !convertibleOrSame(expr, c.retType) {
		return nil, semErr(kw.Line, kw.Char, "cannot return %s from a function returning %s", expr.Type, c.retType)
	}
	exprparser.CoerceInitList(expr, c.retType)
	ev, err := c.b.Build(expr)
	if err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.Semi, "';'"); err != nil {
		return nil, err
	}
	return func(rt *runtime.Context) (Flow, error) {
		v, err := ev(rt)
		if err != nil {
			return Flow{}, err
		}
		value.Set(rt.RetVal(), v)
		return Flow{Kind: FlowReturn}, nil
	}, nil
}
