package stmt

import (
	"github.com/cwbudde/slscript/internal/builder"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/token"
)

// compileWhile parses "while ( cond ) block". Each loop counts as one
// break level and enables continue (spec.md §4.7).
func (c *Compiler) compileWhile() (Eval, error) {
	if _, err := c.p.Next(); err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	condEv, err := c.compileCondExpr()
	if err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.RParen, "')'"); err != nil {
		return nil, err
	}

	body, err := c.compileLoopBody()
	if err != nil {
		return nil, err
	}

	return func(rt *runtime.Context) (Flow, error) {
		for {
			v, err := condEv(rt)
			if err != nil {
				return Flow{}, err
			}
			if v == 0 {
				return Flow{}, nil
			}
			flow, err := body(rt)
			if err != nil {
				return Flow{}, err
			}
			if stop, out := absorbLoopFlow(flow); stop {
				return out, nil
			}
		}
	}, nil
}

// compileDoWhile parses "do block while ( cond ) ;": the body runs at
// least once before the condition is checked.
func (c *Compiler) compileDoWhile() (Eval, error) {
	if _, err := c.p.Next(); err != nil {
		return nil, err
	}
	body, err := c.compileLoopBody()
	if err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.KwWhile, "'while'"); err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	condEv, err := c.compileCondExpr()
	if err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.Semi, "';'"); err != nil {
		return nil, err
	}

	return func(rt *runtime.Context) (Flow, error) {
		for {
			flow, err := body(rt)
			if err != nil {
				return Flow{}, err
			}
			if stop, out := absorbLoopFlow(flow); stop {
				return out, nil
			}
			v, err := condEv(rt)
			if err != nil {
				return Flow{}, err
			}
			if v == 0 {
				return Flow{}, nil
			}
		}
	}, nil
}

// compileFor parses "for ( init ; cond ; incr ) block", where init is
// either an expression or a declaration (spec.md §4.7); a declaration
// initializer's scope spans the loop body.
func (c *Compiler) compileFor() (Eval, error) {
	if _, err := c.p.Next(); err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	leave := c.ctx.EnterScope()
	defer leave()

	var initDecl Eval
	var initExpr builder.VoidEval
	pk, err := c.p.Peek()
	if err != nil {
		return nil, err
	}
	switch {
	case isTypeStart(pk.Kind):
		initDecl, err = c.compileLocalDecl() // consumes the trailing ';'
		if err != nil {
			return nil, err
		}
	case pk.Kind == token.Semi:
		c.p.Next()
	default:
		exprNode, err := c.p.ParseExpr(true)
		if err != nil {
			return nil, err
		}
		initExpr, err = c.b.BuildVoid(exprNode)
		if err != nil {
			return nil, err
		}
		if _, err := c.p.Expect(token.Semi, "';'"); err != nil {
			return nil, err
		}
	}

	var condEv builder.NumberEval
	pk, err = c.p.Peek()
	if err != nil {
		return nil, err
	}
	if pk.Kind != token.Semi {
		condEv, err = c.compileCondExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := c.p.Expect(token.Semi, "';'"); err != nil {
		return nil, err
	}

	var incrEv builder.VoidEval
	pk, err = c.p.Peek()
	if err != nil {
		return nil, err
	}
	if pk.Kind != token.RParen {
		incrNode, err := c.p.ParseExpr(true)
		if err != nil {
			return nil, err
		}
		incrEv, err = c.b.BuildVoid(incrNode)
		if err != nil {
			return nil, err
		}
	}
	if _, err := c.p.Expect(token.RParen, "')'"); err != nil {
		return nil, err
	}

	body, err := c.compileLoopBody()
	if err != nil {
		return nil, err
	}

	return func(rt *runtime.Context) (Flow, error) {
		restore := rt.EnterScope()
		defer restore()
		if initDecl != nil {
			if _, err := initDecl(rt); err != nil {
				return Flow{}, err
			}
		} else if initExpr != nil {
			if err := initExpr(rt); err != nil {
				return Flow{}, err
			}
		}
		for {
			if condEv != nil {
				v, err := condEv(rt)
				if err != nil {
					return Flow{}, err
				}
				if v == 0 {
					return Flow{}, nil
				}
			}
			flow, err := body(rt)
			if err != nil {
				return Flow{}, err
			}
			if stop, out := absorbLoopFlow(flow); stop {
				return out, nil
			}
			if incrEv != nil {
				if err := incrEv(rt); err != nil {
					return Flow{}, err
				}
			}
		}
	}, nil
}

// compileLoopBody compiles a loop's block under one extra break and
// continue level.
func (c *Compiler) compileLoopBody() (Eval, error) {
	c.breakDepth++
	c.loopDepth++
	body, err := c.CompileBlock()
	c.loopDepth--
	c.breakDepth--
	return body, err
}

// absorbLoopFlow applies a loop frame's break/continue/return handling:
// FlowNormal/FlowContinue let the loop proceed (stop=false); FlowBreak is
// absorbed when it has reached its target level, otherwise decremented and
// re-raised; FlowReturn always propagates.
func absorbLoopFlow(flow Flow) (stop bool, out Flow) {
	switch flow.Kind {
	case FlowBreak:
		if flow.BreakLevel <= 1 {
			return true, Flow{}
		}
		return true, Flow{Kind: FlowBreak, BreakLevel: flow.BreakLevel - 1}
	case FlowReturn:
		return true, flow
	default: // FlowNormal, FlowContinue
		return false, Flow{}
	}
}
