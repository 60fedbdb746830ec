package stmt

import (
	"github.com/cwbudde/slscript/internal/builder"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/token"
)

// compileIf parses "if ( [decls;] cond ) block [elif (cond) block]* [else
// block]" (spec.md §4.7). The optional declarations scope over the whole
// chain, so the scope they open stays open through every elif/else block.
// A branch that does not start with '{' is a single statement in its own
// scope.
func (c *Compiler) compileIf() (Eval, error) {
	if _, err := c.p.Next(); err != nil {
		return nil, err
	}
	branchBody := func() (Eval, error) {
		pk, err := c.p.Peek()
		if err != nil {
			return nil, err
		}
		if pk.Kind == token.LBrace {
			return c.CompileBlock()
		}
		leave := c.ctx.EnterScope()
		defer leave()
		s, err := c.CompileStatement()
		if err != nil {
			return nil, err
		}
		return c.runBlock([]Eval{s}), nil
	}
	if _, err := c.p.Expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	leave := c.ctx.EnterScope()
	defer leave()

	decls, err := c.compileCondDecls()
	if err != nil {
		return nil, err
	}
	condEv, err := c.compileCondExpr()
	if err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	thenBody, err := branchBody()
	if err != nil {
		return nil, err
	}

	type branch struct {
		cond builder.NumberEval
		body Eval
	}
	var elifs []branch
	for {
		pk, err := c.p.Peek()
		if err != nil {
			return nil, err
		}
		if pk.Kind != token.KwElif {
			break
		}
		c.p.Next()
		if _, err := c.p.Expect(token.LParen, "'('"); err != nil {
			return nil, err
		}
		ev, err := c.compileCondExpr()
		if err != nil {
			return nil, err
		}
		if _, err := c.p.Expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		body, err := branchBody()
		if err != nil {
			return nil, err
		}
		elifs = append(elifs, branch{cond: ev, body: body})
	}

	var elseBody Eval
	pk, err := c.p.Peek()
	if err != nil {
		return nil, err
	}
	if pk.Kind == token.KwElse {
		c.p.Next()
		elseBody, err = branchBody()
		if err != nil {
			return nil, err
		}
	}

	return func(rt *runtime.Context) (Flow, error) {
		restore := rt.EnterScope()
		defer restore()
		for _, d := range decls {
			if _, err := d(rt); err != nil {
				return Flow{}, err
			}
		}
		v, err := condEv(rt)
		if err != nil {
			return Flow{}, err
		}
		if v != 0 {
			return thenBody(rt)
		}
		for _, br := range elifs {
			v, err := br.cond(rt)
			if err != nil {
				return Flow{}, err
			}
			if v != 0 {
				return br.body(rt)
			}
		}
		if elseBody != nil {
			return elseBody(rt)
		}
		return Flow{}, nil
	}, nil
}

// compileCondDecls parses zero or more "T name = expr;" declarations
// immediately following a construct's opening '(', stopping at the first
// token that doesn't start a type.
func (c *Compiler) compileCondDecls() ([]Eval, error) {
	var decls []Eval
	for {
		pk, err := c.p.Peek()
		if err != nil {
			return nil, err
		}
		if !isTypeStart(pk.Kind) {
			return decls, nil
		}
		d, err := c.compileLocalDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
}

// compileCondExpr parses a number-typed condition expression (the
// terminal part of an if/elif/while/switch header).
func (c *Compiler) compileCondExpr() (builder.NumberEval, error) {
	n, err := c.p.ParseExpr(true)
	if err != nil {
		return nil, err
	}
	if n.Type != sltype.NumberType {
		return nil, semErr(n.Line, n.Char, "condition must be a number")
	}
	return c.b.BuildNumber(n)
}

// compileSwitch parses "switch ( [decls;] number-expr ) { case/default
// labels mixed with statements }" (spec.md §4.7). Declaring a local
// directly in the switch body is a syntax error; cases fall through until
// an explicit break.
func (c *Compiler) compileSwitch() (Eval, error) {
	if _, err := c.p.Next(); err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	leave := c.ctx.EnterScope()
	defer leave()

	decls, err := c.compileCondDecls()
	if err != nil {
		return nil, err
	}
	condEv, err := c.compileCondExpr()
	if err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	if _, err := c.p.Expect(token.LBrace, "'{'"); err != nil {
		return nil, err
	}

	c.breakDepth++
	defer func() { c.breakDepth-- }()

	type label = struct {
		isDefault bool
		value     float64
		index     int
	}
	var labels []label
	var body []Eval
	for {
		pk, err := c.p.Peek()
		if err != nil {
			return nil, err
		}
		switch {
		case pk.Kind == token.RBrace:
			c.p.Next()
			return c.runSwitch(decls, condEv, labels, body), nil
		case pk.Kind == token.KwCase:
			c.p.Next()
			numTok, err := c.p.Expect(token.Number, "a case number")
			if err != nil {
				return nil, err
			}
			if _, err := c.p.Expect(token.Colon, "':'"); err != nil {
				return nil, err
			}
			labels = append(labels, label{value: numTok.Num, index: len(body)})
		case pk.Kind == token.KwDefault:
			c.p.Next()
			if _, err := c.p.Expect(token.Colon, "':'"); err != nil {
				return nil, err
			}
			labels = append(labels, label{isDefault: true, index: len(body)})
		case isTypeStart(pk.Kind):
			return nil, synErr(pk.Line, pk.Char, "declarations are not allowed directly in a switch body")
		default:
			s, err := c.CompileStatement()
			if err != nil {
				return nil, err
			}
			body = append(body, s)
		}
	}
}

func (c *Compiler) runSwitch(decls []Eval, condEv builder.NumberEval, labels []struct {
	isDefault bool
	value     float64
	index     int
}, body []Eval) Eval {
	return func(rt *runtime.Context) (Flow, error) {
		restore := rt.EnterScope()
		defer restore()
		for _, d := range decls {
			if _, err := d(rt); err != nil {
				return Flow{}, err
			}
		}
		v, err := condEv(rt)
		if err != nil {
			return Flow{}, err
		}
		start, defaultIdx := -1, -1
		for _, l := range labels {
			if l.isDefault {
				defaultIdx = l.index
				continue
			}
			if l.value == v {
				start = l.index
				break
			}
		}
		if start == -1 {
			start = defaultIdx
		}
		if start == -1 {
			return Flow{}, nil
		}
		for i := start; i < len(body); i++ {
			flow, err := body[i](rt)
			if err != nil {
				return Flow{}, err
			}
			switch flow.Kind {
			case FlowNormal:
				continue
			case FlowBreak:
				if flow.BreakLevel <= 1 {
					return Flow{}, nil
				}
				return Flow{Kind: FlowBreak, BreakLevel: flow.BreakLevel - 1}, nil
			default: // continue/return propagate through a switch unabsorbed
				return flow, nil
			}
		}
		return Flow{}, nil
	}
}
