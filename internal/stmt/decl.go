package stmt

import (
	"github.com/cwbudde/slscript/internal/ast"
	"github.com/cwbudde/slscript/internal/builder"
	"github.com/cwbudde/slscript/internal/exprparser"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/token"
	"github.com/cwbudde/slscript/internal/value"
)

// declInit is one declared name's compiled initializer: nil when the name
// has no initializer and should take its type's default value.
type declInit struct {
	ev builder.Eval
}

// compileLocalDecl parses "T name1 [= expr | (expr)], name2 [...], ... ;"
// (spec.md §4.7 "Local declarations"). Declaring void is a semantic error.
// Each declared local is pushed on entry to the statement and lives until
// the enclosing scope exits.
func (c *Compiler) compileLocalDecl() (Eval, error) {
	typeTok, err := c.p.Peek()
	if err != nil {
		return nil, err
	}
	t, err := c.p.ParseType()
	if err != nil {
		return nil, err
	}
	if t.IsVoid() {
		return nil, semErr(typeTok.Line, typeTok.Char, "cannot declare a void variable")
	}

	var inits []declInit
	for {
		nameTok, err := c.p.Expect(token.Ident, "an identifier")
		if err != nil {
			return nil, err
		}
		if !c.ctx.CanDeclare(nameTok.Name) {
			return nil, semErr(nameTok.Line, nameTok.Char, "redeclaration of %q", nameTok.Name)
		}

		var initNode *ast.Node
		pk, err := c.p.Peek()
		if err != nil {
			return nil, err
		}
		switch pk.Kind {
		case token.Eq:
			c.p.Next()
			initNode, err = c.p.ParseExpr(false)
			if err != nil {
				return nil, err
			}
		case token.LParen:
			c.p.Next()
			initNode, err = c.p.ParseExpr(true)
			if err != nil {
				return nil, err
			}
			if _, err := c.p.Expect(token.RParen, "')'"); err != nil {
				return nil, err
			}
		}

		var di declInit
		if initNode != nil {
			if !convertibleOrSame(initNode, t) {
				return nil, semErr(nameTok.Line, nameTok.Char, "cannot initialize %s with %s", t, initNode.Type)
			}
			exprparser.CoerceInitList(initNode, t)
			ev, err := c.b.Build(initNode)
			if err != nil {
				return nil, err
			}
			di = declInit{ev: ev}
		}
		inits = append(inits, di)
		c.ctx.CreateIdentifier(nameTok.Name, t)

		nt, err := c.p.Peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind == token.Comma {
			c.p.Next()
			continue
		}
		break
	}
	if _, err := c.p.Expect(token.Semi, "';'"); err != nil {
		return nil, err
	}

	declType := t
	return func(rt *runtime.Context) (Flow, error) {
		for _, di := range inits {
			if di.ev == nil {
				rt.PushLocal(value.Default(declType))
				continue
			}
			v, err := di.ev(rt)
			if err != nil {
				return Flow{}, err
			}
			rt.PushLocal(value.Clone(v))
		}
		return Flow{}, nil
	}, nil
}

// convertibleOrSame duplicates exprparser's unexported conversion check at
// the boundary between packages (same handle, or number->string, or
// init-list structural match). exprparser.ParseExpr has no target type, so
// this is the check that an initializer fits the declared type.
func convertibleOrSame(n *ast.Node, dst *sltype.Type) bool {
	if dst.Kind == sltype.Void {
		return true
	}
	if n.Type == dst {
		return true
	}
	if n.Type.Kind == sltype.InitList {
		return initListFits(n.Type, dst)
	}
	if n.Type == sltype.NumberType && dst == sltype.StringType {
		return true
	}
	return false
}

func initListFits(src, dst *sltype.Type) bool {
	switch dst.Kind {
	case sltype.Array:
		for _, e := range src.Elems {
			if e.Kind == sltype.InitList {
				if !initListFits(e, dst.Elem) {
					return false
				}
				continue
			}
			if e != dst.Elem && !(e == sltype.NumberType && dst.Elem == sltype.StringType) {
				return false
			}
		}
		return true
	case sltype.Tuple:
		if len(src.Elems) != len(dst.Elems) {
			return false
		}
		for i, e := range src.Elems {
			if e.Kind == sltype.InitList {
				if !initListFits(e, dst.Elems[i]) {
					return false
				}
				continue
			}
			if e != dst.Elems[i] && !(e == sltype.NumberType && dst.Elems[i] == sltype.StringType) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
