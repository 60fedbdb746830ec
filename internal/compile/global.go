package compile

import (
	"github.com/cwbudde/slscript/internal/ast"
	"github.com/cwbudde/slscript/internal/builder"
	"github.com/cwbudde/slscript/internal/compctx"
	"github.com/cwbudde/slscript/internal/exprparser"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/token"
	"github.com/cwbudde/slscript/internal/value"
)

// compileGlobalDecl parses "T name1 [= expr | (expr)], name2, ... ;" at
// top level (spec.md §6 "Program structure"), producing one
// runtime.Init per declared name; each runs in declaration order the
// first time (and every time) Context.Initialize executes (spec.md §4.9).
func compileGlobalDecl(p *exprparser.Parser, b *builder.Builder, ctx *compctx.Context) ([]runtime.Init, error) {
	typeTok, err := p.Peek()
	if err != nil {
		return nil, err
	}
	t, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	if t.IsVoid() {
		return nil, semErr(typeTok.Line, typeTok.Char, "cannot declare a void variable")
	}

	var inits []runtime.Init
	for {
		nameTok, err := p.Expect(token.Ident, "an identifier")
		if err != nil {
			return nil, err
		}
		if !ctx.CanDeclare(nameTok.Name) {
			return nil, semErr(nameTok.Line, nameTok.Char, "redeclaration of %q", nameTok.Name)
		}

		var initNode *ast.Node
		pk, err := p.Peek()
		if err != nil {
			return nil, err
		}
		switch pk.Kind {
		case token.Eq:
			p.Next()
			initNode, err = p.ParseExpr(false)
			if err != nil {
				return nil, err
			}
		case token.LParen:
			p.Next()
			initNode, err = p.ParseExpr(true)
			if err != nil {
				return nil, err
			}
			if _, err := p.Expect(token.RParen, "')'"); err != nil {
				return nil, err
			}
		}

		var ev builder.Eval
		if initNode != nil {
			if !globalConvertibleOrSame(initNode, t) {
				return nil, semErr(nameTok.Line, nameTok.Char, "cannot initialize %s with %s", t, initNode.Type)
			}
			exprparser.CoerceInitList(initNode, t)
			ev, err = b.Build(initNode)
			if err != nil {
				return nil, err
			}
		}

		id := ctx.CreateIdentifier(nameTok.Name, t)
		idx, declType := id.Index, t
		inits = append(inits, runtime.Init{
			Index: idx,
			Eval: func(rt *runtime.Context) (*value.Var, error) {
				if ev == nil {
					return value.Default(declType), nil
				}
				v, err := ev(rt)
				if err != nil {
					return nil, err
				}
				return value.Clone(v), nil
			},
		})

		nt, err := p.Peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind == token.Comma {
			p.Next()
			continue
		}
		break
	}
	if _, err := p.Expect(token.Semi, "';'"); err != nil {
		return nil, err
	}
	return inits, nil
}

// globalConvertibleOrSame duplicates internal/stmt's package-boundary
// conversion check (see stmt/decl.go's convertibleOrSame).
// exprparser.ParseExpr has no target type, so this is the check that a
// global's initializer fits its declared type.
func globalConvertibleOrSame(n *ast.Node, dst *sltype.Type) bool {
	if dst.Kind == sltype.Void {
		return true
	}
	if n.Type == dst {
		return true
	}
	if n.Type.Kind == sltype.InitList {
		return globalInitListFits(n.Type, dst)
	}
	return n.Type == sltype.NumberType && dst == sltype.StringType
}

func globalInitListFits(src, dst *sltype.Type) bool {
	switch dst.Kind {
	case sltype.Array:
		for _, e := range src.Elems {
			if e.Kind == sltype.InitList {
				if !globalInitListFits(e, dst.Elem) {
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
				if !globalInitListFits(e, dst.Elems[i]) {
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
