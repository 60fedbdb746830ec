package builder

import (
	"github.com/cwbudde/slscript/internal/ast"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/value"
)

// buildInitList builds a "{ e1, e2, ... }" literal. By the time it reaches
// here, exprparser.CoerceInitList has already rewritten n.Type to the
// concrete array or tuple type the surrounding assignment, call argument,
// or ternary branch demanded of it.
func (b *Builder) buildInitList(n *ast.Node) (Eval, error) {
	switch n.Type.Kind {
	case sltype.Array:
		elems := make([]Eval, len(n.Children))
		for i, c := range n.Children {
			ev, err := b.build(c)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		elemType := n.Type.Elem
		return func(rt *runtime.Context) (*value.Var, error) {
			arr := value.NewArray(elemType)
			elts := make([]*value.Var, len(elems))
			for i, ev := range elems {
				v, err := ev(rt)
				if err != nil {
					return nil, err
				}
				elts[i] = value.Clone(v)
			}
			arr.Arr.Elts = elts
			return arr, nil
		}, nil

	case sltype.Tuple:
		elems := make([]Eval, len(n.Children))
		for i, c := range n.Children {
			ev, err := b.build(c)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return func(rt *runtime.Context) (*value.Var, error) {
			tup := value.NewTuple(len(elems))
			for i, ev := range elems {
				v, err := ev(rt)
				if err != nil {
					return nil, err
				}
				tup.Tup.Elts[i] = value.Clone(v)
			}
			return tup, nil
		}, nil

	default:
		return nil, compileErrf(n, "init list was never coerced to a concrete type")
	}
}

// buildSizeof builds "sizeof x": the element count for an array, 1 for
// anything else (spec.md §4.6).
func (b *Builder) buildSizeof(n *ast.Node) (Eval, error) {
	operand := n.Children[0]
	if operand.Type.Kind != sltype.Array {
		return func(*runtime.Context) (*value.Var, error) { return value.NewNumber(1), nil }, nil
	}
	arrEv, err := b.BuildArray(operand)
	if err != nil {
		return nil, err
	}
	return func(rt *runtime.Context) (*value.Var, error) {
		arr, err := arrEv(rt)
		if err != nil {
			return nil, err
		}
		return value.NewNumber(float64(len(arr.Elts))), nil
	}, nil
}

// buildToString builds "toString x": dispatches on the operand's static
// type to the conversion routine in package value (spec.md §4.8).
func (b *Builder) buildToString(n *ast.Node) (Eval, error) {
	ev, err := b.build(n.Children[0])
	if err != nil {
		return nil, err
	}
	return func(rt *runtime.Context) (*value.Var, error) {
		v, err := ev(rt)
		if err != nil {
			return nil, err
		}
		return value.NewString(value.String(v)), nil
	}, nil
}
