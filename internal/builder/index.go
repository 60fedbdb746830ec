package builder

import (
	"github.com/cwbudde/slscript/internal/ast"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/value"
)

// buildIndexBase builds the container base of an index expression: an
// lvalue handle when base is itself assignable, so array growth persists
// back to the variable, or a plain rvalue read otherwise (e.g. indexing a
// call result directly, as in "pair()[0]"). Either way the returned
// *value.Var's Arr/Tup elements are real, addressable storage.
func (b *Builder) buildIndexBase(base *ast.Node) (LvalueEval, error) {
	if base.LValue {
		return b.BuildLvalue(base)
	}
	ev, err := b.build(base)
	if err != nil {
		return nil, err
	}
	return LvalueEval(ev), nil
}

// buildIndexLvalue builds "base[index]" as an lvalue: array indexing
// lazily grows the array to fit a non-negative index (spec.md §4.6);
// negative indices are a runtime error. Tuple indexing addresses a
// statically-resolved, already bounds-checked element.
func (b *Builder) buildIndexLvalue(n *ast.Node) (LvalueEval, error) {
	base := n.Children[0]

	if base.Type.Kind == sltype.Tuple {
		baseEv, err := b.buildIndexBase(base)
		if err != nil {
			return nil, err
		}
		idx := n.Children[1].Num
		i := int(idx)
		return func(rt *runtime.Context) (*value.Var, error) {
			v, err := baseEv(rt)
			if err != nil {
				return nil, err
			}
			if i < 0 || i >= len(v.Tup.Elts) {
				return nil, rt.Errorf("tuple index %d out of range", i)
			}
			return v.Tup.Elts[i], nil
		}, nil
	}

	baseEv, err := b.buildIndexBase(base)
	if err != nil {
		return nil, err
	}
	idxEv, err := b.BuildNumber(n.Children[1])
	if err != nil {
		return nil, err
	}
	elemType := base.Type.Elem
	return func(rt *runtime.Context) (*value.Var, error) {
		v, err := baseEv(rt)
		if err != nil {
			return nil, err
		}
		idx, err := idxEv(rt)
		if err != nil {
			return nil, err
		}
		i := int(idx)
		if i < 0 {
			return nil, rt.Errorf("negative array index %d", i)
		}
		for len(v.Arr.Elts) <= i {
			v.Arr.Elts = append(v.Arr.Elts, value.Default(elemType))
		}
		return v.Arr.Elts[i], nil
	}, nil
}

func (b *Builder) buildIndexEval(n *ast.Node) (Eval, error) {
	lv, err := b.buildIndexLvalue(n)
	if err != nil {
		return nil, err
	}
	return Eval(lv), nil
}
