package builder

import (
	"github.com/cwbudde/slscript/internal/ast"
	"github.com/cwbudde/slscript/internal/compctx"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/value"
)

// argEval is either a boxed rvalue producer (by-value, already cloned by
// OpParam) or a direct lvalue handle (by-reference).
type argEval struct {
	byRef bool
	ref   LvalueEval
	val   Eval
}

// buildCall builds "callee(args...)" (spec.md §4.6 "Call"): each argument
// is evaluated in order, pushed onto the stack in reverse, and the callee
// is invoked by its function-table index. A call through an identifier
// bound directly to a function declaration resolves that index at compile
// time; a call through any other function-valued expression resolves it
// at runtime from the callee's value.Function.
func (b *Builder) buildCall(n *ast.Node) (Eval, error) {
	callee := n.Children[0]
	argNodes := n.Children[1:]

	// parseCall leaves a by-reference argument as the bare lvalue node and
	// wraps a by-value argument in ast.OpParam (which clones it); tell them
	// apart by shape, not by re-deriving it from the callee's static type,
	// since the callee may be a runtime function value with no fixed params.
	args := make([]argEval, len(argNodes))
	for i, a := range argNodes {
		if a.Op == ast.OpParam {
			ev, err := b.build(a)
			if err != nil {
				return nil, err
			}
			args[i] = argEval{val: ev}
			continue
		}
		lv, err := b.BuildLvalue(a)
		if err != nil {
			return nil, err
		}
		args[i] = argEval{byRef: true, ref: lv}
	}

	if callee.Op == ast.OpIdent {
		if id, ok := callee.Ref.(*compctx.Ident); ok && id.Scope == compctx.FunctionScope {
			idx := id.Index
			return func(rt *runtime.Context) (*value.Var, error) {
				params, err := evalArgs(rt, args)
				if err != nil {
					return nil, err
				}
				return rt.CallByIndex(idx, params)
			}, nil
		}
	}

	calleeEv, err := b.build(callee)
	if err != nil {
		return nil, err
	}
	return func(rt *runtime.Context) (*value.Var, error) {
		fn, err := calleeEv(rt)
		if err != nil {
			return nil, err
		}
		params, err := evalArgs(rt, args)
		if err != nil {
			return nil, err
		}
		return rt.CallByIndex(fn.Fn.Index, params)
	}, nil
}

func evalArgs(rt *runtime.Context, args []argEval) ([]*value.Var, error) {
	params := make([]*value.Var, len(args))
	for i, a := range args {
		if a.byRef {
			v, err := a.ref(rt)
			if err != nil {
				return nil, err
			}
			params[i] = v
			continue
		}
		v, err := a.val(rt)
		if err != nil {
			return nil, err
		}
		params[i] = v
	}
	return params, nil
}
