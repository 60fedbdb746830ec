package builder

import (
	"math"

	"github.com/cwbudde/slscript/internal/ast"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/value"
)

// truncDiv and truncMod implement spec.md §4.6's quirk: integer division
// truncates toward zero on both operands, and modulo is a - b*trunc(a/b).
func truncDiv(a, b float64) float64 {
	ai, bi := math.Trunc(a), math.Trunc(b)
	return math.Trunc(ai / bi)
}

func truncMod(a, b float64) float64 {
	return a - b*math.Trunc(a/b)
}

// buildArithCompare builds arithmetic/bitwise operators and number-vs-number
// comparisons. A comparison is numeric only when both sides are numbers;
// otherwise both sides convert to string (spec.md §4.5: "otherwise both
// sides must convert to string"), routed to buildStringCompare instead.
func (b *Builder) buildArithCompare(n *ast.Node) (Eval, error) {
	switch n.Op {
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		if !isNumberType(n.Children[0].Type) || !isNumberType(n.Children[1].Type) {
			return b.buildStringCompare(n)
		}
	}

	left, err := b.BuildNumber(n.Children[0])
	if err != nil {
		return nil, err
	}
	right, err := b.BuildNumber(n.Children[1])
	if err != nil {
		return nil, err
	}
	op := n.Op

	combine := func(x, y float64) float64 {
		switch op {
		case ast.OpAdd:
			return x + y
		case ast.OpSub:
			return x - y
		case ast.OpMul:
			return x * y
		case ast.OpDiv:
			return x / y
		case ast.OpIDiv:
			return truncDiv(x, y)
		case ast.OpMod:
			return truncMod(x, y)
		case ast.OpBitAnd:
			return float64(int64(x) & int64(y))
		case ast.OpBitOr:
			return float64(int64(x) | int64(y))
		case ast.OpBitXor:
			return float64(int64(x) ^ int64(y))
		case ast.OpShl:
			return float64(int64(x) << uint(int64(y)))
		case ast.OpShr:
			return float64(int64(x) >> uint(int64(y)))
		case ast.OpEq:
			return boolNum(x == y)
		case ast.OpNe:
			return boolNum(x != y)
		case ast.OpLt:
			return boolNum(x < y)
		case ast.OpGt:
			return boolNum(x > y)
		case ast.OpLe:
			return boolNum(x <= y)
		case ast.OpGe:
			return boolNum(x >= y)
		}
		return 0
	}

	// Comparison nodes whose operands are strings are lowered separately by
	// buildStringCompare; by the time we reach here n's operands are both
	// numbers (see exprparser.makeBinary).
	return func(rt *runtime.Context) (*value.Var, error) {
		x, err := left(rt)
		if err != nil {
			return nil, err
		}
		y, err := right(rt)
		if err != nil {
			return nil, err
		}
		return value.NewNumber(combine(x, y)), nil
	}, nil
}

// buildStringCompare builds ==, !=, <, >, <=, >= over two string-convertible
// operands, comparing lexicographically.
func (b *Builder) buildStringCompare(n *ast.Node) (Eval, error) {
	left, err := b.buildStringConvertible(n.Children[0])
	if err != nil {
		return nil, err
	}
	right, err := b.buildStringConvertible(n.Children[1])
	if err != nil {
		return nil, err
	}
	op := n.Op
	return func(rt *runtime.Context) (*value.Var, error) {
		x, err := left(rt)
		if err != nil {
			return nil, err
		}
		y, err := right(rt)
		if err != nil {
			return nil, err
		}
		var result bool
		switch op {
		case ast.OpEq:
			result = x == y
		case ast.OpNe:
			result = x != y
		case ast.OpLt:
			result = x < y
		case ast.OpGt:
			result = x > y
		case ast.OpLe:
			result = x <= y
		case ast.OpGe:
			result = x >= y
		}
		return value.NewNumber(boolNum(result)), nil
	}, nil
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (b *Builder) buildUnary(n *ast.Node) (Eval, error) {
	operand, err := b.BuildNumber(n.Children[0])
	if err != nil {
		return nil, err
	}
	op := n.Op
	return func(rt *runtime.Context) (*value.Var, error) {
		x, err := operand(rt)
		if err != nil {
			return nil, err
		}
		switch op {
		case ast.OpNeg:
			return value.NewNumber(-x), nil
		case ast.OpPos:
			return value.NewNumber(x), nil
		case ast.OpBitNot:
			return value.NewNumber(float64(^int64(x))), nil
		case ast.OpNot:
			return value.NewNumber(boolNum(x == 0)), nil
		}
		return nil, rt.Errorf("unhandled unary op")
	}, nil
}

// buildLogical builds '&&'/'||', which short-circuit: the right operand is
// only evaluated if the left doesn't already determine the result.
func (b *Builder) buildLogical(n *ast.Node) (Eval, error) {
	left, err := b.BuildNumber(n.Children[0])
	if err != nil {
		return nil, err
	}
	right, err := b.BuildNumber(n.Children[1])
	if err != nil {
		return nil, err
	}
	isAnd := n.Op == ast.OpAnd
	return func(rt *runtime.Context) (*value.Var, error) {
		x, err := left(rt)
		if err != nil {
			return nil, err
		}
		if isAnd && x == 0 {
			return value.NewNumber(0), nil
		}
		if !isAnd && x != 0 {
			return value.NewNumber(1), nil
		}
		y, err := right(rt)
		if err != nil {
			return nil, err
		}
		return value.NewNumber(boolNum(y != 0)), nil
	}, nil
}

func (b *Builder) buildConcat(n *ast.Node) (Eval, error) {
	left, err := b.buildStringConvertible(n.Children[0])
	if err != nil {
		return nil, err
	}
	right, err := b.buildStringConvertible(n.Children[1])
	if err != nil {
		return nil, err
	}
	return func(rt *runtime.Context) (*value.Var, error) {
		x, err := left(rt)
		if err != nil {
			return nil, err
		}
		y, err := right(rt)
		if err != nil {
			return nil, err
		}
		return value.NewString(x + y), nil
	}, nil
}

// buildStringConvertible builds a string-producing evaluator for a node
// that is either already a string or a number (implicitly converted,
// spec.md §4.5's check_conversion number→string rule).
func (b *Builder) buildStringConvertible(n *ast.Node) (StringEval, error) {
	if n.Type == nil {
		return nil, compileErrf(n, "untyped node")
	}
	if isStringType(n.Type) {
		return b.BuildString(n)
	}
	numEv, err := b.BuildNumber(n)
	if err != nil {
		return nil, err
	}
	return func(rt *runtime.Context) (string, error) {
		x, err := numEv(rt)
		if err != nil {
			return "", err
		}
		return value.String(value.NewNumber(x)), nil
	}, nil
}

func (b *Builder) buildComma(n *ast.Node) (Eval, error) {
	left, err := b.BuildVoid(n.Children[0])
	if err != nil {
		return nil, err
	}
	right, err := b.build(n.Children[1])
	if err != nil {
		return nil, err
	}
	return func(rt *runtime.Context) (*value.Var, error) {
		if err := left(rt); err != nil {
			return nil, err
		}
		return right(rt)
	}, nil
}

func (b *Builder) buildTernary(n *ast.Node) (Eval, error) {
	cond, err := b.BuildNumber(n.Children[0])
	if err != nil {
		return nil, err
	}
	thenEv, err := b.build(n.Children[1])
	if err != nil {
		return nil, err
	}
	elseEv, err := b.build(n.Children[2])
	if err != nil {
		return nil, err
	}
	return func(rt *runtime.Context) (*value.Var, error) {
		c, err := cond(rt)
		if err != nil {
			return nil, err
		}
		if c != 0 {
			return thenEv(rt)
		}
		return elseEv(rt)
	}, nil
}

func (b *Builder) buildPostIncDec(n *ast.Node) (Eval, error) {
	target, err := b.BuildLvalue(n.Children[0])
	if err != nil {
		return nil, err
	}
	delta := 1.0
	if n.Op == ast.OpPostDec {
		delta = -1
	}
	return func(rt *runtime.Context) (*value.Var, error) {
		v, err := target(rt)
		if err != nil {
			return nil, err
		}
		old := v.Num
		v.Num += delta
		return value.NewNumber(old), nil
	}, nil
}

func (b *Builder) buildAssign(n *ast.Node) (Eval, error) {
	lv, err := b.BuildLvalue(n.Children[0])
	if err != nil {
		return nil, err
	}
	op := n.Op

	if op == ast.OpAssign {
		rhs, err := b.build(n.Children[1])
		if err != nil {
			return nil, err
		}
		return func(rt *runtime.Context) (*value.Var, error) {
			target, err := lv(rt)
			if err != nil {
				return nil, err
			}
			src, err := rhs(rt)
			if err != nil {
				return nil, err
			}
			value.Set(target, src)
			return target, nil
		}, nil
	}

	if op == ast.OpConcatAssign {
		rhs, err := b.buildStringConvertible(n.Children[1])
		if err != nil {
			return nil, err
		}
		return func(rt *runtime.Context) (*value.Var, error) {
			target, err := lv(rt)
			if err != nil {
				return nil, err
			}
			s, err := rhs(rt)
			if err != nil {
				return nil, err
			}
			// concat-assign allocates a new shared string rather than
			// mutating (spec.md §4.6).
			target.Str = target.Str + s
			return target, nil
		}, nil
	}

	rhs, err := b.BuildNumber(n.Children[1])
	if err != nil {
		return nil, err
	}
	return func(rt *runtime.Context) (*value.Var, error) {
		target, err := lv(rt)
		if err != nil {
			return nil, err
		}
		y, err := rhs(rt)
		if err != nil {
			return nil, err
		}
		target.Num = applyCompound(op, target.Num, y)
		return target, nil
	}, nil
}

func applyCompound(op ast.Op, x, y float64) float64 {
	switch op {
	case ast.OpAddAssign:
		return x + y
	case ast.OpSubAssign:
		return x - y
	case ast.OpMulAssign:
		return x * y
	case ast.OpDivAssign:
		return x / y
	case ast.OpIDivAssign:
		return truncDiv(x, y)
	case ast.OpModAssign:
		return truncMod(x, y)
	case ast.OpAndAssign:
		return float64(int64(x) & int64(y))
	case ast.OpOrAssign:
		return float64(int64(x) | int64(y))
	case ast.OpXorAssign:
		return float64(int64(x) ^ int64(y))
	case ast.OpShlAssign:
		return float64(int64(x) << uint(int64(y)))
	case ast.OpShrAssign:
		return float64(int64(x) >> uint(int64(y)))
	}
	return x
}

// buildAssignLvalue builds an assignment used in lvalue position (e.g. as
// the taken branch of a ternary lvalue); it is the same evaluation as
// buildAssign but typed as an LvalueEval.
func (b *Builder) buildAssignLvalue(n *ast.Node) (LvalueEval, error) {
	ev, err := b.buildAssign(n)
	if err != nil {
		return nil, err
	}
	return LvalueEval(ev), nil
}
