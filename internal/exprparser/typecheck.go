package exprparser

import (
	"fmt"

	"github.com/cwbudde/slscript/internal/ast"
	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/token"
)

func semErr(line, char int, format string, args ...any) error {
	return &Error{Semantic: true, Msg: fmt.Sprintf(format, args...), Line: line, Char: char}
}

func (p *Parser) makeIdent(t token.Token) (*ast.Node, error) {
	id, ok := p.ctx.Find(t.Name)
	if !ok {
		return nil, semErr(t.Line, t.Char, "undeclared identifier %q", t.Name)
	}
	return &ast.Node{
		Op: ast.OpIdent, Name: t.Name, Ref: id,
		Type: id.Type, LValue: id.Type.Kind != sltype.Function,
		Line: t.Line, Char: t.Char,
	}, nil
}

func (p *Parser) makeUnary(t token.Token, operand *ast.Node) (*ast.Node, error) {
	if operand.Type != sltype.NumberType {
		return nil, semErr(t.Line, t.Char, "operator %s requires a number operand", t.String())
	}
	op := map[token.Kind]ast.Op{
		token.Minus: ast.OpNeg,
		token.Plus:  ast.OpPos,
		token.Tilde: ast.OpBitNot,
		token.Bang:  ast.OpNot,
	}[t.Kind]
	return &ast.Node{Op: op, Children: []*ast.Node{operand}, Type: sltype.NumberType, Line: t.Line, Char: t.Char}, nil
}

func (p *Parser) makePreIncDec(t token.Token, operand *ast.Node) (*ast.Node, error) {
	if !operand.LValue || operand.Type != sltype.NumberType {
		return nil, semErr(t.Line, t.Char, "%s requires a number lvalue", t.String())
	}
	op := ast.OpPreInc
	if t.Kind == token.MinusMinus {
		op = ast.OpPreDec
	}
	return &ast.Node{Op: op, Children: []*ast.Node{operand}, Type: sltype.NumberType, LValue: true, Line: t.Line, Char: t.Char}, nil
}

func (p *Parser) makePostIncDec(t token.Token, operand *ast.Node) (*ast.Node, error) {
	if !operand.LValue || operand.Type != sltype.NumberType {
		return nil, semErr(t.Line, t.Char, "%s requires a number lvalue", t.String())
	}
	op := ast.OpPostInc
	if t.Kind == token.MinusMinus {
		op = ast.OpPostDec
	}
	return &ast.Node{Op: op, Children: []*ast.Node{operand}, Type: sltype.NumberType, Line: t.Line, Char: t.Char}, nil
}

func (p *Parser) makeBinary(op ast.Op, left, right *ast.Node, t token.Token) (*ast.Node, error) {
	switch op {
	case ast.OpConcat:
		if !convertibleTo(left.Type, sltype.StringType) || !convertibleTo(right.Type, sltype.StringType) {
			return nil, semErr(t.Line, t.Char, "'..' requires string-convertible operands")
		}
		return &ast.Node{Op: op, Children: []*ast.Node{left, right}, Type: sltype.StringType, Line: t.Line, Char: t.Char}, nil

	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		if left.Type == sltype.NumberType && right.Type == sltype.NumberType {
			// number comparison
		} else if convertibleTo(left.Type, sltype.StringType) && convertibleTo(right.Type, sltype.StringType) {
			// string comparison
		} else {
			return nil, semErr(t.Line, t.Char, "incompatible operand types for %s", t.String())
		}
		return &ast.Node{Op: op, Children: []*ast.Node{left, right}, Type: sltype.NumberType, Line: t.Line, Char: t.Char}, nil

	case ast.OpAnd, ast.OpOr:
		if left.Type != sltype.NumberType || right.Type != sltype.NumberType {
			return nil, semErr(t.Line, t.Char, "%s requires number operands", t.String())
		}
		return &ast.Node{Op: op, Children: []*ast.Node{left, right}, Type: sltype.NumberType, Line: t.Line, Char: t.Char}, nil

	default: // arithmetic and bitwise
		if left.Type != sltype.NumberType || right.Type != sltype.NumberType {
			return nil, semErr(t.Line, t.Char, "%s requires number operands", t.String())
		}
		return &ast.Node{Op: op, Children: []*ast.Node{left, right}, Type: sltype.NumberType, Line: t.Line, Char: t.Char}, nil
	}
}

func (p *Parser) makeAssign(op ast.Op, left, right *ast.Node, t token.Token) (*ast.Node, error) {
	if !left.LValue {
		return nil, semErr(t.Line, t.Char, "left side of assignment is not an lvalue")
	}
	switch op {
	case ast.OpAssign:
		if !convertibleTo(right.Type, left.Type) {
			return nil, semErr(t.Line, t.Char, "cannot assign %s to %s", right.Type, left.Type)
		}
		CoerceInitList(right, left.Type)
	case ast.OpConcatAssign:
		if left.Type != sltype.StringType || !convertibleTo(right.Type, sltype.StringType) {
			return nil, semErr(t.Line, t.Char, "'..=' requires a string lvalue")
		}
	default:
		if left.Type != sltype.NumberType || right.Type != sltype.NumberType {
			return nil, semErr(t.Line, t.Char, "%s requires number operands", t.String())
		}
	}
	return &ast.Node{Op: op, Children: []*ast.Node{left, right}, Type: left.Type, Line: t.Line, Char: t.Char}, nil
}

// parseCall parses call arguments up to ')'; '(' has already been consumed.
func (p *Parser) parseCall(callee *ast.Node, open token.Token) (*ast.Node, error) {
	if callee.Type.Kind != sltype.Function {
		return nil, semErr(open.Line, open.Char, "call of non-function value")
	}
	fnType := callee.Type

	var args []*ast.Node
	first, err := p.peek()
	if err != nil {
		return nil, err
	}
	if first.Kind != token.RParen {
		for {
			argTok, err := p.peek()
			if err != nil {
				return nil, err
			}
			byRef := false
			if argTok.Kind == token.Amp {
				p.next()
				byRef = true
			}
			arg, err := p.parseBinary(precComma, false)
			if err != nil {
				return nil, err
			}
			if byRef && !arg.LValue {
				return nil, semErr(argTok.Line, argTok.Char, "by-reference argument must be an lvalue")
			}
			args = append(args, arg)

			nt, err := p.peek()
			if err != nil {
				return nil, err
			}
			if nt.Kind == token.Comma {
				p.next()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}

	if len(args) != len(fnType.Params) {
		return nil, semErr(open.Line, open.Char, "expected %d argument(s), got %d", len(fnType.Params), len(args))
	}
	boxed := make([]*ast.Node, len(args))
	for i, a := range args {
		param := fnType.Params[i]
		if param.ByRef {
			if !a.LValue || a.Type != param.Type {
				return nil, semErr(open.Line, open.Char, "argument %d must be a %s lvalue passed by reference", i+1, param.Type)
			}
			boxed[i] = a
			continue
		}
		if a.LValue && a.Type == param.Type {
			// an lvalue argument to a by-value param is boxed into a
			// temporary like any rvalue.
		}
		if !convertibleTo(a.Type, param.Type) {
			return nil, semErr(open.Line, open.Char, "argument %d not convertible to %s", i+1, param.Type)
		}
		CoerceInitList(a, param.Type)
		boxed[i] = &ast.Node{Op: ast.OpParam, Children: []*ast.Node{a}, Type: param.Type, Line: a.Line, Char: a.Char}
	}

	return &ast.Node{Op: ast.OpCall, Children: append([]*ast.Node{callee}, boxed...), Type: fnType.Result, Line: open.Line, Char: open.Char}, nil
}

// parseIndex parses "[ expr ]"; '[' has already been consumed.
func (p *Parser) parseIndex(base *ast.Node, open token.Token) (*ast.Node, error) {
	idx, err := p.ParseExpr(true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBracket, "']'"); err != nil {
		return nil, err
	}

	switch base.Type.Kind {
	case sltype.Array:
		if idx.Type != sltype.NumberType {
			return nil, semErr(open.Line, open.Char, "array index must be a number")
		}
		return &ast.Node{Op: ast.OpIndex, Children: []*ast.Node{base, idx}, Type: base.Type.Elem, LValue: base.LValue, Line: open.Line, Char: open.Char}, nil

	case sltype.Tuple:
		if idx.Op != ast.OpNumberLit {
			return nil, semErr(open.Line, open.Char, "tuple index must be a literal integer")
		}
		n := int(idx.Num)
		if n < 0 || n >= len(base.Type.Elems) {
			return nil, semErr(open.Line, open.Char, "tuple index %d out of range", n)
		}
		return &ast.Node{Op: ast.OpIndex, Children: []*ast.Node{base, idx}, Type: base.Type.Elems[n], LValue: base.LValue, Line: open.Line, Char: open.Char}, nil

	default:
		return nil, semErr(open.Line, open.Char, "value of type %s is not indexable", base.Type)
	}
}

func (p *Parser) makeTernary(cond, a, b *ast.Node, t token.Token) (*ast.Node, error) {
	var resultType *sltype.Type
	switch {
	case convertibleTo(b.Type, a.Type):
		resultType = a.Type
	case convertibleTo(a.Type, b.Type):
		resultType = b.Type
	default:
		return nil, semErr(t.Line, t.Char, "ternary branches have incompatible types")
	}
	CoerceInitList(a, resultType)
	CoerceInitList(b, resultType)
	lvalue := a.LValue && b.LValue && a.Type == b.Type
	return &ast.Node{Op: ast.OpTernary, Children: []*ast.Node{cond, a, b}, Type: resultType, LValue: lvalue, Line: t.Line, Char: t.Char}, nil
}

func (p *Parser) makeSizeof(t token.Token, operand *ast.Node) (*ast.Node, error) {
	if operand.Type.IsVoid() {
		return nil, semErr(t.Line, t.Char, "sizeof requires a value")
	}
	return &ast.Node{Op: ast.OpSizeof, Children: []*ast.Node{operand}, Type: sltype.NumberType, Line: t.Line, Char: t.Char}, nil
}

func (p *Parser) makeToString(t token.Token, operand *ast.Node) (*ast.Node, error) {
	if operand.Type.IsVoid() {
		return nil, semErr(t.Line, t.Char, "toString requires a value")
	}
	return &ast.Node{Op: ast.OpToString, Children: []*ast.Node{operand}, Type: sltype.StringType, Line: t.Line, Char: t.Char}, nil
}

// CoerceInitList rewrites an init-list node (and, recursively, any
// init-list elements nested inside it) to carry its contextual target
// type once a conversion has been accepted, so later compiler stages
// see a node whose Type is the concrete array/tuple it will build,
// never the bare InitList handle it was parsed with. No-op for any
// node that isn't an init list.
func CoerceInitList(n *ast.Node, dst *sltype.Type) {
	if n.Op != ast.OpInitList || dst.Kind == sltype.Void {
		return
	}
	n.Type = dst
	switch dst.Kind {
	case sltype.Array:
		for _, c := range n.Children {
			CoerceInitList(c, dst.Elem)
		}
	case sltype.Tuple:
		for i, c := range n.Children {
			if i < len(dst.Elems) {
				CoerceInitList(c, dst.Elems[i])
			}
		}
	}
}

// convertibleTo implements spec.md §4.5's check_conversion rule: target
// void accepts anything; identical handles always convert; an init-list
// converts to a matching array or tuple; number converts to string.
func convertibleTo(src, dst *sltype.Type) bool {
	if dst.Kind == sltype.Void {
		return true
	}
	if src == dst {
		return true
	}
	if src.Kind == sltype.InitList {
		if dst.Kind == sltype.Array {
			for _, e := range src.Elems {
				if !convertibleTo(e, dst.Elem) {
					return false
				}
			}
			return true
		}
		if dst.Kind == sltype.Tuple {
			if len(src.Elems) != len(dst.Elems) {
				return false
			}
			for i, e := range src.Elems {
				if !convertibleTo(e, dst.Elems[i]) {
					return false
				}
			}
			return true
		}
		return false
	}
	if src == sltype.NumberType && dst == sltype.StringType {
		return true
	}
	return false
}

