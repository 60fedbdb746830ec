package exprparser

import (
	"fmt"

	"github.com/cwbudde/slscript/internal/ast"
	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/token"
)

// parseUnaryChain parses a prefix operator (if any) followed by a primary,
// recursing at prefix precedence for right-associativity.
func (p *Parser) parseUnaryChain() (*ast.Node, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch t.Kind {
	case token.Minus, token.Plus, token.Tilde, token.Bang:
		p.next()
		operand, err := p.parseBinary(precPrefix, true)
		if err != nil {
			return nil, err
		}
		return p.makeUnary(t, operand)

	case token.PlusPlus, token.MinusMinus:
		p.next()
		operand, err := p.parseBinary(precPrefix, true)
		if err != nil {
			return nil, err
		}
		return p.makePreIncDec(t, operand)

	case token.KwSizeof:
		p.next()
		operand, err := p.parseBinary(precPrefix, true)
		if err != nil {
			return nil, err
		}
		return p.makeSizeof(t, operand)

	case token.KwToString:
		p.next()
		operand, err := p.parseBinary(precPrefix, true)
		if err != nil {
			return nil, err
		}
		return p.makeToString(t, operand)

	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (*ast.Node, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}

	switch t.Kind {
	case token.Number:
		return &ast.Node{Op: ast.OpNumberLit, Num: t.Num, Type: sltype.NumberType, Line: t.Line, Char: t.Char}, nil

	case token.String:
		return &ast.Node{Op: ast.OpStringLit, Str: t.Str, Type: sltype.StringType, Line: t.Line, Char: t.Char}, nil

	case token.Ident:
		return p.makeIdent(t)

	case token.LParen:
		inner, err := p.ParseExpr(true)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil

	case token.LBrace:
		return p.parseInitList(t)

	default:
		return nil, &Error{Msg: fmt.Sprintf("unexpected token %q", t.String()), Line: t.Line, Char: t.Char}
	}
}

// parseInitList parses a brace-enclosed "{ e1, e2, ... }" literal. The
// opening '{' has already been consumed.
func (p *Parser) parseInitList(open token.Token) (*ast.Node, error) {
	var children []*ast.Node
	var elemTypes []*sltype.Type

	peeked, err := p.peek()
	if err != nil {
		return nil, err
	}
	if peeked.Kind != token.RBrace {
		for {
			el, err := p.parseBinary(precComma, false)
			if err != nil {
				return nil, err
			}
			children = append(children, el)
			elemTypes = append(elemTypes, el.Type)

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
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	t := p.ctx.GetHandle(&sltype.Type{Kind: sltype.InitList, Elems: elemTypes})
	return &ast.Node{Op: ast.OpInitList, Children: children, Type: t, Line: open.Line, Char: open.Char}, nil
}
