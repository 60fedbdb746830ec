package exprparser

import (
	"fmt"

	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/token"
)

// ParseType parses a type expression (spec.md §6 "Program structure"):
// void, number, string, a tuple "[T1, T2, ...]", and any number of array
// "[]" and function "(T1 [&], ...)" suffixes layered on a base type.
func (p *Parser) ParseType() (*sltype.Type, error) {
	t, err := p.parseAtomType()
	if err != nil {
		return nil, err
	}
	for {
		pk, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch pk.Kind {
		case token.LBracket:
			if _, err := p.next(); err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket, "']'"); err != nil {
				return nil, err
			}
			t = p.ctx.GetHandle(&sltype.Type{Kind: sltype.Array, Elem: t})
			continue
		case token.LParen:
			if _, err := p.next(); err != nil {
				return nil, err
			}
			params, err := p.parseParamTypeList()
			if err != nil {
				return nil, err
			}
			t = p.ctx.GetHandle(&sltype.Type{Kind: sltype.Function, Result: t, Params: params})
			continue
		}
		break
	}
	return t, nil
}

func (p *Parser) parseAtomType() (*sltype.Type, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case token.KwVoid:
		p.next()
		return sltype.VoidType, nil
	case token.KwNumber:
		p.next()
		return sltype.NumberType, nil
	case token.KwString:
		p.next()
		return sltype.StringType, nil
	case token.LBracket:
		p.next()
		var elems []*sltype.Type
		first, err := p.peek()
		if err != nil {
			return nil, err
		}
		if first.Kind != token.RBracket {
			for {
				et, err := p.ParseType()
				if err != nil {
					return nil, err
				}
				elems = append(elems, et)
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
		if _, err := p.expect(token.RBracket, "']'"); err != nil {
			return nil, err
		}
		return p.ctx.GetHandle(&sltype.Type{Kind: sltype.Tuple, Elems: elems}), nil
	default:
		return nil, &Error{Msg: fmt.Sprintf("expected a type, got %q", t.String()), Line: t.Line, Char: t.Char}
	}
}

// parseParamTypeList parses a function type's parameter list; '(' has
// already been consumed. Each parameter is a type, an optional '&'
// by-reference marker, and an optional (ignored) name — the same shape a
// function declaration's header uses.
func (p *Parser) parseParamTypeList() ([]sltype.Param, error) {
	var params []sltype.Param
	first, err := p.peek()
	if err != nil {
		return nil, err
	}
	if first.Kind == token.RParen {
		p.next()
		return params, nil
	}
	for {
		pt, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		byRef := false
		nt, err := p.peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind == token.Amp {
			p.next()
			byRef = true
		}
		nt, err = p.peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind == token.Ident {
			p.next() // optional parameter name, not part of the type
		}
		params = append(params, sltype.Param{Type: pt, ByRef: byRef})

		nt, err = p.peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind == token.Comma {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}
