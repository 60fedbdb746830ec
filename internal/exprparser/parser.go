// Package exprparser implements SL's expression-tree parser (spec.md
// §4.5): a precedence-climbing ("Pratt") parser that is behaviorally the
// shunting-yard algorithm spec.md describes — operators are reduced into
// ast.Node values in precedence order — but expressed as prefix/infix
// parse functions keyed by token kind, the idiom the teacher's own
// internal/parser/expressions.go uses, rather than an explicit two-stack
// machine.
//
// Type checking happens at node-construction time: each make* helper below
// fixes the resulting Node's Type and LValue the moment it reduces an
// operator, exactly where spec.md §4.5 places it.
package exprparser

import (
	"fmt"

	"github.com/cwbudde/slscript/internal/ast"
	"github.com/cwbudde/slscript/internal/compctx"
	"github.com/cwbudde/slscript/internal/lexer"
	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/token"
)

// Error is a parse-time error: spec.md §7's "syntax error" or "semantic
// error" kinds, depending on Semantic.
type Error struct {
	Semantic bool
	Msg      string
	Line     int
	Char     int
}

func (e *Error) Error() string {
	kind := "syntax error"
	if e.Semantic {
		kind = "semantic error"
	}
	return fmt.Sprintf("%s: %s", kind, e.Msg)
}

// Precedence levels, high-to-low per spec.md §4.5 reversed into binding
// strength (larger binds tighter).
const (
	precComma = iota + 1
	precAssign // includes the ternary, per spec.md §9 REDESIGN FLAGS
	precLogOr
	precLogAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precCompare
	precShift
	precAdditive
	precMultiplicative
	precPrefix
	precPostfix
	precCall // '(' call / '[' index
)

var binaryPrec = map[token.Kind]int{
	token.PipePipe: precLogOr,
	token.AmpAmp:   precLogAnd,
	token.Pipe:     precBitOr,
	token.Caret:    precBitXor,
	token.Amp:      precBitAnd,
	token.EqEq:     precEquality,
	token.NotEq:    precEquality,
	token.Lt:       precCompare,
	token.Gt:       precCompare,
	token.LtEq:     precCompare,
	token.GtEq:     precCompare,
	token.Shl:      precShift,
	token.Shr:      precShift,
	token.Plus:     precAdditive,
	token.Minus:    precAdditive,
	token.DotDot:   precAdditive,
	token.Star:     precMultiplicative,
	token.Slash:    precMultiplicative,
	token.BackSlash: precMultiplicative,
	token.Percent:  precMultiplicative,
}

var assignOps = map[token.Kind]ast.Op{
	token.Eq:          ast.OpAssign,
	token.PlusEq:       ast.OpAddAssign,
	token.MinusEq:      ast.OpSubAssign,
	token.StarEq:       ast.OpMulAssign,
	token.SlashEq:      ast.OpDivAssign,
	token.BackSlashEq:  ast.OpIDivAssign,
	token.PercentEq:    ast.OpModAssign,
	token.DotDotEqEq:   ast.OpConcatAssign,
	token.AmpEq:        ast.OpAndAssign,
	token.PipeEq:       ast.OpOrAssign,
	token.CaretEq:      ast.OpXorAssign,
	token.ShlEq:        ast.OpShlAssign,
	token.ShrEq:        ast.OpShrAssign,
}

var binaryOp = map[token.Kind]ast.Op{
	token.PipePipe: ast.OpOr,
	token.AmpAmp:   ast.OpAnd,
	token.Pipe:     ast.OpBitOr,
	token.Caret:    ast.OpBitXor,
	token.Amp:      ast.OpBitAnd,
	token.EqEq:     ast.OpEq,
	token.NotEq:    ast.OpNe,
	token.Lt:       ast.OpLt,
	token.Gt:       ast.OpGt,
	token.LtEq:     ast.OpLe,
	token.GtEq:     ast.OpGe,
	token.Shl:      ast.OpShl,
	token.Shr:      ast.OpShr,
	token.Plus:     ast.OpAdd,
	token.Minus:    ast.OpSub,
	token.DotDot:   ast.OpConcat,
	token.Star:     ast.OpMul,
	token.Slash:    ast.OpDiv,
	token.BackSlash: ast.OpIDiv,
	token.Percent:  ast.OpMod,
}

// stopTokens ends an expression outright: ';' ')' ']' '}' ':' EOF, per
// spec.md §4.5. ',' is also a stop token when the caller disallows commas.
func isStop(k token.Kind) bool {
	switch k {
	case token.Semi, token.RParen, token.RBracket, token.RBrace, token.Colon, token.EOF:
		return true
	}
	return false
}

// Parser parses expressions against a compiler context, consuming tokens
// from a lexer.
type Parser struct {
	lx  *lexer.Lexer
	ctx *compctx.Context
}

// New creates an expression parser over lx, resolving identifiers and
// interning types through ctx.
func New(lx *lexer.Lexer, ctx *compctx.Context) *Parser {
	return &Parser{lx: lx, ctx: ctx}
}

func (p *Parser) peek() (token.Token, error) { return p.lx.Peek(0) }
func (p *Parser) next() (token.Token, error) { return p.lx.Next() }

func (p *Parser) expect(k token.Kind, what string) (token.Token, error) {
	t, err := p.next()
	if err != nil {
		return t, err
	}
	if t.Kind != k {
		return t, &Error{Msg: fmt.Sprintf("expected %s", what), Line: t.Line, Char: t.Char}
	}
	return t, nil
}

// ParseExpr parses one expression. allowComma controls whether a top-level
// ',' is treated as the comma operator (true, e.g. inside parens) or ends
// the expression (false, e.g. a statement's expression).
func (p *Parser) ParseExpr(allowComma bool) (*ast.Node, error) {
	return p.parseBinary(0, allowComma)
}

func (p *Parser) parseBinary(minPrec int, allowComma bool) (*ast.Node, error) {
	left, err := p.parseUnaryChain()
	if err != nil {
		return nil, err
	}

	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if isStop(t.Kind) {
			break
		}
		if t.Kind == token.Comma {
			if !allowComma || precComma <= minPrec {
				break
			}
			p.next()
			right, err := p.parseBinary(precComma, allowComma)
			if err != nil {
				return nil, err
			}
			left = &ast.Node{Op: ast.OpComma, Children: []*ast.Node{left, right}, Type: right.Type, Line: t.Line, Char: t.Char}
			continue
		}
		if t.Kind == token.Question {
			if precAssign <= minPrec {
				break
			}
			p.next()
			left, err = p.parseTernary(left, t)
			if err != nil {
				return nil, err
			}
			continue
		}
		if op, ok := assignOps[t.Kind]; ok {
			if precAssign <= minPrec {
				break
			}
			p.next()
			right, err := p.parseBinary(precAssign-1, allowComma) // right-assoc
			if err != nil {
				return nil, err
			}
			left, err = p.makeAssign(op, left, right, t)
			if err != nil {
				return nil, err
			}
			continue
		}
		if t.Kind == token.LParen {
			if precCall <= minPrec {
				break
			}
			p.next()
			left, err = p.parseCall(left, t)
			if err != nil {
				return nil, err
			}
			continue
		}
		if t.Kind == token.LBracket {
			if precCall <= minPrec {
				break
			}
			p.next()
			left, err = p.parseIndex(left, t)
			if err != nil {
				return nil, err
			}
			continue
		}
		if t.Kind == token.PlusPlus || t.Kind == token.MinusMinus {
			if precPostfix <= minPrec {
				break
			}
			p.next()
			left, err = p.makePostIncDec(t, left)
			if err != nil {
				return nil, err
			}
			continue
		}

		prec, ok := binaryPrec[t.Kind]
		if !ok || prec <= minPrec {
			break
		}
		p.next()
		right, err := p.parseBinary(prec, allowComma) // left-assoc: same prec stops recursion
		if err != nil {
			return nil, err
		}
		left, err = p.makeBinary(binaryOp[t.Kind], left, right, t)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseTernary(cond *ast.Node, tok token.Token) (*ast.Node, error) {
	if cond.Type != sltype.NumberType {
		return nil, &Error{Semantic: true, Msg: "ternary condition must be a number", Line: tok.Line, Char: tok.Char}
	}
	a, err := p.parseBinary(precComma, true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon, "':'"); err != nil {
		return nil, err
	}
	b, err := p.parseBinary(precAssign-1, true)
	if err != nil {
		return nil, err
	}
	return p.makeTernary(cond, a, b, tok)
}
