package exprparser

import (
	"github.com/cwbudde/slscript/internal/compctx"
	"github.com/cwbudde/slscript/internal/token"
)

// Peek, Next, Expect, and Ctx expose the token cursor and compiler context
// this Parser was built over, so internal/stmt can share one Parser
// instance across expression and statement grammar instead of duplicating
// a second token reader.
func (p *Parser) Peek() (token.Token, error)                       { return p.peek() }
func (p *Parser) Next() (token.Token, error)                       { return p.next() }
func (p *Parser) Expect(k token.Kind, what string) (token.Token, error) { return p.expect(k, what) }
func (p *Parser) Ctx() *compctx.Context                            { return p.ctx }
