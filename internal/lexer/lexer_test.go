package lexer

import (
	"testing"

	"github.com/cwbudde/slscript/internal/token"
)

func collect(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func TestLexKeywordsAndIdentifiers(t *testing.T) {
	toks := collect(t, "number x = 3;")
	kinds := []token.Kind{token.KwNumber, token.Ident, token.Eq, token.Number, token.Semi, token.EOF}
	if len(toks) != len(kinds) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(kinds), toks)
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
	if toks[1].Name != "x" {
		t.Errorf("identifier name = %q, want x", toks[1].Name)
	}
	if toks[3].Num != 3 {
		t.Errorf("number literal = %v, want 3", toks[3].Num)
	}
}

func TestLexMaximalMunchOperators(t *testing.T) {
	toks := collect(t, "a<=b&&c")
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.Ident, token.LtEq, token.Ident, token.AmpAmp, token.Ident, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got kinds %v, want %v", kinds, want)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("token %d = %v, want %v", i, kinds[i], k)
		}
	}
}

func TestLexStringLiteral(t *testing.T) {
	toks := collect(t, `"hi"`)
	if toks[0].Kind != token.String || toks[0].Str != "hi" {
		t.Errorf("got %+v, want String \"hi\"", toks[0])
	}
}

func TestLexIllegalCharacterReportsError(t *testing.T) {
	l := New("@")
	if _, err := l.Next(); err == nil {
		t.Fatalf("expected an error for an illegal character")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("x y")
	first, err := l.Peek(0)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if first.Name != "x" {
		t.Fatalf("Peek(0) = %+v, want x", first)
	}
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if tok.Name != "x" {
		t.Fatalf("Next() after Peek(0) = %+v, want x", tok)
	}
}
