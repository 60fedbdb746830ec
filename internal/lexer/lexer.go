// Package lexer converts a character stream into a restartable, lazy
// sequence of tokens terminated by end-of-input (spec.md §4.2).
package lexer

import (
	"strconv"
	"strings"

	"github.com/cwbudde/slscript/internal/pushback"
	"github.com/cwbudde/slscript/internal/token"
)

// Error is a lexical error: a malformed token or a stray/unrecognized
// character. Message matches spec.md §4.2's two taxonomy entries
// ("parsing error" / "unexpected").
type Error struct {
	Kind string // "parsing error" or "unexpected"
	Msg  string
	Line int
	Char int
}

func (e *Error) Error() string { return e.Kind + ": " + e.Msg }

// Lexer tokenizes SL source on demand. Next returns one token per call;
// callers that need lookahead use Peek, which buffers tokens without
// re-reading the underlying stream.
type Lexer struct {
	in      *pushback.Stream
	buf     []token.Token
	tracing bool
	trace   func(token.Token)
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// WithTrace installs a callback invoked with every token as it is produced,
// mirroring the teacher's debug-tracing toggle (lexer.WithTracing).
func WithTrace(fn func(token.Token)) Option {
	return func(l *Lexer) {
		l.tracing = true
		l.trace = fn
	}
}

// New creates a Lexer over src.
func New(src string, opts ...Option) *Lexer {
	l := &Lexer{in: pushback.New(src)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Next consumes and returns the next token.
func (l *Lexer) Next() (token.Token, error) {
	if len(l.buf) > 0 {
		t := l.buf[0]
		l.buf = l.buf[1:]
		return t, nil
	}
	return l.scan()
}

// Peek returns the token n positions ahead without consuming it. Peek(0) is
// the token the next Next() call will return.
func (l *Lexer) Peek(n int) (token.Token, error) {
	for len(l.buf) <= n {
		t, err := l.scan()
		if err != nil {
			return token.Token{}, err
		}
		l.buf = append(l.buf, t)
		if t.Kind == token.EOF {
			break
		}
	}
	if n >= len(l.buf) {
		return l.buf[len(l.buf)-1], nil // repeated EOF
	}
	return l.buf[n], nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isAlpha(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
func isWordRune(r rune) bool { return isAlpha(r) || isDigit(r) }

// scan reads and classifies the next raw token from the stream.
func (l *Lexer) scan() (token.Token, error) {
	l.skipSpaceAndComments()

	line, char := l.in.Line(), l.in.Char()
	r, ok := l.in.Read()
	if !ok {
		return l.emit(token.Token{Kind: token.EOF, Line: line, Char: char})
	}

	switch {
	case isAlpha(r) || isDigit(r):
		l.in.PushBack(r)
		return l.scanWord(line, char)
	case r == '"':
		return l.scanString(line, char)
	default:
		l.in.PushBack(r)
		return l.scanOperator(line, char)
	}
}

func (l *Lexer) emit(t token.Token) (token.Token, error) {
	if l.tracing {
		l.trace(t)
	}
	return t, nil
}

// skipSpaceAndComments consumes whitespace, "// ..." line comments, and
// "/* ... */" block comments (which do not nest).
func (l *Lexer) skipSpaceAndComments() {
	for {
		r, ok := l.in.Read()
		if !ok {
			return
		}
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			continue
		case r == '/':
			r2, ok2 := l.in.Read()
			switch {
			case ok2 && r2 == '/':
				for {
					c, ok3 := l.in.Read()
					if !ok3 || c == '\n' {
						break
					}
				}
				continue
			case ok2 && r2 == '*':
				l.skipBlockComment()
				continue
			default:
				if ok2 {
					l.in.PushBack(r2)
				}
				l.in.PushBack(r)
				return
			}
		default:
			l.in.PushBack(r)
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	for {
		c, ok := l.in.Read()
		if !ok {
			return // unterminated: the comment runs to end of input, no error is reported and scan returns EOF
		}
		if c == '*' {
			c2, ok2 := l.in.Read()
			if ok2 && c2 == '/' {
				return
			}
			if ok2 {
				l.in.PushBack(c2)
			}
		}
	}
}

// scanWord scans a maximal run of [A-Za-z0-9_] with '.' additionally
// accepted when the word began with a digit, except immediately before
// another '.' (so "1.5" lexes as a number but "1..2" keeps ".." intact).
func (l *Lexer) scanWord(line, char int) (token.Token, error) {
	var b strings.Builder
	first, _ := l.in.Read()
	b.WriteRune(first)
	startedWithDigit := isDigit(first)

	for {
		r, ok := l.in.Read()
		if !ok {
			break
		}
		if isWordRune(r) {
			b.WriteRune(r)
			continue
		}
		if r == '.' && startedWithDigit {
			r2, ok2 := l.in.Read()
			if ok2 && r2 == '.' {
				l.in.PushBack(r2)
				l.in.PushBack(r)
				break
			}
			if ok2 {
				l.in.PushBack(r2)
			}
			b.WriteRune(r)
			continue
		}
		l.in.PushBack(r)
		break
	}

	word := b.String()
	if !startedWithDigit {
		if kw, ok := token.Keywords[word]; ok {
			return l.emit(token.Token{Kind: kw, Line: line, Char: char})
		}
		return l.emit(token.Token{Kind: token.Ident, Name: word, Line: line, Char: char})
	}

	if n, err := strconv.ParseInt(word, 10, 64); err == nil {
		return l.emit(token.Token{Kind: token.Number, Num: float64(n), Line: line, Char: char})
	}
	f, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return token.Token{}, &Error{Kind: "parsing error", Msg: "invalid number literal " + strconv.Quote(word), Line: line, Char: char}
	}
	return l.emit(token.Token{Kind: token.Number, Num: f, Line: line, Char: char})
}

// scanString scans a double-quoted string literal. The opening quote has
// already been consumed by the caller.
func (l *Lexer) scanString(line, char int) (token.Token, error) {
	var b strings.Builder
	for {
		r, ok := l.in.Read()
		if !ok {
			return token.Token{}, &Error{Kind: "parsing error", Msg: "unterminated string literal", Line: line, Char: char}
		}
		switch r {
		case '"':
			return l.emit(token.Token{Kind: token.String, Str: b.String(), Line: line, Char: char})
		case '\t', '\n', '\r':
			return token.Token{}, &Error{Kind: "parsing error", Msg: "unescaped control character in string literal", Line: line, Char: char}
		case '\\':
			esc, ok := l.in.Read()
			if !ok {
				return token.Token{}, &Error{Kind: "parsing error", Msg: "unterminated string literal", Line: line, Char: char}
			}
			switch esc {
			case 't':
				b.WriteByte('\t')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(r)
		}
	}
}

// scanOperator performs maximal-munch matching against token's sorted
// operator spelling table, narrowing the candidate range with a binary
// search as each character is read, then pushes back any over-read
// characters beyond the longest match.
func (l *Lexer) scanOperator(line, char int) (token.Token, error) {
	spellings := token.OperatorSpellings()
	lo, hi := 0, len(spellings)

	var read []rune
	bestLen := -1
	var bestKind token.Kind

	for lo < hi {
		r, ok := l.in.Read()
		if !ok {
			break
		}
		read = append(read, r)
		depth := len(read)

		// Narrow [lo,hi) to entries whose Spelling[:depth-1] == read[:depth-1]
		// and whose character at depth-1 equals r; entries are lexically
		// sorted so this is two binary searches.
		newLo := lo + searchFirst(spellings[lo:hi], depth, r)
		newHi := lo + searchLast(spellings[lo:hi], depth, r)
		if newLo >= newHi {
			l.in.PushBack(r)
			read = read[:len(read)-1]
			break
		}
		lo, hi = newLo, newHi

		if lo < hi && len(spellings[lo].Spelling) == depth {
			if spellings[lo].Kind >= 0 {
				bestLen = depth
				bestKind = spellings[lo].Kind
			}
		}
	}

	if bestLen < 0 {
		for i := len(read) - 1; i >= 0; i-- {
			l.in.PushBack(read[i])
		}
		r, _ := l.in.Read()
		return token.Token{}, &Error{Kind: "unexpected", Msg: "unexpected character " + strconv.QuoteRune(r), Line: line, Char: char}
	}

	for i := len(read) - 1; i >= bestLen; i-- {
		l.in.PushBack(read[i])
	}
	return l.emit(token.Token{Kind: bestKind, Line: line, Char: char})
}

// searchFirst/searchLast locate the sub-range of a sorted spellings slice
// whose character at index `depth-1` equals r (and which is at least
// `depth` runes long).
func searchFirst(s []struct {
	Spelling string
	Kind     token.Kind
}, depth int, r rune) int {
	lo, hi := 0, len(s)
	for lo < hi {
		mid := (lo + hi) / 2
		if runeAt(s[mid].Spelling, depth) < r {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func searchLast(s []struct {
	Spelling string
	Kind     token.Kind
}, depth int, r rune) int {
	lo, hi := 0, len(s)
	for lo < hi {
		mid := (lo + hi) / 2
		if runeAt(s[mid].Spelling, depth) <= r {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// runeAt returns the rune at byte index i-1 in spelling (spellings are
// single-byte ASCII), or a sentinel below any rune if spelling is shorter
// than i runes.
func runeAt(spelling string, i int) rune {
	if i-1 >= len(spelling) {
		return -1
	}
	return rune(spelling[i-1])
}
