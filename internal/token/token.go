// Package token defines the reserved token vocabulary of SL: operator and
// punctuation spellings, keywords, and the Token value produced by the
// lexer.
package token

import "sort"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	// Structural
	EOF Kind = iota
	Ident
	Number
	String

	// Punctuation / grouping
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Semi
	Colon
	Question
	Amp // '&' reference marker / bitwise-and, disambiguated by parser position

	// Arithmetic
	Plus
	Minus
	Star
	Slash
	BackSlash // integer divide
	Percent

	// String concat
	DotDot
	DotDotEq

	// Bitwise
	Tilde
	Pipe
	Caret
	Shl
	Shr

	// Logical
	Bang
	AmpAmp
	PipePipe

	// Relational
	EqEq
	NotEq
	Lt
	Gt
	LtEq
	GtEq

	// Assignment family
	Eq
	PlusEq
	MinusEq
	StarEq
	SlashEq
	BackSlashEq
	PercentEq
	DotDotEqEq // '..=' concat-assign
	AmpEq
	PipeEq
	CaretEq
	ShlEq
	ShrEq

	// Increment / decrement
	PlusPlus
	MinusMinus

	// Keywords
	KwIf
	KwElif
	KwElse
	KwSwitch
	KwCase
	KwDefault
	KwFor
	KwWhile
	KwDo
	KwBreak
	KwContinue
	KwReturn
	KwFunction
	KwPublic
	KwVoid
	KwNumber
	KwString
	KwSizeof
	KwToString

	noMatch Kind = -1
)

// Token is a single lexical unit: a reserved/operator kind, or an
// identifier/number/string payload, carrying source coordinates.
//
// Line and Char are zero-based internally (spec.md §3); user-facing
// diagnostics add one to Line when displaying them (see internal/serrors).
type Token struct {
	Kind Kind
	Name string  // Ident payload
	Num  float64 // Number payload
	Str  string  // String payload
	Line int
	Char int
}

func (t Token) String() string {
	switch t.Kind {
	case Ident:
		return t.Name
	case Number:
		return "<number>"
	case String:
		return "<string>"
	case EOF:
		return "<eof>"
	default:
		if s, ok := spellingByKind[t.Kind]; ok {
			return s
		}
		return "<unknown>"
	}
}

// operatorSpellings is the table of punctuation/operator spellings used by
// the tokenizer's maximal-munch scan (spec.md §4.2), kept sorted
// lexicographically by Spelling (see init below) so the lexer can binary
// search the candidate range as it reads one character at a time: since a
// shorter spelling sorts immediately before any longer spelling sharing its
// prefix, the last entry whose length matches the characters read so far is
// always the best exact match found up to that point.
var operatorSpellings = []struct {
	Spelling string
	Kind     Kind
}{
	{"!", Bang},
	{"!=", NotEq},
	{"%", Percent},
	{"%=", PercentEq},
	{"&", Amp},
	{"&&", AmpAmp},
	{"&=", AmpEq},
	{"(", LParen},
	{")", RParen},
	{"*", Star},
	{"*=", StarEq},
	{"+", Plus},
	{"++", PlusPlus},
	{"+=", PlusEq},
	{",", Comma},
	{"-", Minus},
	{"--", MinusMinus},
	{"-=", MinusEq},
	{".", noMatch}, // not a standalone operator; present only so ".." / "..=" narrow correctly
	{"..", DotDot},
	{"..=", DotDotEqEq},
	{"/", Slash},
	{"/=", SlashEq},
	{":", Colon},
	{";", Semi},
	{"<", Lt},
	{"<<", Shl},
	{"<<=", ShlEq},
	{"<=", LtEq},
	{"=", Eq},
	{"==", EqEq},
	{">", Gt},
	{">=", GtEq},
	{">>", Shr},
	{">>=", ShrEq},
	{"?", Question},
	{"[", LBracket},
	{"\\", BackSlash},
	{"\\=", BackSlashEq},
	{"]", RBracket},
	{"^", Caret},
	{"^=", CaretEq},
	{"{", LBrace},
	{"|", Pipe},
	{"|=", PipeEq},
	{"||", PipePipe},
	{"}", RBrace},
	{"~", Tilde},
}

func init() {
	sort.Slice(operatorSpellings, func(i, j int) bool {
		return operatorSpellings[i].Spelling < operatorSpellings[j].Spelling
	})
}

// Keywords maps reserved words to their Kind.
var Keywords = map[string]Kind{
	"if":       KwIf,
	"elif":     KwElif,
	"else":     KwElse,
	"switch":   KwSwitch,
	"case":     KwCase,
	"default":  KwDefault,
	"for":      KwFor,
	"while":    KwWhile,
	"do":       KwDo,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"function": KwFunction,
	"public":   KwPublic,
	"void":     KwVoid,
	"number":   KwNumber,
	"string":   KwString,
	"sizeof":   KwSizeof,
	"toString": KwToString,
}

var spellingByKind = func() map[Kind]string {
	m := make(map[Kind]string, len(operatorSpellings))
	for _, e := range operatorSpellings {
		if e.Kind < 0 {
			continue
		}
		m[e.Kind] = e.Spelling
	}
	for kw, k := range Keywords {
		m[k] = kw
	}
	return m
}()

// OperatorSpellings returns the ordered operator table used by the
// tokenizer's maximal-munch scanner. The slice is sorted lexically by
// Spelling, which is the order internal/lexer's binary search relies on.
func OperatorSpellings() []struct {
	Spelling string
	Kind     Kind
} {
	return operatorSpellings
}
