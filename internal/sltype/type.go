// Package sltype implements SL's type registry (spec.md §4.3). Every
// distinct structural type is interned exactly once; type equality is
// therefore pointer equality on *Type.
package sltype

import "strings"

// Kind is a type's variant tag. The strict total order types are compared
// under is first by Kind, matching spec.md's "void < number < string <
// array < function < tuple < init-list".
type Kind int

const (
	Void Kind = iota
	Number
	String
	Array
	Function
	Tuple
	InitList
)

// Param describes one parameter slot of a function type.
type Param struct {
	Type  *Type
	ByRef bool
}

// Type is an interned type descriptor. Two Types are the same type iff they
// are the same pointer; the registry guarantees this by only ever handing
// out one *Type per distinct structural shape.
type Type struct {
	Kind Kind

	Elem *Type // Array element type

	Result *Type   // Function result type
	Params []Param // Function parameter types

	Elems []*Type // Tuple / InitList element types, in order
}

// String renders the type the way SL source spells it.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Void:
		return "void"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return t.Elem.String() + "[]"
	case Function:
		var b strings.Builder
		b.WriteString(t.Result.String())
		b.WriteByte('(')
		for i, p := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Type.String())
			if p.ByRef {
				b.WriteByte('&')
			}
		}
		b.WriteByte(')')
		return b.String()
	case Tuple:
		return tupleLikeString("[", "]", t.Elems)
	case InitList:
		return tupleLikeString("{", "}", t.Elems)
	default:
		return "<?>"
	}
}

func tupleLikeString(open, close string, elems []*Type) string {
	var b strings.Builder
	b.WriteString(open)
	for i, e := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteString(close)
	return b.String()
}

// IsArray, IsFunction, IsTuple, IsInitList are convenience predicates used
// throughout the parser and builder.
func (t *Type) IsArray() bool    { return t.Kind == Array }
func (t *Type) IsFunction() bool { return t.Kind == Function }
func (t *Type) IsTuple() bool    { return t.Kind == Tuple }
func (t *Type) IsInitList() bool { return t.Kind == InitList }
func (t *Type) IsVoid() bool     { return t.Kind == Void }
