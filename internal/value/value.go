// Package value implements SL's variable model (spec.md §4.8): tagged
// containers for the runtime value shapes, shared by reference so that an
// lvalue is "a variable handle that can be rebound".
package value

import (
	"strconv"
	"strings"

	"github.com/cwbudde/slscript/internal/sltype"
)

// Var is a variable handle: the single boxed representation every runtime
// value shape uses. A *Var is what spec.md calls an lvalue — rebinding it
// (via Set) replaces its underlying value in place, and every alias to the
// same *Var observes the change. Numbers and functions are stored inline;
// strings are shared immutable handles; arrays and tuples own a sequence of
// further *Var handles.
type Var struct {
	Kind sltype.Kind

	Num float64
	Str string // immutable; sharing a Go string is already reference-cheap
	Fn  Function
	Arr *Array
	Tup *Tuple
}

// Function is the runtime representation of a function value: an index
// into the owning runtime context's function table, or -1 if uninitialized
// (calling it is a runtime error per spec.md §7).
type Function struct {
	Index int
}

// Array is an ordered, mutable, reference-shared sequence of elements, all
// of the same static element type.
type Array struct {
	Elem *sltype.Type
	Elts []*Var
}

// Tuple is element-wise heterogeneously typed but otherwise shaped like
// Array.
type Tuple struct {
	Elts []*Var
}

// NewNumber, NewString, NewFunction, NewArray, NewTuple construct a fresh
// *Var of the given shape.
func NewNumber(n float64) *Var       { return &Var{Kind: sltype.Number, Num: n} }
func NewString(s string) *Var        { return &Var{Kind: sltype.String, Str: s} }
func NewFunction(idx int) *Var       { return &Var{Kind: sltype.Function, Fn: Function{Index: idx}} }
func NewArray(elem *sltype.Type) *Var { return &Var{Kind: sltype.Array, Arr: &Array{Elem: elem}} }
func NewTuple(n int) *Var {
	return &Var{Kind: sltype.Tuple, Tup: &Tuple{Elts: make([]*Var, n)}}
}

// Default builds the zero-initialized variable for t: 0 for number, "" for
// string, an uninitialized function, an empty array, and an element-wise
// default tuple (spec.md §4.6 "Default initialization").
func Default(t *sltype.Type) *Var {
	switch t.Kind {
	case sltype.Void:
		return nil
	case sltype.Number:
		return NewNumber(0)
	case sltype.String:
		return NewString("")
	case sltype.Function:
		return &Var{Kind: sltype.Function, Fn: Function{Index: -1}}
	case sltype.Array:
		return NewArray(t.Elem)
	case sltype.Tuple:
		v := NewTuple(len(t.Elems))
		for i, et := range t.Elems {
			v.Tup.Elts[i] = Default(et)
		}
		return v
	default:
		return nil
	}
}

// Clone deep-copies composite values so pass-by-value semantics hold at
// call boundaries (spec.md §4.8); strings and functions are cheap to share
// and are copied by value without aliasing mutable state.
func Clone(v *Var) *Var {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case sltype.Array:
		elts := make([]*Var, len(v.Arr.Elts))
		for i, e := range v.Arr.Elts {
			elts[i] = Clone(e)
		}
		return &Var{Kind: sltype.Array, Arr: &Array{Elem: v.Arr.Elem, Elts: elts}}
	case sltype.Tuple:
		elts := make([]*Var, len(v.Tup.Elts))
		for i, e := range v.Tup.Elts {
			elts[i] = Clone(e)
		}
		return &Var{Kind: sltype.Tuple, Tup: &Tuple{Elts: elts}}
	default:
		cp := *v
		return &cp
	}
}

// Set rebinds dst's underlying value to src's, in place, so every existing
// alias to dst observes the assignment (spec.md §4.6 assignment rule).
func Set(dst, src *Var) {
	*dst = *Clone(src)
}

// String renders v the way spec.md §4.8 "Stringification" specifies:
// integer-valued numbers format as integers, strings as themselves,
// functions as the literal "FUNCTION", and arrays/tuples bracketed and
// comma-joined.
func String(v *Var) string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case sltype.Number:
		if v.Num == float64(int64(v.Num)) {
			return strconv.FormatInt(int64(v.Num), 10)
		}
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case sltype.String:
		return v.Str
	case sltype.Function:
		return "FUNCTION"
	case sltype.Array:
		return joinElts(v.Arr.Elts)
	case sltype.Tuple:
		return joinElts(v.Tup.Elts)
	default:
		return ""
	}
}

func joinElts(elts []*Var) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range elts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(String(e))
	}
	b.WriteByte(']')
	return b.String()
}
