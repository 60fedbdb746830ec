package sltype

import "sort"

// Registry interns type descriptors so that structurally equal types share
// one *Type (spec.md §4.3 invariant: "two handles are equal iff their
// structural descriptions are equal"). The primitive handles are
// process-wide singletons returned without insertion.
type Registry struct {
	// compound holds every non-primitive Type interned so far, kept sorted
	// by Less so Intern can binary search it.
	compound []*Type
}

// Primitive singletons. Allocated once at package init so every Registry
// shares identical void/number/string handles, matching "Primitive handles
// are process-wide singletons" in spec.md §3.
var (
	VoidType   = &Type{Kind: Void}
	NumberType = &Type{Kind: Number}
	StringType = &Type{Kind: String}
)

// NewRegistry creates an empty type registry. Primitive handles need no
// registration; compound types are interned lazily as Intern is called.
func NewRegistry() *Registry {
	return &Registry{}
}

// Array interns array(elem).
func (r *Registry) Array(elem *Type) *Type {
	return r.Intern(&Type{Kind: Array, Elem: elem})
}

// Function interns function(result; params...).
func (r *Registry) Function(result *Type, params []Param) *Type {
	return r.Intern(&Type{Kind: Function, Result: result, Params: append([]Param(nil), params...)})
}

// Tuple interns tuple([elems...]).
func (r *Registry) Tuple(elems []*Type) *Type {
	return r.Intern(&Type{Kind: Tuple, Elems: append([]*Type(nil), elems...)})
}

// InitList interns the transient init-list([elems...]) shape produced by a
// brace literal. Like other compound types it is deduplicated, though
// init-list handles are never retained past type checking of the literal
// that produced them.
func (r *Registry) InitList(elems []*Type) *Type {
	return r.Intern(&Type{Kind: InitList, Elems: append([]*Type(nil), elems...)})
}

// Intern returns the canonical handle for t's structural shape, inserting
// it into the registry if this is the first time the shape is seen.
// Primitive kinds are returned as the fixed singleton without touching the
// registry.
func (r *Registry) Intern(t *Type) *Type {
	switch t.Kind {
	case Void:
		return VoidType
	case Number:
		return NumberType
	case String:
		return StringType
	}

	i := sort.Search(len(r.compound), func(i int) bool {
		return !less(r.compound[i], t)
	})
	if i < len(r.compound) && equalStructural(r.compound[i], t) {
		return r.compound[i]
	}
	r.compound = append(r.compound, nil)
	copy(r.compound[i+1:], r.compound[i:])
	r.compound[i] = t
	return t
}

// less implements the strict total order of spec.md §4.3: first by Kind,
// then recursively by inner structure.
func less(a, b *Type) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	switch a.Kind {
	case Void, Number, String:
		return false
	case Array:
		return less(a.Elem, b.Elem)
	case Function:
		if !equalStructural(a.Result, b.Result) {
			return less(a.Result, b.Result)
		}
		return lessParams(a.Params, b.Params)
	case Tuple, InitList:
		return lessTypeList(a.Elems, b.Elems)
	}
	return false
}

func lessParams(a, b []Param) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if !equalStructural(a[i].Type, b[i].Type) {
			return less(a[i].Type, b[i].Type)
		}
		if a[i].ByRef != b[i].ByRef {
			return !a[i].ByRef && b[i].ByRef
		}
	}
	return len(a) < len(b)
}

func lessTypeList(a, b []*Type) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if !equalStructural(a[i], b[i]) {
			return less(a[i], b[i])
		}
	}
	return len(a) < len(b)
}

// equalStructural compares two (possibly un-interned) Type values by
// structure, used while interning to detect an existing match.
func equalStructural(a, b *Type) bool {
	if a == b {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Void, Number, String:
		return true
	case Array:
		return equalStructural(a.Elem, b.Elem)
	case Function:
		if !equalStructural(a.Result, b.Result) || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if a.Params[i].ByRef != b.Params[i].ByRef || !equalStructural(a.Params[i].Type, b.Params[i].Type) {
				return false
			}
		}
		return true
	case Tuple, InitList:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !equalStructural(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}
