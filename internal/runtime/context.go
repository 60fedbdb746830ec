// Package runtime implements the runtime context that evaluates compiled
// programs (spec.md §4.9): globals, a value stack used as a call stack of
// locals and return slots, a function table, and the public-function
// index.
package runtime

import (
	"fmt"

	"github.com/cwbudde/slscript/internal/value"
)

// Error is a runtime error (spec.md §7): negative array index, call on an
// uninitialized function, uninitialized global access, or an explicit
// assertion failure.
type Error struct {
	Msg  string
	Line int
	Char int
}

func (e *Error) Error() string { return e.Msg }

// Func is one function-table entry: either a compiled script body or a
// host-provided callable, both invoked uniformly as Body(rt).
type Func struct {
	Name string
	Body func(rt *Context) error
}

// Init is a single global initializer: evaluate Eval and store the result
// at Globals[Index].
type Init struct {
	Index int
	Eval  func(rt *Context) (*value.Var, error)
}

// Context is the runtime state a compiled program executes against.
type Context struct {
	Globals []*value.Var
	Stack   []*value.Var
	Funcs   []Func

	// PublicIndex maps a public function's name to its Funcs index, for
	// host call-outs (spec.md §4.10).
	PublicIndex map[string]int

	inits    []Init
	retSlot  int
	lastLine int
	lastChar int
}

// New creates an empty runtime context. Callers populate Funcs and call
// SetInits before the first Initialize.
func New() *Context {
	return &Context{PublicIndex: map[string]int{}}
}

// SetInits installs the global initializer list, in source-declaration
// order.
func (rt *Context) SetInits(inits []Init) { rt.inits = inits }

// Initialize (re-)runs every global initializer in registration order,
// giving deterministic reset semantics (spec.md §3 Lifecycle).
func (rt *Context) Initialize() error {
	rt.Globals = make([]*value.Var, len(rt.inits))
	for _, in := range rt.inits {
		v, err := in.Eval(rt)
		if err != nil {
			return err
		}
		rt.Globals[in.Index] = v
	}
	return nil
}

// Local returns the stack entry at offset i relative to the current call's
// return slot: parameters at negative i, other locals at positive i
// (spec.md §5).
func (rt *Context) Local(i int) *value.Var {
	return rt.Stack[rt.retSlot+i]
}

// RetVal returns the stack entry reserved for the current function's
// return value.
func (rt *Context) RetVal() *value.Var {
	return rt.Stack[rt.retSlot]
}

// PushLocal appends a new local slot on top of the stack (used by
// declaration statements).
func (rt *Context) PushLocal(v *value.Var) {
	rt.Stack = append(rt.Stack, v)
}

// EnterScope records the current stack size and returns a closure that
// truncates the stack back to it, discarding any locals pushed within the
// scope on every exit path (spec.md §4.9 "Scoped acquisition").
func (rt *Context) EnterScope() func() {
	size := len(rt.Stack)
	return func() {
		rt.Stack = rt.Stack[:size]
	}
}

// Call pushes params onto the stack in reverse order (last parameter
// deepest), reserves a return slot, invokes fn, and restores the stack and
// return-slot index to their pre-call state before returning the captured
// result (spec.md §4.9 "Calling").
func (rt *Context) Call(fn Func, params []*value.Var) (*value.Var, error) {
	oldTop := len(rt.Stack)
	for i := len(params) - 1; i >= 0; i-- {
		rt.Stack = append(rt.Stack, params[i])
	}
	oldRetSlot := rt.retSlot
	rt.retSlot = len(rt.Stack)
	rt.Stack = append(rt.Stack, &value.Var{}) // reserved return slot

	err := fn.Body(rt)

	var ret *value.Var
	if rt.retSlot < len(rt.Stack) {
		ret = rt.Stack[rt.retSlot]
	}
	rt.Stack = rt.Stack[:oldTop]
	rt.retSlot = oldRetSlot
	return ret, err
}

// CallByIndex invokes the function stored at Funcs[idx], or a runtime error
// if idx is negative (an uninitialized function variable).
func (rt *Context) CallByIndex(idx int, params []*value.Var) (*value.Var, error) {
	if idx < 0 || idx >= len(rt.Funcs) {
		return nil, &Error{Msg: "call on uninitialized function", Line: rt.lastLine, Char: rt.lastChar}
	}
	return rt.Call(rt.Funcs[idx], params)
}

// SetPos records the source coordinates of the expression currently being
// evaluated, so a runtime error raised deeper in the call (e.g. from a host
// function) can be attributed to a location.
func (rt *Context) SetPos(line, char int) {
	rt.lastLine, rt.lastChar = line, char
}

// Errorf builds a runtime Error at the most recently recorded position.
func (rt *Context) Errorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...), Line: rt.lastLine, Char: rt.lastChar}
}
