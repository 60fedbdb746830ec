// Package sllib is SL's host-facing module (spec.md §4.10): it lets an
// embedding host register Go functions callable from script, register
// callers for public script functions, and load a source file through
// the full compile pipeline.
package sllib

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/cwbudde/slscript/internal/compctx"
	"github.com/cwbudde/slscript/internal/compile"
	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/serrors"
	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/value"
)

// PublicFunc is a caller cell for a public script function (spec.md
// §4.10 "Public call-out"): the host registers one by name, and each Call
// looks that name up in the public-function index of the most recently
// loaded program.
type PublicFunc struct {
	host *Host
	name string
}

// Call boxes args into script variables, invokes the public function
// through the runtime context, and unboxes its return value. It returns
// an error if the host has not yet loaded a script, or no public
// function of this name was compiled.
func (pf *PublicFunc) Call(args ...any) (any, error) {
	if pf.host.rt == nil {
		return nil, fmt.Errorf("sllib: %q called before a successful Load", pf.name)
	}
	idx, ok := pf.host.rt.PublicIndex[pf.name]
	if !ok {
		return nil, fmt.Errorf("sllib: no public function named %q", pf.name)
	}
	fnType := pf.host.ctx.Functions()[idx].Type

	if len(args) != len(fnType.Params) {
		return nil, fmt.Errorf("sllib: %q takes %d argument(s), got %d", pf.name, len(fnType.Params), len(args))
	}
	params := make([]*value.Var, len(args))
	for i, a := range args {
		switch fnType.Params[i].Type.Kind {
		case sltype.Number:
			params[i] = value.NewNumber(toFloat64(reflect.ValueOf(a)))
		case sltype.String:
			params[i] = value.NewString(fmt.Sprint(a))
		default:
			return nil, fmt.Errorf("sllib: %q parameter %d has unsupported type %s", pf.name, i, fnType.Params[i].Type)
		}
	}
	ret, err := pf.host.rt.CallByIndex(idx, params)
	if err != nil {
		return nil, err
	}
	switch fnType.Result.Kind {
	case sltype.Void:
		return nil, nil
	case sltype.Number:
		return ret.Num, nil
	case sltype.String:
		return ret.Str, nil
	default:
		return nil, fmt.Errorf("sllib: %q returns unsupported type %s", pf.name, fnType.Result)
	}
}

// Host wires host-provided Go functions and public-function callers into
// a compiled SL program.
type Host struct {
	ctx      *compctx.Context
	external []runtime.Func
	publics  []*PublicFunc
	rt       *runtime.Context
	source   string
}

// New creates a Host ready to accept registrations before Load.
func New() *Host {
	return &Host{ctx: compile.NewContext()}
}

// RegisterFunction registers a Go function under name, typed over
// number/string parameters and a void/number/string result (spec.md
// §4.10 "Registration"). It synthesizes the textual declaration "function
// R name(T1, T2, ...)" and feeds it through the same tokenizer+parser the
// compiler uses, so the name enters the function table exactly as a
// script-declared function would.
func (h *Host) RegisterFunction(name string, fn any) error {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return fmt.Errorf("sllib: RegisterFunction(%q): not a function", name)
	}
	if fv.IsNil() {
		return fmt.Errorf("sllib: RegisterFunction(%q): nil function", name)
	}

	numOut := ft.NumOut()
	hasErr := numOut > 0 && ft.Out(numOut-1) == errorType
	resultOut := numOut - boolToInt(hasErr)
	if resultOut > 1 {
		return fmt.Errorf("sllib: RegisterFunction(%q): at most one non-error result is supported", name)
	}

	resultKind := sltype.Void
	if resultOut == 1 {
		k, err := goKindFor(ft.Out(0))
		if err != nil {
			return fmt.Errorf("sllib: RegisterFunction(%q): %w", name, err)
		}
		resultKind = k
	}
	resultType := kindType(resultKind)

	decl := name + "("
	paramGoTypes := make([]reflect.Type, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		pt := ft.In(i)
		if _, err := goKindFor(pt); err != nil {
			return fmt.Errorf("sllib: RegisterFunction(%q): parameter %d: %w", name, i, err)
		}
		paramGoTypes[i] = pt
		if i > 0 {
			decl += ", "
		}
		decl += slTypeName(pt)
	}
	decl += ")"
	decl = "function " + resultType.String() + " " + decl

	_, _, params, err := compile.ParseSignature(decl, h.ctx)
	if err != nil {
		return fmt.Errorf("sllib: RegisterFunction(%q): %w", name, err)
	}

	body := func(rt *runtime.Context) error {
		n := len(params)
		in := make([]reflect.Value, n)
		for i := 0; i < n; i++ {
			v := rt.Local(-(i + 1))
			in[i] = unboxArg(v, paramGoTypes[i])
		}
		out := fv.Call(in)
		if hasErr {
			if errv := out[len(out)-1]; !errv.IsNil() {
				return rt.Errorf("%s", errv.Interface().(error).Error())
			}
		}
		if resultOut == 1 {
			value.Set(rt.RetVal(), boxResult(ft.Out(0).Kind(), out[0]))
		}
		return nil
	}
	h.external = append(h.external, runtime.Func{Name: name, Body: body})
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func kindType(k sltype.Kind) *sltype.Type {
	switch k {
	case sltype.Number:
		return sltype.NumberType
	case sltype.String:
		return sltype.StringType
	default:
		return sltype.VoidType
	}
}

func slTypeName(t reflect.Type) string {
	if t.Kind() == reflect.String {
		return "string"
	}
	return "number"
}

// Public registers a caller cell for a public script function the host
// wants to invoke (spec.md §4.10 "Public call-out"); the cell resolves
// once Load succeeds.
func (h *Host) Public(name string) *PublicFunc {
	pf := &PublicFunc{host: h, name: name}
	h.publics = append(h.publics, pf)
	return pf
}

// Load reads path, compiles it, and runs its global initializers (spec.md
// §4.10 "Loading").
func (h *Host) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return h.LoadSource(string(data))
}

// LoadSource compiles source directly, without reading a file.
func (h *Host) LoadSource(source string) error {
	h.source = source
	rt, err := compile.Compile(source, h.ctx, h.external)
	if err != nil {
		return err
	}
	h.rt = rt
	return rt.Initialize()
}

// TryLoad mirrors Load but catches every diagnostic kind (spec.md §4.10,
// §7 "try_load"), formatting it with source excerpt and caret to w and
// reporting success as a bool instead of propagating the error.
func (h *Host) TryLoad(path string, w io.Writer) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "file-not-found: %s\n", err)
		return false
	}
	source := string(data)
	if err := h.LoadSource(source); err != nil {
		diag := serrors.FromAny(err, source, path)
		fmt.Fprintln(w, diag.Format(false))
		return false
	}
	return true
}

// ResetGlobals re-runs every global initializer (spec.md §4.10
// "reset_globals"), restoring the program's initial state without
// recompiling it.
func (h *Host) ResetGlobals() error {
	if h.rt == nil {
		return fmt.Errorf("sllib: ResetGlobals called before a successful Load")
	}
	return h.rt.Initialize()
}

// Context returns the runtime context produced by the last successful
// Load, or nil if none has succeeded yet.
func (h *Host) Context() *runtime.Context { return h.rt }
