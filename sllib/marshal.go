package sllib

import (
	"fmt"
	"reflect"

	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/value"
)

// goKindFor reports the sltype.Kind a reflected Go type marshals to, for
// the number/string-only surface spec.md §4.10 registration supports.
func goKindFor(t reflect.Type) (sltype.Kind, error) {
	switch t.Kind() {
	case reflect.Float64, reflect.Float32,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return sltype.Number, nil
	case reflect.String:
		return sltype.String, nil
	default:
		return sltype.Void, fmt.Errorf("unsupported host type %s: external functions accept only number and string", t)
	}
}

// boxResult converts a Go reflect.Value of kind k back into an SL *value.Var.
func boxResult(k reflect.Kind, rv reflect.Value) *value.Var {
	switch k {
	case reflect.Float64, reflect.Float32,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.NewNumber(toFloat64(rv))
	case reflect.String:
		return value.NewString(rv.String())
	default:
		return nil
	}
}

func toFloat64(rv reflect.Value) float64 {
	switch rv.Kind() {
	case reflect.Float64, reflect.Float32:
		return rv.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	default:
		return 0
	}
}

// unboxArg converts an SL *value.Var into a Go reflect.Value assignable to
// want, truncating number->integer Go types the way spec.md §6 "Runtime
// values" describes ("integer conversions truncate toward zero").
func unboxArg(v *value.Var, want reflect.Type) reflect.Value {
	switch want.Kind() {
	case reflect.String:
		return reflect.ValueOf(v.Str)
	case reflect.Float64:
		return reflect.ValueOf(v.Num)
	case reflect.Float32:
		return reflect.ValueOf(float32(v.Num)).Convert(want)
	default:
		// integer kinds: truncate toward zero, matching SL's number->integer rule.
		return reflect.ValueOf(v.Num).Convert(want)
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
