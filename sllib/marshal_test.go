package sllib

import (
	"reflect"
	"testing"

	"github.com/cwbudde/slscript/internal/sltype"
	"github.com/cwbudde/slscript/internal/value"
)

func TestGoKindFor(t *testing.T) {
	if k, err := goKindFor(reflect.TypeOf(float64(0))); err != nil || k != sltype.Number {
		t.Errorf("goKindFor(float64) = %v, %v", k, err)
	}
	if k, err := goKindFor(reflect.TypeOf(int(0))); err != nil || k != sltype.Number {
		t.Errorf("goKindFor(int) = %v, %v", k, err)
	}
	if k, err := goKindFor(reflect.TypeOf("")); err != nil || k != sltype.String {
		t.Errorf("goKindFor(string) = %v, %v", k, err)
	}
	if _, err := goKindFor(reflect.TypeOf(true)); err == nil {
		t.Errorf("goKindFor(bool) should error")
	}
}

func TestUnboxArgTruncatesTowardZero(t *testing.T) {
	v := value.NewNumber(3.9)
	got := unboxArg(v, reflect.TypeOf(int(0)))
	if got.Int() != 3 {
		t.Errorf("unboxArg(3.9 -> int) = %d, want 3", got.Int())
	}

	v = value.NewNumber(-3.9)
	got = unboxArg(v, reflect.TypeOf(int(0)))
	if got.Int() != -3 {
		t.Errorf("unboxArg(-3.9 -> int) = %d, want -3", got.Int())
	}
}

func TestUnboxArgString(t *testing.T) {
	v := value.NewString("hi")
	got := unboxArg(v, reflect.TypeOf(""))
	if got.String() != "hi" {
		t.Errorf("unboxArg(string) = %q, want hi", got.String())
	}
}

func TestBoxResult(t *testing.T) {
	rv := boxResult(reflect.Float64, reflect.ValueOf(float64(2.5)))
	if rv.Kind != sltype.Number || rv.Num != 2.5 {
		t.Errorf("boxResult(float64) = %+v", rv)
	}
	rv = boxResult(reflect.String, reflect.ValueOf("ok"))
	if rv.Kind != sltype.String || rv.Str != "ok" {
		t.Errorf("boxResult(string) = %+v", rv)
	}
}
