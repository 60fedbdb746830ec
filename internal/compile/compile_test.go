package compile

import (
	"testing"

	"github.com/cwbudde/slscript/internal/runtime"
	"github.com/cwbudde/slscript/internal/sltype"
)

// runWithTrace compiles source against a single external "trace(string)"
// function, standing in for the host-provided trace() used by every seed
// scenario in spec.md §8, and returns every string it was called with.
func runWithTrace(t *testing.T, source string) []string {
	t.Helper()
	ctx := NewContext()

	var out []string
	traceFn := runtime.Func{
		Name: "trace",
		Body: func(rt *runtime.Context) error {
			arg := rt.Local(-1)
			out = append(out, arg.Str)
			return nil
		},
	}
	if _, _, _, err := ParseSignature("function void trace(string)", ctx); err != nil {
		t.Fatalf("ParseSignature(trace): %v", err)
	}

	rt, err := Compile(source, ctx, []runtime.Func{traceFn})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := rt.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	idx, ok := rt.PublicIndex["main"]
	if !ok {
		t.Fatalf("no public main in program")
	}
	if _, err := rt.CallByIndex(idx, nil); err != nil {
		t.Fatalf("call main: %v", err)
	}
	return out
}

func TestSeedScenarios(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "arithmetic and locals",
			source: `public function void main(){ number a = 3; number b = 4; trace(toString(a*a + b*b)); }`,
			want:   []string{"25"},
		},
		{
			name:   "short-circuit",
			source: `public function void main(){ number x = 0; if (0 && (x=1)) {} trace(toString(x)); }`,
			want:   []string{"0"},
		},
		{
			name:   "tuple indexing and return",
			source: `function [number,string] pair(){ return {7,"hi"}; } public function void main(){ [number,string] p = pair(); trace(toString(p[0])); trace(p[1]); }`,
			want:   []string{"7", "hi"},
		},
		{
			name:   "by-reference argument",
			source: `function void inc(number& x){ x = x + 1; } public function void main(){ number n = 41; inc(&n); trace(toString(n)); }`,
			want:   []string{"42"},
		},
		{
			name: "break levels",
			source: `public function void main(){
				for (number i=0;i<3;++i){
					for (number j=0;j<3;++j){
						if (j==2) break 2;
						trace(toString(i*10+j));
					}
				}
			}`,
			want: []string{"0", "1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := runWithTrace(t, tc.source)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("trace[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestForwardFunctionReference(t *testing.T) {
	source := `
		public function void main(){ trace(callee()); }
		function number callee(){ return 99; }
	`
	ctx := NewContext()
	var out []float64
	traceFn := runtime.Func{
		Name: "trace",
		Body: func(rt *runtime.Context) error {
			out = append(out, rt.Local(-1).Num)
			return nil
		},
	}
	if _, _, _, err := ParseSignature("function void trace(number)", ctx); err != nil {
		t.Fatalf("ParseSignature: %v", err)
	}
	rt, err := Compile(source, ctx, []runtime.Func{traceFn})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := rt.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	idx := rt.PublicIndex["main"]
	if _, err := rt.CallByIndex(idx, nil); err != nil {
		t.Fatalf("call main: %v", err)
	}
	if len(out) != 1 || out[0] != 99 {
		t.Fatalf("got %v, want [99]", out)
	}
}

func TestGlobalDeclAndFallOffReturnsDefault(t *testing.T) {
	source := `
		number counter = 5;
		function number noReturn(){ number unused = 1; }
		public function void main(){}
	`
	rt, ctx, err := CompileStandalone(source)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := rt.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	id, ok := ctx.Find("counter")
	if !ok {
		t.Fatalf("global counter not found")
	}
	if rt.Globals[id.Index].Num != 5 {
		t.Fatalf("counter = %v, want 5", rt.Globals[id.Index].Num)
	}

	fnID, ok := ctx.Find("noReturn")
	if !ok {
		t.Fatalf("function noReturn not found")
	}
	ret, err := rt.CallByIndex(fnID.Index, nil)
	if err != nil {
		t.Fatalf("call noReturn: %v", err)
	}
	if ret.Kind != sltype.Number || ret.Num != 0 {
		t.Fatalf("fall-off return = %+v, want number 0", ret)
	}
}

func TestDuplicateFunctionNameIsSemanticError(t *testing.T) {
	source := `
		function void dup(){}
		function void dup(){}
		public function void main(){}
	`
	_, _, err := CompileStandalone(source)
	if err == nil {
		t.Fatalf("expected a redeclaration error")
	}
	cerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error is %T, want *compile.Error", err)
	}
	if !cerr.Semantic {
		t.Fatalf("expected Semantic=true for a redeclaration")
	}
}

func TestDeclaringVoidLocalIsError(t *testing.T) {
	source := `public function void main(){ void x; }`
	_, _, err := CompileStandalone(source)
	if err == nil {
		t.Fatalf("expected an error declaring a void local")
	}
}
