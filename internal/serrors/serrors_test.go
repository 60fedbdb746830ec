package serrors

import (
	"fmt"
	"strings"
	"testing"
)

func TestDiagnosticFormatWithSource(t *testing.T) {
	src := "number x = 1\nnumbr y = 2;\n"
	d := Wrap(KindSyntax, `unexpected identifier "y"`, 1, 1, src, "prog.sl")

	prefix := fmt.Sprintf("%4d | ", 2)
	want := "prog.sl:2:1: [syntax] unexpected identifier \"y\"\n" +
		prefix + "numbr y = 2;\n" +
		strings.Repeat(" ", len(prefix)) + "^"

	if got := d.Format(false); got != want {
		t.Errorf("Format() =\n%q\nwant\n%q", got, want)
	}
}

func TestDiagnosticFormatWithoutFile(t *testing.T) {
	d := Wrap(KindRuntime, "array index out of range", 4, 0, "", "")
	want := "line 5: [runtime] array index out of range\n"
	if got := d.Format(false); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestMultiSingleVsBatch(t *testing.T) {
	one := Wrap(KindSemantic, "undeclared identifier", 0, 0, "", "f.sl")
	if got := Multi([]*Diagnostic{one}, false); got != one.Format(false) {
		t.Errorf("Multi with one diagnostic should equal its own Format()")
	}

	two := Wrap(KindSemantic, "type mismatch", 1, 0, "", "f.sl")
	batch := Multi([]*Diagnostic{one, two}, false)
	if batch == "" {
		t.Fatalf("Multi with two diagnostics returned empty string")
	}
}

func TestMultiEmpty(t *testing.T) {
	if got := Multi(nil, false); got != "" {
		t.Errorf("Multi(nil) = %q, want empty string", got)
	}
}
