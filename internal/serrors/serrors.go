// Package serrors formats the diagnostics produced by every compiler and
// runtime stage into a single, uniform rendering: a position header, the
// offending source line, a caret, and the message. It is the adapter
// layer between each stage's small Position-carrying error type and a
// human-readable report, grounded on go-dws's internal/errors package.
package serrors

import (
	"fmt"
	"strings"
)

// Kind classifies which pipeline stage raised a Diagnostic.
type Kind string

const (
	KindFile     Kind = "file"
	KindParsing  Kind = "parsing"
	KindSyntax   Kind = "syntax"
	KindSemantic Kind = "semantic"
	KindCompiler Kind = "compiler"
	KindRuntime  Kind = "runtime"
)

// Diagnostic is a single reported error: what stage raised it, its
// message, where in the source it occurred, and (when available) the
// source text to quote.
type Diagnostic struct {
	Kind    Kind
	Message string
	Line    int
	Char    int
	Source  string
	File    string
}

func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders the diagnostic the way spec.md §7 describes: a
// "(line+1) message" header, one line of source context, and a caret
// pointing at the column. Columns are 1-based at the call site but
// spec.md's line numbers are zero-based internally, so Line is stored
// zero-based and displayed as Line+1.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		sb.WriteString(fmt.Sprintf("%s:%d:%d: ", d.File, d.Line+1, d.Char))
	} else {
		sb.WriteString(fmt.Sprintf("line %d: ", d.Line+1))
	}
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(fmt.Sprintf("[%s] %s", d.Kind, d.Message))
	if color {
		sb.WriteString("\033[0m")
	}
	sb.WriteString("\n")

	line := sourceLine(d.Source, d.Line+1)
	if line != "" {
		prefix := fmt.Sprintf("%4d | ", d.Line+1)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max0(d.Char-1)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
	}

	return sb.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func sourceLine(source string, lineNum int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Wrap builds a Diagnostic of the given Kind at a specific position; the
// From* functions in adapt.go call this for each stage's error type.
func Wrap(kind Kind, msg string, line, char int, source, file string) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: msg, Line: line, Char: char, Source: source, File: file}
}

// Multi formats a batch of diagnostics the way go-dws's FormatErrors does:
// a single diagnostic renders bare, a batch gets a numbered banner.
func Multi(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s):\n\n", len(diags)))
	for i, d := range diags {
		sb.WriteString(fmt.Sprintf("[%d/%d] ", i+1, len(diags)))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
