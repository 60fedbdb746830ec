// Command sl is the thin CLI entry point spec.md places out of scope for
// the core interpreter: it validates arguments, selects a script file, and
// hosts the sllib package that drives the compile and runtime packages.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/slscript/cmd/sl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
