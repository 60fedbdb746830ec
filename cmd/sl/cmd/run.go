package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/slscript/internal/serrors"
	"github.com/cwbudde/slscript/sllib"
	"github.com/spf13/cobra"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an SL program",
	Long: `Compile and run an SL program, then invoke its public "main" function
if one was declared.

Examples:
  # Run a script file
  sl run script.sl

  # Evaluate inline source
  sl run -e "public function void main(){ trace(\"hi\"); }"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "run inline source instead of reading from file")
}

func runScript(_ *cobra.Command, args []string) error {
	host := sllib.New()
	if err := registerStdout(host); err != nil {
		return err
	}
	main := host.Public("main")

	var source, filename string
	switch {
	case evalExpr != "":
		source, filename = evalExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		source = string(data)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline source")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Running %s...\n", filename)
	}

	if err := host.LoadSource(source); err != nil {
		diag := serrors.FromAny(err, source, filename)
		fmt.Fprintln(os.Stderr, diag.Format(false))
		return fmt.Errorf("load failed")
	}

	if _, declared := host.Context().PublicIndex["main"]; !declared {
		return nil
	}
	if _, err := main.Call(); err != nil {
		return fmt.Errorf("sl: %w", err)
	}
	return nil
}

// registerStdout wires the single host function the seed scenarios in
// spec.md §8 exercise: trace(string) writes a line to stdout. The bundled
// math/string standard library demonstrated by the host interface is out of
// scope; trace is kept minimal so "sl run" has something to call out to.
func registerStdout(host *sllib.Host) error {
	return host.RegisterFunction("trace", func(s string) {
		fmt.Println(s)
	})
}
