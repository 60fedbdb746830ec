package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/slscript/internal/serrors"
	"github.com/cwbudde/slscript/sllib"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check an SL program without running it",
	Long: `Compile an SL program through lexing, parsing, and type checking and
report any diagnostic, without calling any public function.`,
	Args: cobra.ExactArgs(1),
	RunE: checkScript,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkScript(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	source := string(data)

	host := sllib.New()
	if err := registerStdout(host); err != nil {
		return err
	}
	if err := host.LoadSource(source); err != nil {
		diag := serrors.FromAny(err, source, filename)
		fmt.Fprintln(os.Stderr, diag.Format(false))
		return fmt.Errorf("%s: %d error(s)", filename, 1)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "%s: ok\n", filename)
	}
	return nil
}
