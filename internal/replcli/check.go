package replcli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mochacinno-dev/zephyr/internal/parser"
)

var checkCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Parse-check a Zephyr source file without evaluating it",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckCmd,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheckCmd(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	_, errs := parser.ParseProgram(string(content))
	if len(errs) > 0 {
		reportParseErrors(filename, errs)
		return fmt.Errorf("%s: %d error(s)", filename, len(errs))
	}

	fmt.Printf("%s: OK\n", filename)
	return nil
}
