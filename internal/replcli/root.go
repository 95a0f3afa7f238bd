// Package replcli is the CLI surface: a cobra root command that
// enters the REPL with no arguments, dispatches a bare positional
// argument to run/run-compiled by extension, and carries run/compile/
// check subcommands.
package replcli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mochacinno-dev/zephyr/internal/config"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "zephyr [path]",
	Short:   "Zephyr interpreter and compiler",
	Long:    `zephyr is the reference interpreter for the Zephyr scripting language: a tree-walking evaluator with a compiled-bytecode payload format and a self-embedding executable bundler.`,
	Version: config.Version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runRoot,
}

func init() {
	rootCmd.SetVersionTemplate("zephyr version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute runs the CLI, dispatching to the self-embedded payload check
// first.
func Execute() error {
	if payload, ok := tryExtractEmbeddedPayload(); ok {
		return runEmbeddedPayload(payload)
	}
	return rootCmd.Execute()
}

// runRoot handles the root command's own positional argument: no args
// enters the REPL, one argument dispatches by extension to source-file
// execution or compiled-payload execution.
func runRoot(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runREPL()
	}
	return runPath(args[0])
}

func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
