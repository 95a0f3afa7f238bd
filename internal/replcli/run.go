package replcli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mochacinno-dev/zephyr/internal/ast"
	"github.com/mochacinno-dev/zephyr/internal/codec"
	"github.com/mochacinno-dev/zephyr/internal/config"
	"github.com/mochacinno-dev/zephyr/internal/evaluator"
	"github.com/mochacinno-dev/zephyr/internal/natives"
	"github.com/mochacinno-dev/zephyr/internal/parser"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Parse and evaluate a Zephyr source or compiled-payload file",
	Long: `run executes a Zephyr program from a source file, a compiled
payload file, or an inline expression.

Examples:
  zephyr run script.zph
  zephyr run -e "print(1 + 2)"
  zephyr run script.zphc`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRunCmd,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from a file")
}

func runRunCmd(_ *cobra.Command, args []string) error {
	if evalExpr != "" {
		return runSource(evalExpr, "<eval>")
	}
	if len(args) != 1 {
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}
	return runPath(args[0])
}

// runPath dispatches a bare path argument by extension:
// a `.zphc` payload is decoded and evaluated directly, anything else is
// treated as Zephyr source.
func runPath(path string) error {
	if filepath.Ext(path) == config.CompiledFileExt {
		return runCompiledFile(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return runSource(string(content), path)
}

func newInterpreter() *evaluator.Interpreter {
	interp := evaluator.NewInterpreter(os.Stdin, os.Stdout, os.Stderr)
	natives.RegisterAll(interp)
	return interp
}

// runSource parses and evaluates a Zephyr source string.
func runSource(source, filename string) error {
	prog, errs := parser.ParseProgram(source)
	if len(errs) > 0 {
		reportParseErrors(filename, errs)
		return fmt.Errorf("parsing %s failed with %d error(s)", filename, len(errs))
	}

	interp := newInterpreter()
	if _, err := interp.Eval(prog); err != nil {
		reportEvalError(err)
		return fmt.Errorf("execution failed")
	}
	return nil
}

// runCompiledFile decodes and evaluates a `.zphc` payload file,
// warning (but not failing) when a sibling source file disagrees with
// its stored fingerprint.
func runCompiledFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	stmts, _, err := codec.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	sibling := config.TrimSourceExt(path) + config.SourceFileExt
	if source, err := os.ReadFile(sibling); err == nil {
		if !codec.IsFresh(data, string(source)) {
			fmt.Fprintf(os.Stderr, "warning: %s is stale relative to %s\n", path, sibling)
		}
	}

	interp := newInterpreter()
	if _, err := interp.Eval(&ast.Program{Stmts: stmts}); err != nil {
		reportEvalError(err)
		return fmt.Errorf("execution failed")
	}
	return nil
}

func reportParseErrors(filename string, errs []string) {
	fmt.Fprintf(os.Stderr, "%s: parse errors:\n", filename)
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "  %s\n", e)
	}
}

// reportEvalError prints an evaluation failure, distinguishing an
// unhandled `?`-propagated error value from a
// plain Runtime Error.
func reportEvalError(err error) {
	if v, ok := evaluator.IsUnhandledPropagation(err); ok {
		fmt.Fprintf(os.Stderr, "unhandled error: %s\n", v.Display())
		return
	}
	fmt.Fprintf(os.Stderr, "runtime error: %s\n", err.Error())
}
