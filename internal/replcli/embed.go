package replcli

import (
	"fmt"
	"os"

	"github.com/mochacinno-dev/zephyr/internal/ast"
	"github.com/mochacinno-dev/zephyr/internal/bundler"
	"github.com/mochacinno-dev/zephyr/internal/codec"
	"github.com/mochacinno-dev/zephyr/internal/evaluator"
	"github.com/mochacinno-dev/zephyr/internal/natives"
)

// tryExtractEmbeddedPayload reads this process's own binary image and
// looks for a trailing compiled payload. A clean,
// unbundled interpreter binary has none, which is the common case.
func tryExtractEmbeddedPayload() ([]byte, bool) {
	return bundler.ExtractPayload()
}

// runEmbeddedPayload decodes and evaluates a self-embedded payload and
// exits with the program's result. No CLI is shown for bundled
// executables; a corrupted payload warns and falls
// back to normal CLI behavior instead of exiting.
func runEmbeddedPayload(payload []byte) error {
	stmts, _, err := codec.Decode(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: embedded payload is corrupt (%v), falling back to CLI\n", err)
		return rootCmd.Execute()
	}

	interp := evaluator.NewInterpreter(os.Stdin, os.Stdout, os.Stderr)
	natives.RegisterAll(interp)

	if _, err := interp.Eval(&ast.Program{Stmts: stmts}); err != nil {
		reportEvalError(err)
		os.Exit(1)
	}
	return nil
}
