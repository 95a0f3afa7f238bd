package replcli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mochacinno-dev/zephyr/internal/bundler"
	"github.com/mochacinno-dev/zephyr/internal/codec"
	"github.com/mochacinno-dev/zephyr/internal/config"
	"github.com/mochacinno-dev/zephyr/internal/parser"
)

var outputStem string

var compileCmd = &cobra.Command{
	Use:   "compile <path>",
	Short: "Compile a Zephyr source file to a payload and a native executable",
	Long: `compile parses a Zephyr source file, encodes it as a compiled
payload, and writes both the payload file and a
self-contained native executable that embeds it.

Examples:
  zephyr compile script.zph
  zephyr compile -o bin/greeter script.zph`,
	Args: cobra.ExactArgs(1),
	RunE: runCompileCmd,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&outputStem, "output", "o", "", "output stem (default: derived from the input filename)")
}

func runCompileCmd(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	source := string(content)

	prog, errs := parser.ParseProgram(source)
	if len(errs) > 0 {
		reportParseErrors(filename, errs)
		return fmt.Errorf("parsing %s failed with %d error(s)", filename, len(errs))
	}

	stem := outputStem
	if stem == "" {
		stem = config.TrimSourceExt(filename)
		if stem == filename {
			stem = strings.TrimSuffix(filename, filepath.Ext(filename))
		}
	}

	payload := codec.Encode(prog.Stmts, source)
	payloadPath := stem + config.CompiledFileExt
	if err := os.WriteFile(payloadPath, payload, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", payloadPath, err)
	}

	exePath := bundler.ExePath(stem)
	size, err := bundler.WriteExecutable(payload, exePath)
	if err != nil {
		return fmt.Errorf("writing %s: %w", exePath, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "payload:    %s (%d bytes)\n", payloadPath, len(payload))
		fmt.Fprintf(os.Stderr, "executable: %s (%s)\n", exePath, bundler.HumanSize(size))
	} else {
		fmt.Printf("Compiled %s -> %s, %s\n", filename, payloadPath, exePath)
	}
	return nil
}
