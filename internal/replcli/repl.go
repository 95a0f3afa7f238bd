package replcli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/mochacinno-dev/zephyr/internal/config"
	"github.com/mochacinno-dev/zephyr/internal/evaluator"
	"github.com/mochacinno-dev/zephyr/internal/parser"
)

// styles hold the REPL's prompt/result/error palette, scaled down to
// the handful of messages it actually prints.
type styles struct {
	prompt lipgloss.Style
	result lipgloss.Style
	err    lipgloss.Style
	hint   lipgloss.Style
}

func newStyles(interactive bool) styles {
	if !interactive {
		plain := lipgloss.NewStyle()
		return styles{prompt: plain, result: plain, err: plain, hint: plain}
	}
	return styles{
		prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		result: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		hint:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

const helpText = `Commands:
  :help   show this message
  :clear  clear all definitions
  :quit   exit the REPL

Type an expression or statement and press Enter to evaluate it.
Input spanning unbalanced braces/brackets/parens continues onto the
next line until they balance.`

// runREPL is the bare no-args entry point: an interactive
// read-eval-print loop with brace-balanced multi-line input and the
// :help/:clear/:quit commands.
func runREPL() error {
	settings, err := config.Load(".")
	if err != nil {
		return err
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	st := newStyles(interactive)
	interp := newInterpreter()
	scanner := bufio.NewScanner(os.Stdin)

	if interactive {
		fmt.Printf("Zephyr %s — type :help for commands, :quit to exit\n", config.Version)
	}

	for {
		fmt.Print(st.prompt.Render(settings.Prompt))
		source, ok := readStatement(scanner)
		if !ok {
			if interactive {
				fmt.Println()
			}
			return nil
		}

		trimmed := strings.TrimSpace(source)
		switch trimmed {
		case "":
			continue
		case ":help":
			fmt.Println(st.hint.Render(helpText))
			continue
		case ":clear":
			interp = newInterpreter()
			continue
		case ":quit":
			return nil
		}

		evalREPLStatement(interp, trimmed, st)
	}
}

// readStatement reads lines from scanner until every brace, bracket,
// and paren opened so far is closed, or input ends.
func readStatement(scanner *bufio.Scanner) (string, bool) {
	var buf strings.Builder
	depth := 0
	for {
		if !scanner.Scan() {
			text := buf.String()
			return text, strings.TrimSpace(text) != ""
		}
		line := scanner.Text()
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
		depth += braceDelta(line)
		if depth <= 0 {
			return buf.String(), true
		}
		fmt.Print("... ")
	}
}

func braceDelta(line string) int {
	delta := 0
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inString = !inString
		case '{', '(', '[':
			if !inString {
				delta++
			}
		case '}', ')', ']':
			if !inString {
				delta--
			}
		}
	}
	return delta
}

func evalREPLStatement(interp *evaluator.Interpreter, source string, st styles) {
	prog, errs := parser.ParseProgram(source)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Println(st.err.Render(e))
		}
		return
	}

	result, err := interp.Eval(prog)
	if err != nil {
		if v, ok := evaluator.IsUnhandledPropagation(err); ok {
			fmt.Println(st.err.Render("unhandled error: " + v.Display()))
			return
		}
		fmt.Println(st.err.Render(err.Error()))
		return
	}
	if result != nil && result.Type() != evaluator.NilType {
		fmt.Println(st.result.Render(result.Inspect()))
	}
}
