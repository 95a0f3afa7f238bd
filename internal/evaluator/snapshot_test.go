package evaluator_test

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/mochacinno-dev/zephyr/internal/evaluator"
	"github.com/mochacinno-dev/zephyr/internal/natives"
	"github.com/mochacinno-dev/zephyr/internal/parser"
)

// runProgram parses and evaluates source, returning everything the
// program wrote to stdout, snapshotted per named case.
func runProgram(t *testing.T, source string) string {
	t.Helper()
	prog, errs := parser.ParseProgram(source)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}

	var out bytes.Buffer
	interp := evaluator.NewInterpreter(bytes.NewReader(nil), &out, &out)
	natives.RegisterAll(interp)

	if _, err := interp.Eval(prog); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return out.String()
}

func TestEvalSnapshots(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{
			name:   "arithmetic_and_println",
			source: `println(1 + 2 * 3)`,
		},
		{
			name: "fun_def_and_call",
			source: `
fun add(a: Int, b: Int = 1) -> Int {
    a + b
}
println(add(41))
`,
		},
		{
			name: "match_on_range",
			source: `
let x = 5
match x {
    0 => println("zero"),
    1..10 => println("small"),
    _ => println("other"),
}
`,
		},
		{
			name: "struct_create_and_field_access",
			source: `
struct Point { x: Int, y: Int }
let p = Point { x: 1, y: 2 }
println(p.x + p.y)
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			output := runProgram(t, tc.source)
			snaps.MatchSnapshot(t, tc.name, output)
		})
	}
}
