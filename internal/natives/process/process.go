// Package process implements the process-execution leaf built-in
//: a synchronous `exec` alongside the async
// spawn_exec primitive in internal/natives/asyncrt.
package process

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/mochacinno-dev/zephyr/internal/evaluator"
)

// Table returns the process native function set.
func Table() map[string]evaluator.NativeFunc {
	return map[string]evaluator.NativeFunc{
		"exec": execFn,
	}
}

func execFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("exec: expected 1 argument, got %d", len(args))
	}
	cmdline, ok := args[0].(*evaluator.String)
	if !ok {
		return nil, fmt.Errorf("exec: expected a String command")
	}
	cmd := exec.Command("sh", "-c", cmdline.Value)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		} else {
			return evaluator.ErrOf(&evaluator.String{Value: err.Error()}), nil
		}
	}
	m := evaluator.NewMap()
	m.Set("stdout", &evaluator.String{Value: stdout.String()})
	m.Set("stderr", &evaluator.String{Value: stderr.String()})
	m.Set("exit_code", &evaluator.Int{Value: int64(exitCode)})
	if exitCode != 0 {
		return evaluator.ErrOf(m), nil
	}
	return evaluator.OkOf(m), nil
}
