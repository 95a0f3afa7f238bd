// Package fs implements the filesystem leaf built-ins: read/write/
// exists/remove, reified as Result values rather than Runtime Errors.
package fs

import (
	"fmt"
	"os"

	"github.com/mochacinno-dev/zephyr/internal/evaluator"
)

// Table returns the filesystem native function set.
func Table() map[string]evaluator.NativeFunc {
	return map[string]evaluator.NativeFunc{
		"read_file":   readFile,
		"write_file":  writeFile,
		"file_exists": fileExists,
		"remove_file": removeFile,
	}
}

func requirePath(name string, v evaluator.Value) (string, error) {
	s, ok := v.(*evaluator.String)
	if !ok {
		return "", fmt.Errorf("%s: expected a String path", name)
	}
	return s.Value, nil
}

func readFile(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("read_file: expected 1 argument, got %d", len(args))
	}
	path, err := requirePath("read_file", args[0])
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return evaluator.ErrOf(&evaluator.String{Value: err.Error()}), nil
	}
	return evaluator.OkOf(&evaluator.String{Value: string(b)}), nil
}

func writeFile(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("write_file: expected 2 arguments, got %d", len(args))
	}
	path, err := requirePath("write_file", args[0])
	if err != nil {
		return nil, err
	}
	content, ok := args[1].(*evaluator.String)
	if !ok {
		return nil, fmt.Errorf("write_file: expected a String content")
	}
	if err := os.WriteFile(path, []byte(content.Value), 0o644); err != nil {
		return evaluator.ErrOf(&evaluator.String{Value: err.Error()}), nil
	}
	return evaluator.OkOf(evaluator.NilValue), nil
}

func fileExists(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("file_exists: expected 1 argument, got %d", len(args))
	}
	path, err := requirePath("file_exists", args[0])
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	return &evaluator.Bool{Value: statErr == nil}, nil
}

func removeFile(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("remove_file: expected 1 argument, got %d", len(args))
	}
	path, err := requirePath("remove_file", args[0])
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		return evaluator.ErrOf(&evaluator.String{Value: err.Error()}), nil
	}
	return evaluator.OkOf(evaluator.NilValue), nil
}
