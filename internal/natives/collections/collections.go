// Package collections implements the higher-order list built-ins —
// "map" | "filter" | "reduce" | "zip" | "enumerate" | "sorted" — as
// free functions alongside the List method forms already on the
// built-in method table.
package collections

import (
	"fmt"

	"github.com/mochacinno-dev/zephyr/internal/evaluator"
)

// Table returns the collections native function set.
func Table() map[string]evaluator.NativeFunc {
	return map[string]evaluator.NativeFunc{
		"map":       mapFn,
		"filter":    filterFn,
		"reduce":    reduceFn,
		"zip":       zipFn,
		"enumerate": enumerateFn,
		"sorted":    sortedFn,
	}
}

func requireList(name string, v evaluator.Value) (*evaluator.List, error) {
	l, ok := v.(*evaluator.List)
	if !ok {
		return nil, fmt.Errorf("%s: expected a List, got %s", name, v.Type())
	}
	return l, nil
}

func mapFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("map: expected 2 arguments, got %d", len(args))
	}
	l, err := requireList("map", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]evaluator.Value, len(l.Elems))
	for i, e := range l.Elems {
		v, err := interp.Call(args[1], []evaluator.Value{e})
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return &evaluator.List{Elems: out}, nil
}

func filterFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("filter: expected 2 arguments, got %d", len(args))
	}
	l, err := requireList("filter", args[0])
	if err != nil {
		return nil, err
	}
	var out []evaluator.Value
	for _, e := range l.Elems {
		keep, err := interp.Call(args[1], []evaluator.Value{e})
		if err != nil {
			return nil, err
		}
		if evaluator.Truthy(keep) {
			out = append(out, e)
		}
	}
	return &evaluator.List{Elems: out}, nil
}

func reduceFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("reduce: expected 3 arguments, got %d", len(args))
	}
	l, err := requireList("reduce", args[0])
	if err != nil {
		return nil, err
	}
	acc := args[1]
	for _, e := range l.Elems {
		acc, err = interp.Call(args[2], []evaluator.Value{acc, e})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func zipFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("zip: expected 2 arguments, got %d", len(args))
	}
	a, err := requireList("zip", args[0])
	if err != nil {
		return nil, err
	}
	b, err := requireList("zip", args[1])
	if err != nil {
		return nil, err
	}
	n := len(a.Elems)
	if len(b.Elems) < n {
		n = len(b.Elems)
	}
	out := make([]evaluator.Value, n)
	for i := 0; i < n; i++ {
		out[i] = &evaluator.Tuple{Elems: []evaluator.Value{a.Elems[i], b.Elems[i]}}
	}
	return &evaluator.List{Elems: out}, nil
}

func enumerateFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("enumerate: expected 1 argument, got %d", len(args))
	}
	l, err := requireList("enumerate", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]evaluator.Value, len(l.Elems))
	for i, e := range l.Elems {
		out[i] = &evaluator.Tuple{Elems: []evaluator.Value{&evaluator.Int{Value: int64(i)}, e}}
	}
	return &evaluator.List{Elems: out}, nil
}

func sortedFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("sorted: expected 1 argument, got %d", len(args))
	}
	l, err := requireList("sorted", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]evaluator.Value, len(l.Elems))
	copy(out, l.Elems)
	evaluator.SortList(out)
	return &evaluator.List{Elems: out}, nil
}
