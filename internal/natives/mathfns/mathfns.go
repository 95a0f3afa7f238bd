// Package mathfns implements math built-ins: abs, sqrt,
// pow, min, max, floor, ceil, round.
package mathfns

import (
	"fmt"
	"math"

	"github.com/mochacinno-dev/zephyr/internal/evaluator"
)

// Table returns the math native function set.
func Table() map[string]evaluator.NativeFunc {
	return map[string]evaluator.NativeFunc{
		"abs":   absFn,
		"sqrt":  sqrtFn,
		"pow":   powFn,
		"min":   minFn,
		"max":   maxFn,
		"floor": floorFn,
		"ceil":  ceilFn,
		"round": roundFn,
	}
}

func asFloat(v evaluator.Value) (float64, bool) {
	switch vv := v.(type) {
	case *evaluator.Int:
		return float64(vv.Value), true
	case *evaluator.Float:
		return vv.Value, true
	}
	return 0, false
}

func absFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("abs: expected 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case *evaluator.Int:
		if v.Value < 0 {
			return &evaluator.Int{Value: -v.Value}, nil
		}
		return v, nil
	case *evaluator.Float:
		return &evaluator.Float{Value: math.Abs(v.Value)}, nil
	}
	return nil, fmt.Errorf("abs: expected a number, got %s", args[0].Type())
}

func sqrtFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("sqrt: expected 1 argument, got %d", len(args))
	}
	f, ok := asFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("sqrt: expected a number, got %s", args[0].Type())
	}
	return &evaluator.Float{Value: math.Sqrt(f)}, nil
}

func powFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("pow: expected 2 arguments, got %d", len(args))
	}
	base, ok1 := asFloat(args[0])
	exp, ok2 := asFloat(args[1])
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("pow: expected two numbers")
	}
	if _, baseIsInt := args[0].(*evaluator.Int); baseIsInt {
		if expInt, expIsInt := args[1].(*evaluator.Int); expIsInt && expInt.Value >= 0 {
			return &evaluator.Int{Value: int64(math.Pow(base, exp))}, nil
		}
	}
	return &evaluator.Float{Value: math.Pow(base, exp)}, nil
}

func minFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	return extremum(args, "min", true)
}

func maxFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	return extremum(args, "max", false)
}

func extremum(args []evaluator.Value, name string, wantMin bool) (evaluator.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: expected at least 1 argument", name)
	}
	best := args[0]
	for _, a := range args[1:] {
		if (evaluator.CompareForSort(a, best) < 0) == wantMin {
			best = a
		}
	}
	return best, nil
}

func floorFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	f, err := requireFloat("floor", args)
	if err != nil {
		return nil, err
	}
	return &evaluator.Int{Value: int64(math.Floor(f))}, nil
}

func ceilFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	f, err := requireFloat("ceil", args)
	if err != nil {
		return nil, err
	}
	return &evaluator.Int{Value: int64(math.Ceil(f))}, nil
}

func roundFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	f, err := requireFloat("round", args)
	if err != nil {
		return nil, err
	}
	return &evaluator.Int{Value: int64(math.Round(f))}, nil
}

func requireFloat(name string, args []evaluator.Value) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: expected 1 argument, got %d", name, len(args))
	}
	f, ok := asFloat(args[0])
	if !ok {
		return 0, fmt.Errorf("%s: expected a number, got %s", name, args[0].Type())
	}
	return f, nil
}
