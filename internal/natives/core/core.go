// Package core implements I/O, type-conversion, and
// range built-ins, plus the assert/panic/exit escape hatches.
package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mochacinno-dev/zephyr/internal/evaluator"
)

// Table returns the core native function set.
func Table() map[string]evaluator.NativeFunc {
	return map[string]evaluator.NativeFunc{
		"print":       printFn,
		"println":     printlnFn,
		"write":       writeFn,
		"readline":    readlineFn,
		"int":         toInt,
		"float":       toFloat,
		"str":         toStr,
		"bool":        toBool,
		"type_of":     typeOf,
		"range":       rangeFn,
		"len":         lenFn,
		"push":        pushFn,
		"pop":         popFn,
		"split":       splitFn,
		"join":        joinFn,
		"trim":        trimFn,
		"assert":      assertFn,
		"panic":       panicFn,
		"exit":        exitFn,
	}
}

func argErr(name string, want int, got int) error {
	return fmt.Errorf("%s: expected %d argument(s), got %d", name, want, got)
}

func printFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Display()
	}
	fmt.Fprint(interp.Stdout, strings.Join(parts, " "))
	return evaluator.NilValue, nil
}

func printlnFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Display()
	}
	fmt.Fprintln(interp.Stdout, strings.Join(parts, " "))
	return evaluator.NilValue, nil
}

func writeFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, argErr("write", 1, len(args))
	}
	fmt.Fprint(interp.Stdout, args[0].Display())
	return evaluator.NilValue, nil
}

func readlineFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	var src io.Reader = os.Stdin
	if interp.Stdin != nil {
		src = interp.Stdin
	}
	line, err := bufio.NewReader(src).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line == "" {
		return evaluator.NoneValue(), nil
	}
	return evaluator.SomeOf(&evaluator.String{Value: line}), nil
}

func toInt(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, argErr("int", 1, len(args))
	}
	switch v := args[0].(type) {
	case *evaluator.Int:
		return v, nil
	case *evaluator.Float:
		return &evaluator.Int{Value: int64(v.Value)}, nil
	case *evaluator.Bool:
		if v.Value {
			return &evaluator.Int{Value: 1}, nil
		}
		return &evaluator.Int{Value: 0}, nil
	case *evaluator.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
		if err != nil {
			return evaluator.ErrOf(&evaluator.String{Value: "cannot convert to int: " + v.Value}), nil
		}
		return evaluator.OkOf(&evaluator.Int{Value: n}), nil
	}
	return nil, fmt.Errorf("int: cannot convert %s", args[0].Type())
}

func toFloat(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, argErr("float", 1, len(args))
	}
	switch v := args[0].(type) {
	case *evaluator.Float:
		return v, nil
	case *evaluator.Int:
		return &evaluator.Float{Value: float64(v.Value)}, nil
	case *evaluator.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if err != nil {
			return evaluator.ErrOf(&evaluator.String{Value: "cannot convert to float: " + v.Value}), nil
		}
		return evaluator.OkOf(&evaluator.Float{Value: f}), nil
	}
	return nil, fmt.Errorf("float: cannot convert %s", args[0].Type())
}

func toStr(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, argErr("str", 1, len(args))
	}
	return &evaluator.String{Value: args[0].Display()}, nil
}

func toBool(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, argErr("bool", 1, len(args))
	}
	return &evaluator.Bool{Value: evaluator.Truthy(args[0])}, nil
}

func typeOf(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, argErr("type_of", 1, len(args))
	}
	return &evaluator.String{Value: evaluator.TypeName(args[0])}, nil
}

func rangeFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	var start, end, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		n, ok := args[0].(*evaluator.Int)
		if !ok {
			return nil, fmt.Errorf("range: arguments must be Int")
		}
		end = n.Value
	case 2, 3:
		s, ok1 := args[0].(*evaluator.Int)
		e, ok2 := args[1].(*evaluator.Int)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("range: arguments must be Int")
		}
		start, end = s.Value, e.Value
		if len(args) == 3 {
			st, ok := args[2].(*evaluator.Int)
			if !ok || st.Value == 0 {
				return nil, fmt.Errorf("range: step must be a nonzero Int")
			}
			step = st.Value
		}
	default:
		return nil, fmt.Errorf("range: expected 1-3 arguments, got %d", len(args))
	}
	var elems []evaluator.Value
	if step > 0 {
		for i := start; i < end; i += step {
			elems = append(elems, &evaluator.Int{Value: i})
		}
	} else {
		for i := start; i > end; i += step {
			elems = append(elems, &evaluator.Int{Value: i})
		}
	}
	return &evaluator.List{Elems: elems}, nil
}

func lenFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, argErr("len", 1, len(args))
	}
	switch v := args[0].(type) {
	case *evaluator.List:
		return &evaluator.Int{Value: int64(len(v.Elems))}, nil
	case *evaluator.String:
		return &evaluator.Int{Value: int64(len([]rune(v.Value)))}, nil
	case *evaluator.Map:
		return &evaluator.Int{Value: int64(v.Len())}, nil
	}
	return nil, fmt.Errorf("len: unsupported type %s", args[0].Type())
}

func pushFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 2 {
		return nil, argErr("push", 2, len(args))
	}
	l, ok := args[0].(*evaluator.List)
	if !ok {
		return nil, fmt.Errorf("push: expected a List")
	}
	l.Elems = append(l.Elems, args[1])
	return l, nil
}

func popFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, argErr("pop", 1, len(args))
	}
	l, ok := args[0].(*evaluator.List)
	if !ok {
		return nil, fmt.Errorf("pop: expected a List")
	}
	if len(l.Elems) == 0 {
		return evaluator.NoneValue(), nil
	}
	last := l.Elems[len(l.Elems)-1]
	l.Elems = l.Elems[:len(l.Elems)-1]
	return evaluator.SomeOf(last), nil
}

func splitFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 2 {
		return nil, argErr("split", 2, len(args))
	}
	s, ok1 := args[0].(*evaluator.String)
	sep, ok2 := args[1].(*evaluator.String)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("split: expected two Strings")
	}
	parts := strings.Split(s.Value, sep.Value)
	out := make([]evaluator.Value, len(parts))
	for i, p := range parts {
		out[i] = &evaluator.String{Value: p}
	}
	return &evaluator.List{Elems: out}, nil
}

func joinFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 2 {
		return nil, argErr("join", 2, len(args))
	}
	l, ok1 := args[0].(*evaluator.List)
	sep, ok2 := args[1].(*evaluator.String)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("join: expected a List and a String")
	}
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.Display()
	}
	return &evaluator.String{Value: strings.Join(parts, sep.Value)}, nil
}

func trimFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, argErr("trim", 1, len(args))
	}
	s, ok := args[0].(*evaluator.String)
	if !ok {
		return nil, fmt.Errorf("trim: expected a String")
	}
	return &evaluator.String{Value: strings.TrimSpace(s.Value)}, nil
}

func assertFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("assert: expected at least 1 argument")
	}
	if evaluator.Truthy(args[0]) {
		return evaluator.NilValue, nil
	}
	msg := "assertion failed"
	if len(args) > 1 {
		msg = args[1].Display()
	}
	return nil, fmt.Errorf("%s", msg)
}

func panicFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	msg := "panic"
	if len(args) > 0 {
		msg = args[0].Display()
	}
	return nil, fmt.Errorf("%s", msg)
}

func exitFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	code := 0
	if len(args) > 0 {
		if n, ok := args[0].(*evaluator.Int); ok {
			code = int(n.Value)
		}
	}
	os.Exit(code)
	return evaluator.NilValue, nil
}
