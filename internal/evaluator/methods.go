package evaluator

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperCaser = cases.Upper(language.Und)
var lowerCaser = cases.Lower(language.Und)

// zephyrUpper/zephyrLower back the to_upper/to_lower String methods
// with locale-aware casing (golang.org/x/text/cases) rather than the
// byte-oriented strings.ToUpper/ToLower.
func zephyrUpper(s string) string { return upperCaser.String(s) }
func zephyrLower(s string) string { return lowerCaser.String(s) }

// callBuiltinMethod dispatches obj.method(args) against the built-in
// method table keyed by value variant. Reached only after no
// user-defined impl method matched.
func (in *Interpreter) callBuiltinMethod(obj Value, method string, args []Value) (Value, error) {
	switch v := obj.(type) {
	case *List:
		return listMethod(v, method, args)
	case *String:
		return stringMethod(v, method, args)
	case *Map:
		return mapMethod(v, method, args)
	case *Option:
		return optionMethod(v, method, args)
	case *Result:
		return resultMethod(v, method, args)
	case *Int:
		return intMethod(v, method, args)
	case *Float:
		return floatMethod(v, method, args)
	}
	return nil, rtErrorf("no method %q on %s", method, obj.Type())
}

func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func listMethod(l *List, method string, args []Value) (Value, error) {
	switch method {
	case "push":
		l.Elems = append(l.Elems, arg(args, 0))
		return l, nil
	case "pop":
		if len(l.Elems) == 0 {
			return NoneValue(), nil
		}
		last := l.Elems[len(l.Elems)-1]
		l.Elems = l.Elems[:len(l.Elems)-1]
		return SomeOf(last), nil
	case "len":
		return &Int{Value: int64(len(l.Elems))}, nil
	case "is_empty":
		return &Bool{Value: len(l.Elems) == 0}, nil
	case "first":
		if len(l.Elems) == 0 {
			return NoneValue(), nil
		}
		return SomeOf(l.Elems[0]), nil
	case "last":
		if len(l.Elems) == 0 {
			return NoneValue(), nil
		}
		return SomeOf(l.Elems[len(l.Elems)-1]), nil
	case "contains":
		for _, e := range l.Elems {
			if Equal(e, arg(args, 0)) {
				return &Bool{Value: true}, nil
			}
		}
		return &Bool{Value: false}, nil
	case "join":
		sep := ""
		if s, ok := arg(args, 0).(*String); ok {
			sep = s.Value
		}
		parts := make([]string, len(l.Elems))
		for i, e := range l.Elems {
			parts[i] = e.Display()
		}
		return &String{Value: strings.Join(parts, sep)}, nil
	case "reverse":
		out := make([]Value, len(l.Elems))
		for i, e := range l.Elems {
			out[len(l.Elems)-1-i] = e
		}
		return &List{Elems: out}, nil
	case "sort":
		out := make([]Value, len(l.Elems))
		copy(out, l.Elems)
		SortList(out)
		return &List{Elems: out}, nil
	case "slice":
		start := 0
		if si, ok := arg(args, 0).(*Int); ok {
			start = int(si.Value)
		}
		end := len(l.Elems)
		if len(args) > 1 {
			if ei, ok := args[1].(*Int); ok {
				end = int(ei.Value)
			}
		}
		if start < 0 || end > len(l.Elems) || start > end {
			return nil, rtErrorf("slice bounds out of range")
		}
		out := make([]Value, end-start)
		copy(out, l.Elems[start:end])
		return &List{Elems: out}, nil
	case "enumerate":
		out := make([]Value, len(l.Elems))
		for i, e := range l.Elems {
			out[i] = &Tuple{Elems: []Value{&Int{Value: int64(i)}, e}}
		}
		return &List{Elems: out}, nil
	}
	return nil, rtErrorf("no method %q on List", method)
}

func stringMethod(s *String, method string, args []Value) (Value, error) {
	runes := []rune(s.Value)
	switch method {
	case "len":
		return &Int{Value: int64(len(runes))}, nil
	case "is_empty":
		return &Bool{Value: len(s.Value) == 0}, nil
	case "to_upper":
		return &String{Value: zephyrUpper(s.Value)}, nil
	case "to_lower":
		return &String{Value: zephyrLower(s.Value)}, nil
	case "trim":
		return &String{Value: strings.TrimSpace(s.Value)}, nil
	case "trim_start":
		return &String{Value: strings.TrimLeft(s.Value, " \t\n\r")}, nil
	case "trim_end":
		return &String{Value: strings.TrimRight(s.Value, " \t\n\r")}, nil
	case "chars":
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = &String{Value: string(r)}
		}
		return &List{Elems: out}, nil
	case "split":
		sep := ""
		if a, ok := arg(args, 0).(*String); ok {
			sep = a.Value
		}
		var parts []string
		if sep == "" {
			parts = strings.Split(s.Value, "")
		} else {
			parts = strings.Split(s.Value, sep)
		}
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = &String{Value: p}
		}
		return &List{Elems: out}, nil
	case "starts_with":
		a, _ := arg(args, 0).(*String)
		return &Bool{Value: a != nil && strings.HasPrefix(s.Value, a.Value)}, nil
	case "ends_with":
		a, _ := arg(args, 0).(*String)
		return &Bool{Value: a != nil && strings.HasSuffix(s.Value, a.Value)}, nil
	case "contains":
		a, _ := arg(args, 0).(*String)
		return &Bool{Value: a != nil && strings.Contains(s.Value, a.Value)}, nil
	case "replace":
		from, _ := arg(args, 0).(*String)
		to, _ := arg(args, 1).(*String)
		if from == nil || to == nil {
			return nil, rtErrorf("replace expects two String arguments")
		}
		return &String{Value: strings.ReplaceAll(s.Value, from.Value, to.Value)}, nil
	case "parse_int":
		n, err := strconv.ParseInt(strings.TrimSpace(s.Value), 10, 64)
		if err != nil {
			return ErrOf(&String{Value: "invalid integer: " + s.Value}), nil
		}
		return OkOf(&Int{Value: n}), nil
	case "parse_float":
		f, err := strconv.ParseFloat(strings.TrimSpace(s.Value), 64)
		if err != nil {
			return ErrOf(&String{Value: "invalid float: " + s.Value}), nil
		}
		return OkOf(&Float{Value: f}), nil
	case "repeat":
		n, _ := arg(args, 0).(*Int)
		if n == nil {
			return nil, rtErrorf("repeat expects an Int argument")
		}
		return &String{Value: repeatString(s.Value, n.Value)}, nil
	case "lines":
		parts := strings.Split(s.Value, "\n")
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = &String{Value: p}
		}
		return &List{Elems: out}, nil
	}
	return nil, rtErrorf("no method %q on String", method)
}

func mapMethod(m *Map, method string, args []Value) (Value, error) {
	switch method {
	case "get":
		key := DisplayForKey(arg(args, 0))
		if v, ok := m.Get(key); ok {
			return SomeOf(v), nil
		}
		return NoneValue(), nil
	case "set":
		m.Set(DisplayForKey(arg(args, 0)), arg(args, 1))
		return m, nil
	case "contains_key":
		_, ok := m.Get(DisplayForKey(arg(args, 0)))
		return &Bool{Value: ok}, nil
	case "remove":
		ok := m.Delete(DisplayForKey(arg(args, 0)))
		return &Bool{Value: ok}, nil
	case "keys":
		keys := m.Keys()
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = &String{Value: k}
		}
		return &List{Elems: out}, nil
	case "values":
		keys := m.Keys()
		out := make([]Value, len(keys))
		for i, k := range keys {
			v, _ := m.Get(k)
			out[i] = v
		}
		return &List{Elems: out}, nil
	case "len":
		return &Int{Value: int64(m.Len())}, nil
	case "is_empty":
		return &Bool{Value: m.Len() == 0}, nil
	}
	return nil, rtErrorf("no method %q on Map", method)
}

func optionMethod(o *Option, method string, args []Value) (Value, error) {
	switch method {
	case "is_some":
		return &Bool{Value: o.HasValue}, nil
	case "is_none":
		return &Bool{Value: !o.HasValue}, nil
	case "unwrap":
		if !o.HasValue {
			return nil, rtErrorf("unwrap on None")
		}
		return o.Inner, nil
	case "unwrap_or":
		if o.HasValue {
			return o.Inner, nil
		}
		return arg(args, 0), nil
	}
	return nil, rtErrorf("no method %q on Option", method)
}

func resultMethod(r *Result, method string, args []Value) (Value, error) {
	switch method {
	case "is_ok":
		return &Bool{Value: r.IsOk}, nil
	case "is_err":
		return &Bool{Value: !r.IsOk}, nil
	case "unwrap":
		if !r.IsOk {
			return nil, rtErrorf("unwrap on Err(%s)", r.Inner.Display())
		}
		return r.Inner, nil
	case "unwrap_or":
		if r.IsOk {
			return r.Inner, nil
		}
		return arg(args, 0), nil
	}
	return nil, rtErrorf("no method %q on Result", method)
}

func intMethod(i *Int, method string, args []Value) (Value, error) {
	switch method {
	case "to_str":
		return &String{Value: i.Display()}, nil
	case "abs":
		if i.Value < 0 {
			return &Int{Value: -i.Value}, nil
		}
		return i, nil
	case "to_float":
		return &Float{Value: float64(i.Value)}, nil
	case "to_int":
		return i, nil
	case "pow":
		n, _ := arg(args, 0).(*Int)
		if n == nil {
			return nil, rtErrorf("pow expects an Int argument")
		}
		return &Int{Value: intPow(i.Value, n.Value)}, nil
	}
	return nil, rtErrorf("no method %q on Int", method)
}

func floatMethod(f *Float, method string, args []Value) (Value, error) {
	switch method {
	case "to_str":
		return &String{Value: f.Display()}, nil
	case "abs":
		if f.Value < 0 {
			return &Float{Value: -f.Value}, nil
		}
		return f, nil
	case "to_float":
		return f, nil
	case "to_int":
		return &Int{Value: int64(f.Value)}, nil
	case "pow":
		return &Float{Value: floatPow(f.Value, arg(args, 0))}, nil
	}
	return nil, rtErrorf("no method %q on Float", method)
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func floatPow(base float64, exp Value) float64 {
	n, _, _ := numeric(exp)
	result := 1.0
	neg := n < 0
	if neg {
		n = -n
	}
	for i := 0; i < int(n); i++ {
		result *= base
	}
	if neg {
		return 1 / result
	}
	return result
}
