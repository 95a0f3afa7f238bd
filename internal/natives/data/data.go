// Package data implements the JSON and YAML leaf built-ins. JSON is
// backed by tidwall/gjson+sjson for schema-less read-modify-write over
// raw text; YAML is backed by gopkg.in/yaml.v3.
package data

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	"github.com/mochacinno-dev/zephyr/internal/evaluator"
)

// Table returns the data-codec native function set.
func Table() map[string]evaluator.NativeFunc {
	return map[string]evaluator.NativeFunc{
		"json_parse":     jsonParse,
		"json_get":       jsonGet,
		"json_set":       jsonSet,
		"json_stringify": jsonStringify,
		"yaml_parse":     yamlParse,
		"yaml_stringify": yamlStringify,
	}
}

func requireString(name string, v evaluator.Value) (string, error) {
	s, ok := v.(*evaluator.String)
	if !ok {
		return "", fmt.Errorf("%s: expected a String, got %s", name, v.Type())
	}
	return s.Value, nil
}

// jsonParse decodes raw JSON text into a Zephyr value tree.
func jsonParse(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("json_parse: expected 1 argument, got %d", len(args))
	}
	text, err := requireString("json_parse", args[0])
	if err != nil {
		return nil, err
	}
	result := gjson.Parse(text)
	if !result.Exists() && text != "null" {
		return evaluator.ErrOf(&evaluator.String{Value: "invalid JSON"}), nil
	}
	return evaluator.OkOf(gjsonToValue(result)), nil
}

// jsonGet reads the value at a gjson path from raw JSON text, returning
// an Option rather than failing when the path is absent.
func jsonGet(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("json_get: expected 2 arguments, got %d", len(args))
	}
	text, err := requireString("json_get", args[0])
	if err != nil {
		return nil, err
	}
	path, err := requireString("json_get", args[1])
	if err != nil {
		return nil, err
	}
	result := gjson.Get(text, path)
	if !result.Exists() {
		return evaluator.NoneValue(), nil
	}
	return evaluator.SomeOf(gjsonToValue(result)), nil
}

// jsonSet writes a Zephyr value at a path into raw JSON text, returning
// the new document text.
func jsonSet(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("json_set: expected 3 arguments, got %d", len(args))
	}
	text, err := requireString("json_set", args[0])
	if err != nil {
		return nil, err
	}
	path, err := requireString("json_set", args[1])
	if err != nil {
		return nil, err
	}
	out, err := sjson.Set(text, path, valueToPlain(args[2]))
	if err != nil {
		return evaluator.ErrOf(&evaluator.String{Value: err.Error()}), nil
	}
	return evaluator.OkOf(&evaluator.String{Value: out}), nil
}

func jsonStringify(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("json_stringify: expected 1 argument, got %d", len(args))
	}
	out, err := sjson.Set("", "x", valueToPlain(args[0]))
	if err != nil {
		return evaluator.ErrOf(&evaluator.String{Value: err.Error()}), nil
	}
	return evaluator.OkOf(&evaluator.String{Value: gjson.Get(out, "x").Raw}), nil
}

func yamlParse(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("yaml_parse: expected 1 argument, got %d", len(args))
	}
	text, err := requireString("yaml_parse", args[0])
	if err != nil {
		return nil, err
	}
	var doc any
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return evaluator.ErrOf(&evaluator.String{Value: err.Error()}), nil
	}
	return evaluator.OkOf(plainToValue(doc)), nil
}

func yamlStringify(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("yaml_stringify: expected 1 argument, got %d", len(args))
	}
	out, err := yaml.Marshal(valueToPlain(args[0]))
	if err != nil {
		return evaluator.ErrOf(&evaluator.String{Value: err.Error()}), nil
	}
	return evaluator.OkOf(&evaluator.String{Value: string(out)}), nil
}

// gjsonToValue converts a gjson.Result into a Zephyr Value tree.
func gjsonToValue(r gjson.Result) evaluator.Value {
	switch r.Type {
	case gjson.Null:
		return evaluator.NilValue
	case gjson.False:
		return &evaluator.Bool{Value: false}
	case gjson.True:
		return &evaluator.Bool{Value: true}
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return &evaluator.Int{Value: int64(r.Num)}
		}
		return &evaluator.Float{Value: r.Num}
	case gjson.String:
		return &evaluator.String{Value: r.Str}
	case gjson.JSON:
		if r.IsArray() {
			var elems []evaluator.Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, gjsonToValue(v))
				return true
			})
			return &evaluator.List{Elems: elems}
		}
		m := evaluator.NewMap()
		r.ForEach(func(k, v gjson.Result) bool {
			m.Set(k.String(), gjsonToValue(v))
			return true
		})
		return m
	}
	return evaluator.NilValue
}

// valueToPlain converts a Zephyr Value into plain Go data suitable for
// sjson.Set/yaml.Marshal.
func valueToPlain(v evaluator.Value) any {
	switch vv := v.(type) {
	case *evaluator.Nil:
		return nil
	case *evaluator.Bool:
		return vv.Value
	case *evaluator.Int:
		return vv.Value
	case *evaluator.Float:
		return vv.Value
	case *evaluator.String:
		return vv.Value
	case *evaluator.List:
		out := make([]any, len(vv.Elems))
		for i, e := range vv.Elems {
			out[i] = valueToPlain(e)
		}
		return out
	case *evaluator.Map:
		out := make(map[string]any, vv.Len())
		for _, k := range vv.Keys() {
			e, _ := vv.Get(k)
			out[k] = valueToPlain(e)
		}
		return out
	case *evaluator.Option:
		if !vv.HasValue {
			return nil
		}
		return valueToPlain(vv.Inner)
	}
	return v.Display()
}

// plainToValue converts decoded YAML data (map[string]any/[]any/
// scalars) into a Zephyr Value tree.
func plainToValue(v any) evaluator.Value {
	switch vv := v.(type) {
	case nil:
		return evaluator.NilValue
	case bool:
		return &evaluator.Bool{Value: vv}
	case int:
		return &evaluator.Int{Value: int64(vv)}
	case int64:
		return &evaluator.Int{Value: vv}
	case float64:
		if vv == float64(int64(vv)) {
			return &evaluator.Int{Value: int64(vv)}
		}
		return &evaluator.Float{Value: vv}
	case string:
		return &evaluator.String{Value: vv}
	case []any:
		out := make([]evaluator.Value, len(vv))
		for i, e := range vv {
			out[i] = plainToValue(e)
		}
		return &evaluator.List{Elems: out}
	case map[string]any:
		m := evaluator.NewMap()
		for k, e := range vv {
			m.Set(k, plainToValue(e))
		}
		return m
	}
	return evaluator.NilValue
}
