// Package evaluator implements the Zephyr runtime: the Value model,
// the lexically-scoped Environment, the pattern matcher, and the
// tree-walking evaluator itself. Value and Environment live in one
// package: a closure Value captures an *Environment and an Environment
// cell holds a Value, so splitting them into separate packages would
// create an import cycle.
package evaluator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mochacinno-dev/zephyr/internal/ast"
)

// ObjectType names a runtime Value variant (used for type_of(), method
// dispatch keys, and diagnostics).
type ObjectType string

const (
	IntType      ObjectType = "Int"
	FloatType    ObjectType = "Float"
	BoolType     ObjectType = "Bool"
	StringType   ObjectType = "String"
	NilType      ObjectType = "Nil"
	TupleType    ObjectType = "Tuple"
	ListType     ObjectType = "List"
	MapType      ObjectType = "Map"
	StructType   ObjectType = "Struct"
	EnumType     ObjectType = "Enum"
	OptionType   ObjectType = "Option"
	ResultType   ObjectType = "Result"
	FunctionType ObjectType = "Function"
	RefType      ObjectType = "Ref"
)

// Value is any Zephyr runtime value.
type Value interface {
	Type() ObjectType
	// Display renders the value's interpolation/println form.
	Display() string
	// Inspect renders a debug form (used by the REPL to echo results;
	// differs from Display only for String, which gets quoted).
	Inspect() string
}

// ---- Scalars ----

type Int struct{ Value int64 }

func (i *Int) Type() ObjectType { return IntType }
func (i *Int) Display() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Int) Inspect() string  { return i.Display() }

type Float struct{ Value float64 }

func (f *Float) Type() ObjectType { return FloatType }
func (f *Float) Display() string {
	if f.Value == math.Trunc(f.Value) && !math.IsInf(f.Value, 0) {
		return strconv.FormatFloat(f.Value, 'f', 1, 64)
	}
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}
func (f *Float) Inspect() string { return f.Display() }

type Bool struct{ Value bool }

func (b *Bool) Type() ObjectType { return BoolType }
func (b *Bool) Display() string  { return strconv.FormatBool(b.Value) }
func (b *Bool) Inspect() string  { return b.Display() }

type String struct{ Value string }

func (s *String) Type() ObjectType { return StringType }
func (s *String) Display() string  { return s.Value }
func (s *String) Inspect() string  { return "\"" + s.Value + "\"" }

type Nil struct{}

func (n *Nil) Type() ObjectType { return NilType }
func (n *Nil) Display() string  { return "nil" }
func (n *Nil) Inspect() string  { return "nil" }

var NilValue = &Nil{}

// ---- Tuple (by value) ----

type Tuple struct{ Elems []Value }

func (t *Tuple) Type() ObjectType { return TupleType }
func (t *Tuple) Display() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.Display()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *Tuple) Inspect() string { return t.Display() }

// Copy returns a deep value-copy: tuple elements are themselves copied
// by value, except reference types.
func (t *Tuple) Copy() *Tuple {
	out := make([]Value, len(t.Elems))
	for i, e := range t.Elems {
		out[i] = CopyValue(e)
	}
	return &Tuple{Elems: out}
}

// CopyValue implements value/reference semantics split:
// List/Map/Struct/Ref are shared (aliased, not copied); everything
// else is copied by value.
func CopyValue(v Value) Value {
	switch vv := v.(type) {
	case *Tuple:
		return vv.Copy()
	default:
		return v
	}
}

// ---- List (shared, interior-mutable) ----

type List struct{ Elems []Value }

func (l *List) Type() ObjectType { return ListType }
func (l *List) Display() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.Display()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *List) Inspect() string { return l.Display() }

// ---- Map (shared, interior-mutable; string keys, stable iteration order) ----

type Map struct {
	keys   []string
	values map[string]Value
}

func NewMap() *Map { return &Map{values: make(map[string]Value)} }

func (m *Map) Type() ObjectType { return MapType }

func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Set(key string, v Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *Map) Delete(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) Display() string {
	parts := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, m.values[k].Display()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (m *Map) Inspect() string { return m.Display() }

// ---- Struct (shared, interior-mutable named record) ----

type Struct struct {
	Name   string
	Fields *Map
}

func (s *Struct) Type() ObjectType { return StructType }
func (s *Struct) Display() string {
	parts := make([]string, 0, s.Fields.Len())
	for _, k := range s.Fields.Keys() {
		v, _ := s.Fields.Get(k)
		parts = append(parts, fmt.Sprintf("%s: %s", k, v.Display()))
	}
	return s.Name + " { " + strings.Join(parts, ", ") + " }"
}
func (s *Struct) Inspect() string { return s.Display() }

// ---- Enum (by value tagged constructor) ----

type Enum struct {
	TypeName string
	Variant  string
	Fields   []Value
}

func (e *Enum) Type() ObjectType { return EnumType }
func (e *Enum) Display() string {
	if len(e.Fields) == 0 {
		return e.Variant
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Display()
	}
	return e.Variant + "(" + strings.Join(parts, ", ") + ")"
}
func (e *Enum) Inspect() string { return e.Display() }

// ---- Option / Result ----

type Option struct {
	HasValue bool
	Inner    Value
}

func (o *Option) Type() ObjectType { return OptionType }
func (o *Option) Display() string {
	if !o.HasValue {
		return "None"
	}
	return "Some(" + o.Inner.Display() + ")"
}
func (o *Option) Inspect() string { return o.Display() }

func SomeOf(v Value) *Option  { return &Option{HasValue: true, Inner: v} }
func NoneValue() *Option      { return &Option{HasValue: false, Inner: NilValue} }

type Result struct {
	IsOk  bool
	Inner Value
}

func (r *Result) Type() ObjectType { return ResultType }
func (r *Result) Display() string {
	if r.IsOk {
		return "Ok(" + r.Inner.Display() + ")"
	}
	return "Err(" + r.Inner.Display() + ")"
}
func (r *Result) Inspect() string { return r.Display() }

func OkOf(v Value) *Result  { return &Result{IsOk: true, Inner: v} }
func ErrOf(v Value) *Result { return &Result{IsOk: false, Inner: v} }

// ---- Function (user closure or native) ----

type Function struct {
	Name   string // optional; "" if anonymous
	Params []ast.Param
	Body   []ast.Stmt
	Env    *Environment // closure environment, captured at creation
	Native string       // non-empty for a native-function reference
}

func (f *Function) Type() ObjectType { return FunctionType }
func (f *Function) Display() string {
	if f.Native != "" {
		return "<native fn " + f.Native + ">"
	}
	name := f.Name
	if name == "" {
		name = "<anonymous>"
	}
	return "<fn " + name + ">"
}
func (f *Function) Inspect() string { return f.Display() }
func (f *Function) IsNative() bool  { return f.Native != "" }

// ---- Ref (explicit single-cell mutable reference) ----

type Ref struct{ Cell *Value }

func NewRef(v Value) *Ref {
	cell := v
	return &Ref{Cell: &cell}
}

func (r *Ref) Type() ObjectType { return RefType }
func (r *Ref) Display() string  { return "ref(" + (*r.Cell).Display() + ")" }
func (r *Ref) Inspect() string  { return r.Display() }

// ---- Truthiness & equality ----

// Truthy reports whether v is considered true in a boolean context.
func Truthy(v Value) bool {
	switch vv := v.(type) {
	case *Bool:
		return vv.Value
	case *Nil:
		return false
	case *Option:
		return vv.HasValue
	case *Int:
		return vv.Value != 0
	case *String:
		return vv.Value != ""
	default:
		return true
	}
}

// Equal implements value equality: Nil == None, Int/Float compare
// numerically, and shared containers (List/Map/Struct/Ref) never
// compare structurally equal to anything but themselves (identity).
func Equal(a, b Value) bool {
	if isNilLike(a) && isNilLike(b) {
		return true
	}
	switch av := a.(type) {
	case *Int:
		switch bv := b.(type) {
		case *Int:
			return av.Value == bv.Value
		case *Float:
			return float64(av.Value) == bv.Value
		}
		return false
	case *Float:
		switch bv := b.(type) {
		case *Int:
			return av.Value == float64(bv.Value)
		case *Float:
			return av.Value == bv.Value
		}
		return false
	case *Bool:
		bv, ok := b.(*Bool)
		return ok && av.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *Enum:
		bv, ok := b.(*Enum)
		if !ok || av.TypeName != bv.TypeName || av.Variant != bv.Variant || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			if !Equal(av.Fields[i], bv.Fields[i]) {
				return false
			}
		}
		return true
	case *Option:
		bv, ok := b.(*Option)
		if !ok {
			return false
		}
		if av.HasValue != bv.HasValue {
			return false
		}
		if !av.HasValue {
			return true
		}
		return Equal(av.Inner, bv.Inner)
	case *Result:
		bv, ok := b.(*Result)
		return ok && av.IsOk == bv.IsOk && Equal(av.Inner, bv.Inner)
	case *List, *Map, *Struct, *Ref:
		return a == b // identity only — shared containers are never structurally equal
	}
	return false
}

func isNilLike(v Value) bool {
	switch vv := v.(type) {
	case *Nil:
		return true
	case *Option:
		return !vv.HasValue
	}
	return false
}

// CompareForSort implements the List.sort() contract from :
// ascending by type-appropriate comparison, with unequal types treated
// as equal (stable).
func CompareForSort(a, b Value) int {
	switch av := a.(type) {
	case *Int:
		if bv, ok := b.(*Int); ok {
			return compareInt64(av.Value, bv.Value)
		}
		if bv, ok := b.(*Float); ok {
			return compareFloat64(float64(av.Value), bv.Value)
		}
	case *Float:
		if bv, ok := b.(*Float); ok {
			return compareFloat64(av.Value, bv.Value)
		}
		if bv, ok := b.(*Int); ok {
			return compareFloat64(av.Value, float64(bv.Value))
		}
	case *String:
		if bv, ok := b.(*String); ok {
			return strings.Compare(av.Value, bv.Value)
		}
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SortList sorts in place per CompareForSort, stably.
func SortList(elems []Value) {
	sort.SliceStable(elems, func(i, j int) bool {
		return CompareForSort(elems[i], elems[j]) < 0
	})
}

// DisplayForKey coerces a value to its display string for use as a Map
// key.
func DisplayForKey(v Value) string { return v.Display() }

// TypeName returns the canonical runtime type name used by type_of()
// and method dispatch.
func TypeName(v Value) string {
	switch vv := v.(type) {
	case *Struct:
		return vv.Name
	case *Enum:
		return vv.TypeName
	default:
		return string(v.Type())
	}
}
