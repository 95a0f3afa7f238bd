package evaluator

import "github.com/mochacinno-dev/zephyr/internal/ast"

// NativeFunc is a registered native implementation: a
// name resolved through the registry, taking already-evaluated
// arguments and returning a value or an error. Returning a Go error
// that is not one of this package's signal types is treated as a
// Runtime Error with that message — the convention native tables use
// for malformed-usage failures ("caller's usage itself
// is malformed" case); everything else a native wants to signal to
// script code should come back as an *Result (Err(...)) value instead.
type NativeFunc func(interp *Interpreter, args []Value) (Value, error)

// StructSchema is the registered shape of a struct definition.
type StructSchema struct {
	Name     string
	Generics []string
	Fields   []ast.StructField
}

// EnumSchema is the registered shape of an enum definition.
type EnumSchema struct {
	Name     string
	Generics []string
	Variants []ast.EnumVariant
}

// Interpreter holds the global state shared across one evaluation run
//: definition tables, the impl method table, the module
// table, the native registry, and the root environment.
type Interpreter struct {
	Global *Environment

	Structs map[string]*StructSchema
	Enums   map[string]*EnumSchema
	Impls   map[string]map[string]*Function // target type -> method name -> fn
	Modules map[string]*Environment

	Natives map[string]NativeFunc

	// Async is the registered concurrency seam; nil until
	// internal/natives/asyncrt.Register wires one in.
	Async AsyncRuntime

	// Stdin/Stdout/Stderr let native I/O and the host CLI share one
	// source/sink (and let tests substitute in-memory readers/writers).
	Stdin  reader
	Stdout writer
	Stderr writer
}

type writer interface {
	Write(p []byte) (int, error)
}

type reader interface {
	Read(p []byte) (int, error)
}

// NewInterpreter creates an interpreter with an empty global
// environment and definition tables; natives are wired in separately
// by internal/natives.RegisterAll to avoid an import cycle (the
// native tables need evaluator.Value; the evaluator must not import
// internal/natives).
func NewInterpreter(stdin reader, stdout, stderr writer) *Interpreter {
	return &Interpreter{
		Global:  NewEnvironment(),
		Structs: make(map[string]*StructSchema),
		Enums:   make(map[string]*EnumSchema),
		Impls:   make(map[string]map[string]*Function),
		Modules: make(map[string]*Environment),
		Natives: make(map[string]NativeFunc),
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// RegisterNative installs a native function under name, binding a
// native-reference Function value into the global environment
//.
func (in *Interpreter) RegisterNative(name string, fn NativeFunc) {
	in.Natives[name] = fn
	in.Global.Define(name, &Function{Native: name})
}

// Eval runs a parsed program's statements in the global environment
// and returns the last statement's expression-statement value, if any
// (used by the REPL to echo a result), or an error.
func (in *Interpreter) Eval(prog *ast.Program) (Value, error) {
	var last Value = NilValue
	for _, stmt := range prog.Stmts {
		v, err := in.execStmt(stmt, in.Global)
		if err != nil {
			return nil, err
		}
		if v != nil {
			last = v
		}
	}
	return last, nil
}
