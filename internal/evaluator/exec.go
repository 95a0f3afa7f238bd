package evaluator

import "github.com/mochacinno-dev/zephyr/internal/ast"

// execStmt executes one statement in env. It returns a non-nil Value
// only for ExprStmt, so callers (the REPL) can echo the last
// top-level expression's result; every other statement returns (nil, nil)
// on success.
func (in *Interpreter) execStmt(stmt ast.Stmt, env *Environment) (Value, error) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		v, err := in.evalExpr(s.Value, env)
		if err != nil {
			return nil, err
		}
		env.Define(s.Name, v)
		return nil, nil

	case *ast.ExprStmt:
		return in.evalExpr(s.Expr, env)

	case *ast.ReturnStmt:
		var v Value = NilValue
		if s.Value != nil {
			var err error
			v, err = in.evalExpr(s.Value, env)
			if err != nil {
				return nil, err
			}
		}
		return nil, &returnSignal{Value: v}

	case *ast.BreakStmt:
		return nil, &breakSignal{}

	case *ast.ContinueStmt:
		return nil, &continueSignal{}

	case *ast.WhileStmt:
		return nil, in.execWhile(s, env)

	case *ast.ForStmt:
		return nil, in.execFor(s, env)

	case *ast.FunDefStmt:
		fn := &Function{
			Name:   s.Fun.Name,
			Params: s.Fun.Params,
			Body:   s.Fun.Body,
			Env:    env,
		}
		env.Define(s.Fun.Name, fn)
		return nil, nil

	case *ast.StructDefStmt:
		in.Structs[s.Struct.Name] = &StructSchema{
			Name:     s.Struct.Name,
			Generics: s.Struct.Generics,
			Fields:   s.Struct.Fields,
		}
		return nil, nil

	case *ast.EnumDefStmt:
		in.Enums[s.Enum.Name] = &EnumSchema{
			Name:     s.Enum.Name,
			Generics: s.Enum.Generics,
			Variants: s.Enum.Variants,
		}
		// Zero-argument variants are reachable as a bare TypeName::Variant
		// binding, registered at definition time.
		for _, v := range s.Enum.Variants {
			if len(v.Fields) == 0 {
				env.Define(s.Enum.Name+"::"+v.Name, &Enum{TypeName: s.Enum.Name, Variant: v.Name})
			}
		}
		return nil, nil

	case *ast.ImplBlockStmt:
		methods, ok := in.Impls[s.Impl.Target]
		if !ok {
			methods = make(map[string]*Function)
			in.Impls[s.Impl.Target] = methods
		}
		for _, m := range s.Impl.Methods {
			methods[m.Name] = &Function{
				Name:   m.Name,
				Params: m.Params,
				Body:   m.Body,
				Env:    env,
			}
		}
		return nil, nil

	case *ast.ModDefStmt:
		modEnv := NewEnclosedEnvironment(env)
		for _, inner := range s.Stmts {
			if _, err := in.execStmt(inner, modEnv); err != nil {
				return nil, err
			}
		}
		in.Modules[s.Name] = modEnv
		return nil, nil

	case *ast.ImportStmt:
		return nil, nil

	case *ast.TypeAliasStmt:
		return nil, nil
	}
	return nil, rtErrorf("unknown statement node %T", stmt)
}

func (in *Interpreter) execWhile(s *ast.WhileStmt, env *Environment) error {
	for {
		cond, err := in.evalExpr(s.Cond, env)
		if err != nil {
			return err
		}
		if !Truthy(cond) {
			return nil
		}
		loopEnv := NewEnclosedEnvironment(env)
		if _, err := in.execBlock(s.Body, loopEnv); err != nil {
			if _, ok := err.(*breakSignal); ok {
				return nil
			}
			if _, ok := err.(*continueSignal); ok {
				continue
			}
			return err
		}
	}
}

func (in *Interpreter) execFor(s *ast.ForStmt, env *Environment) error {
	iter, err := in.evalExpr(s.Iter, env)
	if err != nil {
		return err
	}
	var items []Value
	switch it := iter.(type) {
	case *List:
		items = it.Elems
	case *String:
		for _, r := range it.Value {
			items = append(items, &String{Value: string(r)})
		}
	default:
		return rtErrorf("for-in requires a List or String, got %s", it.Type())
	}
	for _, item := range items {
		loopEnv := NewEnclosedEnvironment(env)
		loopEnv.Define(s.Var, item)
		if _, err := in.execBlock(s.Body, loopEnv); err != nil {
			if _, ok := err.(*breakSignal); ok {
				return nil
			}
			if _, ok := err.(*continueSignal); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// execBlock runs a statement list in env and returns the value of the
// most recent statement that produced one (Nil if none did) — the same
// "implicit tail value" convention a user function body uses to
// produce its result without an explicit return.
func (in *Interpreter) execBlock(stmts []ast.Stmt, env *Environment) (Value, error) {
	var last Value = NilValue
	for _, stmt := range stmts {
		v, err := in.execStmt(stmt, env)
		if err != nil {
			return nil, err
		}
		if v != nil {
			last = v
		}
	}
	return last, nil
}
