package evaluator

import (
	"strconv"
	"strings"

	"github.com/mochacinno-dev/zephyr/internal/ast"
)

// evalExpr evaluates expr in env.
func (in *Interpreter) evalExpr(expr ast.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return &Int{Value: e.Value}, nil
	case *ast.FloatLit:
		return &Float{Value: e.Value}, nil
	case *ast.BoolLit:
		return &Bool{Value: e.Value}, nil
	case *ast.StringLit:
		return &String{Value: e.Value}, nil
	case *ast.NilLit:
		return NilValue, nil

	case *ast.InterpString:
		var b strings.Builder
		for _, part := range e.Parts {
			switch p := part.(type) {
			case ast.LiteralPart:
				b.WriteString(p.Text)
			case ast.InterpPart:
				v, err := in.evalExpr(p.Expr, env)
				if err != nil {
					return nil, err
				}
				b.WriteString(v.Display())
			}
		}
		return &String{Value: b.String()}, nil

	case *ast.Var:
		if v, ok := env.Get(e.Name); ok {
			return v, nil
		}
		if v, ok := in.Global.Get(e.Name); ok {
			return v, nil
		}
		return nil, rtErrorf("undefined variable %q", e.Name)

	case *ast.TupleExpr:
		elems, err := in.evalExprList(e.Elems, env)
		if err != nil {
			return nil, err
		}
		return &Tuple{Elems: elems}, nil

	case *ast.ListExpr:
		elems, err := in.evalExprList(e.Elems, env)
		if err != nil {
			return nil, err
		}
		return &List{Elems: elems}, nil

	case *ast.MapExpr:
		m := NewMap()
		for i := range e.Keys {
			k, err := in.evalExpr(e.Keys[i], env)
			if err != nil {
				return nil, err
			}
			v, err := in.evalExpr(e.Values[i], env)
			if err != nil {
				return nil, err
			}
			m.Set(DisplayForKey(k), v)
		}
		return m, nil

	case *ast.BlockExpr:
		return in.evalBlock(e, env)

	case *ast.BinaryExpr:
		return in.evalBinary(e, env)

	case *ast.UnaryExpr:
		return in.evalUnary(e, env)

	case *ast.AssignExpr:
		return in.evalAssign(e, env)

	case *ast.CallExpr:
		return in.evalCall(e, env)

	case *ast.MethodCallExpr:
		return in.evalMethodCall(e, env)

	case *ast.FieldAccessExpr:
		return in.evalFieldAccess(e, env)

	case *ast.IndexExpr:
		return in.evalIndex(e, env)

	case *ast.IfExpr:
		return in.evalIf(e, env)

	case *ast.MatchExpr:
		return in.evalMatch(e, env)

	case *ast.ClosureExpr:
		params := make([]ast.Param, len(e.Params))
		for i, p := range e.Params {
			params[i] = ast.Param{Name: p.Name, Type: p.Type}
		}
		return &Function{Params: params, Body: []ast.Stmt{&ast.ExprStmt{Expr: e.Body}}, Env: env}, nil

	case *ast.StructCreateExpr:
		if _, ok := in.Structs[e.Name]; !ok {
			return nil, rtErrorf("unknown struct type %q", e.Name)
		}
		fields := NewMap()
		for _, f := range e.Fields {
			v, err := in.evalExpr(f.Value, env)
			if err != nil {
				return nil, err
			}
			fields.Set(f.Name, v)
		}
		return &Struct{Name: e.Name, Fields: fields}, nil

	case *ast.EnumVariantExpr:
		args, err := in.evalExprList(e.Args, env)
		if err != nil {
			return nil, err
		}
		return &Enum{TypeName: e.Enum, Variant: e.Variant, Fields: args}, nil

	case *ast.RangeExpr:
		start, err := in.evalExpr(e.Start, env)
		if err != nil {
			return nil, err
		}
		end, err := in.evalExpr(e.End, env)
		if err != nil {
			return nil, err
		}
		si, ok1 := start.(*Int)
		ei, ok2 := end.(*Int)
		if !ok1 || !ok2 {
			return nil, rtErrorf("range bounds must be Int")
		}
		var elems []Value
		for i := si.Value; i < ei.Value; i++ {
			elems = append(elems, &Int{Value: i})
		}
		return &List{Elems: elems}, nil

	case *ast.SomeExpr:
		v, err := in.evalExpr(e.Inner, env)
		if err != nil {
			return nil, err
		}
		return SomeOf(v), nil

	case *ast.OkExpr:
		v, err := in.evalExpr(e.Inner, env)
		if err != nil {
			return nil, err
		}
		return OkOf(v), nil

	case *ast.ErrExpr:
		v, err := in.evalExpr(e.Inner, env)
		if err != nil {
			return nil, err
		}
		return ErrOf(v), nil

	case *ast.QuestionExpr:
		v, err := in.evalExpr(e.Inner, env)
		if err != nil {
			return nil, err
		}
		switch vv := v.(type) {
		case *Result:
			if vv.IsOk {
				return vv.Inner, nil
			}
			return nil, &propagateErr{Value: vv.Inner}
		case *Option:
			if vv.HasValue {
				return vv.Inner, nil
			}
			return nil, &propagateErr{Value: &String{Value: "None"}}
		case *Nil:
			return nil, &propagateErr{Value: &String{Value: "None"}}
		default:
			return v, nil
		}

	case *ast.BoxExpr:
		return in.evalExpr(e.Inner, env)

	case *ast.RefExpr:
		v, err := in.evalExpr(e.Inner, env)
		if err != nil {
			return nil, err
		}
		return NewRef(v), nil

	case *ast.AwaitExpr:
		return in.evalAwait(e, env)
	}
	return nil, rtErrorf("unknown expression node %T", expr)
}

func (in *Interpreter) evalExprList(exprs []ast.Expr, env *Environment) ([]Value, error) {
	out := make([]Value, len(exprs))
	for i, ex := range exprs {
		v, err := in.evalExpr(ex, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (in *Interpreter) evalBlock(e *ast.BlockExpr, env *Environment) (Value, error) {
	blockEnv := NewEnclosedEnvironment(env)
	for _, s := range e.Stmts {
		if _, err := in.execStmt(s, blockEnv); err != nil {
			return nil, err
		}
	}
	if e.Tail == nil {
		return NilValue, nil
	}
	return in.evalExpr(e.Tail, blockEnv)
}

func (in *Interpreter) evalAwait(e *ast.AwaitExpr, env *Environment) (Value, error) {
	v, err := in.evalExpr(e.Inner, env)
	if err != nil {
		return nil, err
	}
	return in.awaitValue(v)
}

func (in *Interpreter) evalUnary(e *ast.UnaryExpr, env *Environment) (Value, error) {
	v, err := in.evalExpr(e.Operand, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.Neg:
		switch vv := v.(type) {
		case *Int:
			return &Int{Value: -vv.Value}, nil
		case *Float:
			return &Float{Value: -vv.Value}, nil
		}
		return nil, rtErrorf("cannot negate %s", v.Type())
	case ast.Not:
		return &Bool{Value: !Truthy(v)}, nil
	}
	return nil, rtErrorf("unknown unary operator")
}

func (in *Interpreter) evalIf(e *ast.IfExpr, env *Environment) (Value, error) {
	cond, err := in.evalExpr(e.Cond, env)
	if err != nil {
		return nil, err
	}
	if Truthy(cond) {
		return in.evalExpr(e.Then, env)
	}
	for _, elif := range e.Elifs {
		c, err := in.evalExpr(elif.Cond, env)
		if err != nil {
			return nil, err
		}
		if Truthy(c) {
			return in.evalExpr(elif.Body, env)
		}
	}
	if e.Else != nil {
		return in.evalExpr(e.Else, env)
	}
	return NilValue, nil
}

func (in *Interpreter) evalMatch(e *ast.MatchExpr, env *Environment) (Value, error) {
	subject, err := in.evalExpr(e.Subject, env)
	if err != nil {
		return nil, err
	}
	for _, arm := range e.Arms {
		armEnv := NewEnclosedEnvironment(env)
		if !MatchPattern(arm.Pattern, subject, armEnv) {
			continue
		}
		if arm.Guard != nil {
			g, err := in.evalExpr(arm.Guard, armEnv)
			if err != nil {
				return nil, err
			}
			if !Truthy(g) {
				continue
			}
		}
		return in.evalExpr(arm.Body, armEnv)
	}
	return nil, rtErrorf("Non-exhaustive match")
}

func (in *Interpreter) evalFieldAccess(e *ast.FieldAccessExpr, env *Environment) (Value, error) {
	recv, err := in.evalExpr(e.Receiver, env)
	if err != nil {
		return nil, err
	}
	switch rv := recv.(type) {
	case *Struct:
		v, ok := rv.Fields.Get(e.Field)
		if !ok {
			return nil, rtErrorf("struct %s has no field %q", rv.Name, e.Field)
		}
		return v, nil
	case *Tuple:
		idx, convErr := strconv.Atoi(e.Field)
		if convErr != nil || idx < 0 || idx >= len(rv.Elems) {
			return nil, rtErrorf("tuple has no field %q", e.Field)
		}
		return rv.Elems[idx], nil
	}
	return nil, rtErrorf("cannot access field %q on %s", e.Field, recv.Type())
}

func (in *Interpreter) evalIndex(e *ast.IndexExpr, env *Environment) (Value, error) {
	recv, err := in.evalExpr(e.Receiver, env)
	if err != nil {
		return nil, err
	}
	idx, err := in.evalExpr(e.Index, env)
	if err != nil {
		return nil, err
	}
	switch rv := recv.(type) {
	case *List:
		iv, ok := idx.(*Int)
		if !ok {
			return nil, rtErrorf("list index must be Int")
		}
		if iv.Value < 0 || int(iv.Value) >= len(rv.Elems) {
			return nil, rtErrorf("list index %d out of bounds", iv.Value)
		}
		return rv.Elems[iv.Value], nil
	case *String:
		iv, ok := idx.(*Int)
		if !ok {
			return nil, rtErrorf("string index must be Int")
		}
		runes := []rune(rv.Value)
		if iv.Value < 0 || int(iv.Value) >= len(runes) {
			return nil, rtErrorf("string index %d out of bounds", iv.Value)
		}
		return &String{Value: string(runes[iv.Value])}, nil
	case *Map:
		key := DisplayForKey(idx)
		v, ok := rv.Get(key)
		if !ok {
			return nil, rtErrorf("map has no key %q", key)
		}
		return v, nil
	}
	return nil, rtErrorf("cannot index %s", recv.Type())
}
