package evaluator

import "github.com/mochacinno-dev/zephyr/internal/ast"

func (in *Interpreter) evalBinary(e *ast.BinaryExpr, env *Environment) (Value, error) {
	if e.Op == ast.And {
		l, err := in.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		r, err := in.evalExpr(e.Right, env)
		if err != nil {
			return nil, err
		}
		return &Bool{Value: Truthy(l) && Truthy(r)}, nil
	}
	if e.Op == ast.Or {
		l, err := in.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		if Truthy(l) {
			return l, nil
		}
		return in.evalExpr(e.Right, env)
	}

	l, err := in.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := in.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}
	return evalBinOp(l, e.Op, r)
}

func numeric(v Value) (float64, bool, bool) {
	switch vv := v.(type) {
	case *Int:
		return float64(vv.Value), false, true
	case *Float:
		return vv.Value, true, true
	}
	return 0, false, false
}

func evalBinOp(l Value, op ast.BinOp, r Value) (Value, error) {
	switch op {
	case ast.Add:
		if ls, ok := l.(*String); ok {
			if rs, ok := r.(*String); ok {
				return &String{Value: ls.Value + rs.Value}, nil
			}
			return &String{Value: ls.Value + r.Display()}, nil
		}
		if ll, ok := l.(*List); ok {
			if rl, ok := r.(*List); ok {
				out := make([]Value, 0, len(ll.Elems)+len(rl.Elems))
				out = append(out, ll.Elems...)
				out = append(out, rl.Elems...)
				return &List{Elems: out}, nil
			}
		}
		return arith(l, op, r)
	case ast.Sub, ast.Mul, ast.Div, ast.Mod:
		if op == ast.Mul {
			if ls, ok := l.(*String); ok {
				if ri, ok := r.(*Int); ok {
					return &String{Value: repeatString(ls.Value, ri.Value)}, nil
				}
			}
		}
		return arith(l, op, r)
	case ast.Eq:
		return &Bool{Value: Equal(l, r)}, nil
	case ast.NotEq:
		return &Bool{Value: !Equal(l, r)}, nil
	case ast.Lt, ast.LtEq, ast.Gt, ast.GtEq:
		return compareOp(l, op, r)
	case ast.DotDot:
		return nil, rtErrorf("'..' is only valid as a range constructor")
	}
	return nil, rtErrorf("unknown binary operator")
}

func repeatString(s string, n int64) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, len(s)*int(n))
	for i := int64(0); i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func arith(l Value, op ast.BinOp, r Value) (Value, error) {
	lf, lFloat, lOK := numeric(l)
	rf, rFloat, rOK := numeric(r)
	if !lOK || !rOK {
		return nil, rtErrorf("arithmetic requires numeric operands, got %s and %s", l.Type(), r.Type())
	}
	if !lFloat && !rFloat {
		li := l.(*Int).Value
		ri := r.(*Int).Value
		switch op {
		case ast.Add:
			return &Int{Value: li + ri}, nil
		case ast.Sub:
			return &Int{Value: li - ri}, nil
		case ast.Mul:
			return &Int{Value: li * ri}, nil
		case ast.Div:
			if ri == 0 {
				return nil, rtErrorf("Division by zero")
			}
			return &Int{Value: li / ri}, nil
		case ast.Mod:
			if ri == 0 {
				return nil, rtErrorf("Division by zero")
			}
			return &Int{Value: li % ri}, nil
		}
	}
	switch op {
	case ast.Add:
		return &Float{Value: lf + rf}, nil
	case ast.Sub:
		return &Float{Value: lf - rf}, nil
	case ast.Mul:
		return &Float{Value: lf * rf}, nil
	case ast.Div:
		if rf == 0 {
			return nil, rtErrorf("Division by zero")
		}
		return &Float{Value: lf / rf}, nil
	case ast.Mod:
		if rf == 0 {
			return nil, rtErrorf("Division by zero")
		}
		return &Float{Value: float64(int64(lf) % int64(rf))}, nil
	}
	return nil, rtErrorf("unknown arithmetic operator")
}

func compareOp(l Value, op ast.BinOp, r Value) (Value, error) {
	var cmp int
	if ls, ok := l.(*String); ok {
		rs, ok := r.(*String)
		if !ok {
			return nil, rtErrorf("cannot compare String with %s", r.Type())
		}
		switch {
		case ls.Value < rs.Value:
			cmp = -1
		case ls.Value > rs.Value:
			cmp = 1
		}
	} else {
		lf, _, lOK := numeric(l)
		rf, _, rOK := numeric(r)
		if !lOK || !rOK {
			return nil, rtErrorf("cannot compare %s with %s", l.Type(), r.Type())
		}
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	}
	var result bool
	switch op {
	case ast.Lt:
		result = cmp < 0
	case ast.LtEq:
		result = cmp <= 0
	case ast.Gt:
		result = cmp > 0
	case ast.GtEq:
		result = cmp >= 0
	}
	return &Bool{Value: result}, nil
}

func (in *Interpreter) evalAssign(e *ast.AssignExpr, env *Environment) (Value, error) {
	val, err := in.evalExpr(e.Value, env)
	if err != nil {
		return nil, err
	}
	switch target := e.Target.(type) {
	case *ast.Var:
		env.Set(target.Name, val)
		return val, nil
	case *ast.IndexExpr:
		recv, err := in.evalExpr(target.Receiver, env)
		if err != nil {
			return nil, err
		}
		idx, err := in.evalExpr(target.Index, env)
		if err != nil {
			return nil, err
		}
		switch rv := recv.(type) {
		case *List:
			iv, ok := idx.(*Int)
			if !ok || iv.Value < 0 || int(iv.Value) >= len(rv.Elems) {
				return nil, rtErrorf("list index out of bounds")
			}
			rv.Elems[iv.Value] = val
			return val, nil
		case *Map:
			rv.Set(DisplayForKey(idx), val)
			return val, nil
		}
		return nil, rtErrorf("cannot index-assign into %s", recv.Type())
	case *ast.FieldAccessExpr:
		recv, err := in.evalExpr(target.Receiver, env)
		if err != nil {
			return nil, err
		}
		sv, ok := recv.(*Struct)
		if !ok {
			return nil, rtErrorf("field assignment target must be a struct, got %s", recv.Type())
		}
		sv.Fields.Set(target.Field, val)
		return val, nil
	}
	return nil, rtErrorf("invalid assignment target")
}

func (in *Interpreter) evalCall(e *ast.CallExpr, env *Environment) (Value, error) {
	callee, err := in.evalExpr(e.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := in.evalExprList(e.Args, env)
	if err != nil {
		return nil, err
	}
	return in.applyFunction(callee, args, env)
}

// Call invokes a Function value with already-evaluated arguments,
// using the global environment as the caller's environment for
// default-parameter evaluation. Exported for native higher-order
// built-ins (map/filter/reduce/zip/sorted) that take a function
// argument.
func (in *Interpreter) Call(fn Value, args []Value) (Value, error) {
	return in.applyFunction(fn, args, in.Global)
}

// applyFunction implements call dispatch: a native
// reference is looked up in the registry; a user-defined function
// constructs a child of its closure environment, binds parameters
// (falling back to the default expression evaluated in the CALLER's
// environment), executes the body, and catches PropagateErr into an
// Err(...) return.
func (in *Interpreter) applyFunction(callee Value, args []Value, callerEnv *Environment) (Value, error) {
	fn, ok := callee.(*Function)
	if !ok {
		return nil, rtErrorf("'%s' is not a function", callee.Display())
	}
	if fn.IsNative() {
		native, ok := in.Natives[fn.Native]
		if !ok {
			return nil, rtErrorf("unknown native function %q", fn.Native)
		}
		return native(in, args)
	}
	callEnv := NewEnclosedEnvironment(fn.Env)
	for i, param := range fn.Params {
		if i < len(args) {
			callEnv.Define(param.Name, args[i])
			continue
		}
		if param.Default != nil {
			dv, err := in.evalExpr(param.Default, callerEnv)
			if err != nil {
				return nil, err
			}
			callEnv.Define(param.Name, dv)
			continue
		}
		return nil, rtErrorf("Missing argument %q", param.Name)
	}
	v, err := in.execBlock(fn.Body, callEnv)
	if err == nil {
		return v, nil
	}
	if rs, ok := err.(*returnSignal); ok {
		return rs.Value, nil
	}
	if pe, ok := err.(*propagateErr); ok {
		return ErrOf(pe.Value), nil
	}
	return nil, err
}

func (in *Interpreter) evalMethodCall(e *ast.MethodCallExpr, env *Environment) (Value, error) {
	recv, err := in.evalExpr(e.Receiver, env)
	if err != nil {
		return nil, err
	}
	args, err := in.evalExprList(e.Args, env)
	if err != nil {
		return nil, err
	}
	typeName := TypeName(recv)
	if methods, ok := in.Impls[typeName]; ok {
		if fn, ok := methods[e.Method]; ok {
			allArgs := append([]Value{recv}, args...)
			return in.applyFunction(fn, allArgs, env)
		}
	}
	return in.callBuiltinMethod(recv, e.Method, args)
}
