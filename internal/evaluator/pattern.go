package evaluator

import "github.com/mochacinno-dev/zephyr/internal/ast"

// MatchPattern attempts to match v against pat, binding identifiers
// into env on success. Bindings from a failed
// alternative of an OrPattern never leak: each branch is tried against
// a scratch binding set that is only merged into env on success.
func MatchPattern(pat ast.Pattern, v Value, env *Environment) bool {
	binds := map[string]Value{}
	if !match(pat, v, binds) {
		return false
	}
	for name, val := range binds {
		env.Define(name, val)
	}
	return true
}

func match(pat ast.Pattern, v Value, binds map[string]Value) bool {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return true

	case *ast.IdentPattern:
		binds[p.Name] = v
		return true

	case *ast.IntPattern:
		iv, ok := v.(*Int)
		return ok && iv.Value == p.Value

	case *ast.FloatPattern:
		fv, ok := v.(*Float)
		return ok && fv.Value == p.Value

	case *ast.BoolPattern:
		bv, ok := v.(*Bool)
		return ok && bv.Value == p.Value

	case *ast.StringPattern:
		sv, ok := v.(*String)
		return ok && sv.Value == p.Value

	case *ast.NilPattern:
		return isNilLike(v)

	case *ast.TuplePattern:
		tv, ok := v.(*Tuple)
		if !ok || len(tv.Elems) != len(p.Elems) {
			return false
		}
		for i, sub := range p.Elems {
			if !match(sub, tv.Elems[i], binds) {
				return false
			}
		}
		return true

	case *ast.ListPattern:
		lv, ok := v.(*List)
		if !ok || len(lv.Elems) != len(p.Elems) {
			return false
		}
		for i, sub := range p.Elems {
			if !match(sub, lv.Elems[i], binds) {
				return false
			}
		}
		return true

	case *ast.StructPattern:
		sv, ok := v.(*Struct)
		if !ok || sv.Name != p.Name {
			return false
		}
		for _, fp := range p.Fields {
			fv, ok := sv.Fields.Get(fp.Name)
			if !ok {
				return false
			}
			if !match(fp.Pattern, fv, binds) {
				return false
			}
		}
		return true

	case *ast.EnumVariantPattern:
		ev, ok := v.(*Enum)
		if !ok || ev.Variant != p.Variant {
			return false
		}
		if p.Enum != "" && ev.TypeName != p.Enum {
			return false
		}
		if len(ev.Fields) != len(p.Fields) {
			return false
		}
		for i, sub := range p.Fields {
			if !match(sub, ev.Fields[i], binds) {
				return false
			}
		}
		return true

	case *ast.SomePattern:
		ov, ok := v.(*Option)
		return ok && ov.HasValue && match(p.Inner, ov.Inner, binds)

	case *ast.OkPattern:
		rv, ok := v.(*Result)
		return ok && rv.IsOk && match(p.Inner, rv.Inner, binds)

	case *ast.ErrPattern:
		rv, ok := v.(*Result)
		return ok && !rv.IsOk && match(p.Inner, rv.Inner, binds)

	case *ast.OrPattern:
		// Each alternative gets its own scratch set; only a winning
		// alternative's bindings are merged up (no leakage on failure).
		leftBinds := map[string]Value{}
		if match(p.Left, v, leftBinds) {
			for k, val := range leftBinds {
				binds[k] = val
			}
			return true
		}
		rightBinds := map[string]Value{}
		if match(p.Right, v, rightBinds) {
			for k, val := range rightBinds {
				binds[k] = val
			}
			return true
		}
		return false

	case *ast.RangePattern:
		lo, loOK := patternScalar(p.Low)
		hi, hiOK := patternScalar(p.High)
		if !loOK || !hiOK {
			return false
		}
		return withinRange(v, lo, hi)
	}
	return false
}

func patternScalar(p ast.Pattern) (int64, bool) {
	switch pp := p.(type) {
	case *ast.IntPattern:
		return pp.Value, true
	}
	return 0, false
}

// withinRange matches range pattern: half-open [lo, hi)
// over Int subjects only.
func withinRange(v Value, lo, hi int64) bool {
	iv, ok := v.(*Int)
	return ok && iv.Value >= lo && iv.Value < hi
}
