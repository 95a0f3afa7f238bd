package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mochacinno-dev/zephyr/internal/ast"
)

// decoder walks a byte slice left to right; it never copies the
// underlying data.
type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) readU8() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, fmt.Errorf("codec: unexpected EOF")
	}
	v := d.data[d.pos]
	d.pos++
	return v, nil
}

func (d *decoder) readBytes(n int) ([]byte, error) {
	if d.pos+n > len(d.data) {
		return nil, fmt.Errorf("codec: unexpected EOF")
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) readBool() (bool, error) {
	v, err := d.readU8()
	return v != 0, err
}

func (d *decoder) readU32() (uint32, error) {
	b, err := d.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) readI64() (int64, error) {
	b, err := d.readBytes(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (d *decoder) readF64() (float64, error) {
	b, err := d.readBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (d *decoder) readStr() (string, error) {
	n, err := d.readU32()
	if err != nil {
		return "", err
	}
	b, err := d.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) readCount() (int, error) {
	n, err := d.readU32()
	return int(n), err
}

// --- Types ---

func (d *decoder) readType() (ast.Type, error) {
	tag, err := d.readU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagTypeInt:
		return ast.IntType{}, nil
	case tagTypeFloat:
		return ast.FloatType{}, nil
	case tagTypeBool:
		return ast.BoolType{}, nil
	case tagTypeString:
		return ast.StringType{}, nil
	case tagTypeNil:
		return ast.NilType{}, nil
	case tagTypeInferred:
		return ast.InferredType{}, nil
	case tagTypeOption:
		inner, err := d.readType()
		if err != nil {
			return nil, err
		}
		return &ast.OptionType{Inner: inner}, nil
	case tagTypeResult:
		ok, err := d.readType()
		if err != nil {
			return nil, err
		}
		errT, err := d.readType()
		if err != nil {
			return nil, err
		}
		return &ast.ResultType{Ok: ok, Err: errT}, nil
	case tagTypeList:
		inner, err := d.readType()
		if err != nil {
			return nil, err
		}
		return &ast.ListType{Elem: inner}, nil
	case tagTypeMap:
		k, err := d.readType()
		if err != nil {
			return nil, err
		}
		v, err := d.readType()
		if err != nil {
			return nil, err
		}
		return &ast.MapType{Key: k, Value: v}, nil
	case tagTypeTuple:
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		elems := make([]ast.Type, n)
		for i := range elems {
			if elems[i], err = d.readType(); err != nil {
				return nil, err
			}
		}
		return &ast.TupleType{Elems: elems}, nil
	case tagTypeNamed:
		name, err := d.readStr()
		if err != nil {
			return nil, err
		}
		return &ast.NamedType{Name: name}, nil
	case tagTypeGeneric:
		name, err := d.readStr()
		if err != nil {
			return nil, err
		}
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		args := make([]ast.Type, n)
		for i := range args {
			if args[i], err = d.readType(); err != nil {
				return nil, err
			}
		}
		return &ast.GenericType{Name: name, Args: args}, nil
	case tagTypeFunction:
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		params := make([]ast.Type, n)
		for i := range params {
			if params[i], err = d.readType(); err != nil {
				return nil, err
			}
		}
		ret, err := d.readType()
		if err != nil {
			return nil, err
		}
		return &ast.FuncType{Params: params, Return: ret}, nil
	}
	return nil, fmt.Errorf("codec: unknown type tag 0x%02X", tag)
}

func (d *decoder) readOptType() (ast.Type, error) {
	present, err := d.readU8()
	if err != nil || present == 0 {
		return nil, err
	}
	return d.readType()
}

// --- Patterns ---

func (d *decoder) readPattern() (ast.Pattern, error) {
	tag, err := d.readU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagPatWildcard:
		return &ast.WildcardPattern{}, nil
	case tagPatNil:
		return &ast.NilPattern{}, nil
	case tagPatBool:
		v, err := d.readBool()
		return &ast.BoolPattern{Value: v}, err
	case tagPatInt:
		v, err := d.readI64()
		return &ast.IntPattern{Value: v}, err
	case tagPatFloat:
		v, err := d.readF64()
		return &ast.FloatPattern{Value: v}, err
	case tagPatString:
		v, err := d.readStr()
		return &ast.StringPattern{Value: v}, err
	case tagPatIdent:
		v, err := d.readStr()
		return &ast.IdentPattern{Name: v}, err
	case tagPatTuple:
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		elems := make([]ast.Pattern, n)
		for i := range elems {
			if elems[i], err = d.readPattern(); err != nil {
				return nil, err
			}
		}
		return &ast.TuplePattern{Elems: elems}, nil
	case tagPatList:
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		elems := make([]ast.Pattern, n)
		for i := range elems {
			if elems[i], err = d.readPattern(); err != nil {
				return nil, err
			}
		}
		return &ast.ListPattern{Elems: elems}, nil
	case tagPatSome:
		inner, err := d.readPattern()
		return &ast.SomePattern{Inner: inner}, err
	case tagPatOk:
		inner, err := d.readPattern()
		return &ast.OkPattern{Inner: inner}, err
	case tagPatErr:
		inner, err := d.readPattern()
		return &ast.ErrPattern{Inner: inner}, err
	case tagPatOr:
		l, err := d.readPattern()
		if err != nil {
			return nil, err
		}
		r, err := d.readPattern()
		return &ast.OrPattern{Left: l, Right: r}, err
	case tagPatRange:
		lo, err := d.readPattern()
		if err != nil {
			return nil, err
		}
		hi, err := d.readPattern()
		return &ast.RangePattern{Low: lo, High: hi}, err
	case tagPatEnumVariant:
		en, err := d.readStr()
		if err != nil {
			return nil, err
		}
		variant, err := d.readStr()
		if err != nil {
			return nil, err
		}
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		fields := make([]ast.Pattern, n)
		for i := range fields {
			if fields[i], err = d.readPattern(); err != nil {
				return nil, err
			}
		}
		return &ast.EnumVariantPattern{Enum: en, Variant: variant, Fields: fields}, nil
	case tagPatStruct:
		name, err := d.readStr()
		if err != nil {
			return nil, err
		}
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		fields := make([]ast.StructFieldPattern, n)
		for i := range fields {
			fname, err := d.readStr()
			if err != nil {
				return nil, err
			}
			fpat, err := d.readPattern()
			if err != nil {
				return nil, err
			}
			fields[i] = ast.StructFieldPattern{Name: fname, Pattern: fpat}
		}
		return &ast.StructPattern{Name: name, Fields: fields}, nil
	}
	return nil, fmt.Errorf("codec: unknown pattern tag 0x%02X", tag)
}

// --- String parts ---

func (d *decoder) readStringPart() (ast.StringPart, error) {
	tag, err := d.readU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagStrPartLiteral:
		s, err := d.readStr()
		return ast.LiteralPart{Text: s}, err
	case tagStrPartInterp:
		e, err := d.readExpr()
		return ast.InterpPart{Expr: e}, err
	}
	return nil, fmt.Errorf("codec: unknown string-part tag 0x%02X", tag)
}

// --- Match arm / Param ---

func (d *decoder) readMatchArm() (ast.MatchArm, error) {
	pat, err := d.readPattern()
	if err != nil {
		return ast.MatchArm{}, err
	}
	guard, err := d.readOptExpr()
	if err != nil {
		return ast.MatchArm{}, err
	}
	body, err := d.readExpr()
	if err != nil {
		return ast.MatchArm{}, err
	}
	return ast.MatchArm{Pattern: pat, Guard: guard, Body: body}, nil
}

func (d *decoder) readParam() (ast.Param, error) {
	name, err := d.readStr()
	if err != nil {
		return ast.Param{}, err
	}
	ty, err := d.readOptType()
	if err != nil {
		return ast.Param{}, err
	}
	def, err := d.readOptExpr()
	if err != nil {
		return ast.Param{}, err
	}
	return ast.Param{Name: name, Type: ty, Default: def}, nil
}

func (d *decoder) readOptExpr() (ast.Expr, error) {
	present, err := d.readU8()
	if err != nil || present == 0 {
		return nil, err
	}
	return d.readExpr()
}

// --- BinOp / UnaryOp ---

var tagToBinOp = map[byte]ast.BinOp{
	tagBinAdd: ast.Add, tagBinSub: ast.Sub, tagBinMul: ast.Mul, tagBinDiv: ast.Div,
	tagBinMod: ast.Mod, tagBinEq: ast.Eq, tagBinNeq: ast.NotEq, tagBinLt: ast.Lt,
	tagBinLtEq: ast.LtEq, tagBinGt: ast.Gt, tagBinGtEq: ast.GtEq, tagBinAnd: ast.And,
	tagBinOr: ast.Or, tagBinDotDot: ast.DotDot,
}

func (d *decoder) readBinOp() (ast.BinOp, error) {
	tag, err := d.readU8()
	if err != nil {
		return 0, err
	}
	op, ok := tagToBinOp[tag]
	if !ok {
		return 0, fmt.Errorf("codec: unknown binop tag 0x%02X", tag)
	}
	return op, nil
}

func (d *decoder) readUnaryOp() (ast.UnaryOp, error) {
	tag, err := d.readU8()
	if err != nil {
		return 0, err
	}
	switch tag {
	case tagUnaryNeg:
		return ast.Neg, nil
	case tagUnaryNot:
		return ast.Not, nil
	}
	return 0, fmt.Errorf("codec: unknown unaryop tag 0x%02X", tag)
}

// --- Expressions ---

func (d *decoder) readExpr() (ast.Expr, error) {
	tag, err := d.readU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagExprInt:
		v, err := d.readI64()
		return &ast.IntLit{Value: v}, err
	case tagExprFloat:
		v, err := d.readF64()
		return &ast.FloatLit{Value: v}, err
	case tagExprBool:
		v, err := d.readBool()
		return &ast.BoolLit{Value: v}, err
	case tagExprNil:
		return &ast.NilLit{}, nil
	case tagExprString:
		v, err := d.readStr()
		return &ast.StringLit{Value: v}, err
	case tagExprInterp:
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		parts := make([]ast.StringPart, n)
		for i := range parts {
			if parts[i], err = d.readStringPart(); err != nil {
				return nil, err
			}
		}
		return &ast.InterpString{Parts: parts}, nil
	case tagExprVar:
		name, err := d.readStr()
		return &ast.Var{Name: name}, err
	case tagExprTuple:
		elems, err := d.readExprVec()
		return &ast.TupleExpr{Elems: elems}, err
	case tagExprList:
		elems, err := d.readExprVec()
		return &ast.ListExpr{Elems: elems}, err
	case tagExprMapLit:
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		keys := make([]ast.Expr, n)
		values := make([]ast.Expr, n)
		for i := 0; i < n; i++ {
			if keys[i], err = d.readExpr(); err != nil {
				return nil, err
			}
			if values[i], err = d.readExpr(); err != nil {
				return nil, err
			}
		}
		return &ast.MapExpr{Keys: keys, Values: values}, nil
	case tagExprBlock:
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		stmts := make([]ast.Stmt, n)
		for i := range stmts {
			if stmts[i], err = d.readStmt(); err != nil {
				return nil, err
			}
		}
		tail, err := d.readOptExpr()
		if err != nil {
			return nil, err
		}
		return &ast.BlockExpr{Stmts: stmts, Tail: tail}, nil
	case tagExprBinOp:
		l, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		op, err := d.readBinOp()
		if err != nil {
			return nil, err
		}
		r, err := d.readExpr()
		return &ast.BinaryExpr{Left: l, Op: op, Right: r}, err
	case tagExprUnaryOp:
		op, err := d.readUnaryOp()
		if err != nil {
			return nil, err
		}
		operand, err := d.readExpr()
		return &ast.UnaryExpr{Op: op, Operand: operand}, err
	case tagExprCall:
		callee, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		args, err := d.readExprVec()
		return &ast.CallExpr{Callee: callee, Args: args}, err
	case tagExprMethodCall:
		recv, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		method, err := d.readStr()
		if err != nil {
			return nil, err
		}
		args, err := d.readExprVec()
		return &ast.MethodCallExpr{Receiver: recv, Method: method, Args: args}, err
	case tagExprFieldAccess:
		recv, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		field, err := d.readStr()
		return &ast.FieldAccessExpr{Receiver: recv, Field: field}, err
	case tagExprIndex:
		recv, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		idx, err := d.readExpr()
		return &ast.IndexExpr{Receiver: recv, Index: idx}, err
	case tagExprIf:
		cond, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		then, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		elifs := make([]ast.ElifBranch, n)
		for i := range elifs {
			c, err := d.readExpr()
			if err != nil {
				return nil, err
			}
			b, err := d.readExpr()
			if err != nil {
				return nil, err
			}
			elifs[i] = ast.ElifBranch{Cond: c, Body: b}
		}
		elseExpr, err := d.readOptExpr()
		if err != nil {
			return nil, err
		}
		return &ast.IfExpr{Cond: cond, Then: then, Elifs: elifs, Else: elseExpr}, nil
	case tagExprMatch:
		subj, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		arms := make([]ast.MatchArm, n)
		for i := range arms {
			if arms[i], err = d.readMatchArm(); err != nil {
				return nil, err
			}
		}
		return &ast.MatchExpr{Subject: subj, Arms: arms}, nil
	case tagExprClosure:
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		params := make([]ast.ClosureParam, n)
		for i := range params {
			name, err := d.readStr()
			if err != nil {
				return nil, err
			}
			ty, err := d.readOptType()
			if err != nil {
				return nil, err
			}
			params[i] = ast.ClosureParam{Name: name, Type: ty}
		}
		body, err := d.readExpr()
		return &ast.ClosureExpr{Params: params, Body: body}, err
	case tagExprStructCreate:
		name, err := d.readStr()
		if err != nil {
			return nil, err
		}
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		fields := make([]ast.StructFieldInit, n)
		for i := range fields {
			fname, err := d.readStr()
			if err != nil {
				return nil, err
			}
			fval, err := d.readExpr()
			if err != nil {
				return nil, err
			}
			fields[i] = ast.StructFieldInit{Name: fname, Value: fval}
		}
		return &ast.StructCreateExpr{Name: name, Fields: fields}, nil
	case tagExprEnumVariant:
		en, err := d.readStr()
		if err != nil {
			return nil, err
		}
		variant, err := d.readStr()
		if err != nil {
			return nil, err
		}
		args, err := d.readExprVec()
		return &ast.EnumVariantExpr{Enum: en, Variant: variant, Args: args}, err
	case tagExprRange:
		start, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		end, err := d.readExpr()
		return &ast.RangeExpr{Start: start, End: end}, err
	case tagExprSome:
		inner, err := d.readExpr()
		return &ast.SomeExpr{Inner: inner}, err
	case tagExprOk:
		inner, err := d.readExpr()
		return &ast.OkExpr{Inner: inner}, err
	case tagExprErr:
		inner, err := d.readExpr()
		return &ast.ErrExpr{Inner: inner}, err
	case tagExprQuestion:
		inner, err := d.readExpr()
		return &ast.QuestionExpr{Inner: inner}, err
	case tagExprBox:
		inner, err := d.readExpr()
		return &ast.BoxExpr{Inner: inner}, err
	case tagExprRef:
		inner, err := d.readExpr()
		return &ast.RefExpr{Inner: inner}, err
	case tagExprAssign:
		target, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		value, err := d.readExpr()
		return &ast.AssignExpr{Target: target, Value: value}, err
	case tagExprAwait:
		inner, err := d.readExpr()
		return &ast.AwaitExpr{Inner: inner}, err
	}
	return nil, fmt.Errorf("codec: unknown expr tag 0x%02X", tag)
}

func (d *decoder) readExprVec() ([]ast.Expr, error) {
	n, err := d.readCount()
	if err != nil {
		return nil, err
	}
	out := make([]ast.Expr, n)
	for i := range out {
		if out[i], err = d.readExpr(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// --- Statements ---

func (d *decoder) readStmt() (ast.Stmt, error) {
	tag, err := d.readU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagStmtLet:
		name, err := d.readStr()
		if err != nil {
			return nil, err
		}
		ty, err := d.readOptType()
		if err != nil {
			return nil, err
		}
		val, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		mutable, err := d.readBool()
		return &ast.LetStmt{Name: name, Type: ty, Value: val, Mutable: mutable}, err
	case tagStmtExpr:
		e, err := d.readExpr()
		return &ast.ExprStmt{Expr: e}, err
	case tagStmtReturn:
		v, err := d.readOptExpr()
		return &ast.ReturnStmt{Value: v}, err
	case tagStmtBreak:
		return &ast.BreakStmt{}, nil
	case tagStmtContinue:
		return &ast.ContinueStmt{}, nil
	case tagStmtWhile:
		cond, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		body, err := d.readStmtVec()
		return &ast.WhileStmt{Cond: cond, Body: body}, err
	case tagStmtFor:
		v, err := d.readStr()
		if err != nil {
			return nil, err
		}
		iter, err := d.readExpr()
		if err != nil {
			return nil, err
		}
		body, err := d.readStmtVec()
		return &ast.ForStmt{Var: v, Iter: iter, Body: body}, err
	case tagStmtFunDef:
		f, err := d.readFunDef()
		return &ast.FunDefStmt{Fun: f}, err
	case tagStmtStructDef:
		s, err := d.readStructDef()
		return &ast.StructDefStmt{Struct: s}, err
	case tagStmtEnumDef:
		en, err := d.readEnumDef()
		return &ast.EnumDefStmt{Enum: en}, err
	case tagStmtImplBlock:
		ib, err := d.readImplBlock()
		return &ast.ImplBlockStmt{Impl: ib}, err
	case tagStmtModDef:
		name, err := d.readStr()
		if err != nil {
			return nil, err
		}
		stmts, err := d.readStmtVec()
		return &ast.ModDefStmt{Name: name, Stmts: stmts}, err
	case tagStmtImport:
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		path := make([]string, n)
		for i := range path {
			if path[i], err = d.readStr(); err != nil {
				return nil, err
			}
		}
		return &ast.ImportStmt{Path: path}, nil
	case tagStmtTypeAlias:
		name, err := d.readStr()
		if err != nil {
			return nil, err
		}
		n, err := d.readCount()
		if err != nil {
			return nil, err
		}
		generics := make([]string, n)
		for i := range generics {
			if generics[i], err = d.readStr(); err != nil {
				return nil, err
			}
		}
		ty, err := d.readType()
		return &ast.TypeAliasStmt{Name: name, Generics: generics, Type: ty}, err
	}
	return nil, fmt.Errorf("codec: unknown stmt tag 0x%02X", tag)
}

func (d *decoder) readStmtVec() ([]ast.Stmt, error) {
	n, err := d.readCount()
	if err != nil {
		return nil, err
	}
	out := make([]ast.Stmt, n)
	for i := range out {
		if out[i], err = d.readStmt(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *decoder) readFunDef() (*ast.FunDef, error) {
	name, err := d.readStr()
	if err != nil {
		return nil, err
	}
	ng, err := d.readCount()
	if err != nil {
		return nil, err
	}
	generics := make([]string, ng)
	for i := range generics {
		if generics[i], err = d.readStr(); err != nil {
			return nil, err
		}
	}
	np, err := d.readCount()
	if err != nil {
		return nil, err
	}
	params := make([]ast.Param, np)
	for i := range params {
		if params[i], err = d.readParam(); err != nil {
			return nil, err
		}
	}
	ret, err := d.readOptType()
	if err != nil {
		return nil, err
	}
	body, err := d.readStmtVec()
	if err != nil {
		return nil, err
	}
	isPub, err := d.readBool()
	if err != nil {
		return nil, err
	}
	return &ast.FunDef{Name: name, Generics: generics, Params: params, ReturnType: ret, Body: body, IsPub: isPub}, nil
}

func (d *decoder) readStructDef() (*ast.StructDef, error) {
	name, err := d.readStr()
	if err != nil {
		return nil, err
	}
	ng, err := d.readCount()
	if err != nil {
		return nil, err
	}
	generics := make([]string, ng)
	for i := range generics {
		if generics[i], err = d.readStr(); err != nil {
			return nil, err
		}
	}
	nf, err := d.readCount()
	if err != nil {
		return nil, err
	}
	fields := make([]ast.StructField, nf)
	for i := range fields {
		fname, err := d.readStr()
		if err != nil {
			return nil, err
		}
		fty, err := d.readType()
		if err != nil {
			return nil, err
		}
		fpub, err := d.readBool()
		if err != nil {
			return nil, err
		}
		fields[i] = ast.StructField{Name: fname, Type: fty, IsPub: fpub}
	}
	isPub, err := d.readBool()
	if err != nil {
		return nil, err
	}
	return &ast.StructDef{Name: name, Generics: generics, Fields: fields, IsPub: isPub}, nil
}

func (d *decoder) readEnumDef() (*ast.EnumDef, error) {
	name, err := d.readStr()
	if err != nil {
		return nil, err
	}
	ng, err := d.readCount()
	if err != nil {
		return nil, err
	}
	generics := make([]string, ng)
	for i := range generics {
		if generics[i], err = d.readStr(); err != nil {
			return nil, err
		}
	}
	nv, err := d.readCount()
	if err != nil {
		return nil, err
	}
	variants := make([]ast.EnumVariant, nv)
	for i := range variants {
		vname, err := d.readStr()
		if err != nil {
			return nil, err
		}
		nfields, err := d.readCount()
		if err != nil {
			return nil, err
		}
		fields := make([]ast.Type, nfields)
		for j := range fields {
			if fields[j], err = d.readType(); err != nil {
				return nil, err
			}
		}
		variants[i] = ast.EnumVariant{Name: vname, Fields: fields}
	}
	isPub, err := d.readBool()
	if err != nil {
		return nil, err
	}
	return &ast.EnumDef{Name: name, Generics: generics, Variants: variants, IsPub: isPub}, nil
}

func (d *decoder) readImplBlock() (*ast.ImplBlock, error) {
	target, err := d.readStr()
	if err != nil {
		return nil, err
	}
	ng, err := d.readCount()
	if err != nil {
		return nil, err
	}
	generics := make([]string, ng)
	for i := range generics {
		if generics[i], err = d.readStr(); err != nil {
			return nil, err
		}
	}
	nm, err := d.readCount()
	if err != nil {
		return nil, err
	}
	methods := make([]*ast.FunDef, nm)
	for i := range methods {
		if methods[i], err = d.readFunDef(); err != nil {
			return nil, err
		}
	}
	return &ast.ImplBlock{Target: target, Generics: generics, Methods: methods}, nil
}
