package codec

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/mochacinno-dev/zephyr/internal/ast"
)

// encoder accumulates the tag-encoded statement body. The header
// (magic/version/hash/count) is written separately by Encode.
type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) bytes() []byte { return e.buf.Bytes() }

func (e *encoder) writeU8(v byte)  { e.buf.WriteByte(v) }
func (e *encoder) writeBool(v bool) {
	if v {
		e.writeU8(1)
	} else {
		e.writeU8(0)
	}
}

func (e *encoder) writeU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) writeI64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	e.buf.Write(b[:])
}

func (e *encoder) writeF64(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	e.buf.Write(b[:])
}

func (e *encoder) writeStr(s string) {
	e.writeU32(uint32(len(s)))
	e.buf.WriteString(s)
}

func (e *encoder) writeCount(n int) { e.writeU32(uint32(n)) }

// --- Types ---

func (e *encoder) writeType(t ast.Type) {
	switch tv := t.(type) {
	case ast.IntType:
		e.writeU8(tagTypeInt)
	case ast.FloatType:
		e.writeU8(tagTypeFloat)
	case ast.BoolType:
		e.writeU8(tagTypeBool)
	case ast.StringType:
		e.writeU8(tagTypeString)
	case ast.NilType:
		e.writeU8(tagTypeNil)
	case ast.InferredType:
		e.writeU8(tagTypeInferred)
	case *ast.OptionType:
		e.writeU8(tagTypeOption)
		e.writeType(tv.Inner)
	case *ast.ResultType:
		e.writeU8(tagTypeResult)
		e.writeType(tv.Ok)
		e.writeType(tv.Err)
	case *ast.ListType:
		e.writeU8(tagTypeList)
		e.writeType(tv.Elem)
	case *ast.MapType:
		e.writeU8(tagTypeMap)
		e.writeType(tv.Key)
		e.writeType(tv.Value)
	case *ast.TupleType:
		e.writeU8(tagTypeTuple)
		e.writeCount(len(tv.Elems))
		for _, el := range tv.Elems {
			e.writeType(el)
		}
	case *ast.NamedType:
		e.writeU8(tagTypeNamed)
		e.writeStr(tv.Name)
	case *ast.GenericType:
		e.writeU8(tagTypeGeneric)
		e.writeStr(tv.Name)
		e.writeCount(len(tv.Args))
		for _, a := range tv.Args {
			e.writeType(a)
		}
	case *ast.FuncType:
		e.writeU8(tagTypeFunction)
		e.writeCount(len(tv.Params))
		for _, p := range tv.Params {
			e.writeType(p)
		}
		e.writeType(tv.Return)
	default:
		panic("codec: unknown Type variant")
	}
}

func (e *encoder) writeOptType(t ast.Type) {
	if t == nil {
		e.writeU8(0)
		return
	}
	e.writeU8(1)
	e.writeType(t)
}

// --- Patterns ---

func (e *encoder) writePattern(p ast.Pattern) {
	switch pv := p.(type) {
	case *ast.WildcardPattern:
		e.writeU8(tagPatWildcard)
	case *ast.NilPattern:
		e.writeU8(tagPatNil)
	case *ast.BoolPattern:
		e.writeU8(tagPatBool)
		e.writeBool(pv.Value)
	case *ast.IntPattern:
		e.writeU8(tagPatInt)
		e.writeI64(pv.Value)
	case *ast.FloatPattern:
		e.writeU8(tagPatFloat)
		e.writeF64(pv.Value)
	case *ast.StringPattern:
		e.writeU8(tagPatString)
		e.writeStr(pv.Value)
	case *ast.IdentPattern:
		e.writeU8(tagPatIdent)
		e.writeStr(pv.Name)
	case *ast.TuplePattern:
		e.writeU8(tagPatTuple)
		e.writeCount(len(pv.Elems))
		for _, el := range pv.Elems {
			e.writePattern(el)
		}
	case *ast.ListPattern:
		e.writeU8(tagPatList)
		e.writeCount(len(pv.Elems))
		for _, el := range pv.Elems {
			e.writePattern(el)
		}
	case *ast.SomePattern:
		e.writeU8(tagPatSome)
		e.writePattern(pv.Inner)
	case *ast.OkPattern:
		e.writeU8(tagPatOk)
		e.writePattern(pv.Inner)
	case *ast.ErrPattern:
		e.writeU8(tagPatErr)
		e.writePattern(pv.Inner)
	case *ast.OrPattern:
		e.writeU8(tagPatOr)
		e.writePattern(pv.Left)
		e.writePattern(pv.Right)
	case *ast.RangePattern:
		e.writeU8(tagPatRange)
		e.writePattern(pv.Low)
		e.writePattern(pv.High)
	case *ast.EnumVariantPattern:
		e.writeU8(tagPatEnumVariant)
		e.writeStr(pv.Enum)
		e.writeStr(pv.Variant)
		e.writeCount(len(pv.Fields))
		for _, f := range pv.Fields {
			e.writePattern(f)
		}
	case *ast.StructPattern:
		e.writeU8(tagPatStruct)
		e.writeStr(pv.Name)
		e.writeCount(len(pv.Fields))
		for _, f := range pv.Fields {
			e.writeStr(f.Name)
			e.writePattern(f.Pattern)
		}
	default:
		panic("codec: unknown Pattern variant")
	}
}

// --- String parts ---

func (e *encoder) writeStringPart(p ast.StringPart) {
	switch pv := p.(type) {
	case ast.LiteralPart:
		e.writeU8(tagStrPartLiteral)
		e.writeStr(pv.Text)
	case ast.InterpPart:
		e.writeU8(tagStrPartInterp)
		e.writeExpr(pv.Expr)
	default:
		panic("codec: unknown StringPart variant")
	}
}

// --- Match arm / Param ---

func (e *encoder) writeMatchArm(a ast.MatchArm) {
	e.writePattern(a.Pattern)
	e.writeOptExpr(a.Guard)
	e.writeExpr(a.Body)
}

func (e *encoder) writeParam(p ast.Param) {
	e.writeStr(p.Name)
	e.writeOptType(p.Type)
	e.writeOptExpr(p.Default)
}

func (e *encoder) writeOptExpr(x ast.Expr) {
	if x == nil {
		e.writeU8(0)
		return
	}
	e.writeU8(1)
	e.writeExpr(x)
}

// --- BinOp / UnaryOp ---

var binOpTags = map[ast.BinOp]byte{
	ast.Add: tagBinAdd, ast.Sub: tagBinSub, ast.Mul: tagBinMul, ast.Div: tagBinDiv,
	ast.Mod: tagBinMod, ast.Eq: tagBinEq, ast.NotEq: tagBinNeq, ast.Lt: tagBinLt,
	ast.LtEq: tagBinLtEq, ast.Gt: tagBinGt, ast.GtEq: tagBinGtEq, ast.And: tagBinAnd,
	ast.Or: tagBinOr, ast.DotDot: tagBinDotDot,
}

func (e *encoder) writeBinOp(op ast.BinOp) {
	tag, ok := binOpTags[op]
	if !ok {
		panic("codec: unknown BinOp")
	}
	e.writeU8(tag)
}

func (e *encoder) writeUnaryOp(op ast.UnaryOp) {
	switch op {
	case ast.Neg:
		e.writeU8(tagUnaryNeg)
	case ast.Not:
		e.writeU8(tagUnaryNot)
	default:
		panic("codec: unknown UnaryOp")
	}
}

// --- Expressions ---

func (e *encoder) writeExpr(expr ast.Expr) {
	switch ex := expr.(type) {
	case *ast.IntLit:
		e.writeU8(tagExprInt)
		e.writeI64(ex.Value)
	case *ast.FloatLit:
		e.writeU8(tagExprFloat)
		e.writeF64(ex.Value)
	case *ast.BoolLit:
		e.writeU8(tagExprBool)
		e.writeBool(ex.Value)
	case *ast.NilLit:
		e.writeU8(tagExprNil)
	case *ast.StringLit:
		e.writeU8(tagExprString)
		e.writeStr(ex.Value)
	case *ast.InterpString:
		e.writeU8(tagExprInterp)
		e.writeCount(len(ex.Parts))
		for _, p := range ex.Parts {
			e.writeStringPart(p)
		}
	case *ast.Var:
		e.writeU8(tagExprVar)
		e.writeStr(ex.Name)
	case *ast.TupleExpr:
		e.writeU8(tagExprTuple)
		e.writeCount(len(ex.Elems))
		for _, el := range ex.Elems {
			e.writeExpr(el)
		}
	case *ast.ListExpr:
		e.writeU8(tagExprList)
		e.writeCount(len(ex.Elems))
		for _, el := range ex.Elems {
			e.writeExpr(el)
		}
	case *ast.MapExpr:
		e.writeU8(tagExprMapLit)
		e.writeCount(len(ex.Keys))
		for i := range ex.Keys {
			e.writeExpr(ex.Keys[i])
			e.writeExpr(ex.Values[i])
		}
	case *ast.BlockExpr:
		e.writeU8(tagExprBlock)
		e.writeCount(len(ex.Stmts))
		for _, s := range ex.Stmts {
			e.writeStmt(s)
		}
		e.writeOptExpr(ex.Tail)
	case *ast.BinaryExpr:
		e.writeU8(tagExprBinOp)
		e.writeExpr(ex.Left)
		e.writeBinOp(ex.Op)
		e.writeExpr(ex.Right)
	case *ast.UnaryExpr:
		e.writeU8(tagExprUnaryOp)
		e.writeUnaryOp(ex.Op)
		e.writeExpr(ex.Operand)
	case *ast.CallExpr:
		e.writeU8(tagExprCall)
		e.writeExpr(ex.Callee)
		e.writeCount(len(ex.Args))
		for _, a := range ex.Args {
			e.writeExpr(a)
		}
	case *ast.MethodCallExpr:
		e.writeU8(tagExprMethodCall)
		e.writeExpr(ex.Receiver)
		e.writeStr(ex.Method)
		e.writeCount(len(ex.Args))
		for _, a := range ex.Args {
			e.writeExpr(a)
		}
	case *ast.FieldAccessExpr:
		e.writeU8(tagExprFieldAccess)
		e.writeExpr(ex.Receiver)
		e.writeStr(ex.Field)
	case *ast.IndexExpr:
		e.writeU8(tagExprIndex)
		e.writeExpr(ex.Receiver)
		e.writeExpr(ex.Index)
	case *ast.IfExpr:
		e.writeU8(tagExprIf)
		e.writeExpr(ex.Cond)
		e.writeExpr(ex.Then)
		e.writeCount(len(ex.Elifs))
		for _, el := range ex.Elifs {
			e.writeExpr(el.Cond)
			e.writeExpr(el.Body)
		}
		e.writeOptExpr(ex.Else)
	case *ast.MatchExpr:
		e.writeU8(tagExprMatch)
		e.writeExpr(ex.Subject)
		e.writeCount(len(ex.Arms))
		for _, a := range ex.Arms {
			e.writeMatchArm(a)
		}
	case *ast.ClosureExpr:
		e.writeU8(tagExprClosure)
		e.writeCount(len(ex.Params))
		for _, p := range ex.Params {
			e.writeStr(p.Name)
			e.writeOptType(p.Type)
		}
		e.writeExpr(ex.Body)
	case *ast.StructCreateExpr:
		e.writeU8(tagExprStructCreate)
		e.writeStr(ex.Name)
		e.writeCount(len(ex.Fields))
		for _, f := range ex.Fields {
			e.writeStr(f.Name)
			e.writeExpr(f.Value)
		}
	case *ast.EnumVariantExpr:
		e.writeU8(tagExprEnumVariant)
		e.writeStr(ex.Enum)
		e.writeStr(ex.Variant)
		e.writeCount(len(ex.Args))
		for _, a := range ex.Args {
			e.writeExpr(a)
		}
	case *ast.RangeExpr:
		e.writeU8(tagExprRange)
		e.writeExpr(ex.Start)
		e.writeExpr(ex.End)
	case *ast.SomeExpr:
		e.writeU8(tagExprSome)
		e.writeExpr(ex.Inner)
	case *ast.OkExpr:
		e.writeU8(tagExprOk)
		e.writeExpr(ex.Inner)
	case *ast.ErrExpr:
		e.writeU8(tagExprErr)
		e.writeExpr(ex.Inner)
	case *ast.QuestionExpr:
		e.writeU8(tagExprQuestion)
		e.writeExpr(ex.Inner)
	case *ast.BoxExpr:
		e.writeU8(tagExprBox)
		e.writeExpr(ex.Inner)
	case *ast.RefExpr:
		e.writeU8(tagExprRef)
		e.writeExpr(ex.Inner)
	case *ast.AssignExpr:
		e.writeU8(tagExprAssign)
		e.writeExpr(ex.Target)
		e.writeExpr(ex.Value)
	case *ast.AwaitExpr:
		e.writeU8(tagExprAwait)
		e.writeExpr(ex.Inner)
	default:
		panic("codec: unknown Expr variant")
	}
}

// --- Statements ---

func (e *encoder) writeStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		e.writeU8(tagStmtLet)
		e.writeStr(s.Name)
		e.writeOptType(s.Type)
		e.writeExpr(s.Value)
		e.writeBool(s.Mutable)
	case *ast.ExprStmt:
		e.writeU8(tagStmtExpr)
		e.writeExpr(s.Expr)
	case *ast.ReturnStmt:
		e.writeU8(tagStmtReturn)
		e.writeOptExpr(s.Value)
	case *ast.BreakStmt:
		e.writeU8(tagStmtBreak)
	case *ast.ContinueStmt:
		e.writeU8(tagStmtContinue)
	case *ast.WhileStmt:
		e.writeU8(tagStmtWhile)
		e.writeExpr(s.Cond)
		e.writeCount(len(s.Body))
		for _, b := range s.Body {
			e.writeStmt(b)
		}
	case *ast.ForStmt:
		e.writeU8(tagStmtFor)
		e.writeStr(s.Var)
		e.writeExpr(s.Iter)
		e.writeCount(len(s.Body))
		for _, b := range s.Body {
			e.writeStmt(b)
		}
	case *ast.FunDefStmt:
		e.writeU8(tagStmtFunDef)
		e.writeFunDef(s.Fun)
	case *ast.StructDefStmt:
		e.writeU8(tagStmtStructDef)
		e.writeStructDef(s.Struct)
	case *ast.EnumDefStmt:
		e.writeU8(tagStmtEnumDef)
		e.writeEnumDef(s.Enum)
	case *ast.ImplBlockStmt:
		e.writeU8(tagStmtImplBlock)
		e.writeImplBlock(s.Impl)
	case *ast.ModDefStmt:
		e.writeU8(tagStmtModDef)
		e.writeStr(s.Name)
		e.writeCount(len(s.Stmts))
		for _, st := range s.Stmts {
			e.writeStmt(st)
		}
	case *ast.ImportStmt:
		e.writeU8(tagStmtImport)
		e.writeCount(len(s.Path))
		for _, p := range s.Path {
			e.writeStr(p)
		}
	case *ast.TypeAliasStmt:
		e.writeU8(tagStmtTypeAlias)
		e.writeStr(s.Name)
		e.writeCount(len(s.Generics))
		for _, g := range s.Generics {
			e.writeStr(g)
		}
		e.writeType(s.Type)
	default:
		panic("codec: unknown Stmt variant")
	}
}

func (e *encoder) writeFunDef(f *ast.FunDef) {
	e.writeStr(f.Name)
	e.writeCount(len(f.Generics))
	for _, g := range f.Generics {
		e.writeStr(g)
	}
	e.writeCount(len(f.Params))
	for _, p := range f.Params {
		e.writeParam(p)
	}
	e.writeOptType(f.ReturnType)
	e.writeCount(len(f.Body))
	for _, s := range f.Body {
		e.writeStmt(s)
	}
	e.writeBool(f.IsPub)
}

func (e *encoder) writeStructDef(sd *ast.StructDef) {
	e.writeStr(sd.Name)
	e.writeCount(len(sd.Generics))
	for _, g := range sd.Generics {
		e.writeStr(g)
	}
	e.writeCount(len(sd.Fields))
	for _, f := range sd.Fields {
		e.writeStr(f.Name)
		e.writeType(f.Type)
		e.writeBool(f.IsPub)
	}
	e.writeBool(sd.IsPub)
}

func (e *encoder) writeEnumDef(ed *ast.EnumDef) {
	e.writeStr(ed.Name)
	e.writeCount(len(ed.Generics))
	for _, g := range ed.Generics {
		e.writeStr(g)
	}
	e.writeCount(len(ed.Variants))
	for _, v := range ed.Variants {
		e.writeStr(v.Name)
		e.writeCount(len(v.Fields))
		for _, t := range v.Fields {
			e.writeType(t)
		}
	}
	e.writeBool(ed.IsPub)
}

func (e *encoder) writeImplBlock(ib *ast.ImplBlock) {
	e.writeStr(ib.Target)
	e.writeCount(len(ib.Generics))
	for _, g := range ib.Generics {
		e.writeStr(g)
	}
	e.writeCount(len(ib.Methods))
	for _, m := range ib.Methods {
		e.writeFunDef(m)
	}
}
