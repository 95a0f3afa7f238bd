package codec

import (
	"testing"

	"github.com/mochacinno-dev/zephyr/internal/ast"
)

func sampleProgram() []ast.Stmt {
	return []ast.Stmt{
		&ast.LetStmt{
			Name:    "x",
			Type:    ast.IntType{},
			Value:   &ast.IntLit{Value: 42},
			Mutable: true,
		},
		&ast.FunDefStmt{Fun: &ast.FunDef{
			Name: "add",
			Params: []ast.Param{
				{Name: "a", Type: ast.IntType{}},
				{Name: "b", Type: ast.IntType{}, Default: &ast.IntLit{Value: 1}},
			},
			ReturnType: ast.IntType{},
			Body: []ast.Stmt{
				&ast.ExprStmt{Expr: &ast.BinaryExpr{
					Left:  &ast.Var{Name: "a"},
					Op:    ast.Add,
					Right: &ast.Var{Name: "b"},
				}},
			},
			IsPub: true,
		}},
		&ast.ExprStmt{Expr: &ast.MatchExpr{
			Subject: &ast.Var{Name: "x"},
			Arms: []ast.MatchArm{
				{Pattern: &ast.IntPattern{Value: 0}, Body: &ast.StringLit{Value: "zero"}},
				{Pattern: &ast.RangePattern{Low: &ast.IntPattern{Value: 1}, High: &ast.IntPattern{Value: 10}}, Body: &ast.StringLit{Value: "small"}},
				{Pattern: &ast.WildcardPattern{}, Guard: &ast.BoolLit{Value: true}, Body: &ast.StringLit{Value: "other"}},
			},
		}},
		&ast.ExprStmt{Expr: &ast.StructCreateExpr{
			Name: "Point",
			Fields: []ast.StructFieldInit{
				{Name: "x", Value: &ast.FloatLit{Value: 1.5}},
				{Name: "y", Value: &ast.FloatLit{Value: -2.25}},
			},
		}},
		&ast.ExprStmt{Expr: &ast.InterpString{Parts: []ast.StringPart{
			ast.LiteralPart{Text: "hello "},
			ast.InterpPart{Expr: &ast.Var{Name: "x"}},
		}}},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	stmts := sampleProgram()
	source := "let mut x: Int = 42"
	encoded := Encode(stmts, source)

	decoded, hash, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded) != len(stmts) {
		t.Fatalf("got %d statements, want %d", len(decoded), len(stmts))
	}
	if hash != fnv1a([]byte(source)) {
		t.Fatalf("source hash mismatch")
	}

	letStmt, ok := decoded[0].(*ast.LetStmt)
	if !ok || letStmt.Name != "x" || !letStmt.Mutable {
		t.Fatalf("LetStmt round-trip mismatch: %#v", decoded[0])
	}
	intLit, ok := letStmt.Value.(*ast.IntLit)
	if !ok || intLit.Value != 42 {
		t.Fatalf("LetStmt.Value round-trip mismatch: %#v", letStmt.Value)
	}

	funDefStmt, ok := decoded[1].(*ast.FunDefStmt)
	if !ok || funDefStmt.Fun.Name != "add" || len(funDefStmt.Fun.Params) != 2 {
		t.Fatalf("FunDefStmt round-trip mismatch: %#v", decoded[1])
	}
	if funDefStmt.Fun.Params[1].Default == nil {
		t.Fatalf("expected default expression to survive round-trip")
	}
}

func TestIsFreshDetectsStaleness(t *testing.T) {
	source := "fun main() { 1 }"
	encoded := Encode(sampleProgram(), source)
	if !IsFresh(encoded, source) {
		t.Fatal("expected bytecode to be fresh against its own source")
	}
	if IsFresh(encoded, source+" // changed") {
		t.Fatal("expected bytecode to be stale against modified source")
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	bad := make([]byte, headerSize)
	if _, _, err := Decode(bad); err == nil {
		t.Fatal("expected an error for invalid magic")
	}
}

func TestDecodeRejectsTruncatedFile(t *testing.T) {
	if _, _, err := Decode([]byte{0x01, 0x02}); err == nil {
		t.Fatal("expected an error for a too-short file")
	}
}

func TestFnv1aMatchesKnownVector(t *testing.T) {
	// FNV-1a 64-bit offset basis hashed against the empty string is the
	// offset basis itself.
	if got := fnv1a(nil); got != 0xcbf29ce484222325 {
		t.Fatalf("fnv1a(nil) = 0x%X, want 0x%X", got, uint64(0xcbf29ce484222325))
	}
}
