// Package codec implements the versioned tagged-binary AST
// serialization format used by compiled bytecode (the .zphc file).
//
// File layout:
//
//	[4 bytes]  magic:   0x5A504843 ("ZPHC"), little-endian
//	[2 bytes]  version: u16 little-endian (current: 1)
//	[8 bytes]  source hash: u64 little-endian, FNV-1a of the source text
//	[4 bytes]  statement count: u32 little-endian
//	[N bytes]  statements, recursively tag-encoded
//
// All multi-byte integers are little-endian. Strings are a 4-byte
// length prefix followed by UTF-8 bytes. Optional values are a 0x00/
// 0x01 discriminant followed by the payload when present. Vectors are
// a 4-byte count followed by that many encoded elements.
package codec

const (
	magic   uint32 = 0x5A504843
	version uint16 = 1

	// headerSize is magic(4) + version(2) + hash(8) + stmtCount(4).
	headerSize = 18
)

const (
	tagExprInt          byte = 0x01
	tagExprFloat        byte = 0x02
	tagExprBool         byte = 0x03
	tagExprString       byte = 0x04
	tagExprNil          byte = 0x05
	tagExprInterp       byte = 0x06
	tagExprVar          byte = 0x07
	tagExprTuple        byte = 0x08
	tagExprList         byte = 0x09
	tagExprMapLit       byte = 0x0A
	tagExprBlock        byte = 0x0B
	tagExprBinOp        byte = 0x0C
	tagExprUnaryOp      byte = 0x0D
	tagExprCall         byte = 0x0E
	tagExprMethodCall   byte = 0x0F
	tagExprFieldAccess  byte = 0x10
	tagExprIndex        byte = 0x11
	tagExprIf           byte = 0x12
	tagExprMatch        byte = 0x13
	tagExprClosure      byte = 0x14
	tagExprStructCreate byte = 0x15
	tagExprEnumVariant  byte = 0x16
	tagExprRange        byte = 0x17
	tagExprSome         byte = 0x18
	tagExprOk           byte = 0x19
	tagExprErr          byte = 0x1A
	tagExprQuestion     byte = 0x1B
	tagExprBox          byte = 0x1C
	tagExprRef          byte = 0x1D
	tagExprAssign       byte = 0x1E
	tagExprAwait        byte = 0x1F
)

const (
	tagStmtLet        byte = 0x40
	tagStmtExpr       byte = 0x41
	tagStmtReturn     byte = 0x42
	tagStmtBreak      byte = 0x43
	tagStmtContinue   byte = 0x44
	tagStmtWhile      byte = 0x45
	tagStmtFor        byte = 0x46
	tagStmtFunDef     byte = 0x47
	tagStmtStructDef  byte = 0x48
	tagStmtEnumDef    byte = 0x49
	tagStmtImplBlock  byte = 0x4A
	tagStmtModDef     byte = 0x4B
	tagStmtImport     byte = 0x4C
	tagStmtTypeAlias  byte = 0x4D
)

const (
	tagTypeInt      byte = 0x80
	tagTypeFloat    byte = 0x81
	tagTypeBool     byte = 0x82
	tagTypeString   byte = 0x83
	tagTypeNil      byte = 0x84
	tagTypeOption   byte = 0x85
	tagTypeResult   byte = 0x86
	tagTypeList     byte = 0x87
	tagTypeMap      byte = 0x88
	tagTypeTuple    byte = 0x89
	tagTypeNamed    byte = 0x8A
	tagTypeGeneric  byte = 0x8B
	tagTypeFunction byte = 0x8C
	tagTypeInferred byte = 0x8D
)

const (
	tagBinAdd    byte = 0x01
	tagBinSub    byte = 0x02
	tagBinMul    byte = 0x03
	tagBinDiv    byte = 0x04
	tagBinMod    byte = 0x05
	tagBinEq     byte = 0x06
	tagBinNeq    byte = 0x07
	tagBinLt     byte = 0x08
	tagBinLtEq   byte = 0x09
	tagBinGt     byte = 0x0A
	tagBinGtEq   byte = 0x0B
	tagBinAnd    byte = 0x0C
	tagBinOr     byte = 0x0D
	tagBinDotDot byte = 0x0E
)

const (
	tagUnaryNeg byte = 0x01
	tagUnaryNot byte = 0x02
)

const (
	tagPatWildcard    byte = 0xC0
	tagPatIdent       byte = 0xC1
	tagPatInt         byte = 0xC2
	tagPatFloat       byte = 0xC3
	tagPatBool        byte = 0xC4
	tagPatString      byte = 0xC5
	tagPatNil         byte = 0xC6
	tagPatTuple       byte = 0xC7
	tagPatList        byte = 0xC8
	tagPatStruct      byte = 0xC9
	tagPatEnumVariant byte = 0xCA
	tagPatSome        byte = 0xCB
	tagPatOk          byte = 0xCC
	tagPatErr         byte = 0xCD
	tagPatOr          byte = 0xCE
	tagPatRange       byte = 0xCF
)

const (
	tagStrPartLiteral byte = 0x01
	tagStrPartInterp  byte = 0x02
)
