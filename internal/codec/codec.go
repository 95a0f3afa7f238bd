package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/mochacinno-dev/zephyr/internal/ast"
)

// fnv1a hashes data with the 64-bit FNV-1a algorithm. The stdlib
// hash/fnv package produces the identical stream, but the explicit
// loop keeps the offset basis/prime visible alongside the format
// documentation in tags.go.
func fnv1a(data []byte) uint64 {
	const (
		offsetBasis uint64 = 0xcbf29ce484222325
		prime       uint64 = 0x100000001b3
	)
	hash := offsetBasis
	for _, b := range data {
		hash ^= uint64(b)
		hash *= prime
	}
	return hash
}

// Encode serializes a parsed statement list into .zphc bytes, stamping
// the header with a fingerprint of the original source text.
func Encode(stmts []ast.Stmt, source string) []byte {
	enc := &encoder{}
	for _, s := range stmts {
		enc.writeStmt(s)
	}
	body := enc.bytes()

	out := make([]byte, headerSize+len(body))
	binary.LittleEndian.PutUint32(out[0:4], magic)
	binary.LittleEndian.PutUint16(out[4:6], version)
	binary.LittleEndian.PutUint64(out[6:14], fnv1a([]byte(source)))
	binary.LittleEndian.PutUint32(out[14:18], uint32(len(stmts)))
	copy(out[18:], body)
	return out
}

// Decode parses .zphc bytes back into a statement list and the source
// fingerprint stored in its header.
func Decode(data []byte) ([]ast.Stmt, uint64, error) {
	if len(data) < headerSize {
		return nil, 0, fmt.Errorf("codec: file too short to be a valid .zphc")
	}
	gotMagic := binary.LittleEndian.Uint32(data[0:4])
	if gotMagic != magic {
		return nil, 0, fmt.Errorf("codec: invalid magic: expected 0x%08X, got 0x%08X", magic, gotMagic)
	}
	gotVersion := binary.LittleEndian.Uint16(data[4:6])
	if gotVersion != version {
		return nil, 0, fmt.Errorf("codec: unsupported bytecode version: %d (this runtime supports %d)", gotVersion, version)
	}
	sourceHash := binary.LittleEndian.Uint64(data[6:14])
	stmtCount := int(binary.LittleEndian.Uint32(data[14:18]))

	dec := &decoder{data: data[headerSize:]}
	stmts := make([]ast.Stmt, stmtCount)
	for i := range stmts {
		s, err := dec.readStmt()
		if err != nil {
			return nil, 0, fmt.Errorf("codec: decode error: %w", err)
		}
		stmts[i] = s
	}
	return stmts, sourceHash, nil
}

// IsFresh reports whether previously compiled bytecode's stored source
// fingerprint still matches source — the staleness check run before a
// .zphc file is trusted over re-parsing.
func IsFresh(bytecode []byte, source string) bool {
	if len(bytecode) < 14 {
		return false
	}
	stored := binary.LittleEndian.Uint64(bytecode[6:14])
	return stored == fnv1a([]byte(source))
}
