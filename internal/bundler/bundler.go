// Package bundler implements self-embedding executable support:
// `zephyr compile foo.zph` copies the running interpreter binary,
// appends the compiled .zphc bytecode, and appends an 8-byte sentinel
// plus an 8-byte little-endian payload length. At startup the
// interpreter reads its own binary's tail and, if the sentinel
// matches, decodes and runs the embedded program directly — no files,
// no temp dirs.
//
// Binary layout of the output file:
//
//	[interpreter binary bytes, verbatim]
//	[N bytes]  .zphc bytecode
//	[8 bytes]  sentinel: "ZPHPAYLD"
//	[8 bytes]  payload length: u64 little-endian
package bundler

import (
	"encoding/binary"
	"fmt"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// sentinel is unlikely to appear in normal binary data.
var sentinel = []byte("ZPHPAYLD")

const trailerSize = 16 // 8-byte sentinel + 8-byte length

// ExePath returns the platform-appropriate executable path for stem,
// stripping any ".exe" the caller may already have typed on Windows.
func ExePath(stem string) string {
	if runtime.GOOS == "windows" {
		clean := stem
		if len(clean) > 4 && clean[len(clean)-4:] == ".exe" {
			clean = clean[:len(clean)-4]
		}
		return clean + ".exe"
	}
	return stem
}

// WriteExecutable copies the running interpreter binary, strips any
// payload it may already carry (so re-bundling an already-compiled
// binary is idempotent), appends bytecodeBytes plus the trailer, and
// atomically installs the result at outputPath. Returns the total
// output size for a human-readable progress report.
func WriteExecutable(bytecodeBytes []byte, outputPath string) (uint64, error) {
	selfPath, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("bundler: locate running interpreter: %w", err)
	}
	interpreterBytes, err := os.ReadFile(selfPath)
	if err != nil {
		return 0, fmt.Errorf("bundler: read running interpreter: %w", err)
	}

	clean := stripPayload(interpreterBytes)

	out := make([]byte, 0, len(clean)+len(bytecodeBytes)+trailerSize)
	out = append(out, clean...)
	out = append(out, bytecodeBytes...)
	out = append(out, sentinel...)

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(bytecodeBytes)))
	out = append(out, lenBuf[:]...)

	tmpPath := outputPath + "." + uuid.NewString() + ".zph_tmp"
	if err := os.WriteFile(tmpPath, out, 0o644); err != nil {
		return 0, fmt.Errorf("bundler: write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("bundler: install output file: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := setExecutable(outputPath); err != nil {
			return 0, fmt.Errorf("bundler: chmod output file: %w", err)
		}
	}

	return uint64(len(out)), nil
}

// HumanSize formats a byte count the way the `compile` subcommand
// reports bundle size to the user.
func HumanSize(n uint64) string {
	return humanize.Bytes(n)
}

func setExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chmod(path, info.Mode()|0o111)
}

// stripPayload returns data up to (but not including) any existing
// Zephyr payload, so re-compiling an already-bundled binary doesn't
// compound payloads.
func stripPayload(data []byte) []byte {
	if offset, ok := findPayloadStart(data); ok {
		return data[:offset]
	}
	return data
}

// findPayloadStart locates the byte offset where the payload begins,
// i.e. immediately after the interpreter's own bytes.
func findPayloadStart(data []byte) (int, bool) {
	if len(data) < trailerSize {
		return 0, false
	}
	tail := data[len(data)-trailerSize:]
	for i := range sentinel {
		if tail[i] != sentinel[i] {
			return 0, false
		}
	}
	payloadLen := int(binary.LittleEndian.Uint64(tail[8:16]))
	start := len(data) - trailerSize - payloadLen
	if start < 0 {
		return 0, false
	}
	return start, true
}

// ExtractPayload is called at startup before any argument parsing. It
// reads the running binary's own bytes and, if a payload is present,
// returns the raw .zphc bytes embedded after the interpreter. Returns
// (nil, false) for a normal, unbundled Zephyr CLI invocation.
func ExtractPayload() ([]byte, bool) {
	selfPath, err := os.Executable()
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(selfPath)
	if err != nil {
		return nil, false
	}
	if len(data) < trailerSize {
		return nil, false
	}
	tail := data[len(data)-trailerSize:]
	for i := range sentinel {
		if tail[i] != sentinel[i] {
			return nil, false
		}
	}
	payloadLen := int(binary.LittleEndian.Uint64(tail[8:16]))
	payloadStart := len(data) - trailerSize - payloadLen
	if payloadStart < 0 {
		return nil, false
	}
	payloadEnd := len(data) - trailerSize
	return data[payloadStart:payloadEnd], true
}
