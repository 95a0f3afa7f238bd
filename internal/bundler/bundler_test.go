package bundler

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func fakeBundle(interpreter, payload []byte) []byte {
	var out []byte
	out = append(out, interpreter...)
	out = append(out, payload...)
	out = append(out, sentinel...)
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(payload)))
	out = append(out, lenBuf[:]...)
	return out
}

func TestFindPayloadStartRoundTrip(t *testing.T) {
	interpreter := []byte("ELF\x7f_this_is_fake_interpreter_data_for_testing")
	payload := []byte("ZPHC\x01\x00some_bytecode_bytes_here")
	bundle := fakeBundle(interpreter, payload)

	start, ok := findPayloadStart(bundle)
	if !ok {
		t.Fatal("expected to find payload")
	}
	end := len(bundle) - trailerSize
	if !bytes.Equal(bundle[start:end], payload) {
		t.Fatalf("payload mismatch: got %q, want %q", bundle[start:end], payload)
	}

	stripped := stripPayload(bundle)
	if !bytes.Equal(stripped, interpreter) {
		t.Fatalf("stripped mismatch: got %q, want %q", stripped, interpreter)
	}
}

func TestFindPayloadStartNoPayload(t *testing.T) {
	plain := []byte("ELF\x7f_just_a_normal_binary_with_no_payload")
	if _, ok := findPayloadStart(plain); ok {
		t.Fatal("expected no payload to be found")
	}
}

func TestStripPayloadIdempotentOnCleanBinary(t *testing.T) {
	plain := []byte("just some bytes")
	if got := stripPayload(plain); !bytes.Equal(got, plain) {
		t.Fatalf("expected unchanged bytes, got %q", got)
	}
}

func TestExePath(t *testing.T) {
	// The suite runs on the host OS (Linux in this environment); the
	// Windows ".exe" branch is not reachable from a non-Windows test
	// process and is not exercised here.
	if got := ExePath("hello"); got != "hello" {
		t.Fatalf("ExePath(%q) = %q, want %q", "hello", got, "hello")
	}
}

func TestReBundlingStripsPriorPayload(t *testing.T) {
	interpreter := []byte("fake-interpreter-bytes")
	firstPayload := []byte("first-zphc-payload")
	bundle := fakeBundle(interpreter, firstPayload)

	// Re-stripping a bundle that already carries a payload must return
	// exactly the original interpreter bytes, not the interpreter plus
	// a stale payload.
	stripped := stripPayload(bundle)
	if !bytes.Equal(stripped, interpreter) {
		t.Fatalf("expected idempotent strip, got %q", stripped)
	}
}
