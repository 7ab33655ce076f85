package secretbox

import (
	"encoding/base64"
	"strings"
	"testing"
)

func testBox(t *testing.T) *Box {
	t.Helper()
	raw := make([]byte, 32)
	for i := 0; i < 32; i++ {
		raw[i] = byte(i + 1)
	}
	b, err := New(raw)
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	return b
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	t.Parallel()
	b := testBox(t)

	for _, msg := range []string{
		"",
		"hola mundo ✓ — secreto",
		"EAAl-sq0-sandbox-token-1234567890",
		strings.Repeat("x", 4096),
		"日本語のテキスト",
	} {
		ct, err := b.Encrypt(msg)
		if err != nil {
			t.Fatalf("Encrypt(%q) err: %v", msg, err)
		}
		pt, err := b.Decrypt(ct)
		if err != nil {
			t.Fatalf("Decrypt err: %v", err)
		}
		if pt != msg {
			t.Fatalf("plaintext mismatch: got %q want %q", pt, msg)
		}
	}
}

func TestDecrypt_DetectsTamper(t *testing.T) {
	t.Parallel()
	b := testBox(t)

	ct, err := b.Encrypt("top secret")
	if err != nil {
		t.Fatalf("Encrypt err: %v", err)
	}
	parts := strings.Split(ct, "|")
	if len(parts) != 2 {
		t.Fatalf("unexpected ct format")
	}
	bs, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatal(err)
	}
	bs[0] ^= 0xFF
	tampered := parts[0] + "|" + base64.StdEncoding.EncodeToString(bs)

	if _, err := b.Decrypt(tampered); err == nil {
		t.Fatal("expected auth failure on tampered ciphertext")
	}
}

func TestDecrypt_RejectsGarbage(t *testing.T) {
	t.Parallel()
	b := testBox(t)

	for _, in := range []string{"", "no-sep", "a|b|c", "!!!|???"} {
		if _, err := b.Decrypt(in); err == nil {
			t.Fatalf("Decrypt(%q): expected error", in)
		}
	}
}

func TestNew_RejectsBadKeys(t *testing.T) {
	t.Parallel()
	if _, err := New(make([]byte, 16)); err == nil {
		t.Fatal("expected error for 16-byte key")
	}
	if _, err := NewFromBase64(""); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := NewFromBase64("not base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestNewFromBase64_AcceptsRawEncoding(t *testing.T) {
	t.Parallel()
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(255 - i)
	}
	// raw (sin padding) también es válido
	b, err := NewFromBase64(base64.RawStdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("NewFromBase64 raw err: %v", err)
	}
	ct, _ := b.Encrypt("x")
	if pt, err := b.Decrypt(ct); err != nil || pt != "x" {
		t.Fatalf("roundtrip failed: %v %q", err, pt)
	}
}
