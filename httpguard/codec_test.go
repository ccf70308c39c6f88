package httpguard

import (
	"strings"
	"testing"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestSealOpenRoundTrip(t *testing.T) {
	codec, err := NewCodec(testKey)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	sealed, err := codec.Seal("remember_web", "series.value")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if sealed == "series.value" {
		t.Fatal("value not encrypted")
	}

	plain, ok := codec.Open("remember_web", sealed)
	if !ok {
		t.Fatal("Open rejected its own ciphertext")
	}
	if plain != "series.value" {
		t.Fatalf("round trip changed the value: %q", plain)
	}
}

func TestCiphertextIsBoundToCookieName(t *testing.T) {
	codec, err := NewCodec(testKey)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	sealed, err := codec.Seal("remember_web", "secret")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if _, ok := codec.Open("remember_admin", sealed); ok {
		t.Fatal("ciphertext opened under a different cookie name")
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	codec, err := NewCodec(testKey)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	sealed, err := codec.Seal("remember_web", "secret")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	cases := map[string]string{
		"empty":       "",
		"not base64":  "!!!!",
		"too short":   "AAAA",
		"bit flipped": flipLastChar(sealed),
		"truncated":   sealed[:len(sealed)-4],
	}
	for name, input := range cases {
		if _, ok := codec.Open("remember_web", input); ok {
			t.Errorf("%s: Open accepted %q", name, input)
		}
	}
}

func TestNewCodecRejectsBadKeys(t *testing.T) {
	for _, size := range []int{0, 8, 15, 17, 31, 33, 64} {
		if _, err := NewCodec(make([]byte, size)); err == nil {
			t.Errorf("key size %d accepted", size)
		}
	}
	for _, size := range []int{16, 24, 32} {
		if _, err := NewCodec(make([]byte, size)); err != nil {
			t.Errorf("key size %d rejected: %v", size, err)
		}
	}
}

func TestSealIsNonDeterministic(t *testing.T) {
	codec, err := NewCodec(testKey)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	a, _ := codec.Seal("remember_web", "secret")
	b, _ := codec.Seal("remember_web", "secret")
	if a == b {
		t.Fatal("identical plaintexts sealed to identical ciphertexts")
	}
}

func flipLastChar(s string) string {
	if strings.HasSuffix(s, "A") {
		return s[:len(s)-1] + "B"
	}
	return s[:len(s)-1] + "A"
}
