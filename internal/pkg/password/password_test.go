package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	h, err := Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h == "s3cret" || !strings.HasPrefix(h, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", h)
	}
	if !Verify("s3cret", h) {
		t.Fatalf("expected match")
	}
	if Verify("wrong", h) {
		t.Fatalf("expected mismatch")
	}
}

func TestVerify_FailsClosed(t *testing.T) {
	for _, hash := range []string{"", "plaintext", "$2a$10$short", strings.Repeat("$", 80)} {
		if Verify("anything", hash) {
			t.Errorf("Verify must fail for hash %q", hash)
		}
	}
}

func TestHash_TooLong(t *testing.T) {
	if _, err := Hash(strings.Repeat("x", 100)); err == nil {
		t.Fatalf("expected bcrypt to reject passwords over 72 bytes")
	}
}
