package sharing

import (
	"strings"
	"testing"
)

func TestGenerateTokenShape(t *testing.T) {
	token, err := generateToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	// 32 random bytes in unpadded URL-safe base64.
	if len(token) != 43 {
		t.Fatalf("expected 43 characters, got %d (%s)", len(token), token)
	}

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	for _, r := range token {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("token contains non URL-safe character %q", r)
		}
	}
}

func TestGenerateTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		token, err := generateToken()
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}
