package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Sign computes the lowercase-hex HMAC-SHA256 of the canonical JSON form of
// payload under secret.
//
// Canonical form contract: encoding/json serializes map keys in sorted
// (lexicographic) order, so signer and verifier always produce identical
// bytes for the same payload. Partners integrating against this signature
// must serialize with the same key ordering.
func Sign(payload map[string]interface{}, secret string) (string, error) {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("serialize payload: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify recomputes the expected signature and compares it in constant time.
// Any malformed input (missing signature, non-hex characters, wrong length,
// unserializable payload) yields false, never an error: the caller must not
// learn which part of the check failed.
func Verify(payload map[string]interface{}, signatureHex string, secret string) bool {
	if signatureHex == "" {
		return false
	}
	presented, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}

	expectedHex, err := Sign(payload, secret)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(expectedHex)
	if err != nil {
		return false
	}

	return hmac.Equal(presented, expected)
}
