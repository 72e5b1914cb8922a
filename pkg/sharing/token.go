package sharing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes gives 256 bits of entropy per share token.
const tokenBytes = 32

// generateToken produces a URL-safe opaque bearer string from the system
// CSPRNG. Tokens are never derived from timestamps or sequence numbers.
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
