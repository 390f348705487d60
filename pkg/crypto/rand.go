package crypto

import (
	"crypto/rand"
	"fmt"
)

// RandomBytes returns n cryptographically secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("random byte count must be positive, got %d", n)
	}

	out := make([]byte, n)
	if _, err := rand.Read(out); err != nil {
		return nil, fmt.Errorf("random source failed: %w", err)
	}
	return out, nil
}
