package random

import (
	"crypto/rand"
	"fmt"
)

// Bytes returns n bytes from crypto/rand.
func Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("random: %w", err)
	}
	return b, nil
}
