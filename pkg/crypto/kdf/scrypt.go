// Package kdf derives keys from passwords with scrypt.
package kdf

import (
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// MinKeyLength is the shortest key Scrypt will produce.
const MinKeyLength = 8

// Params are the scrypt cost parameters.
type Params struct {
	CPUFactor    int // N, a power of two
	MemoryFactor int // r
	Parallelism  int // p
	KeyLength    int
}

// DefaultParams derive a 256-bit key, suitable as an aeskw KEK.
func DefaultParams() Params {
	return Params{
		CPUFactor:    1 << 15,
		MemoryFactor: 8,
		Parallelism:  1,
		KeyLength:    32,
	}
}

// Scrypt derives a key of p.KeyLength bytes. Lengths below MinKeyLength are
// raised to MinKeyLength.
func Scrypt(data, salt []byte, p Params) ([]byte, error) {
	keyLen := p.KeyLength
	if keyLen < MinKeyLength {
		keyLen = MinKeyLength
	}
	key, err := scrypt.Key(data, salt, p.CPUFactor, p.MemoryFactor, p.Parallelism, keyLen)
	if err != nil {
		return nil, fmt.Errorf("kdf: scrypt: %w", err)
	}
	return key, nil
}

// DeriveKEK derives a 32-byte key-encrypting key from a passphrase.
func DeriveKEK(passphrase, salt []byte) ([]byte, error) {
	return Scrypt(passphrase, salt, DefaultParams())
}
