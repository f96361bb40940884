// Package ecb exposes single-block AES-256 as a cipher.Block with no padding
// semantics, either directly over crypto/aes or on top of an ECB provider
// that always pads and cannot be told not to.
package ecb

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
)

const (
	BlockSize = aes.BlockSize
	KeySize   = 32
)

var ErrInvalidKeyLength = errors.New("ecb: key must be 32 bytes")

// PaddingBlock returns the full PKCS#7 padding block (0x10 x 16) that a
// padding provider appends to block-aligned input.
func PaddingBlock() []byte {
	return bytes.Repeat([]byte{BlockSize}, BlockSize)
}

// NewRaw returns an AES-256 block. crypto/aes already works on raw single
// blocks, so no padding handling is needed.
func NewRaw(key []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeyLength
	}
	return aes.NewCipher(key)
}

// PaddedProvider is an ECB implementation that always applies PKCS#7.
type PaddedProvider interface {
	// EncryptECB pads src and encrypts every block.
	EncryptECB(src []byte) []byte
	// DecryptECB decrypts every block and strips the padding.
	DecryptECB(src []byte) ([]byte, error)
}

// padded adapts a PaddedProvider to a raw single-block cipher.Block.
type padded struct {
	p PaddedProvider
	// encryption of PaddingBlock under the provider's key
	padCT [BlockSize]byte
}

// NewPadded wraps p so that Encrypt and Decrypt act on exactly one block.
// The encrypted padding block used to rebuild a valid padded ciphertext on
// decrypt is computed once here.
func NewPadded(p PaddedProvider) (cipher.Block, error) {
	out := p.EncryptECB(PaddingBlock())
	if len(out) != 2*BlockSize {
		return nil, fmt.Errorf("ecb: provider returned %d bytes for one block (want %d)", len(out), 2*BlockSize)
	}
	a := &padded{p: p}
	copy(a.padCT[:], out[:BlockSize])
	return a, nil
}

func (a *padded) BlockSize() int { return BlockSize }

func (a *padded) Encrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("ecb: input not full block")
	}
	out := a.p.EncryptECB(src[:BlockSize])
	// trailing block is the encrypted padding
	copy(dst, out[:BlockSize])
}

func (a *padded) Decrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("ecb: input not full block")
	}
	var ct [2 * BlockSize]byte
	copy(ct[:BlockSize], src[:BlockSize])
	copy(ct[BlockSize:], a.padCT[:])
	out, err := a.p.DecryptECB(ct[:])
	if err != nil || len(out) != BlockSize {
		panic("ecb: provider rejected reconstructed padding")
	}
	copy(dst, out)
}
