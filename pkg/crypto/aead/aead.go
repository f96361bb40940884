// Package aead encrypts bulk plaintext with AES-256-GCM or AES-256-OCB3.
// Output is the ciphertext followed by a 16-byte tag.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	pmocb "github.com/ProtonMail/go-crypto/ocb"
)

const (
	KeySize   = 32
	MinIVSize = 12
	TagSize   = 16

	maxOCBNonce = 15
)

var (
	ErrInvalidKeyLength = errors.New("aead: key must be 32 bytes")
	ErrInvalidIVLength  = errors.New("aead: iv must be at least 12 bytes")
	ErrUnauthentic      = errors.New("aead: message authentication failed")
)

func checkInput(key, iv []byte) error {
	if len(key) != KeySize {
		return ErrInvalidKeyLength
	}
	if len(iv) < MinIVSize {
		return ErrInvalidIVLength
	}
	return nil
}

func newGCM(key, iv []byte) (cipher.AEAD, error) {
	if err := checkInput(key, iv); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, len(iv))
}

func newOCB(key, iv []byte) (cipher.AEAD, error) {
	if err := checkInput(key, iv); err != nil {
		return nil, err
	}
	if len(iv) > maxOCBNonce {
		return nil, ErrInvalidIVLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return pmocb.NewOCBWithNonceAndTagSize(block, len(iv), TagSize)
}

// EncryptGCM seals plain under key with AES-256-GCM. iv may be any length
// of 12 bytes or more; associated is authenticated but not encrypted.
func EncryptGCM(plain, key, iv, associated []byte) ([]byte, error) {
	a, err := newGCM(key, iv)
	if err != nil {
		return nil, err
	}
	return a.Seal(nil, iv, plain, associated), nil
}

// DecryptGCM opens the output of EncryptGCM.
func DecryptGCM(cipherAndTag, key, iv, associated []byte) ([]byte, error) {
	a, err := newGCM(key, iv)
	if err != nil {
		return nil, err
	}
	return open(a, cipherAndTag, iv, associated)
}

// EncryptOCB seals plain with AES-256-OCB3. iv must be 12 to 15 bytes.
func EncryptOCB(plain, key, iv, associated []byte) ([]byte, error) {
	a, err := newOCB(key, iv)
	if err != nil {
		return nil, err
	}
	return a.Seal(nil, iv, plain, associated), nil
}

// DecryptOCB opens the output of EncryptOCB.
func DecryptOCB(cipherAndTag, key, iv, associated []byte) ([]byte, error) {
	a, err := newOCB(key, iv)
	if err != nil {
		return nil, err
	}
	return open(a, cipherAndTag, iv, associated)
}

func open(a cipher.AEAD, cipherAndTag, iv, associated []byte) ([]byte, error) {
	if len(cipherAndTag) < a.Overhead() {
		return nil, ErrUnauthentic
	}
	pt, err := a.Open(nil, iv, cipherAndTag, associated)
	if err != nil {
		return nil, ErrUnauthentic
	}
	if pt == nil {
		pt = []byte{}
	}
	return pt, nil
}
