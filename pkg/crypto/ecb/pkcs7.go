package ecb

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"errors"
)

var ErrBadPadding = errors.New("ecb: invalid padding")

type pkcs7 struct {
	b cipher.Block
}

// NewPKCS7 returns an AES-256 ECB provider that always pads, the way most
// general purpose ECB APIs behave.
func NewPKCS7(key []byte) (PaddedProvider, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeyLength
	}
	b, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &pkcs7{b: b}, nil
}

func (p *pkcs7) EncryptECB(src []byte) []byte {
	pad := BlockSize - len(src)%BlockSize
	out := make([]byte, len(src)+pad)
	copy(out, src)
	for i := len(src); i < len(out); i++ {
		out[i] = byte(pad)
	}
	for i := 0; i < len(out); i += BlockSize {
		p.b.Encrypt(out[i:i+BlockSize], out[i:i+BlockSize])
	}
	return out
}

func (p *pkcs7) DecryptECB(src []byte) ([]byte, error) {
	if len(src) == 0 || len(src)%BlockSize != 0 {
		return nil, ErrBadPadding
	}
	out := make([]byte, len(src))
	for i := 0; i < len(src); i += BlockSize {
		p.b.Decrypt(out[i:i+BlockSize], src[i:i+BlockSize])
	}
	pad := int(out[len(out)-1])
	if pad == 0 || pad > BlockSize {
		return nil, ErrBadPadding
	}
	want := make([]byte, pad)
	for i := range want {
		want[i] = byte(pad)
	}
	if subtle.ConstantTimeCompare(out[len(out)-pad:], want) != 1 {
		return nil, ErrBadPadding
	}
	return out[:len(out)-pad], nil
}
