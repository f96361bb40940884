// Package aeskw implements RFC 3394 AES Key Wrap.
//
// Wrap and Unwrap enforce the library policy of a 256-bit KEK wrapping
// exactly 256 bits of key data. WrapBlock and UnwrapBlock run the general
// algorithm for any multiple of 8 bytes with at least two semiblocks.
package aeskw

import (
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"errors"

	"example.com/kwcrypt/pkg/crypto/ecb"
)

const (
	KeySize        = 32
	KEKSize        = 32
	WrappedKeySize = KeySize + semiblock

	semiblock = 8
	rounds    = 6

	// RFC 3394 2.2.3.1 default initial value.
	defaultIV uint64 = 0xA6A6A6A6A6A6A6A6
)

var (
	ErrInvalidKeyLength        = errors.New("aeskw: invalid key data length")
	ErrInvalidWrappedKeyLength = errors.New("aeskw: invalid wrapped key data length")
	ErrInvalidKEKLength        = errors.New("aeskw: kek must be 32 bytes")
	ErrIntegrityCheckFailed    = errors.New("aeskw: integrity check failed")
	ErrBlockSize               = errors.New("aeskw: cipher must have 16-byte blocks")
)

// KEK is a validated key-encrypting key. It is safe for concurrent use.
type KEK struct {
	block cipher.Block
}

// NewKEK validates kek and prepares its AES-256 block cipher.
func NewKEK(kek []byte) (*KEK, error) {
	if len(kek) != KEKSize {
		return nil, ErrInvalidKEKLength
	}
	b, err := ecb.NewRaw(kek)
	if err != nil {
		return nil, err
	}
	return &KEK{block: b}, nil
}

// Wrap wraps 32 bytes of key data, returning 40 bytes.
func (k *KEK) Wrap(key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeyLength
	}
	return WrapBlock(k.block, key)
}

// Unwrap reverses Wrap. ErrIntegrityCheckFailed means either the wrong KEK
// or a modified blob; the two are not distinguished.
func (k *KEK) Unwrap(wrapped []byte) ([]byte, error) {
	if len(wrapped) != WrappedKeySize {
		return nil, ErrInvalidWrappedKeyLength
	}
	return UnwrapBlock(k.block, wrapped)
}

// Wrap wraps key under kek. Both must be 32 bytes.
func Wrap(key, kek []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeyLength
	}
	k, err := NewKEK(kek)
	if err != nil {
		return nil, err
	}
	return k.Wrap(key)
}

// Unwrap unwraps a 40-byte blob with a 32-byte kek.
func Unwrap(wrapped, kek []byte) ([]byte, error) {
	if len(wrapped) != WrappedKeySize {
		return nil, ErrInvalidWrappedKeyLength
	}
	k, err := NewKEK(kek)
	if err != nil {
		return nil, err
	}
	return k.Unwrap(wrapped)
}

// WrapBlock runs the RFC 3394 wrapping process (index form, 2.2.1) with b.
// key must be a multiple of 8 bytes and at least 16 bytes long.
func WrapBlock(b cipher.Block, key []byte) ([]byte, error) {
	if len(key)%semiblock != 0 || len(key) < 2*semiblock {
		return nil, ErrInvalidKeyLength
	}
	if b.BlockSize() != 2*semiblock {
		return nil, ErrBlockSize
	}
	n := len(key) / semiblock

	// out[0:8] holds A at the end, R[i] lives at out[8+8i:16+8i].
	out := make([]byte, semiblock+len(key))
	copy(out[semiblock:], key)
	a := defaultIV

	var buf [2 * semiblock]byte
	for j := 0; j < rounds; j++ {
		for i := 0; i < n; i++ {
			r := out[semiblock*(i+1) : semiblock*(i+2)]
			binary.BigEndian.PutUint64(buf[:semiblock], a)
			copy(buf[semiblock:], r)
			b.Encrypt(buf[:], buf[:])
			t := uint64(n*j + i + 1)
			a = binary.BigEndian.Uint64(buf[:semiblock]) ^ t
			copy(r, buf[semiblock:])
		}
	}
	binary.BigEndian.PutUint64(out[:semiblock], a)
	return out, nil
}

// UnwrapBlock runs the RFC 3394 unwrapping process (index form, 2.2.2)
// and checks the recovered initial value.
func UnwrapBlock(b cipher.Block, wrapped []byte) ([]byte, error) {
	if len(wrapped)%semiblock != 0 || len(wrapped) < 3*semiblock {
		return nil, ErrInvalidWrappedKeyLength
	}
	if b.BlockSize() != 2*semiblock {
		return nil, ErrBlockSize
	}
	n := len(wrapped)/semiblock - 1

	a := binary.BigEndian.Uint64(wrapped[:semiblock])
	out := make([]byte, len(wrapped)-semiblock)
	copy(out, wrapped[semiblock:])

	var buf [2 * semiblock]byte
	for j := rounds - 1; j >= 0; j-- {
		for i := n - 1; i >= 0; i-- {
			r := out[semiblock*i : semiblock*(i+1)]
			t := uint64(n*j + i + 1)
			binary.BigEndian.PutUint64(buf[:semiblock], a^t)
			copy(buf[semiblock:], r)
			b.Decrypt(buf[:], buf[:])
			a = binary.BigEndian.Uint64(buf[:semiblock])
			copy(r, buf[semiblock:])
		}
	}

	var got, want [semiblock]byte
	binary.BigEndian.PutUint64(got[:], a)
	binary.BigEndian.PutUint64(want[:], defaultIV)
	if subtle.ConstantTimeCompare(got[:], want[:]) != 1 {
		clear(out)
		return nil, ErrIntegrityCheckFailed
	}
	return out, nil
}
