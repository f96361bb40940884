// Package armor ASCII-armors wrapped keys so they can travel through
// text channels. The format is the OpenPGP armor with a CRC-24 footer.
package armor

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	pgparmor "github.com/ProtonMail/go-crypto/openpgp/armor"
)

// BlockType labels armored wrapped keys.
const BlockType = "AES KEY WRAP"

var (
	ErrBlockType = errors.New("armor: unexpected block type")
	ErrNoArmor   = errors.New("armor: no armored block found")
)

// Encode armors raw with the given headers.
func Encode(raw []byte, headers map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	w, err := pgparmor.Encode(&buf, BlockType, headers)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode parses an armored wrapped key and returns its headers and body.
func Decode(in []byte) (map[string]string, []byte, error) {
	if !IsArmored(in) {
		return nil, nil, ErrNoArmor
	}
	block, err := pgparmor.Decode(bytes.NewReader(in))
	if err != nil {
		return nil, nil, fmt.Errorf("armor: %w", err)
	}
	if block.Type != BlockType {
		return nil, nil, ErrBlockType
	}
	raw, err := io.ReadAll(block.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("armor: %w", err)
	}
	return block.Header, raw, nil
}

// IsArmored reports whether in appears to contain an armored block.
func IsArmored(in []byte) bool {
	return bytes.Contains(in, []byte("-----BEGIN "))
}
