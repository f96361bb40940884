// Package hash fingerprints key material so it can be referred to in logs
// and armor headers without being revealed.
package hash

import (
	"crypto"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"encoding/hex"
	"fmt"
)

var algorithms = map[string]crypto.Hash{
	"sha256": crypto.SHA256,
	"sha384": crypto.SHA384,
	"sha512": crypto.SHA512,
}

// Fingerprint returns the full digest of key under the named algorithm.
func Fingerprint(alg string, key []byte) ([]byte, error) {
	h, ok := algorithms[alg]
	if !ok {
		return nil, fmt.Errorf("unsupported hash: %s", alg)
	}
	d := h.New()
	d.Write(key)
	return d.Sum(nil), nil
}

// KeyID is the first 8 bytes of the SHA-256 fingerprint, hex encoded.
func KeyID(key []byte) string {
	sum, _ := Fingerprint("sha256", key)
	return hex.EncodeToString(sum[:8])
}
