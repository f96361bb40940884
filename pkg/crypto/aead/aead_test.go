package aead

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// McGrew & Viega, GCM test case 16.
func TestGCMKnownAnswer(t *testing.T) {
	key := unhex(t, "feffe9928665731c6d6a8f9467308308feffe9928665731c6d6a8f9467308308")
	iv := unhex(t, "cafebabefacedbaddecaf888")
	plain := unhex(t, "d9313225f88406e5a55909c5aff5269a86a7a9531534f7da2e4c303d8a318a72"+
		"1c3c0c95956809532fcf0e2449a6b525b16aedf5aa0de657ba637b39")
	aad := unhex(t, "feedfacedeadbeeffeedfacedeadbeefabaddad2")
	want := unhex(t, "522dc1f099567d07f47f37a32a84427d643a8cdcbfe5c0c97598a2bd2555d1aa"+
		"8cb08e48590dbb3da7b08b1056828838c5f61e6393ba7a0abcc9f662"+
		"76fc6ece0f4e1768cddf8853bb2d551b")

	got, err := EncryptGCM(plain, key, iv, aad)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	back, err := DecryptGCM(got, key, iv, aad)
	require.NoError(t, err)
	assert.Equal(t, plain, back)
}

type mode struct {
	name    string
	encrypt func(plain, key, iv, associated []byte) ([]byte, error)
	decrypt func(cipherAndTag, key, iv, associated []byte) ([]byte, error)
}

var modes = []mode{
	{name: "gcm", encrypt: EncryptGCM, decrypt: DecryptGCM},
	{name: "ocb", encrypt: EncryptOCB, decrypt: DecryptOCB},
}

func TestRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, KeySize)
	iv := bytes.Repeat([]byte{0x07}, MinIVSize)
	aad := []byte("header")

	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			for _, plain := range [][]byte{{}, []byte("x"), bytes.Repeat([]byte("abc"), 100)} {
				ct, err := m.encrypt(plain, key, iv, aad)
				require.NoError(t, err)
				assert.Len(t, ct, len(plain)+TagSize)

				pt, err := m.decrypt(ct, key, iv, aad)
				require.NoError(t, err)
				assert.Equal(t, plain, pt)
			}
		})
	}
}

func TestTampering(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, KeySize)
	iv := bytes.Repeat([]byte{0x07}, 13)
	aad := []byte("header")

	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			ct, err := m.encrypt([]byte("secret payload"), key, iv, aad)
			require.NoError(t, err)

			flipped := append([]byte(nil), ct...)
			flipped[0] ^= 1
			_, err = m.decrypt(flipped, key, iv, aad)
			assert.ErrorIs(t, err, ErrUnauthentic)

			_, err = m.decrypt(ct, key, iv, []byte("other"))
			assert.ErrorIs(t, err, ErrUnauthentic)

			otherKey := bytes.Repeat([]byte{0x43}, KeySize)
			_, err = m.decrypt(ct, otherKey, iv, aad)
			assert.ErrorIs(t, err, ErrUnauthentic)

			_, err = m.decrypt(ct[:TagSize-1], key, iv, aad)
			assert.ErrorIs(t, err, ErrUnauthentic)
		})
	}
}

func TestInputValidation(t *testing.T) {
	iv := make([]byte, MinIVSize)
	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			for _, n := range []int{0, 16, 24, 31, 33} {
				_, err := m.encrypt(nil, make([]byte, n), iv, nil)
				assert.ErrorIs(t, err, ErrInvalidKeyLength)
				_, err = m.decrypt(make([]byte, TagSize), make([]byte, n), iv, nil)
				assert.ErrorIs(t, err, ErrInvalidKeyLength)
			}
			_, err := m.encrypt(nil, make([]byte, KeySize), make([]byte, MinIVSize-1), nil)
			assert.ErrorIs(t, err, ErrInvalidIVLength)
		})
	}

	_, err := EncryptGCM(nil, make([]byte, KeySize), make([]byte, 32), nil)
	assert.NoError(t, err, "gcm accepts long ivs")
	_, err = EncryptOCB(nil, make([]byte, KeySize), make([]byte, 16), nil)
	assert.ErrorIs(t, err, ErrInvalidIVLength)
}
