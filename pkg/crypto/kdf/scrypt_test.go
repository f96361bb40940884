package kdf

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 7914 section 12.
var vectors = []struct {
	name       string
	pass, salt string
	p          Params
	want       string
}{
	{
		name: "empty",
		p:    Params{CPUFactor: 16, MemoryFactor: 1, Parallelism: 1, KeyLength: 64},
		want: "77d6576238657b203b19ca42c18a0497f16b4844e3074ae8dfdffa3fede21442" +
			"fcd0069ded0948f8326a753a0fc81f17e8d3e0fb2e0d3628cf35e20c38d18906",
	},
	{
		name: "password/NaCl",
		pass: "password",
		salt: "NaCl",
		p:    Params{CPUFactor: 1024, MemoryFactor: 8, Parallelism: 16, KeyLength: 64},
		want: "fdbabe1c9d3472007856e7190d01e9fe7c6ad7cbc8237830e77376634b373162" +
			"2eaf30d92e22a3886ff109279d9830dac727afb94a83ee6d8360cbdfa2cc0640",
	},
}

func TestScryptVectors(t *testing.T) {
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			got, err := Scrypt([]byte(v.pass), []byte(v.salt), v.p)
			require.NoError(t, err)
			assert.Equal(t, v.want, hex.EncodeToString(got))
		})
	}
}

func TestShortKeyLengthRaised(t *testing.T) {
	v := vectors[0]
	for _, n := range []int{-1, 0, 1, 7, 8} {
		p := v.p
		p.KeyLength = n
		got, err := Scrypt(nil, nil, p)
		require.NoError(t, err)
		assert.Len(t, got, MinKeyLength)
		assert.Equal(t, v.want[:2*MinKeyLength], hex.EncodeToString(got))
	}
}

func TestInvalidParams(t *testing.T) {
	_, err := Scrypt([]byte("pw"), []byte("salt"), Params{CPUFactor: 3, MemoryFactor: 8, Parallelism: 1, KeyLength: 32})
	assert.Error(t, err)
}

func TestDeriveKEK(t *testing.T) {
	a, err := DeriveKEK([]byte("correct horse"), []byte("salt-1"))
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := DeriveKEK([]byte("correct horse"), []byte("salt-1"))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := DeriveKEK([]byte("correct horse"), []byte("salt-2"))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
