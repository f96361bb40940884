package armor

import (
	"bytes"
	"strings"
	"testing"

	pgparmor "github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte{0xA6, 0x01}, 20)
	out, err := Encode(raw, map[string]string{"KEK-ID": "e3b0c44298fc1c14"})
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "-----BEGIN "+BlockType+"-----"))
	assert.Contains(t, text, "-----END "+BlockType+"-----")
	assert.True(t, IsArmored(out))

	hdrs, got, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
	assert.Equal(t, "e3b0c44298fc1c14", hdrs["KEK-ID"])
}

func TestDecodeWithSurroundingText(t *testing.T) {
	raw := []byte("0123456789abcdef0123456789abcdef01234567")
	out, err := Encode(raw, nil)
	require.NoError(t, err)

	in := append([]byte("wrapped key follows\n\n"), out...)
	_, got, err := Decode(in)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestDecodeWrongType(t *testing.T) {
	var buf bytes.Buffer
	w, err := pgparmor.Encode(&buf, "PGP MESSAGE", nil)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, _, err = Decode(buf.Bytes())
	assert.ErrorIs(t, err, ErrBlockType)
}

func TestDecodeNotArmored(t *testing.T) {
	_, _, err := Decode([]byte{0x28, 0xC9, 0xF4, 0x04})
	assert.ErrorIs(t, err, ErrNoArmor)
	assert.False(t, IsArmored([]byte("plain text")))
}
