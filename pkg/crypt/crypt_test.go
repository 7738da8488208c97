package crypt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	type notice struct {
		Kind    string
		Message string
	}

	enc, err := EncryptJSON(notice{Kind: "success", Message: "Import complete"})
	require.NoError(t, err)
	assert.NotContains(t, enc, "Import")

	var got notice
	require.NoError(t, DecryptJSON(enc, &got))
	assert.Equal(t, notice{Kind: "success", Message: "Import complete"}, got)
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	a, err := EncryptBytes([]byte("same"))
	require.NoError(t, err)
	b, err := EncryptBytes([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptRejectsTampering(t *testing.T) {
	enc, err := EncryptBytes([]byte("payload"))
	require.NoError(t, err)

	flipped := []byte(enc)
	i := len(flipped) / 2
	if flipped[i] == 'A' {
		flipped[i] = 'B'
	} else {
		flipped[i] = 'A'
	}

	_, err = DecryptBytes(string(flipped))
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = DecryptBytes("not base64 at all!")
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = DecryptBytes(strings.Repeat("A", 8))
	assert.ErrorIs(t, err, ErrDecrypt)
}
