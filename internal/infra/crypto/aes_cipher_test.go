package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"bazaar/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *aesCipher {
	t.Helper()

	key := make([]byte, keySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	c, err := newAESCipher("v1", key)
	require.NoError(t, err)

	cipher, ok := c.(*aesCipher)
	require.True(t, ok)

	return cipher
}

func TestAESCipher_Roundtrip(t *testing.T) {
	c := newTestCipher(t)

	cases := []string{
		"Jane Doe",
		"",
		":",
		"v1:looks-like-ciphertext",
		"multi\nline\ttext",
		"unicode 評價 ✓",
		strings.Repeat("long address ", 100),
	}

	for _, plaintext := range cases {
		sealed, err := c.Encrypt(plaintext)
		require.NoError(t, err)

		opened, err := c.Decrypt(sealed)
		require.NoError(t, err)
		assert.Equal(t, plaintext, opened)
	}
}

func TestAESCipher_CiphertextCarriesKeyID(t *testing.T) {
	c := newTestCipher(t)

	sealed, err := c.Encrypt("anything")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1:"))
}

func TestAESCipher_EncryptIsNonDeterministic(t *testing.T) {
	c := newTestCipher(t)

	first, err := c.Encrypt("same plaintext")
	require.NoError(t, err)
	second, err := c.Encrypt("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestAESCipher_DecryptRejectsMalformedInput(t *testing.T) {
	c := newTestCipher(t)

	sealed, err := c.Encrypt("target")
	require.NoError(t, err)

	// Truncate the base64 payload.
	truncated := sealed[:len(sealed)-6]

	cases := map[string]string{
		"no key prefix":   base64.StdEncoding.EncodeToString([]byte("raw")),
		"unknown key id":  "v9:" + strings.TrimPrefix(sealed, "v1:"),
		"invalid base64":  "v1:!!!not-base64!!!",
		"short payload":   "v1:" + base64.StdEncoding.EncodeToString([]byte("tiny")),
		"truncated":       truncated,
		"flipped payload": "v1:" + base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 64))),
	}

	for name, input := range cases {
		_, err := c.Decrypt(input)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrDecryptionFailed), name)
	}
}

func TestAESCipher_DecryptRejectsForeignKey(t *testing.T) {
	first := newTestCipher(t)
	second := newTestCipher(t)

	sealed, err := first.Encrypt("secret name")
	require.NoError(t, err)

	_, err = second.Decrypt(sealed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecryptionFailed))
}
