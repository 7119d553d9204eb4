// Package crypto implements the reversible field-level protection applied to
// identity data before it reaches the store.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"strings"

	"bazaar/config"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"
)

// ErrDecryptionFailed is returned for malformed, truncated, or forged
// ciphertext. Corrupted plaintext is never returned.
var ErrDecryptionFailed = errors.New("decryption failed")

const keySize = 32 // AES-256

// aesCipher implements service.PIICipher with AES-GCM under a provisioned
// static key. Each ciphertext is prefixed with the key identifier so the key
// can be rotated later without re-encrypting existing rows.
type aesCipher struct {
	keyID string
	aead  cipher.AEAD
}

// NewAESCipher builds the cipher from the provisioned base64 key in config.
func NewAESCipher(cfg *config.Config) (service.PIICipher, error) {
	if cfg.PII == nil || cfg.PII.Key == "" {
		return nil, errors.New("pii encryption key must be provided")
	}

	key, err := base64.StdEncoding.DecodeString(cfg.PII.Key)
	if err != nil {
		return nil, errors.Wrap(err, "pii key is not valid base64")
	}
	if len(key) != keySize {
		return nil, errors.Errorf("pii key must be %d bytes, got %d", keySize, len(key))
	}

	keyID := cfg.PII.KeyID
	if keyID == "" {
		keyID = "v1"
	}

	return newAESCipher(keyID, key)
}

func newAESCipher(keyID string, key []byte) (service.PIICipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to construct AES cipher")
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "failed to construct GCM")
	}

	return &aesCipher{keyID: keyID, aead: aead}, nil
}

// Encrypt seals the plaintext with a fresh random nonce. The wire form is
// "<keyID>:" + base64(nonce || ciphertext).
func (c *aesCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, "failed to generate nonce")
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return c.keyID + ":" + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any structural defect in the input (missing key
// prefix, unknown key id, invalid base64, short payload, or failed GCM
// authentication) yields ErrDecryptionFailed.
func (c *aesCipher) Decrypt(ciphertext string) (string, error) {
	keyID, payload, ok := strings.Cut(ciphertext, ":")
	if !ok {
		return "", errors.Wrap(ErrDecryptionFailed, "missing key identifier")
	}
	if keyID != c.keyID {
		return "", errors.Wrapf(ErrDecryptionFailed, "unknown key id %q", keyID)
	}

	sealed, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", errors.Wrap(ErrDecryptionFailed, "payload is not valid base64")
	}
	if len(sealed) < c.aead.NonceSize() {
		return "", errors.Wrap(ErrDecryptionFailed, "payload shorter than nonce")
	}

	nonce, data := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]

	plaintext, err := c.aead.Open(nil, nonce, data, nil)
	if err != nil {
		return "", errors.Wrap(ErrDecryptionFailed, "authentication failed")
	}

	return string(plaintext), nil
}
