package service

// PIICipher reversibly protects personally identifying fields before they are
// persisted. Decrypt(Encrypt(x)) == x for every x; Decrypt fails on malformed
// or truncated ciphertext rather than returning corrupted plaintext.
type PIICipher interface {
	// Encrypt transforms plaintext into a self-describing ciphertext string
	// that carries the identifier of the key used.
	Encrypt(plaintext string) (string, error)

	// Decrypt reverses Encrypt.
	Decrypt(ciphertext string) (string, error)
}
