// Package service defines interfaces for domain services whose concrete
// implementations live in the infrastructure layer.
package service

// PasswordHasher abstracts one-way hashing of account secrets.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext secret.
	Hash(password string) (string, error)

	// Check compares a plaintext secret with a stored hash in constant time.
	Check(password, hash string) bool
}
