// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core identity entity. FullName and Address are personally
// identifying and are stored encrypted; the entity always carries them in
// plaintext, with the persistence layer applying the cipher on its way in
// and out.
type Account struct {
	ID            uuid.UUID // The globally unique identifier for the account.
	FullName      string    // Display name of the holder. PII, encrypted at rest.
	Username      string    // Unique, case-sensitive login identifier.
	PasswordHash  string    // One-way bcrypt hash of the account secret.
	Age           int
	Address       string // Postal address. PII, encrypted at rest.
	Gender        string
	MaritalStatus string
	Balance       float64 // Wallet balance. Never negative after a committed operation.
	Role          Role
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasRole reports whether the account holds the given role.
func (a *Account) HasRole(role Role) bool {
	return a.Role == role
}

// AccountPatch carries the optional fields of a partial account update.
// A nil field means "leave unchanged".
type AccountPatch struct {
	FullName      *string
	Age           *int
	Address       *string
	Gender        *string
	MaritalStatus *string
}
