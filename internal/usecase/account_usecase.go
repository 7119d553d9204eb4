// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"bazaar/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterAccountInput defines the data required to register a new account.
type RegisterAccountInput struct {
	FullName      string
	Username      string
	Password      string
	Age           int
	Address       string
	Gender        string
	MaritalStatus string
	Role          string // Optional. Defaults to "standard".
}

// UpdateAccountInput defines a partial update to an account's details.
// Nil fields are left unchanged.
type UpdateAccountInput struct {
	Username string
	Patch    entity.AccountPatch
}

// --- Output DTOs ---

// AccountOutput returns an account's details with PII in plaintext.
type AccountOutput struct {
	Account *entity.Account
}

// AccountUsecase defines the interface for account management operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// Register creates a new account with a hashed secret and encrypted PII.
	Register(ctx context.Context, input RegisterAccountInput) (*AccountOutput, error)

	// Get retrieves a single account by username.
	Get(ctx context.Context, username string) (*AccountOutput, error)

	// List retrieves all registered accounts.
	List(ctx context.Context) ([]*entity.Account, error)

	// Update applies a partial update to an account's details.
	Update(ctx context.Context, input UpdateAccountInput) (*AccountOutput, error)

	// Delete removes an account and its reviews.
	Delete(ctx context.Context, username string) error
}
