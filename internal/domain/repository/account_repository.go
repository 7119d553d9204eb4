// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// Sentinel errors shared by all account repository implementations.
var (
	// ErrAccountNotFound is returned when no account matches the lookup.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateUsername is returned when a create would violate username uniqueness.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInsufficientFunds is returned when a balance adjustment would drop below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByUsername retrieves a single account by its unique username.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// List retrieves all accounts.
	List(ctx context.Context) ([]*entity.Account, error)

	// Create persists a new account. Returns ErrDuplicateUsername when the
	// username is already present.
	Create(ctx context.Context, account *entity.Account) error

	// Update modifies an existing account entity in the storage.
	Update(ctx context.Context, account *entity.Account) error

	// Delete removes the account with the given username.
	Delete(ctx context.Context, username string) error

	// AdjustBalance atomically applies delta to the account's balance and
	// returns the new balance. The adjustment is a single conditional store
	// operation: it fails with ErrInsufficientFunds when the result would be
	// negative, without ever writing a partial value.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta float64) (float64, error)
}
