package repository

import (
	"context"
	"errors"
)

// ErrTxConflict is returned when a transaction aborts because of concurrent
// access (serialization failure or deadlock). Callers retry a bounded number
// of times before surfacing a conflict to the user.
var ErrTxConflict = errors.New("transaction conflicted with concurrent access")

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations obtained from the factory use the same transaction.
	Execute(ctx context.Context, fn func(repos RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to a specific
// transaction, so every operation inside an Execute callback shares one
// atomic scope.
type RepositoryFactory interface {
	// Accounts returns an AccountRepository bound to the current transaction.
	Accounts() AccountRepository

	// Products returns a ProductRepository bound to the current transaction.
	Products() ProductRepository

	// Reviews returns a ReviewRepository bound to the current transaction.
	Reviews() ReviewRepository
}
