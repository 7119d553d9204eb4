package repository

import (
	"context"
	"errors"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrReviewNotFound is returned when no review matches the lookup.
var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository defines the standard operations for review persistence.
type ReviewRepository interface {
	// FindByID retrieves a single review by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)

	// ListByProduct retrieves all reviews for a product.
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error)

	// ListByAccount retrieves all reviews authored by an account.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.Review, error)

	// Create persists a new review. The store rejects reviews whose product
	// or account reference does not resolve.
	Create(ctx context.Context, review *entity.Review) error

	// Update modifies an existing review entity in the storage.
	Update(ctx context.Context, review *entity.Review) error

	// Delete removes the review with the given ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
