package usecase

import (
	"context"

	"github.com/google/uuid"

	"bazaar/internal/domain/entity"
)

// SubmitReviewInput defines the data required to submit a review.
type SubmitReviewInput struct {
	ProductID uuid.UUID
	AccountID uuid.UUID // The authenticated author.
	Rating    int
	Comment   string
}

// UpdateReviewInput defines a partial update to a review's rating or comment.
type UpdateReviewInput struct {
	ReviewID uuid.UUID
	Patch    entity.ReviewPatch
}

// ReviewOutput returns a review's details.
type ReviewOutput struct {
	Review *entity.Review
}

// ReviewDetailsOutput returns a review joined with the author's username and
// the product's name, for display.
type ReviewDetailsOutput struct {
	Review      *entity.Review
	Username    string
	ProductName string
}

// ReviewUsecase defines the interface for review operations. Ownership and
// role checks are enforced by the delivery-layer guards; the operations here
// assume an already-authorized caller.
type ReviewUsecase interface {
	// Submit creates a review with a sanitized comment.
	Submit(ctx context.Context, input SubmitReviewInput) (*ReviewOutput, error)

	// Get retrieves a single review by ID.
	Get(ctx context.Context, id uuid.UUID) (*ReviewOutput, error)

	// GetDetails retrieves a review joined with author and product names.
	GetDetails(ctx context.Context, id uuid.UUID) (*ReviewDetailsOutput, error)

	// ListByProduct retrieves all reviews for a product.
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error)

	// ListByAccount retrieves all reviews authored by an account.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.Review, error)

	// Update applies a partial update to a review's rating or comment.
	Update(ctx context.Context, input UpdateReviewInput) (*ReviewOutput, error)

	// Delete removes a review.
	Delete(ctx context.Context, id uuid.UUID) error

	// Moderate marks a review as moderated.
	Moderate(ctx context.Context, id uuid.UUID) (*ReviewOutput, error)
}
