package entity

import (
	"time"

	"github.com/google/uuid"
)

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's rating of a product. AccountID is set at creation
// and never reassigned; Moderated is set true by admins and never reset by a
// non-privileged actor.
type Review struct {
	ID        uuid.UUID
	ProductID uuid.UUID // References an existing Product.
	AccountID uuid.UUID // References the authoring Account. Immutable.
	Rating    int       // Integer in [MinRating, MaxRating].
	Comment   string    // Sanitized plain text, HTML stripped.
	Moderated bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether the review was authored by the given account.
func (r *Review) OwnedBy(accountID uuid.UUID) bool {
	return r.AccountID == accountID
}

// ValidRating reports whether a rating value is within bounds.
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// ReviewPatch carries the optional fields of a partial review update.
// Only the owning account may apply it, and only to rating and comment.
type ReviewPatch struct {
	Rating  *int
	Comment *string
}
