package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Stock is never negative after a committed
// operation; the store enforces this alongside the application checks.
type Product struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Price       float64 // Unit price. Never negative.
	Description string  // Optional free-form text.
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Available reports whether the product can currently be sold.
func (p *Product) Available() bool {
	return p.Stock > 0
}

// ProductPatch carries the optional fields of a partial product update.
// A nil field means "leave unchanged".
type ProductPatch struct {
	Name        *string
	Category    *string
	Price       *float64
	Description *string
	Stock       *int
}
