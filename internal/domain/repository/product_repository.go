package repository

import (
	"context"
	"errors"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// Sentinel errors shared by all product repository implementations.
var (
	// ErrProductNotFound is returned when no product matches the lookup.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a stock adjustment would drop below zero.
	ErrInsufficientStock = errors.New("not enough stock available")
)

// ProductRepository defines the standard operations for catalog persistence.
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindByName retrieves a single product by its name.
	FindByName(ctx context.Context, name string) (*entity.Product, error)

	// List retrieves all products.
	List(ctx context.Context) ([]*entity.Product, error)

	// ListAvailable retrieves products with stock greater than zero.
	ListAvailable(ctx context.Context) ([]*entity.Product, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product entity in the storage.
	Update(ctx context.Context, product *entity.Product) error

	// AdjustStock atomically applies delta to the product's stock and returns
	// the new stock count. Fails with ErrInsufficientStock when the result
	// would be negative, without ever writing a partial value.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error)
}
