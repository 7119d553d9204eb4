package usecase

import (
	"context"

	"github.com/google/uuid"

	"bazaar/internal/domain/entity"
)

// AddProductInput defines the data required to add a catalog entry.
type AddProductInput struct {
	Name        string
	Category    string
	Price       float64
	Description string
	Stock       int
}

// UpdateProductInput defines a partial update to a product's details.
// Nil fields are left unchanged. Stock changes go through the commerce
// operations instead, so they stay atomic.
type UpdateProductInput struct {
	ID    uuid.UUID
	Patch entity.ProductPatch
}

// ProductOutput returns a product's details.
type ProductOutput struct {
	Product *entity.Product
}

// CatalogUsecase defines the interface for catalog management operations.
type CatalogUsecase interface {
	// AddProduct creates a new catalog entry.
	AddProduct(ctx context.Context, input AddProductInput) (*ProductOutput, error)

	// UpdateProduct applies a partial update to a product's details.
	UpdateProduct(ctx context.Context, input UpdateProductInput) (*ProductOutput, error)

	// GetProduct retrieves a single product by ID.
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductOutput, error)

	// GetProductByName retrieves a single product by name.
	GetProductByName(ctx context.Context, name string) (*ProductOutput, error)

	// ListProducts retrieves the full catalog.
	ListProducts(ctx context.Context) ([]*entity.Product, error)

	// ListAvailable retrieves products with stock on hand.
	ListAvailable(ctx context.Context) ([]*entity.Product, error)
}
