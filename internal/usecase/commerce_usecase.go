package usecase

import (
	"context"

	"github.com/google/uuid"

	"bazaar/internal/domain/entity"
)

// BalanceInput defines a wallet adjustment for an account.
type BalanceInput struct {
	Username string
	Amount   float64 // Must be strictly positive.
}

// StockInput defines a stock adjustment for a product.
type StockInput struct {
	ProductID uuid.UUID
	Quantity  int // Must be strictly positive.
}

// PurchaseInput defines an atomic purchase of a quantity of one product.
type PurchaseInput struct {
	Username  string
	ProductID uuid.UUID
	Quantity  int // Must be strictly positive.
}

// BalanceOutput returns the committed balance after a wallet adjustment.
type BalanceOutput struct {
	Username string
	Balance  float64
}

// StockOutput returns the product after a stock adjustment.
type StockOutput struct {
	Product *entity.Product
}

// PurchaseOutput returns the outcome of a committed purchase.
type PurchaseOutput struct {
	Username       string
	Product        *entity.Product
	Quantity       int
	UnitPrice      float64
	TotalPrice     float64
	Balance        float64 // Buyer's balance after the purchase.
	RemainingStock int
}

// CommerceUsecase defines the transactional money and stock operations.
// Every mutation either commits completely or leaves the store untouched;
// balances and stock never go negative.
type CommerceUsecase interface {
	// Credit adds funds to an account's wallet.
	Credit(ctx context.Context, input BalanceInput) (*BalanceOutput, error)

	// Debit removes funds from an account's wallet. Fails without writing
	// when the balance is insufficient.
	Debit(ctx context.Context, input BalanceInput) (*BalanceOutput, error)

	// Restock increases a product's stock.
	Restock(ctx context.Context, input StockInput) (*StockOutput, error)

	// Consume decreases a product's stock. Fails without writing when the
	// stock is insufficient.
	Consume(ctx context.Context, input StockInput) (*StockOutput, error)

	// Purchase atomically deducts stock and funds for one order. Stock is
	// checked before funds; on any failure neither side is modified.
	Purchase(ctx context.Context, input PurchaseInput) (*PurchaseOutput, error)
}
