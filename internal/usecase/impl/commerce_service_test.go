package impl

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaar/config"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/errors"
	"bazaar/internal/usecase"
)

func newCommerceService(store *memStore) usecase.CommerceUsecase {
	return NewCommerceService(CommerceServiceParams{
		TxManager: &memTxManager{store: store},
		Config:    &config.Config{Tx: &config.TxConfig{MaxRetries: 3}},
		Logger:    slog.New(slog.DiscardHandler),
	})
}

func TestCommerceService_CreditAndDebit(t *testing.T) {
	store := newMemStore()
	service := newCommerceService(store)
	ctx := context.Background()

	account := store.seedAccount(&entity.Account{Username: "ada", Balance: 0})

	out, err := service.Credit(ctx, usecase.BalanceInput{Username: "ada", Amount: 100})
	require.NoError(t, err)
	assert.InDelta(t, 100, out.Balance, 1e-9)

	out, err = service.Debit(ctx, usecase.BalanceInput{Username: "ada", Amount: 40})
	require.NoError(t, err)
	assert.InDelta(t, 60, out.Balance, 1e-9)

	assert.InDelta(t, 60, store.accountBalance(account.ID), 1e-9)
}

func TestCommerceService_AmountMustBePositive(t *testing.T) {
	store := newMemStore()
	service := newCommerceService(store)
	ctx := context.Background()

	account := store.seedAccount(&entity.Account{Username: "ada", Balance: 50})

	for _, amount := range []float64{0, -5} {
		_, err := service.Credit(ctx, usecase.BalanceInput{Username: "ada", Amount: amount})
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidAmount))

		_, err = service.Debit(ctx, usecase.BalanceInput{Username: "ada", Amount: amount})
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidAmount))
	}

	// Validation rejects before any store access.
	assert.InDelta(t, 50, store.accountBalance(account.ID), 1e-9)
}

func TestCommerceService_Debit_InsufficientFunds(t *testing.T) {
	store := newMemStore()
	service := newCommerceService(store)

	account := store.seedAccount(&entity.Account{Username: "ada", Balance: 30})

	_, err := service.Debit(context.Background(), usecase.BalanceInput{Username: "ada", Amount: 31})
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientFunds))
	assert.InDelta(t, 30, store.accountBalance(account.ID), 1e-9)
}

func TestCommerceService_Balance_UnknownAccount(t *testing.T) {
	store := newMemStore()
	service := newCommerceService(store)

	_, err := service.Credit(context.Background(), usecase.BalanceInput{Username: "ghost", Amount: 10})
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestCommerceService_RestockAndConsume(t *testing.T) {
	store := newMemStore()
	service := newCommerceService(store)
	ctx := context.Background()

	product := store.seedProduct(&entity.Product{Name: "widget", Price: 5, Stock: 2})

	out, err := service.Restock(ctx, usecase.StockInput{ProductID: product.ID, Quantity: 8})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Product.Stock)

	out, err = service.Consume(ctx, usecase.StockInput{ProductID: product.ID, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, out.Product.Stock)
}

func TestCommerceService_QuantityMustBePositive(t *testing.T) {
	store := newMemStore()
	service := newCommerceService(store)
	ctx := context.Background()

	product := store.seedProduct(&entity.Product{Name: "widget", Stock: 3})

	for _, qty := range []int{0, -2} {
		_, err := service.Restock(ctx, usecase.StockInput{ProductID: product.ID, Quantity: qty})
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidQuantity))

		_, err = service.Consume(ctx, usecase.StockInput{ProductID: product.ID, Quantity: qty})
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidQuantity))
	}

	assert.Equal(t, 3, store.productStock(product.ID))
}

func TestCommerceService_Consume_InsufficientStock(t *testing.T) {
	store := newMemStore()
	service := newCommerceService(store)

	product := store.seedProduct(&entity.Product{Name: "widget", Stock: 3})

	_, err := service.Consume(context.Background(), usecase.StockInput{ProductID: product.ID, Quantity: 4})
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))
	assert.Equal(t, 3, store.productStock(product.ID))
}

func TestCommerceService_Purchase(t *testing.T) {
	store := newMemStore()
	service := newCommerceService(store)

	account := store.seedAccount(&entity.Account{Username: "ada", Balance: 100})
	product := store.seedProduct(&entity.Product{Name: "widget", Price: 12.5, Stock: 10})

	out, err := service.Purchase(context.Background(), usecase.PurchaseInput{
		Username:  "ada",
		ProductID: product.ID,
		Quantity:  3,
	})
	require.NoError(t, err)

	assert.InDelta(t, 37.5, out.TotalPrice, 1e-9)
	assert.InDelta(t, 62.5, out.Balance, 1e-9)
	assert.Equal(t, 7, out.RemainingStock)

	assert.InDelta(t, 62.5, store.accountBalance(account.ID), 1e-9)
	assert.Equal(t, 7, store.productStock(product.ID))
}

func TestCommerceService_Purchase_InsufficientFunds_LeavesStockUntouched(t *testing.T) {
	store := newMemStore()
	service := newCommerceService(store)

	account := store.seedAccount(&entity.Account{Username: "ada", Balance: 10})
	product := store.seedProduct(&entity.Product{Name: "widget", Price: 12.5, Stock: 10})

	_, err := service.Purchase(context.Background(), usecase.PurchaseInput{
		Username:  "ada",
		ProductID: product.ID,
		Quantity:  1,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientFunds))

	// The stock claim rolled back with the rest of the transaction.
	assert.Equal(t, 10, store.productStock(product.ID))
	assert.InDelta(t, 10, store.accountBalance(account.ID), 1e-9)
}

func TestCommerceService_Purchase_InsufficientStock_LeavesBalanceUntouched(t *testing.T) {
	store := newMemStore()
	service := newCommerceService(store)

	account := store.seedAccount(&entity.Account{Username: "ada", Balance: 1000})
	product := store.seedProduct(&entity.Product{Name: "widget", Price: 1, Stock: 2})

	_, err := service.Purchase(context.Background(), usecase.PurchaseInput{
		Username:  "ada",
		ProductID: product.ID,
		Quantity:  3,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))

	assert.InDelta(t, 1000, store.accountBalance(account.ID), 1e-9)
	assert.Equal(t, 2, store.productStock(product.ID))
}

func TestCommerceService_Purchase_UnknownProduct(t *testing.T) {
	store := newMemStore()
	service := newCommerceService(store)

	store.seedAccount(&entity.Account{Username: "ada", Balance: 100})

	_, err := service.Purchase(context.Background(), usecase.PurchaseInput{
		Username:  "ada",
		ProductID: uuid.New(),
		Quantity:  1,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

// Concurrent one-unit purchases against a small stock: exactly stock-many
// orders commit, the rest fail with an insufficient stock conflict, and the
// final stock is zero.
func TestCommerceService_Purchase_ConcurrentStockContention(t *testing.T) {
	const (
		initialStock = 5
		buyers       = 20
	)

	store := newMemStore()
	service := newCommerceService(store)
	ctx := context.Background()

	product := store.seedProduct(&entity.Product{Name: "widget", Price: 1, Stock: initialStock})

	usernames := make([]string, buyers)
	for i := range buyers {
		usernames[i] = "buyer-" + uuid.NewString()
		store.seedAccount(&entity.Account{Username: usernames[i], Balance: 100})
	}

	var wg sync.WaitGroup
	results := make([]error, buyers)
	for i := range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = service.Purchase(ctx, usecase.PurchaseInput{
				Username:  usernames[i],
				ProductID: product.ID,
				Quantity:  1,
			})
		}()
	}
	wg.Wait()

	committed := 0
	for _, err := range results {
		if err == nil {
			committed++
		} else {
			assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))
		}
	}

	assert.Equal(t, initialStock, committed)
	assert.Equal(t, 0, store.productStock(product.ID))
}

// Concurrent purchases bounded by the buyer's wallet instead of stock.
func TestCommerceService_Purchase_ConcurrentFundsContention(t *testing.T) {
	const orders = 10

	store := newMemStore()
	service := newCommerceService(store)
	ctx := context.Background()

	// Funds cover exactly 4 of the 10 orders.
	account := store.seedAccount(&entity.Account{Username: "ada", Balance: 40})
	product := store.seedProduct(&entity.Product{Name: "widget", Price: 10, Stock: 100})

	var wg sync.WaitGroup
	results := make([]error, orders)
	for i := range orders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = service.Purchase(ctx, usecase.PurchaseInput{
				Username:  "ada",
				ProductID: product.ID,
				Quantity:  1,
			})
		}()
	}
	wg.Wait()

	committed := 0
	for _, err := range results {
		if err == nil {
			committed++
		} else {
			assert.True(t, errors.Is(err, domainerrors.ErrInsufficientFunds))
		}
	}

	assert.Equal(t, 4, committed)
	assert.InDelta(t, 0, store.accountBalance(account.ID), 1e-9)
	assert.Equal(t, 96, store.productStock(product.ID))
}
