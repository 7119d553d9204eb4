package impl

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"bazaar/config"
	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/errors"
	"bazaar/internal/usecase"
)

// commerceService implements the CommerceUsecase interface. Every mutation
// runs inside a transaction and relies on the repositories' conditional
// adjustments, so balances and stock stay non-negative under concurrency.
type commerceService struct {
	txManager  repository.TransactionManager
	maxRetries int
	logger     *slog.Logger
}

// CommerceServiceParams holds dependencies for commerceService, injected by Fx.
type CommerceServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Config    *config.Config
	Logger    *slog.Logger
}

// NewCommerceService is the constructor for commerceService.
func NewCommerceService(params CommerceServiceParams) usecase.CommerceUsecase {
	maxRetries := 1
	if params.Config != nil && params.Config.Tx != nil {
		maxRetries = params.Config.Tx.MaxRetries
	}

	return &commerceService{
		txManager:  params.TxManager,
		maxRetries: maxRetries,
		logger:     params.Logger,
	}
}

func (srv *commerceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Credit adds funds to an account's wallet.
func (srv *commerceService) Credit(ctx context.Context, input usecase.BalanceInput) (*usecase.BalanceOutput, error) {
	return srv.adjustBalance(ctx, input, +1, "credit")
}

// Debit removes funds from an account's wallet.
func (srv *commerceService) Debit(ctx context.Context, input usecase.BalanceInput) (*usecase.BalanceOutput, error) {
	return srv.adjustBalance(ctx, input, -1, "debit")
}

// adjustBalance validates the amount before any store access, then applies
// the signed delta atomically.
func (srv *commerceService) adjustBalance(ctx context.Context, input usecase.BalanceInput, sign float64, op string) (*usecase.BalanceOutput, error) {
	if input.Amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	var balance float64
	err := executeWithRetry(ctx, srv.txManager, srv.maxRetries, srv.log(ctx), func(repos repository.RepositoryFactory) error {
		account, err := repos.Accounts().FindByUsername(ctx, input.Username)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound
			}

			return errors.Wrap(err, "failed to find account")
		}

		balance, err = repos.Accounts().AdjustBalance(ctx, account.ID, sign*input.Amount)
		if err != nil {
			if errors.Is(err, repository.ErrInsufficientFunds) {
				return domainerrors.ErrInsufficientFunds
			}

			return errors.Wrap(err, "failed to adjust balance")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("balance adjusted",
		slog.String("operation", op),
		slog.String("username", input.Username),
		slog.Float64("amount", input.Amount),
		slog.Float64("balance", balance))

	return &usecase.BalanceOutput{Username: input.Username, Balance: balance}, nil
}

// Restock increases a product's stock.
func (srv *commerceService) Restock(ctx context.Context, input usecase.StockInput) (*usecase.StockOutput, error) {
	return srv.adjustStock(ctx, input, +1, "restock")
}

// Consume decreases a product's stock.
func (srv *commerceService) Consume(ctx context.Context, input usecase.StockInput) (*usecase.StockOutput, error) {
	return srv.adjustStock(ctx, input, -1, "consume")
}

func (srv *commerceService) adjustStock(ctx context.Context, input usecase.StockInput, sign int, op string) (*usecase.StockOutput, error) {
	if input.Quantity <= 0 {
		return nil, domainerrors.ErrInvalidQuantity
	}

	var product *entity.Product
	err := executeWithRetry(ctx, srv.txManager, srv.maxRetries, srv.log(ctx), func(repos repository.RepositoryFactory) error {
		newStock, err := repos.Products().AdjustStock(ctx, input.ProductID, sign*input.Quantity)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}
			if errors.Is(err, repository.ErrInsufficientStock) {
				return domainerrors.ErrInsufficientStock
			}

			return errors.Wrap(err, "failed to adjust stock")
		}

		product, err = repos.Products().FindByID(ctx, input.ProductID)
		if err != nil {
			return errors.Wrap(err, "failed to reload product")
		}
		product.Stock = newStock

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("stock adjusted",
		slog.String("operation", op),
		slog.Any("productID", input.ProductID),
		slog.Int("quantity", input.Quantity),
		slog.Int("stock", product.Stock))

	return &usecase.StockOutput{Product: product}, nil
}

// Purchase deducts stock and funds in one transaction. Stock is claimed
// first, then the wallet is charged; if either side cannot cover the order
// the whole transaction rolls back and nothing is written.
func (srv *commerceService) Purchase(ctx context.Context, input usecase.PurchaseInput) (*usecase.PurchaseOutput, error) {
	if input.Quantity <= 0 {
		return nil, domainerrors.ErrInvalidQuantity
	}

	var output *usecase.PurchaseOutput
	err := executeWithRetry(ctx, srv.txManager, srv.maxRetries, srv.log(ctx), func(repos repository.RepositoryFactory) error {
		product, err := repos.Products().FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to find product")
		}

		account, err := repos.Accounts().FindByUsername(ctx, input.Username)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound
			}

			return errors.Wrap(err, "failed to find account")
		}

		total := product.Price * float64(input.Quantity)

		remainingStock, err := repos.Products().AdjustStock(ctx, product.ID, -input.Quantity)
		if err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return domainerrors.ErrInsufficientStock
			}

			return errors.Wrap(err, "failed to claim stock")
		}

		balance, err := repos.Accounts().AdjustBalance(ctx, account.ID, -total)
		if err != nil {
			if errors.Is(err, repository.ErrInsufficientFunds) {
				return domainerrors.ErrInsufficientFunds
			}

			return errors.Wrap(err, "failed to charge wallet")
		}

		product.Stock = remainingStock
		output = &usecase.PurchaseOutput{
			Username:       account.Username,
			Product:        product,
			Quantity:       input.Quantity,
			UnitPrice:      product.Price,
			TotalPrice:     total,
			Balance:        balance,
			RemainingStock: remainingStock,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("purchase committed",
		slog.String("username", output.Username),
		slog.Any("productID", input.ProductID),
		slog.Int("quantity", output.Quantity),
		slog.Float64("total", output.TotalPrice),
		slog.Float64("balance", output.Balance))

	return output, nil
}
