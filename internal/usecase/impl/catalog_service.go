package impl

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.uber.org/fx"

	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/errors"
	"bazaar/internal/usecase"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		txManager:   params.TxManager,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddProduct creates a new catalog entry.
func (srv *catalogService) AddProduct(ctx context.Context, input usecase.AddProductInput) (*usecase.ProductOutput, error) {
	if input.Price < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("price must not be negative")
	}
	if input.Stock < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("stock must not be negative")
	}

	product := &entity.Product{
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Description: input.Description,
		Stock:       input.Stock,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		srv.log(ctx).Error("failed to add product",
			slog.String("name", input.Name), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to add product")
	}

	srv.log(ctx).Info("product added",
		slog.String("name", product.Name), slog.Any("productID", product.ID))

	return &usecase.ProductOutput{Product: product}, nil
}

// UpdateProduct applies a partial update inside one transaction so the
// read-modify-write cannot interleave with a concurrent update.
func (srv *catalogService) UpdateProduct(ctx context.Context, input usecase.UpdateProductInput) (*usecase.ProductOutput, error) {
	if input.Patch.Price != nil && *input.Patch.Price < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("price must not be negative")
	}

	var updated *entity.Product
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		productRepo := repos.Products()

		product, err := productRepo.FindByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to find product")
		}

		applyProductPatch(product, input.Patch)

		if err := productRepo.Update(ctx, product); err != nil {
			return errors.Wrap(err, "failed to update product")
		}

		// Stock changes go through the conditional adjustment so the
		// non-negative invariant holds under concurrency.
		if input.Patch.Stock != nil {
			delta := *input.Patch.Stock - product.Stock
			if delta != 0 {
				newStock, err := productRepo.AdjustStock(ctx, product.ID, delta)
				if err != nil {
					return errors.Wrap(err, "failed to adjust stock")
				}
				product.Stock = newStock
			}
		}

		updated = product

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("product updated", slog.Any("productID", input.ID))

	return &usecase.ProductOutput{Product: updated}, nil
}

// GetProduct retrieves a single product by ID.
func (srv *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*usecase.ProductOutput, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to get product")
	}

	return &usecase.ProductOutput{Product: product}, nil
}

// GetProductByName retrieves a single product by name.
func (srv *catalogService) GetProductByName(ctx context.Context, name string) (*usecase.ProductOutput, error) {
	product, err := srv.productRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to get product by name")
	}

	return &usecase.ProductOutput{Product: product}, nil
}

// ListProducts retrieves the full catalog.
func (srv *catalogService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// ListAvailable retrieves products with stock on hand.
func (srv *catalogService) ListAvailable(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.ListAvailable(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list available products")
	}

	return products, nil
}

func applyProductPatch(product *entity.Product, patch entity.ProductPatch) {
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
}
