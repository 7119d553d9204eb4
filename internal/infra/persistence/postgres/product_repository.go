package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/errors"
	"bazaar/internal/infra/persistence/model"
)

// productRepository implements repository.ProductRepository using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// FindByID retrieves a single product by its unique ID.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// FindByName retrieves a single product by its name.
func (repo *productRepository) FindByName(ctx context.Context, name string) (*entity.Product, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).
		Where("name = ?", name).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by name")
	}

	return toProductDomain(&productM), nil
}

// List retrieves all products ordered by name.
func (repo *productRepository) List(ctx context.Context) ([]*entity.Product, error) {
	var models []model.ProductModel
	if err := repo.db.WithContext(ctx).
		Order("name").
		Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return toProductDomainSlice(models), nil
}

// ListAvailable retrieves products with stock greater than zero.
func (repo *productRepository) ListAvailable(ctx context.Context) ([]*entity.Product, error) {
	var models []model.ProductModel
	if err := repo.db.WithContext(ctx).
		Where("stock > 0").
		Order("name").
		Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list available products")
	}

	return toProductDomainSlice(models), nil
}

// Create persists a new product entity to the database.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("product violates a storage constraint")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Update modifies an existing product entity in the database.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Select("name", "category", "price", "description").
		Updates(productM)
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("product violates a storage constraint")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// AdjustStock applies delta to the product's stock in a single conditional
// UPDATE, so concurrent adjustments can never interleave into a negative
// stock count.
func (repo *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var productM model.ProductModel
	result := repo.db.WithContext(ctx).
		Model(&productM).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "stock"}}}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return 0, repository.ErrInsufficientStock
		}

		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to adjust stock")
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing product from insufficient stock.
		var count int64
		if err := repo.db.WithContext(ctx).
			Model(&model.ProductModel{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return 0, domainerrors.NewDatabaseExecuteError(err, "failed to check product existence")
		}
		if count == 0 {
			return 0, repository.ErrProductNotFound
		}

		return 0, repository.ErrInsufficientStock
	}

	return productM.Stock, nil
}

// toProductDomain maps the persistence model back to a pure domain entity.
func toProductDomain(productM *model.ProductModel) *entity.Product {
	description := ""
	if productM.Description != nil {
		description = *productM.Description
	}

	return &entity.Product{
		ID:          productM.ID,
		Name:        productM.Name,
		Category:    productM.Category,
		Price:       productM.Price,
		Description: description,
		Stock:       productM.Stock,
		CreatedAt:   productM.CreatedAt,
		UpdatedAt:   productM.UpdatedAt,
	}
}

func toProductDomainSlice(models []model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, 0, len(models))
	for i := range models {
		products = append(products, toProductDomain(&models[i]))
	}

	return products
}

// fromProductDomain maps the domain entity to a persistence model.
func fromProductDomain(product *entity.Product) *model.ProductModel {
	var description *string
	if product.Description != "" {
		description = &product.Description
	}

	return &model.ProductModel{
		ID:          product.ID,
		Name:        product.Name,
		Category:    product.Category,
		Price:       product.Price,
		Description: description,
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
