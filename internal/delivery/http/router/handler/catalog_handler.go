package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"bazaar/internal/delivery/http/response"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"
)

// CatalogHandler holds dependencies for catalog management handlers.
type CatalogHandler struct {
	catalogUC  usecase.CatalogUsecase
	commerceUC usecase.CommerceUsecase
	logger     *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(catalogUC usecase.CatalogUsecase, commerceUC usecase.CommerceUsecase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogUC:  catalogUC,
		commerceUC: commerceUC,
		logger:     logger,
	}
}

type addProductRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Category    string  `json:"category" validate:"required,max=50"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// Add handles adding a product to the catalog.
func (h *CatalogHandler) Add(c echo.Context) error {
	var req addProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.catalogUC.AddProduct(c.Request().Context(), usecase.AddProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toProductView(output.Product), "Product added successfully")
}

type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=100"`
	Category    *string  `json:"category" validate:"omitempty,max=50"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
}

// Update handles a partial product update.
func (h *CatalogHandler) Update(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product update input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.catalogUC.UpdateProduct(c.Request().Context(), usecase.UpdateProductInput{
		ID: id,
		Patch: entity.ProductPatch{
			Name:        req.Name,
			Category:    req.Category,
			Price:       req.Price,
			Description: req.Description,
			Stock:       req.Stock,
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductView(output.Product), "Product updated successfully")
}

// Get handles retrieval of a single product by ID.
func (h *CatalogHandler) Get(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	output, err := h.catalogUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductView(output.Product), "")
}

// GetByName handles retrieval of a single product by name.
func (h *CatalogHandler) GetByName(c echo.Context) error {
	output, err := h.catalogUC.GetProductByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductView(output.Product), "")
}

// List handles listing the full catalog.
func (h *CatalogHandler) List(c echo.Context) error {
	products, err := h.catalogUC.ListProducts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductViews(products), "")
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// Restock handles increasing a product's stock.
func (h *CatalogHandler) Restock(c echo.Context) error {
	return h.adjustStock(c, h.commerceUC.Restock, "Product restocked")
}

// Consume handles decreasing a product's stock.
func (h *CatalogHandler) Consume(c echo.Context) error {
	return h.adjustStock(c, h.commerceUC.Consume, "Stock consumed")
}

func (h *CatalogHandler) adjustStock(
	c echo.Context,
	op func(ctx context.Context, input usecase.StockInput) (*usecase.StockOutput, error),
	message string,
) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid quantity input")
	}

	output, err := op(c.Request().Context(), usecase.StockInput{
		ProductID: id,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductView(output.Product), message)
}

func parseProductID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("product id must be a UUID")
	}

	return id, nil
}
