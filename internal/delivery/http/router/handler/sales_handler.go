package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"bazaar/internal/delivery/http/response"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"
)

// SalesHandler holds dependencies for the storefront handlers.
type SalesHandler struct {
	catalogUC  usecase.CatalogUsecase
	commerceUC usecase.CommerceUsecase
	logger     *slog.Logger
}

// NewSalesHandler is the constructor for SalesHandler, injected by Fx.
func NewSalesHandler(catalogUC usecase.CatalogUsecase, commerceUC usecase.CommerceUsecase, logger *slog.Logger) *SalesHandler {
	return &SalesHandler{
		catalogUC:  catalogUC,
		commerceUC: commerceUC,
		logger:     logger,
	}
}

// Display handles listing products available for sale.
func (h *SalesHandler) Display(c echo.Context) error {
	products, err := h.catalogUC.ListAvailable(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductViews(products), "")
}

type purchaseRequest struct {
	Username  string `json:"username" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type purchaseResponse struct {
	Username       string  `json:"username"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	TotalPrice     float64 `json:"total_price"`
	Balance        float64 `json:"balance"`
	RemainingStock int     `json:"remaining_stock"`
}

// Purchase handles the composite buy operation: stock and funds move
// together or not at all.
func (h *SalesHandler) Purchase(c echo.Context) error {
	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid purchase input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("product_id must be a UUID")
	}

	output, err := h.commerceUC.Purchase(c.Request().Context(), usecase.PurchaseInput{
		Username:  req.Username,
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, purchaseResponse{
		Username:       output.Username,
		ProductID:      output.Product.ID,
		ProductName:    output.Product.Name,
		Quantity:       output.Quantity,
		UnitPrice:      output.UnitPrice,
		TotalPrice:     output.TotalPrice,
		Balance:        output.Balance,
		RemainingStock: output.RemainingStock,
	}, "Purchase completed")
}
