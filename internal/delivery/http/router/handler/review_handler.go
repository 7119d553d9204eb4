package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/delivery/http/response"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"
)

// ReviewHandler holds dependencies for review handlers.
type ReviewHandler struct {
	reviewUC  usecase.ReviewUsecase
	accountUC usecase.AccountUsecase
	logger    *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler, injected by Fx.
func NewReviewHandler(reviewUC usecase.ReviewUsecase, accountUC usecase.AccountUsecase, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewUC:  reviewUC,
		accountUC: accountUC,
		logger:    logger,
	}
}

type submitReviewRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment" validate:"max=500"`
}

// Submit handles review submission. The author is always the authenticated
// caller, never a field of the request.
func (h *ReviewHandler) Submit(c echo.Context) error {
	caller := deliverycontext.GetCaller(c)
	if caller == nil {
		return domainerrors.ErrUnauthorized
	}

	var req submitReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("product_id must be a UUID")
	}

	output, err := h.reviewUC.Submit(c.Request().Context(), usecase.SubmitReviewInput{
		ProductID: productID,
		AccountID: caller.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toReviewView(output.Review), "Review submitted successfully")
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment" validate:"omitempty,max=500"`
}

// Update handles a partial review update by its owner or an admin.
func (h *ReviewHandler) Update(c echo.Context) error {
	id, err := parseReviewID(c)
	if err != nil {
		return err
	}

	var req updateReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review update input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.reviewUC.Update(c.Request().Context(), usecase.UpdateReviewInput{
		ReviewID: id,
		Patch: entity.ReviewPatch{
			Rating:  req.Rating,
			Comment: req.Comment,
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toReviewView(output.Review), "Review updated successfully")
}

// Delete handles review deletion by its owner or an admin.
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := parseReviewID(c)
	if err != nil {
		return err
	}

	if err := h.reviewUC.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Review deleted successfully")
}

// Moderate handles marking a review as moderated.
func (h *ReviewHandler) Moderate(c echo.Context) error {
	id, err := parseReviewID(c)
	if err != nil {
		return err
	}

	output, err := h.reviewUC.Moderate(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toReviewView(output.Review), "Review moderated")
}

// ListByProduct handles listing all reviews of a product.
func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("product id must be a UUID")
	}

	reviews, err := h.reviewUC.ListByProduct(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toReviewViews(reviews), "")
}

// ListByAccount handles listing all reviews authored by an account.
func (h *ReviewHandler) ListByAccount(c echo.Context) error {
	account, err := h.accountUC.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	reviews, err := h.reviewUC.ListByAccount(c.Request().Context(), account.Account.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toReviewViews(reviews), "")
}

type reviewDetailsResponse struct {
	ReviewView
	Username    string `json:"username"`
	ProductName string `json:"product_name"`
}

// Details handles retrieval of a review joined with author and product names.
func (h *ReviewHandler) Details(c echo.Context) error {
	id, err := parseReviewID(c)
	if err != nil {
		return err
	}

	output, err := h.reviewUC.GetDetails(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reviewDetailsResponse{
		ReviewView:  toReviewView(output.Review),
		Username:    output.Username,
		ProductName: output.ProductName,
	}, "")
}

func parseReviewID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("review id must be a UUID")
	}

	return id, nil
}
