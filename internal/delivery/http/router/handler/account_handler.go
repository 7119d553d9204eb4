package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"bazaar/internal/delivery/http/response"
	"bazaar/internal/domain/entity"
	"bazaar/internal/usecase"
)

// AccountHandler holds dependencies for account management handlers.
type AccountHandler struct {
	accountUC  usecase.AccountUsecase
	commerceUC usecase.CommerceUsecase
	logger     *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(accountUC usecase.AccountUsecase, commerceUC usecase.CommerceUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUC:  accountUC,
		commerceUC: commerceUC,
		logger:     logger,
	}
}

type registerRequest struct {
	FullName      string `json:"fullname" validate:"required"`
	Username      string `json:"username" validate:"required,min=1,max=50"`
	Password      string `json:"password" validate:"required,min=1"`
	Age           int    `json:"age" validate:"gte=0"`
	Address       string `json:"address"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"marital_status"`
	Role          string `json:"role" validate:"omitempty,oneof=standard admin"`
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.accountUC.Register(c.Request().Context(), usecase.RegisterAccountInput{
		FullName:      req.FullName,
		Username:      req.Username,
		Password:      req.Password,
		Age:           req.Age,
		Address:       req.Address,
		Gender:        req.Gender,
		MaritalStatus: req.MaritalStatus,
		Role:          req.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAccountView(output.Account), "Account registered successfully")
}

// Get handles retrieval of a single account.
func (h *AccountHandler) Get(c echo.Context) error {
	output, err := h.accountUC.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountView(output.Account), "")
}

// List handles listing all accounts.
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.accountUC.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountViews(accounts), "")
}

type updateAccountRequest struct {
	FullName      *string `json:"fullname"`
	Age           *int    `json:"age" validate:"omitempty,gte=0"`
	Address       *string `json:"address"`
	Gender        *string `json:"gender"`
	MaritalStatus *string `json:"marital_status"`
}

// Update handles a partial account update.
func (h *AccountHandler) Update(c echo.Context) error {
	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid account update input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.accountUC.Update(c.Request().Context(), usecase.UpdateAccountInput{
		Username: c.Param("username"),
		Patch: entity.AccountPatch{
			FullName:      req.FullName,
			Age:           req.Age,
			Address:       req.Address,
			Gender:        req.Gender,
			MaritalStatus: req.MaritalStatus,
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountView(output.Account), "Account updated successfully")
}

// Delete handles account deletion.
func (h *AccountHandler) Delete(c echo.Context) error {
	if err := h.accountUC.Delete(c.Request().Context(), c.Param("username")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Account deleted successfully")
}

// Amount bounds are checked by the commerce service so zero and negative
// amounts map to the INVALID_AMOUNT error code.
type amountRequest struct {
	Amount float64 `json:"amount"`
}

type balanceResponse struct {
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

// Credit handles adding funds to the account's wallet.
func (h *AccountHandler) Credit(c echo.Context) error {
	return h.adjustBalance(c, h.commerceUC.Credit, "Wallet credited")
}

// Debit handles removing funds from the account's wallet.
func (h *AccountHandler) Debit(c echo.Context) error {
	return h.adjustBalance(c, h.commerceUC.Debit, "Wallet debited")
}

func (h *AccountHandler) adjustBalance(
	c echo.Context,
	op func(ctx context.Context, input usecase.BalanceInput) (*usecase.BalanceOutput, error),
	message string,
) error {
	var req amountRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid amount input")
	}

	output, err := op(c.Request().Context(), usecase.BalanceInput{
		Username: c.Param("username"),
		Amount:   req.Amount,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, balanceResponse{
		Username: output.Username,
		Balance:  output.Balance,
	}, message)
}
