package middleware

import (
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"
)

// AuthMiddleware provides the composable guard chain: Authenticate resolves
// the caller, and the Require* guards run after it to enforce authorization.
// Basic credentials and Bearer tokens are both accepted on every guarded
// route.
type AuthMiddleware struct {
	authUC   usecase.AuthUsecase
	reviewUC usecase.ReviewUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUC usecase.AuthUsecase, reviewUC usecase.ReviewUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUC: authUC, reviewUC: reviewUC}
}

// Authenticate resolves the caller from the Authorization header and stores
// the account on the context for the guards further down the chain.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrUnauthorized.WithDetails("Authorization header is missing")
		}

		var (
			account *entity.Account
			err     error
		)
		switch {
		case strings.HasPrefix(authHeader, "Basic "):
			username, password, ok := decodeBasicAuth(strings.TrimPrefix(authHeader, "Basic "))
			if !ok {
				return domainerrors.ErrUnauthorized.WithDetails("malformed Basic credentials")
			}
			account, err = m.authUC.Authenticate(c.Request().Context(), username, password)
		case strings.HasPrefix(authHeader, "Bearer "):
			account, err = m.authUC.AuthenticateToken(c.Request().Context(), strings.TrimPrefix(authHeader, "Bearer "))
		default:
			return domainerrors.ErrUnauthorized.WithDetails("unsupported Authorization scheme")
		}
		if err != nil {
			return errors.WithStack(err)
		}

		deliverycontext.SetCaller(c, account)

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the caller holds a
// specific role. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := deliverycontext.GetCaller(c)
			if caller == nil {
				return domainerrors.ErrUnauthorized
			}
			if !caller.HasRole(requiredRole) {
				return domainerrors.ErrForbidden.WithDetails("requires '" + requiredRole.String() + "' role")
			}

			return next(c)
		}
	}
}

// RequireReviewOwner allows the review's author or an admin through. It must
// be used AFTER the Authenticate middleware, on routes carrying a review id
// path parameter.
func (m *AuthMiddleware) RequireReviewOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller := deliverycontext.GetCaller(c)
		if caller == nil {
			return domainerrors.ErrUnauthorized
		}

		reviewID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return domainerrors.ErrValidationFailed.WithDetails("review id must be a UUID")
		}

		out, err := m.reviewUC.Get(c.Request().Context(), reviewID)
		if err != nil {
			return errors.WithStack(err)
		}

		if !out.Review.OwnedBy(caller.ID) && !caller.HasRole(entity.RoleAdmin) {
			return domainerrors.ErrForbidden.WithDetails("only the review author or an admin may do this")
		}

		return next(c)
	}
}

func decodeBasicAuth(encoded string) (username, password string, ok bool) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}
	username, password, ok = strings.Cut(string(decoded), ":")

	return username, password, ok
}
