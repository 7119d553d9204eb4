package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService abstracts issuing and validating session tokens, so callers
// can present a Bearer token instead of Basic credentials on every request.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for an account.
	GenerateTokens(accountID uuid.UUID, roles []string) (accessToken, refreshToken string, err error)

	// ValidateToken checks a token string against the given secret and
	// returns the parsed token.
	ValidateToken(tokenString, secret string) (*jwt.Token, error)

	// RefreshTokenDuration returns the configured refresh token lifetime.
	RefreshTokenDuration() time.Duration
}
