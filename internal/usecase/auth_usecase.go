package usecase

import (
	"context"

	"bazaar/internal/domain/entity"
)

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	Account      *entity.Account
}

// AuthUsecase defines the interface for credential verification and token
// issuance. Basic credentials remain valid on every route; tokens are a
// convenience so clients do not have to resend the secret.
type AuthUsecase interface {
	// Login verifies a username and password and issues a token pair.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Authenticate verifies a username and password and returns the account.
	Authenticate(ctx context.Context, username, password string) (*entity.Account, error)

	// AuthenticateToken verifies an access token and returns the account.
	AuthenticateToken(ctx context.Context, tokenString string) (*entity.Account, error)
}
