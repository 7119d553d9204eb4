package impl

import (
	"context"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/fx"

	"bazaar/config"
	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"
	"bazaar/internal/usecase"
)

// authService implements the AuthUsecase interface.
type authService struct {
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	accessSecret string
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		accessSecret: params.Config.SecretKey.Access,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login verifies credentials and issues a token pair.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	account, err := srv.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(account.ID, []string{account.Role.String()})
	if err != nil {
		srv.log(ctx).Error("failed to generate tokens",
			slog.String("username", account.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	srv.log(ctx).Info("account logged in", slog.String("username", account.Username))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Account:      account,
	}, nil
}

// Authenticate verifies a username and password pair. A missing account and
// a wrong password fail identically, so probing cannot tell them apart.
func (srv *authService) Authenticate(ctx context.Context, username, password string) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find account for authentication")
	}

	if !srv.hasher.Check(password, account.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return account, nil
}

// AuthenticateToken verifies an access token and resolves its subject.
func (srv *authService) AuthenticateToken(ctx context.Context, tokenString string) (*entity.Account, error) {
	token, err := srv.tokenService.ValidateToken(tokenString, srv.accessSecret)
	if err != nil || !token.Valid {
		return nil, domainerrors.ErrUnauthorized.WithDetails("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domainerrors.ErrUnauthorized.WithDetails("malformed token claims")
	}
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return nil, domainerrors.ErrUnauthorized.WithDetails("not an access token")
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, domainerrors.ErrUnauthorized.WithDetails("token has no subject")
	}
	accountID, err := uuid.Parse(subject)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized.WithDetails("token subject is not an account id")
	}

	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrUnauthorized.WithDetails("token subject no longer exists")
		}

		return nil, errors.Wrap(err, "failed to resolve token subject")
	}

	return account, nil
}
