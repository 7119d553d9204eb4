package impl

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"
	"bazaar/internal/usecase"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account. The secret is hashed before anything
// touches the store, and the repository encrypts the PII fields on write.
func (srv *accountService) Register(ctx context.Context, input usecase.RegisterAccountInput) (*usecase.AccountOutput, error) {
	role := entity.RoleStandard
	if input.Role != "" {
		role = entity.Role(input.Role)
		if !role.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("unknown role: " + input.Role)
		}
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	account := &entity.Account{
		FullName:      input.FullName,
		Username:      input.Username,
		PasswordHash:  hash,
		Age:           input.Age,
		Address:       input.Address,
		Gender:        input.Gender,
		MaritalStatus: input.MaritalStatus,
		Role:          role,
	}

	if err := srv.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, domainerrors.ErrUsernameTaken
		}

		srv.log(ctx).Error("failed to register account",
			slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to register account")
	}

	srv.log(ctx).Info("account registered",
		slog.String("username", account.Username), slog.Any("role", account.Role))

	return &usecase.AccountOutput{Account: account}, nil
}

// Get retrieves a single account by username.
func (srv *accountService) Get(ctx context.Context, username string) (*usecase.AccountOutput, error) {
	account, err := srv.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to get account")
	}

	return &usecase.AccountOutput{Account: account}, nil
}

// List retrieves all registered accounts.
func (srv *accountService) List(ctx context.Context) ([]*entity.Account, error) {
	accounts, err := srv.accountRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	return accounts, nil
}

// Update applies a partial update inside one transaction so the
// read-modify-write cannot interleave with a concurrent update.
func (srv *accountService) Update(ctx context.Context, input usecase.UpdateAccountInput) (*usecase.AccountOutput, error) {
	var updated *entity.Account
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		accountRepo := repos.Accounts()

		account, err := accountRepo.FindByUsername(ctx, input.Username)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound
			}

			return errors.Wrap(err, "failed to find account")
		}

		applyAccountPatch(account, input.Patch)

		if err := accountRepo.Update(ctx, account); err != nil {
			return errors.Wrap(err, "failed to update account")
		}

		updated = account

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("account updated", slog.String("username", input.Username))

	return &usecase.AccountOutput{Account: updated}, nil
}

// Delete removes an account. The store cascades the delete to the account's
// reviews.
func (srv *accountService) Delete(ctx context.Context, username string) error {
	if err := srv.accountRepo.Delete(ctx, username); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrAccountNotFound
		}

		return errors.Wrap(err, "failed to delete account")
	}

	srv.log(ctx).Info("account deleted", slog.String("username", username))

	return nil
}

func applyAccountPatch(account *entity.Account, patch entity.AccountPatch) {
	if patch.FullName != nil {
		account.FullName = *patch.FullName
	}
	if patch.Age != nil {
		account.Age = *patch.Age
	}
	if patch.Address != nil {
		account.Address = *patch.Address
	}
	if patch.Gender != nil {
		account.Gender = *patch.Gender
	}
	if patch.MaritalStatus != nil {
		account.MaritalStatus = *patch.MaritalStatus
	}
}
