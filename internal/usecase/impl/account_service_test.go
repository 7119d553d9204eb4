package impl

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/errors"
	"bazaar/internal/usecase"
)

func newAccountService(store *memStore) usecase.AccountUsecase {
	return NewAccountService(AccountServiceParams{
		TxManager:   &memTxManager{store: store},
		AccountRepo: &memAccountRepo{store: store, locking: true},
		Hasher:      fakeHasher{},
		Logger:      slog.New(slog.DiscardHandler),
	})
}

func TestAccountService_Register(t *testing.T) {
	store := newMemStore()
	service := newAccountService(store)
	ctx := context.Background()

	out, err := service.Register(ctx, usecase.RegisterAccountInput{
		FullName:      "Ada Lovelace",
		Username:      "ada",
		Password:      "s3cret",
		Age:           36,
		Address:       "12 St James's Square, London",
		Gender:        "female",
		MaritalStatus: "married",
	})
	require.NoError(t, err)
	require.NotNil(t, out.Account)

	assert.Equal(t, entity.RoleStandard, out.Account.Role)
	assert.Equal(t, "hashed:s3cret", out.Account.PasswordHash)
	assert.Equal(t, "Ada Lovelace", out.Account.FullName)
	assert.Zero(t, out.Account.Balance)
	assert.NotZero(t, out.Account.ID)
}

func TestAccountService_Register_AdminRole(t *testing.T) {
	store := newMemStore()
	service := newAccountService(store)

	out, err := service.Register(context.Background(), usecase.RegisterAccountInput{
		FullName: "Root",
		Username: "root",
		Password: "pw",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Account.Role)
}

func TestAccountService_Register_UnknownRole(t *testing.T) {
	store := newMemStore()
	service := newAccountService(store)

	_, err := service.Register(context.Background(), usecase.RegisterAccountInput{
		FullName: "X",
		Username: "x",
		Password: "pw",
		Role:     "superuser",
	})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
}

func TestAccountService_Register_DuplicateUsername(t *testing.T) {
	store := newMemStore()
	service := newAccountService(store)
	ctx := context.Background()

	input := usecase.RegisterAccountInput{FullName: "A", Username: "ada", Password: "pw"}
	_, err := service.Register(ctx, input)
	require.NoError(t, err)

	_, err = service.Register(ctx, input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUsernameTaken))
}

func TestAccountService_Get_NotFound(t *testing.T) {
	store := newMemStore()
	service := newAccountService(store)

	_, err := service.Get(context.Background(), "ghost")
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_Update_AppliesPatch(t *testing.T) {
	store := newMemStore()
	service := newAccountService(store)
	ctx := context.Background()

	store.seedAccount(&entity.Account{
		Username: "ada",
		FullName: "Ada Lovelace",
		Age:      36,
		Address:  "London",
		Role:     entity.RoleStandard,
	})

	newAddress := "Cambridge"
	newAge := 37
	out, err := service.Update(ctx, usecase.UpdateAccountInput{
		Username: "ada",
		Patch:    entity.AccountPatch{Address: &newAddress, Age: &newAge},
	})
	require.NoError(t, err)

	assert.Equal(t, "Cambridge", out.Account.Address)
	assert.Equal(t, 37, out.Account.Age)
	assert.Equal(t, "Ada Lovelace", out.Account.FullName)
}

func TestAccountService_Update_NotFound(t *testing.T) {
	store := newMemStore()
	service := newAccountService(store)

	name := "Nobody"
	_, err := service.Update(context.Background(), usecase.UpdateAccountInput{
		Username: "ghost",
		Patch:    entity.AccountPatch{FullName: &name},
	})
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_Delete(t *testing.T) {
	store := newMemStore()
	service := newAccountService(store)
	ctx := context.Background()

	store.seedAccount(&entity.Account{Username: "ada", Role: entity.RoleStandard})

	require.NoError(t, service.Delete(ctx, "ada"))

	_, err := service.Get(ctx, "ada")
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))

	err = service.Delete(ctx, "ada")
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_List(t *testing.T) {
	store := newMemStore()
	service := newAccountService(store)

	store.seedAccount(&entity.Account{Username: "ada", Role: entity.RoleStandard})
	store.seedAccount(&entity.Account{Username: "bob", Role: entity.RoleAdmin})

	accounts, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}
