package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"
	"bazaar/internal/infra/persistence/model"
)

// accountRepository implements repository.AccountRepository using GORM.
// PII fields cross this boundary in plaintext on the entity side and as
// ciphertext on the model side.
type accountRepository struct {
	db     *gorm.DB
	cipher service.PIICipher
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a repository.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB, cipher service.PIICipher) repository.AccountRepository {
	return &accountRepository{db: db, cipher: cipher}
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return repo.toAccountDomain(&accountM)
}

// FindByUsername retrieves a single account by its unique username.
func (repo *accountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).
		Where("username = ?", username).
		First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by username")
	}

	return repo.toAccountDomain(&accountM)
}

// List retrieves all accounts ordered by username.
func (repo *accountRepository) List(ctx context.Context) ([]*entity.Account, error) {
	var models []model.AccountModel
	if err := repo.db.WithContext(ctx).
		Order("username").
		Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	accounts := make([]*entity.Account, 0, len(models))
	for i := range models {
		account, err := repo.toAccountDomain(&models[i])
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

// Create persists a new account entity to the database.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM, err := repo.fromAccountDomain(account)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors.
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateUsername
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("account violates a storage constraint")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	// Update the entity with the generated ID and timestamps.
	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Update modifies an existing account entity in the database.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountM, err := repo.fromAccountDomain(account)
	if err != nil {
		return err
	}

	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", account.ID).
		Select("full_name", "age", "address", "gender", "marital_status", "password_hash", "role").
		Updates(accountM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// Delete removes the account with the given username. The store cascades the
// delete to the account's reviews.
func (repo *accountRepository) Delete(ctx context.Context, username string) error {
	result := repo.db.WithContext(ctx).
		Where("username = ?", username).
		Delete(&model.AccountModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// AdjustBalance applies delta to the account's balance in a single
// conditional UPDATE, so concurrent adjustments can never interleave into a
// negative balance. The WHERE clause rejects the write instead of relying on
// a read-modify-write cycle.
func (repo *accountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta float64) (float64, error) {
	var accountM model.AccountModel
	result := repo.db.WithContext(ctx).
		Model(&accountM).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "balance"}}}).
		Where("id = ? AND balance + ? >= 0", id, delta).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return 0, repository.ErrInsufficientFunds
		}

		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to adjust balance")
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing account from an insufficient balance.
		var count int64
		if err := repo.db.WithContext(ctx).
			Model(&model.AccountModel{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return 0, domainerrors.NewDatabaseExecuteError(err, "failed to check account existence")
		}
		if count == 0 {
			return 0, repository.ErrAccountNotFound
		}

		return 0, repository.ErrInsufficientFunds
	}

	return accountM.Balance, nil
}

// toAccountDomain maps the persistence model to a pure domain entity,
// decrypting the PII fields on the way out.
func (repo *accountRepository) toAccountDomain(accountM *model.AccountModel) (*entity.Account, error) {
	fullName, err := repo.cipher.Decrypt(accountM.FullName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt full name")
	}
	address, err := repo.cipher.Decrypt(accountM.Address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt address")
	}

	return &entity.Account{
		ID:            accountM.ID,
		FullName:      fullName,
		Username:      accountM.Username,
		PasswordHash:  accountM.PasswordHash,
		Age:           accountM.Age,
		Address:       address,
		Gender:        accountM.Gender,
		MaritalStatus: accountM.MaritalStatus,
		Balance:       accountM.Balance,
		Role:          entity.Role(accountM.Role),
		CreatedAt:     accountM.CreatedAt,
		UpdatedAt:     accountM.UpdatedAt,
	}, nil
}

// fromAccountDomain maps the domain entity to a persistence model,
// encrypting the PII fields on the way in.
func (repo *accountRepository) fromAccountDomain(account *entity.Account) (*model.AccountModel, error) {
	fullName, err := repo.cipher.Encrypt(account.FullName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt full name")
	}
	address, err := repo.cipher.Encrypt(account.Address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt address")
	}

	return &model.AccountModel{
		ID:            account.ID,
		FullName:      fullName,
		Username:      account.Username,
		PasswordHash:  account.PasswordHash,
		Age:           account.Age,
		Address:       address,
		Gender:        account.Gender,
		MaritalStatus: account.MaritalStatus,
		Balance:       account.Balance,
		Role:          string(account.Role),
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}, nil
}
