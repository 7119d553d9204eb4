package postgres

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"
)

var _ repository.TransactionManager = (*gormTransactionManager)(nil)

type gormTransactionManager struct {
	db     *gorm.DB
	cipher service.PIICipher
	logger *slog.Logger
}

// NewTransactionManager creates a TransactionManager backed by GORM
// transactions. Every repository handed to the callback shares one
// database transaction, so either all writes commit or none do.
func NewTransactionManager(db *gorm.DB, cipher service.PIICipher, logger *slog.Logger) repository.TransactionManager {
	return &gormTransactionManager{db: db, cipher: cipher, logger: logger}
}

func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(factory repository.RepositoryFactory) error) error {
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			if err := tx.Rollback().Error; err != nil {
				tm.logger.Error("rollback after panic failed", slog.Any("error", err))
			}
			panic(r)
		}
	}()

	if err := fn(&gormRepositoryFactory{tx: tx, cipher: tm.cipher}); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			tm.logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		if isSerializationFailure(err) {
			return errors.Wrap(repository.ErrTxConflict, err.Error())
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		if isSerializationFailure(err) {
			return errors.Wrap(repository.ErrTxConflict, err.Error())
		}

		return errors.Wrap(err, "commit transaction")
	}

	return nil
}

var _ repository.RepositoryFactory = (*gormRepositoryFactory)(nil)

// gormRepositoryFactory hands out repositories bound to one transaction.
type gormRepositoryFactory struct {
	tx     *gorm.DB
	cipher service.PIICipher
}

func (f *gormRepositoryFactory) Accounts() repository.AccountRepository {
	return NewAccountRepository(f.tx, f.cipher)
}

func (f *gormRepositoryFactory) Products() repository.ProductRepository {
	return NewProductRepository(f.tx)
}

func (f *gormRepositoryFactory) Reviews() repository.ReviewRepository {
	return NewReviewRepository(f.tx)
}
