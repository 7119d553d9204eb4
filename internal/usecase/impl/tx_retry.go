// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/errors"
)

// executeWithRetry runs fn through the transaction manager, retrying a
// bounded number of times when the store aborts the transaction because of
// concurrent access. Each attempt sees a fresh transaction; after the last
// attempt the conflict surfaces to the caller.
func executeWithRetry(
	ctx context.Context,
	txManager repository.TransactionManager,
	maxRetries int,
	logger *slog.Logger,
	fn func(repos repository.RepositoryFactory) error,
) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = txManager.Execute(ctx, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrTxConflict) {
			return err
		}
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "transaction retry aborted")
		}

		logger.Warn("retrying conflicted transaction",
			slog.Int("attempt", attempt),
			slog.Int("maxRetries", maxRetries))
	}

	return domainerrors.ErrConflict.WrapMessage(err.Error())
}
