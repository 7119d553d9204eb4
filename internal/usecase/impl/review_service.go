package impl

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.uber.org/fx"

	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"
	"bazaar/internal/usecase"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager   repository.TransactionManager
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	accountRepo repository.AccountRepository
	sanitizer   service.CommentSanitizer
	logger      *slog.Logger
}

// ReviewServiceParams holds dependencies for reviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ReviewRepo  repository.ReviewRepository
	ProductRepo repository.ProductRepository
	AccountRepo repository.AccountRepository
	Sanitizer   service.CommentSanitizer
	Logger      *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		txManager:   params.TxManager,
		reviewRepo:  params.ReviewRepo,
		productRepo: params.ProductRepo,
		accountRepo: params.AccountRepo,
		sanitizer:   params.Sanitizer,
		logger:      params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Submit creates a review. The rating is validated and the comment sanitized
// before any store access; the product reference must resolve.
func (srv *reviewService) Submit(ctx context.Context, input usecase.SubmitReviewInput) (*usecase.ReviewOutput, error) {
	if !entity.ValidRating(input.Rating) {
		return nil, domainerrors.ErrInvalidRating
	}

	if _, err := srv.productRepo.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	review := &entity.Review{
		ProductID: input.ProductID,
		AccountID: input.AccountID,
		Rating:    input.Rating,
		Comment:   srv.sanitizer.Sanitize(input.Comment),
	}

	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		srv.log(ctx).Error("failed to submit review",
			slog.Any("productID", input.ProductID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to submit review")
	}

	srv.log(ctx).Info("review submitted",
		slog.Any("reviewID", review.ID), slog.Any("productID", review.ProductID))

	return &usecase.ReviewOutput{Review: review}, nil
}

// Get retrieves a single review by ID.
func (srv *reviewService) Get(ctx context.Context, id uuid.UUID) (*usecase.ReviewOutput, error) {
	review, err := srv.reviewRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to get review")
	}

	return &usecase.ReviewOutput{Review: review}, nil
}

// GetDetails retrieves a review joined with the author's username and the
// product's name.
func (srv *reviewService) GetDetails(ctx context.Context, id uuid.UUID) (*usecase.ReviewDetailsOutput, error) {
	review, err := srv.reviewRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to get review")
	}

	account, err := srv.accountRepo.FindByID(ctx, review.AccountID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve review author")
	}
	product, err := srv.productRepo.FindByID(ctx, review.ProductID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve reviewed product")
	}

	return &usecase.ReviewDetailsOutput{
		Review:      review,
		Username:    account.Username,
		ProductName: product.Name,
	}, nil
}

// ListByProduct retrieves all reviews for a product.
func (srv *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	if _, err := srv.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	reviews, err := srv.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews by product")
	}

	return reviews, nil
}

// ListByAccount retrieves all reviews authored by an account.
func (srv *reviewService) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews by account")
	}

	return reviews, nil
}

// Update applies a partial update to a review's rating or comment inside
// one transaction. Ownership was already checked by the guard chain.
func (srv *reviewService) Update(ctx context.Context, input usecase.UpdateReviewInput) (*usecase.ReviewOutput, error) {
	if input.Patch.Rating != nil && !entity.ValidRating(*input.Patch.Rating) {
		return nil, domainerrors.ErrInvalidRating
	}

	var updated *entity.Review
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		reviewRepo := repos.Reviews()

		review, err := reviewRepo.FindByID(ctx, input.ReviewID)
		if err != nil {
			if errors.Is(err, repository.ErrReviewNotFound) {
				return domainerrors.ErrReviewNotFound
			}

			return errors.Wrap(err, "failed to find review")
		}

		if input.Patch.Rating != nil {
			review.Rating = *input.Patch.Rating
		}
		if input.Patch.Comment != nil {
			review.Comment = srv.sanitizer.Sanitize(*input.Patch.Comment)
		}

		if err := reviewRepo.Update(ctx, review); err != nil {
			return errors.Wrap(err, "failed to update review")
		}

		updated = review

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("review updated", slog.Any("reviewID", input.ReviewID))

	return &usecase.ReviewOutput{Review: updated}, nil
}

// Delete removes a review.
func (srv *reviewService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := srv.reviewRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return domainerrors.ErrReviewNotFound
		}

		return errors.Wrap(err, "failed to delete review")
	}

	srv.log(ctx).Info("review deleted", slog.Any("reviewID", id))

	return nil
}

// Moderate marks a review as moderated. Idempotent.
func (srv *reviewService) Moderate(ctx context.Context, id uuid.UUID) (*usecase.ReviewOutput, error) {
	var moderated *entity.Review
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		reviewRepo := repos.Reviews()

		review, err := reviewRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrReviewNotFound) {
				return domainerrors.ErrReviewNotFound
			}

			return errors.Wrap(err, "failed to find review")
		}

		if !review.Moderated {
			review.Moderated = true
			if err := reviewRepo.Update(ctx, review); err != nil {
				return errors.Wrap(err, "failed to mark review moderated")
			}
		}

		moderated = review

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("review moderated", slog.Any("reviewID", id))

	return &usecase.ReviewOutput{Review: moderated}, nil
}
