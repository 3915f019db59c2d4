package services

import (
	"context"
	"errors"
	"strings"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/RaheelArfeen/FitFlow-Server/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RatingService struct {
	db          *pgxpool.Pool
	trainerRepo *repository.TrainerRepository
	reviewRepo  *repository.ReviewRepository
}

func NewRatingService(
	db *pgxpool.Pool,
	trainerRepo *repository.TrainerRepository,
	reviewRepo *repository.ReviewRepository,
) *RatingService {
	return &RatingService{
		db:          db,
		trainerRepo: trainerRepo,
		reviewRepo:  reviewRepo,
	}
}

// SubmitRating records one rating per (trainer, rater) pair and refreshes the
// trainer's mean. Insert and recompute share a transaction, so concurrent
// raters cannot lose each other's submissions; the rating rows remain the
// source of truth and the mean is recomputed from them, never nudged
// incrementally. A duplicate submission is a conflict, not an overwrite.
func (s *RatingService) SubmitRating(
	ctx context.Context,
	raterID int64,
	trainerID int64,
	value int,
) (*models.RatingSummary, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txTrainerRepo := repository.NewTrainerRepository(tx)

	trainer, err := txTrainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if trainer.Status != models.TrainerStatusAccepted {
		return nil, ErrTrainerNotActive
	}
	if trainer.UserID == raterID {
		return nil, ErrForbidden
	}

	if err := txTrainerRepo.AddRating(ctx, trainerID, raterID, value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDuplicateRating
		}
		return nil, err
	}

	summary, err := txTrainerRepo.RecomputeRating(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return summary, nil
}

// SubmitReview stores at most one detailed review per (trainer, reviewer)
// pair. The reviewer must hold a booking with the trainer; the first
// unreviewed booking's eligibility flag flips in the same transaction.
func (s *RatingService) SubmitReview(
	ctx context.Context,
	reviewerID int64,
	trainerID int64,
	rating int,
	comment *string,
) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidInput
	}
	if comment != nil && strings.TrimSpace(*comment) == "" {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txTrainerRepo := repository.NewTrainerRepository(tx)
	txReviewRepo := repository.NewReviewRepository(tx)
	txBookingRepo := repository.NewBookingRepository(tx)

	trainer, err := txTrainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if trainer.Status != models.TrainerStatusAccepted {
		return nil, ErrTrainerNotActive
	}

	if err := txBookingRepo.MarkReviewed(ctx, reviewerID, trainerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoEligibleBooking
		}
		return nil, err
	}

	review, err := txReviewRepo.Create(ctx, trainerID, reviewerID, rating, comment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *RatingService) ListReviews(ctx context.Context, trainerID int64) ([]models.Review, error) {
	if _, err := s.trainerRepo.GetByID(ctx, trainerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return s.reviewRepo.ListByTrainer(ctx, trainerID)
}
