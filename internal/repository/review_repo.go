package repository

import (
	"context"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
)

type ReviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts one review for a (trainer, reviewer) pair. A duplicate pair
// inserts nothing and returns pgx.ErrNoRows.
func (r *ReviewRepository) Create(ctx context.Context, trainerID, reviewerID int64, rating int, comment *string) (*models.Review, error) {
	query := `
		INSERT INTO reviews (trainer_id, reviewer_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (trainer_id, reviewer_id) DO NOTHING
		RETURNING id, trainer_id, reviewer_id, rating, comment, created_at
	`
	var review models.Review
	err := r.db.QueryRow(ctx, query, trainerID, reviewerID, rating, comment).Scan(
		&review.ID,
		&review.TrainerID,
		&review.ReviewerID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) ListByTrainer(ctx context.Context, trainerID int64) ([]models.Review, error) {
	query := `
		SELECT rv.id, rv.trainer_id, rv.reviewer_id, u.name, rv.rating, rv.comment, rv.created_at
		FROM reviews rv
		JOIN users u ON u.id = rv.reviewer_id
		WHERE rv.trainer_id = $1
		ORDER BY rv.id DESC
	`
	rows, err := r.db.Query(ctx, query, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.ID,
			&review.TrainerID,
			&review.ReviewerID,
			&review.Reviewer,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
