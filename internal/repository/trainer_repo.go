package repository

import (
	"context"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/jackc/pgx/v5"
)

const trainerColumns = `
	t.id, t.user_id, u.email, u.name, t.bio, t.status, t.rating, t.rating_count, t.created_at, t.updated_at
`

type TrainerRepository struct {
	db DBTX
}

func NewTrainerRepository(db DBTX) *TrainerRepository {
	return &TrainerRepository{db: db}
}

func (r *TrainerRepository) CreateApplication(ctx context.Context, userID int64, bio *string) (*models.Trainer, error) {
	query := `
		INSERT INTO trainers (user_id, bio, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, status, rating, rating_count, created_at, updated_at
	`
	trainer := models.Trainer{UserID: userID, Bio: bio}
	err := r.db.QueryRow(ctx, query, userID, bio).Scan(
		&trainer.ID,
		&trainer.Status,
		&trainer.Rating,
		&trainer.RatingCount,
		&trainer.CreatedAt,
		&trainer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trainer, nil
}

func (r *TrainerRepository) GetByID(ctx context.Context, trainerID int64) (*models.Trainer, error) {
	query := `
		SELECT ` + trainerColumns + `
		FROM trainers t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
	`
	return r.scanTrainer(r.db.QueryRow(ctx, query, trainerID))
}

func (r *TrainerRepository) GetByUserID(ctx context.Context, userID int64) (*models.Trainer, error) {
	query := `
		SELECT ` + trainerColumns + `
		FROM trainers t
		JOIN users u ON u.id = t.user_id
		WHERE t.user_id = $1
	`
	return r.scanTrainer(r.db.QueryRow(ctx, query, userID))
}

func (r *TrainerRepository) ListAccepted(ctx context.Context) ([]models.Trainer, error) {
	query := `
		SELECT ` + trainerColumns + `
		FROM trainers t
		JOIN users u ON u.id = t.user_id
		WHERE t.status = 'accepted'
		ORDER BY t.rating DESC, t.id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainers := make([]models.Trainer, 0)
	for rows.Next() {
		var trainer models.Trainer
		if err := rows.Scan(
			&trainer.ID,
			&trainer.UserID,
			&trainer.Email,
			&trainer.Name,
			&trainer.Bio,
			&trainer.Status,
			&trainer.Rating,
			&trainer.RatingCount,
			&trainer.CreatedAt,
			&trainer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		trainers = append(trainers, trainer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trainers, nil
}

// UpdateStatusIfPending flips a pending application to its terminal state and
// reports the owning user id. pgx.ErrNoRows means the application was not
// pending (or does not exist).
func (r *TrainerRepository) UpdateStatusIfPending(ctx context.Context, trainerID int64, status string) (int64, error) {
	query := `
		UPDATE trainers
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING user_id
	`
	var userID int64
	if err := r.db.QueryRow(ctx, query, trainerID, status).Scan(&userID); err != nil {
		return 0, err
	}
	return userID, nil
}

// AddRating inserts one rating for a (trainer, rater) pair. A duplicate pair
// inserts nothing and returns pgx.ErrNoRows.
func (r *TrainerRepository) AddRating(ctx context.Context, trainerID, raterID int64, value int) error {
	query := `
		INSERT INTO trainer_ratings (trainer_id, rater_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (trainer_id, rater_id) DO NOTHING
		RETURNING id
	`
	var id int64
	return r.db.QueryRow(ctx, query, trainerID, raterID, value).Scan(&id)
}

// RecomputeRating refreshes the denormalized mean from the ratings rows, which
// stay the source of truth.
func (r *TrainerRepository) RecomputeRating(ctx context.Context, trainerID int64) (*models.RatingSummary, error) {
	query := `
		UPDATE trainers
		SET rating = COALESCE((SELECT AVG(value)::float8 FROM trainer_ratings WHERE trainer_id = $1), 0),
		    rating_count = (SELECT COUNT(*) FROM trainer_ratings WHERE trainer_id = $1),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING rating, rating_count
	`
	var summary models.RatingSummary
	if err := r.db.QueryRow(ctx, query, trainerID).Scan(&summary.AverageRating, &summary.TotalRatings); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *TrainerRepository) scanTrainer(row pgx.Row) (*models.Trainer, error) {
	var trainer models.Trainer
	err := row.Scan(
		&trainer.ID,
		&trainer.UserID,
		&trainer.Email,
		&trainer.Name,
		&trainer.Bio,
		&trainer.Status,
		&trainer.Rating,
		&trainer.RatingCount,
		&trainer.CreatedAt,
		&trainer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trainer, nil
}
