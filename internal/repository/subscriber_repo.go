package repository

import (
	"context"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
)

type SubscriberRepository struct {
	db DBTX
}

func NewSubscriberRepository(db DBTX) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

func (r *SubscriberRepository) Create(ctx context.Context, email string) (*models.Subscriber, error) {
	query := `
		INSERT INTO subscribers (email)
		VALUES ($1)
		RETURNING id, email, created_at
	`
	var subscriber models.Subscriber
	if err := r.db.QueryRow(ctx, query, email).Scan(&subscriber.ID, &subscriber.Email, &subscriber.CreatedAt); err != nil {
		return nil, err
	}
	return &subscriber, nil
}

func (r *SubscriberRepository) List(ctx context.Context) ([]models.Subscriber, error) {
	query := `
		SELECT id, email, created_at
		FROM subscribers
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscribers := make([]models.Subscriber, 0)
	for rows.Next() {
		var subscriber models.Subscriber
		if err := rows.Scan(&subscriber.ID, &subscriber.Email, &subscriber.CreatedAt); err != nil {
			return nil, err
		}
		subscribers = append(subscribers, subscriber)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subscribers, nil
}
