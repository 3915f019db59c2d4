package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/redis/go-redis/v9"
)

const trainersKey = "trainers:accepted"

// RedisTrainerCache keeps the public trainer directory in Redis with a TTL.
// It is a projection only; the database stays the source of truth and every
// directory mutation invalidates the key.
type RedisTrainerCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTrainerCache(addr, password string, ttl time.Duration) *RedisTrainerCache {
	return &RedisTrainerCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

// GetTrainers returns the cached listing, or (nil, nil) on a miss.
func (c *RedisTrainerCache) GetTrainers(ctx context.Context) ([]models.TrainerDetail, error) {
	payload, err := c.client.Get(ctx, trainersKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var trainers []models.TrainerDetail
	if err := json.Unmarshal(payload, &trainers); err != nil {
		return nil, err
	}
	return trainers, nil
}

func (c *RedisTrainerCache) SetTrainers(ctx context.Context, trainers []models.TrainerDetail) error {
	payload, err := json.Marshal(trainers)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, trainersKey, payload, c.ttl).Err()
}

func (c *RedisTrainerCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, trainersKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (c *RedisTrainerCache) Close() error {
	return c.client.Close()
}
