package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/RaheelArfeen/FitFlow-Server/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func newIntegrationTrainerService(pool *pgxpool.Pool) *TrainerService {
	return NewTrainerService(
		pool,
		repository.NewTrainerRepository(pool),
		repository.NewSlotRepository(pool),
		repository.NewUserRepository(pool),
		nil,
		zap.NewNop(),
	)
}

func newIntegrationBookingService(pool *pgxpool.Pool) *BookingService {
	return NewBookingService(
		pool,
		repository.NewBookingRepository(pool),
		repository.NewTrainerRepository(pool),
		zap.NewNop(),
	)
}

func newIntegrationRatingService(pool *pgxpool.Pool) *RatingService {
	return NewRatingService(
		pool,
		repository.NewTrainerRepository(pool),
		repository.NewReviewRepository(pool),
	)
}

func createTestUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool, role string) *models.User {
	t.Helper()

	userRepo := repository.NewUserRepository(pool)
	user := &models.User{
		Name:         "Test " + role,
		Email:        fmt.Sprintf("it-%s-%d@example.com", role, time.Now().UnixNano()),
		PasswordHash: "test-hash",
		Role:         models.RoleMember,
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser(%s): %v", role, err)
	}
	if role != models.RoleMember {
		if err := userRepo.UpdateRole(ctx, user.ID, role); err != nil {
			t.Fatalf("UpdateRole(%s): %v", role, err)
		}
		user.Role = role
	}
	return user
}

// createAcceptedTrainer registers a member, applies, and approves the
// application, returning the trainer and its backing user.
func createAcceptedTrainer(t *testing.T, ctx context.Context, pool *pgxpool.Pool) *models.Trainer {
	t.Helper()

	user := createTestUser(t, ctx, pool, models.RoleMember)
	service := newIntegrationTrainerService(pool)

	trainer, err := service.Apply(ctx, user.ID, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	decided, err := service.Decide(ctx, trainer.ID, models.TrainerStatusAccepted)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	return decided
}

func createTestSlot(t *testing.T, ctx context.Context, pool *pgxpool.Pool, trainerID int64, capacity int) *models.Slot {
	t.Helper()

	slotRepo := repository.NewSlotRepository(pool)
	slot, err := slotRepo.Create(ctx, repository.CreateSlotInput{
		TrainerID:       trainerID,
		Name:            "Morning HIIT",
		Time:            "07:00",
		Days:            []string{"monday", "wednesday"},
		DurationMinutes: 45,
		MaxParticipants: capacity,
	})
	if err != nil {
		t.Fatalf("Create slot: %v", err)
	}
	return slot
}

func cleanupTestUsers(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userIDs ...int64) {
	t.Helper()

	if len(userIDs) == 0 {
		return
	}

	statements := []string{
		"DELETE FROM bookings WHERE user_id = ANY($1) OR trainer_id IN (SELECT id FROM trainers WHERE user_id = ANY($1))",
		"DELETE FROM reviews WHERE reviewer_id = ANY($1) OR trainer_id IN (SELECT id FROM trainers WHERE user_id = ANY($1))",
		"DELETE FROM trainer_ratings WHERE rater_id = ANY($1) OR trainer_id IN (SELECT id FROM trainers WHERE user_id = ANY($1))",
		"DELETE FROM slots WHERE trainer_id IN (SELECT id FROM trainers WHERE user_id = ANY($1))",
		"DELETE FROM trainers WHERE user_id = ANY($1)",
		"DELETE FROM comments WHERE author_id = ANY($1)",
		"DELETE FROM post_votes WHERE user_id = ANY($1)",
		"DELETE FROM posts WHERE author_id = ANY($1)",
		"DELETE FROM users WHERE id = ANY($1)",
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt, userIDs); err != nil {
			t.Fatalf("cleanup %q: %v", stmt, err)
		}
	}
}
