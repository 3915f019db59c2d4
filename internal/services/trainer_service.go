package services

import (
	"context"
	"errors"
	"strings"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/RaheelArfeen/FitFlow-Server/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TrainerCache is the read-side cache for the public directory listing.
// Implementations must treat a miss as (nil, nil).
type TrainerCache interface {
	GetTrainers(ctx context.Context) ([]models.TrainerDetail, error)
	SetTrainers(ctx context.Context, trainers []models.TrainerDetail) error
	Invalidate(ctx context.Context) error
}

type TrainerService struct {
	db          *pgxpool.Pool
	trainerRepo *repository.TrainerRepository
	slotRepo    *repository.SlotRepository
	userRepo    *repository.UserRepository
	cache       TrainerCache
	logger      *zap.Logger
}

func NewTrainerService(
	db *pgxpool.Pool,
	trainerRepo *repository.TrainerRepository,
	slotRepo *repository.SlotRepository,
	userRepo *repository.UserRepository,
	cache TrainerCache,
	logger *zap.Logger,
) *TrainerService {
	return &TrainerService{
		db:          db,
		trainerRepo: trainerRepo,
		slotRepo:    slotRepo,
		userRepo:    userRepo,
		cache:       cache,
		logger:      logger,
	}
}

// Apply submits a trainer application for the calling member. One application
// per user, ever: re-applying after rejection is also a conflict.
func (s *TrainerService) Apply(ctx context.Context, userID int64, bio *string) (*models.Trainer, error) {
	trainer, err := s.trainerRepo.CreateApplication(ctx, userID, bio)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}
	return trainer, nil
}

// Decide drives the pending -> accepted | rejected transition and mirrors the
// outcome onto the user's role. Terminal states are immutable.
func (s *TrainerService) Decide(ctx context.Context, trainerID int64, decision string) (*models.Trainer, error) {
	if decision != models.TrainerStatusAccepted && decision != models.TrainerStatusRejected {
		return nil, ErrInvalidStatus
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txTrainerRepo := repository.NewTrainerRepository(tx)
	txUserRepo := repository.NewUserRepository(tx)

	userID, err := txTrainerRepo.UpdateStatusIfPending(ctx, trainerID, decision)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if _, getErr := txTrainerRepo.GetByID(ctx, trainerID); getErr != nil {
			if errors.Is(getErr, pgx.ErrNoRows) {
				return nil, ErrTrainerNotFound
			}
			return nil, getErr
		}
		return nil, ErrAlreadyDecided
	}

	role := models.RoleMember
	if decision == models.TrainerStatusAccepted {
		role = models.RoleTrainer
	}
	if err := txUserRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("trainer application decided",
		zap.Int64("trainer_id", trainerID),
		zap.String("decision", decision))
	return s.trainerRepo.GetByID(ctx, trainerID)
}

// ListAccepted serves the public directory, preferring the cache.
func (s *TrainerService) ListAccepted(ctx context.Context) ([]models.TrainerDetail, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTrainers(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.logger.Warn("trainer cache read failed", zap.Error(err))
		}
	}

	trainers, err := s.trainerRepo.ListAccepted(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]models.TrainerDetail, 0, len(trainers))
	for _, trainer := range trainers {
		slots, err := s.slotRepo.ListByTrainer(ctx, trainer.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, models.TrainerDetail{Trainer: trainer, Slots: slots})
	}

	if s.cache != nil {
		if err := s.cache.SetTrainers(ctx, details); err != nil {
			s.logger.Warn("trainer cache write failed", zap.Error(err))
		}
	}
	return details, nil
}

func (s *TrainerService) GetTrainer(ctx context.Context, trainerID int64) (*models.TrainerDetail, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	slots, err := s.slotRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	return &models.TrainerDetail{Trainer: *trainer, Slots: slots}, nil
}

type CreateSlotInput struct {
	Name            string
	Time            string
	Days            []string
	DurationMinutes int
	MaxParticipants int
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// CreateSlot adds a bookable slot for the calling trainer, who must hold an
// accepted application.
func (s *TrainerService) CreateSlot(ctx context.Context, userID int64, input CreateSlotInput) (*models.Slot, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Time) == "" {
		return nil, ErrInvalidInput
	}
	if input.DurationMinutes <= 0 || input.MaxParticipants < 1 {
		return nil, ErrInvalidInput
	}
	if len(input.Days) == 0 {
		return nil, ErrInvalidInput
	}
	days := make([]string, 0, len(input.Days))
	seen := make(map[string]bool, len(input.Days))
	for _, day := range input.Days {
		day = strings.ToLower(strings.TrimSpace(day))
		if !weekdays[day] || seen[day] {
			return nil, ErrInvalidInput
		}
		seen[day] = true
		days = append(days, day)
	}

	trainer, err := s.requireAcceptedTrainer(ctx, userID)
	if err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.Create(ctx, repository.CreateSlotInput{
		TrainerID:       trainer.ID,
		Name:            strings.TrimSpace(input.Name),
		Time:            strings.TrimSpace(input.Time),
		Days:            days,
		DurationMinutes: input.DurationMinutes,
		MaxParticipants: input.MaxParticipants,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return slot, nil
}

// ListOwnSlots returns the calling trainer's slots with their rosters.
func (s *TrainerService) ListOwnSlots(ctx context.Context, userID int64) ([]models.SlotWithMembers, error) {
	trainer, err := s.requireAcceptedTrainer(ctx, userID)
	if err != nil {
		return nil, err
	}

	slots, err := s.slotRepo.ListByTrainer(ctx, trainer.ID)
	if err != nil {
		return nil, err
	}

	withMembers := make([]models.SlotWithMembers, 0, len(slots))
	for _, slot := range slots {
		members, err := s.slotRepo.ListMembers(ctx, slot.ID)
		if err != nil {
			return nil, err
		}
		withMembers = append(withMembers, models.SlotWithMembers{Slot: slot, BookedMembers: members})
	}
	return withMembers, nil
}

// DeleteSlot removes an owner's slot. Slots holding bookings are kept so paid
// seats never dangle.
func (s *TrainerService) DeleteSlot(ctx context.Context, userID, slotID int64) error {
	trainer, err := s.requireAcceptedTrainer(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := s.slotRepo.GetByIDForTrainer(ctx, slotID, trainer.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSlotNotFound
		}
		return err
	}

	hasBookings, err := s.slotRepo.HasBookings(ctx, slotID)
	if err != nil {
		return err
	}
	if hasBookings {
		return ErrSlotHasBookings
	}

	if err := s.slotRepo.Delete(ctx, slotID, trainer.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSlotNotFound
		}
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *TrainerService) requireAcceptedTrainer(ctx context.Context, userID int64) (*models.Trainer, error) {
	trainer, err := s.trainerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if trainer.Status != models.TrainerStatusAccepted {
		return nil, ErrTrainerNotActive
	}
	return trainer, nil
}

func (s *TrainerService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("trainer cache invalidation failed", zap.Error(err))
	}
}
