package services

import (
	"context"
	"errors"
	"strings"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/RaheelArfeen/FitFlow-Server/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type BookingService struct {
	db          *pgxpool.Pool
	bookingRepo *repository.BookingRepository
	trainerRepo *repository.TrainerRepository
	logger      *zap.Logger
}

func NewBookingService(
	db *pgxpool.Pool,
	bookingRepo *repository.BookingRepository,
	trainerRepo *repository.TrainerRepository,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		db:          db,
		bookingRepo: bookingRepo,
		trainerRepo: trainerRepo,
		logger:      logger,
	}
}

type ReserveSlotInput struct {
	TrainerID     int64
	SlotID        int64
	MemberName    string
	MemberEmail   string
	Package       string
	Price         float64
	TransactionID string
}

// ReserveSlot books one seat in one slot. The booking insert and the seat
// reservation run in a single transaction, and the reservation itself is a
// conditional increment ("take a seat only while seats remain"), so the
// capacity check and the count mutation cannot be interleaved by a concurrent
// request. A failed reservation rolls the booking insert back, which is the
// compensation step of the protocol. The payment is never reversed here: the
// caller booked with a pre-confirmed transaction reference, and reconciling
// money against failed reservations is an upstream concern.
func (s *BookingService) ReserveSlot(
	ctx context.Context,
	userID int64,
	principalEmail string,
	input ReserveSlotInput,
) (*models.Booking, error) {
	if input.TrainerID <= 0 || input.SlotID <= 0 {
		return nil, ErrInvalidInput
	}
	if input.Price <= 0 || strings.TrimSpace(input.TransactionID) == "" {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.MemberName) == "" {
		return nil, ErrInvalidInput
	}
	if !strings.EqualFold(strings.TrimSpace(input.MemberEmail), principalEmail) {
		return nil, ErrForbidden
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txTrainerRepo := repository.NewTrainerRepository(tx)
	txSlotRepo := repository.NewSlotRepository(tx)
	txBookingRepo := repository.NewBookingRepository(tx)

	trainer, err := txTrainerRepo.GetByID(ctx, input.TrainerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if trainer.Status != models.TrainerStatusAccepted {
		return nil, ErrTrainerNotActive
	}

	if _, err := txSlotRepo.GetByIDForTrainer(ctx, input.SlotID, input.TrainerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	booking, err := txBookingRepo.Create(ctx, repository.CreateBookingInput{
		UserID:        userID,
		TrainerID:     input.TrainerID,
		SlotID:        input.SlotID,
		MemberName:    strings.TrimSpace(input.MemberName),
		MemberEmail:   principalEmail,
		Package:       strings.TrimSpace(input.Package),
		Price:         input.Price,
		TransactionID: strings.TrimSpace(input.TransactionID),
	})
	if err != nil {
		return nil, err
	}

	slot, err := txSlotRepo.ReserveSeat(ctx, input.SlotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info("slot reservation rejected, compensating booking insert",
				zap.Int64("slot_id", input.SlotID),
				zap.Int64("trainer_id", input.TrainerID),
				zap.Int64("booking_id", booking.ID))
			return nil, ErrSlotFull
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("slot booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("slot_id", slot.ID),
		zap.Int("booking_count", slot.BookingCount),
		zap.Int("max_participants", slot.MaxParticipants))
	return booking, nil
}

func (s *BookingService) ListBookings(
	ctx context.Context,
	actorID int64,
	role string,
	status string,
) ([]models.Booking, error) {
	filter := repository.BookingListFilter{ActorID: actorID, Role: role, Status: status}
	if role == models.RoleTrainer {
		trainer, err := s.trainerRepo.GetByUserID(ctx, actorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrTrainerNotFound
			}
			return nil, err
		}
		filter.TrainerID = trainer.ID
	}
	return s.bookingRepo.List(ctx, filter)
}

func (s *BookingService) GetBooking(
	ctx context.Context,
	actorID int64,
	role string,
	bookingID int64,
) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeBookingAccess(ctx, actorID, role, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// UpdatePayment patches payment_status and optionally the transaction
// reference. Only the booking owner or an admin may do this; everything else
// about a booking is immutable.
func (s *BookingService) UpdatePayment(
	ctx context.Context,
	actorID int64,
	role string,
	bookingID int64,
	status string,
	transactionID *string,
) (*models.Booking, error) {
	switch status {
	case models.PaymentStatusPending, models.PaymentStatusPaid,
		models.PaymentStatusCompleted, models.PaymentStatusFailed:
	default:
		return nil, ErrInvalidStatus
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && booking.UserID != actorID {
		return nil, ErrForbidden
	}

	return s.bookingRepo.UpdatePayment(ctx, bookingID, status, transactionID)
}

func (s *BookingService) authorizeBookingAccess(
	ctx context.Context,
	actorID int64,
	role string,
	booking *models.Booking,
) error {
	switch role {
	case models.RoleAdmin:
		return nil
	case models.RoleTrainer:
		trainer, err := s.trainerRepo.GetByUserID(ctx, actorID)
		if err == nil && trainer.ID == booking.TrainerID {
			return nil
		}
		if booking.UserID == actorID {
			return nil
		}
		return ErrForbidden
	default:
		if booking.UserID != actorID {
			return ErrForbidden
		}
		return nil
	}
}
