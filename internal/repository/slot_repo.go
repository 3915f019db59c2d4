package repository

import (
	"context"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/jackc/pgx/v5"
)

const slotColumns = `
	id, trainer_id, name, time, days, duration_min, max_participants, booking_count,
	booking_count >= max_participants AS is_booked, created_at
`

type CreateSlotInput struct {
	TrainerID       int64
	Name            string
	Time            string
	Days            []string
	DurationMinutes int
	MaxParticipants int
}

type SlotRepository struct {
	db DBTX
}

func NewSlotRepository(db DBTX) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) Create(ctx context.Context, input CreateSlotInput) (*models.Slot, error) {
	query := `
		INSERT INTO slots (trainer_id, name, time, days, duration_min, max_participants)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + slotColumns

	return r.scanSlot(r.db.QueryRow(
		ctx,
		query,
		input.TrainerID,
		input.Name,
		input.Time,
		input.Days,
		input.DurationMinutes,
		input.MaxParticipants,
	))
}

func (r *SlotRepository) GetByIDForTrainer(ctx context.Context, slotID, trainerID int64) (*models.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE id = $1 AND trainer_id = $2
	`
	return r.scanSlot(r.db.QueryRow(ctx, query, slotID, trainerID))
}

func (r *SlotRepository) ListByTrainer(ctx context.Context, trainerID int64) ([]models.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE trainer_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]models.Slot, 0)
	for rows.Next() {
		var slot models.Slot
		if err := rows.Scan(
			&slot.ID,
			&slot.TrainerID,
			&slot.Name,
			&slot.Time,
			&slot.Days,
			&slot.DurationMinutes,
			&slot.MaxParticipants,
			&slot.BookingCount,
			&slot.IsBooked,
			&slot.CreatedAt,
		); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// ReserveSeat is the atomic conditional increment at the heart of the booking
// protocol: the capacity check and the increment are one statement, so two
// racing reservations can never both take the last seat. pgx.ErrNoRows means
// the slot is full (or vanished mid-flight).
func (r *SlotRepository) ReserveSeat(ctx context.Context, slotID int64) (*models.Slot, error) {
	query := `
		UPDATE slots
		SET booking_count = booking_count + 1
		WHERE id = $1 AND booking_count < max_participants
		RETURNING ` + slotColumns

	return r.scanSlot(r.db.QueryRow(ctx, query, slotID))
}

func (r *SlotRepository) Delete(ctx context.Context, slotID, trainerID int64) error {
	query := `
		DELETE FROM slots
		WHERE id = $1 AND trainer_id = $2
	`
	tag, err := r.db.Exec(ctx, query, slotID, trainerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *SlotRepository) HasBookings(ctx context.Context, slotID int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM bookings WHERE slot_id = $1)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, slotID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *SlotRepository) ListMembers(ctx context.Context, slotID int64) ([]models.SlotMember, error) {
	query := `
		SELECT member_name, member_email, package
		FROM bookings
		WHERE slot_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.SlotMember, 0)
	for rows.Next() {
		var member models.SlotMember
		if err := rows.Scan(&member.Name, &member.Email, &member.Package); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *SlotRepository) scanSlot(row pgx.Row) (*models.Slot, error) {
	var slot models.Slot
	err := row.Scan(
		&slot.ID,
		&slot.TrainerID,
		&slot.Name,
		&slot.Time,
		&slot.Days,
		&slot.DurationMinutes,
		&slot.MaxParticipants,
		&slot.BookingCount,
		&slot.IsBooked,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
