package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `
	id, user_id, trainer_id, slot_id, member_name, member_email, package, price,
	transaction_id, payment_status, has_reviewed, created_at, updated_at
`

type CreateBookingInput struct {
	UserID        int64
	TrainerID     int64
	SlotID        int64
	MemberName    string
	MemberEmail   string
	Package       string
	Price         float64
	TransactionID string
}

type BookingListFilter struct {
	ActorID   int64
	Role      string
	TrainerID int64
	Status    string
}

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (user_id, trainer_id, slot_id, member_name, member_email, package, price, transaction_id, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'paid')
		RETURNING ` + bookingColumns

	return r.scanBooking(r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.TrainerID,
		input.SlotID,
		input.MemberName,
		input.MemberEmail,
		input.Package,
		input.Price,
		input.TransactionID,
	))
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID int64) (*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`
	return r.scanBooking(r.db.QueryRow(ctx, query, bookingID))
}

func (r *BookingRepository) List(ctx context.Context, filter BookingListFilter) ([]models.Booking, error) {
	args := []any{}
	whereParts := []string{}

	switch filter.Role {
	case models.RoleTrainer:
		args = append(args, filter.TrainerID)
		whereParts = append(whereParts, fmt.Sprintf("trainer_id = $%d", len(args)))
	case models.RoleAdmin:
		// admins see everything
	default:
		args = append(args, filter.ActorID)
		whereParts = append(whereParts, fmt.Sprintf("user_id = $%d", len(args)))
	}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("payment_status = $%d", len(args)))
	}

	where := ""
	if len(whereParts) > 0 {
		where = "WHERE " + strings.Join(whereParts, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		%s
		ORDER BY created_at DESC, id DESC
	`, bookingColumns, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		var booking models.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.TrainerID,
			&booking.SlotID,
			&booking.MemberName,
			&booking.MemberEmail,
			&booking.Package,
			&booking.Price,
			&booking.TransactionID,
			&booking.PaymentStatus,
			&booking.HasReviewed,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) UpdatePayment(ctx context.Context, bookingID int64, status string, transactionID *string) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET payment_status = $2,
		    transaction_id = COALESCE($3, transaction_id),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookingColumns

	return r.scanBooking(r.db.QueryRow(ctx, query, bookingID, status, transactionID))
}

// MarkReviewed flips has_reviewed on the reviewer's oldest unreviewed booking
// with the trainer. pgx.ErrNoRows means no eligible booking exists.
func (r *BookingRepository) MarkReviewed(ctx context.Context, userID, trainerID int64) error {
	query := `
		UPDATE bookings
		SET has_reviewed = TRUE, updated_at = NOW()
		WHERE id = (
			SELECT id FROM bookings
			WHERE user_id = $1 AND trainer_id = $2 AND has_reviewed = FALSE
			ORDER BY id ASC
			LIMIT 1
		)
	`
	tag, err := r.db.Exec(ctx, query, userID, trainerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *BookingRepository) scanBooking(row pgx.Row) (*models.Booking, error) {
	var booking models.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.TrainerID,
		&booking.SlotID,
		&booking.MemberName,
		&booking.MemberEmail,
		&booking.Package,
		&booking.Price,
		&booking.TransactionID,
		&booking.PaymentStatus,
		&booking.HasReviewed,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
