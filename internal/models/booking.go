package models

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type Booking struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	TrainerID     int64     `json:"trainer_id"`
	SlotID        int64     `json:"slot_id"`
	MemberName    string    `json:"member_name"`
	MemberEmail   string    `json:"member_email"`
	Package       string    `json:"package"`
	Price         float64   `json:"price"`
	TransactionID string    `json:"transaction_id"`
	PaymentStatus string    `json:"payment_status"`
	HasReviewed   bool      `json:"has_reviewed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Review struct {
	ID         int64     `json:"id"`
	TrainerID  int64     `json:"trainer_id"`
	ReviewerID int64     `json:"reviewer_id"`
	Reviewer   string    `json:"reviewer"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// PaymentIntent is the client-usable handle issued by the payment provider.
type PaymentIntent struct {
	ClientSecret  string  `json:"client_secret"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
}
