package models

import "time"

const (
	TrainerStatusPending  = "pending"
	TrainerStatusAccepted = "accepted"
	TrainerStatusRejected = "rejected"
)

type Trainer struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Bio         *string   `json:"bio"`
	Status      string    `json:"status"`
	Rating      float64   `json:"rating"`
	RatingCount int       `json:"rating_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TrainerDetail struct {
	Trainer
	Slots []Slot `json:"slots"`
}

type Slot struct {
	ID              int64     `json:"id"`
	TrainerID       int64     `json:"trainer_id"`
	Name            string    `json:"name"`
	Time            string    `json:"time"`
	Days            []string  `json:"days"`
	DurationMinutes int       `json:"duration_minutes"`
	MaxParticipants int       `json:"max_participants"`
	BookingCount    int       `json:"booking_count"`
	IsBooked        bool      `json:"is_booked"`
	CreatedAt       time.Time `json:"created_at"`
}

// SlotMember is one roster entry; the bookings table is the source of truth.
type SlotMember struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Package string `json:"package"`
}

type SlotWithMembers struct {
	Slot
	BookedMembers []SlotMember `json:"booked_members"`
}

type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}
