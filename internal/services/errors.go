package services

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrTrainerNotFound   = errors.New("trainer not found")
	ErrTrainerNotActive  = errors.New("trainer is not accepting bookings")
	ErrSlotNotFound      = errors.New("slot not found")
	ErrSlotFull          = errors.New("slot full")
	ErrSlotHasBookings   = errors.New("slot has bookings")
	ErrAlreadyApplied    = errors.New("trainer application already exists")
	ErrAlreadyDecided    = errors.New("trainer application already decided")
	ErrDuplicateRating   = errors.New("trainer already rated")
	ErrDuplicateReview   = errors.New("trainer already reviewed")
	ErrNoEligibleBooking = errors.New("no booking eligible for review")
	ErrPostNotFound      = errors.New("post not found")
	ErrInvalidStatus     = errors.New("invalid status")
)
