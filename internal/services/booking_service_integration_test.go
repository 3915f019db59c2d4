package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestReserveSlotBooksASeat(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationBookingService(pool)

	member := createTestUser(t, ctx, pool, "member")
	trainer := createAcceptedTrainer(t, ctx, pool)
	slot := createTestSlot(t, ctx, pool, trainer.ID, 5)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, member.ID, trainer.UserID) })

	booking, err := service.ReserveSlot(ctx, member.ID, member.Email, ReserveSlotInput{
		TrainerID:     trainer.ID,
		SlotID:        slot.ID,
		MemberName:    member.Name,
		MemberEmail:   member.Email,
		Package:       "standard",
		Price:         49.99,
		TransactionID: "txn-it-1",
	})
	if err != nil {
		t.Fatalf("ReserveSlot: %v", err)
	}
	if booking.PaymentStatus != "paid" {
		t.Fatalf("expected paid booking, got %q", booking.PaymentStatus)
	}
	if booking.SlotID != slot.ID || booking.TrainerID != trainer.ID {
		t.Fatalf("booking references wrong slot/trainer: %+v", booking)
	}
}

func TestReserveSlotRejectsBookingForAnotherEmail(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationBookingService(pool)

	member := createTestUser(t, ctx, pool, "member")
	trainer := createAcceptedTrainer(t, ctx, pool)
	slot := createTestSlot(t, ctx, pool, trainer.ID, 5)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, member.ID, trainer.UserID) })

	_, err := service.ReserveSlot(ctx, member.ID, member.Email, ReserveSlotInput{
		TrainerID:     trainer.ID,
		SlotID:        slot.ID,
		MemberName:    "Someone Else",
		MemberEmail:   "someone-else@example.com",
		Price:         20,
		TransactionID: "txn-it-2",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM bookings WHERE slot_id = $1", slot.ID).Scan(&count); err != nil {
		t.Fatalf("count bookings: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no booking rows, got %d", count)
	}
}

func TestReserveSlotRejectsPendingTrainer(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	bookingService := newIntegrationBookingService(pool)
	trainerService := newIntegrationTrainerService(pool)

	member := createTestUser(t, ctx, pool, "member")
	applicant := createTestUser(t, ctx, pool, "member")
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, member.ID, applicant.ID) })

	pending, err := trainerService.Apply(ctx, applicant.ID, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	_, err = bookingService.ReserveSlot(ctx, member.ID, member.Email, ReserveSlotInput{
		TrainerID:     pending.ID,
		SlotID:        1,
		MemberName:    member.Name,
		MemberEmail:   member.Email,
		Price:         20,
		TransactionID: "txn-it-3",
	})
	if !errors.Is(err, ErrTrainerNotActive) {
		t.Fatalf("expected ErrTrainerNotActive, got %v", err)
	}
}

// TestReserveSlotCapacityUnderContention is the core correctness property:
// many concurrent reservations against one small slot must produce exactly
// capacity successes, and the losers must leave no booking rows behind.
func TestReserveSlotCapacityUnderContention(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationBookingService(pool)

	const capacity = 3
	const attempts = 10

	trainer := createAcceptedTrainer(t, ctx, pool)
	slot := createTestSlot(t, ctx, pool, trainer.ID, capacity)

	members := make([]int64, 0, attempts)
	emails := make([]string, 0, attempts)
	for i := 0; i < attempts; i++ {
		member := createTestUser(t, ctx, pool, "member")
		members = append(members, member.ID)
		emails = append(emails, member.Email)
	}
	t.Cleanup(func() {
		cleanupTestUsers(t, ctx, pool, append(members, trainer.UserID)...)
	})

	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = service.ReserveSlot(ctx, members[i], emails[i], ReserveSlotInput{
				TrainerID:     trainer.ID,
				SlotID:        slot.ID,
				MemberName:    "Racer",
				MemberEmail:   emails[i],
				Price:         15,
				TransactionID: fmt.Sprintf("txn-race-%d", i),
			})
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotFull):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != capacity {
		t.Fatalf("expected %d successful reservations, got %d", capacity, successes)
	}
	if conflicts != attempts-capacity {
		t.Fatalf("expected %d conflicts, got %d", attempts-capacity, conflicts)
	}

	var bookingCount, rowCount int
	var maxParticipants int
	if err := pool.QueryRow(ctx,
		"SELECT booking_count, max_participants FROM slots WHERE id = $1", slot.ID,
	).Scan(&bookingCount, &maxParticipants); err != nil {
		t.Fatalf("read slot: %v", err)
	}
	if bookingCount != capacity || bookingCount > maxParticipants {
		t.Fatalf("capacity invariant violated: booking_count=%d max=%d", bookingCount, maxParticipants)
	}
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM bookings WHERE slot_id = $1", slot.ID).Scan(&rowCount); err != nil {
		t.Fatalf("count bookings: %v", err)
	}
	if rowCount != capacity {
		t.Fatalf("expected %d booking rows after compensation, got %d", capacity, rowCount)
	}
}

// TestReserveSlotCompensatesOnFullSlot exercises the rollback path directly:
// once the slot is full, a further reservation fails and its booking insert
// is not visible afterwards.
func TestReserveSlotCompensatesOnFullSlot(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationBookingService(pool)

	trainer := createAcceptedTrainer(t, ctx, pool)
	slot := createTestSlot(t, ctx, pool, trainer.ID, 1)
	first := createTestUser(t, ctx, pool, "member")
	second := createTestUser(t, ctx, pool, "member")
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, first.ID, second.ID, trainer.UserID) })

	if _, err := service.ReserveSlot(ctx, first.ID, first.Email, ReserveSlotInput{
		TrainerID:     trainer.ID,
		SlotID:        slot.ID,
		MemberName:    first.Name,
		MemberEmail:   first.Email,
		Price:         30,
		TransactionID: "txn-comp-1",
	}); err != nil {
		t.Fatalf("first ReserveSlot: %v", err)
	}

	_, err := service.ReserveSlot(ctx, second.ID, second.Email, ReserveSlotInput{
		TrainerID:     trainer.ID,
		SlotID:        slot.ID,
		MemberName:    second.Name,
		MemberEmail:   second.Email,
		Price:         30,
		TransactionID: "txn-comp-2",
	})
	if !errors.Is(err, ErrSlotFull) {
		t.Fatalf("expected ErrSlotFull, got %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM bookings WHERE user_id = $1", second.ID).Scan(&count); err != nil {
		t.Fatalf("count bookings: %v", err)
	}
	if count != 0 {
		t.Fatalf("compensation failed: found %d orphaned bookings", count)
	}

	var isBooked bool
	if err := pool.QueryRow(ctx,
		"SELECT booking_count >= max_participants FROM slots WHERE id = $1", slot.ID,
	).Scan(&isBooked); err != nil {
		t.Fatalf("read slot: %v", err)
	}
	if !isBooked {
		t.Fatalf("expected slot to report fully booked")
	}
}
