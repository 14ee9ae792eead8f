package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clansite/internal/domain/booking"
)

// BookingStoreForSubmit defines the store interface needed by SubmitBooking.
type BookingStoreForSubmit interface {
	Save(ctx context.Context, b booking.Booking) error
}

// SubmitBookingInput carries the visitor's join request.
type SubmitBookingInput struct {
	Name  string
	Email string
	Phone string
}

// SubmitBookingDeps holds dependencies for SubmitBooking.
type SubmitBookingDeps struct {
	BookingStore BookingStoreForSubmit
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSubmitBooking records a join request.
// Fields are stored as given; empty strings are accepted.
// PRE: deps are non-nil
// POST: a booking with a fresh ID and status "new" is persisted
func ExecuteSubmitBooking(ctx context.Context, input SubmitBookingInput, deps SubmitBookingDeps) (booking.Booking, error) {
	b := booking.New(deps.GenerateID(), input.Name, input.Email, input.Phone, deps.Now())
	if err := deps.BookingStore.Save(ctx, b); err != nil {
		return booking.Booking{}, fmt.Errorf("save booking: %w", err)
	}
	slog.Info("booking_submitted", "booking_id", b.ID)
	return b, nil
}
