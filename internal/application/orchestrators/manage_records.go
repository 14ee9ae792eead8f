package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clansite/internal/domain/booking"
	"clansite/internal/domain/inquiry"
	"clansite/internal/domain/quiz"
)

// BookingStoreForReview defines the store interface needed by booking review.
type BookingStoreForReview interface {
	UpdateReview(ctx context.Context, id, status, notes string) error
	Delete(ctx context.Context, id string) error
}

// InquiryStoreForReview defines the store interface needed by inquiry review.
type InquiryStoreForReview interface {
	Respond(ctx context.Context, id, status, response string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// QuizStoreForDelete defines the store interface needed by DeleteQuizSubmission.
type QuizStoreForDelete interface {
	Delete(ctx context.Context, id string) error
}

// --- Bookings ---

// UpdateBookingInput carries an admin's review of a booking.
type UpdateBookingInput struct {
	ID     string
	Status string
	Notes  string
}

// ExecuteUpdateBooking sets a booking's status and notes.
// POST: booking.ErrNotFound when no row has the ID
func ExecuteUpdateBooking(ctx context.Context, input UpdateBookingInput, store BookingStoreForReview) error {
	if err := store.UpdateReview(ctx, input.ID, input.Status, input.Notes); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update booking: %w", err)
	}
	slog.Info("booking_updated", "booking_id", input.ID, "status", input.Status)
	return nil
}

// ExecuteDeleteBooking removes a booking.
// POST: no row has the ID; deleting an absent ID succeeds
func ExecuteDeleteBooking(ctx context.Context, id string, store BookingStoreForReview) error {
	if err := store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	slog.Info("booking_deleted", "booking_id", id)
	return nil
}

// --- Inquiries ---

// UpdateInquiryInput carries an admin's response to an inquiry.
type UpdateInquiryInput struct {
	ID       string
	Status   string
	Response string
}

// UpdateInquiryDeps holds dependencies for UpdateInquiry.
type UpdateInquiryDeps struct {
	InquiryStore InquiryStoreForReview
	Now          func() time.Time
}

// ExecuteUpdateInquiry records a response and stamps responded_at.
// POST: inquiry.ErrNotFound when no row has the ID
func ExecuteUpdateInquiry(ctx context.Context, input UpdateInquiryInput, deps UpdateInquiryDeps) error {
	if err := deps.InquiryStore.Respond(ctx, input.ID, input.Status, input.Response, deps.Now()); err != nil {
		if errors.Is(err, inquiry.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update inquiry: %w", err)
	}
	slog.Info("inquiry_updated", "inquiry_id", input.ID, "status", input.Status)
	return nil
}

// ExecuteDeleteInquiry removes an inquiry.
// POST: no row has the ID; deleting an absent ID succeeds
func ExecuteDeleteInquiry(ctx context.Context, id string, store InquiryStoreForReview) error {
	if err := store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	slog.Info("inquiry_deleted", "inquiry_id", id)
	return nil
}

// --- Quiz submissions ---

// ExecuteDeleteQuizSubmission removes one quiz submission.
// Unlike bookings and inquiries, an absent ID is reported.
// POST: quiz.ErrNotFound when no row has the ID
func ExecuteDeleteQuizSubmission(ctx context.Context, id string, store QuizStoreForDelete) error {
	if err := store.Delete(ctx, id); err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete quiz submission: %w", err)
	}
	slog.Info("quiz_submission_deleted", "submission_id", id)
	return nil
}
