package orchestrators

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"clansite/internal/domain/booking"
	"clansite/internal/domain/inquiry"
	"clansite/internal/domain/quiz"
	"clansite/internal/domain/result"
)

// BookingLister lists bookings newest first.
type BookingLister interface {
	List(ctx context.Context) ([]booking.Booking, error)
}

// InquiryLister lists inquiries newest first.
type InquiryLister interface {
	List(ctx context.Context) ([]inquiry.Inquiry, error)
}

// ResultLister lists results newest first.
type ResultLister interface {
	List(ctx context.Context) ([]result.Result, error)
}

// QuizLister lists quiz submissions newest first.
type QuizLister interface {
	List(ctx context.Context) ([]quiz.Submission, error)
}

// AdminData is everything the admin dashboard shows.
type AdminData struct {
	Bookings  []booking.Booking
	Inquiries []inquiry.Inquiry
	Results   []result.Result
	Quizzes   []quiz.Submission
}

// ListAllDeps holds dependencies for ListAll.
type ListAllDeps struct {
	Bookings  BookingLister
	Inquiries InquiryLister
	Results   ResultLister
	Quizzes   QuizLister
}

// ExecuteListAll reads the four collections concurrently.
// POST: all four lists, each non-nil, or the first error; never a partial view
func ExecuteListAll(ctx context.Context, deps ListAllDeps) (AdminData, error) {
	var data AdminData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := deps.Bookings.List(gctx)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		data.Bookings = nonNil(v)
		return nil
	})
	g.Go(func() error {
		v, err := deps.Inquiries.List(gctx)
		if err != nil {
			return fmt.Errorf("list inquiries: %w", err)
		}
		data.Inquiries = nonNil(v)
		return nil
	})
	g.Go(func() error {
		v, err := deps.Results.List(gctx)
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}
		data.Results = nonNil(v)
		return nil
	})
	g.Go(func() error {
		v, err := deps.Quizzes.List(gctx)
		if err != nil {
			return fmt.Errorf("list quiz submissions: %w", err)
		}
		data.Quizzes = nonNil(v)
		return nil
	})

	if err := g.Wait(); err != nil {
		return AdminData{}, err
	}
	return data, nil
}

// nonNil keeps empty collections serialising as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
