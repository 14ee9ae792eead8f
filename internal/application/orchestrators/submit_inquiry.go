package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clansite/internal/domain/inquiry"
)

// InquiryStoreForSubmit defines the store interface needed by SubmitInquiry.
type InquiryStoreForSubmit interface {
	Save(ctx context.Context, i inquiry.Inquiry) error
}

// SubmitInquiryInput carries a contact-form message.
type SubmitInquiryInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// SubmitInquiryDeps holds dependencies for SubmitInquiry.
type SubmitInquiryDeps struct {
	InquiryStore InquiryStoreForSubmit
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSubmitInquiry records a contact-form message.
// POST: an inquiry with status "new" and no response is persisted
func ExecuteSubmitInquiry(ctx context.Context, input SubmitInquiryInput, deps SubmitInquiryDeps) (inquiry.Inquiry, error) {
	i := inquiry.New(deps.GenerateID(), input.Name, input.Email, input.Phone, input.Message, deps.Now())
	if err := deps.InquiryStore.Save(ctx, i); err != nil {
		return inquiry.Inquiry{}, fmt.Errorf("save inquiry: %w", err)
	}
	slog.Info("inquiry_submitted", "inquiry_id", i.ID)
	return i, nil
}
