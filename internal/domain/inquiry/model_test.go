package inquiry_test

import (
	"testing"
	"time"

	"clansite/internal/domain/inquiry"
)

// TestInquiry_Respond verifies Respond stamps RespondedAt alongside the response.
func TestInquiry_Respond(t *testing.T) {
	created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	i := inquiry.New("i1", "Omar", "omar@example.com", "0511111111", "When is the next trial?", created)

	if i.Status != inquiry.StatusNew {
		t.Fatalf("Status = %q, want %q", i.Status, inquiry.StatusNew)
	}
	if i.IsAnswered() {
		t.Fatal("new inquiry should not be answered")
	}

	at := created.Add(time.Hour)
	i.Respond("replied", "Saturday at 8pm", at)

	if i.Status != "replied" || i.Response != "Saturday at 8pm" {
		t.Errorf("got status=%q response=%q", i.Status, i.Response)
	}
	if i.RespondedAt == nil || !i.RespondedAt.Equal(at) {
		t.Errorf("RespondedAt = %v, want %v", i.RespondedAt, at)
	}
	if !i.IsAnswered() {
		t.Error("expected inquiry to be answered")
	}
}

// TestInquiry_Validate tests validation of Inquiry.
func TestInquiry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		i       inquiry.Inquiry
		wantErr bool
	}{
		{"valid", inquiry.Inquiry{ID: "1", CreatedAt: time.Now()}, false},
		{"missing id", inquiry.Inquiry{CreatedAt: time.Now()}, true},
		{"zero created_at", inquiry.Inquiry{ID: "1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.i.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
