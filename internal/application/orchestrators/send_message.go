package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clansite/internal/adapters/email"
	"clansite/internal/domain/message"
)

// ErrMissingRecipient is returned when the email address or body is absent.
var ErrMissingRecipient = errors.New("email and message are required")

// DefaultSendTimeout bounds one provider call.
const DefaultSendTimeout = 15 * time.Second

// SendMessageInput carries an admin notice to one player.
type SendMessageInput struct {
	To         string
	Body       string
	SenderName string
}

// SendMessageDeps holds dependencies for SendMessage.
type SendMessageDeps struct {
	Sender email.Sender
	// FromAddress is the mailbox part of the From header; empty lets the sender choose.
	FromAddress string
	// Dispatch runs the delivery detached from the request. Nil starts a bare goroutine.
	Dispatch func(task func())
	Timeout  time.Duration
}

// ExecuteSendMessage renders the notice and hands it off for delivery.
// Delivery runs after this returns; its failures are logged and never reported.
// PRE: deps.Sender is non-nil
// POST: nil means the notice was queued, not that it arrived
func ExecuteSendMessage(ctx context.Context, input SendMessageInput, deps SendMessageDeps) error {
	msg := message.Message{To: input.To, Body: input.Body, SenderName: input.SenderName}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingRecipient, err)
	}

	html, err := msg.RenderHTML()
	if err != nil {
		return err
	}

	req := email.SendRequest{
		To:      []string{msg.To},
		Subject: message.Subject,
		HTML:    html,
	}
	if deps.FromAddress != "" {
		req.From = msg.From(deps.FromAddress)
	}

	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	sendCtx := context.WithoutCancel(ctx)

	task := func() {
		c, cancel := context.WithTimeout(sendCtx, timeout)
		defer cancel()
		res, err := deps.Sender.Send(c, req)
		if err != nil {
			slog.Error("email_delivery_failed", "to", msg.To, "error", err)
			return
		}
		slog.Info("email_sent", "to", msg.To, "message_id", res.MessageID)
	}

	if deps.Dispatch != nil {
		deps.Dispatch(task)
	} else {
		go task()
	}
	return nil
}
