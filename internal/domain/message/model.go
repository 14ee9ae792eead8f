package message

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

// DefaultSenderName is used when the admin does not supply one.
const DefaultSenderName = "Clan King ESPORTS"

// Subject is the fixed subject line of every admin notice.
const Subject = "A message from Clan King ESPORTS"

// Domain errors
var (
	ErrEmptyRecipient = errors.New("recipient email is required")
	ErrEmptyBody      = errors.New("message body cannot be empty")
)

// lineBreaks turns every newline style into an HTML line break.
var lineBreaks = strings.NewReplacer("\r\n", "<br>", "\r", "<br>", "\n", "<br>")

// Message is an admin-initiated email notice to a player.
type Message struct {
	To         string
	Body       string
	SenderName string
}

// Validate checks if the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return ErrEmptyRecipient
	}
	if strings.TrimSpace(m.Body) == "" {
		return ErrEmptyBody
	}
	return nil
}

// DisplayName returns the sender name with header-breaking characters removed.
// INVARIANT: Message fields are not mutated
func (m *Message) DisplayName() string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\r', '\n', '<', '>':
			return -1
		}
		return r
	}, m.SenderName)
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultSenderName
	}
	return name
}

// From formats the From header for the given mailbox address.
func (m *Message) From(address string) string {
	return fmt.Sprintf("%q <%s>", m.DisplayName(), address)
}

// RenderHTML wraps the body in the fixed notice template.
// The body is literal text: it is HTML-escaped and nothing else is interpreted.
// POST: every newline in Body is rendered as a line break
func (m *Message) RenderHTML() (string, error) {
	var out strings.Builder
	out.WriteString(`<div dir="rtl" style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	out.WriteString(`<h2 style="color: #4f46e5;">`)
	out.WriteString(html.EscapeString(Subject))
	out.WriteString(`</h2>`)
	out.WriteString(`<div style="background-color: #f9fafb; padding: 20px; border-radius: 8px; margin-top: 20px;">`)
	out.WriteString(lineBreaks.Replace(html.EscapeString(m.Body)))
	out.WriteString(`</div>`)
	out.WriteString(`<p style="margin-top: 30px; color: #6b7280; font-size: 14px;">`)
	out.WriteString(`This message was sent by the Clan King ESPORTS system. Please do not reply to this email.`)
	out.WriteString(`</p></div>`)
	return out.String(), nil
}
