// Package notify sends registration confirmation emails.
package notify

import (
	"context"
	"time"
)

// Message is one outgoing email.
type Message struct {
	To      []string
	From    string // Overrides the sender's default when set
	Subject string
	HTML    string
	Text    string // Plain-text fallback
	ReplyTo string
}

// Receipt is the provider's acknowledgement of a send.
type Receipt struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers email through an external provider.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
