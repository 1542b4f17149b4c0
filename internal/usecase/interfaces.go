package usecase

import (
	"context"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

// MailService sends one HTML email. The sender identity is the
// implementation's concern (configured once at startup).
type MailService interface {
	Send(to, subject, htmlBody string) error
}

// EventPublisherInterface hands a lead event off for outbound notification
// delivery. Publishing is fire-and-forget from the engine's point of view:
// callers ignore the result.
type EventPublisherInterface interface {
	Publish(ctx context.Context, event string, lead *entity.Lead) error
}

// Settings is the read-only sequence configuration injected into the engine
// and the dispatcher use cases.
type Settings struct {
	SenderName  string
	SenderEmail string

	// MaxFollowUps bounds follow_ups_sent; HoursBetweenFollowUps is the
	// minimum gap between sends. Either value <= 0 disables automation.
	MaxFollowUps          int
	HoursBetweenFollowUps int
}
