package usecase

import (
	"context"
	"time"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

// ErrSequenceAlreadyRunning is the idempotency guard: starting a sequence
// that is already running performs no send and no counter change.
var ErrSequenceAlreadyRunning = &DomainError{
	Code:    CodeAlreadyRunning,
	Message: "sequence is already running for this lead",
}

type StartSequenceUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Logs   entity.LogRepositoryInterface
	Sender *SendEmailUseCase
	Events EventPublisherInterface
}

func NewStartSequenceUseCase(
	leads entity.LeadRepositoryInterface,
	logs entity.LogRepositoryInterface,
	sender *SendEmailUseCase,
	events EventPublisherInterface,
) *StartSequenceUseCase {
	return &StartSequenceUseCase{
		Leads:  leads,
		Logs:   logs,
		Sender: sender,
		Events: events,
	}
}

// Execute moves the lead into sequencing and immediately sends follow_up_1.
// The sequence never silently stays in 'sequencing' without having sent
// anything: a failed first send stops it (handled inside the send path).
func (uc *StartSequenceUseCase) Execute(ctx context.Context, leadID string) error {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
	}

	if lead.Status == entity.StatusSequencing {
		return ErrSequenceAlreadyRunning
	}

	now := time.Now()
	lead.Status = entity.StatusSequencing
	lead.StartedSequence = true
	lead.FollowUpsSent = 1
	lead.LastContactedAt = &now

	if err := uc.Leads.Update(ctx, lead); err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	if err := uc.Sender.Execute(ctx, lead.ID, entity.FollowUpTemplate(1)); err != nil {
		// The send path already stopped the lead and logged the cause.
		_ = uc.Logs.Create(ctx, entity.NewLogEntry(lead.ID, entity.LogSystemNote,
			"Sequence start failed",
			"Follow-up 1 could not be sent. Sequence stopped."))
		return err
	}

	_ = uc.Logs.Create(ctx, entity.NewLogEntry(lead.ID, entity.LogSequenceStarted,
		"Sequence started", "Follow-up 1 was sent successfully."))

	_ = uc.Events.Publish(ctx, "lead_sequence_started", lead)

	return nil
}
