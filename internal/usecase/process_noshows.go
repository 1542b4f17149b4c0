package usecase

import (
	"context"
	"errors"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

// NoShowResult reports what one no-show scan did.
type NoShowResult struct {
	Sent   int
	Failed int
}

// ProcessNoShowsUseCase is the body of the periodic no-show job. A failed
// send leaves showed_call at 'no', so the next scan retries; this is the
// system's only retry mechanism and it is deliberately unbounded.
type ProcessNoShowsUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Logs   entity.LogRepositoryInterface
	Sender *SendEmailUseCase
}

func NewProcessNoShowsUseCase(
	leads entity.LeadRepositoryInterface,
	logs entity.LogRepositoryInterface,
	sender *SendEmailUseCase,
) *ProcessNoShowsUseCase {
	return &ProcessNoShowsUseCase{Leads: leads, Logs: logs, Sender: sender}
}

func (uc *ProcessNoShowsUseCase) Execute(ctx context.Context) (NoShowResult, error) {
	var res NoShowResult

	// Exactly showed_call == 'no'; leads already followed_up are excluded.
	leads, err := uc.Leads.ListNoShow(ctx)
	if err != nil {
		return res, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	for _, lead := range leads {
		if err := uc.Sender.Execute(ctx, lead.ID, entity.TemplateNoShow); err != nil {
			res.Failed++
			continue
		}

		// Mark followed_up so the next scan never re-sends. The marker
		// must not be lost to a concurrent writer: one retry on conflict.
		if err := uc.markFollowedUp(ctx, lead.ID); err != nil {
			return res, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
		}

		_ = uc.Logs.Create(ctx, entity.NewLogEntry(lead.ID, entity.LogEmailSent,
			"No-show email sent", "Sent automatically by the dispatcher."))
		res.Sent++
	}

	return res, nil
}

func (uc *ProcessNoShowsUseCase) markFollowedUp(ctx context.Context, leadID string) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		var fresh *entity.Lead
		fresh, err = uc.Leads.FindByID(ctx, leadID)
		if err != nil {
			return err
		}
		fresh.ShowedCall = entity.ShowedCallFollowedUp
		err = uc.Leads.Update(ctx, fresh)
		if err == nil || !errors.Is(err, entity.ErrVersionConflict) {
			return err
		}
	}
	return err
}
