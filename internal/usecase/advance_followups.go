package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

// AdvanceResult reports what one follow-up scan did.
type AdvanceResult struct {
	Advanced int // follow-ups sent
	Stopped  int // sequences stopped at the max
	Skipped  int // not yet due, or lost to another writer
	Failed   int // send failures (the send path stopped those leads)
}

// AdvanceFollowUpsUseCase is the body of the periodic follow-up job. It is a
// due-date poll, not a precise timer: sends drift up to one scan interval.
type AdvanceFollowUpsUseCase struct {
	Leads    entity.LeadRepositoryInterface
	Logs     entity.LogRepositoryInterface
	Sender   *SendEmailUseCase
	Settings Settings
}

func NewAdvanceFollowUpsUseCase(
	leads entity.LeadRepositoryInterface,
	logs entity.LogRepositoryInterface,
	sender *SendEmailUseCase,
	settings Settings,
) *AdvanceFollowUpsUseCase {
	return &AdvanceFollowUpsUseCase{
		Leads:    leads,
		Logs:     logs,
		Sender:   sender,
		Settings: settings,
	}
}

func (uc *AdvanceFollowUpsUseCase) Execute(ctx context.Context) (AdvanceResult, error) {
	var res AdvanceResult

	// Automation disabled in settings.
	if uc.Settings.MaxFollowUps <= 0 || uc.Settings.HoursBetweenFollowUps <= 0 {
		return res, nil
	}

	gap := time.Duration(uc.Settings.HoursBetweenFollowUps) * time.Hour
	now := time.Now()

	// Leads in 'sequencing' without a booked call; a scheduled call
	// suspends further follow-ups.
	leads, err := uc.Leads.ListSequencing(ctx)
	if err != nil {
		return res, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	for _, lead := range leads {
		if lead.FollowUpsSent >= uc.Settings.MaxFollowUps {
			uc.stopAtMax(ctx, lead)
			res.Stopped++
			continue
		}

		if lead.LastContactedAt != nil && now.Sub(*lead.LastContactedAt) < gap {
			res.Skipped++
			continue
		}

		next := lead.FollowUpsSent + 1
		if err := uc.Sender.Execute(ctx, lead.ID, entity.FollowUpTemplate(next)); err != nil {
			// Already logged and stopped by the send path.
			res.Failed++
			continue
		}

		// Re-read before writing the counter: the send path may run
		// concurrently with another scan.
		fresh, err := uc.Leads.FindByID(ctx, lead.ID)
		if err != nil {
			res.Skipped++
			continue
		}
		sentAt := time.Now()
		fresh.FollowUpsSent = next
		fresh.LastContactedAt = &sentAt
		if err := uc.Leads.Update(ctx, fresh); err != nil {
			if errors.Is(err, entity.ErrVersionConflict) {
				res.Skipped++
				continue
			}
			return res, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
		}

		_ = uc.Logs.Create(ctx, entity.NewLogEntry(lead.ID, entity.LogSystemNote,
			fmt.Sprintf("Follow-up %d sent", next),
			"Sent automatically by the dispatcher."))
		res.Advanced++
	}

	return res, nil
}

func (uc *AdvanceFollowUpsUseCase) stopAtMax(ctx context.Context, lead *entity.Lead) {
	lead.Status = entity.StatusStopped
	if err := uc.Leads.Update(ctx, lead); err != nil {
		// Lost to another writer; the next scan settles it.
		return
	}
	_ = uc.Logs.Create(ctx, entity.NewLogEntry(lead.ID, entity.LogSystemNote,
		"Sequence stopped", "Maximum number of follow-ups reached."))
}
