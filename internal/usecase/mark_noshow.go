package usecase

import (
	"context"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

// MarkNoShowUseCase flags a lead as a no-show. No email goes out here; the
// periodic no-show scan picks the lead up on its next run.
type MarkNoShowUseCase struct {
	Leads entity.LeadRepositoryInterface
	Logs  entity.LogRepositoryInterface
}

func NewMarkNoShowUseCase(
	leads entity.LeadRepositoryInterface,
	logs entity.LogRepositoryInterface,
) *MarkNoShowUseCase {
	return &MarkNoShowUseCase{Leads: leads, Logs: logs}
}

func (uc *MarkNoShowUseCase) Execute(ctx context.Context, leadID string) error {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
	}

	lead.ShowedCall = entity.ShowedCallNo
	if err := uc.Leads.Update(ctx, lead); err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	_ = uc.Logs.Create(ctx, entity.NewLogEntry(lead.ID, entity.LogSystemNote,
		"Marked as no-show", "Waiting for the automated no-show follow-up."))

	return nil
}
