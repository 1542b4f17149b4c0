package usecase

import (
	"context"
	"strings"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

type UpdateLeadInput struct {
	Event string  `json:"event"`
	Email *string `json:"email"`
	LeadFields
}

// UpdateLeadUseCase is the allow-listed partial update behind POST /leads/{id}.
// The booking-event mapping applies here too when callers hit the lead
// directly instead of going through the upsert.
type UpdateLeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Logs   entity.LogRepositoryInterface
	Events EventPublisherInterface
}

func NewUpdateLeadUseCase(
	leads entity.LeadRepositoryInterface,
	logs entity.LogRepositoryInterface,
	events EventPublisherInterface,
) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{Leads: leads, Logs: logs, Events: events}
}

func (uc *UpdateLeadUseCase) Execute(ctx context.Context, leadID string, input UpdateLeadInput) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
	}

	applied := applyLeadFields(lead, input.LeadFields)
	if input.Email != nil {
		if !isValidEmail(*input.Email) {
			return nil, &DomainError{Code: CodeValidation, Message: "email must be valid"}
		}
		lead.Email = *input.Email
		applied = append(applied, "email")
	}

	booked := false
	switch input.Event {
	case EventInviteeCreated:
		lead.Status = entity.StatusBooked
		lead.CallScheduled = true
		lead.ShowedCall = entity.ShowedCallUnset
		booked = true
		applied = append(applied, "status")
	case EventInviteeCanceled:
		lead.Status = entity.StatusStopped
		lead.CallScheduled = false
		lead.ShowedCall = entity.ShowedCallUnset
		applied = append(applied, "status")
	}

	if len(applied) == 0 {
		return nil, &DomainError{Code: CodeNoFields, Message: "no valid fields to update"}
	}

	if err := uc.Leads.Update(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	_ = uc.Logs.Create(ctx, entity.NewLogEntry(lead.ID, entity.LogSystemNote,
		"Lead updated (REST API)", "Fields updated: "+strings.Join(applied, ", ")))

	if booked {
		_ = uc.Events.Publish(ctx, "lead_booked", lead)
	}

	return lead, nil
}
