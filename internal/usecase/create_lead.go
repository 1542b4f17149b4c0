package usecase

import (
	"context"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

type CreateLeadInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`
	Website   string `json:"website"`
	Industry  string `json:"industry"`
	Address   string `json:"address"`
}

// CreateLeadUseCase backs direct form entry from the management UI.
type CreateLeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Logs   entity.LogRepositoryInterface
	Events EventPublisherInterface
}

func NewCreateLeadUseCase(
	leads entity.LeadRepositoryInterface,
	logs entity.LogRepositoryInterface,
	events EventPublisherInterface,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{Leads: leads, Logs: logs, Events: events}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if !isValidEmail(input.Email) {
		return nil, &DomainError{Code: CodeValidation, Message: "a valid email address is required"}
	}

	lead := entity.NewLead(input.Email, input.FirstName, input.LastName)
	lead.Company = input.Company
	lead.Role = input.Role
	lead.Phone = input.Phone
	lead.Website = input.Website
	lead.Industry = input.Industry
	lead.Address = input.Address

	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	_ = uc.Logs.Create(ctx, entity.NewLogEntry(lead.ID, entity.LogSystemNote,
		"Lead created", "Lead was added via the management UI."))
	_ = uc.Events.Publish(ctx, "lead_created", lead)

	return lead, nil
}
