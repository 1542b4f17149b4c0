package usecase

import (
	"context"
	"strings"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

// Booking events accepted from the external scheduler integration.
const (
	EventInviteeCreated  = "invitee.created"
	EventInviteeCanceled = "invitee.canceled"
)

// LeadFields is the allow-listed set of attributes external callers may set.
// Pointers distinguish "not sent" from "sent empty".
type LeadFields struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Company    *string `json:"company"`
	Role       *string `json:"role"`
	ShowedCall *string `json:"showed_call"`
	Notes      *string `json:"notes"`
	EventType  *string `json:"event_type"`
	TimeCall   *string `json:"time_call"`
}

type UpsertLeadInput struct {
	Email string `json:"email"`
	Event string `json:"event"`
	LeadFields
}

type UpsertLeadOutput struct {
	Lead    *entity.Lead
	Created bool
}

// UpsertLeadUseCase is the at-most-one-lead-per-email upsert behind
// POST /leads/create, keyed on exact email match (first match wins).
type UpsertLeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Logs   entity.LogRepositoryInterface
	Events EventPublisherInterface
}

func NewUpsertLeadUseCase(
	leads entity.LeadRepositoryInterface,
	logs entity.LogRepositoryInterface,
	events EventPublisherInterface,
) *UpsertLeadUseCase {
	return &UpsertLeadUseCase{Leads: leads, Logs: logs, Events: events}
}

func (uc *UpsertLeadUseCase) Execute(ctx context.Context, input UpsertLeadInput) (*UpsertLeadOutput, error) {
	if !isValidEmail(input.Email) {
		return nil, &DomainError{Code: CodeValidation, Message: "email is required and must be valid"}
	}

	// Callers that omit the event mean a plain booking creation.
	event := input.Event
	if event == "" {
		event = EventInviteeCreated
	}

	lead, err := uc.Leads.FindByEmail(ctx, input.Email)
	if err == nil {
		return uc.updateExisting(ctx, lead, event, input.LeadFields)
	}

	return uc.createNew(ctx, input.Email, event, input.LeadFields)
}

func (uc *UpsertLeadUseCase) updateExisting(ctx context.Context, lead *entity.Lead, event string, fields LeadFields) (*UpsertLeadOutput, error) {
	applied := applyLeadFields(lead, fields)

	switch event {
	case EventInviteeCreated:
		lead.Status = entity.StatusBooked
		lead.CallScheduled = true
		lead.ShowedCall = entity.ShowedCallUnset
	case EventInviteeCanceled:
		lead.Status = entity.StatusStopped
		lead.CallScheduled = false
		lead.ShowedCall = entity.ShowedCallUnset
	}

	if err := uc.Leads.Update(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	switch event {
	case EventInviteeCreated:
		_ = uc.Logs.Create(ctx, entity.NewLogEntry(lead.ID, entity.LogCallBooked,
			"Call booked (REST API)", "Call booked via upsert. Fields: "+strings.Join(applied, ", ")))
		_ = uc.Events.Publish(ctx, "lead_booked", lead)
	case EventInviteeCanceled:
		_ = uc.Logs.Create(ctx, entity.NewLogEntry(lead.ID, entity.LogSystemNote,
			"Call canceled (REST API)", "Call canceled via upsert. Sequence stopped. Fields: "+strings.Join(applied, ", ")))
	default:
		_ = uc.Logs.Create(ctx, entity.NewLogEntry(lead.ID, entity.LogSystemNote,
			"Lead updated (REST API)", "Existing lead updated via upsert. Fields: "+strings.Join(applied, ", ")))
	}

	return &UpsertLeadOutput{Lead: lead, Created: false}, nil
}

func (uc *UpsertLeadUseCase) createNew(ctx context.Context, email, event string, fields LeadFields) (*UpsertLeadOutput, error) {
	lead := entity.NewLead(email, deref(fields.FirstName), deref(fields.LastName))
	applyLeadFields(lead, fields)
	// applyLeadFields may have merged names; recompute the incomplete flag.
	lead.IsIncomplete = lead.FirstName == "" && lead.LastName == ""

	// A cancellation for an unknown lead makes no sense; it stays 'new'.
	if event == EventInviteeCreated {
		lead.Status = entity.StatusBooked
		lead.CallScheduled = true
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	_ = uc.Logs.Create(ctx, entity.NewLogEntry(lead.ID, entity.LogSystemNote,
		"Lead created (REST API)", "Lead was added via the /leads/create upsert endpoint."))
	_ = uc.Events.Publish(ctx, "lead_created", lead)

	return &UpsertLeadOutput{Lead: lead, Created: true}, nil
}

// applyLeadFields merges the provided fields onto the lead and returns the
// names of the fields that were set.
func applyLeadFields(lead *entity.Lead, fields LeadFields) []string {
	var applied []string
	if fields.FirstName != nil {
		lead.FirstName = *fields.FirstName
		applied = append(applied, "first_name")
	}
	if fields.LastName != nil {
		lead.LastName = *fields.LastName
		applied = append(applied, "last_name")
	}
	if fields.Company != nil {
		lead.Company = *fields.Company
		applied = append(applied, "company")
	}
	if fields.Role != nil {
		lead.Role = *fields.Role
		applied = append(applied, "role")
	}
	if fields.ShowedCall != nil {
		if sc := entity.ShowedCall(*fields.ShowedCall); sc.Valid() {
			lead.ShowedCall = sc
			applied = append(applied, "showed_call")
		}
	}
	if fields.Notes != nil {
		lead.Notes = *fields.Notes
		applied = append(applied, "notes")
	}
	if fields.EventType != nil {
		lead.EventName = *fields.EventType
		applied = append(applied, "event_type")
	}
	if fields.TimeCall != nil {
		lead.CallTime = *fields.TimeCall
		applied = append(applied, "time_call")
	}
	return applied
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
