package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

// SendEmailUseCase is the shared send path used by sequence start, the
// follow-up dispatcher and the no-show scan. Every failure mode fails closed:
// the lead is stopped, a system note explains why, and the error is returned
// for the caller to inspect. Nothing here panics past the engine boundary.
type SendEmailUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Templates entity.TemplateRepositoryInterface
	Logs      entity.LogRepositoryInterface
	Mail      MailService
	Events    EventPublisherInterface
}

func NewSendEmailUseCase(
	leads entity.LeadRepositoryInterface,
	templates entity.TemplateRepositoryInterface,
	logs entity.LogRepositoryInterface,
	mailService MailService,
	events EventPublisherInterface,
) *SendEmailUseCase {
	return &SendEmailUseCase{
		Leads:     leads,
		Templates: templates,
		Logs:      logs,
		Mail:      mailService,
		Events:    events,
	}
}

// Execute looks up the lead and the template, personalizes subject and body,
// and sends. Returns nil only when the mail went out.
func (uc *SendEmailUseCase) Execute(ctx context.Context, leadID string, ttype entity.TemplateType) error {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		uc.note(ctx, leadID, "Send failure", "Lead not found.")
		return &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
	}

	if !isValidEmail(lead.Email) {
		uc.note(ctx, lead.ID, "Send failure", "No valid email address for this lead.")
		uc.stopLead(ctx, lead.ID)
		return &DomainError{Code: CodeInvalidEmail, Message: "lead has no valid email address"}
	}

	tmpl, err := uc.Templates.FindByType(ctx, ttype)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			// A missing template is fatal for the sequence, not transient.
			uc.note(ctx, lead.ID, "Send failure",
				fmt.Sprintf("No email template found for type %q. Sequence stopped.", ttype))
			uc.stopLead(ctx, lead.ID)
			return &DomainError{Code: CodeTemplateMissing, Message: fmt.Sprintf("no template of type %q", ttype)}
		}
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	subject := personalize(tmpl.Subject, lead)
	body := personalize(tmpl.Body, lead)

	if err := uc.Mail.Send(lead.Email, subject, body); err != nil {
		uc.note(ctx, lead.ID, fmt.Sprintf("Send failure (%s)", ttype),
			"The email could not be delivered via SMTP: "+err.Error())
		uc.stopLead(ctx, lead.ID)
		return &DomainError{Code: CodeSendFailed, Message: "smtp delivery failed: " + err.Error()}
	}

	uc.log(ctx, entity.NewLogEntry(lead.ID, entity.LogEmailSent,
		"Email sent: "+string(ttype),
		fmt.Sprintf("To: %s, Subject: %s", lead.Email, subject)))

	// Fire-and-forget: notification failures are dropped.
	_ = uc.Events.Publish(ctx, "email_sent", lead)

	return nil
}

// stopLead forces status=stopped. One retry on a version conflict; the
// stop must not be lost to a concurrent writer.
func (uc *SendEmailUseCase) stopLead(ctx context.Context, leadID string) {
	for attempt := 0; attempt < 2; attempt++ {
		lead, err := uc.Leads.FindByID(ctx, leadID)
		if err != nil {
			return
		}
		lead.Status = entity.StatusStopped
		err = uc.Leads.Update(ctx, lead)
		if err == nil || !errors.Is(err, entity.ErrVersionConflict) {
			return
		}
	}
}

func (uc *SendEmailUseCase) note(ctx context.Context, leadID, title, details string) {
	uc.log(ctx, entity.NewLogEntry(leadID, entity.LogSystemNote, title, details))
}

func (uc *SendEmailUseCase) log(ctx context.Context, entry *entity.LogEntry) {
	if err := uc.Logs.Create(ctx, entry); err != nil {
		log.Printf("⚠️ failed to write log entry for lead %s: %v", entry.LeadID, err)
	}
}
