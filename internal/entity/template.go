package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TemplateType names the purpose of an email template: follow_up_1..N or
// no_show. The engine looks templates up by type, first published match wins.
type TemplateType string

const TemplateNoShow TemplateType = "no_show"

// FollowUpTemplate returns the type for the n-th follow-up (1-based).
func FollowUpTemplate(n int) TemplateType {
	return TemplateType(fmt.Sprintf("follow_up_%d", n))
}

type EmailTemplate struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Subject   string       `json:"subject"`
	Body      string       `json:"body"`
	Type      TemplateType `json:"type"`
	Published bool         `json:"published"`
	CreatedAt time.Time    `json:"created_at"`
}

func NewEmailTemplate(name, subject, body string, ttype TemplateType) *EmailTemplate {
	return &EmailTemplate{
		ID:        uuid.New().String(),
		Name:      name,
		Subject:   subject,
		Body:      body,
		Type:      ttype,
		Published: true,
		CreatedAt: time.Now(),
	}
}

type TemplateRepositoryInterface interface {
	Create(ctx context.Context, t *EmailTemplate) error
	// FindByType returns the first published template of the given type,
	// or ErrNotFound.
	FindByType(ctx context.Context, ttype TemplateType) (*EmailTemplate, error)
	List(ctx context.Context) ([]*EmailTemplate, error)
}
