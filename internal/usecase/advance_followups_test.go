package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

func newAdvanceFixture(settings Settings) (*AdvanceFollowUpsUseCase, *MockLeadRepository, *MockTemplateRepository, *MockLogRepository, *MockMailService) {
	leads := new(MockLeadRepository)
	templates := new(MockTemplateRepository)
	logs := new(MockLogRepository)
	mailSvc := new(MockMailService)
	events := new(MockEventPublisher)
	events.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	sender := NewSendEmailUseCase(leads, templates, logs, mailSvc, events)
	uc := NewAdvanceFollowUpsUseCase(leads, logs, sender, settings)
	return uc, leads, templates, logs, mailSvc
}

func defaultSettings() Settings {
	return Settings{MaxFollowUps: 5, HoursBetweenFollowUps: 24}
}

func sequencingLead(email string, sent int, lastContacted time.Duration) *entity.Lead {
	lead := entity.NewLead(email, "Test", "Lead")
	lead.Status = entity.StatusSequencing
	lead.StartedSequence = true
	lead.FollowUpsSent = sent
	at := time.Now().Add(-lastContacted)
	lead.LastContactedAt = &at
	return lead
}

func TestAdvanceFollowUps_SendsNextWhenDue(t *testing.T) {
	uc, leads, templates, logs, mailSvc := newAdvanceFixture(defaultSettings())

	lead := sequencingLead("due@example.com", 2, 25*time.Hour)

	leads.On("ListSequencing", mock.Anything).Return([]*entity.Lead{lead}, nil)
	leads.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	templates.On("FindByType", mock.Anything, entity.FollowUpTemplate(3)).Return(
		entity.NewEmailTemplate("Third", "Checking in", "body", entity.FollowUpTemplate(3)), nil)
	mailSvc.On("Send", "due@example.com", "Checking in", "body").Return(nil)
	leads.On("Update", mock.Anything, lead).Return(nil)
	logs.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, AdvanceResult{Advanced: 1}, res)
	assert.Equal(t, 3, lead.FollowUpsSent)
	mailSvc.AssertExpectations(t)
}

func TestAdvanceFollowUps_SkipsWhenNotDue(t *testing.T) {
	uc, leads, _, _, mailSvc := newAdvanceFixture(defaultSettings())

	lead := sequencingLead("fresh@example.com", 1, 2*time.Hour)

	leads.On("ListSequencing", mock.Anything).Return([]*entity.Lead{lead}, nil)

	res, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, AdvanceResult{Skipped: 1}, res)
	assert.Equal(t, 1, lead.FollowUpsSent)
	mailSvc.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdvanceFollowUps_StopsAtMax(t *testing.T) {
	uc, leads, _, logs, mailSvc := newAdvanceFixture(defaultSettings())

	lead := sequencingLead("max@example.com", 5, 48*time.Hour)

	leads.On("ListSequencing", mock.Anything).Return([]*entity.Lead{lead}, nil)
	leads.On("Update", mock.Anything, lead).Return(nil)
	logs.On("Create", mock.Anything, mock.MatchedBy(func(e *entity.LogEntry) bool {
		return e.Type == entity.LogSystemNote && e.Title == "Sequence stopped"
	})).Return(nil)

	res, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, AdvanceResult{Stopped: 1}, res)
	assert.Equal(t, entity.StatusStopped, lead.Status)
	mailSvc.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	logs.AssertExpectations(t)
}

func TestAdvanceFollowUps_DisabledSettingsNoOp(t *testing.T) {
	uc, leads, _, _, _ := newAdvanceFixture(Settings{MaxFollowUps: 0, HoursBetweenFollowUps: 24})

	res, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, AdvanceResult{}, res)
	leads.AssertNotCalled(t, "ListSequencing", mock.Anything)
}

func TestAdvanceFollowUps_NilLastContactedCountsAsDue(t *testing.T) {
	uc, leads, templates, logs, mailSvc := newAdvanceFixture(defaultSettings())

	lead := sequencingLead("never@example.com", 1, 0)
	lead.LastContactedAt = nil

	leads.On("ListSequencing", mock.Anything).Return([]*entity.Lead{lead}, nil)
	leads.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	templates.On("FindByType", mock.Anything, entity.FollowUpTemplate(2)).Return(
		entity.NewEmailTemplate("Second", "Subject", "body", entity.FollowUpTemplate(2)), nil)
	mailSvc.On("Send", "never@example.com", "Subject", "body").Return(nil)
	leads.On("Update", mock.Anything, lead).Return(nil)
	logs.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, AdvanceResult{Advanced: 1}, res)
	assert.NotNil(t, lead.LastContactedAt)
}

func TestAdvanceFollowUps_SendFailureCountsFailed(t *testing.T) {
	uc, leads, templates, logs, mailSvc := newAdvanceFixture(defaultSettings())

	lead := sequencingLead("fail@example.com", 1, 30*time.Hour)

	leads.On("ListSequencing", mock.Anything).Return([]*entity.Lead{lead}, nil)
	leads.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	templates.On("FindByType", mock.Anything, entity.FollowUpTemplate(2)).Return(nil, entity.ErrNotFound)
	logs.On("Create", mock.Anything, mock.Anything).Return(nil)
	leads.On("Update", mock.Anything, lead).Return(nil)

	res, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, AdvanceResult{Failed: 1}, res)
	assert.Equal(t, entity.StatusStopped, lead.Status)
	assert.Equal(t, 1, lead.FollowUpsSent)
	mailSvc.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}
