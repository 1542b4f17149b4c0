package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

func newUpsertFixture() (*UpsertLeadUseCase, *MockLeadRepository, *MockLogRepository, *MockEventPublisher) {
	leads := new(MockLeadRepository)
	logs := new(MockLogRepository)
	events := new(MockEventPublisher)
	uc := NewUpsertLeadUseCase(leads, logs, events)
	return uc, leads, logs, events
}

func strPtr(s string) *string { return &s }

func TestUpsertLead_CreatesNewOnUnknownEmail(t *testing.T) {
	uc, leads, logs, events := newUpsertFixture()

	leads.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, entity.ErrNotFound)
	leads.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.Email == "new@example.com" && l.Status == entity.StatusBooked && l.CallScheduled
	})).Return(nil)
	logs.On("Create", mock.Anything, mock.Anything).Return(nil)
	events.On("Publish", mock.Anything, "lead_created", mock.Anything).Return(nil)

	out, err := uc.Execute(context.Background(), UpsertLeadInput{
		Email: "new@example.com",
		Event: EventInviteeCreated,
		LeadFields: LeadFields{
			FirstName: strPtr("Nova"),
			Company:   strPtr("Acme"),
		},
	})

	assert.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, "Nova", out.Lead.FirstName)
	assert.Equal(t, "Acme", out.Lead.Company)
	assert.False(t, out.Lead.IsIncomplete)
	events.AssertExpectations(t)
}

func TestUpsertLead_BooksExistingLead(t *testing.T) {
	uc, leads, logs, events := newUpsertFixture()

	lead := entity.NewLead("known@example.com", "Known", "Lead")
	lead.Status = entity.StatusSequencing

	leads.On("FindByEmail", mock.Anything, "known@example.com").Return(lead, nil)
	leads.On("Update", mock.Anything, lead).Return(nil)
	logs.On("Create", mock.Anything, mock.MatchedBy(func(e *entity.LogEntry) bool {
		return e.Type == entity.LogCallBooked
	})).Return(nil)
	events.On("Publish", mock.Anything, "lead_booked", lead).Return(nil)

	out, err := uc.Execute(context.Background(), UpsertLeadInput{
		Email: "known@example.com",
		Event: EventInviteeCreated,
	})

	assert.NoError(t, err)
	assert.False(t, out.Created)
	assert.Equal(t, entity.StatusBooked, lead.Status)
	assert.True(t, lead.CallScheduled)
	assert.Equal(t, entity.ShowedCallUnset, lead.ShowedCall)
	events.AssertExpectations(t)
}

func TestUpsertLead_CancellationStopsExistingLead(t *testing.T) {
	uc, leads, logs, events := newUpsertFixture()

	lead := entity.NewLead("cancel@example.com", "Can", "Cel")
	lead.Status = entity.StatusBooked
	lead.CallScheduled = true

	leads.On("FindByEmail", mock.Anything, "cancel@example.com").Return(lead, nil)
	leads.On("Update", mock.Anything, lead).Return(nil)
	logs.On("Create", mock.Anything, mock.MatchedBy(func(e *entity.LogEntry) bool {
		return e.Type == entity.LogSystemNote
	})).Return(nil)

	out, err := uc.Execute(context.Background(), UpsertLeadInput{
		Email: "cancel@example.com",
		Event: EventInviteeCanceled,
	})

	assert.NoError(t, err)
	assert.False(t, out.Created)
	assert.Equal(t, entity.StatusStopped, lead.Status)
	assert.False(t, lead.CallScheduled)
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsertLead_CancellationForUnknownLeadStaysNew(t *testing.T) {
	uc, leads, logs, events := newUpsertFixture()

	leads.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, entity.ErrNotFound)
	leads.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.Status == entity.StatusNew && !l.CallScheduled
	})).Return(nil)
	logs.On("Create", mock.Anything, mock.Anything).Return(nil)
	events.On("Publish", mock.Anything, "lead_created", mock.Anything).Return(nil)

	out, err := uc.Execute(context.Background(), UpsertLeadInput{
		Email: "ghost@example.com",
		Event: EventInviteeCanceled,
	})

	assert.NoError(t, err)
	assert.True(t, out.Created)
}

func TestUpsertLead_RejectsInvalidEmail(t *testing.T) {
	uc, leads, _, _ := newUpsertFixture()

	_, err := uc.Execute(context.Background(), UpsertLeadInput{Email: "garbage"})

	var derr *DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeValidation, derr.Code)
	leads.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestUpsertLead_IgnoresInvalidShowedCallValue(t *testing.T) {
	uc, leads, logs, _ := newUpsertFixture()

	lead := entity.NewLead("sc@example.com", "S", "C")
	lead.ShowedCall = entity.ShowedCallYes

	leads.On("FindByEmail", mock.Anything, "sc@example.com").Return(lead, nil)
	leads.On("Update", mock.Anything, lead).Return(nil)
	logs.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Execute(context.Background(), UpsertLeadInput{
		Email:      "sc@example.com",
		Event:      "some.other.event",
		LeadFields: LeadFields{ShowedCall: strPtr("maybe")},
	})

	assert.NoError(t, err)
	// Unknown enum values are dropped, unknown events leave status alone.
	assert.Equal(t, entity.ShowedCallYes, out.Lead.ShowedCall)
	assert.Equal(t, entity.StatusNew, out.Lead.Status)
}
