package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

func TestImportLeads_SkipsRowsWithoutValidEmail(t *testing.T) {
	leads := new(MockLeadRepository)
	events := new(MockEventPublisher)
	uc := NewImportLeadsUseCase(leads, events)

	csvData := "First,Last,Email\n" +
		"Maria,Silva,maria@example.com\n" +
		"NoEmail,Person,\n" +
		"Bad,Email,not-an-email\n" +
		"Joao,,joao@example.com\n"

	leads.On("Create", mock.Anything, mock.Anything).Return(nil)
	events.On("Publish", mock.Anything, "lead_created", mock.Anything).Return(nil)

	mapping := map[int]string{0: FieldFirstName, 1: FieldLastName, 2: FieldEmail}
	res, err := uc.Execute(context.Background(), strings.NewReader(csvData), mapping)

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	leads.AssertNumberOfCalls(t, "Create", 2)
}

func TestImportLeads_StripsBOM(t *testing.T) {
	leads := new(MockLeadRepository)
	events := new(MockEventPublisher)
	uc := NewImportLeadsUseCase(leads, events)

	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Email\nbom@example.com\n")...)

	leads.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.Email == "bom@example.com"
	})).Return(nil)
	events.On("Publish", mock.Anything, "lead_created", mock.Anything).Return(nil)

	res, err := uc.Execute(context.Background(), bytes.NewReader(data), map[int]string{0: FieldEmail})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	leads.AssertExpectations(t)
}

func TestImportLeads_EmptyFile(t *testing.T) {
	leads := new(MockLeadRepository)
	events := new(MockEventPublisher)
	uc := NewImportLeadsUseCase(leads, events)

	_, err := uc.Execute(context.Background(), strings.NewReader(""), map[int]string{0: FieldEmail})

	var derr *DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeValidation, derr.Code)
}

func TestImportLeads_MarksIncompleteWhenNamesMissing(t *testing.T) {
	leads := new(MockLeadRepository)
	events := new(MockEventPublisher)
	uc := NewImportLeadsUseCase(leads, events)

	leads.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.IsIncomplete
	})).Return(nil)
	events.On("Publish", mock.Anything, "lead_created", mock.Anything).Return(nil)

	res, err := uc.Execute(context.Background(),
		strings.NewReader("Email\nanon@example.com\n"), map[int]string{0: FieldEmail})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	leads.AssertExpectations(t)
}

func TestExportLeads_WritesHeaderAndRows(t *testing.T) {
	leads := new(MockLeadRepository)
	uc := NewExportLeadsUseCase(leads)

	lead := entity.NewLead("exp@example.com", "Ex", "Port")
	lead.Company = "Acme"
	lead.Status = entity.StatusSequencing
	lead.FollowUpsSent = 2

	leads.On("List", mock.Anything, entity.LeadFilter{}).Return([]*entity.Lead{lead}, nil)

	var buf bytes.Buffer
	err := uc.Execute(context.Background(), &buf)
	assert.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, exportHeader, rows[0])
	assert.Contains(t, rows[1], "exp@example.com")
	assert.Contains(t, rows[1], "Acme")
	assert.Contains(t, rows[1], "sequencing")
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "lead_export_2026-03-14_09-30-00.csv", ExportFilename(now))
}
