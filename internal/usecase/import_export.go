package usecase

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

// Importable field keys, as offered in the column-mapping step.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldCompany   = "company"
	FieldRole      = "role"
	FieldIndustry  = "industry"
	FieldAddress   = "address"
	FieldPhone     = "phone"
	FieldWebsite   = "website"
)

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportLeadsUseCase runs the one-pass CSV import. The caller supplies a
// column-index to field-key mapping; rows without a valid email are skipped
// and counted. Every imported lead starts 'new' with a zero counter.
type ImportLeadsUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Events EventPublisherInterface
}

func NewImportLeadsUseCase(
	leads entity.LeadRepositoryInterface,
	events EventPublisherInterface,
) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{Leads: leads, Events: events}
}

func (uc *ImportLeadsUseCase) Execute(ctx context.Context, r io.Reader, mapping map[int]string) (ImportResult, error) {
	var res ImportResult

	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1

	// Header row carries no data.
	if _, err := reader.Read(); err != nil {
		return res, &DomainError{Code: CodeValidation, Message: "the CSV file is empty or its header row could not be read"}
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped++
			continue
		}

		lead := entity.NewLead("", "", "")
		for idx, field := range mapping {
			if idx < 0 || idx >= len(row) {
				continue
			}
			setLeadField(lead, field, row[idx])
		}

		if !isValidEmail(lead.Email) {
			res.Skipped++
			continue
		}
		lead.IsIncomplete = lead.FirstName == "" && lead.LastName == ""

		if err := uc.Leads.Create(ctx, lead); err != nil {
			res.Skipped++
			continue
		}
		_ = uc.Events.Publish(ctx, "lead_created", lead)
		res.Imported++
	}

	return res, nil
}

func setLeadField(lead *entity.Lead, field, value string) {
	switch field {
	case FieldFirstName:
		lead.FirstName = value
	case FieldLastName:
		lead.LastName = value
	case FieldEmail:
		lead.Email = value
	case FieldCompany:
		lead.Company = value
	case FieldRole:
		lead.Role = value
	case FieldIndustry:
		lead.Industry = value
	case FieldAddress:
		lead.Address = value
	case FieldPhone:
		lead.Phone = value
	case FieldWebsite:
		lead.Website = value
	}
}

// stripBOM drops a UTF-8 BOM so the first header cell maps cleanly.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		br.Discard(3)
	}
	return br
}

// ExportLeadsUseCase streams every lead as CSV, one row per lead with all
// contact and tracking fields.
type ExportLeadsUseCase struct {
	Leads entity.LeadRepositoryInterface
}

func NewExportLeadsUseCase(leads entity.LeadRepositoryInterface) *ExportLeadsUseCase {
	return &ExportLeadsUseCase{Leads: leads}
}

var exportHeader = []string{
	"lead_id", "name", "first_name", "last_name", "email", "role", "company",
	"industry", "address", "phone", "website", "status", "started_sequence",
	"sequence_last_contacted_at", "follow_ups_sent", "call_scheduled",
	"showed_call", "is_incomplete", "event_name", "call_time", "notes",
}

func (uc *ExportLeadsUseCase) Execute(ctx context.Context, w io.Writer) error {
	leads, err := uc.Leads.List(ctx, entity.LeadFilter{})
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	for _, l := range leads {
		lastContact := ""
		if l.LastContactedAt != nil {
			lastContact = l.LastContactedAt.Format("2006-01-02 15:04:05")
		}
		row := []string{
			l.ID, l.DisplayName(), l.FirstName, l.LastName, l.Email, l.Role,
			l.Company, l.Industry, l.Address, l.Phone, l.Website,
			string(l.Status), strconv.FormatBool(l.StartedSequence),
			lastContact, fmt.Sprintf("%d", l.FollowUpsSent),
			strconv.FormatBool(l.CallScheduled), string(l.ShowedCall),
			strconv.FormatBool(l.IsIncomplete), l.EventName, l.CallTime, l.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFilename builds the timestamped attachment name.
func ExportFilename(now time.Time) string {
	return "lead_export_" + now.Format("2006-01-02_15-04-05") + ".csv"
}
