package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, first_name, last_name, email, company, role, phone,
	website, industry, address, status, started_sequence, follow_ups_sent,
	last_contacted_at, call_scheduled, showed_call, is_incomplete,
	notes, event_name, call_time, version, trashed, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
	`
	_, err := r.DB.ExecContext(ctx, query,
		lead.ID, lead.FirstName, lead.LastName, lead.Email, lead.Company,
		lead.Role, lead.Phone, lead.Website, lead.Industry, lead.Address,
		string(lead.Status), lead.StartedSequence, lead.FollowUpsSent,
		nullTime(lead.LastContactedAt), lead.CallScheduled,
		string(lead.ShowedCall), lead.IsIncomplete,
		lead.Notes, lead.EventName, lead.CallTime,
		lead.Version, lead.Trashed, lead.CreatedAt, lead.UpdatedAt,
	)
	return err
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND NOT trashed`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// FindByEmail returns the oldest matching lead: first match wins when
// duplicates exist.
func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads
		WHERE email = $1 AND NOT trashed
		ORDER BY created_at ASC LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

// Update overwrites all mutable fields. The version predicate rejects writes
// that lost the race against another writer.
func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			first_name = $1, last_name = $2, email = $3, company = $4,
			role = $5, phone = $6, website = $7, industry = $8, address = $9,
			status = $10, started_sequence = $11, follow_ups_sent = $12,
			last_contacted_at = $13, call_scheduled = $14, showed_call = $15,
			is_incomplete = $16, notes = $17, event_name = $18, call_time = $19,
			version = version + 1, updated_at = NOW()
		WHERE id = $20 AND version = $21
	`
	result, err := r.DB.ExecContext(ctx, query,
		lead.FirstName, lead.LastName, lead.Email, lead.Company,
		lead.Role, lead.Phone, lead.Website, lead.Industry, lead.Address,
		string(lead.Status), lead.StartedSequence, lead.FollowUpsSent,
		nullTime(lead.LastContactedAt), lead.CallScheduled,
		string(lead.ShowedCall), lead.IsIncomplete,
		lead.Notes, lead.EventName, lead.CallTime,
		lead.ID, lead.Version,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrVersionConflict
	}

	lead.Version++
	return nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE NOT trashed`
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.queryLeads(ctx, query, args...)
}

// ListSequencing selects the leads the follow-up job may advance: in
// 'sequencing', without a scheduled call.
func (r *LeadRepository) ListSequencing(ctx context.Context) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads
		WHERE status = $1 AND NOT call_scheduled AND NOT trashed
		ORDER BY created_at ASC`
	return r.queryLeads(ctx, query, string(entity.StatusSequencing))
}

// ListNoShow selects leads with showed_call exactly 'no'.
func (r *LeadRepository) ListNoShow(ctx context.Context) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads
		WHERE showed_call = $1 AND NOT trashed
		ORDER BY created_at ASC`
	return r.queryLeads(ctx, query, string(entity.ShowedCallNo))
}

// Trash soft-deletes; the core never hard-deletes a lead.
func (r *LeadRepository) Trash(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET trashed = TRUE, updated_at = NOW() WHERE id = $1 AND NOT trashed`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *LeadRepository) queryLeads(ctx context.Context, query string, args ...interface{}) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *LeadRepository) scanOne(row *sql.Row) (*entity.Lead, error) {
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	return lead, err
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var status, showedCall string
	var lastContacted sql.NullTime

	err := row.Scan(
		&lead.ID, &lead.FirstName, &lead.LastName, &lead.Email, &lead.Company,
		&lead.Role, &lead.Phone, &lead.Website, &lead.Industry, &lead.Address,
		&status, &lead.StartedSequence, &lead.FollowUpsSent,
		&lastContacted, &lead.CallScheduled, &showedCall, &lead.IsIncomplete,
		&lead.Notes, &lead.EventName, &lead.CallTime,
		&lead.Version, &lead.Trashed, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Status = entity.LeadStatus(status)
	lead.ShowedCall = entity.ShowedCall(showedCall)
	if lastContacted.Valid {
		t := lastContacted.Time
		lead.LastContactedAt = &t
	}
	return &lead, nil
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
