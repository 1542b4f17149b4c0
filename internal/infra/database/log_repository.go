package database

import (
	"context"
	"database/sql"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

type LogRepository struct {
	DB *sql.DB
}

func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{DB: db}
}

// Create appends one audit entry. There is no update or delete path.
func (r *LogRepository) Create(ctx context.Context, entry *entity.LogEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO lead_logs (id, lead_id, type, title, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.LeadID, string(entry.Type), entry.Title, entry.Details, entry.CreatedAt)
	return err
}

func (r *LogRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.LogEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, lead_id, type, title, details, created_at
		FROM lead_logs
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*entity.LogEntry
	for rows.Next() {
		var e entity.LogEntry
		var ltype string
		if err := rows.Scan(&e.ID, &e.LeadID, &ltype, &e.Title, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Type = entity.LogType(ltype)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

type APILogRepository struct {
	DB *sql.DB
}

func NewAPILogRepository(db *sql.DB) *APILogRepository {
	return &APILogRepository{DB: db}
}

func (r *APILogRepository) Create(ctx context.Context, entry *entity.APILogEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO api_logs (id, method, route, status, client_ip, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.Method, entry.Route, entry.Status, entry.ClientIP, entry.Details, entry.CreatedAt)
	return err
}
