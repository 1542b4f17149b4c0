package database

import (
	"context"
	"database/sql"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

type TemplateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

func (r *TemplateRepository) Create(ctx context.Context, t *entity.EmailTemplate) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO email_templates (id, name, subject, body, type, published, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.ID, t.Name, t.Subject, t.Body, string(t.Type), t.Published, t.CreatedAt)
	return err
}

// FindByType returns the first published template of the given type. The
// oldest wins if duplicates exist, keeping lookups deterministic.
func (r *TemplateRepository) FindByType(ctx context.Context, ttype entity.TemplateType) (*entity.EmailTemplate, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, name, subject, body, type, published, created_at
		FROM email_templates
		WHERE type = $1 AND published
		ORDER BY created_at ASC
		LIMIT 1
	`, string(ttype))

	return scanTemplate(row)
}

func (r *TemplateRepository) List(ctx context.Context) ([]*entity.EmailTemplate, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, subject, body, type, published, created_at
		FROM email_templates
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*entity.EmailTemplate
	for rows.Next() {
		var t entity.EmailTemplate
		var ttype string
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &ttype, &t.Published, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Type = entity.TemplateType(ttype)
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

func scanTemplate(row *sql.Row) (*entity.EmailTemplate, error) {
	var t entity.EmailTemplate
	var ttype string
	err := row.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &ttype, &t.Published, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Type = entity.TemplateType(ttype)
	return &t, nil
}
