package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LogType classifies audit entries attached to a lead.
type LogType string

const (
	LogEmailSent       LogType = "email_sent"
	LogCallBooked      LogType = "call_booked"
	LogSequenceStarted LogType = "sequence_started"
	LogSystemNote      LogType = "system_note"
)

// LogEntry is an append-only audit record. The engine writes one on every
// significant transition or failure; nothing ever mutates or deletes them.
type LogEntry struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Type      LogType   `json:"type"`
	Title     string    `json:"title"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLogEntry(leadID string, ltype LogType, title, details string) *LogEntry {
	return &LogEntry{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Type:      ltype,
		Title:     title,
		Details:   details,
		CreatedAt: time.Now(),
	}
}

// APILogEntry records one REST request, success or failure.
type APILogEntry struct {
	ID        string    `json:"id"`
	Method    string    `json:"method"`
	Route     string    `json:"route"`
	Status    int       `json:"status"`
	ClientIP  string    `json:"client_ip"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAPILogEntry(method, route string, status int, clientIP string) *APILogEntry {
	return &APILogEntry{
		ID:        uuid.New().String(),
		Method:    method,
		Route:     route,
		Status:    status,
		ClientIP:  clientIP,
		CreatedAt: time.Now(),
	}
}

type LogRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntry) error
	ListByLead(ctx context.Context, leadID string) ([]*LogEntry, error)
}

type APILogRepositoryInterface interface {
	Create(ctx context.Context, entry *APILogEntry) error
}
