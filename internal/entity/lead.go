package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeadStatus is the closed set of lifecycle states.
// new -> sequencing -> {stopped | booked}; booked -> stopped via cancellation.
// A stopped lead is never reactivated automatically.
type LeadStatus string

const (
	StatusNew        LeadStatus = "new"
	StatusSequencing LeadStatus = "sequencing"
	StatusBooked     LeadStatus = "booked"
	StatusStopped    LeadStatus = "stopped"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusSequencing, StatusBooked, StatusStopped:
		return true
	}
	return false
}

// ShowedCall tracks the call-outcome sub-state consumed by the no-show scan.
// followed_up means the no-show email already went out; the scan must never
// pick such a lead up again.
type ShowedCall string

const (
	ShowedCallUnset      ShowedCall = ""
	ShowedCallYes        ShowedCall = "yes"
	ShowedCallNo         ShowedCall = "no"
	ShowedCallFollowedUp ShowedCall = "followed_up"
)

func (s ShowedCall) Valid() bool {
	switch s {
	case ShowedCallUnset, ShowedCallYes, ShowedCallNo, ShowedCallFollowedUp:
		return true
	}
	return false
}

type Lead struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
	Role      string `json:"role,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Website   string `json:"website,omitempty"`
	Industry  string `json:"industry,omitempty"`
	Address   string `json:"address,omitempty"`

	Status          LeadStatus `json:"status"`
	StartedSequence bool       `json:"started_sequence"`
	FollowUpsSent   int        `json:"follow_ups_sent"`
	LastContactedAt *time.Time `json:"sequence_last_contacted_at,omitempty"`
	CallScheduled   bool       `json:"call_scheduled"`
	ShowedCall      ShowedCall `json:"showed_call"`
	IsIncomplete    bool       `json:"is_incomplete"`

	// Booking-integration extras (Calendly-style fields merged via the API).
	Notes     string `json:"notes,omitempty"`
	EventName string `json:"event_name,omitempty"`
	CallTime  string `json:"call_time,omitempty"`

	// Version guards the read-decide-write cycle shared by the manual
	// start path and the dispatcher runs.
	Version int  `json:"-"`
	Trashed bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLead builds a fresh lead in the 'new' state. IsIncomplete is set when
// both name parts are empty.
func NewLead(email, firstName, lastName string) *Lead {
	now := time.Now()
	return &Lead{
		ID:           uuid.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Status:       StatusNew,
		IsIncomplete: firstName == "" && lastName == "",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// DisplayName mirrors the "Last, First" convention, falling back to the email.
func (l *Lead) DisplayName() string {
	if l.FirstName != "" && l.LastName != "" {
		return l.LastName + ", " + l.FirstName
	}
	return l.Email
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindByEmail(ctx context.Context, email string) (*Lead, error)
	// Update overwrites all mutable fields guarded by the lead's version;
	// returns ErrVersionConflict when another writer got there first.
	Update(ctx context.Context, lead *Lead) error
	List(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	ListSequencing(ctx context.Context) ([]*Lead, error)
	ListNoShow(ctx context.Context) ([]*Lead, error)
	Trash(ctx context.Context, id string) error
}

// LeadFilter drives the admin list view: equality on status, substring match
// on name/email, offset pagination.
type LeadFilter struct {
	Status LeadStatus
	Search string
	Limit  int
	Offset int
}
