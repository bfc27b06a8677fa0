package domain

import (
	"context"
	"time"
)

// StatusOpen is the status assigned to every new ticket. Statuses may be
// changed out-of-band by operators; the triage flow itself never mutates
// a ticket after creation.
const StatusOpen = "open"

// Ticket is a persisted support case created from negative feedback.
// Number is assigned by the store at creation time and never changes.
type Ticket struct {
	Number      int64     `json:"number"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TicketStore persists support tickets. Implementations must hand out
// unique, monotonically non-decreasing ticket numbers even when
// CreateTicket is called concurrently within one process.
type TicketStore interface {
	// CreateTicket inserts a new open ticket and returns its number.
	CreateTicket(ctx context.Context, description string) (int64, error)
	// GetTicketStatus returns the current status for a ticket number.
	// Unknown numbers yield ErrTicketNotFound, never a store failure.
	GetTicketStatus(ctx context.Context, number int64) (string, error)
	// UpdateStatus changes a ticket's status (operator workflow, not
	// part of the triage flow). Unknown numbers yield ErrTicketNotFound.
	UpdateStatus(ctx context.Context, number int64, status string) error
	// List returns all tickets ordered by creation.
	List(ctx context.Context) ([]Ticket, error)
	Close() error
}
