package domain

import "time"

// TicketStatusLog is an immutable audit entry for a status change,
// including administrative overrides.
type TicketStatusLog struct {
	ID        string
	TicketID  string
	ChangedBy *string
	OldStatus TicketStatus
	NewStatus TicketStatus
	Note      string
	CreatedAt time.Time
}
