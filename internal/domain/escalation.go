package domain

import "time"

// TicketEscalation is an append-only record of a hand-off to a higher
// role. Creating one is coupled with flipping the parent ticket to
// the escalated status.
type TicketEscalation struct {
	ID          string
	TicketID    string
	FromRole    StaffRole
	ToRole      StaffRole
	Reason      string
	NewPriority *TicketPriority
	CCUnits     []string
	EscalatedAt time.Time
}
