package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Values are
// lower-case canonical; guarded transitions only move forward, the
// administrative override is the single exception.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusEscalated  TicketStatus = "escalated"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// IsTerminal reports whether no further guarded transition applies.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// TicketType classifies what the submitter is asking for.
type TicketType string

const (
	TicketTypeComplaint   TicketType = "complaint"
	TicketTypeRequest     TicketType = "request"
	TicketTypeSuggestion  TicketType = "suggestion"
	TicketTypeSurvey      TicketType = "survey"
	TicketTypeInformation TicketType = "information"
)

// TicketSource records where the submission came from.
type TicketSource string

const (
	SourceWeb      TicketSource = "web"
	SourceQR       TicketSource = "qr"
	SourceInternal TicketSource = "internal"
)

// SubmitterContact carries the identity of a non-anonymous submitter.
// A nil SubmitterContact on a Ticket means the submission is anonymous;
// no PII is stored for those tickets.
type SubmitterContact struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Ticket is the aggregate for complaints and service requests.
type Ticket struct {
	ID              string
	TicketNumber    string
	Type            TicketType
	CategoryID      *string
	Priority        TicketPriority
	UnitID          string
	AssignedTo      *string
	Title           string
	Description     string
	Status          TicketStatus
	Submitter       *SubmitterContact
	Source          TicketSource
	SLADeadline     *time.Time
	FirstResponseAt *time.Time
	ResolvedAt      *time.Time
	EscalatedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAnonymous reports whether the ticket was submitted without identity.
func (t *Ticket) IsAnonymous() bool {
	return t.Submitter == nil
}
