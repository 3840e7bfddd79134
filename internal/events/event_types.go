package events

import (
	"time"

	"github.com/spec-kit/pengaduan-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated          EventType = "ticket_created"
	EventTicketResponded        EventType = "ticket_responded"
	EventTicketEscalated        EventType = "ticket_escalated"
	EventTicketClosed           EventType = "ticket_closed"
	EventTicketAssigned         EventType = "ticket_assigned"
	EventTicketStatusOverridden EventType = "ticket_status_overridden"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string                `json:"ticket_number"`
	UnitID       string                `json:"unit_id"`
	Type         domain.TicketType     `json:"type"`
	Priority     domain.TicketPriority `json:"priority"`
	Source       domain.TicketSource   `json:"source"`
	Anonymous    bool                  `json:"anonymous"`
}

// TicketRespondedPayload payload.
type TicketRespondedPayload struct {
	ResponseID   string              `json:"response_id"`
	ResponseType domain.ResponseType `json:"response_type"`
	IsInternal   bool                `json:"is_internal"`
	Resolved     bool                `json:"resolved"`
}

// TicketEscalatedPayload payload. CCUnits is informational only: the
// listed units are notified, nothing else happens to them.
type TicketEscalatedPayload struct {
	EscalationID string                 `json:"escalation_id"`
	FromRole     domain.StaffRole       `json:"from_role"`
	ToRole       domain.StaffRole       `json:"to_role"`
	Reason       string                 `json:"reason"`
	NewPriority  *domain.TicketPriority `json:"new_priority,omitempty"`
	CCUnits      []string               `json:"cc_units,omitempty"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	ResolutionNote string `json:"resolution_note"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedTo string `json:"assigned_to"`
}

// TicketStatusOverriddenPayload payload.
type TicketStatusOverriddenPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Note      string              `json:"note,omitempty"`
}
