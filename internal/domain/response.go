package domain

import "time"

// ResponseType differentiates staff replies on a ticket thread.
type ResponseType string

const (
	ResponseTypeComment    ResponseType = "comment"
	ResponseTypeResolution ResponseType = "resolution"
	ResponseTypeClosing    ResponseType = "closing"
)

// TicketResponse is an append-only message attached to a ticket.
// Responses are never mutated or deleted.
type TicketResponse struct {
	ID           string
	TicketID     string
	Message      string
	ResponseType ResponseType
	IsInternal   bool
	ResponderID  *string
	CreatedAt    time.Time
}
