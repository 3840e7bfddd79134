package dto

import (
	"time"

	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/sla"
)

// SubmitTicketRequest is the public submission payload.
type SubmitTicketRequest struct {
	Type             domain.TicketType     `json:"type"`
	CategoryID       *string               `json:"category_id"`
	Priority         domain.TicketPriority `json:"priority"`
	UnitID           string                `json:"unit_id"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	SubmitterName    string                `json:"submitter_name"`
	SubmitterEmail   string                `json:"submitter_email"`
	SubmitterPhone   string                `json:"submitter_phone"`
	SubmitterAddress string                `json:"submitter_address"`
	IsAnonymous      bool                  `json:"is_anonymous"`
	Source           domain.TicketSource   `json:"source"`
}

// RespondRequest is the staff response payload.
type RespondRequest struct {
	Message      string              `json:"message"`
	ResponseType domain.ResponseType `json:"response_type"`
	IsInternal   bool                `json:"is_internal"`
	MarkResolved bool                `json:"mark_resolved"`
}

// EscalateRequest is the staff escalation payload.
type EscalateRequest struct {
	ToRole      domain.StaffRole       `json:"to_role"`
	Reason      string                 `json:"reason"`
	NewPriority *domain.TicketPriority `json:"new_priority"`
	CCUnits     []string               `json:"cc_units"`
}

// CloseRequest carries the resolution note.
type CloseRequest struct {
	ResolutionNote string `json:"resolution_note"`
}

// OverrideStatusRequest is the administrative status overwrite payload.
type OverrideStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
	Note   string              `json:"note"`
}

// AssignRequest routes a ticket to a staff member.
type AssignRequest struct {
	StaffID string `json:"staff_id"`
}

// TicketPayload is the wire shape of a ticket, shared by handler
// responses and the upstream backend transport.
type TicketPayload struct {
	ID              string                  `json:"id"`
	TicketNumber    string                  `json:"ticket_number"`
	Type            domain.TicketType       `json:"type"`
	CategoryID      *string                 `json:"category_id"`
	Priority        domain.TicketPriority   `json:"priority"`
	UnitID          string                  `json:"unit_id"`
	AssignedTo      *string                 `json:"assigned_to"`
	Title           string                  `json:"title"`
	Description     string                  `json:"description"`
	Status          domain.TicketStatus     `json:"status"`
	SubmitterName   string                  `json:"submitter_name,omitempty"`
	SubmitterEmail  string                  `json:"submitter_email,omitempty"`
	SubmitterPhone  string                  `json:"submitter_phone,omitempty"`
	SubmitterAddr   string                  `json:"submitter_address,omitempty"`
	IsAnonymous     bool                    `json:"is_anonymous"`
	Source          domain.TicketSource     `json:"source"`
	SLADeadline     *time.Time              `json:"sla_deadline"`
	SLAStatus       sla.Status              `json:"sla_status"`
	SLARemaining    string                  `json:"sla_remaining"`
	FirstResponseAt *time.Time              `json:"first_response_at"`
	ResolvedAt      *time.Time              `json:"resolved_at"`
	EscalatedAt     *time.Time              `json:"escalated_at"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ResponsePayload is the wire shape of a thread response.
type ResponsePayload struct {
	ID           string              `json:"id"`
	TicketID     string              `json:"ticket_id"`
	Message      string              `json:"message"`
	ResponseType domain.ResponseType `json:"response_type"`
	IsInternal   bool                `json:"is_internal"`
	ResponderID  *string             `json:"responder_id"`
	CreatedAt    time.Time           `json:"created_at"`
}

// EscalationPayload is the wire shape of an escalation record.
type EscalationPayload struct {
	ID          string                 `json:"id"`
	TicketID    string                 `json:"ticket_id"`
	FromRole    domain.StaffRole       `json:"from_role"`
	ToRole      domain.StaffRole       `json:"to_role"`
	Reason      string                 `json:"reason"`
	NewPriority *domain.TicketPriority `json:"new_priority,omitempty"`
	CCUnits     []string               `json:"cc_units,omitempty"`
	EscalatedAt time.Time              `json:"escalated_at"`
}

// StatusLogPayload is the wire shape of an audit entry.
type StatusLogPayload struct {
	ID        string              `json:"id"`
	ChangedBy *string             `json:"changed_by"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Note      string              `json:"note"`
	CreatedAt time.Time           `json:"created_at"`
}

// TicketDetailPayload is the full staff view.
type TicketDetailPayload struct {
	TicketPayload
	Responses   []ResponsePayload   `json:"responses"`
	Escalations []EscalationPayload `json:"escalations"`
	StatusLog   []StatusLogPayload  `json:"status_log"`
}

// FromTicket maps a domain ticket onto the wire, evaluating the SLA
// with the caller's now so one listing buckets consistently.
func FromTicket(ticket *domain.Ticket, now time.Time) TicketPayload {
	eval := sla.Evaluate(ticket.SLADeadline, now)
	payload := TicketPayload{
		ID:              ticket.ID,
		TicketNumber:    ticket.TicketNumber,
		Type:            ticket.Type,
		CategoryID:      ticket.CategoryID,
		Priority:        ticket.Priority,
		UnitID:          ticket.UnitID,
		AssignedTo:      ticket.AssignedTo,
		Title:           ticket.Title,
		Description:     ticket.Description,
		Status:          ticket.Status,
		IsAnonymous:     ticket.IsAnonymous(),
		Source:          ticket.Source,
		SLADeadline:     ticket.SLADeadline,
		SLAStatus:       eval.Status,
		SLARemaining:    eval.Remaining,
		FirstResponseAt: ticket.FirstResponseAt,
		ResolvedAt:      ticket.ResolvedAt,
		EscalatedAt:     ticket.EscalatedAt,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
	if ticket.Submitter != nil {
		payload.SubmitterName = ticket.Submitter.Name
		payload.SubmitterEmail = ticket.Submitter.Email
		payload.SubmitterPhone = ticket.Submitter.Phone
		payload.SubmitterAddr = ticket.Submitter.Address
	}
	return payload
}

// ToDomain maps a wire ticket back into the domain, used when the
// upstream backend served the request.
func (p TicketPayload) ToDomain() domain.Ticket {
	ticket := domain.Ticket{
		ID:              p.ID,
		TicketNumber:    p.TicketNumber,
		Type:            p.Type,
		CategoryID:      p.CategoryID,
		Priority:        p.Priority,
		UnitID:          p.UnitID,
		AssignedTo:      p.AssignedTo,
		Title:           p.Title,
		Description:     p.Description,
		Status:          p.Status,
		Source:          p.Source,
		SLADeadline:     p.SLADeadline,
		FirstResponseAt: p.FirstResponseAt,
		ResolvedAt:      p.ResolvedAt,
		EscalatedAt:     p.EscalatedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if !p.IsAnonymous && p.SubmitterName != "" {
		ticket.Submitter = &domain.SubmitterContact{
			Name:    p.SubmitterName,
			Email:   p.SubmitterEmail,
			Phone:   p.SubmitterPhone,
			Address: p.SubmitterAddr,
		}
	}
	return ticket
}

// FromResponse maps a domain response onto the wire.
func FromResponse(response *domain.TicketResponse) ResponsePayload {
	return ResponsePayload{
		ID:           response.ID,
		TicketID:     response.TicketID,
		Message:      response.Message,
		ResponseType: response.ResponseType,
		IsInternal:   response.IsInternal,
		ResponderID:  response.ResponderID,
		CreatedAt:    response.CreatedAt,
	}
}

// ToDomain maps a wire response back into the domain.
func (p ResponsePayload) ToDomain() domain.TicketResponse {
	return domain.TicketResponse{
		ID:           p.ID,
		TicketID:     p.TicketID,
		Message:      p.Message,
		ResponseType: p.ResponseType,
		IsInternal:   p.IsInternal,
		ResponderID:  p.ResponderID,
		CreatedAt:    p.CreatedAt,
	}
}

// FromEscalation maps a domain escalation onto the wire.
func FromEscalation(escalation *domain.TicketEscalation) EscalationPayload {
	return EscalationPayload{
		ID:          escalation.ID,
		TicketID:    escalation.TicketID,
		FromRole:    escalation.FromRole,
		ToRole:      escalation.ToRole,
		Reason:      escalation.Reason,
		NewPriority: escalation.NewPriority,
		CCUnits:     escalation.CCUnits,
		EscalatedAt: escalation.EscalatedAt,
	}
}

// ToDomain maps a wire escalation back into the domain.
func (p EscalationPayload) ToDomain() domain.TicketEscalation {
	return domain.TicketEscalation{
		ID:          p.ID,
		TicketID:    p.TicketID,
		FromRole:    p.FromRole,
		ToRole:      p.ToRole,
		Reason:      p.Reason,
		NewPriority: p.NewPriority,
		CCUnits:     p.CCUnits,
		EscalatedAt: p.EscalatedAt,
	}
}

// FromStatusLog maps an audit entry onto the wire.
func FromStatusLog(entry *domain.TicketStatusLog) StatusLogPayload {
	return StatusLogPayload{
		ID:        entry.ID,
		ChangedBy: entry.ChangedBy,
		OldStatus: entry.OldStatus,
		NewStatus: entry.NewStatus,
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
	}
}
