package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/events"
	"github.com/spec-kit/pengaduan-service/internal/repository"
	apperrors "github.com/spec-kit/pengaduan-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle: submission, guarded
// transitions (respond, escalate, close, assign) and the administrative
// status override.
type TicketService struct {
	tickets     repository.TicketRepository
	responses   repository.ResponseRepository
	escalations repository.EscalationRepository
	statusLogs  repository.StatusLogRepository
	reference   repository.ReferenceRepository
	staff       repository.StaffRepository
	numbers     NumberGenerator
	dispatcher  events.Dispatcher
	slaWindow   time.Duration
	now         func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	ResponseRepo   repository.ResponseRepository
	EscalationRepo repository.EscalationRepository
	StatusLogRepo  repository.StatusLogRepository
	ReferenceRepo  repository.ReferenceRepository
	StaffRepo      repository.StaffRepository
	Numbers        NumberGenerator
	Dispatcher     events.Dispatcher
	SLAWindow      time.Duration
	Now            func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.SLAWindow <= 0 {
		deps.SLAWindow = 24 * time.Hour
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		responses:   deps.ResponseRepo,
		escalations: deps.EscalationRepo,
		statusLogs:  deps.StatusLogRepo,
		reference:   deps.ReferenceRepo,
		staff:       deps.StaffRepo,
		numbers:     deps.Numbers,
		dispatcher:  deps.Dispatcher,
		slaWindow:   deps.SLAWindow,
		now:         deps.Now,
	}
}

// SubmitInput describes a public or internal submission.
type SubmitInput struct {
	Type        domain.TicketType
	CategoryID  *string
	Priority    domain.TicketPriority
	UnitID      string
	Title       string
	Description string
	Submitter   *domain.SubmitterContact
	Anonymous   bool
	Source      domain.TicketSource
}

// RespondInput describes a staff response to a ticket.
type RespondInput struct {
	Message      string
	ResponseType domain.ResponseType
	IsInternal   bool
	MarkResolved bool
}

// EscalateInput describes a hand-off to a higher role.
type EscalateInput struct {
	ToRole      domain.StaffRole
	Reason      string
	NewPriority *domain.TicketPriority
	CCUnits     []string
}

// TicketDetail aggregates everything a staff dashboard shows for one ticket.
type TicketDetail struct {
	Ticket      *domain.Ticket
	Responses   []domain.TicketResponse
	Escalations []domain.TicketEscalation
	StatusLog   []domain.TicketStatusLog
}

// Submit validates the target unit and category, nulls submitter PII for
// anonymous tickets and creates the ticket with its SLA deadline fixed at
// created_at + window.
func (s *TicketService) Submit(ctx context.Context, input SubmitInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	unit, err := s.reference.GetUnitByID(ctx, input.UnitID)
	if err != nil {
		return nil, err
	}
	if !unit.IsActive {
		return nil, apperrors.NewValidationError("unit inactive", map[string]any{"unit_id": input.UnitID})
	}
	if input.CategoryID != nil {
		category, err := s.reference.GetCategoryByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if !category.IsActive {
			return nil, apperrors.NewValidationError("category inactive", map[string]any{"category_id": *input.CategoryID})
		}
	}

	submitter := input.Submitter
	if input.Anonymous {
		// anonymity is structural: no PII reaches the store
		submitter = nil
	} else if submitter == nil || strings.TrimSpace(submitter.Name) == "" {
		return nil, apperrors.NewValidationError("submitter name required unless anonymous", nil)
	}

	now := s.now().UTC()
	deadline := now.Add(s.slaWindow)
	ticket := &domain.Ticket{
		TicketNumber: s.numbers.Next(ctx, now),
		Type:         input.Type,
		CategoryID:   input.CategoryID,
		Priority:     input.Priority,
		UnitID:       input.UnitID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.TicketStatusOpen,
		Submitter:    submitter,
		Source:       input.Source,
		SLADeadline:  &deadline,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Source == "" {
		ticket.Source = domain.SourceWeb
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			UnitID:       ticket.UnitID,
			Type:         ticket.Type,
			Priority:     ticket.Priority,
			Source:       ticket.Source,
			Anonymous:    ticket.IsAnonymous(),
		},
	})
	return ticket, nil
}

// Track returns a ticket by its public number together with the
// responses visible to the submitter.
func (s *TicketService) Track(ctx context.Context, ticketNumber string) (*domain.Ticket, []domain.TicketResponse, error) {
	ticket, err := s.tickets.GetByNumber(ctx, ticketNumber)
	if err != nil {
		return nil, nil, err
	}
	all, err := s.responses.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	visible := make([]domain.TicketResponse, 0, len(all))
	for _, response := range all {
		if response.IsInternal {
			continue
		}
		visible = append(visible, response)
	}
	return ticket, visible, nil
}

// List returns tickets matching the dashboard filter.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, filter)
}

// GetDetail returns the full staff view of a ticket.
func (s *TicketService) GetDetail(ctx context.Context, ticketID string) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	escalations, err := s.escalations.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	statusLog, err := s.statusLogs.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	return &TicketDetail{
		Ticket:      ticket,
		Responses:   responses,
		Escalations: escalations,
		StatusLog:   statusLog,
	}, nil
}

// Respond appends a response to the ticket thread. The first response
// stamps first_response_at. With MarkResolved set, the ticket moves to
// resolved and resolved_at is stamped once; responding again to an
// already-resolved ticket still appends but leaves both fields alone.
func (s *TicketService) Respond(ctx context.Context, staff *domain.StaffMember, ticketID string, input RespondInput) (*domain.TicketResponse, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, apperrors.NewConflict("ticket already closed", nil)
	}

	responseType := input.ResponseType
	if responseType == "" {
		responseType = domain.ResponseTypeComment
	}
	response := &domain.TicketResponse{
		TicketID:     ticket.ID,
		Message:      strings.TrimSpace(input.Message),
		ResponseType: responseType,
		IsInternal:   input.IsInternal,
	}
	if staff != nil {
		response.ResponderID = &staff.ID
	}
	if err := s.responses.Create(ctx, response); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	oldStatus := ticket.Status
	note := ""
	dirty := false
	if ticket.FirstResponseAt == nil {
		ticket.FirstResponseAt = &now
		dirty = true
	}
	resolvedNow := false
	if input.MarkResolved && ticket.ResolvedAt == nil {
		ticket.Status = domain.TicketStatusResolved
		ticket.ResolvedAt = &now
		note = "resolved_by_response"
		dirty = true
		resolvedNow = true
	} else if ticket.Status == domain.TicketStatusOpen {
		ticket.Status = domain.TicketStatusInProgress
		note = "first_response"
		dirty = true
	}
	if dirty {
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, err
		}
		s.recordStatusChange(ctx, staffID(staff), ticket.ID, oldStatus, ticket.Status, note)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketResponded,
		TicketID: ticket.ID,
		ActorID:  staffID(staff),
		Payload: events.TicketRespondedPayload{
			ResponseID:   response.ID,
			ResponseType: response.ResponseType,
			IsInternal:   response.IsInternal,
			Resolved:     resolvedNow,
		},
	})
	return response, nil
}

// Escalate appends an escalation record and flips the ticket to
// escalated. The from_role comes from the current assignment context:
// the assignee's role when assigned, otherwise the owning unit head.
// CC units travel on the notification event only.
func (s *TicketService) Escalate(ctx context.Context, staff *domain.StaffMember, ticketID string, input EscalateInput) (*domain.TicketEscalation, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, apperrors.NewValidationError("escalation reason required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, apperrors.NewConflict("ticket already closed", nil)
	}
	// escalation would pull a resolved ticket back into the queue;
	// reopening goes through the status override instead
	if ticket.Status == domain.TicketStatusResolved {
		return nil, apperrors.NewConflict("ticket already resolved", nil)
	}

	fromRole := domain.StaffRoleUnitHead
	if ticket.AssignedTo != nil {
		if assignee, err := s.staff.GetByID(ctx, *ticket.AssignedTo); err == nil {
			fromRole = assignee.Role
		}
	} else if staff != nil {
		fromRole = staff.Role
	}

	escalation := &domain.TicketEscalation{
		TicketID:    ticket.ID,
		FromRole:    fromRole,
		ToRole:      input.ToRole,
		Reason:      strings.TrimSpace(input.Reason),
		NewPriority: input.NewPriority,
		CCUnits:     input.CCUnits,
	}
	if err := s.escalations.Create(ctx, escalation); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	oldStatus := ticket.Status
	ticket.Status = domain.TicketStatusEscalated
	ticket.EscalatedAt = &now
	if input.NewPriority != nil {
		ticket.Priority = *input.NewPriority
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.recordStatusChange(ctx, staffID(staff), ticket.ID, oldStatus, domain.TicketStatusEscalated, "escalated")

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketEscalated,
		TicketID: ticket.ID,
		ActorID:  staffID(staff),
		Payload: events.TicketEscalatedPayload{
			EscalationID: escalation.ID,
			FromRole:     escalation.FromRole,
			ToRole:       escalation.ToRole,
			Reason:       escalation.Reason,
			NewPriority:  escalation.NewPriority,
			CCUnits:      escalation.CCUnits,
		},
	})
	return escalation, nil
}

// Close appends a public closing response carrying the resolution note,
// moves the ticket to closed and stamps resolved_at when still unset.
func (s *TicketService) Close(ctx context.Context, staff *domain.StaffMember, ticketID, resolutionNote string) (*domain.Ticket, error) {
	if strings.TrimSpace(resolutionNote) == "" {
		return nil, apperrors.NewValidationError("resolution note required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, apperrors.NewConflict("ticket already closed", nil)
	}

	response := &domain.TicketResponse{
		TicketID:     ticket.ID,
		Message:      strings.TrimSpace(resolutionNote),
		ResponseType: domain.ResponseTypeClosing,
		IsInternal:   false,
	}
	if staff != nil {
		response.ResponderID = &staff.ID
	}
	if err := s.responses.Create(ctx, response); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	oldStatus := ticket.Status
	ticket.Status = domain.TicketStatusClosed
	if ticket.ResolvedAt == nil {
		ticket.ResolvedAt = &now
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.recordStatusChange(ctx, staffID(staff), ticket.ID, oldStatus, domain.TicketStatusClosed, "closed")

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketClosed,
		TicketID: ticket.ID,
		ActorID:  staffID(staff),
		Payload:  events.TicketClosedPayload{ResolutionNote: response.Message},
	})
	return ticket, nil
}

// OverrideStatus overwrites the status without transition validation.
// This is the administrative correction path; every use leaves a
// status-log entry.
func (s *TicketService) OverrideStatus(ctx context.Context, staff *domain.StaffMember, ticketID string, newStatus domain.TicketStatus, note string) (*domain.Ticket, error) {
	if !validStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if newStatus.IsTerminal() && ticket.ResolvedAt == nil {
		now := s.now().UTC()
		ticket.ResolvedAt = &now
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.recordStatusChange(ctx, staffID(staff), ticket.ID, oldStatus, newStatus, note)

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusOverridden,
		TicketID: ticket.ID,
		ActorID:  staffID(staff),
		Payload: events.TicketStatusOverriddenPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Note:      note,
		},
	})
	return ticket, nil
}

// Assign routes the ticket to a staff member, moving fresh tickets to
// in_progress.
func (s *TicketService) Assign(ctx context.Context, staff *domain.StaffMember, ticketID, assigneeID string) (*domain.Ticket, error) {
	assignee, err := s.staff.GetByID(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	if !assignee.Active {
		return nil, apperrors.NewValidationError("assignee inactive", map[string]any{"staff_id": assigneeID})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewConflict("ticket no longer active", nil)
	}

	oldStatus := ticket.Status
	ticket.AssignedTo = &assignee.ID
	if ticket.Status == domain.TicketStatusOpen {
		ticket.Status = domain.TicketStatusInProgress
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.recordStatusChange(ctx, staffID(staff), ticket.ID, oldStatus, ticket.Status, "assigned")

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  staffID(staff),
		Payload:  events.TicketAssignedPayload{AssignedTo: assignee.ID},
	})
	return ticket, nil
}

func (s *TicketService) recordStatusChange(ctx context.Context, changedBy *string, ticketID string, oldStatus, newStatus domain.TicketStatus, note string) {
	if s.statusLogs == nil || oldStatus == newStatus {
		return
	}
	entry := &domain.TicketStatusLog{
		TicketID:  ticketID,
		ChangedBy: changedBy,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Note:      note,
	}
	// audit is best effort; the transition itself already persisted
	_ = s.statusLogs.Create(ctx, entry)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func staffID(staff *domain.StaffMember) *string {
	if staff == nil {
		return nil
	}
	return &staff.ID
}

func validStatus(status domain.TicketStatus) bool {
	switch status {
	case domain.TicketStatusOpen, domain.TicketStatusInProgress, domain.TicketStatusEscalated,
		domain.TicketStatusResolved, domain.TicketStatusClosed:
		return true
	}
	return false
}
