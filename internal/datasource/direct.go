package datasource

import (
	"context"

	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/repository"
	"github.com/spec-kit/pengaduan-service/internal/service"
)

// DirectSource serves operations from the local store through the
// lifecycle service.
type DirectSource struct {
	tickets *service.TicketService
}

// NewDirectSource builds the source.
func NewDirectSource(tickets *service.TicketService) *DirectSource {
	return &DirectSource{tickets: tickets}
}

func (s *DirectSource) Name() string { return "direct" }

func (s *DirectSource) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, filter)
}

func (s *DirectSource) TrackTicket(ctx context.Context, ticketNumber string) (*domain.Ticket, []domain.TicketResponse, error) {
	return s.tickets.Track(ctx, ticketNumber)
}

func (s *DirectSource) SubmitTicket(ctx context.Context, input service.SubmitInput) (*domain.Ticket, error) {
	return s.tickets.Submit(ctx, input)
}

func (s *DirectSource) RespondToTicket(ctx context.Context, staff *domain.StaffMember, ticketID string, input service.RespondInput) (*domain.TicketResponse, error) {
	return s.tickets.Respond(ctx, staff, ticketID, input)
}

func (s *DirectSource) EscalateTicket(ctx context.Context, staff *domain.StaffMember, ticketID string, input service.EscalateInput) (*domain.TicketEscalation, error) {
	return s.tickets.Escalate(ctx, staff, ticketID, input)
}

func (s *DirectSource) CloseTicket(ctx context.Context, staff *domain.StaffMember, ticketID, resolutionNote string) (*domain.Ticket, error) {
	return s.tickets.Close(ctx, staff, ticketID, resolutionNote)
}

func (s *DirectSource) OverrideTicketStatus(ctx context.Context, staff *domain.StaffMember, ticketID string, status domain.TicketStatus, note string) (*domain.Ticket, error) {
	return s.tickets.OverrideStatus(ctx, staff, ticketID, status, note)
}
