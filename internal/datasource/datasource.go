// Package datasource abstracts where ticket reads and writes are
// served from. The same interface is implemented by the upstream
// backend transport and by the local store; a fallback decorator tries
// the first and falls back to the second, so callers never duplicate
// the retry-with-different-strategy pattern per method.
package datasource

import (
	"context"

	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/repository"
	"github.com/spec-kit/pengaduan-service/internal/service"
)

// TicketSource serves ticket operations over one transport.
type TicketSource interface {
	Name() string
	ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error)
	TrackTicket(ctx context.Context, ticketNumber string) (*domain.Ticket, []domain.TicketResponse, error)
	SubmitTicket(ctx context.Context, input service.SubmitInput) (*domain.Ticket, error)
	RespondToTicket(ctx context.Context, staff *domain.StaffMember, ticketID string, input service.RespondInput) (*domain.TicketResponse, error)
	EscalateTicket(ctx context.Context, staff *domain.StaffMember, ticketID string, input service.EscalateInput) (*domain.TicketEscalation, error)
	CloseTicket(ctx context.Context, staff *domain.StaffMember, ticketID, resolutionNote string) (*domain.Ticket, error)
	OverrideTicketStatus(ctx context.Context, staff *domain.StaffMember, ticketID string, status domain.TicketStatus, note string) (*domain.Ticket, error)
}
