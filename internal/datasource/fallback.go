package datasource

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/pengaduan-service/internal/cache"
	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/observability"
	"github.com/spec-kit/pengaduan-service/internal/repository"
	"github.com/spec-kit/pengaduan-service/internal/service"
)

// staleReader is satisfied by caches that can serve expired entries,
// used as the last resort when both transports fail.
type staleReader interface {
	GetStale(ctx context.Context, key string) ([]byte, bool)
}

// Fallback decorates a primary ticket source with a secondary one.
// Every operation tries the primary first and falls back on any error;
// list reads additionally go through the injectable TTL cache.
type Fallback struct {
	primary   TicketSource
	secondary TicketSource
	lists     cache.Cache
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewFallback composes the two sources. lists may be nil to disable
// list caching.
func NewFallback(primary, secondary TicketSource, lists cache.Cache, logger *zap.Logger, metrics *observability.Metrics) *Fallback {
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		lists:     lists,
		logger:    logger,
		metrics:   metrics,
	}
}

func (f *Fallback) Name() string { return "fallback" }

func (f *Fallback) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	key := listCacheKey(filter)
	if f.lists != nil {
		if payload, ok := f.lists.Get(ctx, key); ok {
			var tickets []domain.Ticket
			if err := json.Unmarshal(payload, &tickets); err == nil {
				return tickets, nil
			}
		}
	}

	tickets, err := f.primary.ListTickets(ctx, filter)
	if err != nil {
		f.noteFailover("list_tickets", err)
		tickets, err = f.secondary.ListTickets(ctx, filter)
	}
	if err == nil {
		f.storeList(ctx, key, tickets)
		return tickets, nil
	}

	// both transports down: a stale listing beats an empty page
	if stale, ok := f.staleList(ctx, key); ok {
		f.logger.Warn("serving stale ticket list", zap.Error(err))
		return stale, nil
	}
	return nil, err
}

func (f *Fallback) TrackTicket(ctx context.Context, ticketNumber string) (*domain.Ticket, []domain.TicketResponse, error) {
	ticket, responses, err := f.primary.TrackTicket(ctx, ticketNumber)
	if err != nil {
		f.noteFailover("track_ticket", err)
		return f.secondary.TrackTicket(ctx, ticketNumber)
	}
	return ticket, responses, nil
}

func (f *Fallback) SubmitTicket(ctx context.Context, input service.SubmitInput) (*domain.Ticket, error) {
	ticket, err := f.primary.SubmitTicket(ctx, input)
	if err != nil {
		f.noteFailover("submit_ticket", err)
		return f.secondary.SubmitTicket(ctx, input)
	}
	return ticket, nil
}

func (f *Fallback) RespondToTicket(ctx context.Context, staff *domain.StaffMember, ticketID string, input service.RespondInput) (*domain.TicketResponse, error) {
	response, err := f.primary.RespondToTicket(ctx, staff, ticketID, input)
	if err != nil {
		f.noteFailover("respond_to_ticket", err)
		return f.secondary.RespondToTicket(ctx, staff, ticketID, input)
	}
	return response, nil
}

func (f *Fallback) EscalateTicket(ctx context.Context, staff *domain.StaffMember, ticketID string, input service.EscalateInput) (*domain.TicketEscalation, error) {
	escalation, err := f.primary.EscalateTicket(ctx, staff, ticketID, input)
	if err != nil {
		f.noteFailover("escalate_ticket", err)
		return f.secondary.EscalateTicket(ctx, staff, ticketID, input)
	}
	return escalation, nil
}

func (f *Fallback) CloseTicket(ctx context.Context, staff *domain.StaffMember, ticketID, resolutionNote string) (*domain.Ticket, error) {
	ticket, err := f.primary.CloseTicket(ctx, staff, ticketID, resolutionNote)
	if err != nil {
		f.noteFailover("close_ticket", err)
		return f.secondary.CloseTicket(ctx, staff, ticketID, resolutionNote)
	}
	return ticket, nil
}

func (f *Fallback) OverrideTicketStatus(ctx context.Context, staff *domain.StaffMember, ticketID string, status domain.TicketStatus, note string) (*domain.Ticket, error) {
	ticket, err := f.primary.OverrideTicketStatus(ctx, staff, ticketID, status, note)
	if err != nil {
		f.noteFailover("override_ticket_status", err)
		return f.secondary.OverrideTicketStatus(ctx, staff, ticketID, status, note)
	}
	return ticket, nil
}

func (f *Fallback) noteFailover(operation string, err error) {
	f.metrics.RecordFallback(operation)
	f.logger.Warn("primary source failed, using fallback",
		zap.String("operation", operation),
		zap.String("primary", f.primary.Name()),
		zap.Error(err),
	)
}

func (f *Fallback) storeList(ctx context.Context, key string, tickets []domain.Ticket) {
	if f.lists == nil {
		return
	}
	payload, err := json.Marshal(tickets)
	if err != nil {
		return
	}
	_ = f.lists.Set(ctx, key, payload)
}

func (f *Fallback) staleList(ctx context.Context, key string) ([]domain.Ticket, bool) {
	reader, ok := f.lists.(staleReader)
	if !ok {
		return nil, false
	}
	payload, ok := reader.GetStale(ctx, key)
	if !ok {
		return nil, false
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal(payload, &tickets); err != nil {
		return nil, false
	}
	return tickets, true
}

func listCacheKey(filter repository.TicketFilter) string {
	payload, err := json.Marshal(filter)
	if err != nil {
		return "tickets:all"
	}
	return "tickets:" + string(payload)
}
