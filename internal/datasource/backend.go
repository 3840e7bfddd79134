package datasource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/pengaduan-service/internal/api/dto"
	"github.com/spec-kit/pengaduan-service/internal/config"
	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/repository"
	"github.com/spec-kit/pengaduan-service/internal/service"
)

// BackendSource serves ticket operations from the upstream REST
// backend. Every call carries the configured timeout; any transport
// error or non-2xx response is reported to the caller so the fallback
// decorator can take over.
type BackendSource struct {
	client *resty.Client
	logger *zap.Logger
}

// NewBackendSource builds the upstream client.
func NewBackendSource(cfg config.BackendConfig, logger *zap.Logger) *BackendSource {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout()).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &BackendSource{client: client, logger: logger}
}

func (s *BackendSource) Name() string { return "backend" }

type ticketEnvelope struct {
	Data dto.TicketPayload `json:"data"`
}

type ticketListEnvelope struct {
	Data []dto.TicketPayload `json:"data"`
}

type trackEnvelope struct {
	Data struct {
		Ticket    dto.TicketPayload     `json:"ticket"`
		Responses []dto.ResponsePayload `json:"responses"`
	} `json:"data"`
}

type responseEnvelope struct {
	Data dto.ResponsePayload `json:"data"`
}

type escalationEnvelope struct {
	Data dto.EscalationPayload `json:"data"`
}

func (s *BackendSource) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var envelope ticketListEnvelope
	req := s.client.R().SetContext(ctx).SetResult(&envelope)

	if filter.UnitID != nil {
		req.SetQueryParam("unit_id", *filter.UnitID)
	}
	if filter.CategoryID != nil {
		req.SetQueryParam("category_id", *filter.CategoryID)
	}
	if filter.AssignedTo != nil {
		req.SetQueryParam("assigned_to", *filter.AssignedTo)
	}
	if len(filter.Types) > 0 {
		req.SetQueryParam("type", joinTypes(filter.Types))
	}
	if len(filter.Statuses) > 0 {
		req.SetQueryParam("status", joinStatuses(filter.Statuses))
	}
	if len(filter.Priorities) > 0 {
		req.SetQueryParam("priority", joinPriorities(filter.Priorities))
	}
	if filter.SearchTerm != nil {
		req.SetQueryParam("search", *filter.SearchTerm)
	}
	if filter.CreatedFrom != nil {
		req.SetQueryParam("created_from", filter.CreatedFrom.Format(time.RFC3339))
	}
	if filter.CreatedTo != nil {
		req.SetQueryParam("created_to", filter.CreatedTo.Format(time.RFC3339))
	}
	if filter.Limit > 0 {
		req.SetQueryParam("limit", fmt.Sprintf("%d", filter.Limit))
	}
	if filter.Offset > 0 {
		req.SetQueryParam("offset", fmt.Sprintf("%d", filter.Offset))
	}

	resp, err := req.Get("/complaints")
	if err := s.checkResponse(resp, err, "list tickets"); err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, 0, len(envelope.Data))
	for _, payload := range envelope.Data {
		tickets = append(tickets, payload.ToDomain())
	}
	return tickets, nil
}

func (s *BackendSource) TrackTicket(ctx context.Context, ticketNumber string) (*domain.Ticket, []domain.TicketResponse, error) {
	var envelope trackEnvelope
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&envelope).
		Get("/complaints/track/" + ticketNumber)
	if err := s.checkResponse(resp, err, "track ticket"); err != nil {
		return nil, nil, err
	}

	ticket := envelope.Data.Ticket.ToDomain()
	responses := make([]domain.TicketResponse, 0, len(envelope.Data.Responses))
	for _, payload := range envelope.Data.Responses {
		responses = append(responses, payload.ToDomain())
	}
	return &ticket, responses, nil
}

func (s *BackendSource) SubmitTicket(ctx context.Context, input service.SubmitInput) (*domain.Ticket, error) {
	body := dto.SubmitTicketRequest{
		Type:        input.Type,
		CategoryID:  input.CategoryID,
		Priority:    input.Priority,
		UnitID:      input.UnitID,
		Title:       input.Title,
		Description: input.Description,
		IsAnonymous: input.Anonymous,
		Source:      input.Source,
	}
	if input.Submitter != nil && !input.Anonymous {
		body.SubmitterName = input.Submitter.Name
		body.SubmitterEmail = input.Submitter.Email
		body.SubmitterPhone = input.Submitter.Phone
		body.SubmitterAddress = input.Submitter.Address
	}

	var envelope ticketEnvelope
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&envelope).
		Post("/complaints")
	if err := s.checkResponse(resp, err, "submit ticket"); err != nil {
		return nil, err
	}
	ticket := envelope.Data.ToDomain()
	return &ticket, nil
}

func (s *BackendSource) RespondToTicket(ctx context.Context, staff *domain.StaffMember, ticketID string, input service.RespondInput) (*domain.TicketResponse, error) {
	body := dto.RespondRequest{
		Message:      input.Message,
		ResponseType: input.ResponseType,
		IsInternal:   input.IsInternal,
		MarkResolved: input.MarkResolved,
	}
	var envelope responseEnvelope
	resp, err := s.staffRequest(ctx, staff).
		SetBody(body).
		SetResult(&envelope).
		Post("/escalations/tickets/" + ticketID + "/respond")
	if err := s.checkResponse(resp, err, "respond to ticket"); err != nil {
		return nil, err
	}
	response := envelope.Data.ToDomain()
	return &response, nil
}

func (s *BackendSource) EscalateTicket(ctx context.Context, staff *domain.StaffMember, ticketID string, input service.EscalateInput) (*domain.TicketEscalation, error) {
	body := dto.EscalateRequest{
		ToRole:      input.ToRole,
		Reason:      input.Reason,
		NewPriority: input.NewPriority,
		CCUnits:     input.CCUnits,
	}
	var envelope escalationEnvelope
	resp, err := s.staffRequest(ctx, staff).
		SetBody(body).
		SetResult(&envelope).
		Post("/escalations/tickets/" + ticketID + "/escalate")
	if err := s.checkResponse(resp, err, "escalate ticket"); err != nil {
		return nil, err
	}
	escalation := envelope.Data.ToDomain()
	return &escalation, nil
}

func (s *BackendSource) CloseTicket(ctx context.Context, staff *domain.StaffMember, ticketID, resolutionNote string) (*domain.Ticket, error) {
	var envelope ticketEnvelope
	resp, err := s.staffRequest(ctx, staff).
		SetBody(dto.CloseRequest{ResolutionNote: resolutionNote}).
		SetResult(&envelope).
		Post("/complaints/tickets/" + ticketID + "/close")
	if err := s.checkResponse(resp, err, "close ticket"); err != nil {
		return nil, err
	}
	ticket := envelope.Data.ToDomain()
	return &ticket, nil
}

func (s *BackendSource) OverrideTicketStatus(ctx context.Context, staff *domain.StaffMember, ticketID string, status domain.TicketStatus, note string) (*domain.Ticket, error) {
	var envelope ticketEnvelope
	resp, err := s.staffRequest(ctx, staff).
		SetBody(dto.OverrideStatusRequest{Status: status, Note: note}).
		SetResult(&envelope).
		Post("/escalations/tickets/" + ticketID + "/status")
	if err := s.checkResponse(resp, err, "override ticket status"); err != nil {
		return nil, err
	}
	ticket := envelope.Data.ToDomain()
	return &ticket, nil
}

func (s *BackendSource) staffRequest(ctx context.Context, staff *domain.StaffMember) *resty.Request {
	req := s.client.R().SetContext(ctx)
	if staff != nil {
		req.SetHeader("X-Staff-ID", staff.ID)
	}
	return req
}

func (s *BackendSource) checkResponse(resp *resty.Response, err error, operation string) error {
	if err != nil {
		s.logger.Warn("backend call failed", zap.String("operation", operation), zap.Error(err))
		return fmt.Errorf("backend %s: %w", operation, err)
	}
	if resp.IsError() {
		s.logger.Warn("backend returned error status",
			zap.String("operation", operation),
			zap.Int("status_code", resp.StatusCode()),
		)
		return fmt.Errorf("backend %s: status %d", operation, resp.StatusCode())
	}
	return nil
}

func joinTypes(types []domain.TicketType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func joinStatuses(statuses []domain.TicketStatus) string {
	parts := make([]string, len(statuses))
	for i, status := range statuses {
		parts[i] = string(status)
	}
	return strings.Join(parts, ",")
}

func joinPriorities(priorities []domain.TicketPriority) string {
	parts := make([]string, len(priorities))
	for i, priority := range priorities {
		parts[i] = string(priority)
	}
	return strings.Join(parts, ",")
}
