package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pengaduan-service/internal/api/dto"
	"github.com/spec-kit/pengaduan-service/internal/auth"
	"github.com/spec-kit/pengaduan-service/internal/datasource"
	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/repository"
	"github.com/spec-kit/pengaduan-service/internal/service"
	"github.com/spec-kit/pengaduan-service/internal/sla"
	apperrors "github.com/spec-kit/pengaduan-service/pkg/util"
)

// StaffTicketsHandler serves the dashboard ticket endpoints. Reads and
// lifecycle writes go through the data source facade; the detail view
// and assignment are local-store operations.
type StaffTicketsHandler struct {
	source  datasource.TicketSource
	tickets *service.TicketService
	now     func() time.Time
}

// NewStaffTicketsHandler constructs handler. now is optional and
// defaults to time.Now.
func NewStaffTicketsHandler(source datasource.TicketSource, tickets *service.TicketService, now func() time.Time) *StaffTicketsHandler {
	if now == nil {
		now = time.Now
	}
	return &StaffTicketsHandler{source: source, tickets: tickets, now: now}
}

// List GET /api/complaints.
func (h *StaffTicketsHandler) List(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	tickets, err := h.source.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}

	now := h.now()
	items := make([]dto.TicketPayload, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i], now))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Detail GET /api/complaints/tickets/:id.
func (h *StaffTicketsHandler) Detail(c *fiber.Ctx) error {
	detail, err := h.tickets.GetDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	payload := dto.TicketDetailPayload{
		TicketPayload: dto.FromTicket(detail.Ticket, h.now()),
		Responses:     make([]dto.ResponsePayload, 0, len(detail.Responses)),
		Escalations:   make([]dto.EscalationPayload, 0, len(detail.Escalations)),
		StatusLog:     make([]dto.StatusLogPayload, 0, len(detail.StatusLog)),
	}
	for i := range detail.Responses {
		payload.Responses = append(payload.Responses, dto.FromResponse(&detail.Responses[i]))
	}
	for i := range detail.Escalations {
		payload.Escalations = append(payload.Escalations, dto.FromEscalation(&detail.Escalations[i]))
	}
	for i := range detail.StatusLog {
		payload.StatusLog = append(payload.StatusLog, dto.FromStatusLog(&detail.StatusLog[i]))
	}
	return c.JSON(fiber.Map{"data": payload})
}

// Respond POST /api/escalations/tickets/:id/respond.
func (h *StaffTicketsHandler) Respond(c *fiber.Ctx) error {
	staff, err := staffFromContext(c)
	if err != nil {
		return err
	}
	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Message) == "" {
		return apperrors.NewValidationError("message required", nil)
	}

	response, err := h.source.RespondToTicket(c.UserContext(), staff, c.Params("id"), service.RespondInput{
		Message:      req.Message,
		ResponseType: req.ResponseType,
		IsInternal:   req.IsInternal,
		MarkResolved: req.MarkResolved,
	})
	if err != nil {
		return err
	}
	payload := dto.FromResponse(response)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": payload})
}

// Escalate POST /api/escalations/tickets/:id/escalate.
func (h *StaffTicketsHandler) Escalate(c *fiber.Ctx) error {
	staff, err := staffFromContext(c)
	if err != nil {
		return err
	}
	var req dto.EscalateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return apperrors.NewValidationError("reason required", nil)
	}
	if req.ToRole == "" {
		return apperrors.NewValidationError("to_role required", nil)
	}

	escalation, err := h.source.EscalateTicket(c.UserContext(), staff, c.Params("id"), service.EscalateInput{
		ToRole:      req.ToRole,
		Reason:      req.Reason,
		NewPriority: req.NewPriority,
		CCUnits:     req.CCUnits,
	})
	if err != nil {
		return err
	}
	payload := dto.FromEscalation(escalation)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": payload})
}

// OverrideStatus POST /api/escalations/tickets/:id/status. Admin-only,
// enforced at the route level.
func (h *StaffTicketsHandler) OverrideStatus(c *fiber.Ctx) error {
	staff, err := staffFromContext(c)
	if err != nil {
		return err
	}
	var req dto.OverrideStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.source.OverrideTicketStatus(c.UserContext(), staff, c.Params("id"), req.Status, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket, h.now())})
}

// Close POST /api/complaints/tickets/:id/close.
func (h *StaffTicketsHandler) Close(c *fiber.Ctx) error {
	staff, err := staffFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CloseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.source.CloseTicket(c.UserContext(), staff, c.Params("id"), req.ResolutionNote)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket, h.now())})
}

// Assign POST /api/complaints/tickets/:id/assign.
func (h *StaffTicketsHandler) Assign(c *fiber.Ctx) error {
	staff, err := staffFromContext(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StaffID == "" {
		return apperrors.NewValidationError("staff_id required", nil)
	}

	ticket, err := h.tickets.Assign(c.UserContext(), staff, c.Params("id"), req.StaffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket, h.now())})
}

// Stats GET /api/dashboard/stats. All counters are derived from one
// listing pass with a single now.
func (h *StaffTicketsHandler) Stats(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	// counters reduce the whole matching set, not one page
	filter.Limit = 10000
	filter.Offset = 0

	tickets, err := h.source.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sla.CalculateStats(tickets, h.now())})
}

func staffFromContext(c *fiber.Ctx) (*domain.StaffMember, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	return principal.Staff, nil
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if unitID := c.Query("unit_id"); unitID != "" {
		filter.UnitID = &unitID
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		filter.CategoryID = &categoryID
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		filter.AssignedTo = &assignedTo
	}
	if typeStr := c.Query("type"); typeStr != "" {
		for _, part := range strings.Split(typeStr, ",") {
			filter.Types = append(filter.Types, domain.TicketType(strings.TrimSpace(part)))
		}
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
