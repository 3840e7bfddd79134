package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pengaduan-service/internal/api/dto"
	"github.com/spec-kit/pengaduan-service/internal/datasource"
	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/repository"
	"github.com/spec-kit/pengaduan-service/internal/service"
	apperrors "github.com/spec-kit/pengaduan-service/pkg/util"
)

// TicketsHandler serves the public submission and tracking endpoints.
// Submitters are not authenticated; they hold only their ticket number.
type TicketsHandler struct {
	source    datasource.TicketSource
	reference repository.ReferenceRepository
	now       func() time.Time
}

// NewTicketsHandler constructs handler. now is optional and defaults to
// time.Now.
func NewTicketsHandler(source datasource.TicketSource, reference repository.ReferenceRepository, now func() time.Time) *TicketsHandler {
	if now == nil {
		now = time.Now
	}
	return &TicketsHandler{source: source, reference: reference, now: now}
}

// Submit POST /api/complaints.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UnitID == "" || req.Title == "" || req.Description == "" {
		return apperrors.NewValidationError("unit_id, title, description required", nil)
	}

	input := service.SubmitInput{
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Priority:    req.Priority,
		UnitID:      req.UnitID,
		Title:       req.Title,
		Description: req.Description,
		Anonymous:   req.IsAnonymous,
		Source:      req.Source,
	}
	if input.Type == "" {
		input.Type = domain.TicketTypeComplaint
	}
	if !req.IsAnonymous {
		input.Submitter = &domain.SubmitterContact{
			Name:    req.SubmitterName,
			Email:   req.SubmitterEmail,
			Phone:   req.SubmitterPhone,
			Address: req.SubmitterAddress,
		}
	}

	ticket, err := h.source.SubmitTicket(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket, h.now())})
}

// Track GET /api/complaints/track/:number. Internal responses are
// filtered before the payload leaves the service.
func (h *TicketsHandler) Track(c *fiber.Ctx) error {
	number := c.Params("number")
	if number == "" {
		return apperrors.NewValidationError("ticket number required", nil)
	}

	ticket, responses, err := h.source.TrackTicket(c.UserContext(), number)
	if err != nil {
		return err
	}

	items := make([]dto.ResponsePayload, 0, len(responses))
	for i := range responses {
		items = append(items, dto.FromResponse(&responses[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"ticket":    dto.FromTicket(ticket, h.now()),
		"responses": items,
	}})
}

// Units GET /api/units.
func (h *TicketsHandler) Units(c *fiber.Ctx) error {
	units, err := h.reference.ListActiveUnits(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UnitPayload, 0, len(units))
	for i := range units {
		items = append(items, dto.FromUnit(&units[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Categories GET /api/service-categories.
func (h *TicketsHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.reference.ListActiveCategories(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryPayload, 0, len(categories))
	for i := range categories {
		items = append(items, dto.FromCategory(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
