package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pengaduan-service/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler serves downloadable ticket exports.
type ReportsHandler struct {
	reports *service.ReportService
	now     func() time.Time
}

// NewReportsHandler constructs handler. now is optional and defaults to
// time.Now.
func NewReportsHandler(reports *service.ReportService, now func() time.Time) *ReportsHandler {
	if now == nil {
		now = time.Now
	}
	return &ReportsHandler{reports: reports, now: now}
}

// Tickets GET /api/reports/tickets. Accepts the same filter query as
// the dashboard list and streams an xlsx workbook.
func (h *ReportsHandler) Tickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	// exports cover the whole matching set, not one page
	filter.Limit = 10000
	filter.Offset = 0

	payload, err := h.reports.BuildTicketReport(c.UserContext(), filter)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("laporan-pengaduan-%s.xlsx", h.now().UTC().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(payload)
}
