package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/repository"
	"github.com/spec-kit/pengaduan-service/internal/sla"
)

// ticketReportHeader lists the export columns in order.
var ticketReportHeader = []string{
	"Ticket Number",
	"Title",
	"Type",
	"Priority",
	"Status",
	"Unit",
	"Submitter",
	"SLA Status",
	"SLA Remaining",
	"Created At",
	"Resolved At",
}

const (
	reportSheetTickets = "Tickets"
	reportSheetSummary = "Summary"
)

// ReportService produces downloadable workbook exports of the ticket
// inventory for offline reporting.
type ReportService struct {
	tickets   repository.TicketRepository
	reference repository.ReferenceRepository
	now       func() time.Time
}

// NewReportService builds the service. now is optional and defaults to
// time.Now.
func NewReportService(tickets repository.TicketRepository, reference repository.ReferenceRepository, now func() time.Time) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{tickets: tickets, reference: reference, now: now}
}

// BuildTicketReport renders the tickets matching the filter into an
// xlsx workbook: one row per ticket plus a summary sheet with the
// dashboard counters. All SLA columns are evaluated against a single
// now so the export buckets consistently.
func (s *ReportService) BuildTicketReport(ctx context.Context, filter repository.TicketFilter) ([]byte, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	unitNames := s.unitNames(ctx)

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheetTickets)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	for col, header := range ticketReportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(reportSheetTickets, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(reportSheetTickets, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for i := range tickets {
		t := &tickets[i]
		evaluation := sla.Evaluate(t.SLADeadline, now)
		row := []any{
			t.TicketNumber,
			t.Title,
			string(t.Type),
			string(t.Priority),
			string(t.Status),
			unitLabel(unitNames, t.UnitID),
			submitterLabel(t),
			string(evaluation.Status),
			evaluation.Remaining,
			t.CreatedAt.UTC().Format(time.RFC3339),
			timestampLabel(t.ResolvedAt),
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(reportSheetTickets, cell, value); err != nil {
				return nil, err
			}
		}
	}

	if err := s.writeSummarySheet(f, tickets, now); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ReportService) writeSummarySheet(f *excelize.File, tickets []domain.Ticket, now time.Time) error {
	if _, err := f.NewSheet(reportSheetSummary); err != nil {
		return err
	}
	stats := sla.CalculateStats(tickets, now)

	rows := [][]any{
		{"Generated At", now.Format(time.RFC3339)},
		{"Total Tickets", len(tickets)},
		{"Active", stats.TotalActive},
		{"High Urgency", stats.HighUrgency},
		{"Waiting Response", stats.WaitingResponse},
		{"Resolved This Month", stats.ResolvedThisMonth},
		{"New Today", stats.NewToday},
		{"SLA Breach", stats.SLABreach},
	}
	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(reportSheetSummary, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// unitNames maps unit IDs to display names. Reference data is small;
// a full read per export is fine.
func (s *ReportService) unitNames(ctx context.Context) map[string]string {
	names := map[string]string{}
	units, err := s.reference.ListActiveUnits(ctx)
	if err != nil {
		return names
	}
	for _, unit := range units {
		names[unit.ID] = unit.Name
	}
	return names
}

func unitLabel(names map[string]string, unitID string) string {
	if name, ok := names[unitID]; ok {
		return name
	}
	return unitID
}

func submitterLabel(t *domain.Ticket) string {
	if t.IsAnonymous() {
		return "Anonim"
	}
	return t.Submitter.Name
}

func timestampLabel(ts *time.Time) string {
	if ts == nil {
		return "-"
	}
	return ts.UTC().Format(time.RFC3339)
}
