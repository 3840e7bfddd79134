// Package worker holds background loops that run beside the HTTP
// server.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/repository"
	"github.com/spec-kit/pengaduan-service/internal/sla"
)

// SLAMonitor periodically scans active tickets and logs the ones
// approaching or past their deadline, so operators see breaches without
// anyone opening the dashboard.
type SLAMonitor struct {
	tickets  repository.TicketRepository
	logger   *zap.Logger
	interval time.Duration
	now      func() time.Time
}

// NewSLAMonitor builds the monitor. interval defaults to 5 minutes,
// now to time.Now.
func NewSLAMonitor(tickets repository.TicketRepository, logger *zap.Logger, interval time.Duration, now func() time.Time) *SLAMonitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &SLAMonitor{tickets: tickets, logger: logger, interval: interval, now: now}
}

// Run blocks until the context is cancelled, scanning on every tick.
func (m *SLAMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.scan(ctx)
		}
	}
}

func (m *SLAMonitor) scan(ctx context.Context) {
	tickets, err := m.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses: []domain.TicketStatus{
			domain.TicketStatusOpen,
			domain.TicketStatusInProgress,
			domain.TicketStatusEscalated,
		},
		Limit: 10000,
	})
	if err != nil {
		m.logger.Warn("sla scan failed", zap.Error(err))
		return
	}

	now := m.now().UTC()
	var warning, breached int
	for i := range tickets {
		t := &tickets[i]
		switch sla.Evaluate(t.SLADeadline, now).Status {
		case sla.StatusWarning:
			warning++
			m.logger.Info("ticket approaching deadline",
				zap.String("ticket_number", t.TicketNumber),
				zap.String("unit_id", t.UnitID),
				zap.Timep("deadline", t.SLADeadline))
		case sla.StatusBreached:
			breached++
			m.logger.Warn("ticket past deadline",
				zap.String("ticket_number", t.TicketNumber),
				zap.String("unit_id", t.UnitID),
				zap.Timep("deadline", t.SLADeadline))
		}
	}

	if warning > 0 || breached > 0 {
		m.logger.Info("sla scan complete",
			zap.Int("active", len(tickets)),
			zap.Int("warning", warning),
			zap.Int("breached", breached))
	}
}
