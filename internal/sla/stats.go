package sla

import (
	"time"

	"github.com/spec-kit/pengaduan-service/internal/domain"
)

// Stats holds the dashboard counters shared by the unit head, manager
// and director views.
type Stats struct {
	TotalActive       int `json:"total_active"`
	HighUrgency       int `json:"high_urgency"`
	WaitingResponse   int `json:"waiting_response"`
	ResolvedThisMonth int `json:"resolved_this_month"`
	NewToday          int `json:"new_today"`
	SLABreach         int `json:"sla_breach"`
}

// CalculateStats reduces a ticket collection into dashboard counters.
// Deterministic and order-independent for a given now.
//
// ResolvedThisMonth counts tickets created this month that reached a
// terminal status, not tickets whose resolved_at falls in this month.
// The dashboard has always read the counter this way.
func CalculateStats(tickets []domain.Ticket, now time.Time) Stats {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var stats Stats
	for i := range tickets {
		t := &tickets[i]

		if !t.Status.IsTerminal() {
			stats.TotalActive++
		}
		if t.Priority == domain.TicketPriorityHigh || t.Priority == domain.TicketPriorityCritical {
			stats.HighUrgency++
		}
		if t.Status == domain.TicketStatusOpen || t.Status == domain.TicketStatusEscalated {
			stats.WaitingResponse++
		}
		if t.Status.IsTerminal() && !t.CreatedAt.Before(startOfMonth) {
			stats.ResolvedThisMonth++
		}

		arrival := t.CreatedAt
		if t.EscalatedAt != nil {
			arrival = *t.EscalatedAt
		}
		if !arrival.Before(startOfDay) {
			stats.NewToday++
		}

		if Evaluate(t.SLADeadline, now).Status == StatusBreached {
			stats.SLABreach++
		}
	}
	return stats
}
