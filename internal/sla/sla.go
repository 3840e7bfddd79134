// Package sla computes service-level deadline status and the dashboard
// counters derived from ticket collections. Everything here is pure:
// callers pass a single now per evaluation pass so a rendered list
// buckets consistently.
package sla

import (
	"fmt"
	"time"
)

// WarningWindow is how close to the deadline a ticket moves from
// on_track to warning.
const WarningWindow = 2 * time.Hour

// Status buckets a deadline relative to now.
type Status string

const (
	StatusOnTrack  Status = "on_track"
	StatusWarning  Status = "warning"
	StatusBreached Status = "breached"
)

// Evaluation is the result of comparing a deadline against now.
type Evaluation struct {
	Status Status
	// Remaining is |deadline-now| formatted as "{h}h {m}m", prefixed
	// with "-" when breached. "-" alone means no deadline is set.
	Remaining string
	Hours     int
	Minutes   int
}

// Evaluate buckets the deadline against now. A nil deadline means no
// SLA applies and the ticket is on track. diff < 0 is the only
// breached condition; warning starts strictly below WarningWindow, so
// exactly WarningWindow remaining is still on track.
func Evaluate(deadline *time.Time, now time.Time) Evaluation {
	if deadline == nil {
		return Evaluation{Status: StatusOnTrack, Remaining: "-"}
	}

	diff := deadline.Sub(now)
	status := StatusOnTrack
	switch {
	case diff < 0:
		status = StatusBreached
	case diff < WarningWindow:
		status = StatusWarning
	}

	abs := diff
	if abs < 0 {
		abs = -abs
	}
	hours := int(abs / time.Hour)
	minutes := int(abs/time.Minute) % 60

	remaining := fmt.Sprintf("%dh %dm", hours, minutes)
	if status == StatusBreached {
		remaining = "-" + remaining
	}

	return Evaluation{
		Status:    status,
		Remaining: remaining,
		Hours:     hours,
		Minutes:   minutes,
	}
}
