package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func deadlineIn(d time.Duration) *time.Time {
	t := baseTime.Add(d)
	return &t
}

func TestEvaluateNoDeadline(t *testing.T) {
	eval := Evaluate(nil, baseTime)

	assert.Equal(t, StatusOnTrack, eval.Status)
	assert.Equal(t, "-", eval.Remaining)
	assert.Zero(t, eval.Hours)
	assert.Zero(t, eval.Minutes)
}

func TestEvaluatePastDeadlineBreached(t *testing.T) {
	cases := []time.Duration{
		-time.Minute,
		-time.Hour,
		-36 * time.Hour,
	}
	for _, overdue := range cases {
		eval := Evaluate(deadlineIn(overdue), baseTime)
		assert.Equal(t, StatusBreached, eval.Status, "overdue by %s", -overdue)
		assert.Equal(t, byte('-'), eval.Remaining[0], "overdue by %s", -overdue)
	}
}

func TestEvaluateWarningWindow(t *testing.T) {
	cases := []time.Duration{
		0,
		time.Minute,
		time.Hour,
		2*time.Hour - time.Second,
	}
	for _, left := range cases {
		eval := Evaluate(deadlineIn(left), baseTime)
		assert.Equal(t, StatusWarning, eval.Status, "%s left", left)
	}
}

func TestEvaluateOnTrack(t *testing.T) {
	cases := []time.Duration{
		2 * time.Hour, // boundary is exclusive of warning
		3 * time.Hour,
		24 * time.Hour,
	}
	for _, left := range cases {
		eval := Evaluate(deadlineIn(left), baseTime)
		assert.Equal(t, StatusOnTrack, eval.Status, "%s left", left)
	}
}

func TestEvaluateDayBeforeDeadline(t *testing.T) {
	created := baseTime
	deadline := created.Add(24 * time.Hour)

	eval := Evaluate(&deadline, created.Add(23*time.Hour))

	assert.Equal(t, StatusWarning, eval.Status)
	assert.Equal(t, "1h 0m", eval.Remaining)
	assert.Equal(t, 1, eval.Hours)
	assert.Equal(t, 0, eval.Minutes)
}

func TestEvaluateHourPastDeadline(t *testing.T) {
	created := baseTime
	deadline := created.Add(24 * time.Hour)

	eval := Evaluate(&deadline, created.Add(25*time.Hour))

	assert.Equal(t, StatusBreached, eval.Status)
	assert.Equal(t, "-1h 0m", eval.Remaining)
	assert.Equal(t, 1, eval.Hours)
	assert.Equal(t, 0, eval.Minutes)
}

func TestEvaluateMinutesFormatting(t *testing.T) {
	eval := Evaluate(deadlineIn(90*time.Minute), baseTime)
	assert.Equal(t, "1h 30m", eval.Remaining)

	eval = Evaluate(deadlineIn(-150*time.Minute), baseTime)
	assert.Equal(t, "-2h 30m", eval.Remaining)
}
