package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSLABudget(t *testing.T) {
	cases := map[EscalationPriority]time.Duration{
		PriorityLow:      72 * time.Hour,
		PriorityMedium:   48 * time.Hour,
		PriorityHigh:     24 * time.Hour,
		PriorityCritical: 4 * time.Hour,
	}
	for priority, want := range cases {
		budget, ok := SLABudget(priority)
		require.True(t, ok)
		assert.Equal(t, want, budget)
	}

	_, ok := SLABudget(EscalationPriority("URGENT"))
	assert.False(t, ok)
}

func TestIsOverdueBoundary(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	budget, _ := SLABudget(PriorityCritical)
	esc := &Escalation{
		Priority: PriorityCritical,
		Status:   EscalationStatusOpen,
		DueDate:  created.Add(budget),
	}

	// Exactly at the deadline is still on time; one instant later is not.
	assert.False(t, esc.IsOverdue(esc.DueDate))
	assert.True(t, esc.IsOverdue(esc.DueDate.Add(time.Nanosecond)))
	assert.False(t, esc.IsOverdue(esc.DueDate.Add(-time.Minute)))
}

func TestIsOverdueIgnoresTerminalStatuses(t *testing.T) {
	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	after := due.Add(time.Hour)

	for _, status := range []EscalationStatus{EscalationStatusResolved, EscalationStatusRejected, EscalationStatusExpired} {
		esc := &Escalation{Status: status, DueDate: due}
		assert.False(t, esc.IsOverdue(after), "%s should never be overdue", status)
		assert.True(t, esc.Terminal())
	}

	for _, status := range []EscalationStatus{EscalationStatusOpen, EscalationStatusInProgress, EscalationStatusEscalated} {
		esc := &Escalation{Status: status, DueDate: due}
		assert.True(t, esc.IsOverdue(after))
		assert.False(t, esc.Terminal())
	}
}
