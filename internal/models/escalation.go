package models

import "time"

// EscalationPriority orders escalations by urgency.
type EscalationPriority string

const (
	PriorityLow      EscalationPriority = "LOW"
	PriorityMedium   EscalationPriority = "MEDIUM"
	PriorityHigh     EscalationPriority = "HIGH"
	PriorityCritical EscalationPriority = "CRITICAL"
)

// EscalationStatus is the escalation lifecycle enum.
type EscalationStatus string

const (
	EscalationStatusOpen       EscalationStatus = "OPEN"
	EscalationStatusInProgress EscalationStatus = "IN_PROGRESS"
	EscalationStatusEscalated  EscalationStatus = "ESCALATED_FURTHER"
	EscalationStatusResolved   EscalationStatus = "RESOLVED"
	EscalationStatusRejected   EscalationStatus = "REJECTED"
	EscalationStatusExpired    EscalationStatus = "EXPIRED"
)

// slaHours maps priority to the fixed service-level budget.
var slaHours = map[EscalationPriority]time.Duration{
	PriorityLow:      72 * time.Hour,
	PriorityMedium:   48 * time.Hour,
	PriorityHigh:     24 * time.Hour,
	PriorityCritical: 4 * time.Hour,
}

// SLABudget returns the time budget for a priority, false for unknown ones.
func SLABudget(p EscalationPriority) (time.Duration, bool) {
	d, ok := slaHours[p]
	return d, ok
}

// Escalation is an issue raised by an administrator with a priority-derived
// deadline. Due date is fixed at creation; escalating further never extends
// it.
type Escalation struct {
	ID          string             `db:"id" json:"id"`
	CreatorID   string             `db:"creator_id" json:"creator_id"`
	AssigneeID  *string            `db:"assignee_id" json:"assignee_id,omitempty"`
	Priority    EscalationPriority `db:"priority" json:"priority"`
	Status      EscalationStatus   `db:"status" json:"status"`
	Level       int                `db:"level" json:"level"`
	Title       string             `db:"title" json:"title"`
	Description string             `db:"description" json:"description"`
	EntityType  *string            `db:"entity_type" json:"entity_type,omitempty"`
	EntityID    *string            `db:"entity_id" json:"entity_id,omitempty"`
	DueDate     time.Time          `db:"due_date" json:"due_date"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	ResolvedAt  *time.Time         `db:"resolved_at" json:"resolved_at,omitempty"`
}

// Terminal reports whether the escalation reached a final status.
func (e *Escalation) Terminal() bool {
	switch e.Status {
	case EscalationStatusResolved, EscalationStatusRejected, EscalationStatusExpired:
		return true
	}
	return false
}

// IsOverdue is a pure predicate: past due and not terminal. Overdue-ness is
// derived, never stored, so it always agrees with wall-clock time.
func (e *Escalation) IsOverdue(now time.Time) bool {
	return now.After(e.DueDate) && !e.Terminal()
}

// EscalationFilter constrains listing queries.
type EscalationFilter struct {
	Status     []EscalationStatus
	Priority   EscalationPriority
	AssigneeID string
	CreatorID  string
	Limit      int
	Offset     int
}
