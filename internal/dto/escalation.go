package dto

// CreateEscalationRequest raises a new escalation.
type CreateEscalationRequest struct {
	Priority    string `json:"priority" binding:"required" validate:"required,escalation_priority"`
	Title       string `json:"title" binding:"required" validate:"required"`
	Description string `json:"description" binding:"required" validate:"required"`
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`
}

// AssignEscalationRequest hands an escalation to an administrator.
type AssignEscalationRequest struct {
	AssigneeID string `json:"assignee_id" binding:"required"`
}

// EscalationQuery filters escalation listings.
type EscalationQuery struct {
	Status     string `form:"status"`
	Priority   string `form:"priority"`
	AssigneeID string `form:"assignee_id"`
	CreatorID  string `form:"creator_id"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}
