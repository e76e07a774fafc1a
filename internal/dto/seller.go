package dto

// CreateSellerApplicationRequest registers a seller application for review.
type CreateSellerApplicationRequest struct {
	BusinessName string `json:"business_name" binding:"required"`
	OwnerName    string `json:"owner_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required"`
	Region       string `json:"region" binding:"required"`
}

// SuspendSellerRequest carries the suspension verdict.
type SuspendSellerRequest struct {
	Reason        string `json:"reason" binding:"required"`
	DurationHours int    `json:"duration_hours" binding:"required,gt=0"`
}

// RejectSellerRequest carries the rejection verdict.
type RejectSellerRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SellerQuery filters seller application listings.
type SellerQuery struct {
	Status string `form:"status"`
	Region string `form:"region"`
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
