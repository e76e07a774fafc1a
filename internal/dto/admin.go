package dto

// CreateAdminRequest onboards a new administrator account.
type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=12"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// AdminQuery filters account listings.
type AdminQuery struct {
	Role   string `form:"role"`
	Active *bool  `form:"active"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
