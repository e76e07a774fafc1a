package dto

// OpenPriceCaseRequest opens a compliance case for a ceiling breach.
type OpenPriceCaseRequest struct {
	SellerID     string `json:"seller_id" binding:"required"`
	ProductCode  string `json:"product_code" binding:"required"`
	ListedPrice  int64  `json:"listed_price" binding:"required,gt=0"`
	CeilingPrice int64  `json:"ceiling_price" binding:"required,gt=0"`
}

// PriceCaseActionRequest carries optional context for an enforcement action.
type PriceCaseActionRequest struct {
	Reason string `json:"reason"`
}

// PriceCaseQuery filters case listings.
type PriceCaseQuery struct {
	SellerID    string `form:"seller_id"`
	ProductCode string `form:"product_code"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}
