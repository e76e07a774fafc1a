package dto

// CreateProcurementRequest submits an offer into the procurement channel.
type CreateProcurementRequest struct {
	SellerID        string `json:"seller_id" binding:"required"`
	ProductCode     string `json:"product_code" binding:"required"`
	OfferedQuantity int64  `json:"offered_quantity" binding:"required,gt=0"`
	OfferedPrice    int64  `json:"offered_price" binding:"required,gt=0"`
}

// ApproveProcurementRequest carries the accepted terms.
type ApproveProcurementRequest struct {
	Quantity int64 `json:"quantity" binding:"required"`
	Price    int64 `json:"price" binding:"required,gt=0"`
}

// RejectProcurementRequest carries the rejection reason.
type RejectProcurementRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ProcurementQuery filters submission listings.
type ProcurementQuery struct {
	Status      string `form:"status"`
	SellerID    string `form:"seller_id"`
	ProductCode string `form:"product_code"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}
