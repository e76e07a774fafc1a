package dto

import "time"

// ReceiveStockRequest books stock into a new lot.
type ReceiveStockRequest struct {
	ProductCode string     `json:"product_code" binding:"required"`
	Quantity    int64      `json:"quantity" binding:"required"`
	At          *time.Time `json:"at"`
	SourceRef   string     `json:"source_ref"`
}

// ConsumeStockRequest withdraws stock FIFO across lots.
type ConsumeStockRequest struct {
	ProductCode string     `json:"product_code" binding:"required"`
	Quantity    int64      `json:"quantity" binding:"required"`
	At          *time.Time `json:"at"`
}

// InventoryQuery filters lot and transaction listings.
type InventoryQuery struct {
	ProductCode string `form:"product_code"`
	Direction   string `form:"direction"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}
