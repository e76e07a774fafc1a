package models

import "time"

// PriceCaseStatus is the price-compliance case lifecycle enum. Cases stay
// OPEN; enforcement actions accumulate on the case rather than closing it.
type PriceCaseStatus string

const (
	PriceCaseStatusOpen PriceCaseStatus = "OPEN"
)

// PriceCaseAction enumerates enforcement actions against an open case.
type PriceCaseAction string

const (
	PriceCaseActionWarn          PriceCaseAction = "warn"
	PriceCaseActionForceAdjust   PriceCaseAction = "force_adjust"
	PriceCaseActionSuspendSeller PriceCaseAction = "suspend_seller"
)

// PriceComplianceCase tracks a listed price exceeding its ceiling. It is a
// running tally: violation_count and last_action record enforcement
// history's head; the full history is in the audit ledger.
type PriceComplianceCase struct {
	ID             string           `db:"id" json:"id"`
	SellerID       string           `db:"seller_id" json:"seller_id"`
	ProductCode    string           `db:"product_code" json:"product_code"`
	ListedPrice    int64            `db:"listed_price" json:"listed_price"`
	CeilingPrice   int64            `db:"ceiling_price" json:"ceiling_price"`
	Status         PriceCaseStatus  `db:"status" json:"status"`
	ViolationCount int              `db:"violation_count" json:"violation_count"`
	LastAction     *PriceCaseAction `db:"last_action" json:"last_action,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	TransitionedAt time.Time        `db:"transitioned_at" json:"transitioned_at"`
}

// PriceCaseFilter constrains listing queries.
type PriceCaseFilter struct {
	SellerID    string
	ProductCode string
	Limit       int
	Offset      int
}
