package models

import "time"

// SellerStatus is the seller application lifecycle enum.
type SellerStatus string

const (
	SellerStatusPending   SellerStatus = "PENDING"
	SellerStatusApproved  SellerStatus = "APPROVED"
	SellerStatusRejected  SellerStatus = "REJECTED"
	SellerStatusSuspended SellerStatus = "SUSPENDED"
)

// SellerAction enumerates review actions on a seller application.
type SellerAction string

const (
	SellerActionApprove    SellerAction = "approve"
	SellerActionReject     SellerAction = "reject"
	SellerActionSuspend    SellerAction = "suspend"
	SellerActionReactivate SellerAction = "reactivate"
)

// SellerApplication is a seller's registration under admin review. Status
// is the only lifecycle field stored here; history lives in the audit
// ledger.
type SellerApplication struct {
	ID               string       `db:"id" json:"id"`
	BusinessName     string       `db:"business_name" json:"business_name"`
	OwnerName        string       `db:"owner_name" json:"owner_name"`
	Email            string       `db:"email" json:"email"`
	Phone            string       `db:"phone" json:"phone"`
	Region           string       `db:"region" json:"region"`
	Status           SellerStatus `db:"status" json:"status"`
	SuspendedUntil   *time.Time   `db:"suspended_until" json:"suspended_until,omitempty"`
	SuspensionReason *string      `db:"suspension_reason" json:"suspension_reason,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	TransitionedAt   time.Time    `db:"transitioned_at" json:"transitioned_at"`
}

// SellerFilter constrains listing queries.
type SellerFilter struct {
	Status []SellerStatus
	Region string
	Search string
	Limit  int
	Offset int
}
