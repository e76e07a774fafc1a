package models

import "time"

// ProcurementStatus is the OPAS submission lifecycle enum.
type ProcurementStatus string

const (
	ProcurementStatusPending  ProcurementStatus = "PENDING"
	ProcurementStatusAccepted ProcurementStatus = "ACCEPTED"
	ProcurementStatusRejected ProcurementStatus = "REJECTED"
)

// ProcurementAction enumerates review actions on a submission.
type ProcurementAction string

const (
	ProcurementActionApprove ProcurementAction = "approve"
	ProcurementActionReject  ProcurementAction = "reject"
)

// ProcurementSubmission is a seller's offer into the government
// procurement channel. Approval books the offered quantity into the
// inventory ledger as one lot plus one IN transaction.
type ProcurementSubmission struct {
	ID               string            `db:"id" json:"id"`
	SellerID         string            `db:"seller_id" json:"seller_id"`
	ProductCode      string            `db:"product_code" json:"product_code"`
	OfferedQuantity  int64             `db:"offered_quantity" json:"offered_quantity"`
	OfferedPrice     int64             `db:"offered_price" json:"offered_price"`
	AcceptedQuantity *int64            `db:"accepted_quantity" json:"accepted_quantity,omitempty"`
	AcceptedPrice    *int64            `db:"accepted_price" json:"accepted_price,omitempty"`
	RejectionReason  *string           `db:"rejection_reason" json:"rejection_reason,omitempty"`
	Status           ProcurementStatus `db:"status" json:"status"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
	TransitionedAt   time.Time         `db:"transitioned_at" json:"transitioned_at"`
}

// ProcurementFilter constrains listing queries.
type ProcurementFilter struct {
	Status      []ProcurementStatus
	SellerID    string
	ProductCode string
	Limit       int
	Offset      int
}
