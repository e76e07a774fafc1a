package models

import "time"

// Entity type tags recorded on audit entries.
const (
	EntityTypeSellerApplication     = "seller_application"
	EntityTypeProcurementSubmission = "procurement_submission"
	EntityTypePriceComplianceCase   = "price_compliance_case"
	EntityTypeInventoryLot          = "inventory_lot"
	EntityTypeEscalation            = "escalation"
	EntityTypeAdminAccount          = "admin_account"
)

// AuditEntry is an immutable record of one state-changing action. Entries
// are write-once: the repository exposes no update or delete, and entries
// for one entity are totally ordered by created_at then id.
type AuditEntry struct {
	ID         string    `db:"id" json:"id"`
	ActorID    *string   `db:"actor_id" json:"actor_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	EntityType string    `db:"entity_type" json:"entity_type"`
	EntityID   string    `db:"entity_id" json:"entity_id"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	Reason     *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
