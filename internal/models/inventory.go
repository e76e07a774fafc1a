package models

import "time"

// TransactionDirection tags inventory movements.
type TransactionDirection string

const (
	DirectionIn  TransactionDirection = "IN"
	DirectionOut TransactionDirection = "OUT"
)

// InventoryLot is a discrete batch of received stock. Remaining only
// decreases, and only through OUT transactions against the lot.
type InventoryLot struct {
	ID          string    `db:"id" json:"id"`
	ProductCode string    `db:"product_code" json:"product_code"`
	Received    int64     `db:"received" json:"received"`
	Remaining   int64     `db:"remaining" json:"remaining"`
	ReceivedAt  time.Time `db:"received_at" json:"received_at"`
	SourceRef   *string   `db:"source_ref" json:"source_ref,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// InventoryTransaction is one append-only movement row. A single consume
// call over several lots appends one OUT row per lot touched.
type InventoryTransaction struct {
	ID          string               `db:"id" json:"id"`
	LotID       string               `db:"lot_id" json:"lot_id"`
	ProductCode string               `db:"product_code" json:"product_code"`
	Direction   TransactionDirection `db:"direction" json:"direction"`
	Quantity    int64                `db:"quantity" json:"quantity"`
	OccurredAt  time.Time            `db:"occurred_at" json:"occurred_at"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
}

// LotConsumption reports how much one consume call took from one lot.
type LotConsumption struct {
	LotID    string `json:"lot_id"`
	Quantity int64  `json:"quantity"`
}

// StockSummary aggregates a product's availability across lots.
type StockSummary struct {
	ProductCode string `json:"product_code"`
	Remaining   int64  `json:"remaining"`
	LotCount    int    `json:"lot_count"`
}

// InventoryFilter constrains lot and transaction listings.
type InventoryFilter struct {
	ProductCode string
	Direction   TransactionDirection
	Limit       int
	Offset      int
}
