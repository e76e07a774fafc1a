package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/agri-gov-api/internal/models"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

// InventoryRepository persists FIFO stock lots and their append-only
// movement transactions.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository constructs the repository.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func insertLotTx(ctx context.Context, tx *sqlx.Tx, lot *models.InventoryLot) error {
	const query = `INSERT INTO inventory_lots
	(id, product_code, received, remaining, received_at, source_ref, created_at)
	VALUES (:id, :product_code, :received, :remaining, :received_at, :source_ref, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, lot); err != nil {
		return fmt.Errorf("insert inventory lot: %w", err)
	}
	return nil
}

func insertTransactionTx(ctx context.Context, tx *sqlx.Tx, txn *models.InventoryTransaction) error {
	const query = `INSERT INTO inventory_transactions
	(id, lot_id, product_code, direction, quantity, occurred_at, created_at)
	VALUES (:id, :lot_id, :product_code, :direction, :quantity, :occurred_at, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, txn); err != nil {
		return fmt.Errorf("insert inventory transaction: %w", err)
	}
	return nil
}

// ReceiveParams groups a stock intake with its audit entry.
type ReceiveParams struct {
	ProductCode string
	Quantity    int64
	At          time.Time
	SourceRef   *string
	Audit       *models.AuditEntry
}

// Receive atomically creates one lot, one IN transaction, and the audit
// entry.
func (r *InventoryRepository) Receive(ctx context.Context, params ReceiveParams) (lot *models.InventoryLot, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin inventory receive: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	lot = &models.InventoryLot{
		ID:          uuid.NewString(),
		ProductCode: params.ProductCode,
		Received:    params.Quantity,
		Remaining:   params.Quantity,
		ReceivedAt:  params.At,
		SourceRef:   params.SourceRef,
		CreatedAt:   now,
	}
	if err = insertLotTx(ctx, tx, lot); err != nil {
		return nil, err
	}
	txn := &models.InventoryTransaction{
		ID:          uuid.NewString(),
		LotID:       lot.ID,
		ProductCode: params.ProductCode,
		Direction:   models.DirectionIn,
		Quantity:    params.Quantity,
		OccurredAt:  params.At,
		CreatedAt:   now,
	}
	if err = insertTransactionTx(ctx, tx, txn); err != nil {
		return nil, err
	}
	if params.Audit != nil {
		if err = appendAuditTx(ctx, tx, params.Audit); err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit inventory receive: %w", err)
	}
	return lot, nil
}

// ConsumeParams groups a stock withdrawal with its audit entry.
type ConsumeParams struct {
	ProductCode string
	Quantity    int64
	At          time.Time
	Audit       *models.AuditEntry
}

// Consume depletes the product's oldest lots first, splitting across lots
// when one remainder is insufficient. The product's open lots are locked
// FOR UPDATE for the whole read-then-write, so two concurrent consumers can
// never claim the same unit. Insufficient aggregate stock fails before any
// write, leaving every lot untouched.
func (r *InventoryRepository) Consume(ctx context.Context, params ConsumeParams) (taken []models.LotConsumption, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin inventory consume: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// FIFO: strictly oldest received first, ties broken by lot id.
	const lotsQuery = `SELECT id, product_code, received, remaining, received_at, source_ref, created_at
	FROM inventory_lots
	WHERE product_code = $1 AND remaining > 0
	ORDER BY received_at ASC, id ASC
	FOR UPDATE`
	var lots []models.InventoryLot
	if err = tx.SelectContext(ctx, &lots, lotsQuery, params.ProductCode); err != nil {
		return nil, fmt.Errorf("lock inventory lots: %w", err)
	}

	var available int64
	for _, lot := range lots {
		available += lot.Remaining
	}
	if available < params.Quantity {
		err = appErrors.Clone(appErrors.ErrInsufficientStock,
			fmt.Sprintf("requested %d of %s but only %d remaining", params.Quantity, params.ProductCode, available))
		return nil, err
	}

	now := time.Now().UTC()
	outstanding := params.Quantity
	for _, lot := range lots {
		if outstanding == 0 {
			break
		}
		take := lot.Remaining
		if take > outstanding {
			take = outstanding
		}
		const depleteQuery = `UPDATE inventory_lots SET remaining = remaining - $1 WHERE id = $2 AND remaining >= $1`
		var result sql.Result
		result, err = tx.ExecContext(ctx, depleteQuery, take, lot.ID)
		if err != nil {
			return nil, fmt.Errorf("deplete inventory lot: %w", err)
		}
		var rows int64
		rows, err = result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("check lot depletion rows: %w", err)
		}
		if rows == 0 {
			err = appErrors.Clone(appErrors.ErrConcurrentModification, "lot depleted concurrently")
			return nil, err
		}
		txn := &models.InventoryTransaction{
			ID:          uuid.NewString(),
			LotID:       lot.ID,
			ProductCode: params.ProductCode,
			Direction:   models.DirectionOut,
			Quantity:    take,
			OccurredAt:  params.At,
			CreatedAt:   now,
		}
		if err = insertTransactionTx(ctx, tx, txn); err != nil {
			return nil, err
		}
		taken = append(taken, models.LotConsumption{LotID: lot.ID, Quantity: take})
		outstanding -= take
	}

	if params.Audit != nil {
		if err = appendAuditTx(ctx, tx, params.Audit); err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit inventory consume: %w", err)
	}
	return taken, nil
}

// StockSummary aggregates a product's remaining quantity across open lots.
func (r *InventoryRepository) StockSummary(ctx context.Context, productCode string) (*models.StockSummary, error) {
	const query = `SELECT COALESCE(SUM(remaining), 0) AS remaining,
	COUNT(*) FILTER (WHERE remaining > 0) AS lot_count
	FROM inventory_lots WHERE product_code = $1`
	var row struct {
		Remaining int64 `db:"remaining"`
		LotCount  int   `db:"lot_count"`
	}
	if err := r.db.GetContext(ctx, &row, query, productCode); err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	return &models.StockSummary{ProductCode: productCode, Remaining: row.Remaining, LotCount: row.LotCount}, nil
}

// ListLots returns lots matching the filter, oldest first (FIFO order).
func (r *InventoryRepository) ListLots(ctx context.Context, filter models.InventoryFilter) ([]models.InventoryLot, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(`SELECT id, product_code, received, remaining, received_at, source_ref, created_at
	FROM inventory_lots`)
	if filter.ProductCode != "" {
		args = append(args, filter.ProductCode)
		builder.WriteString(fmt.Sprintf(" WHERE product_code = $%d", len(args)))
	}
	builder.WriteString(" ORDER BY received_at ASC, id ASC")
	builder.WriteString(limitOffset(filter.Limit, filter.Offset))

	var lots []models.InventoryLot
	if err := r.db.SelectContext(ctx, &lots, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list inventory lots: %w", err)
	}
	return lots, nil
}

// ListTransactions returns movements matching the filter, newest first.
func (r *InventoryRepository) ListTransactions(ctx context.Context, filter models.InventoryFilter) ([]models.InventoryTransaction, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(`SELECT id, lot_id, product_code, direction, quantity, occurred_at, created_at
	FROM inventory_transactions`)
	conditions := make([]string, 0, 2)
	if filter.ProductCode != "" {
		args = append(args, filter.ProductCode)
		conditions = append(conditions, fmt.Sprintf("product_code = $%d", len(args)))
	}
	if filter.Direction != "" {
		args = append(args, filter.Direction)
		conditions = append(conditions, fmt.Sprintf("direction = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC, id DESC")
	builder.WriteString(limitOffset(filter.Limit, filter.Offset))

	var txns []models.InventoryTransaction
	if err := r.db.SelectContext(ctx, &txns, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	return txns, nil
}
