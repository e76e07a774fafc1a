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
)

// ProcurementRepository persists OPAS procurement submissions.
type ProcurementRepository struct {
	db *sqlx.DB
}

// NewProcurementRepository constructs the repository.
func NewProcurementRepository(db *sqlx.DB) *ProcurementRepository {
	return &ProcurementRepository{db: db}
}

// Create inserts a new submission in PENDING state.
func (r *ProcurementRepository) Create(ctx context.Context, sub *models.ProcurementSubmission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.Status == "" {
		sub.Status = models.ProcurementStatusPending
	}
	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	if sub.TransitionedAt.IsZero() {
		sub.TransitionedAt = now
	}
	const query = `INSERT INTO procurement_submissions
	(id, seller_id, product_code, offered_quantity, offered_price, accepted_quantity, accepted_price, rejection_reason, status, created_at, transitioned_at)
	VALUES (:id, :seller_id, :product_code, :offered_quantity, :offered_price, :accepted_quantity, :accepted_price, :rejection_reason, :status, :created_at, :transitioned_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("create procurement submission: %w", err)
	}
	return nil
}

// GetByID fetches a submission by identifier.
func (r *ProcurementRepository) GetByID(ctx context.Context, id string) (*models.ProcurementSubmission, error) {
	const query = `SELECT id, seller_id, product_code, offered_quantity, offered_price,
	accepted_quantity, accepted_price, rejection_reason, status, created_at, transitioned_at
	FROM procurement_submissions WHERE id = $1`
	var sub models.ProcurementSubmission
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		return nil, err
	}
	return &sub, nil
}

// List returns submissions matching the filter, newest first.
func (r *ProcurementRepository) List(ctx context.Context, filter models.ProcurementFilter) ([]models.ProcurementSubmission, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT id, seller_id, product_code, offered_quantity, offered_price,
	accepted_quantity, accepted_price, rejection_reason, status, created_at, transitioned_at
	FROM procurement_submissions`)

	conditions := make([]string, 0, 3)
	if len(filter.Status) > 0 {
		values := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			values[i] = string(s)
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", placeholders(&args, values)))
	}
	if filter.SellerID != "" {
		args = append(args, filter.SellerID)
		conditions = append(conditions, fmt.Sprintf("seller_id = $%d", len(args)))
	}
	if filter.ProductCode != "" {
		args = append(args, filter.ProductCode)
		conditions = append(conditions, fmt.Sprintf("product_code = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")
	builder.WriteString(limitOffset(filter.Limit, filter.Offset))

	var subs []models.ProcurementSubmission
	if err := r.db.SelectContext(ctx, &subs, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list procurement submissions: %w", err)
	}
	return subs, nil
}

// ApproveProcurementParams groups the accept transition, its inventory side
// effect, and the audit entry into one unit.
type ApproveProcurementParams struct {
	ID       string
	Quantity int64
	Price    int64
	At       time.Time
	Audit    *models.AuditEntry
}

// Approve atomically accepts a PENDING submission, creates one inventory
// lot plus one IN transaction for the accepted quantity, and appends the
// audit entry. All four writes commit or roll back together; a lost status
// guard surfaces as sql.ErrNoRows.
func (r *ProcurementRepository) Approve(ctx context.Context, params ApproveProcurementParams) (lot *models.InventoryLot, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin procurement approval: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var productCode string
	const selectQuery = `SELECT product_code FROM procurement_submissions WHERE id = $1 AND status = $2 FOR UPDATE`
	if err = tx.GetContext(ctx, &productCode, selectQuery, params.ID, models.ProcurementStatusPending); err != nil {
		return nil, err
	}

	const updateQuery = `UPDATE procurement_submissions
	SET status = $1, accepted_quantity = $2, accepted_price = $3, transitioned_at = $4
	WHERE id = $5 AND status = $6`
	result, err := tx.ExecContext(ctx, updateQuery,
		models.ProcurementStatusAccepted, params.Quantity, params.Price, time.Now().UTC(),
		params.ID, models.ProcurementStatusPending)
	if err != nil {
		return nil, fmt.Errorf("accept procurement submission: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check procurement update rows: %w", err)
	}
	if rows == 0 {
		err = sql.ErrNoRows
		return nil, err
	}

	sourceRef := params.ID
	lot = &models.InventoryLot{
		ID:          uuid.NewString(),
		ProductCode: productCode,
		Received:    params.Quantity,
		Remaining:   params.Quantity,
		ReceivedAt:  params.At,
		SourceRef:   &sourceRef,
		CreatedAt:   time.Now().UTC(),
	}
	if err = insertLotTx(ctx, tx, lot); err != nil {
		return nil, err
	}
	txn := &models.InventoryTransaction{
		ID:          uuid.NewString(),
		LotID:       lot.ID,
		ProductCode: productCode,
		Direction:   models.DirectionIn,
		Quantity:    params.Quantity,
		OccurredAt:  params.At,
		CreatedAt:   time.Now().UTC(),
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
		return nil, fmt.Errorf("commit procurement approval: %w", err)
	}
	return lot, nil
}

// RejectProcurementParams groups the reject transition with its audit entry.
type RejectProcurementParams struct {
	ID     string
	Reason string
	Audit  *models.AuditEntry
}

// Reject atomically rejects a PENDING submission and appends the audit
// entry. A lost status guard surfaces as sql.ErrNoRows.
func (r *ProcurementRepository) Reject(ctx context.Context, params RejectProcurementParams) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin procurement rejection: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE procurement_submissions
	SET status = $1, rejection_reason = $2, transitioned_at = $3
	WHERE id = $4 AND status = $5`
	result, err := tx.ExecContext(ctx, query,
		models.ProcurementStatusRejected, params.Reason, time.Now().UTC(),
		params.ID, models.ProcurementStatusPending)
	if err != nil {
		return fmt.Errorf("reject procurement submission: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check procurement update rows: %w", err)
	}
	if rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if params.Audit != nil {
		if err = appendAuditTx(ctx, tx, params.Audit); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit procurement rejection: %w", err)
	}
	return nil
}
