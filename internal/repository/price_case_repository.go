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

// PriceCaseRepository persists price-compliance cases.
type PriceCaseRepository struct {
	db *sqlx.DB
}

// NewPriceCaseRepository constructs the repository.
func NewPriceCaseRepository(db *sqlx.DB) *PriceCaseRepository {
	return &PriceCaseRepository{db: db}
}

// Create opens a new case.
func (r *PriceCaseRepository) Create(ctx context.Context, pc *models.PriceComplianceCase) error {
	if pc.ID == "" {
		pc.ID = uuid.NewString()
	}
	if pc.Status == "" {
		pc.Status = models.PriceCaseStatusOpen
	}
	now := time.Now().UTC()
	if pc.CreatedAt.IsZero() {
		pc.CreatedAt = now
	}
	if pc.TransitionedAt.IsZero() {
		pc.TransitionedAt = now
	}
	const query = `INSERT INTO price_compliance_cases
	(id, seller_id, product_code, listed_price, ceiling_price, status, violation_count, last_action, created_at, transitioned_at)
	VALUES (:id, :seller_id, :product_code, :listed_price, :ceiling_price, :status, :violation_count, :last_action, :created_at, :transitioned_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pc); err != nil {
		return fmt.Errorf("create price compliance case: %w", err)
	}
	return nil
}

// GetByID fetches a case by identifier.
func (r *PriceCaseRepository) GetByID(ctx context.Context, id string) (*models.PriceComplianceCase, error) {
	const query = `SELECT id, seller_id, product_code, listed_price, ceiling_price, status,
	violation_count, last_action, created_at, transitioned_at
	FROM price_compliance_cases WHERE id = $1`
	var pc models.PriceComplianceCase
	if err := r.db.GetContext(ctx, &pc, query, id); err != nil {
		return nil, err
	}
	return &pc, nil
}

// List returns cases matching the filter, newest first.
func (r *PriceCaseRepository) List(ctx context.Context, filter models.PriceCaseFilter) ([]models.PriceComplianceCase, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(`SELECT id, seller_id, product_code, listed_price, ceiling_price, status,
	violation_count, last_action, created_at, transitioned_at FROM price_compliance_cases`)
	conditions := make([]string, 0, 2)
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

	var cases []models.PriceComplianceCase
	if err := r.db.SelectContext(ctx, &cases, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list price compliance cases: %w", err)
	}
	return cases, nil
}

// PriceCaseActionParams groups one enforcement action with its audit entry.
type PriceCaseActionParams struct {
	ID     string
	Action models.PriceCaseAction
	Audit  *models.AuditEntry
}

// RecordAction atomically bumps the violation tally, records the latest
// action, and appends the audit entry. The case must still be OPEN; a lost
// guard surfaces as sql.ErrNoRows.
func (r *PriceCaseRepository) RecordAction(ctx context.Context, params PriceCaseActionParams) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin price case action: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE price_compliance_cases
	SET violation_count = violation_count + 1, last_action = $1, transitioned_at = $2
	WHERE id = $3 AND status = $4`
	result, err := tx.ExecContext(ctx, query, params.Action, time.Now().UTC(), params.ID, models.PriceCaseStatusOpen)
	if err != nil {
		return fmt.Errorf("record price case action: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check price case update rows: %w", err)
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
		return fmt.Errorf("commit price case action: %w", err)
	}
	return nil
}
