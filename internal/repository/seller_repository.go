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

// SellerRepository persists seller applications.
type SellerRepository struct {
	db *sqlx.DB
}

// NewSellerRepository constructs the repository.
func NewSellerRepository(db *sqlx.DB) *SellerRepository {
	return &SellerRepository{db: db}
}

// Create inserts a new application in PENDING state.
func (r *SellerRepository) Create(ctx context.Context, app *models.SellerApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = models.SellerStatusPending
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	if app.TransitionedAt.IsZero() {
		app.TransitionedAt = now
	}
	const query = `INSERT INTO seller_applications
	(id, business_name, owner_name, email, phone, region, status, suspended_until, suspension_reason, created_at, transitioned_at)
	VALUES (:id, :business_name, :owner_name, :email, :phone, :region, :status, :suspended_until, :suspension_reason, :created_at, :transitioned_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create seller application: %w", err)
	}
	return nil
}

// GetByID fetches an application by identifier.
func (r *SellerRepository) GetByID(ctx context.Context, id string) (*models.SellerApplication, error) {
	const query = `SELECT id, business_name, owner_name, email, phone, region, status,
	suspended_until, suspension_reason, created_at, transitioned_at
	FROM seller_applications WHERE id = $1`
	var app models.SellerApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// List returns applications matching the filter, newest first.
func (r *SellerRepository) List(ctx context.Context, filter models.SellerFilter) ([]models.SellerApplication, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT id, business_name, owner_name, email, phone, region, status,
	suspended_until, suspension_reason, created_at, transitioned_at FROM seller_applications`)

	conditions := make([]string, 0, 3)
	if len(filter.Status) > 0 {
		values := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			values[i] = string(s)
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", placeholders(&args, values)))
	}
	if filter.Region != "" {
		args = append(args, filter.Region)
		conditions = append(conditions, fmt.Sprintf("region = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(business_name ILIKE $%d OR owner_name ILIKE $%d)", len(args), len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")
	builder.WriteString(limitOffset(filter.Limit, filter.Offset))

	var apps []models.SellerApplication
	if err := r.db.SelectContext(ctx, &apps, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list seller applications: %w", err)
	}
	return apps, nil
}

// SellerTransitionParams groups one status transition with its audit entry.
type SellerTransitionParams struct {
	ID               string
	From             models.SellerStatus
	To               models.SellerStatus
	SuspendedUntil   *time.Time
	SuspensionReason *string
	ClearSuspension  bool
	Audit            *models.AuditEntry
}

// Transition atomically moves an application between statuses and appends
// the audit entry. The status guard makes the update optimistic: zero rows
// means another transition won the race, surfaced as sql.ErrNoRows.
func (r *SellerRepository) Transition(ctx context.Context, params SellerTransitionParams) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seller transition: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	setParts := []string{"status = :to", "transitioned_at = :transitioned_at"}
	if params.SuspendedUntil != nil {
		setParts = append(setParts, "suspended_until = :suspended_until")
	}
	if params.SuspensionReason != nil {
		setParts = append(setParts, "suspension_reason = :suspension_reason")
	}
	if params.ClearSuspension {
		setParts = append(setParts, "suspended_until = NULL", "suspension_reason = NULL")
	}
	query := fmt.Sprintf("UPDATE seller_applications SET %s WHERE id = :id AND status = :from",
		strings.Join(setParts, ", "))
	result, err := tx.NamedExecContext(ctx, query, map[string]interface{}{
		"id":                params.ID,
		"from":              params.From,
		"to":                params.To,
		"transitioned_at":   time.Now().UTC(),
		"suspended_until":   params.SuspendedUntil,
		"suspension_reason": params.SuspensionReason,
	})
	if err != nil {
		return fmt.Errorf("update seller status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check seller update rows: %w", err)
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
		return fmt.Errorf("commit seller transition: %w", err)
	}
	return nil
}

func limitOffset(limit, offset int) string {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}
