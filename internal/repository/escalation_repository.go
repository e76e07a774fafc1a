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

// EscalationRepository persists administrator escalations.
type EscalationRepository struct {
	db *sqlx.DB
}

// NewEscalationRepository constructs the repository.
func NewEscalationRepository(db *sqlx.DB) *EscalationRepository {
	return &EscalationRepository{db: db}
}

// Create inserts a new escalation and its audit entry atomically.
func (r *EscalationRepository) Create(ctx context.Context, esc *models.Escalation, audit *models.AuditEntry) (err error) {
	if esc.ID == "" {
		esc.ID = uuid.NewString()
	}
	if esc.Status == "" {
		esc.Status = models.EscalationStatusOpen
	}
	if esc.CreatedAt.IsZero() {
		esc.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin escalation create: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO escalations
	(id, creator_id, assignee_id, priority, status, level, title, description, entity_type, entity_id, due_date, created_at, resolved_at)
	VALUES (:id, :creator_id, :assignee_id, :priority, :status, :level, :title, :description, :entity_type, :entity_id, :due_date, :created_at, :resolved_at)`
	if _, err = tx.NamedExecContext(ctx, query, esc); err != nil {
		return fmt.Errorf("create escalation: %w", err)
	}
	if audit != nil {
		if err = appendAuditTx(ctx, tx, audit); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit escalation create: %w", err)
	}
	return nil
}

// GetByID fetches an escalation by identifier.
func (r *EscalationRepository) GetByID(ctx context.Context, id string) (*models.Escalation, error) {
	const query = `SELECT id, creator_id, assignee_id, priority, status, level, title, description,
	entity_type, entity_id, due_date, created_at, resolved_at
	FROM escalations WHERE id = $1`
	var esc models.Escalation
	if err := r.db.GetContext(ctx, &esc, query, id); err != nil {
		return nil, err
	}
	return &esc, nil
}

// List returns escalations matching the filter, newest first.
func (r *EscalationRepository) List(ctx context.Context, filter models.EscalationFilter) ([]models.Escalation, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT id, creator_id, assignee_id, priority, status, level, title, description,
	entity_type, entity_id, due_date, created_at, resolved_at FROM escalations`)

	conditions := make([]string, 0, 4)
	if len(filter.Status) > 0 {
		values := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			values[i] = string(s)
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", placeholders(&args, values)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.AssigneeID != "" {
		args = append(args, filter.AssigneeID)
		conditions = append(conditions, fmt.Sprintf("assignee_id = $%d", len(args)))
	}
	if filter.CreatorID != "" {
		args = append(args, filter.CreatorID)
		conditions = append(conditions, fmt.Sprintf("creator_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")
	builder.WriteString(limitOffset(filter.Limit, filter.Offset))

	var escalations []models.Escalation
	if err := r.db.SelectContext(ctx, &escalations, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list escalations: %w", err)
	}
	return escalations, nil
}

// EscalationTransitionParams groups one status transition with its audit
// entry. From lists every status the transition is legal from; the guard
// covers all of them in one statement.
type EscalationTransitionParams struct {
	ID             string
	From           []models.EscalationStatus
	To             models.EscalationStatus
	AssigneeID     *string
	IncrementLevel bool
	ResolvedAt     *time.Time
	Audit          *models.AuditEntry
}

// Transition atomically moves an escalation between statuses and appends
// the audit entry. A lost guard surfaces as sql.ErrNoRows.
func (r *EscalationRepository) Transition(ctx context.Context, params EscalationTransitionParams) (err error) {
	if len(params.From) == 0 {
		return fmt.Errorf("escalation transition requires at least one source status")
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin escalation transition: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	args := make([]interface{}, 0, 6)
	setParts := make([]string, 0, 4)

	args = append(args, params.To)
	setParts = append(setParts, fmt.Sprintf("status = $%d", len(args)))
	if params.AssigneeID != nil {
		args = append(args, *params.AssigneeID)
		setParts = append(setParts, fmt.Sprintf("assignee_id = $%d", len(args)))
	}
	if params.IncrementLevel {
		setParts = append(setParts, "level = level + 1")
	}
	if params.ResolvedAt != nil {
		args = append(args, *params.ResolvedAt)
		setParts = append(setParts, fmt.Sprintf("resolved_at = $%d", len(args)))
	}

	args = append(args, params.ID)
	idPos := len(args)
	values := make([]string, len(params.From))
	for i, s := range params.From {
		values[i] = string(s)
	}
	query := fmt.Sprintf("UPDATE escalations SET %s WHERE id = $%d AND status IN (%s)",
		strings.Join(setParts, ", "), idPos, placeholders(&args, values))

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update escalation status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check escalation update rows: %w", err)
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
		return fmt.Errorf("commit escalation transition: %w", err)
	}
	return nil
}

// ExpireOverdue promotes every overdue, non-terminal escalation to EXPIRED,
// appending one audit entry per row. Rows are locked first so the sweep can
// never race a concurrent resolve into clobbering it.
func (r *EscalationRepository) ExpireOverdue(ctx context.Context, now time.Time) (expired []string, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin escalation sweep: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const selectQuery = `SELECT id FROM escalations
	WHERE due_date < $1 AND status NOT IN ($2, $3, $4)
	ORDER BY due_date ASC
	FOR UPDATE`
	var ids []string
	if err = tx.SelectContext(ctx, &ids, selectQuery, now,
		models.EscalationStatusResolved, models.EscalationStatusRejected, models.EscalationStatusExpired); err != nil {
		return nil, fmt.Errorf("lock overdue escalations: %w", err)
	}
	if len(ids) == 0 {
		err = tx.Commit()
		return nil, err
	}

	for _, id := range ids {
		const updateQuery = `UPDATE escalations SET status = $1 WHERE id = $2`
		if _, err = tx.ExecContext(ctx, updateQuery, models.EscalationStatusExpired, id); err != nil {
			return nil, fmt.Errorf("expire escalation: %w", err)
		}
		entry := &models.AuditEntry{
			Action:     "expire",
			EntityType: models.EntityTypeEscalation,
			EntityID:   id,
		}
		if err = appendAuditTx(ctx, tx, entry); err != nil {
			return nil, err
		}
		expired = append(expired, id)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit escalation sweep: %w", err)
	}
	return expired, nil
}
