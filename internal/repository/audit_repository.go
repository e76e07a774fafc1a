package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/agri-gov-api/internal/models"
)

// AuditRepository persists the append-only audit ledger. The contract is
// write-once: no update or delete exists here, and reads are ordered by
// created_at then id so one entity's history never reorders.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

const auditInsertQuery = `INSERT INTO audit_entries
	(id, actor_id, action, entity_type, entity_id, old_values, new_values, reason, created_at)
	VALUES (:id, :actor_id, :action, :entity_type, :entity_id, :old_values, :new_values, :reason, :created_at)`

// Append writes one entry outside any surrounding transaction.
func (r *AuditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	stampEntry(entry)
	if _, err := r.db.NamedExecContext(ctx, auditInsertQuery, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// appendAuditTx writes one entry inside a caller-owned transaction. Every
// workflow transition uses this so the entry commits or rolls back with the
// entity mutation it describes.
func appendAuditTx(ctx context.Context, tx *sqlx.Tx, entry *models.AuditEntry) error {
	stampEntry(entry)
	if _, err := tx.NamedExecContext(ctx, auditInsertQuery, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func stampEntry(entry *models.AuditEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
}

// EntriesFor returns one entity's trail ordered oldest first.
func (r *AuditRepository) EntriesFor(ctx context.Context, entityType, entityID string, limit, offset int) ([]models.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `SELECT id, actor_id, action, entity_type, entity_id, old_values, new_values, reason, created_at
	FROM audit_entries WHERE entity_type = $1 AND entity_id = $2
	ORDER BY created_at ASC, id ASC LIMIT $3 OFFSET $4`
	var entries []models.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, entityType, entityID, limit, offset); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

// ListByActor returns an administrator's actions, newest first.
func (r *AuditRepository) ListByActor(ctx context.Context, actorID string, limit, offset int) ([]models.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `SELECT id, actor_id, action, entity_type, entity_id, old_values, new_values, reason, created_at
	FROM audit_entries WHERE actor_id = $1
	ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	var entries []models.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, actorID, limit, offset); err != nil {
		return nil, fmt.Errorf("list audit entries by actor: %w", err)
	}
	return entries, nil
}

func placeholders(args *[]interface{}, values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		*args = append(*args, v)
		parts[i] = fmt.Sprintf("$%d", len(*args))
	}
	return strings.Join(parts, ",")
}
