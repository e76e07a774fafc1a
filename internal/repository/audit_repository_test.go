package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/agri-gov-api/internal/models"
)

func newAuditMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAuditRepositoryAppendStampsEntry(t *testing.T) {
	db, mock, cleanup := newAuditMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO audit_entries").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "approve", "seller_application", "app-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	actor := "admin-1"
	entry := &models.AuditEntry{
		ActorID:    &actor,
		Action:     "approve",
		EntityType: "seller_application",
		EntityID:   "app-1",
	}
	err := repo.Append(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID, "append must assign an id")
	assert.False(t, entry.CreatedAt.IsZero(), "append must stamp created_at")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryEntriesForOrdersOldestFirst(t *testing.T) {
	db, mock, cleanup := newAuditMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "actor_id", "action", "entity_type", "entity_id", "old_values", "new_values", "reason", "created_at"}).
		AddRow("e1", "admin-1", "create", "escalation", "esc-1", nil, []byte(`{}`), nil, now.Add(-time.Hour)).
		AddRow("e2", "admin-2", "assign", "escalation", "esc-1", nil, []byte(`{}`), nil, now)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at ASC, id ASC LIMIT $3 OFFSET $4")).
		WithArgs("escalation", "esc-1", 100, 0).
		WillReturnRows(rows)

	entries, err := repo.EntriesFor(context.Background(), "escalation", "esc-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e1", entries[0].ID)
	assert.Equal(t, "e2", entries[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListByActor(t *testing.T) {
	db, mock, cleanup := newAuditMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	rows := sqlmock.NewRows([]string{"id", "actor_id", "action", "entity_type", "entity_id", "old_values", "new_values", "reason", "created_at"}).
		AddRow("e9", "admin-1", "reject", "procurement_submission", "sub-3", nil, nil, nil, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("WHERE actor_id = $1")).
		WithArgs("admin-1", 100, 0).
		WillReturnRows(rows)

	entries, err := repo.ListByActor(context.Background(), "admin-1", 600, -5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e9", entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
