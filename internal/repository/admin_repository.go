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

// AdminRepository persists administrator accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs the repository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts a new account and its audit entry atomically.
func (r *AdminRepository) Create(ctx context.Context, account *models.AdminAccount, audit *models.AuditEntry) (err error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin admin create: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO admin_accounts
	(id, email, password_hash, full_name, role, active, last_login, created_at, updated_at)
	VALUES (:id, :email, :password_hash, :full_name, :role, :active, :last_login, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, account); err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}
	if audit != nil {
		if err = appendAuditTx(ctx, tx, audit); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit admin create: %w", err)
	}
	return nil
}

// GetByID fetches an account by identifier.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*models.AdminAccount, error) {
	const query = `SELECT id, email, password_hash, full_name, role, active, last_login, created_at, updated_at
	FROM admin_accounts WHERE id = $1`
	var account models.AdminAccount
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByEmail fetches an account by email.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.AdminAccount, error) {
	const query = `SELECT id, email, password_hash, full_name, role, active, last_login, created_at, updated_at
	FROM admin_accounts WHERE email = $1`
	var account models.AdminAccount
	if err := r.db.GetContext(ctx, &account, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		return nil, err
	}
	return &account, nil
}

// List returns accounts matching the filter.
func (r *AdminRepository) List(ctx context.Context, filter models.AdminFilter) ([]models.AdminAccount, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(`SELECT id, email, password_hash, full_name, role, active, last_login, created_at, updated_at
	FROM admin_accounts`)
	conditions := make([]string, 0, 2)
	if filter.Role != nil {
		args = append(args, *filter.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")
	builder.WriteString(limitOffset(filter.Limit, filter.Offset))

	var accounts []models.AdminAccount
	if err := r.db.SelectContext(ctx, &accounts, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list admin accounts: %w", err)
	}
	return accounts, nil
}

// Deactivate flags an account inactive and appends the audit entry.
// Accounts are never deleted so ledger actor references stay resolvable.
func (r *AdminRepository) Deactivate(ctx context.Context, id string, audit *models.AuditEntry) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin admin deactivate: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE admin_accounts SET active = FALSE, updated_at = $1 WHERE id = $2 AND active = TRUE`
	result, err := tx.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deactivate admin account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check admin update rows: %w", err)
	}
	if rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if audit != nil {
		if err = appendAuditTx(ctx, tx, audit); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit admin deactivate: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the most recent successful login.
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE admin_accounts SET last_login = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, ts, id); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
