package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

type mockAdminRepo struct {
	accounts    map[string]models.AdminAccount
	deactivated []string
}

func (m *mockAdminRepo) Create(ctx context.Context, account *models.AdminAccount, audit *models.AuditEntry) error {
	if m.accounts == nil {
		m.accounts = make(map[string]models.AdminAccount)
	}
	m.accounts[account.ID] = *account
	return nil
}

func (m *mockAdminRepo) GetByID(ctx context.Context, id string) (*models.AdminAccount, error) {
	if acc, ok := m.accounts[id]; ok {
		return &acc, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdminRepo) FindByEmail(ctx context.Context, email string) (*models.AdminAccount, error) {
	for _, acc := range m.accounts {
		if acc.Email == email {
			account := acc
			return &account, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdminRepo) List(ctx context.Context, filter models.AdminFilter) ([]models.AdminAccount, error) {
	out := make([]models.AdminAccount, 0, len(m.accounts))
	for _, acc := range m.accounts {
		out = append(out, acc)
	}
	return out, nil
}

func (m *mockAdminRepo) Deactivate(ctx context.Context, id string, audit *models.AuditEntry) error {
	acc, ok := m.accounts[id]
	if !ok || !acc.Active {
		return sql.ErrNoRows
	}
	acc.Active = false
	m.accounts[id] = acc
	m.deactivated = append(m.deactivated, id)
	return nil
}

func superClaims() *models.AdminClaims {
	return &models.AdminClaims{AdminID: "root", Role: rbac.RoleSuperAdmin}
}

func TestAdminCreateHashesPassword(t *testing.T) {
	repo := &mockAdminRepo{}
	svc := NewAdminService(repo, zap.NewNop())

	account, err := svc.Create(context.Background(), dto.CreateAdminRequest{
		Email:    "New.Admin@Agri.Example",
		Password: "a-long-enough-password",
		FullName: "New Admin",
		Role:     "seller_manager",
	}, superClaims())
	require.NoError(t, err)

	assert.Equal(t, "new.admin@agri.example", account.Email)
	assert.Equal(t, rbac.RoleSellerManager, account.Role)
	assert.True(t, account.Active)
	assert.NotEqual(t, "a-long-enough-password", account.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("a-long-enough-password")))
}

func TestAdminCreateUnknownRole(t *testing.T) {
	repo := &mockAdminRepo{}
	svc := NewAdminService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreateAdminRequest{
		Email:    "x@agri.example",
		Password: "a-long-enough-password",
		FullName: "X",
		Role:     "JANITOR",
	}, superClaims())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAdminCreateDuplicateEmail(t *testing.T) {
	repo := &mockAdminRepo{accounts: map[string]models.AdminAccount{
		"a1": {ID: "a1", Email: "dup@agri.example", Active: true},
	}}
	svc := NewAdminService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreateAdminRequest{
		Email:    "dup@agri.example",
		Password: "a-long-enough-password",
		FullName: "Dup",
		Role:     "SUPPORT_AGENT",
	}, superClaims())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAdminCreateRequiresManagePermission(t *testing.T) {
	repo := &mockAdminRepo{}
	svc := NewAdminService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreateAdminRequest{
		Email:    "x@agri.example",
		Password: "a-long-enough-password",
		FullName: "X",
		Role:     "SUPPORT_AGENT",
	}, &models.AdminClaims{AdminID: "a", Role: rbac.RoleSellerManager})
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)
}

func TestAdminDeactivate(t *testing.T) {
	repo := &mockAdminRepo{accounts: map[string]models.AdminAccount{
		"a1": {ID: "a1", Email: "a1@agri.example", Active: true},
	}}
	svc := NewAdminService(repo, zap.NewNop())

	require.NoError(t, svc.Deactivate(context.Background(), "a1", superClaims()))
	assert.False(t, repo.accounts["a1"].Active)

	// Already inactive surfaces a conflict, not a silent no-op.
	err := svc.Deactivate(context.Background(), "a1", superClaims())
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAdminCannotDeactivateSelf(t *testing.T) {
	repo := &mockAdminRepo{accounts: map[string]models.AdminAccount{
		"root": {ID: "root", Email: "root@agri.example", Active: true},
	}}
	svc := NewAdminService(repo, zap.NewNop())

	err := svc.Deactivate(context.Background(), "root", superClaims())
	require.Error(t, err)
	assert.True(t, repo.accounts["root"].Active)
}
