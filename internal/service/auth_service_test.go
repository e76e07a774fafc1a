package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

type mockAuthRepo struct {
	accounts   map[string]models.AdminAccount
	lastLogins map[string]time.Time
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.AdminAccount, error) {
	for _, acc := range m.accounts {
		if acc.Email == email {
			account := acc
			return &account, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id string) (*models.AdminAccount, error) {
	if acc, ok := m.accounts[id]; ok {
		return &acc, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if m.lastLogins == nil {
		m.lastLogins = make(map[string]time.Time)
	}
	m.lastLogins[id] = ts
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *mockAuthRepo) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse battery"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockAuthRepo{accounts: map[string]models.AdminAccount{
		"admin-1": {
			ID:           "admin-1",
			Email:        "ops@agri.example",
			PasswordHash: string(hash),
			Role:         rbac.RoleOpasManager,
			Active:       true,
		},
	}}
	svc := NewAuthService(repo, "test-secret", time.Hour, 24*time.Hour, zap.NewNop())
	return svc, repo
}

func TestAuthLoginIssuesValidTokens(t *testing.T) {
	svc, repo := newAuthFixture(t)

	pair, account, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "OPS@agri.example",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, "admin-1", account.ID)
	assert.Contains(t, repo.lastLogins, "admin-1")

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, rbac.RoleOpasManager, claims.Role)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ops@agri.example",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ghost@agri.example",
		Password: "anything",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	svc, repo := newAuthFixture(t)
	acc := repo.accounts["admin-1"]
	acc.Active = false
	repo.accounts["admin-1"] = acc

	_, _, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ops@agri.example",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestAuthRefreshCutsOffDeactivatedAccount(t *testing.T) {
	svc, repo := newAuthFixture(t)

	pair, _, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ops@agri.example",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	acc := repo.accounts["admin-1"]
	acc.Active = false
	repo.accounts["admin-1"] = acc

	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestAuthValidateGarbageToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}
