package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	"github.com/noah-isme/agri-gov-api/internal/repository"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

type mockSellerRepo struct {
	apps        map[string]models.SellerApplication
	transitions []repository.SellerTransitionParams
	conflict    bool
}

func (m *mockSellerRepo) Create(ctx context.Context, app *models.SellerApplication) error {
	if m.apps == nil {
		m.apps = make(map[string]models.SellerApplication)
	}
	if app.ID == "" {
		app.ID = "generated"
	}
	m.apps[app.ID] = *app
	return nil
}

func (m *mockSellerRepo) GetByID(ctx context.Context, id string) (*models.SellerApplication, error) {
	if app, ok := m.apps[id]; ok {
		return &app, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSellerRepo) List(ctx context.Context, filter models.SellerFilter) ([]models.SellerApplication, error) {
	out := make([]models.SellerApplication, 0, len(m.apps))
	for _, app := range m.apps {
		out = append(out, app)
	}
	return out, nil
}

func (m *mockSellerRepo) Transition(ctx context.Context, params repository.SellerTransitionParams) error {
	if m.conflict {
		return sql.ErrNoRows
	}
	m.transitions = append(m.transitions, params)
	app := m.apps[params.ID]
	app.Status = params.To
	m.apps[params.ID] = app
	return nil
}

type recordingNotifier struct {
	events []string
}

func (r *recordingNotifier) Notify(ctx context.Context, n Notification) {
	r.events = append(r.events, n.Event)
}

func sellerClaims(role rbac.Role) *models.AdminClaims {
	return &models.AdminClaims{AdminID: "admin-1", Role: role}
}

func newSellerFixture(status models.SellerStatus) (*SellerService, *mockSellerRepo, *recordingNotifier) {
	repo := &mockSellerRepo{apps: map[string]models.SellerApplication{
		"app-1": {ID: "app-1", BusinessName: "Tani Makmur", Status: status},
	}}
	notifier := &recordingNotifier{}
	svc := NewSellerService(repo, notifier, nil, zap.NewNop())
	return svc, repo, notifier
}

func TestSellerApprove(t *testing.T) {
	svc, repo, notifier := newSellerFixture(models.SellerStatusPending)

	app, err := svc.Approve(context.Background(), "app-1", sellerClaims(rbac.RoleSellerManager))
	require.NoError(t, err)
	assert.Equal(t, models.SellerStatusApproved, app.Status)
	require.Len(t, repo.transitions, 1)
	require.NotNil(t, repo.transitions[0].Audit)
	assert.Equal(t, "approve", repo.transitions[0].Audit.Action)
	assert.Equal(t, []string{"seller.approve"}, notifier.events)
}

func TestSellerApproveDeniedForWrongRole(t *testing.T) {
	svc, repo, notifier := newSellerFixture(models.SellerStatusPending)

	_, err := svc.Approve(context.Background(), "app-1", sellerClaims(rbac.RolePriceManager))
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)
	assert.Empty(t, repo.transitions)
	assert.Empty(t, notifier.events)
}

func TestSellerApproveTwiceIsConflict(t *testing.T) {
	svc, repo, _ := newSellerFixture(models.SellerStatusApproved)

	_, err := svc.Approve(context.Background(), "app-1", sellerClaims(rbac.RoleSellerManager))
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
	assert.Empty(t, repo.transitions)
}

func TestSellerDenialWinsOverIllegalTransition(t *testing.T) {
	// An actor without the capability gets a permission denial even when
	// the transition would also be illegal from the current status.
	svc, _, _ := newSellerFixture(models.SellerStatusApproved)

	_, err := svc.Approve(context.Background(), "app-1", sellerClaims(rbac.RolePriceManager))
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)
}

func TestSellerSuspendAndReactivate(t *testing.T) {
	svc, repo, _ := newSellerFixture(models.SellerStatusApproved)

	app, err := svc.Suspend(context.Background(), "app-1", dto.SuspendSellerRequest{
		Reason:        "price gouging",
		DurationHours: 48,
	}, sellerClaims(rbac.RoleSellerManager))
	require.NoError(t, err)
	assert.Equal(t, models.SellerStatusSuspended, app.Status)
	require.NotNil(t, app.SuspendedUntil)
	require.NotNil(t, repo.transitions[0].SuspensionReason)
	assert.Equal(t, "price gouging", *repo.transitions[0].SuspensionReason)

	app, err = svc.Reactivate(context.Background(), "app-1", sellerClaims(rbac.RoleSellerManager))
	require.NoError(t, err)
	assert.Equal(t, models.SellerStatusApproved, app.Status)
	assert.Nil(t, app.SuspendedUntil)
	assert.True(t, repo.transitions[1].ClearSuspension)
}

func TestSellerRejectIsTerminal(t *testing.T) {
	svc, _, _ := newSellerFixture(models.SellerStatusPending)

	app, err := svc.Reject(context.Background(), "app-1", dto.RejectSellerRequest{Reason: "incomplete documents"}, sellerClaims(rbac.RoleSellerManager))
	require.NoError(t, err)
	assert.Equal(t, models.SellerStatusRejected, app.Status)

	_, err = svc.Approve(context.Background(), "app-1", sellerClaims(rbac.RoleSellerManager))
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
}

func TestSellerTransitionConcurrentConflict(t *testing.T) {
	svc, repo, _ := newSellerFixture(models.SellerStatusPending)
	repo.conflict = true

	_, err := svc.Approve(context.Background(), "app-1", sellerClaims(rbac.RoleSellerManager))
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConcurrentModification.Code, appErr.Code)
}

func TestSellerTransitionRequiresActor(t *testing.T) {
	svc, _, _ := newSellerFixture(models.SellerStatusPending)

	_, err := svc.Approve(context.Background(), "app-1", nil)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestSellerTransitionUnknownID(t *testing.T) {
	svc, _, _ := newSellerFixture(models.SellerStatusPending)

	_, err := svc.Approve(context.Background(), "missing", sellerClaims(rbac.RoleSellerManager))
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
