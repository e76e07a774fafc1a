package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	"github.com/noah-isme/agri-gov-api/internal/repository"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

type mockEscalationRepo struct {
	escalations map[string]models.Escalation
	expired     []string
}

func (m *mockEscalationRepo) Create(ctx context.Context, esc *models.Escalation, audit *models.AuditEntry) error {
	if m.escalations == nil {
		m.escalations = make(map[string]models.Escalation)
	}
	m.escalations[esc.ID] = *esc
	return nil
}

func (m *mockEscalationRepo) GetByID(ctx context.Context, id string) (*models.Escalation, error) {
	if esc, ok := m.escalations[id]; ok {
		return &esc, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEscalationRepo) List(ctx context.Context, filter models.EscalationFilter) ([]models.Escalation, error) {
	out := make([]models.Escalation, 0, len(m.escalations))
	for _, esc := range m.escalations {
		out = append(out, esc)
	}
	return out, nil
}

func (m *mockEscalationRepo) Transition(ctx context.Context, params repository.EscalationTransitionParams) error {
	esc, ok := m.escalations[params.ID]
	if !ok {
		return sql.ErrNoRows
	}
	legal := false
	for _, from := range params.From {
		if esc.Status == from {
			legal = true
			break
		}
	}
	if !legal {
		return sql.ErrNoRows
	}
	esc.Status = params.To
	if params.AssigneeID != nil {
		esc.AssigneeID = params.AssigneeID
	}
	if params.IncrementLevel {
		esc.Level++
	}
	if params.ResolvedAt != nil {
		esc.ResolvedAt = params.ResolvedAt
	}
	m.escalations[params.ID] = esc
	return nil
}

func (m *mockEscalationRepo) ExpireOverdue(ctx context.Context, now time.Time) ([]string, error) {
	var ids []string
	for id, esc := range m.escalations {
		if esc.IsOverdue(now) {
			esc.Status = models.EscalationStatusExpired
			m.escalations[id] = esc
			ids = append(ids, id)
		}
	}
	m.expired = append(m.expired, ids...)
	return ids, nil
}

func newEscalationFixture() (*EscalationService, *mockEscalationRepo, *recordingNotifier) {
	repo := &mockEscalationRepo{escalations: make(map[string]models.Escalation)}
	notifier := &recordingNotifier{}
	svc := NewEscalationService(repo, nil, notifier, nil, zap.NewNop())
	return svc, repo, notifier
}

func TestEscalationCreateSetsDeadlineFromPriority(t *testing.T) {
	svc, _, notifier := newEscalationFixture()
	before := time.Now().UTC()

	esc, err := svc.Create(context.Background(), dto.CreateEscalationRequest{
		Priority:    "critical",
		Title:       "payments stuck",
		Description: "settlement batch not clearing",
	}, sellerClaims(rbac.RoleSupportAgent))
	require.NoError(t, err)

	assert.Equal(t, models.EscalationStatusOpen, esc.Status)
	assert.Equal(t, 0, esc.Level)
	assert.Equal(t, models.PriorityCritical, esc.Priority)

	budget, _ := models.SLABudget(models.PriorityCritical)
	assert.WithinDuration(t, before.Add(budget), esc.DueDate, 5*time.Second)
	assert.Equal(t, []string{"escalation.created"}, notifier.events)
}

func TestEscalationCreateUnknownPriority(t *testing.T) {
	svc, _, _ := newEscalationFixture()

	_, err := svc.Create(context.Background(), dto.CreateEscalationRequest{
		Priority:    "URGENT",
		Title:       "x",
		Description: "y",
	}, sellerClaims(rbac.RoleSupportAgent))
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestEscalationAssignMovesToInProgress(t *testing.T) {
	svc, repo, _ := newEscalationFixture()
	repo.escalations["esc-1"] = models.Escalation{ID: "esc-1", Status: models.EscalationStatusOpen, Level: 1}

	esc, err := svc.Assign(context.Background(), "esc-1", dto.AssignEscalationRequest{AssigneeID: "admin-2"}, sellerClaims(rbac.RoleSupportAgent))
	require.NoError(t, err)
	assert.Equal(t, models.EscalationStatusInProgress, esc.Status)
	require.NotNil(t, esc.AssigneeID)
	assert.Equal(t, "admin-2", *esc.AssigneeID)
}

func TestEscalationEscalateBumpsLevelKeepsDeadline(t *testing.T) {
	svc, repo, _ := newEscalationFixture()
	due := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	repo.escalations["esc-1"] = models.Escalation{ID: "esc-1", Status: models.EscalationStatusInProgress, Level: 1, DueDate: due}

	esc, err := svc.Escalate(context.Background(), "esc-1", sellerClaims(rbac.RoleSupportAgent))
	require.NoError(t, err)
	assert.Equal(t, models.EscalationStatusEscalated, esc.Status)
	assert.Equal(t, 2, esc.Level)
	assert.Equal(t, due, esc.DueDate, "escalating must not extend the deadline")
}

func TestEscalationResolveFromAnyLiveStatus(t *testing.T) {
	svc, repo, _ := newEscalationFixture()

	for i, status := range []models.EscalationStatus{models.EscalationStatusOpen, models.EscalationStatusInProgress, models.EscalationStatusEscalated} {
		id := "esc-" + string(rune('a'+i))
		repo.escalations[id] = models.Escalation{ID: id, Status: status, Level: 1}
		esc, err := svc.Resolve(context.Background(), id, sellerClaims(rbac.RoleSupportAgent))
		require.NoError(t, err)
		assert.Equal(t, models.EscalationStatusResolved, esc.Status)
		require.NotNil(t, esc.ResolvedAt)
	}
}

func TestEscalationTerminalStatusRejectsActions(t *testing.T) {
	svc, repo, _ := newEscalationFixture()
	repo.escalations["esc-1"] = models.Escalation{ID: "esc-1", Status: models.EscalationStatusResolved, Level: 1}

	_, err := svc.Escalate(context.Background(), "esc-1", sellerClaims(rbac.RoleSupportAgent))
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestEscalationActionsRequirePermission(t *testing.T) {
	svc, repo, _ := newEscalationFixture()
	repo.escalations["esc-1"] = models.Escalation{ID: "esc-1", Status: models.EscalationStatusOpen, Level: 1}

	_, err := svc.Assign(context.Background(), "esc-1", dto.AssignEscalationRequest{AssigneeID: "admin-2"}, sellerClaims(rbac.RoleSellerManager))
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)
}

func TestEscalationExpireOverdueSweep(t *testing.T) {
	svc, repo, notifier := newEscalationFixture()
	now := time.Now().UTC()
	repo.escalations["late"] = models.Escalation{ID: "late", Status: models.EscalationStatusOpen, DueDate: now.Add(-time.Hour)}
	repo.escalations["ontime"] = models.Escalation{ID: "ontime", Status: models.EscalationStatusOpen, DueDate: now.Add(time.Hour)}
	repo.escalations["done"] = models.Escalation{ID: "done", Status: models.EscalationStatusResolved, DueDate: now.Add(-time.Hour)}

	expired, err := svc.ExpireOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"late"}, expired)
	assert.Equal(t, models.EscalationStatusExpired, repo.escalations["late"].Status)
	assert.Equal(t, models.EscalationStatusOpen, repo.escalations["ontime"].Status)
	assert.Equal(t, models.EscalationStatusResolved, repo.escalations["done"].Status)
	assert.Equal(t, []string{"escalation.expired"}, notifier.events)
}
