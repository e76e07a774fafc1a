package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

type mockAuditRepo struct {
	entries []models.AuditEntry
}

func (m *mockAuditRepo) EntriesFor(ctx context.Context, entityType, entityID string, limit, offset int) ([]models.AuditEntry, error) {
	var out []models.AuditEntry
	for _, e := range m.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockAuditRepo) ListByActor(ctx context.Context, actorID string, limit, offset int) ([]models.AuditEntry, error) {
	var out []models.AuditEntry
	for _, e := range m.entries {
		if e.ActorID != nil && *e.ActorID == actorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func auditFixture() *mockAuditRepo {
	actor := "admin-1"
	reason := "docs incomplete"
	return &mockAuditRepo{entries: []models.AuditEntry{
		{
			ID:         "e1",
			ActorID:    &actor,
			Action:     "approve",
			EntityType: models.EntityTypeSellerApplication,
			EntityID:   "app-1",
			CreatedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:         "e2",
			Action:     "expire",
			EntityType: models.EntityTypeEscalation,
			EntityID:   "esc-1",
			Reason:     &reason,
			CreatedAt:  time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
		},
	}}
}

func TestAuditTrailForRequiresViewPermission(t *testing.T) {
	svc := NewAuditService(auditFixture(), zap.NewNop())

	entries, err := svc.TrailFor(context.Background(), models.EntityTypeSellerApplication, "app-1", dto.AuditQuery{Limit: 100}, sellerClaims(rbac.RoleSellerManager))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "approve", entries[0].Action)

	_, err = svc.TrailFor(context.Background(), models.EntityTypeSellerApplication, "app-1", dto.AuditQuery{}, nil)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuditTrailByActor(t *testing.T) {
	svc := NewAuditService(auditFixture(), zap.NewNop())

	entries, err := svc.TrailByActor(context.Background(), "admin-1", dto.AuditQuery{Limit: 100}, sellerClaims(rbac.RoleSupportAgent))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ID)
}

func TestAuditExportCSV(t *testing.T) {
	svc := NewAuditService(auditFixture(), zap.NewNop())

	raw, contentType, err := svc.Export(context.Background(), models.EntityTypeEscalation, "esc-1", dto.AuditExportQuery{Format: "csv", Limit: 100}, sellerClaims(rbac.RoleSuperAdmin))
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(raw)
	assert.True(t, strings.HasPrefix(body, "Time,Actor,Action,Entity Type,Entity ID,Reason"))
	assert.Contains(t, body, "system,expire,escalation,esc-1,docs incomplete")
}

func TestAuditExportPDF(t *testing.T) {
	svc := NewAuditService(auditFixture(), zap.NewNop())

	raw, contentType, err := svc.Export(context.Background(), models.EntityTypeSellerApplication, "app-1", dto.AuditExportQuery{Format: "pdf", Limit: 100}, sellerClaims(rbac.RoleSuperAdmin))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func TestAuditExportUnknownFormat(t *testing.T) {
	svc := NewAuditService(auditFixture(), zap.NewNop())

	_, _, err := svc.Export(context.Background(), models.EntityTypeSellerApplication, "app-1", dto.AuditExportQuery{Format: "xlsx"}, sellerClaims(rbac.RoleSuperAdmin))
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuditExportRequiresExportPermission(t *testing.T) {
	svc := NewAuditService(auditFixture(), zap.NewNop())

	_, _, err := svc.Export(context.Background(), models.EntityTypeSellerApplication, "app-1", dto.AuditExportQuery{Format: "csv"}, sellerClaims(rbac.RoleSupportAgent))
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)
}
