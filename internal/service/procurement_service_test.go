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

type mockProcurementRepo struct {
	subs      map[string]models.ProcurementSubmission
	approvals []repository.ApproveProcurementParams
	rejects   []repository.RejectProcurementParams
}

func (m *mockProcurementRepo) Create(ctx context.Context, sub *models.ProcurementSubmission) error {
	if m.subs == nil {
		m.subs = make(map[string]models.ProcurementSubmission)
	}
	if sub.ID == "" {
		sub.ID = "generated"
	}
	m.subs[sub.ID] = *sub
	return nil
}

func (m *mockProcurementRepo) GetByID(ctx context.Context, id string) (*models.ProcurementSubmission, error) {
	if sub, ok := m.subs[id]; ok {
		return &sub, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProcurementRepo) List(ctx context.Context, filter models.ProcurementFilter) ([]models.ProcurementSubmission, error) {
	out := make([]models.ProcurementSubmission, 0, len(m.subs))
	for _, sub := range m.subs {
		out = append(out, sub)
	}
	return out, nil
}

func (m *mockProcurementRepo) Approve(ctx context.Context, params repository.ApproveProcurementParams) (*models.InventoryLot, error) {
	sub, ok := m.subs[params.ID]
	if !ok || sub.Status != models.ProcurementStatusPending {
		return nil, sql.ErrNoRows
	}
	m.approvals = append(m.approvals, params)
	sub.Status = models.ProcurementStatusAccepted
	m.subs[params.ID] = sub
	return &models.InventoryLot{
		ID:          "lot-1",
		ProductCode: sub.ProductCode,
		Received:    params.Quantity,
		Remaining:   params.Quantity,
	}, nil
}

func (m *mockProcurementRepo) Reject(ctx context.Context, params repository.RejectProcurementParams) error {
	sub, ok := m.subs[params.ID]
	if !ok || sub.Status != models.ProcurementStatusPending {
		return sql.ErrNoRows
	}
	m.rejects = append(m.rejects, params)
	sub.Status = models.ProcurementStatusRejected
	m.subs[params.ID] = sub
	return nil
}

func newProcurementFixture(status models.ProcurementStatus) (*ProcurementService, *mockProcurementRepo, *recordingNotifier) {
	repo := &mockProcurementRepo{subs: map[string]models.ProcurementSubmission{
		"sub-1": {ID: "sub-1", SellerID: "seller-1", ProductCode: "RICE-IR64", OfferedQuantity: 500, OfferedPrice: 9800, Status: status},
	}}
	notifier := &recordingNotifier{}
	svc := NewProcurementService(repo, notifier, nil, zap.NewNop())
	return svc, repo, notifier
}

func TestProcurementApproveBooksLot(t *testing.T) {
	svc, repo, notifier := newProcurementFixture(models.ProcurementStatusPending)

	sub, err := svc.Approve(context.Background(), "sub-1", dto.ApproveProcurementRequest{Quantity: 450, Price: 9500}, sellerClaims(rbac.RoleOpasManager))
	require.NoError(t, err)
	assert.Equal(t, models.ProcurementStatusAccepted, sub.Status)
	require.NotNil(t, sub.AcceptedQuantity)
	assert.Equal(t, int64(450), *sub.AcceptedQuantity)

	require.Len(t, repo.approvals, 1)
	assert.Equal(t, int64(450), repo.approvals[0].Quantity)
	require.NotNil(t, repo.approvals[0].Audit)
	assert.Equal(t, "approve", repo.approvals[0].Audit.Action)
	assert.Equal(t, []string{"procurement.approve"}, notifier.events)
}

func TestProcurementApproveRejectsNonPositiveQuantity(t *testing.T) {
	svc, repo, _ := newProcurementFixture(models.ProcurementStatusPending)

	for _, q := range []int64{0, -10} {
		_, err := svc.Approve(context.Background(), "sub-1", dto.ApproveProcurementRequest{Quantity: q, Price: 9500}, sellerClaims(rbac.RoleOpasManager))
		require.Error(t, err)
		var appErr *appErrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, appErrors.ErrInvalidQuantity.Code, appErr.Code)
	}
	assert.Empty(t, repo.approvals, "no lot may be booked for a rejected quantity")
}

func TestProcurementApproveDeniedForWrongRole(t *testing.T) {
	svc, repo, _ := newProcurementFixture(models.ProcurementStatusPending)

	_, err := svc.Approve(context.Background(), "sub-1", dto.ApproveProcurementRequest{Quantity: 100, Price: 9500}, sellerClaims(rbac.RoleSellerManager))
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)
	assert.Empty(t, repo.approvals)
}

func TestProcurementApproveDenialWinsOverBadQuantity(t *testing.T) {
	svc, repo, _ := newProcurementFixture(models.ProcurementStatusPending)

	_, err := svc.Approve(context.Background(), "sub-1", dto.ApproveProcurementRequest{Quantity: 0, Price: 9500}, sellerClaims(rbac.RoleSellerManager))
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)
	assert.Empty(t, repo.approvals)
}

func TestProcurementApproveTerminalStatus(t *testing.T) {
	svc, _, _ := newProcurementFixture(models.ProcurementStatusAccepted)

	_, err := svc.Approve(context.Background(), "sub-1", dto.ApproveProcurementRequest{Quantity: 100, Price: 9500}, sellerClaims(rbac.RoleOpasManager))
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
}

func TestProcurementReject(t *testing.T) {
	svc, repo, _ := newProcurementFixture(models.ProcurementStatusPending)

	sub, err := svc.Reject(context.Background(), "sub-1", dto.RejectProcurementRequest{Reason: "price above ceiling"}, sellerClaims(rbac.RoleOpasManager))
	require.NoError(t, err)
	assert.Equal(t, models.ProcurementStatusRejected, sub.Status)
	require.NotNil(t, sub.RejectionReason)
	assert.Equal(t, "price above ceiling", *sub.RejectionReason)
	require.Len(t, repo.rejects, 1)
	require.NotNil(t, repo.rejects[0].Audit)
	require.NotNil(t, repo.rejects[0].Audit.Reason)
}
