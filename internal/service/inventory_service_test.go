package service

import (
	"context"
	"sort"
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

// mockInventoryRepo keeps lots in received order and depletes them FIFO,
// mirroring the repository's locking-free happy path.
type mockInventoryRepo struct {
	lots   []models.InventoryLot
	txns   []models.InventoryTransaction
	audits []*models.AuditEntry
}

func (m *mockInventoryRepo) Receive(ctx context.Context, params repository.ReceiveParams) (*models.InventoryLot, error) {
	lot := models.InventoryLot{
		ID:          "lot-" + params.ProductCode,
		ProductCode: params.ProductCode,
		Received:    params.Quantity,
		Remaining:   params.Quantity,
		ReceivedAt:  params.At,
		SourceRef:   params.SourceRef,
	}
	m.lots = append(m.lots, lot)
	m.txns = append(m.txns, models.InventoryTransaction{LotID: lot.ID, Direction: models.DirectionIn, Quantity: params.Quantity})
	m.audits = append(m.audits, params.Audit)
	return &lot, nil
}

func (m *mockInventoryRepo) Consume(ctx context.Context, params repository.ConsumeParams) ([]models.LotConsumption, error) {
	var available int64
	for _, lot := range m.lots {
		if lot.ProductCode == params.ProductCode {
			available += lot.Remaining
		}
	}
	if available < params.Quantity {
		return nil, appErrors.Clone(appErrors.ErrInsufficientStock, "short")
	}

	remaining := params.Quantity
	var taken []models.LotConsumption
	for i := range m.lots {
		if m.lots[i].ProductCode != params.ProductCode || m.lots[i].Remaining == 0 {
			continue
		}
		take := m.lots[i].Remaining
		if take > remaining {
			take = remaining
		}
		m.lots[i].Remaining -= take
		remaining -= take
		taken = append(taken, models.LotConsumption{LotID: m.lots[i].ID, Quantity: take})
		m.txns = append(m.txns, models.InventoryTransaction{LotID: m.lots[i].ID, Direction: models.DirectionOut, Quantity: take})
		if remaining == 0 {
			break
		}
	}
	m.audits = append(m.audits, params.Audit)
	return taken, nil
}

func (m *mockInventoryRepo) StockSummary(ctx context.Context, productCode string) (*models.StockSummary, error) {
	summary := &models.StockSummary{ProductCode: productCode}
	for _, lot := range m.lots {
		if lot.ProductCode == productCode && lot.Remaining > 0 {
			summary.Remaining += lot.Remaining
			summary.LotCount++
		}
	}
	return summary, nil
}

func (m *mockInventoryRepo) ListLots(ctx context.Context, filter models.InventoryFilter) ([]models.InventoryLot, error) {
	out := append([]models.InventoryLot(nil), m.lots...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out, nil
}

func (m *mockInventoryRepo) ListTransactions(ctx context.Context, filter models.InventoryFilter) ([]models.InventoryTransaction, error) {
	return append([]models.InventoryTransaction(nil), m.txns...), nil
}

func newInventoryFixture() (*InventoryService, *mockInventoryRepo) {
	repo := &mockInventoryRepo{}
	svc := NewInventoryService(repo, nil, 0, zap.NewNop())
	return svc, repo
}

func TestInventoryConsumeSplitsAcrossLotsFIFO(t *testing.T) {
	svc, repo := newInventoryFixture()
	actor := sellerClaims(rbac.RoleOpasManager)

	repo.lots = []models.InventoryLot{
		{ID: "L1", ProductCode: "RICE-IR64", Received: 100, Remaining: 100},
		{ID: "L2", ProductCode: "RICE-IR64", Received: 50, Remaining: 50},
	}

	taken, err := svc.Consume(context.Background(), dto.ConsumeStockRequest{ProductCode: "RICE-IR64", Quantity: 120}, actor)
	require.NoError(t, err)
	require.Len(t, taken, 2)
	assert.Equal(t, models.LotConsumption{LotID: "L1", Quantity: 100}, taken[0])
	assert.Equal(t, models.LotConsumption{LotID: "L2", Quantity: 20}, taken[1])
	assert.Equal(t, int64(0), repo.lots[0].Remaining)
	assert.Equal(t, int64(30), repo.lots[1].Remaining)
}

func TestInventoryConsumeInsufficientStockMutatesNothing(t *testing.T) {
	svc, repo := newInventoryFixture()
	actor := sellerClaims(rbac.RoleOpasManager)

	repo.lots = []models.InventoryLot{
		{ID: "L1", ProductCode: "RICE-IR64", Received: 100, Remaining: 80},
	}

	_, err := svc.Consume(context.Background(), dto.ConsumeStockRequest{ProductCode: "RICE-IR64", Quantity: 120}, actor)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInsufficientStock.Code, appErr.Code)
	assert.Equal(t, int64(80), repo.lots[0].Remaining)
}

func TestInventoryRejectsNonPositiveQuantity(t *testing.T) {
	svc, repo := newInventoryFixture()
	actor := sellerClaims(rbac.RoleOpasManager)

	for _, q := range []int64{0, -5} {
		_, err := svc.Receive(context.Background(), dto.ReceiveStockRequest{ProductCode: "RICE-IR64", Quantity: q}, actor)
		var appErr *appErrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, appErrors.ErrInvalidQuantity.Code, appErr.Code)

		_, err = svc.Consume(context.Background(), dto.ConsumeStockRequest{ProductCode: "RICE-IR64", Quantity: q}, actor)
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, appErrors.ErrInvalidQuantity.Code, appErr.Code)
	}
	assert.Empty(t, repo.lots)
	assert.Empty(t, repo.txns)
}

func TestInventoryReceiveCreatesLotWithAudit(t *testing.T) {
	svc, repo := newInventoryFixture()
	actor := sellerClaims(rbac.RoleOpasManager)

	lot, err := svc.Receive(context.Background(), dto.ReceiveStockRequest{ProductCode: "CORN-H1", Quantity: 250, SourceRef: "PO-77"}, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(250), lot.Received)
	assert.Equal(t, int64(250), lot.Remaining)
	require.Len(t, repo.audits, 1)
	assert.Equal(t, "receive", repo.audits[0].Action)
	require.NotNil(t, repo.audits[0].ActorID)
	assert.Equal(t, "admin-1", *repo.audits[0].ActorID)
}

func TestInventoryPermissionChecks(t *testing.T) {
	svc, _ := newInventoryFixture()
	support := sellerClaims(rbac.RoleSupportAgent)

	_, err := svc.Receive(context.Background(), dto.ReceiveStockRequest{ProductCode: "RICE-IR64", Quantity: 10}, support)
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)

	_, err = svc.Consume(context.Background(), dto.ConsumeStockRequest{ProductCode: "RICE-IR64", Quantity: 10}, support)
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)

	_, err = svc.Stock(context.Background(), "RICE-IR64", support)
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)

	_, err = svc.Stock(context.Background(), "RICE-IR64", nil)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
