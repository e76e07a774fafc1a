package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	"github.com/noah-isme/agri-gov-api/internal/repository"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

type inventoryStore interface {
	Receive(ctx context.Context, params repository.ReceiveParams) (*models.InventoryLot, error)
	Consume(ctx context.Context, params repository.ConsumeParams) ([]models.LotConsumption, error)
	StockSummary(ctx context.Context, productCode string) (*models.StockSummary, error)
	ListLots(ctx context.Context, filter models.InventoryFilter) ([]models.InventoryLot, error)
	ListTransactions(ctx context.Context, filter models.InventoryFilter) ([]models.InventoryTransaction, error)
}

// InventoryService tracks FIFO stock lots for the procurement channel.
// Stock summaries are cached in Redis and invalidated on every movement.
type InventoryService struct {
	repo     inventoryStore
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewInventoryService constructs the service. A nil cache disables
// summary caching.
func NewInventoryService(repo inventoryStore, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &InventoryService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Receive books stock into a fresh lot.
func (s *InventoryService) Receive(ctx context.Context, req dto.ReceiveStockRequest, actor *models.AdminClaims) (*models.InventoryLot, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermInventoryReceive) {
		return nil, appErrors.ErrPermissionDenied
	}
	if req.Quantity <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidQuantity, fmt.Sprintf("received quantity must be positive, got %d", req.Quantity))
	}
	productCode := strings.TrimSpace(req.ProductCode)
	at := time.Now().UTC()
	if req.At != nil {
		at = req.At.UTC()
	}
	var sourceRef *string
	if trimmed := strings.TrimSpace(req.SourceRef); trimmed != "" {
		sourceRef = &trimmed
	}

	snapshot, _ := json.Marshal(map[string]interface{}{"product_code": productCode, "quantity": req.Quantity})
	lot, err := s.repo.Receive(ctx, repository.ReceiveParams{
		ProductCode: productCode,
		Quantity:    req.Quantity,
		At:          at,
		SourceRef:   sourceRef,
		Audit: &models.AuditEntry{
			ActorID:    &actor.AdminID,
			Action:     "receive",
			EntityType: models.EntityTypeInventoryLot,
			EntityID:   productCode,
			NewValues:  snapshot,
		},
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to receive stock")
	}
	s.invalidateSummary(ctx, productCode)
	return lot, nil
}

// Consume withdraws stock oldest lots first, splitting across lots when
// needed. The whole withdrawal fails with no partial effect if the
// product's aggregate remainder is short.
func (s *InventoryService) Consume(ctx context.Context, req dto.ConsumeStockRequest, actor *models.AdminClaims) ([]models.LotConsumption, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermInventoryConsume) {
		return nil, appErrors.ErrPermissionDenied
	}
	if req.Quantity <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidQuantity, fmt.Sprintf("consumed quantity must be positive, got %d", req.Quantity))
	}
	productCode := strings.TrimSpace(req.ProductCode)
	at := time.Now().UTC()
	if req.At != nil {
		at = req.At.UTC()
	}

	snapshot, _ := json.Marshal(map[string]interface{}{"product_code": productCode, "quantity": req.Quantity})
	taken, err := s.repo.Consume(ctx, repository.ConsumeParams{
		ProductCode: productCode,
		Quantity:    req.Quantity,
		At:          at,
		Audit: &models.AuditEntry{
			ActorID:    &actor.AdminID,
			Action:     "consume",
			EntityType: models.EntityTypeInventoryLot,
			EntityID:   productCode,
			NewValues:  snapshot,
		},
	})
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to consume stock")
	}
	s.invalidateSummary(ctx, productCode)
	return taken, nil
}

// Stock returns a product's availability, served from cache when fresh.
func (s *InventoryService) Stock(ctx context.Context, productCode string, actor *models.AdminClaims) (*models.StockSummary, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermInventoryView) {
		return nil, appErrors.ErrPermissionDenied
	}
	productCode = strings.TrimSpace(productCode)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, s.summaryKey(productCode)).Bytes(); err == nil {
			var summary models.StockSummary
			if json.Unmarshal(raw, &summary) == nil {
				return &summary, nil
			}
		}
	}

	summary, err := s.repo.StockSummary(ctx, productCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read stock summary")
	}
	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, s.summaryKey(productCode), raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache stock summary", zap.Error(err))
			}
		}
	}
	return summary, nil
}

// ListLots returns lots in FIFO order.
func (s *InventoryService) ListLots(ctx context.Context, query dto.InventoryQuery, actor *models.AdminClaims) ([]models.InventoryLot, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermInventoryView) {
		return nil, appErrors.ErrPermissionDenied
	}
	lots, err := s.repo.ListLots(ctx, models.InventoryFilter{
		ProductCode: strings.TrimSpace(query.ProductCode),
		Limit:       query.Limit,
		Offset:      query.Offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lots")
	}
	return lots, nil
}

// ListTransactions returns movement rows, newest first.
func (s *InventoryService) ListTransactions(ctx context.Context, query dto.InventoryQuery, actor *models.AdminClaims) ([]models.InventoryTransaction, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermInventoryView) {
		return nil, appErrors.ErrPermissionDenied
	}
	filter := models.InventoryFilter{
		ProductCode: strings.TrimSpace(query.ProductCode),
		Limit:       query.Limit,
		Offset:      query.Offset,
	}
	if dir := strings.ToUpper(strings.TrimSpace(query.Direction)); dir != "" {
		filter.Direction = models.TransactionDirection(dir)
	}
	txns, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list transactions")
	}
	return txns, nil
}

func (s *InventoryService) summaryKey(productCode string) string {
	return "inventory:summary:" + productCode
}

func (s *InventoryService) invalidateSummary(ctx context.Context, productCode string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.summaryKey(productCode)).Err(); err != nil {
		s.logger.Warn("failed to invalidate stock summary cache", zap.String("product", productCode), zap.Error(err))
	}
}
