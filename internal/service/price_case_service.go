package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	"github.com/noah-isme/agri-gov-api/internal/repository"
	"github.com/noah-isme/agri-gov-api/internal/workflow"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

// priceCaseTransitions models enforcement as self-loops on OPEN: each
// action may be applied repeatedly and none closes the case.
var priceCaseTransitions = workflow.NewTable[models.PriceCaseStatus, models.PriceCaseAction]().
	Add(models.PriceCaseStatusOpen, models.PriceCaseActionWarn, models.PriceCaseStatusOpen, rbac.PermPriceWarn).
	Add(models.PriceCaseStatusOpen, models.PriceCaseActionForceAdjust, models.PriceCaseStatusOpen, rbac.PermPriceForceAdjust).
	Add(models.PriceCaseStatusOpen, models.PriceCaseActionSuspendSeller, models.PriceCaseStatusOpen, rbac.PermPriceSuspendSeller)

type priceCaseStore interface {
	Create(ctx context.Context, pc *models.PriceComplianceCase) error
	GetByID(ctx context.Context, id string) (*models.PriceComplianceCase, error)
	List(ctx context.Context, filter models.PriceCaseFilter) ([]models.PriceComplianceCase, error)
	RecordAction(ctx context.Context, params repository.PriceCaseActionParams) error
}

// PriceCaseService enforces price ceilings through open-ended compliance
// cases.
type PriceCaseService struct {
	repo     priceCaseStore
	notifier Notifier
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewPriceCaseService constructs the service.
func NewPriceCaseService(repo priceCaseStore, notifier Notifier, metrics *MetricsService, logger *zap.Logger) *PriceCaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &PriceCaseService{repo: repo, notifier: notifier, metrics: metrics, logger: logger}
}

// Open creates a case for a listed price exceeding its ceiling.
func (s *PriceCaseService) Open(ctx context.Context, req dto.OpenPriceCaseRequest, actor *models.AdminClaims) (*models.PriceComplianceCase, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermPriceCaseOpen) {
		return nil, appErrors.ErrPermissionDenied
	}
	if req.ListedPrice <= req.CeilingPrice {
		return nil, appErrors.Clone(appErrors.ErrValidation, "listed price does not exceed the ceiling")
	}
	pc := &models.PriceComplianceCase{
		SellerID:     req.SellerID,
		ProductCode:  strings.TrimSpace(req.ProductCode),
		ListedPrice:  req.ListedPrice,
		CeilingPrice: req.CeilingPrice,
		Status:       models.PriceCaseStatusOpen,
	}
	if err := s.repo.Create(ctx, pc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open price compliance case")
	}
	return pc, nil
}

// Get returns one case.
func (s *PriceCaseService) Get(ctx context.Context, id string) (*models.PriceComplianceCase, error) {
	pc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load price compliance case")
	}
	return pc, nil
}

// List returns cases matching the query.
func (s *PriceCaseService) List(ctx context.Context, query dto.PriceCaseQuery) ([]models.PriceComplianceCase, error) {
	cases, err := s.repo.List(ctx, models.PriceCaseFilter{
		SellerID:    query.SellerID,
		ProductCode: strings.TrimSpace(query.ProductCode),
		Limit:       query.Limit,
		Offset:      query.Offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list price compliance cases")
	}
	return cases, nil
}

// Warn records a warning against the case.
func (s *PriceCaseService) Warn(ctx context.Context, id string, req dto.PriceCaseActionRequest, actor *models.AdminClaims) (*models.PriceComplianceCase, error) {
	return s.act(ctx, id, models.PriceCaseActionWarn, req, actor)
}

// ForceAdjust records a forced price adjustment against the case.
func (s *PriceCaseService) ForceAdjust(ctx context.Context, id string, req dto.PriceCaseActionRequest, actor *models.AdminClaims) (*models.PriceComplianceCase, error) {
	return s.act(ctx, id, models.PriceCaseActionForceAdjust, req, actor)
}

// SuspendSeller records a seller suspension against the case.
func (s *PriceCaseService) SuspendSeller(ctx context.Context, id string, req dto.PriceCaseActionRequest, actor *models.AdminClaims) (*models.PriceComplianceCase, error) {
	return s.act(ctx, id, models.PriceCaseActionSuspendSeller, req, actor)
}

func (s *PriceCaseService) act(ctx context.Context, id string, action models.PriceCaseAction, req dto.PriceCaseActionRequest, actor *models.AdminClaims) (*models.PriceComplianceCase, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	pc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := priceCaseTransitions.Authorize(actor.Role, pc.Status, action); err != nil {
		s.observe(action, "denied")
		return nil, err
	}

	var reason *string
	if trimmed := strings.TrimSpace(req.Reason); trimmed != "" {
		reason = &trimmed
	}
	snapshot, _ := json.Marshal(map[string]interface{}{
		"violation_count": pc.ViolationCount + 1,
		"last_action":     string(action),
	})
	err = s.repo.RecordAction(ctx, repository.PriceCaseActionParams{
		ID:     pc.ID,
		Action: action,
		Audit: &models.AuditEntry{
			ActorID:    &actor.AdminID,
			Action:     string(action),
			EntityType: models.EntityTypePriceComplianceCase,
			EntityID:   pc.ID,
			NewValues:  snapshot,
			Reason:     reason,
		},
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.observe(action, "conflict")
			return nil, appErrors.Clone(appErrors.ErrConcurrentModification, "case changed during enforcement")
		}
		s.observe(action, "error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record enforcement action")
	}
	s.observe(action, "ok")

	pc.ViolationCount++
	pc.LastAction = &action
	pc.TransitionedAt = time.Now().UTC()

	s.notifier.Notify(ctx, Notification{
		Event:      "price_case." + string(action),
		EntityType: models.EntityTypePriceComplianceCase,
		EntityID:   pc.ID,
		ActorID:    actor.AdminID,
	})
	return pc, nil
}

func (s *PriceCaseService) observe(action models.PriceCaseAction, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(models.EntityTypePriceComplianceCase, string(action), outcome)
	}
}
