package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
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

// procurementTransitions is the OPAS submission state machine. Both
// outcomes are terminal.
var procurementTransitions = workflow.NewTable[models.ProcurementStatus, models.ProcurementAction]().
	Add(models.ProcurementStatusPending, models.ProcurementActionApprove, models.ProcurementStatusAccepted, rbac.PermProcurementApprove).
	Add(models.ProcurementStatusPending, models.ProcurementActionReject, models.ProcurementStatusRejected, rbac.PermProcurementReject)

type procurementStore interface {
	Create(ctx context.Context, sub *models.ProcurementSubmission) error
	GetByID(ctx context.Context, id string) (*models.ProcurementSubmission, error)
	List(ctx context.Context, filter models.ProcurementFilter) ([]models.ProcurementSubmission, error)
	Approve(ctx context.Context, params repository.ApproveProcurementParams) (*models.InventoryLot, error)
	Reject(ctx context.Context, params repository.RejectProcurementParams) error
}

// ProcurementService drives OPAS submissions through review. Approval
// books the accepted quantity into the inventory ledger inside the same
// transaction as the status change.
type ProcurementService struct {
	repo     procurementStore
	notifier Notifier
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewProcurementService constructs the service.
func NewProcurementService(repo procurementStore, notifier Notifier, metrics *MetricsService, logger *zap.Logger) *ProcurementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ProcurementService{repo: repo, notifier: notifier, metrics: metrics, logger: logger}
}

// Create registers a new submission in PENDING state.
func (s *ProcurementService) Create(ctx context.Context, req dto.CreateProcurementRequest) (*models.ProcurementSubmission, error) {
	sub := &models.ProcurementSubmission{
		SellerID:        req.SellerID,
		ProductCode:     strings.TrimSpace(req.ProductCode),
		OfferedQuantity: req.OfferedQuantity,
		OfferedPrice:    req.OfferedPrice,
		Status:          models.ProcurementStatusPending,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create procurement submission")
	}
	return sub, nil
}

// Get returns one submission.
func (s *ProcurementService) Get(ctx context.Context, id string) (*models.ProcurementSubmission, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load procurement submission")
	}
	return sub, nil
}

// List returns submissions matching the query.
func (s *ProcurementService) List(ctx context.Context, query dto.ProcurementQuery) ([]models.ProcurementSubmission, error) {
	filter := models.ProcurementFilter{
		SellerID:    query.SellerID,
		ProductCode: strings.TrimSpace(query.ProductCode),
		Limit:       query.Limit,
		Offset:      query.Offset,
	}
	for _, raw := range strings.Split(query.Status, ",") {
		raw = strings.ToUpper(strings.TrimSpace(raw))
		if raw != "" {
			filter.Status = append(filter.Status, models.ProcurementStatus(raw))
		}
	}
	subs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list procurement submissions")
	}
	return subs, nil
}

// Approve accepts a PENDING submission at the given quantity and price,
// creating one inventory lot and one IN transaction as a side effect.
func (s *ProcurementService) Approve(ctx context.Context, id string, req dto.ApproveProcurementRequest, actor *models.AdminClaims) (*models.ProcurementSubmission, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := procurementTransitions.Authorize(actor.Role, sub.Status, models.ProcurementActionApprove)
	if err != nil {
		s.observe(models.ProcurementActionApprove, "denied")
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidQuantity, fmt.Sprintf("accepted quantity must be positive, got %d", req.Quantity))
	}

	snapshot, _ := json.Marshal(map[string]interface{}{
		"from":     string(sub.Status),
		"to":       string(next),
		"quantity": req.Quantity,
		"price":    req.Price,
	})
	now := time.Now().UTC()
	lot, err := s.repo.Approve(ctx, repository.ApproveProcurementParams{
		ID:       sub.ID,
		Quantity: req.Quantity,
		Price:    req.Price,
		At:       now,
		Audit: &models.AuditEntry{
			ActorID:    &actor.AdminID,
			Action:     string(models.ProcurementActionApprove),
			EntityType: models.EntityTypeProcurementSubmission,
			EntityID:   sub.ID,
			NewValues:  snapshot,
		},
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.observe(models.ProcurementActionApprove, "conflict")
			return nil, appErrors.Clone(appErrors.ErrConcurrentModification, "submission changed during review")
		}
		s.observe(models.ProcurementActionApprove, "error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve procurement submission")
	}
	s.observe(models.ProcurementActionApprove, "ok")

	sub.Status = next
	sub.AcceptedQuantity = &req.Quantity
	sub.AcceptedPrice = &req.Price
	sub.TransitionedAt = now

	s.notifier.Notify(ctx, Notification{
		Event:      "procurement.approve",
		EntityType: models.EntityTypeProcurementSubmission,
		EntityID:   sub.ID,
		ActorID:    actor.AdminID,
		Detail:     map[string]interface{}{"lot_id": lot.ID, "quantity": req.Quantity},
	})
	return sub, nil
}

// Reject declines a PENDING submission with a reason.
func (s *ProcurementService) Reject(ctx context.Context, id string, req dto.RejectProcurementRequest, actor *models.AdminClaims) (*models.ProcurementSubmission, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := procurementTransitions.Authorize(actor.Role, sub.Status, models.ProcurementActionReject)
	if err != nil {
		s.observe(models.ProcurementActionReject, "denied")
		return nil, err
	}

	reason := strings.TrimSpace(req.Reason)
	snapshot, _ := json.Marshal(map[string]string{"from": string(sub.Status), "to": string(next)})
	err = s.repo.Reject(ctx, repository.RejectProcurementParams{
		ID:     sub.ID,
		Reason: reason,
		Audit: &models.AuditEntry{
			ActorID:    &actor.AdminID,
			Action:     string(models.ProcurementActionReject),
			EntityType: models.EntityTypeProcurementSubmission,
			EntityID:   sub.ID,
			NewValues:  snapshot,
			Reason:     &reason,
		},
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.observe(models.ProcurementActionReject, "conflict")
			return nil, appErrors.Clone(appErrors.ErrConcurrentModification, "submission changed during review")
		}
		s.observe(models.ProcurementActionReject, "error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject procurement submission")
	}
	s.observe(models.ProcurementActionReject, "ok")

	sub.Status = next
	sub.RejectionReason = &reason
	sub.TransitionedAt = time.Now().UTC()

	s.notifier.Notify(ctx, Notification{
		Event:      "procurement.reject",
		EntityType: models.EntityTypeProcurementSubmission,
		EntityID:   sub.ID,
		ActorID:    actor.AdminID,
	})
	return sub, nil
}

func (s *ProcurementService) observe(action models.ProcurementAction, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(models.EntityTypeProcurementSubmission, string(action), outcome)
	}
}
