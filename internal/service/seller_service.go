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

// sellerTransitions is the seller application state machine. Rejection is
// terminal; a resubmission after rejection arrives as a fresh application
// from outside this engine.
var sellerTransitions = workflow.NewTable[models.SellerStatus, models.SellerAction]().
	Add(models.SellerStatusPending, models.SellerActionApprove, models.SellerStatusApproved, rbac.PermSellerApprove).
	Add(models.SellerStatusPending, models.SellerActionReject, models.SellerStatusRejected, rbac.PermSellerReject).
	Add(models.SellerStatusApproved, models.SellerActionSuspend, models.SellerStatusSuspended, rbac.PermSellerSuspend).
	Add(models.SellerStatusSuspended, models.SellerActionReactivate, models.SellerStatusApproved, rbac.PermSellerReactivate)

type sellerStore interface {
	Create(ctx context.Context, app *models.SellerApplication) error
	GetByID(ctx context.Context, id string) (*models.SellerApplication, error)
	List(ctx context.Context, filter models.SellerFilter) ([]models.SellerApplication, error)
	Transition(ctx context.Context, params repository.SellerTransitionParams) error
}

// SellerService drives seller applications through review.
type SellerService struct {
	repo     sellerStore
	notifier Notifier
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewSellerService constructs the service.
func NewSellerService(repo sellerStore, notifier Notifier, metrics *MetricsService, logger *zap.Logger) *SellerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &SellerService{repo: repo, notifier: notifier, metrics: metrics, logger: logger}
}

// Create registers a new application in PENDING state.
func (s *SellerService) Create(ctx context.Context, req dto.CreateSellerApplicationRequest) (*models.SellerApplication, error) {
	app := &models.SellerApplication{
		BusinessName: strings.TrimSpace(req.BusinessName),
		OwnerName:    strings.TrimSpace(req.OwnerName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		Region:       strings.TrimSpace(req.Region),
		Status:       models.SellerStatusPending,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create seller application")
	}
	return app, nil
}

// Get returns one application.
func (s *SellerService) Get(ctx context.Context, id string) (*models.SellerApplication, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seller application")
	}
	return app, nil
}

// List returns applications matching the query.
func (s *SellerService) List(ctx context.Context, query dto.SellerQuery) ([]models.SellerApplication, error) {
	filter := models.SellerFilter{
		Region: strings.TrimSpace(query.Region),
		Search: strings.TrimSpace(query.Search),
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	for _, raw := range strings.Split(query.Status, ",") {
		raw = strings.ToUpper(strings.TrimSpace(raw))
		if raw != "" {
			filter.Status = append(filter.Status, models.SellerStatus(raw))
		}
	}
	apps, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list seller applications")
	}
	return apps, nil
}

// Approve moves a PENDING application to APPROVED.
func (s *SellerService) Approve(ctx context.Context, id string, actor *models.AdminClaims) (*models.SellerApplication, error) {
	return s.transition(ctx, id, actor, models.SellerActionApprove, nil, repository.SellerTransitionParams{})
}

// Reject moves a PENDING application to REJECTED.
func (s *SellerService) Reject(ctx context.Context, id string, req dto.RejectSellerRequest, actor *models.AdminClaims) (*models.SellerApplication, error) {
	reason := strings.TrimSpace(req.Reason)
	return s.transition(ctx, id, actor, models.SellerActionReject, &reason, repository.SellerTransitionParams{})
}

// Suspend takes an APPROVED seller offline for a bounded period.
func (s *SellerService) Suspend(ctx context.Context, id string, req dto.SuspendSellerRequest, actor *models.AdminClaims) (*models.SellerApplication, error) {
	reason := strings.TrimSpace(req.Reason)
	until := time.Now().UTC().Add(time.Duration(req.DurationHours) * time.Hour)
	return s.transition(ctx, id, actor, models.SellerActionSuspend, &reason, repository.SellerTransitionParams{
		SuspendedUntil:   &until,
		SuspensionReason: &reason,
	})
}

// Reactivate returns a SUSPENDED seller to APPROVED.
func (s *SellerService) Reactivate(ctx context.Context, id string, actor *models.AdminClaims) (*models.SellerApplication, error) {
	return s.transition(ctx, id, actor, models.SellerActionReactivate, nil, repository.SellerTransitionParams{
		ClearSuspension: true,
	})
}

func (s *SellerService) transition(ctx context.Context, id string, actor *models.AdminClaims, action models.SellerAction, reason *string, extra repository.SellerTransitionParams) (*models.SellerApplication, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := sellerTransitions.Authorize(actor.Role, app.Status, action)
	if err != nil {
		if errors.Is(err, appErrors.ErrInvalidTransition) {
			s.observe(action, "conflict")
		} else {
			s.observe(action, "denied")
		}
		return nil, err
	}

	snapshot, _ := json.Marshal(map[string]string{"from": string(app.Status), "to": string(next)})
	params := extra
	params.ID = app.ID
	params.From = app.Status
	params.To = next
	params.Audit = &models.AuditEntry{
		ActorID:    &actor.AdminID,
		Action:     string(action),
		EntityType: models.EntityTypeSellerApplication,
		EntityID:   app.ID,
		NewValues:  snapshot,
		Reason:     reason,
	}

	if err := s.repo.Transition(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.observe(action, "conflict")
			return nil, appErrors.Clone(appErrors.ErrConcurrentModification, "seller application changed during review")
		}
		s.observe(action, "error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to transition seller application")
	}
	s.observe(action, "ok")

	app.Status = next
	app.TransitionedAt = time.Now().UTC()
	if extra.SuspendedUntil != nil {
		app.SuspendedUntil = extra.SuspendedUntil
		app.SuspensionReason = extra.SuspensionReason
	}
	if extra.ClearSuspension {
		app.SuspendedUntil = nil
		app.SuspensionReason = nil
	}

	s.notifier.Notify(ctx, Notification{
		Event:      "seller." + string(action),
		EntityType: models.EntityTypeSellerApplication,
		EntityID:   app.ID,
		ActorID:    actor.AdminID,
	})
	return app, nil
}

func (s *SellerService) observe(action models.SellerAction, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(models.EntityTypeSellerApplication, string(action), outcome)
	}
}
