package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	"github.com/noah-isme/agri-gov-api/internal/repository"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

type escalationStore interface {
	Create(ctx context.Context, esc *models.Escalation, audit *models.AuditEntry) error
	GetByID(ctx context.Context, id string) (*models.Escalation, error)
	List(ctx context.Context, filter models.EscalationFilter) ([]models.Escalation, error)
	Transition(ctx context.Context, params repository.EscalationTransitionParams) error
	ExpireOverdue(ctx context.Context, now time.Time) ([]string, error)
}

// EscalationService manages SLA-bounded escalations. The due date is fixed
// at creation from the priority's budget and never moves afterwards, not
// even when the escalation is bumped a level.
type EscalationService struct {
	repo      escalationStore
	validator *validator.Validate
	notifier  Notifier
	metrics   *MetricsService
	logger    *zap.Logger
}

func NewEscalationService(repo escalationStore, validate *validator.Validate, notifier Notifier, metrics *MetricsService, logger *zap.Logger) *EscalationService {
	if validate == nil {
		validate = validator.New()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &EscalationService{repo: repo, validator: validate, notifier: notifier, metrics: metrics, logger: logger}
	svc.validator.RegisterValidation("escalation_priority", func(fl validator.FieldLevel) bool {
		_, ok := models.SLABudget(models.EscalationPriority(strings.ToUpper(strings.TrimSpace(fl.Field().String()))))
		return ok
	})
	return svc
}

// Create raises a new escalation at level 0 with a priority-derived deadline.
// The level only moves when the escalation is bumped further.
func (s *EscalationService) Create(ctx context.Context, req dto.CreateEscalationRequest, actor *models.AdminClaims) (*models.Escalation, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermEscalationCreate) {
		return nil, appErrors.ErrPermissionDenied
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid escalation payload")
	}
	priority := models.EscalationPriority(strings.ToUpper(strings.TrimSpace(req.Priority)))
	budget, ok := models.SLABudget(priority)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown priority %q", req.Priority))
	}

	now := time.Now().UTC()
	esc := &models.Escalation{
		ID:          uuid.NewString(),
		CreatorID:   actor.AdminID,
		Priority:    priority,
		Status:      models.EscalationStatusOpen,
		Level:       0,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		DueDate:     now.Add(budget),
		CreatedAt:   now,
	}
	if trimmed := strings.TrimSpace(req.EntityType); trimmed != "" {
		esc.EntityType = &trimmed
	}
	if trimmed := strings.TrimSpace(req.EntityID); trimmed != "" {
		esc.EntityID = &trimmed
	}

	snapshot, _ := json.Marshal(map[string]interface{}{
		"priority": esc.Priority,
		"due_date": esc.DueDate,
		"title":    esc.Title,
	})
	err := s.repo.Create(ctx, esc, &models.AuditEntry{
		ActorID:    &actor.AdminID,
		Action:     "create",
		EntityType: models.EntityTypeEscalation,
		EntityID:   esc.ID,
		NewValues:  snapshot,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create escalation")
	}

	s.notifier.Notify(ctx, Notification{
		Event:      "escalation.created",
		EntityType: string(models.EntityTypeEscalation),
		EntityID:   esc.ID,
		ActorID:    actor.AdminID,
		Detail:     map[string]interface{}{"priority": esc.Priority, "due_date": esc.DueDate},
	})
	return esc, nil
}

// Get returns one escalation by id.
func (s *EscalationService) Get(ctx context.Context, id string) (*models.Escalation, error) {
	esc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "escalation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load escalation")
	}
	return esc, nil
}

// List returns escalations matching the query.
func (s *EscalationService) List(ctx context.Context, query dto.EscalationQuery) ([]models.Escalation, error) {
	filter := models.EscalationFilter{
		AssigneeID: strings.TrimSpace(query.AssigneeID),
		CreatorID:  strings.TrimSpace(query.CreatorID),
		Limit:      query.Limit,
		Offset:     query.Offset,
	}
	if trimmed := strings.ToUpper(strings.TrimSpace(query.Status)); trimmed != "" {
		filter.Status = []models.EscalationStatus{models.EscalationStatus(trimmed)}
	}
	if trimmed := strings.ToUpper(strings.TrimSpace(query.Priority)); trimmed != "" {
		filter.Priority = models.EscalationPriority(trimmed)
	}
	escalations, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list escalations")
	}
	return escalations, nil
}

// Assign hands an open escalation to an administrator and moves it to
// IN_PROGRESS.
func (s *EscalationService) Assign(ctx context.Context, id string, req dto.AssignEscalationRequest, actor *models.AdminClaims) (*models.Escalation, error) {
	assignee := strings.TrimSpace(req.AssigneeID)
	return s.transition(ctx, id, actor, transitionSpec{
		action:     "assign",
		permission: rbac.PermEscalationAssign,
		from:       []models.EscalationStatus{models.EscalationStatusOpen},
		to:         models.EscalationStatusInProgress,
		assigneeID: &assignee,
	})
}

// Escalate bumps the escalation one level without extending its deadline.
func (s *EscalationService) Escalate(ctx context.Context, id string, actor *models.AdminClaims) (*models.Escalation, error) {
	return s.transition(ctx, id, actor, transitionSpec{
		action:     "escalate",
		permission: rbac.PermEscalationEscalate,
		from:       []models.EscalationStatus{models.EscalationStatusOpen, models.EscalationStatusInProgress},
		to:         models.EscalationStatusEscalated,
		increment:  true,
	})
}

// Resolve closes the escalation from any live status.
func (s *EscalationService) Resolve(ctx context.Context, id string, actor *models.AdminClaims) (*models.Escalation, error) {
	now := time.Now().UTC()
	return s.transition(ctx, id, actor, transitionSpec{
		action:     "resolve",
		permission: rbac.PermEscalationResolve,
		from: []models.EscalationStatus{
			models.EscalationStatusOpen,
			models.EscalationStatusInProgress,
			models.EscalationStatusEscalated,
		},
		to:         models.EscalationStatusResolved,
		resolvedAt: &now,
	})
}

// Reject dismisses the escalation from any live status.
func (s *EscalationService) Reject(ctx context.Context, id string, actor *models.AdminClaims) (*models.Escalation, error) {
	now := time.Now().UTC()
	return s.transition(ctx, id, actor, transitionSpec{
		action:     "reject",
		permission: rbac.PermEscalationReject,
		from: []models.EscalationStatus{
			models.EscalationStatusOpen,
			models.EscalationStatusInProgress,
			models.EscalationStatusEscalated,
		},
		to:         models.EscalationStatusRejected,
		resolvedAt: &now,
	})
}

// ExpireOverdue sweeps every live escalation past its due date into EXPIRED.
// Called periodically from the deadline ticker in main.
func (s *EscalationService) ExpireOverdue(ctx context.Context) ([]string, error) {
	expired, err := s.repo.ExpireOverdue(ctx, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to expire overdue escalations")
	}
	if s.metrics != nil {
		s.metrics.ObserveSweep(len(expired))
	}
	for _, id := range expired {
		s.notifier.Notify(ctx, Notification{
			Event:      "escalation.expired",
			EntityType: string(models.EntityTypeEscalation),
			EntityID:   id,
		})
	}
	if len(expired) > 0 {
		s.logger.Info("expired overdue escalations", zap.Int("count", len(expired)))
	}
	return expired, nil
}

type transitionSpec struct {
	action     string
	permission rbac.Permission
	from       []models.EscalationStatus
	to         models.EscalationStatus
	assigneeID *string
	increment  bool
	resolvedAt *time.Time
}

func (s *EscalationService) transition(ctx context.Context, id string, actor *models.AdminClaims, spec transitionSpec) (*models.Escalation, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, spec.permission) {
		s.observe(spec.action, "denied")
		return nil, appErrors.ErrPermissionDenied
	}

	esc, err := s.Get(ctx, id)
	if err != nil {
		s.observe(spec.action, "error")
		return nil, err
	}
	legal := false
	for _, from := range spec.from {
		if esc.Status == from {
			legal = true
			break
		}
	}
	if !legal {
		s.observe(spec.action, "conflict")
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot %s an escalation in status %s", spec.action, esc.Status))
	}

	snapshot, _ := json.Marshal(map[string]interface{}{"from": esc.Status, "to": spec.to})
	old, _ := json.Marshal(map[string]interface{}{"status": esc.Status, "level": esc.Level})
	err = s.repo.Transition(ctx, repository.EscalationTransitionParams{
		ID:             id,
		From:           spec.from,
		To:             spec.to,
		AssigneeID:     spec.assigneeID,
		IncrementLevel: spec.increment,
		ResolvedAt:     spec.resolvedAt,
		Audit: &models.AuditEntry{
			ActorID:    &actor.AdminID,
			Action:     spec.action,
			EntityType: models.EntityTypeEscalation,
			EntityID:   id,
			OldValues:  old,
			NewValues:  snapshot,
		},
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.observe(spec.action, "conflict")
			return nil, appErrors.Clone(appErrors.ErrConcurrentModification, "escalation changed during update")
		}
		s.observe(spec.action, "error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update escalation")
	}
	s.observe(spec.action, "ok")

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, Notification{
		Event:      "escalation." + spec.action,
		EntityType: string(models.EntityTypeEscalation),
		EntityID:   id,
		ActorID:    actor.AdminID,
		Detail:     map[string]interface{}{"status": updated.Status, "level": updated.Level},
	})
	return updated, nil
}

func (s *EscalationService) observe(action, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(string(models.EntityTypeEscalation), action, outcome)
	}
}
