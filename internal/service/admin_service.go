package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

type adminStore interface {
	Create(ctx context.Context, account *models.AdminAccount, audit *models.AuditEntry) error
	GetByID(ctx context.Context, id string) (*models.AdminAccount, error)
	FindByEmail(ctx context.Context, email string) (*models.AdminAccount, error)
	List(ctx context.Context, filter models.AdminFilter) ([]models.AdminAccount, error)
	Deactivate(ctx context.Context, id string, audit *models.AuditEntry) error
}

// AdminService onboards and manages administrator accounts. Accounts are
// deactivated rather than deleted so the audit ledger keeps resolving
// actor ids.
type AdminService struct {
	repo   adminStore
	logger *zap.Logger
}

func NewAdminService(repo adminStore, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{repo: repo, logger: logger}
}

// Create onboards a new administrator with a bcrypt-hashed password.
func (s *AdminService) Create(ctx context.Context, req dto.CreateAdminRequest, actor *models.AdminClaims) (*models.AdminAccount, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermAdminManage) {
		return nil, appErrors.ErrPermissionDenied
	}
	role := rbac.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !rbac.ValidRole(role) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", req.Role))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	now := time.Now().UTC()
	account := &models.AdminAccount{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	snapshot, _ := json.Marshal(map[string]interface{}{"email": account.Email, "role": account.Role})
	err = s.repo.Create(ctx, account, &models.AuditEntry{
		ActorID:    &actor.AdminID,
		Action:     "create",
		EntityType: models.EntityTypeAdminAccount,
		EntityID:   account.ID,
		NewValues:  snapshot,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin account")
	}
	s.logger.Info("admin account created",
		zap.String("admin_id", account.ID),
		zap.String("role", string(account.Role)))
	return account, nil
}

// Get returns one account by id.
func (s *AdminService) Get(ctx context.Context, id string) (*models.AdminAccount, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin account")
	}
	return account, nil
}

// List returns accounts matching the query.
func (s *AdminService) List(ctx context.Context, query dto.AdminQuery, actor *models.AdminClaims) ([]models.AdminAccount, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermAdminManage) {
		return nil, appErrors.ErrPermissionDenied
	}
	filter := models.AdminFilter{
		Active: query.Active,
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if trimmed := strings.ToUpper(strings.TrimSpace(query.Role)); trimmed != "" {
		role := rbac.Role(trimmed)
		filter.Role = &role
	}
	accounts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admin accounts")
	}
	return accounts, nil
}

// Deactivate disables an active account. Deactivating yourself is refused
// so the last super admin cannot lock everyone out by accident.
func (s *AdminService) Deactivate(ctx context.Context, id string, actor *models.AdminClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermAdminManage) {
		return appErrors.ErrPermissionDenied
	}
	if actor.AdminID == id {
		return appErrors.Clone(appErrors.ErrValidation, "cannot deactivate your own account")
	}

	old, _ := json.Marshal(map[string]interface{}{"active": true})
	snapshot, _ := json.Marshal(map[string]interface{}{"active": false})
	err := s.repo.Deactivate(ctx, id, &models.AuditEntry{
		ActorID:    &actor.AdminID,
		Action:     "deactivate",
		EntityType: models.EntityTypeAdminAccount,
		EntityID:   id,
		OldValues:  old,
		NewValues:  snapshot,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "account is not active")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate admin account")
	}
	return nil
}
