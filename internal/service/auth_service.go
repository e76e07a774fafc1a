package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/models"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

type authStore interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminAccount, error)
	GetByID(ctx context.Context, id string) (*models.AdminAccount, error)
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
}

// AuthService issues and validates the JWTs every other endpoint trusts
// for actor identity and role.
type AuthService struct {
	repo              authStore
	secret            []byte
	expiration        time.Duration
	refreshExpiration time.Duration
	logger            *zap.Logger
}

func NewAuthService(repo authStore, secret string, expiration, refreshExpiration time.Duration, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		repo:              repo,
		secret:            []byte(secret),
		expiration:        expiration,
		refreshExpiration: refreshExpiration,
		logger:            logger,
	}
}

// Login verifies credentials and issues a token pair. Inactive accounts
// cannot log in even with the right password.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenPair, *models.AdminAccount, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.ErrInvalidCredentials
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up account")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, appErrors.ErrInvalidCredentials
	}
	if !account.Active {
		return nil, nil, appErrors.ErrInactiveAccount
	}

	pair, err := s.issuePair(account)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.UpdateLastLogin(ctx, account.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to record last login", zap.String("admin_id", account.ID), zap.Error(err))
	}
	return pair, account, nil
}

// Refresh exchanges a live refresh token for a fresh pair. The account is
// re-read so a deactivation since issuance cuts the session off.
func (s *AuthService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.TokenPair, error) {
	claims, err := s.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	account, err := s.repo.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUnauthorized
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	if !account.Active {
		return nil, appErrors.ErrInactiveAccount
	}
	return s.issuePair(account)
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	claims, ok := token.Claims.(*models.AdminClaims)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) issuePair(account *models.AdminAccount) (*dto.TokenPair, error) {
	now := time.Now().UTC()

	access, err := s.sign(account, now, s.expiration)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign access token")
	}
	refresh, err := s.sign(account, now, s.refreshExpiration)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign refresh token")
	}
	return &dto.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.expiration.Seconds()),
	}, nil
}

func (s *AuthService) sign(account *models.AdminAccount, now time.Time, ttl time.Duration) (string, error) {
	claims := models.AdminClaims{
		AdminID: account.ID,
		Role:    account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
