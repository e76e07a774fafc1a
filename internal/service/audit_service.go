package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
	"github.com/noah-isme/agri-gov-api/pkg/export"
)

type auditStore interface {
	EntriesFor(ctx context.Context, entityType, entityID string, limit, offset int) ([]models.AuditEntry, error)
	ListByActor(ctx context.Context, actorID string, limit, offset int) ([]models.AuditEntry, error)
}

// AuditService reads the append-only action ledger. Nothing here mutates
// entries; writes happen inside the repositories' transactions.
type AuditService struct {
	repo   auditStore
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

func NewAuditService(repo auditStore, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		repo:   repo,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// TrailFor returns the entity's entries oldest first.
func (s *AuditService) TrailFor(ctx context.Context, entityType, entityID string, query dto.AuditQuery, actor *models.AdminClaims) ([]models.AuditEntry, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermAuditView) {
		return nil, appErrors.ErrPermissionDenied
	}
	entries, err := s.repo.EntriesFor(ctx, strings.TrimSpace(entityType), strings.TrimSpace(entityID), query.Limit, query.Offset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read audit trail")
	}
	return entries, nil
}

// TrailByActor returns the actions one administrator performed, newest first.
func (s *AuditService) TrailByActor(ctx context.Context, actorID string, query dto.AuditQuery, actor *models.AdminClaims) ([]models.AuditEntry, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermAuditView) {
		return nil, appErrors.ErrPermissionDenied
	}
	entries, err := s.repo.ListByActor(ctx, strings.TrimSpace(actorID), query.Limit, query.Offset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read actor trail")
	}
	return entries, nil
}

// Export renders an entity's trail as CSV or PDF bytes with the matching
// content type.
func (s *AuditService) Export(ctx context.Context, entityType, entityID string, query dto.AuditExportQuery, actor *models.AdminClaims) ([]byte, string, error) {
	if actor == nil {
		return nil, "", appErrors.ErrUnauthorized
	}
	if !rbac.HasPermission(actor.Role, rbac.PermAuditExport) {
		return nil, "", appErrors.ErrPermissionDenied
	}

	entries, err := s.repo.EntriesFor(ctx, strings.TrimSpace(entityType), strings.TrimSpace(entityID), query.Limit, query.Offset)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read audit trail")
	}

	data := export.Dataset{
		Headers: []string{"Time", "Actor", "Action", "Entity Type", "Entity ID", "Reason"},
	}
	for _, entry := range entries {
		actorCol := "system"
		if entry.ActorID != nil {
			actorCol = *entry.ActorID
		}
		reason := ""
		if entry.Reason != nil {
			reason = *entry.Reason
		}
		data.Rows = append(data.Rows, []string{
			entry.CreatedAt.UTC().Format(time.RFC3339),
			actorCol,
			entry.Action,
			entry.EntityType,
			entry.EntityID,
			reason,
		})
	}

	format := strings.ToLower(strings.TrimSpace(query.Format))
	switch format {
	case "", "csv":
		raw, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return raw, "text/csv", nil
	case "pdf":
		title := fmt.Sprintf("Audit Trail %s/%s", entityType, entityID)
		raw, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return raw, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", query.Format))
	}
}
