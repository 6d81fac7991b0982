package services

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/repos"
	"github.com/larsgeorge/ontos-sub000/internal/requestdata"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

// AuditService appends the audit trail. Recording is best-effort: a failed
// append is logged, never surfaced to the caller's operation.
type AuditService interface {
	Record(ctx context.Context, tx *gorm.DB, action, entityType, entityID string, success bool, details map[string]any)
	List(ctx context.Context, filter repos.AuditLogFilter) ([]*types.AuditLog, error)
}

type auditService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.AuditLogRepo
}

func NewAuditService(db *gorm.DB, log *logger.Logger, repo repos.AuditLogRepo) AuditService {
	return &auditService{
		db:   db,
		log:  log.With("service", "AuditService"),
		repo: repo,
	}
}

func (as *auditService) Record(ctx context.Context, tx *gorm.DB, action, entityType, entityID string, success bool, details map[string]any) {
	entry := &types.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Success:    success,
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		entry.TraceID = sc.TraceID().String()
	}
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		userID := rd.UserID
		entry.UserID = &userID
		entry.Username = rd.Email
	}
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = raw
		}
	}
	if err := as.repo.Append(ctx, tx, entry); err != nil {
		as.log.Error("Failed to append audit entry", "error", err, "action", action, "entity_type", entityType)
	}
}

func (as *auditService) List(ctx context.Context, filter repos.AuditLogFilter) ([]*types.AuditLog, error) {
	return as.repo.List(ctx, nil, filter)
}
