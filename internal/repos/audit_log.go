package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type AuditLogFilter struct {
	Action     string
	EntityType string
	EntityID   string
	Limit      int
	Offset     int
}

type AuditLogRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *types.AuditLog) error
	List(ctx context.Context, tx *gorm.DB, filter AuditLogFilter) ([]*types.AuditLog, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return &auditLogRepo{db: db, log: baseLog.With("repo", "AuditLogRepo")}
}

func (r *auditLogRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.AuditLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepo) List(ctx context.Context, tx *gorm.DB, filter AuditLogFilter) ([]*types.AuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).Order("created_at desc")
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query = query.Limit(limit)
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	var results []*types.AuditLog
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
