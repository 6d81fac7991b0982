package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type SemanticLinkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, link *types.SemanticLink) (*types.SemanticLink, error)
	GetByID(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) (*types.SemanticLink, error)
	ListByIRI(ctx context.Context, tx *gorm.DB, iri string) ([]*types.SemanticLink, error)
	ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.SemanticLink, error)
	Delete(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) error
}

type semanticLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSemanticLinkRepo(db *gorm.DB, baseLog *logger.Logger) SemanticLinkRepo {
	return &semanticLinkRepo{db: db, log: baseLog.With("repo", "SemanticLinkRepo")}
}

func (r *semanticLinkRepo) Create(ctx context.Context, tx *gorm.DB, link *types.SemanticLink) (*types.SemanticLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (r *semanticLinkRepo) GetByID(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) (*types.SemanticLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.SemanticLink
	err := transaction.WithContext(ctx).
		Where("id = ?", linkID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *semanticLinkRepo) ListByIRI(ctx context.Context, tx *gorm.DB, iri string) ([]*types.SemanticLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SemanticLink
	if err := transaction.WithContext(ctx).
		Where("iri = ?", iri).
		Order("created_at desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *semanticLinkRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.SemanticLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SemanticLink
	if err := transaction.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *semanticLinkRepo) Delete(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", linkID).
		Delete(&types.SemanticLink{}).Error
}
