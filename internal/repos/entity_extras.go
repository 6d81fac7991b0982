package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type EntityNoteRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, note *types.EntityNote) error
	GetByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) (*types.EntityNote, error)
}

type entityNoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntityNoteRepo(db *gorm.DB, baseLog *logger.Logger) EntityNoteRepo {
	return &entityNoteRepo{db: db, log: baseLog.With("repo", "EntityNoteRepo")}
}

func (r *entityNoteRepo) Upsert(ctx context.Context, tx *gorm.DB, note *types.EntityNote) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "updated_by", "updated_at"}),
		}).
		Create(note).Error
}

func (r *entityNoteRepo) GetByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) (*types.EntityNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.EntityNote
	err := transaction.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type EntityLinkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, link *types.EntityLink) (*types.EntityLink, error)
	GetByID(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) (*types.EntityLink, error)
	ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.EntityLink, error)
	Delete(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) error
}

type entityLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntityLinkRepo(db *gorm.DB, baseLog *logger.Logger) EntityLinkRepo {
	return &entityLinkRepo{db: db, log: baseLog.With("repo", "EntityLinkRepo")}
}

func (r *entityLinkRepo) Create(ctx context.Context, tx *gorm.DB, link *types.EntityLink) (*types.EntityLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (r *entityLinkRepo) GetByID(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) (*types.EntityLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.EntityLink
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

func (r *entityLinkRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.EntityLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.EntityLink
	if err := transaction.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *entityLinkRepo) Delete(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", linkID).
		Delete(&types.EntityLink{}).Error
}

type EntityDocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, doc *types.EntityDocument) (*types.EntityDocument, error)
	GetByID(ctx context.Context, tx *gorm.DB, docID uuid.UUID) (*types.EntityDocument, error)
	ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.EntityDocument, error)
	Delete(ctx context.Context, tx *gorm.DB, docID uuid.UUID) error
}

type entityDocumentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntityDocumentRepo(db *gorm.DB, baseLog *logger.Logger) EntityDocumentRepo {
	return &entityDocumentRepo{db: db, log: baseLog.With("repo", "EntityDocumentRepo")}
}

func (r *entityDocumentRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.EntityDocument) (*types.EntityDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *entityDocumentRepo) GetByID(ctx context.Context, tx *gorm.DB, docID uuid.UUID) (*types.EntityDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.EntityDocument
	err := transaction.WithContext(ctx).
		Where("id = ?", docID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *entityDocumentRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.EntityDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.EntityDocument
	if err := transaction.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *entityDocumentRepo) Delete(ctx context.Context, tx *gorm.DB, docID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", docID).
		Delete(&types.EntityDocument{}).Error
}
