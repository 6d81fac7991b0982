package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type GlossaryTermRepo interface {
	Create(ctx context.Context, tx *gorm.DB, term *types.GlossaryTerm) (*types.GlossaryTerm, error)
	GetByID(ctx context.Context, tx *gorm.DB, termID uuid.UUID) (*types.GlossaryTerm, error)
	GetByIRI(ctx context.Context, tx *gorm.DB, iri string) (*types.GlossaryTerm, error)
	IRIExists(ctx context.Context, tx *gorm.DB, iri string) (bool, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.GlossaryTerm, error)
	Update(ctx context.Context, tx *gorm.DB, term *types.GlossaryTerm) error
	Delete(ctx context.Context, tx *gorm.DB, termID uuid.UUID) error
}

type glossaryTermRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGlossaryTermRepo(db *gorm.DB, baseLog *logger.Logger) GlossaryTermRepo {
	return &glossaryTermRepo{db: db, log: baseLog.With("repo", "GlossaryTermRepo")}
}

func (r *glossaryTermRepo) Create(ctx context.Context, tx *gorm.DB, term *types.GlossaryTerm) (*types.GlossaryTerm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(term).Error; err != nil {
		return nil, err
	}
	return term, nil
}

func (r *glossaryTermRepo) GetByID(ctx context.Context, tx *gorm.DB, termID uuid.UUID) (*types.GlossaryTerm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.GlossaryTerm
	err := transaction.WithContext(ctx).
		Where("id = ?", termID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *glossaryTermRepo) GetByIRI(ctx context.Context, tx *gorm.DB, iri string) (*types.GlossaryTerm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.GlossaryTerm
	err := transaction.WithContext(ctx).
		Where("iri = ?", iri).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *glossaryTermRepo) IRIExists(ctx context.Context, tx *gorm.DB, iri string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.GlossaryTerm{}).
		Where("iri = ?", iri).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *glossaryTermRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.GlossaryTerm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.GlossaryTerm
	if err := transaction.WithContext(ctx).
		Order("taxonomy_name asc, iri asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *glossaryTermRepo) Update(ctx context.Context, tx *gorm.DB, term *types.GlossaryTerm) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(term).Error
}

func (r *glossaryTermRepo) Delete(ctx context.Context, tx *gorm.DB, termID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", termID).
		Delete(&types.GlossaryTerm{}).Error
}
