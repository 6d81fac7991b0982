package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type AccessRequestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, request *types.AccessRequest) (*types.AccessRequest, error)
	GetByID(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) (*types.AccessRequest, error)
	List(ctx context.Context, tx *gorm.DB, status string) ([]*types.AccessRequest, error)
	Update(ctx context.Context, tx *gorm.DB, request *types.AccessRequest) error
}

type accessRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccessRequestRepo(db *gorm.DB, baseLog *logger.Logger) AccessRequestRepo {
	return &accessRequestRepo{db: db, log: baseLog.With("repo", "AccessRequestRepo")}
}

func (r *accessRequestRepo) Create(ctx context.Context, tx *gorm.DB, request *types.AccessRequest) (*types.AccessRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *accessRequestRepo) GetByID(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) (*types.AccessRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.AccessRequest
	err := transaction.WithContext(ctx).
		Where("id = ?", requestID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *accessRequestRepo) List(ctx context.Context, tx *gorm.DB, status string) ([]*types.AccessRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var results []*types.AccessRequest
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *accessRequestRepo) Update(ctx context.Context, tx *gorm.DB, request *types.AccessRequest) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(request).Error
}
