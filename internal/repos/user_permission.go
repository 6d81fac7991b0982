package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type UserPermissionRepo interface {
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserPermission, error)
	Upsert(ctx context.Context, tx *gorm.DB, grant *types.UserPermission) error
	DeleteByUserFeature(ctx context.Context, tx *gorm.DB, userID uuid.UUID, feature string) error
}

type userPermissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserPermissionRepo(db *gorm.DB, baseLog *logger.Logger) UserPermissionRepo {
	return &userPermissionRepo{db: db, log: baseLog.With("repo", "UserPermissionRepo")}
}

func (r *userPermissionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserPermission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserPermission
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userPermissionRepo) Upsert(ctx context.Context, tx *gorm.DB, grant *types.UserPermission) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "feature"}},
			DoUpdates: clause.AssignmentColumns([]string{"level", "updated_at"}),
		}).
		Create(grant).Error
}

func (r *userPermissionRepo) DeleteByUserFeature(ctx context.Context, tx *gorm.DB, userID uuid.UUID, feature string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND feature = ?", userID, feature).
		Delete(&types.UserPermission{}).Error
}
