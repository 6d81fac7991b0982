package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type RoleOverrideRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, userID, roleID uuid.UUID) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserRoleOverride, error)
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type roleOverrideRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoleOverrideRepo(db *gorm.DB, baseLog *logger.Logger) RoleOverrideRepo {
	return &roleOverrideRepo{db: db, log: baseLog.With("repo", "RoleOverrideRepo")}
}

func (r *roleOverrideRepo) Upsert(ctx context.Context, tx *gorm.DB, userID, roleID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	override := &types.UserRoleOverride{UserID: userID, RoleID: roleID}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role_id", "updated_at"}),
		}).
		Create(override).Error
}

func (r *roleOverrideRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserRoleOverride, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.UserRoleOverride
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *roleOverrideRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.UserRoleOverride{}).Error
}
