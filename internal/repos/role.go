package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type RoleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, role *types.Role) (*types.Role, error)
	GetByID(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) (*types.Role, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Role, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Role, error)
	Update(ctx context.Context, tx *gorm.DB, role *types.Role) error
	Delete(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) error
}

type roleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoleRepo(db *gorm.DB, baseLog *logger.Logger) RoleRepo {
	return &roleRepo{db: db, log: baseLog.With("repo", "RoleRepo")}
}

func (r *roleRepo) Create(ctx context.Context, tx *gorm.DB, role *types.Role) (*types.Role, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepo) GetByID(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) (*types.Role, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Role
	err := transaction.WithContext(ctx).
		Where("id = ?", roleID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *roleRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Role, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Role
	err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *roleRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Role, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Role
	if err := transaction.WithContext(ctx).
		Order("name asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *roleRepo) Update(ctx context.Context, tx *gorm.DB, role *types.Role) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(role).Error
}

func (r *roleRepo) Delete(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", roleID).
		Delete(&types.Role{}).Error
}
