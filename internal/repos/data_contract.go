package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type DataContractRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contract *types.DataContract) (*types.DataContract, error)
	GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.DataContract, error)
	List(ctx context.Context, tx *gorm.DB, status string) ([]*types.DataContract, error)
	NameVersionExists(ctx context.Context, tx *gorm.DB, name, version string) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, contract *types.DataContract) error
	Delete(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) error
}

type dataContractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDataContractRepo(db *gorm.DB, baseLog *logger.Logger) DataContractRepo {
	return &dataContractRepo{db: db, log: baseLog.With("repo", "DataContractRepo")}
}

func (r *dataContractRepo) Create(ctx context.Context, tx *gorm.DB, contract *types.DataContract) (*types.DataContract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(contract).Error; err != nil {
		return nil, err
	}
	return contract, nil
}

func (r *dataContractRepo) GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.DataContract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.DataContract
	err := transaction.WithContext(ctx).
		Preload("OwnerTeam").
		Where("id = ?", contractID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *dataContractRepo) List(ctx context.Context, tx *gorm.DB, status string) ([]*types.DataContract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).Preload("OwnerTeam").Order("name asc, version desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var results []*types.DataContract
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *dataContractRepo) NameVersionExists(ctx context.Context, tx *gorm.DB, name, version string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.DataContract{}).
		Where("name = ? AND version = ?", name, version).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *dataContractRepo) Update(ctx context.Context, tx *gorm.DB, contract *types.DataContract) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(contract).Error
}

func (r *dataContractRepo) Delete(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", contractID).
		Delete(&types.DataContract{}).Error
}
