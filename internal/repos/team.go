package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type TeamRepo interface {
	Create(ctx context.Context, tx *gorm.DB, team *types.Team) (*types.Team, error)
	GetByID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) (*types.Team, error)
	NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Team, error)
	Update(ctx context.Context, tx *gorm.DB, team *types.Team) error
	Delete(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) error
	AddMember(ctx context.Context, tx *gorm.DB, member *types.TeamMember) error
	RemoveMember(ctx context.Context, tx *gorm.DB, teamID, userID uuid.UUID) error
	ListMembers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.TeamMember, error)
}

type teamRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeamRepo(db *gorm.DB, baseLog *logger.Logger) TeamRepo {
	return &teamRepo{db: db, log: baseLog.With("repo", "TeamRepo")}
}

func (r *teamRepo) Create(ctx context.Context, tx *gorm.DB, team *types.Team) (*types.Team, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

func (r *teamRepo) GetByID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) (*types.Team, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Team
	err := transaction.WithContext(ctx).
		Preload("Members").
		Preload("Members.User").
		Where("id = ?", teamID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *teamRepo) NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Team{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *teamRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Team, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Team
	if err := transaction.WithContext(ctx).
		Preload("Members").
		Order("name asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *teamRepo) Update(ctx context.Context, tx *gorm.DB, team *types.Team) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(team).Error
}

func (r *teamRepo) Delete(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("team_id = ?", teamID).
		Delete(&types.TeamMember{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("id = ?", teamID).
		Delete(&types.Team{}).Error
}

func (r *teamRepo) AddMember(ctx context.Context, tx *gorm.DB, member *types.TeamMember) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(member).Error
}

func (r *teamRepo) RemoveMember(ctx context.Context, tx *gorm.DB, teamID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&types.TeamMember{}).Error
}

func (r *teamRepo) ListMembers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.TeamMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.TeamMember
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("team_id = ?", teamID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
