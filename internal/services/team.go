package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/clients/redis"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/repos"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type TeamService interface {
	Create(ctx context.Context, team *types.Team) (*types.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*types.Team, error)
	List(ctx context.Context) ([]*types.Team, error)
	Update(ctx context.Context, team *types.Team) (*types.Team, error)
	Delete(ctx context.Context, teamID uuid.UUID) error
	AddMember(ctx context.Context, teamID, userID uuid.UUID, role string) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]*types.TeamMember, error)
}

type teamService struct {
	db            *gorm.DB
	log           *logger.Logger
	teamRepo      repos.TeamRepo
	userRepo      repos.UserRepo
	avatarService AvatarService
	auditService  AuditService
	bus           redis.CatalogBus
}

func NewTeamService(
	db *gorm.DB,
	log *logger.Logger,
	teamRepo repos.TeamRepo,
	userRepo repos.UserRepo,
	avatarService AvatarService,
	auditService AuditService,
	bus redis.CatalogBus,
) TeamService {
	return &teamService{
		db:            db,
		log:           log.With("service", "TeamService"),
		teamRepo:      teamRepo,
		userRepo:      userRepo,
		avatarService: avatarService,
		auditService:  auditService,
		bus:           bus,
	}
}

func (ts *teamService) Create(ctx context.Context, team *types.Team) (*types.Team, error) {
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_name", "a team name is required")
	}
	exists, err := ts.teamRepo.NameExists(ctx, nil, team.Name)
	if err != nil {
		return nil, fmt.Errorf("check team name: %w", err)
	}
	if exists {
		return nil, apierr.Newf(http.StatusConflict, "duplicate_team", "a team named %q already exists", team.Name)
	}

	var created *types.Team
	txErr := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team.ID = uuid.New()
		if ts.avatarService != nil {
			key, url, avErr := ts.avatarService.CreateAndUpload(ctx, "teams", team.ID.String(), team.Name)
			if avErr != nil {
				ts.log.Warn("Team avatar generation failed", "error", avErr, "team", team.Name)
			} else {
				team.AvatarBucketKey = key
				team.AvatarURL = url
			}
		}
		created, err = ts.teamRepo.Create(ctx, tx, team)
		if err != nil {
			return fmt.Errorf("create team: %w", err)
		}
		ts.auditService.Record(ctx, tx, "create", "team", created.ID.String(), true, map[string]any{"name": created.Name})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	ts.publishMutation(ctx, created.ID)
	return created, nil
}

func (ts *teamService) GetByID(ctx context.Context, teamID uuid.UUID) (*types.Team, error) {
	team, err := ts.teamRepo.GetByID(ctx, nil, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, apierr.Newf(http.StatusNotFound, "team_not_found", "team %s not found", teamID)
	}
	return team, nil
}

func (ts *teamService) List(ctx context.Context) ([]*types.Team, error) {
	return ts.teamRepo.List(ctx, nil)
}

func (ts *teamService) Update(ctx context.Context, team *types.Team) (*types.Team, error) {
	existing, err := ts.GetByID(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_name", "a team name is required")
	}
	if team.Name != existing.Name {
		exists, err := ts.teamRepo.NameExists(ctx, nil, team.Name)
		if err != nil {
			return nil, fmt.Errorf("check team name: %w", err)
		}
		if exists {
			return nil, apierr.Newf(http.StatusConflict, "duplicate_team", "a team named %q already exists", team.Name)
		}
	}

	txErr := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ts.teamRepo.Update(ctx, tx, team); err != nil {
			return fmt.Errorf("update team: %w", err)
		}
		ts.auditService.Record(ctx, tx, "update", "team", team.ID.String(), true, map[string]any{"name": team.Name})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	ts.publishMutation(ctx, team.ID)
	return team, nil
}

func (ts *teamService) Delete(ctx context.Context, teamID uuid.UUID) error {
	if _, err := ts.GetByID(ctx, teamID); err != nil {
		return err
	}
	txErr := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ts.teamRepo.Delete(ctx, tx, teamID); err != nil {
			return fmt.Errorf("delete team: %w", err)
		}
		ts.auditService.Record(ctx, tx, "delete", "team", teamID.String(), true, nil)
		return nil
	})
	if txErr != nil {
		return txErr
	}
	ts.publishMutation(ctx, teamID)
	return nil
}

func (ts *teamService) AddMember(ctx context.Context, teamID, userID uuid.UUID, role string) error {
	if _, err := ts.GetByID(ctx, teamID); err != nil {
		return err
	}
	users, err := ts.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if len(users) == 0 {
		return apierr.Newf(http.StatusNotFound, "user_not_found", "user %s not found", userID)
	}
	if role == "" {
		role = "member"
	}
	txErr := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ts.teamRepo.AddMember(ctx, tx, &types.TeamMember{
			TeamID: teamID,
			UserID: userID,
			Role:   role,
		}); err != nil {
			return fmt.Errorf("add team member: %w", err)
		}
		ts.auditService.Record(ctx, tx, "add-member", "team", teamID.String(), true, map[string]any{"user_id": userID.String(), "role": role})
		return nil
	})
	if txErr != nil {
		return txErr
	}
	ts.publishMutation(ctx, teamID)
	return nil
}

func (ts *teamService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	txErr := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ts.teamRepo.RemoveMember(ctx, tx, teamID, userID); err != nil {
			return fmt.Errorf("remove team member: %w", err)
		}
		ts.auditService.Record(ctx, tx, "remove-member", "team", teamID.String(), true, map[string]any{"user_id": userID.String()})
		return nil
	})
	if txErr != nil {
		return txErr
	}
	ts.publishMutation(ctx, teamID)
	return nil
}

func (ts *teamService) ListMembers(ctx context.Context, teamID uuid.UUID) ([]*types.TeamMember, error) {
	return ts.teamRepo.ListMembers(ctx, nil, teamID)
}

func (ts *teamService) publishMutation(ctx context.Context, teamID uuid.UUID) {
	if ts.bus == nil {
		return
	}
	if err := ts.bus.Publish(ctx, redis.Event{
		Type:       redis.EventEntityMutated,
		EntityType: "team",
		EntityID:   teamID.String(),
	}); err != nil {
		ts.log.Warn("Failed to publish team mutation", "error", err)
	}
}
