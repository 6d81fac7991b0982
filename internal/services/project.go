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
	"github.com/larsgeorge/ontos-sub000/internal/requestdata"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type ProjectService interface {
	Create(ctx context.Context, project *types.Project) (*types.Project, error)
	GetByID(ctx context.Context, projectID uuid.UUID) (*types.Project, error)
	List(ctx context.Context) ([]*types.Project, error)
	Update(ctx context.Context, project *types.Project) (*types.Project, error)
	Delete(ctx context.Context, projectID uuid.UUID) error
}

type projectService struct {
	db           *gorm.DB
	log          *logger.Logger
	projectRepo  repos.ProjectRepo
	auditService AuditService
	bus          redis.CatalogBus
}

func NewProjectService(
	db *gorm.DB,
	log *logger.Logger,
	projectRepo repos.ProjectRepo,
	auditService AuditService,
	bus redis.CatalogBus,
) ProjectService {
	return &projectService{
		db:           db,
		log:          log.With("service", "ProjectService"),
		projectRepo:  projectRepo,
		auditService: auditService,
		bus:          bus,
	}
}

func (ps *projectService) Create(ctx context.Context, project *types.Project) (*types.Project, error) {
	project.Title = strings.TrimSpace(project.Title)
	if project.Title == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_title", "a project title is required")
	}
	exists, err := ps.projectRepo.TitleExists(ctx, nil, project.Title)
	if err != nil {
		return nil, fmt.Errorf("check project title: %w", err)
	}
	if exists {
		return nil, apierr.Newf(http.StatusConflict, "duplicate_project", "Project already exists")
	}

	if rd := requestdata.GetRequestData(ctx); rd != nil && project.OwnerID == uuid.Nil {
		project.OwnerID = rd.UserID
	}

	var created *types.Project
	txErr := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err = ps.projectRepo.Create(ctx, tx, project)
		if err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		ps.auditService.Record(ctx, tx, "create", "project", created.ID.String(), true, map[string]any{"title": created.Title})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	ps.publishMutation(ctx, created.ID)
	return created, nil
}

func (ps *projectService) GetByID(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	project, err := ps.projectRepo.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apierr.Newf(http.StatusNotFound, "project_not_found", "project %s not found", projectID)
	}
	return project, nil
}

func (ps *projectService) List(ctx context.Context) ([]*types.Project, error) {
	return ps.projectRepo.List(ctx, nil)
}

func (ps *projectService) Update(ctx context.Context, project *types.Project) (*types.Project, error) {
	existing, err := ps.GetByID(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	project.Title = strings.TrimSpace(project.Title)
	if project.Title == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_title", "a project title is required")
	}
	if project.Title != existing.Title {
		exists, err := ps.projectRepo.TitleExists(ctx, nil, project.Title)
		if err != nil {
			return nil, fmt.Errorf("check project title: %w", err)
		}
		if exists {
			return nil, apierr.Newf(http.StatusConflict, "duplicate_project", "Project already exists")
		}
	}

	txErr := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.projectRepo.Update(ctx, tx, project); err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		ps.auditService.Record(ctx, tx, "update", "project", project.ID.String(), true, map[string]any{"title": project.Title})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	ps.publishMutation(ctx, project.ID)
	return project, nil
}

func (ps *projectService) Delete(ctx context.Context, projectID uuid.UUID) error {
	if _, err := ps.GetByID(ctx, projectID); err != nil {
		return err
	}
	txErr := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.projectRepo.Delete(ctx, tx, projectID); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		ps.auditService.Record(ctx, tx, "delete", "project", projectID.String(), true, nil)
		return nil
	})
	if txErr != nil {
		return txErr
	}
	ps.publishMutation(ctx, projectID)
	return nil
}

func (ps *projectService) publishMutation(ctx context.Context, projectID uuid.UUID) {
	if ps.bus == nil {
		return
	}
	if err := ps.bus.Publish(ctx, redis.Event{
		Type:       redis.EventEntityMutated,
		EntityType: "project",
		EntityID:   projectID.String(),
	}); err != nil {
		ps.log.Warn("Failed to publish project mutation", "error", err)
	}
}
