package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/clients/redis"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/permissions"
	"github.com/larsgeorge/ontos-sub000/internal/repos"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

// SettingsService manages application role profiles.
type SettingsService interface {
	ListRoles(ctx context.Context) ([]*types.Role, error)
	CreateRole(ctx context.Context, role *types.Role) (*types.Role, error)
	UpdateRole(ctx context.Context, role *types.Role) (*types.Role, error)
	DeleteRole(ctx context.Context, roleID uuid.UUID) error
}

type settingsService struct {
	db                *gorm.DB
	log               *logger.Logger
	roleRepo          repos.RoleRepo
	auditService      AuditService
	permissionService PermissionService
	bus               redis.CatalogBus
}

func NewSettingsService(
	db *gorm.DB,
	log *logger.Logger,
	roleRepo repos.RoleRepo,
	auditService AuditService,
	permissionService PermissionService,
	bus redis.CatalogBus,
) SettingsService {
	return &settingsService{
		db:                db,
		log:               log.With("service", "SettingsService"),
		roleRepo:          roleRepo,
		auditService:      auditService,
		permissionService: permissionService,
		bus:               bus,
	}
}

func (ss *settingsService) ListRoles(ctx context.Context) ([]*types.Role, error) {
	return ss.roleRepo.List(ctx, nil)
}

func (ss *settingsService) CreateRole(ctx context.Context, role *types.Role) (*types.Role, error) {
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_name", "a role name is required")
	}
	if err := validateFeaturePermissions(role.FeaturePermissions); err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_permissions", err)
	}
	existing, err := ss.roleRepo.GetByName(ctx, nil, role.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierr.Newf(http.StatusConflict, "duplicate_role", "a role named %q already exists", role.Name)
	}
	role.Builtin = false

	var created *types.Role
	txErr := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err = ss.roleRepo.Create(ctx, tx, role)
		if err != nil {
			return fmt.Errorf("create role: %w", err)
		}
		ss.auditService.Record(ctx, tx, "create", "role", created.ID.String(), true, map[string]any{"name": created.Name})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	ss.rolesChanged(ctx)
	return created, nil
}

func (ss *settingsService) UpdateRole(ctx context.Context, role *types.Role) (*types.Role, error) {
	existing, err := ss.roleRepo.GetByID(ctx, nil, role.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierr.Newf(http.StatusNotFound, "role_not_found", "role %s not found", role.ID)
	}
	if err := validateFeaturePermissions(role.FeaturePermissions); err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_permissions", err)
	}
	// Builtin roles keep their names so the seeding pass can find them.
	if existing.Builtin {
		role.Name = existing.Name
	}
	role.Builtin = existing.Builtin

	txErr := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ss.roleRepo.Update(ctx, tx, role); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		ss.auditService.Record(ctx, tx, "update", "role", role.ID.String(), true, map[string]any{"name": role.Name})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	ss.rolesChanged(ctx)
	return role, nil
}

func (ss *settingsService) DeleteRole(ctx context.Context, roleID uuid.UUID) error {
	existing, err := ss.roleRepo.GetByID(ctx, nil, roleID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apierr.Newf(http.StatusNotFound, "role_not_found", "role %s not found", roleID)
	}
	if existing.Builtin {
		return apierr.Newf(http.StatusConflict, "builtin_role", "builtin roles cannot be deleted")
	}

	txErr := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ss.roleRepo.Delete(ctx, tx, roleID); err != nil {
			return fmt.Errorf("delete role: %w", err)
		}
		ss.auditService.Record(ctx, tx, "delete", "role", roleID.String(), true, map[string]any{"name": existing.Name})
		return nil
	})
	if txErr != nil {
		return txErr
	}
	ss.rolesChanged(ctx)
	return nil
}

func (ss *settingsService) rolesChanged(ctx context.Context) {
	if ss.permissionService != nil {
		ss.permissionService.InvalidateAll()
	}
	if ss.bus != nil {
		if err := ss.bus.Publish(ctx, redis.Event{Type: redis.EventRolesChanged}); err != nil {
			ss.log.Warn("Failed to publish roles change", "error", err)
		}
	}
}

func validateFeaturePermissions(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	features := map[string]string{}
	if err := json.Unmarshal(raw, &features); err != nil {
		return fmt.Errorf("feature permissions must be a string map: %w", err)
	}
	for feature, level := range features {
		if permissions.ParseLevel(level) == permissions.LevelNone && !strings.EqualFold(strings.TrimSpace(level), "none") {
			return fmt.Errorf("unknown access level %q for feature %q", level, feature)
		}
	}
	return nil
}
