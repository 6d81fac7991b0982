package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/clients/redis"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/permissions"
	"github.com/larsgeorge/ontos-sub000/internal/repos"
	"github.com/larsgeorge/ontos-sub000/internal/requestdata"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

// PermissionService owns per-user permission snapshots. Each user gets one
// permissions.Store, built lazily and invalidated on role or override changes
// broadcast over the catalog bus.
type PermissionService interface {
	StoreFor(ctx context.Context, userID uuid.UUID) (*permissions.Store, error)
	HasPermission(ctx context.Context, userID uuid.UUID, feature string, required permissions.AccessLevel) (bool, error)
	SetRoleOverride(ctx context.Context, userID uuid.UUID, roleID *uuid.UUID) error
	InvalidateUser(userID uuid.UUID)
	InvalidateAll()
	SeedRolesFromFile(ctx context.Context, path string) error

	permissions.Loader
}

type permissionService struct {
	db           *gorm.DB
	log          *logger.Logger
	roleRepo     repos.RoleRepo
	overrideRepo repos.RoleOverrideRepo
	grantRepo    repos.UserPermissionRepo
	userRepo     repos.UserRepo
	auditService AuditService
	bus          redis.CatalogBus

	mu     sync.Mutex
	stores map[uuid.UUID]*permissions.Store
}

func NewPermissionService(
	db *gorm.DB,
	log *logger.Logger,
	roleRepo repos.RoleRepo,
	overrideRepo repos.RoleOverrideRepo,
	grantRepo repos.UserPermissionRepo,
	userRepo repos.UserRepo,
	auditService AuditService,
	bus redis.CatalogBus,
) PermissionService {
	return &permissionService{
		db:           db,
		log:          log.With("service", "PermissionService"),
		roleRepo:     roleRepo,
		overrideRepo: overrideRepo,
		grantRepo:    grantRepo,
		userRepo:     userRepo,
		auditService: auditService,
		bus:          bus,
		stores:       make(map[uuid.UUID]*permissions.Store),
	}
}

func (ps *permissionService) StoreFor(ctx context.Context, userID uuid.UUID) (*permissions.Store, error) {
	ps.mu.Lock()
	store, ok := ps.stores[userID]
	if !ok {
		store = permissions.NewStore(ps.log, ps, userID)
		ps.stores[userID] = store
	}
	ps.mu.Unlock()

	if err := store.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (ps *permissionService) HasPermission(ctx context.Context, userID uuid.UUID, feature string, required permissions.AccessLevel) (bool, error) {
	// Admins bypass feature checks entirely unless they applied a role
	// override, in which case the override's levels govern.
	if rd := requestdata.GetRequestData(ctx); rd != nil && rd.IsAdmin && rd.UserID == userID {
		store, err := ps.StoreFor(ctx, userID)
		if err != nil {
			return false, err
		}
		if store.AppliedOverride() == nil {
			return true, nil
		}
		return store.HasPermission(feature, required), nil
	}

	store, err := ps.StoreFor(ctx, userID)
	if err != nil {
		return false, err
	}
	return store.HasPermission(feature, required), nil
}

func (ps *permissionService) SetRoleOverride(ctx context.Context, userID uuid.UUID, roleID *uuid.UUID) error {
	if roleID != nil {
		role, err := ps.roleRepo.GetByID(ctx, nil, *roleID)
		if err != nil {
			return err
		}
		if role == nil {
			return apierr.Newf(http.StatusNotFound, "role_not_found", "role %s not found", *roleID)
		}
	}

	store, err := ps.StoreFor(ctx, userID)
	if err != nil {
		return err
	}
	if err := store.SetRoleOverride(ctx, roleID); err != nil {
		return err
	}

	details := map[string]any{}
	if roleID != nil {
		details["role_id"] = roleID.String()
	} else {
		details["cleared"] = true
	}
	ps.auditService.Record(ctx, nil, "role-override", "user", userID.String(), true, details)

	if ps.bus != nil {
		if err := ps.bus.Publish(ctx, redis.Event{
			Type:   redis.EventRoleOverrideChanged,
			UserID: userID.String(),
		}); err != nil {
			ps.log.Warn("Failed to publish role override change", "error", err)
		}
	}
	return nil
}

func (ps *permissionService) InvalidateUser(userID uuid.UUID) {
	ps.mu.Lock()
	store, ok := ps.stores[userID]
	ps.mu.Unlock()
	if ok {
		store.Invalidate()
	}
}

func (ps *permissionService) InvalidateAll() {
	ps.mu.Lock()
	stores := make([]*permissions.Store, 0, len(ps.stores))
	for _, store := range ps.stores {
		stores = append(stores, store)
	}
	ps.mu.Unlock()
	for _, store := range stores {
		store.Invalidate()
	}
}

// LoadPermissions implements permissions.Loader from per-user grants.
func (ps *permissionService) LoadPermissions(ctx context.Context, userID uuid.UUID) (map[string]permissions.AccessLevel, error) {
	grants, err := ps.grantRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user grants: %w", err)
	}
	out := make(map[string]permissions.AccessLevel, len(grants))
	for _, grant := range grants {
		out[grant.Feature] = permissions.ParseLevel(grant.Level)
	}
	return out, nil
}

func (ps *permissionService) LoadRoles(ctx context.Context) ([]permissions.RoleProfile, error) {
	roles, err := ps.roleRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	out := make([]permissions.RoleProfile, 0, len(roles))
	for _, role := range roles {
		features := map[string]string{}
		if len(role.FeaturePermissions) > 0 {
			if err := json.Unmarshal(role.FeaturePermissions, &features); err != nil {
				ps.log.Warn("Skipping role with malformed feature permissions", "role", role.Name, "error", err)
				continue
			}
		}
		profile := permissions.RoleProfile{
			ID:       role.ID,
			Name:     role.Name,
			Features: make(map[string]permissions.AccessLevel, len(features)),
		}
		for feature, level := range features {
			profile.Features[feature] = permissions.ParseLevel(level)
		}
		out = append(out, profile)
	}
	return out, nil
}

func (ps *permissionService) LoadOverride(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	override, err := ps.overrideRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load role override: %w", err)
	}
	if override == nil {
		return nil, nil
	}
	roleID := override.RoleID
	return &roleID, nil
}

func (ps *permissionService) SaveOverride(ctx context.Context, userID uuid.UUID, roleID *uuid.UUID) error {
	if roleID == nil {
		return ps.overrideRepo.DeleteByUserID(ctx, nil, userID)
	}
	return ps.overrideRepo.Upsert(ctx, nil, userID, *roleID)
}

// roleSeedFile is the YAML shape of a role definitions file.
type roleSeedFile struct {
	Roles []struct {
		Name        string            `yaml:"name"`
		Description string            `yaml:"description"`
		Features    map[string]string `yaml:"features"`
	} `yaml:"roles"`
}

// SeedRolesFromFile creates any roles from the YAML definitions file that do
// not exist yet. Existing roles are left untouched so admin edits survive
// restarts.
func (ps *permissionService) SeedRolesFromFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read role definitions: %w", err)
	}
	var seed roleSeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse role definitions: %w", err)
	}

	for _, def := range seed.Roles {
		existing, err := ps.roleRepo.GetByName(ctx, nil, def.Name)
		if err != nil {
			return fmt.Errorf("look up role %q: %w", def.Name, err)
		}
		if existing != nil {
			continue
		}
		featureJSON, err := json.Marshal(def.Features)
		if err != nil {
			return fmt.Errorf("encode features for role %q: %w", def.Name, err)
		}
		if _, err := ps.roleRepo.Create(ctx, nil, &types.Role{
			Name:               def.Name,
			Description:        def.Description,
			FeaturePermissions: datatypes.JSON(featureJSON),
			Builtin:            true,
		}); err != nil {
			return fmt.Errorf("seed role %q: %w", def.Name, err)
		}
		ps.log.Info("Seeded builtin role", "role", def.Name)
	}
	return nil
}
