package permissions

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
)

// RoleProfile is a role with its own feature->level mapping, usable as an
// override profile.
type RoleProfile struct {
	ID       uuid.UUID              `json:"id"`
	Name     string                 `json:"name"`
	Features map[string]AccessLevel `json:"features"`
}

// Loader fetches the three permission sources for one user. Implementations
// live in the services layer.
type Loader interface {
	LoadPermissions(ctx context.Context, userID uuid.UUID) (map[string]AccessLevel, error)
	LoadRoles(ctx context.Context) ([]RoleProfile, error)
	LoadOverride(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
	SaveOverride(ctx context.Context, userID uuid.UUID, roleID *uuid.UUID) error
}

// Store holds one user's effective feature-access levels plus an optional
// admin-selected role override. Loading is guarded by an in-flight flag:
// duplicate concurrent loads are skipped, not coalesced, matching the
// load-once contract. A generation counter keeps a reload that lost the race
// against a newer override from clobbering it.
type Store struct {
	mu         sync.Mutex
	log        *logger.Logger
	loader     Loader
	userID     uuid.UUID
	perms      map[string]AccessLevel
	roles      []RoleProfile
	override   *uuid.UUID
	loading    bool
	generation uint64
}

func NewStore(log *logger.Logger, loader Loader, userID uuid.UUID) *Store {
	return &Store{
		log:    log.With("store", "PermissionStore", "user_id", userID),
		loader: loader,
		userID: userID,
	}
}

// EnsureLoaded performs the guarded one-shot load of permissions, roles and
// the persisted override. It returns immediately when a load is in flight or
// state is already populated.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	if s.loading || s.loadedLocked() {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	startGen := s.generation
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	return s.load(ctx, startGen)
}

// Refresh forces a reload regardless of current state (still single-flight
// against itself via the loading flag).
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	startGen := s.generation
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	return s.load(ctx, startGen)
}

// Invalidate drops cached state so the next EnsureLoaded reloads.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.perms = nil
	s.roles = nil
	s.override = nil
	s.generation++
}

func (s *Store) loadedLocked() bool {
	return len(s.perms) > 0 || len(s.roles) > 0
}

// load fetches the three sources in parallel and applies the result only if
// no newer mutation happened while the fetches were in flight.
func (s *Store) load(ctx context.Context, startGen uint64) error {
	var (
		perms    map[string]AccessLevel
		roles    []RoleProfile
		override *uuid.UUID
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		perms, err = s.loader.LoadPermissions(gctx, s.userID)
		return err
	})
	g.Go(func() error {
		var err error
		roles, err = s.loader.LoadRoles(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		override, err = s.loader.LoadOverride(gctx, s.userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != startGen {
		s.log.Debug("Discarding stale permission load", "start_gen", startGen, "current_gen", s.generation)
		return nil
	}
	s.perms = perms
	s.roles = roles
	s.override = override
	return nil
}

// HasPermission resolves the effective level for a feature: the override
// role's mapping when an override is applied (missing feature means none),
// otherwise the user's own mapping (missing means none).
func (s *Store) HasPermission(feature string, required AccessLevel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveLevelLocked(feature).Allows(required)
}

// EffectiveLevel exposes the resolved level for rendering.
func (s *Store) EffectiveLevel(feature string) AccessLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveLevelLocked(feature)
}

func (s *Store) effectiveLevelLocked(feature string) AccessLevel {
	if s.override != nil {
		for _, role := range s.roles {
			if role.ID == *s.override {
				return role.Features[feature]
			}
		}
		return LevelNone
	}
	return s.perms[feature]
}

// SetRoleOverride applies the override locally first, persists it, then
// reloads all three sources to reconcile. The local update bumps the
// generation so a concurrent stale load cannot overwrite it.
func (s *Store) SetRoleOverride(ctx context.Context, roleID *uuid.UUID) error {
	s.mu.Lock()
	s.override = roleID
	s.generation++
	startGen := s.generation
	s.mu.Unlock()

	if err := s.loader.SaveOverride(ctx, s.userID, roleID); err != nil {
		return err
	}
	return s.load(ctx, startGen)
}

func (s *Store) AppliedOverride() *uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.override == nil {
		return nil
	}
	id := *s.override
	return &id
}

func (s *Store) Roles() []RoleProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RoleProfile, len(s.roles))
	copy(out, s.roles)
	return out
}

func (s *Store) Permissions() map[string]AccessLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]AccessLevel, len(s.perms))
	for k, v := range s.perms {
		out[k] = v
	}
	return out
}
