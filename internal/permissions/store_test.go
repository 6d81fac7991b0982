package permissions

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
)

type fakeLoader struct {
	mu        sync.Mutex
	perms     map[string]AccessLevel
	roles     []RoleProfile
	override  *uuid.UUID
	loadCalls int32
	saveCalls int32
	block     chan struct{} // when set, LoadPermissions waits on it
}

func (f *fakeLoader) LoadPermissions(ctx context.Context, userID uuid.UUID) (map[string]AccessLevel, error) {
	atomic.AddInt32(&f.loadCalls, 1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]AccessLevel, len(f.perms))
	for k, v := range f.perms {
		out[k] = v
	}
	return out, nil
}

func (f *fakeLoader) LoadRoles(ctx context.Context) ([]RoleProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RoleProfile(nil), f.roles...), nil
}

func (f *fakeLoader) LoadOverride(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.override == nil {
		return nil, nil
	}
	id := *f.override
	return &id, nil
}

func (f *fakeLoader) SaveOverride(ctx context.Context, userID uuid.UUID, roleID *uuid.UUID) error {
	atomic.AddInt32(&f.saveCalls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.override = roleID
	return nil
}

func testLog(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestHasPermissionUsesOwnMappingWithoutOverride(t *testing.T) {
	loader := &fakeLoader{perms: map[string]AccessLevel{FeatureTeams: LevelReadOnly}}
	store := NewStore(testLog(t), loader, uuid.New())
	if err := store.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("EnsureLoaded: %v", err)
	}
	if !store.HasPermission(FeatureTeams, LevelReadOnly) {
		t.Fatalf("read-only should satisfy read-only")
	}
	if store.HasPermission(FeatureTeams, LevelReadWrite) {
		t.Fatalf("read-only must not satisfy read-write")
	}
	if store.HasPermission(FeatureProjects, LevelReadOnly) {
		t.Fatalf("missing feature must default to none")
	}
}

func TestHasPermissionUsesOverrideRoleMapping(t *testing.T) {
	roleID := uuid.New()
	loader := &fakeLoader{
		perms: map[string]AccessLevel{FeatureTeams: LevelNone},
		roles: []RoleProfile{{
			ID:       roleID,
			Name:     "Data Steward",
			Features: map[string]AccessLevel{FeatureTeams: ParseLevel("READ_WRITE")},
		}},
	}
	store := NewStore(testLog(t), loader, uuid.New())
	if err := store.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("EnsureLoaded: %v", err)
	}

	if err := store.SetRoleOverride(context.Background(), &roleID); err != nil {
		t.Fatalf("SetRoleOverride: %v", err)
	}
	if !store.HasPermission(FeatureTeams, LevelReadWrite) {
		t.Fatalf("override role mapping should grant read-write on teams")
	}
	if store.HasPermission(FeatureProjects, LevelReadOnly) {
		t.Fatalf("feature absent from override role must default to none")
	}

	if err := store.SetRoleOverride(context.Background(), nil); err != nil {
		t.Fatalf("clear override: %v", err)
	}
	if store.HasPermission(FeatureTeams, LevelReadOnly) {
		t.Fatalf("after clearing override the user's own level (none) applies")
	}
	if got := atomic.LoadInt32(&loader.saveCalls); got != 2 {
		t.Fatalf("save calls: want=2 got=%d", got)
	}
}

func TestEnsureLoadedSkipsWhenAlreadyLoaded(t *testing.T) {
	loader := &fakeLoader{perms: map[string]AccessLevel{FeatureAudit: LevelAdmin}}
	store := NewStore(testLog(t), loader, uuid.New())
	for i := 0; i < 3; i++ {
		if err := store.EnsureLoaded(context.Background()); err != nil {
			t.Fatalf("EnsureLoaded #%d: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&loader.loadCalls); got != 1 {
		t.Fatalf("load calls: want=1 got=%d", got)
	}
}

func TestEnsureLoadedSkipsConcurrentDuplicate(t *testing.T) {
	loader := &fakeLoader{
		perms: map[string]AccessLevel{FeatureAudit: LevelAdmin},
		block: make(chan struct{}),
	}
	store := NewStore(testLog(t), loader, uuid.New())

	done := make(chan error, 1)
	go func() { done <- store.EnsureLoaded(context.Background()) }()

	// wait until the first load is in flight
	for atomic.LoadInt32(&loader.loadCalls) == 0 {
		runtime.Gosched()
	}
	// second call must be skipped, not queued
	if err := store.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("duplicate EnsureLoaded: %v", err)
	}
	close(loader.block)
	if err := <-done; err != nil {
		t.Fatalf("first EnsureLoaded: %v", err)
	}
	if got := atomic.LoadInt32(&loader.loadCalls); got != 1 {
		t.Fatalf("load calls: want=1 got=%d", got)
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	loader := &fakeLoader{perms: map[string]AccessLevel{FeatureTeams: LevelReadOnly}}
	store := NewStore(testLog(t), loader, uuid.New())
	if err := store.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("EnsureLoaded: %v", err)
	}
	loader.mu.Lock()
	loader.perms[FeatureTeams] = LevelAdmin
	loader.mu.Unlock()

	store.Invalidate()
	if err := store.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("EnsureLoaded after invalidate: %v", err)
	}
	if !store.HasPermission(FeatureTeams, LevelAdmin) {
		t.Fatalf("reload should pick up new level")
	}
}

func TestStaleLoadCannotClobberNewerOverride(t *testing.T) {
	roleID := uuid.New()
	loader := &fakeLoader{
		perms: map[string]AccessLevel{FeatureTeams: LevelNone},
		roles: []RoleProfile{{ID: roleID, Features: map[string]AccessLevel{FeatureTeams: LevelAdmin}}},
	}
	store := NewStore(testLog(t), loader, uuid.New())
	if err := store.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("EnsureLoaded: %v", err)
	}

	// a load captured before the override must be discarded on apply
	staleGen := store.generation
	if err := store.SetRoleOverride(context.Background(), &roleID); err != nil {
		t.Fatalf("SetRoleOverride: %v", err)
	}
	if err := store.load(context.Background(), staleGen); err != nil {
		t.Fatalf("stale load: %v", err)
	}
	applied := store.AppliedOverride()
	if applied == nil || *applied != roleID {
		t.Fatalf("override lost to stale load: got=%v", applied)
	}
}

func TestParseLevelAndOrdering(t *testing.T) {
	if ParseLevel("READ_WRITE") != LevelReadWrite {
		t.Fatalf("READ_WRITE should parse as read-write")
	}
	if ParseLevel("garbage") != LevelNone {
		t.Fatalf("unknown level should parse as none")
	}
	order := []AccessLevel{LevelNone, LevelReadOnly, LevelReadWrite, LevelAdmin}
	for i := 1; i < len(order); i++ {
		if !order[i].Allows(order[i-1]) {
			t.Fatalf("%v should allow %v", order[i], order[i-1])
		}
		if order[i-1].Allows(order[i]) {
			t.Fatalf("%v must not allow %v", order[i-1], order[i])
		}
	}
}
