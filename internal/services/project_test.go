package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/clients/redis"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

func newProjectServiceForTest(t *testing.T) (ProjectService, *fakeProjectRepo, *fakeBus) {
	t.Helper()
	repo := newFakeProjectRepo()
	bus := &fakeBus{}
	svc := NewProjectService(newTestDB(t), newTestLogger(t), repo, &fakeAuditService{}, bus)
	return svc, repo, bus
}

func TestProjectCreateSetsOwnerFromContext(t *testing.T) {
	svc, _, bus := newProjectServiceForTest(t)
	userID := uuid.New()
	ctx := authedContext(userID, "owner@example.com", false)

	created, err := svc.Create(ctx, &types.Project{Title: "Churn Analysis"})
	if err != nil {
		t.Fatalf("create: want=nil got=%v", err)
	}
	if created.OwnerID != userID {
		t.Fatalf("owner: want=%s got=%s", userID, created.OwnerID)
	}
	if len(bus.events) != 1 || bus.events[0].Type != redis.EventEntityMutated {
		t.Fatalf("bus events: want=1 entity-mutated got=%v", bus.events)
	}
}

func TestProjectCreateDuplicateTitle(t *testing.T) {
	svc, _, _ := newProjectServiceForTest(t)
	ctx := authedContext(uuid.New(), "owner@example.com", false)

	if _, err := svc.Create(ctx, &types.Project{Title: "Churn Analysis"}); err != nil {
		t.Fatalf("first create: want=nil got=%v", err)
	}
	_, err := svc.Create(ctx, &types.Project{Title: "Churn Analysis"})
	if err == nil {
		t.Fatal("second create: want=error got=nil")
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type: want=apierr.Error got=%T", err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Fatalf("status: want=%d got=%d", http.StatusConflict, apiErr.Status)
	}
	if apiErr.Error() != "Project already exists" {
		t.Fatalf("message: want=%q got=%q", "Project already exists", apiErr.Error())
	}
}

func TestProjectCreateRequiresTitle(t *testing.T) {
	svc, _, _ := newProjectServiceForTest(t)
	ctx := authedContext(uuid.New(), "owner@example.com", false)

	_, err := svc.Create(ctx, &types.Project{Title: "   "})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("blank title: want=400 apierr got=%v", err)
	}
}

func TestProjectUpdateRejectsTakenTitle(t *testing.T) {
	svc, _, _ := newProjectServiceForTest(t)
	ctx := authedContext(uuid.New(), "owner@example.com", false)

	first, err := svc.Create(ctx, &types.Project{Title: "First"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := svc.Create(ctx, &types.Project{Title: "Second"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	first.Title = "Second"
	_, err = svc.Update(ctx, first)
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("rename onto taken title: want=409 apierr got=%v", err)
	}
}

func TestProjectGetMissing(t *testing.T) {
	svc, _, _ := newProjectServiceForTest(t)
	_, err := svc.GetByID(authedContext(uuid.New(), "a@b.c", false), uuid.New())
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("missing project: want=404 apierr got=%v", err)
	}
}
