package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/permissions"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type accessRequestFixture struct {
	svc           AccessRequestService
	requestRepo   *fakeAccessRequestRepo
	grantRepo     *fakeUserPermissionRepo
	userRepo      *fakeUserRepo
	notifications *fakeNotificationRepo
}

func newAccessRequestFixture(t *testing.T) *accessRequestFixture {
	t.Helper()
	f := &accessRequestFixture{
		requestRepo:   newFakeAccessRequestRepo(),
		grantRepo:     &fakeUserPermissionRepo{},
		userRepo:      &fakeUserRepo{},
		notifications: &fakeNotificationRepo{},
	}
	f.svc = NewAccessRequestService(
		newTestDB(t), newTestLogger(t),
		f.requestRepo, f.grantRepo, f.userRepo, f.notifications,
		&fakeAuditService{}, nil,
	)
	return f
}

func TestSubmitRejectsShortMessage(t *testing.T) {
	f := newAccessRequestFixture(t)
	ctx := authedContext(uuid.New(), "user@example.com", false)

	_, err := f.svc.Submit(ctx, permissions.FeatureDataContracts, "read-write", "too short")
	if err == nil {
		t.Fatal("short message: want=error got=nil")
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type: want=apierr.Error got=%T", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d", http.StatusBadRequest, apiErr.Status)
	}
	if apiErr.Error() != "message must be at least 10 characters" {
		t.Fatalf("message: got=%q", apiErr.Error())
	}
}

func TestSubmitAcceptsTenCharMessage(t *testing.T) {
	f := newAccessRequestFixture(t)
	ctx := authedContext(uuid.New(), "user@example.com", false)

	created, err := f.svc.Submit(ctx, permissions.FeatureDataContracts, "READ_WRITE", "1234567890")
	if err != nil {
		t.Fatalf("submit: want=nil got=%v", err)
	}
	if created.Status != types.AccessRequestPending {
		t.Fatalf("status: want=pending got=%s", created.Status)
	}
	if created.Level != "read-write" {
		t.Fatalf("level normalization: want=read-write got=%s", created.Level)
	}
}

func TestSubmitNotifiesAdmins(t *testing.T) {
	f := newAccessRequestFixture(t)
	admin := &types.User{ID: uuid.New(), Email: "admin@example.com", IsAdmin: true}
	regular := &types.User{ID: uuid.New(), Email: "user2@example.com"}
	f.userRepo.users = []*types.User{admin, regular}

	ctx := authedContext(uuid.New(), "user@example.com", false)
	if _, err := f.svc.Submit(ctx, permissions.FeatureTeams, "read-only", "please let me see the teams"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(f.notifications.notifications) != 1 {
		t.Fatalf("notifications: want=1 got=%d", len(f.notifications.notifications))
	}
	if f.notifications.notifications[0].UserID != admin.ID {
		t.Fatalf("notification target: want=admin got=%s", f.notifications.notifications[0].UserID)
	}
}

func TestApproveGrantsPermission(t *testing.T) {
	f := newAccessRequestFixture(t)
	requester := uuid.New()
	ctx := authedContext(requester, "user@example.com", false)

	created, err := f.svc.Submit(ctx, permissions.FeatureGlossary, "read-write", "need to curate glossary terms")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	adminCtx := authedContext(uuid.New(), "admin@example.com", true)
	decided, err := f.svc.Approve(adminCtx, created.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if decided.Status != types.AccessRequestApproved {
		t.Fatalf("status: want=approved got=%s", decided.Status)
	}
	grants, _ := f.grantRepo.ListByUser(adminCtx, nil, requester)
	if len(grants) != 1 || grants[0].Feature != permissions.FeatureGlossary || grants[0].Level != "read-write" {
		t.Fatalf("grant: want one read-write glossary grant got=%+v", grants)
	}
	// The requester gets a decision notification.
	got, _ := f.notifications.ListByUser(adminCtx, nil, requester, false)
	if len(got) != 1 {
		t.Fatalf("requester notifications: want=1 got=%d", len(got))
	}
}

func TestDecideTwiceFails(t *testing.T) {
	f := newAccessRequestFixture(t)
	ctx := authedContext(uuid.New(), "user@example.com", false)
	created, err := f.svc.Submit(ctx, permissions.FeatureAudit, "read-only", "auditors need this trail")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	adminCtx := authedContext(uuid.New(), "admin@example.com", true)
	if _, err := f.svc.Deny(adminCtx, created.ID); err != nil {
		t.Fatalf("deny: %v", err)
	}
	_, err = f.svc.Approve(adminCtx, created.ID)
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("second decision: want=409 apierr got=%v", err)
	}
	grants, _ := f.grantRepo.ListByUser(adminCtx, nil, created.RequesterID)
	if len(grants) != 0 {
		t.Fatalf("denied request must not grant: got=%+v", grants)
	}
}
