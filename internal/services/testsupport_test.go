package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/larsgeorge/ontos-sub000/internal/clients/redis"
	"github.com/larsgeorge/ontos-sub000/internal/graph"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/ontology"
	"github.com/larsgeorge/ontos-sub000/internal/repos"
	"github.com/larsgeorge/ontos-sub000/internal/requestdata"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

// newTestDB opens an in-memory database used only for transaction plumbing;
// the fakes below hold the data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init test logger: %v", err)
	}
	return log
}

func authedContext(userID uuid.UUID, email string, isAdmin bool) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID:  userID,
		Email:   email,
		IsAdmin: isAdmin,
	})
}

type fakeAuditService struct {
	records []string
}

func (f *fakeAuditService) Record(ctx context.Context, tx *gorm.DB, action, entityType, entityID string, success bool, details map[string]any) {
	f.records = append(f.records, action+":"+entityType)
}

func (f *fakeAuditService) List(ctx context.Context, filter repos.AuditLogFilter) ([]*types.AuditLog, error) {
	return nil, nil
}

type fakeBus struct {
	events []redis.Event
}

func (f *fakeBus) Publish(ctx context.Context, event redis.Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeBus) StartForwarder(ctx context.Context, onEvent func(event redis.Event)) error {
	return nil
}

func (f *fakeBus) Close() error { return nil }

type fakeProjectRepo struct {
	projects map[uuid.UUID]*types.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[uuid.UUID]*types.Project{}}
}

// The fake copies records on the way in and out, like scanning rows does;
// callers must not observe each other's struct mutations.
func (f *fakeProjectRepo) Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error) {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	stored := *project
	f.projects[project.ID] = &stored
	return project, nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.Project, error) {
	stored, ok := f.projects[projectID]
	if !ok {
		return nil, nil
	}
	loaded := *stored
	return &loaded, nil
}

func (f *fakeProjectRepo) TitleExists(ctx context.Context, tx *gorm.DB, title string) (bool, error) {
	for _, p := range f.projects {
		if p.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProjectRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Project, error) {
	out := make([]*types.Project, 0, len(f.projects))
	for _, p := range f.projects {
		loaded := *p
		out = append(out, &loaded)
	}
	return out, nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, tx *gorm.DB, project *types.Project) error {
	stored := *project
	f.projects[project.ID] = &stored
	return nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	delete(f.projects, projectID)
	return nil
}

type fakeGlossaryTermRepo struct {
	terms []*types.GlossaryTerm
}

func (f *fakeGlossaryTermRepo) Create(ctx context.Context, tx *gorm.DB, term *types.GlossaryTerm) (*types.GlossaryTerm, error) {
	if term.ID == uuid.Nil {
		term.ID = uuid.New()
	}
	f.terms = append(f.terms, term)
	return term, nil
}

func (f *fakeGlossaryTermRepo) GetByID(ctx context.Context, tx *gorm.DB, termID uuid.UUID) (*types.GlossaryTerm, error) {
	for _, term := range f.terms {
		if term.ID == termID {
			return term, nil
		}
	}
	return nil, nil
}

func (f *fakeGlossaryTermRepo) GetByIRI(ctx context.Context, tx *gorm.DB, iri string) (*types.GlossaryTerm, error) {
	for _, term := range f.terms {
		if term.IRI == iri {
			return term, nil
		}
	}
	return nil, nil
}

func (f *fakeGlossaryTermRepo) IRIExists(ctx context.Context, tx *gorm.DB, iri string) (bool, error) {
	term, _ := f.GetByIRI(ctx, tx, iri)
	return term != nil, nil
}

func (f *fakeGlossaryTermRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.GlossaryTerm, error) {
	return f.terms, nil
}

func (f *fakeGlossaryTermRepo) Update(ctx context.Context, tx *gorm.DB, term *types.GlossaryTerm) error {
	for i, existing := range f.terms {
		if existing.ID == term.ID {
			f.terms[i] = term
		}
	}
	return nil
}

func (f *fakeGlossaryTermRepo) Delete(ctx context.Context, tx *gorm.DB, termID uuid.UUID) error {
	kept := f.terms[:0]
	for _, term := range f.terms {
		if term.ID != termID {
			kept = append(kept, term)
		}
	}
	f.terms = kept
	return nil
}

type fakeConceptGraph struct {
	synced    int
	neighbors []graph.Neighbor
}

func (f *fakeConceptGraph) SyncConcepts(ctx context.Context, concepts []*ontology.Concept) error {
	f.synced++
	return nil
}

func (f *fakeConceptGraph) Neighbors(ctx context.Context, iri string, limit int) ([]graph.Neighbor, error) {
	return f.neighbors, nil
}

func (f *fakeConceptGraph) RunReadQuery(ctx context.Context, query string) ([]map[string]any, error) {
	return []map[string]any{{"query": query}}, nil
}

type fakeUserRepo struct {
	users []*types.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	f.users = append(f.users, users...)
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, id := range userIDs {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, email := range userEmails {
			if u.Email == email {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error) {
	found, _ := f.GetByEmails(ctx, tx, []string{userEmail})
	return len(found) > 0, nil
}

func (f *fakeUserRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) ListAdmins(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		if u.IsAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeAccessRequestRepo struct {
	requests map[uuid.UUID]*types.AccessRequest
}

func newFakeAccessRequestRepo() *fakeAccessRequestRepo {
	return &fakeAccessRequestRepo{requests: map[uuid.UUID]*types.AccessRequest{}}
}

func (f *fakeAccessRequestRepo) Create(ctx context.Context, tx *gorm.DB, request *types.AccessRequest) (*types.AccessRequest, error) {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	f.requests[request.ID] = request
	return request, nil
}

func (f *fakeAccessRequestRepo) GetByID(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) (*types.AccessRequest, error) {
	return f.requests[requestID], nil
}

func (f *fakeAccessRequestRepo) List(ctx context.Context, tx *gorm.DB, status string) ([]*types.AccessRequest, error) {
	var out []*types.AccessRequest
	for _, r := range f.requests {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAccessRequestRepo) Update(ctx context.Context, tx *gorm.DB, request *types.AccessRequest) error {
	f.requests[request.ID] = request
	return nil
}

type fakeUserPermissionRepo struct {
	grants []*types.UserPermission
}

func (f *fakeUserPermissionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserPermission, error) {
	var out []*types.UserPermission
	for _, g := range f.grants {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeUserPermissionRepo) Upsert(ctx context.Context, tx *gorm.DB, grant *types.UserPermission) error {
	for i, existing := range f.grants {
		if existing.UserID == grant.UserID && existing.Feature == grant.Feature {
			f.grants[i] = grant
			return nil
		}
	}
	f.grants = append(f.grants, grant)
	return nil
}

func (f *fakeUserPermissionRepo) DeleteByUserFeature(ctx context.Context, tx *gorm.DB, userID uuid.UUID, feature string) error {
	kept := f.grants[:0]
	for _, g := range f.grants {
		if g.UserID != userID || g.Feature != feature {
			kept = append(kept, g)
		}
	}
	f.grants = kept
	return nil
}

type fakeNotificationRepo struct {
	notifications []*types.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, tx *gorm.DB, notifications []*types.Notification) error {
	f.notifications = append(f.notifications, notifications...)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, unreadOnly bool) ([]*types.Notification, error) {
	var out []*types.Notification
	for _, n := range f.notifications {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, notificationID, userID uuid.UUID) error {
	for _, n := range f.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}
