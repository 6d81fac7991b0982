package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type fakeEntityNoteRepo struct {
	notes map[string]*types.EntityNote
}

func newFakeEntityNoteRepo() *fakeEntityNoteRepo {
	return &fakeEntityNoteRepo{notes: map[string]*types.EntityNote{}}
}

func (f *fakeEntityNoteRepo) Upsert(ctx context.Context, tx *gorm.DB, note *types.EntityNote) error {
	f.notes[note.EntityType+"/"+note.EntityID] = note
	return nil
}

func (f *fakeEntityNoteRepo) GetByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) (*types.EntityNote, error) {
	return f.notes[entityType+"/"+entityID], nil
}

type fakeEntityLinkRepo struct {
	links map[uuid.UUID]*types.EntityLink
}

func newFakeEntityLinkRepo() *fakeEntityLinkRepo {
	return &fakeEntityLinkRepo{links: map[uuid.UUID]*types.EntityLink{}}
}

func (f *fakeEntityLinkRepo) Create(ctx context.Context, tx *gorm.DB, link *types.EntityLink) (*types.EntityLink, error) {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	f.links[link.ID] = link
	return link, nil
}

func (f *fakeEntityLinkRepo) GetByID(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) (*types.EntityLink, error) {
	return f.links[linkID], nil
}

func (f *fakeEntityLinkRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.EntityLink, error) {
	var out []*types.EntityLink
	for _, l := range f.links {
		if l.EntityType == entityType && l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeEntityLinkRepo) Delete(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) error {
	delete(f.links, linkID)
	return nil
}

type fakeEntityDocumentRepo struct {
	docs map[uuid.UUID]*types.EntityDocument
}

func newFakeEntityDocumentRepo() *fakeEntityDocumentRepo {
	return &fakeEntityDocumentRepo{docs: map[uuid.UUID]*types.EntityDocument{}}
}

func (f *fakeEntityDocumentRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.EntityDocument) (*types.EntityDocument, error) {
	f.docs[doc.ID] = doc
	return doc, nil
}

func (f *fakeEntityDocumentRepo) GetByID(ctx context.Context, tx *gorm.DB, docID uuid.UUID) (*types.EntityDocument, error) {
	return f.docs[docID], nil
}

func (f *fakeEntityDocumentRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.EntityDocument, error) {
	var out []*types.EntityDocument
	for _, d := range f.docs {
		if d.EntityType == entityType && d.EntityID == entityID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeEntityDocumentRepo) Delete(ctx context.Context, tx *gorm.DB, docID uuid.UUID) error {
	delete(f.docs, docID)
	return nil
}

func newExtrasFixture(t *testing.T) (EntityExtrasService, *fakeEntityLinkRepo) {
	t.Helper()
	linkRepo := newFakeEntityLinkRepo()
	svc := NewEntityExtrasService(
		newTestDB(t), newTestLogger(t),
		newFakeEntityNoteRepo(), linkRepo, newFakeEntityDocumentRepo(),
		nil, &fakeAuditService{},
	)
	return svc, linkRepo
}

func TestAddLinkValidatesURL(t *testing.T) {
	svc, _ := newExtrasFixture(t)
	ctx := authedContext(uuid.New(), "user@example.com", false)

	for _, bad := range []string{"", "not a url", "/relative/path", "example.com/no-scheme"} {
		_, err := svc.AddLink(ctx, "project", uuid.NewString(), bad, "")
		var apiErr *apierr.Error
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
			t.Fatalf("url %q: want=400 apierr got=%v", bad, err)
		}
	}

	link, err := svc.AddLink(ctx, "project", "p1", "https://wiki.example.com/page", "Runbook")
	if err != nil {
		t.Fatalf("valid link: %v", err)
	}
	if link.Title != "Runbook" || link.CreatedBy == uuid.Nil {
		t.Fatalf("link: got=%+v", link)
	}
}

func TestAddLinkRequiresAuth(t *testing.T) {
	svc, _ := newExtrasFixture(t)
	_, err := svc.AddLink(context.Background(), "project", "p1", "https://example.com", "")
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("anonymous link: want=401 apierr got=%v", err)
	}
}

func TestDeleteLinkMissing(t *testing.T) {
	svc, _ := newExtrasFixture(t)
	ctx := authedContext(uuid.New(), "user@example.com", false)
	err := svc.DeleteLink(ctx, uuid.New())
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("missing link: want=404 apierr got=%v", err)
	}
}

func TestUploadDocumentWithoutBucket(t *testing.T) {
	svc, _ := newExtrasFixture(t)
	ctx := authedContext(uuid.New(), "user@example.com", false)
	_, err := svc.UploadDocument(ctx, "project", "p1", "report.pdf", "application/pdf", 4, strings.NewReader("data"))
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("upload without bucket: want=503 apierr got=%v", err)
	}
}
