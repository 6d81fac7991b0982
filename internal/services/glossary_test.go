package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type fakeSemanticLinkRepo struct {
	links map[uuid.UUID]*types.SemanticLink
}

func newFakeSemanticLinkRepo() *fakeSemanticLinkRepo {
	return &fakeSemanticLinkRepo{links: map[uuid.UUID]*types.SemanticLink{}}
}

func (f *fakeSemanticLinkRepo) Create(ctx context.Context, tx *gorm.DB, link *types.SemanticLink) (*types.SemanticLink, error) {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	f.links[link.ID] = link
	return link, nil
}

func (f *fakeSemanticLinkRepo) GetByID(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) (*types.SemanticLink, error) {
	return f.links[linkID], nil
}

func (f *fakeSemanticLinkRepo) ListByIRI(ctx context.Context, tx *gorm.DB, iri string) ([]*types.SemanticLink, error) {
	var out []*types.SemanticLink
	for _, l := range f.links {
		if l.IRI == iri {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeSemanticLinkRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType, entityID string) ([]*types.SemanticLink, error) {
	var out []*types.SemanticLink
	for _, l := range f.links {
		if l.EntityType == entityType && l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeSemanticLinkRepo) Delete(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) error {
	delete(f.links, linkID)
	return nil
}

// glossaryFixture shares one term repo between the glossary and model
// services, with no bus wired, the way a single-instance deployment runs.
type glossaryFixture struct {
	glossary GlossaryService
	model    SemanticModelService
	terms    *fakeGlossaryTermRepo
}

func newGlossaryFixture(t *testing.T) *glossaryFixture {
	t.Helper()
	terms := &fakeGlossaryTermRepo{}
	db := newTestDB(t)
	log := newTestLogger(t)
	model := NewSemanticModelService(db, log, terms, nil)
	glossary := NewGlossaryService(db, log, terms, &fakeAuditService{}, model, nil)
	return &glossaryFixture{glossary: glossary, model: model, terms: terms}
}

func TestGlossaryCreateRefreshesConceptIndex(t *testing.T) {
	f := newGlossaryFixture(t)
	ctx := authedContext(uuid.New(), "curator@example.com", false)

	if _, err := f.glossary.Create(ctx, &types.GlossaryTerm{IRI: "ex:first", Kind: "class"}); err != nil {
		t.Fatalf("create first: %v", err)
	}
	roots, err := f.model.Roots(ctx)
	if err != nil {
		t.Fatalf("warm index: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("warm roots: want=1 got=%d", len(roots))
	}

	if _, err := f.glossary.Create(ctx, &types.GlossaryTerm{IRI: "ex:second", Kind: "class"}); err != nil {
		t.Fatalf("create second: %v", err)
	}
	roots, err = f.model.Roots(ctx)
	if err != nil {
		t.Fatalf("re-read roots: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("roots after create without bus: want=2 got=%d", len(roots))
	}
}

func TestGlossaryDeleteRefreshesConceptIndex(t *testing.T) {
	f := newGlossaryFixture(t)
	ctx := authedContext(uuid.New(), "curator@example.com", false)

	created, err := f.glossary.Create(ctx, &types.GlossaryTerm{IRI: "ex:gone", Kind: "class"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.model.Roots(ctx); err != nil {
		t.Fatalf("warm index: %v", err)
	}

	if err := f.glossary.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	roots, err := f.model.Roots(ctx)
	if err != nil {
		t.Fatalf("roots after delete: %v", err)
	}
	if len(roots) != 0 {
		t.Fatalf("roots after delete without bus: want=0 got=%d", len(roots))
	}
}

func TestGlossaryCreateDuplicateIRI(t *testing.T) {
	f := newGlossaryFixture(t)
	ctx := authedContext(uuid.New(), "curator@example.com", false)

	if _, err := f.glossary.Create(ctx, &types.GlossaryTerm{IRI: "ex:dup"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := f.glossary.Create(ctx, &types.GlossaryTerm{IRI: "ex:dup"})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("duplicate IRI: want=409 apierr got=%v", err)
	}
}

func TestSemanticLinkCreateRefreshesConceptIndex(t *testing.T) {
	terms := &fakeGlossaryTermRepo{terms: []*types.GlossaryTerm{{ID: uuid.New(), IRI: "ex:term", Kind: "class"}}}
	db := newTestDB(t)
	log := newTestLogger(t)
	cg := &fakeConceptGraph{}
	model := NewSemanticModelService(db, log, terms, cg)
	links := NewSemanticLinkService(db, log, newFakeSemanticLinkRepo(), terms, &fakeAuditService{}, model, nil)
	ctx := authedContext(uuid.New(), "curator@example.com", false)

	if _, err := model.Roots(ctx); err != nil {
		t.Fatalf("warm index: %v", err)
	}
	if cg.synced != 1 {
		t.Fatalf("warm sync: want=1 got=%d", cg.synced)
	}

	if _, err := links.Create(ctx, &types.SemanticLink{IRI: "ex:term", EntityType: "project", EntityID: "p1"}); err != nil {
		t.Fatalf("create link: %v", err)
	}
	if _, err := model.Roots(ctx); err != nil {
		t.Fatalf("roots after link: %v", err)
	}
	if cg.synced != 2 {
		t.Fatalf("link mutation must drop the index snapshot: want=2 syncs got=%d", cg.synced)
	}
}
