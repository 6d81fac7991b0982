package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"gorm.io/datatypes"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

func jsonList(t *testing.T, values []string) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("marshal list: %v", err)
	}
	return datatypes.JSON(raw)
}

func newModelFixture(t *testing.T, terms []*types.GlossaryTerm) (SemanticModelService, *fakeGlossaryTermRepo, *fakeConceptGraph) {
	t.Helper()
	repo := &fakeGlossaryTermRepo{terms: terms}
	cg := &fakeConceptGraph{}
	svc := NewSemanticModelService(newTestDB(t), newTestLogger(t), repo, cg)
	return svc, repo, cg
}

func TestGroupedConceptsBucketsByTaxonomy(t *testing.T) {
	svc, _, cg := newModelFixture(t, []*types.GlossaryTerm{
		{IRI: "http://example.com/fibo#Loan", Kind: "class", TaxonomyName: "fibo"},
		{IRI: "http://example.com/fibo#Bond", Kind: "class", TaxonomyName: "fibo"},
		{IRI: "urn:local:Widget", Kind: "concept"},
	})

	grouped, err := svc.GroupedConcepts(context.Background())
	if err != nil {
		t.Fatalf("grouped: %v", err)
	}
	if len(grouped["fibo"]) != 2 {
		t.Fatalf("fibo bucket: want=2 got=%d", len(grouped["fibo"]))
	}
	if len(grouped["default"]) != 1 {
		t.Fatalf("default bucket: want=1 got=%d", len(grouped["default"]))
	}
	if grouped["default"][0].Label != "Widget" {
		t.Fatalf("label fallback: want=Widget got=%s", grouped["default"][0].Label)
	}
	if cg.synced != 1 {
		t.Fatalf("graph sync: want=1 got=%d", cg.synced)
	}
}

func TestHierarchyViewWalksBothDirections(t *testing.T) {
	svc, _, _ := newModelFixture(t, []*types.GlossaryTerm{
		{IRI: "ex:root", Kind: "class"},
		{IRI: "ex:mid", Kind: "class", ParentIRIs: jsonList(t, []string{"ex:root"})},
		{IRI: "ex:leaf", Kind: "class", ParentIRIs: jsonList(t, []string{"ex:mid"})},
		{IRI: "ex:leaf2", Kind: "class", ParentIRIs: jsonList(t, []string{"ex:mid"})},
	})

	view, err := svc.Hierarchy(context.Background(), "ex:leaf")
	if err != nil {
		t.Fatalf("hierarchy: %v", err)
	}
	if len(view.Ancestors) != 2 {
		t.Fatalf("ancestors: want=2 got=%d (%+v)", len(view.Ancestors), view.Ancestors)
	}
	if len(view.Siblings) != 1 || view.Siblings[0].IRI != "ex:leaf2" {
		t.Fatalf("siblings: want=[ex:leaf2] got=%+v", view.Siblings)
	}
	if len(view.Children) != 0 {
		t.Fatalf("children of leaf: want=0 got=%d", len(view.Children))
	}

	rootView, err := svc.Hierarchy(context.Background(), "ex:root")
	if err != nil {
		t.Fatalf("root hierarchy: %v", err)
	}
	if len(rootView.Descendants) != 3 {
		t.Fatalf("descendants of root: want=3 got=%d", len(rootView.Descendants))
	}
}

func TestHierarchyUnknownConcept(t *testing.T) {
	svc, _, _ := newModelFixture(t, []*types.GlossaryTerm{{IRI: "ex:a", Kind: "class"}})
	_, err := svc.Hierarchy(context.Background(), "ex:missing")
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("unknown concept: want=404 apierr got=%v", err)
	}
}

func TestInvalidateRebuildsIndex(t *testing.T) {
	svc, repo, cg := newModelFixture(t, []*types.GlossaryTerm{{IRI: "ex:a", Kind: "class"}})

	if _, err := svc.Roots(context.Background()); err != nil {
		t.Fatalf("first roots: %v", err)
	}
	if _, err := svc.Roots(context.Background()); err != nil {
		t.Fatalf("second roots: %v", err)
	}
	if cg.synced != 1 {
		t.Fatalf("cached reads must not resync: want=1 got=%d", cg.synced)
	}

	repo.terms = append(repo.terms, &types.GlossaryTerm{IRI: "ex:b", Kind: "class"})
	svc.Invalidate()

	roots, err := svc.Roots(context.Background())
	if err != nil {
		t.Fatalf("roots after invalidate: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("roots: want=2 got=%d", len(roots))
	}
	if cg.synced != 2 {
		t.Fatalf("invalidate must resync: want=2 got=%d", cg.synced)
	}
}

func TestQueryRequiresGraph(t *testing.T) {
	repo := &fakeGlossaryTermRepo{}
	svc := NewSemanticModelService(newTestDB(t), newTestLogger(t), repo, nil)
	_, err := svc.Query(context.Background(), "MATCH (c) RETURN c")
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("query without graph: want=503 apierr got=%v", err)
	}
}
