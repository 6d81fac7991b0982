package ontology

import (
	"reflect"
	"testing"
)

func concept(iri string, parents ...string) *Concept {
	return &Concept{IRI: iri, Kind: KindConcept, ParentIRIs: parents}
}

func TestBuildIndexEmptyInput(t *testing.T) {
	ix := BuildIndex(nil)
	if ix.Len() != 0 {
		t.Fatalf("len: want=0 got=%d", ix.Len())
	}
	if roots := ix.Roots(); len(roots) != 0 {
		t.Fatalf("roots: want empty got=%v", roots)
	}
	if kids := ix.ChildrenOf("http://ex.org/ns#A"); kids != nil {
		t.Fatalf("children of unknown: want nil got=%v", kids)
	}
}

func TestBuildIndexFiltersExcludedKinds(t *testing.T) {
	concepts := []*Concept{
		{IRI: "ex:scheme", Kind: KindConceptScheme},
		{IRI: "ex:ind", Kind: KindIndividual, ParentIRIs: []string{"ex:a"}},
		concept("ex:a"),
		// references a filtered-out parent, so it becomes its own root
		concept("ex:b", "ex:scheme"),
	}
	ix := BuildIndex(concepts)
	if ix.Len() != 2 {
		t.Fatalf("len: want=2 got=%d", ix.Len())
	}
	if _, ok := ix.Get("ex:scheme"); ok {
		t.Fatalf("concept-scheme must not be indexed")
	}
	roots := ix.Roots()
	if !reflect.DeepEqual(roots, []string{"ex:a", "ex:b"}) {
		t.Fatalf("roots: want=[ex:a ex:b] got=%v", roots)
	}
	// the filtered individual must not appear as a child of ex:a
	if kids := ix.ChildrenOf("ex:a"); kids != nil {
		t.Fatalf("children of ex:a: want nil got=%v", kids)
	}
}

func TestRootsOnlyFromInputAndAllReachable(t *testing.T) {
	concepts := []*Concept{
		concept("ex:root"),
		concept("ex:mid", "ex:root"),
		concept("ex:leaf", "ex:mid"),
		concept("ex:orphan", "ex:missing-parent"),
	}
	ix := BuildIndex(concepts)

	roots := ix.Roots()
	for _, r := range roots {
		if _, ok := ix.Get(r); !ok {
			t.Fatalf("root %q not in input", r)
		}
	}

	reachable := map[string]bool{}
	queue := append([]string(nil), roots...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if reachable[current] {
			continue
		}
		reachable[current] = true
		queue = append(queue, ix.ChildrenOf(current)...)
	}
	for _, iri := range ix.IRIs() {
		if !reachable[iri] {
			t.Fatalf("concept %q not reachable from any root", iri)
		}
	}
}

func TestBuildIndexIdempotent(t *testing.T) {
	concepts := []*Concept{
		concept("ex:a"),
		concept("ex:b", "ex:a"),
		concept("ex:c", "ex:a", "ex:b"),
	}
	first := BuildIndex(concepts)
	second := BuildIndex(concepts)
	if !reflect.DeepEqual(first.children, second.children) {
		t.Fatalf("adjacency differs between builds: %v vs %v", first.children, second.children)
	}
	if !reflect.DeepEqual(first.order, second.order) {
		t.Fatalf("order differs between builds: %v vs %v", first.order, second.order)
	}
}

func TestChildEdgesDeduplicated(t *testing.T) {
	// the same parent declared twice must not double the edge
	c := concept("ex:child", "ex:parent", "ex:parent")
	ix := BuildIndex([]*Concept{concept("ex:parent"), c})
	kids := ix.ChildrenOf("ex:parent")
	if !reflect.DeepEqual(kids, []string{"ex:child"}) {
		t.Fatalf("children: want=[ex:child] got=%v", kids)
	}
}

func TestAncestorsOfTerminatesOnCycle(t *testing.T) {
	a := concept("ex:a", "ex:b")
	b := concept("ex:b", "ex:a")
	ix := BuildIndex([]*Concept{a, b})

	ancestors := ix.AncestorsOf("ex:a")
	if len(ancestors) != 2 {
		t.Fatalf("ancestors of ex:a: want 2 entries got=%v", ancestors)
	}
	got := map[string]bool{}
	for _, iri := range ancestors {
		got[iri] = true
	}
	if !got["ex:a"] || !got["ex:b"] {
		t.Fatalf("ancestors of ex:a: want {ex:a ex:b} got=%v", ancestors)
	}
}

func TestAncestorsOfExcludesStartWithoutCycle(t *testing.T) {
	concepts := []*Concept{
		concept("ex:grand"),
		concept("ex:parent", "ex:grand"),
		concept("ex:child", "ex:parent"),
	}
	ix := BuildIndex(concepts)
	ancestors := ix.AncestorsOf("ex:child")
	if !reflect.DeepEqual(ancestors, []string{"ex:parent", "ex:grand"}) {
		t.Fatalf("ancestors: want=[ex:parent ex:grand] got=%v", ancestors)
	}
}

func TestDescendantsAndSiblings(t *testing.T) {
	concepts := []*Concept{
		concept("ex:root"),
		concept("ex:a", "ex:root"),
		concept("ex:b", "ex:root"),
		concept("ex:a1", "ex:a"),
	}
	ix := BuildIndex(concepts)

	descendants := ix.DescendantsOf("ex:root")
	if len(descendants) != 3 {
		t.Fatalf("descendants of root: want 3 got=%v", descendants)
	}
	siblings := ix.SiblingsOf("ex:a")
	if !reflect.DeepEqual(siblings, []string{"ex:b"}) {
		t.Fatalf("siblings of ex:a: want=[ex:b] got=%v", siblings)
	}
	if sib := ix.SiblingsOf("ex:root"); len(sib) != 0 {
		t.Fatalf("siblings of root: want empty got=%v", sib)
	}
}

func TestHasChildrenUsesHintOnlyWithoutDerivedEdges(t *testing.T) {
	// child list claims a child that never declares the parent back
	parent := &Concept{IRI: "ex:p", Kind: KindConcept, ChildIRIs: []string{"ex:ghost"}}
	ix := BuildIndex([]*Concept{parent})
	if !ix.HasChildren("ex:p") {
		t.Fatalf("hint child list should mark node expandable")
	}
	if kids := ix.ChildrenOf("ex:p"); kids != nil {
		t.Fatalf("hint must not create structural edges, got=%v", kids)
	}
}

func TestGroupByTaxonomy(t *testing.T) {
	concepts := []*Concept{
		{IRI: "ex:a", Kind: KindConcept, TaxonomyName: "finance"},
		{IRI: "ex:b", Kind: KindClass, TaxonomyName: "finance"},
		{IRI: "ex:c", Kind: KindConcept},
		{IRI: "ex:skip", Kind: KindIndividual, TaxonomyName: "finance"},
	}
	grouped := GroupByTaxonomy(concepts)
	if len(grouped["finance"]) != 2 {
		t.Fatalf("finance bucket: want 2 got=%d", len(grouped["finance"]))
	}
	if len(grouped["default"]) != 1 || grouped["default"][0].IRI != "ex:c" {
		t.Fatalf("default bucket: want [ex:c] got=%v", grouped["default"])
	}
}
