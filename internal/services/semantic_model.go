package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/graph"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/ontology"
	"github.com/larsgeorge/ontos-sub000/internal/repos"
)

// ConceptSummary is the wire form of an indexed concept, including derived
// display data the raw record does not carry.
type ConceptSummary struct {
	IRI          string `json:"iri"`
	Label        string `json:"label"`
	Kind         string `json:"kind"`
	TaxonomyName string `json:"taxonomy_name,omitempty"`
	Comment      string `json:"comment,omitempty"`
	HasChildren  bool   `json:"has_children"`
}

// HierarchyView is everything the concept detail page needs in one response.
type HierarchyView struct {
	Concept     ConceptSummary   `json:"concept"`
	Ancestors   []ConceptSummary `json:"ancestors"`
	Parents     []ConceptSummary `json:"parents"`
	Children    []ConceptSummary `json:"children"`
	Siblings    []ConceptSummary `json:"siblings"`
	Descendants []ConceptSummary `json:"descendants"`
}

type SemanticModelService interface {
	GroupedConcepts(ctx context.Context) (map[string][]ConceptSummary, error)
	Roots(ctx context.Context) ([]ConceptSummary, error)
	ChildrenOf(ctx context.Context, iri string) ([]ConceptSummary, error)
	Hierarchy(ctx context.Context, iri string) (*HierarchyView, error)
	Neighbors(ctx context.Context, iri string, limit int) ([]graph.Neighbor, error)
	Query(ctx context.Context, query string) ([]map[string]any, error)
	Invalidate()
}

type semanticModelService struct {
	db           *gorm.DB
	log          *logger.Logger
	termRepo     repos.GlossaryTermRepo
	conceptGraph graph.ConceptGraph

	mu      sync.Mutex
	index   *ontology.Index
	byTax   map[string][]*ontology.Concept
	loading bool
}

func NewSemanticModelService(
	db *gorm.DB,
	log *logger.Logger,
	termRepo repos.GlossaryTermRepo,
	conceptGraph graph.ConceptGraph,
) SemanticModelService {
	return &semanticModelService{
		db:           db,
		log:          log.With("service", "SemanticModelService"),
		termRepo:     termRepo,
		conceptGraph: conceptGraph,
	}
}

// ensureIndex builds the concept index on first use. A load already in flight
// is not duplicated; callers racing it see the previous snapshot (nil on cold
// start, which surfaces as an empty catalog for one request).
func (ss *semanticModelService) ensureIndex(ctx context.Context) (*ontology.Index, map[string][]*ontology.Concept, error) {
	ss.mu.Lock()
	if ss.index != nil || ss.loading {
		ix, byTax := ss.index, ss.byTax
		ss.mu.Unlock()
		if ix == nil {
			return ontology.BuildIndex(nil), map[string][]*ontology.Concept{}, nil
		}
		return ix, byTax, nil
	}
	ss.loading = true
	ss.mu.Unlock()

	defer func() {
		ss.mu.Lock()
		ss.loading = false
		ss.mu.Unlock()
	}()

	terms, err := ss.termRepo.List(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("load glossary terms: %w", err)
	}
	concepts := make([]*ontology.Concept, 0, len(terms))
	for _, term := range terms {
		concepts = append(concepts, &ontology.Concept{
			IRI:           term.IRI,
			Label:         term.Label,
			Kind:          term.Kind,
			TaxonomyName:  term.TaxonomyName,
			Comment:       term.Comment,
			ParentIRIs:    decodeIRIList(term.ParentIRIs),
			ChildIRIs:     decodeIRIList(term.ChildIRIs),
			SourceContext: term.SourceCtx,
		})
	}

	ix := ontology.BuildIndex(concepts)
	byTax := ontology.GroupByTaxonomy(concepts)

	ss.mu.Lock()
	ss.index = ix
	ss.byTax = byTax
	ss.mu.Unlock()

	ss.log.Info("Concept index built", "concepts", ix.Len())

	if ss.conceptGraph != nil {
		if err := ss.conceptGraph.SyncConcepts(ctx, concepts); err != nil {
			ss.log.Warn("Concept graph sync failed", "error", err)
		}
	}
	return ix, byTax, nil
}

// Invalidate drops the cached index so the next read rebuilds it.
func (ss *semanticModelService) Invalidate() {
	ss.mu.Lock()
	ss.index = nil
	ss.byTax = nil
	ss.mu.Unlock()
}

func (ss *semanticModelService) GroupedConcepts(ctx context.Context) (map[string][]ConceptSummary, error) {
	ix, byTax, err := ss.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]ConceptSummary, len(byTax))
	for taxonomy, concepts := range byTax {
		summaries := make([]ConceptSummary, 0, len(concepts))
		for _, c := range concepts {
			summaries = append(summaries, ss.summarize(ix, c.IRI))
		}
		sort.Slice(summaries, func(i, j int) bool { return summaries[i].Label < summaries[j].Label })
		out[taxonomy] = summaries
	}
	return out, nil
}

func (ss *semanticModelService) Roots(ctx context.Context) ([]ConceptSummary, error) {
	ix, _, err := ss.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}
	return ss.summarizeAll(ix, ix.Roots()), nil
}

func (ss *semanticModelService) ChildrenOf(ctx context.Context, iri string) ([]ConceptSummary, error) {
	ix, _, err := ss.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := ix.Get(iri); !ok {
		return nil, apierr.Newf(http.StatusNotFound, "concept_not_found", "concept %q not found", iri)
	}
	return ss.summarizeAll(ix, ix.ChildrenOf(iri)), nil
}

func (ss *semanticModelService) Hierarchy(ctx context.Context, iri string) (*HierarchyView, error) {
	ix, _, err := ss.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := ix.Get(iri); !ok {
		return nil, apierr.Newf(http.StatusNotFound, "concept_not_found", "concept %q not found", iri)
	}
	return &HierarchyView{
		Concept:     ss.summarize(ix, iri),
		Ancestors:   ss.summarizeAll(ix, ix.AncestorsOf(iri)),
		Parents:     ss.summarizeAll(ix, ix.ParentsOf(iri)),
		Children:    ss.summarizeAll(ix, ix.ChildrenOf(iri)),
		Siblings:    ss.summarizeAll(ix, ix.SiblingsOf(iri)),
		Descendants: ss.summarizeAll(ix, ix.DescendantsOf(iri)),
	}, nil
}

func (ss *semanticModelService) Neighbors(ctx context.Context, iri string, limit int) ([]graph.Neighbor, error) {
	if ss.conceptGraph == nil {
		return nil, apierr.Newf(http.StatusServiceUnavailable, "graph_unavailable", "concept graph is not configured")
	}
	if _, _, err := ss.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return ss.conceptGraph.Neighbors(ctx, iri, limit)
}

func (ss *semanticModelService) Query(ctx context.Context, query string) ([]map[string]any, error) {
	if ss.conceptGraph == nil {
		return nil, apierr.Newf(http.StatusServiceUnavailable, "graph_unavailable", "concept graph is not configured")
	}
	results, err := ss.conceptGraph.RunReadQuery(ctx, query)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_query", err)
	}
	return results, nil
}

func (ss *semanticModelService) summarize(ix *ontology.Index, iri string) ConceptSummary {
	concept, ok := ix.Get(iri)
	label := iri
	if ok {
		label = ontology.DisplayLabel(concept)
	}
	return ConceptSummary{
		IRI:          iri,
		Label:        label,
		Kind:         kindOf(concept),
		TaxonomyName: taxonomyOf(concept),
		Comment:      commentOf(concept),
		HasChildren:  ix.HasChildren(iri),
	}
}

func (ss *semanticModelService) summarizeAll(ix *ontology.Index, iris []string) []ConceptSummary {
	out := make([]ConceptSummary, 0, len(iris))
	for _, iri := range iris {
		out = append(out, ss.summarize(ix, iri))
	}
	return out
}

func kindOf(c *ontology.Concept) string {
	if c == nil {
		return ontology.KindConcept
	}
	return c.Kind
}

func taxonomyOf(c *ontology.Concept) string {
	if c == nil {
		return ""
	}
	return c.TaxonomyName
}

func commentOf(c *ontology.Concept) string {
	if c == nil {
		return ""
	}
	return c.Comment
}

func decodeIRIList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
