// Package ontology builds traversable in-memory indexes over flat lists of
// concept records. The source data may be partial, redundant or cyclic; every
// operation here tolerates that without failing.
package ontology

const (
	KindClass         = "class"
	KindConcept       = "concept"
	KindIndividual    = "individual"
	KindConceptScheme = "concept-scheme"
)

type Concept struct {
	IRI          string   `json:"iri"`
	Label        string   `json:"label,omitempty"`
	Kind         string   `json:"kind"`
	TaxonomyName string   `json:"taxonomy_name,omitempty"`
	Comment      string   `json:"comment,omitempty"`
	ParentIRIs   []string `json:"parent_iris,omitempty"`
	// ChildIRIs is a hint for "does this node expand"; parent-derived edges are
	// the structural source of truth and win when the two disagree.
	ChildIRIs     []string `json:"child_iris,omitempty"`
	SourceContext string   `json:"source_context,omitempty"`
}

// excludedKinds never become tree nodes, even when referenced by included
// concepts.
func excludedKind(kind string) bool {
	return kind == KindIndividual || kind == KindConceptScheme
}
