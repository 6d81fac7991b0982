package ontology

import "strings"

// DisplayLabel derives the label shown for a concept everywhere it renders.
// The explicit label wins unless it just repeats the IRI; otherwise the
// fragment after the last '#' or '/', then the post-':' fragment for
// urn-style identifiers, then the IRI itself.
func DisplayLabel(c *Concept) string {
	if c == nil {
		return ""
	}
	if c.Label != "" && c.Label != c.IRI {
		return c.Label
	}
	return labelFromIRI(c.IRI)
}

func labelFromIRI(iri string) string {
	if idx := strings.LastIndex(iri, "#"); idx >= 0 && idx+1 < len(iri) {
		return iri[idx+1:]
	}
	if idx := strings.LastIndex(iri, "/"); idx >= 0 && idx+1 < len(iri) {
		return iri[idx+1:]
	}
	if idx := strings.LastIndex(iri, ":"); idx >= 0 && idx+1 < len(iri) {
		return iri[idx+1:]
	}
	return iri
}
