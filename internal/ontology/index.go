package ontology

// Index is the derived adjacency structure over one concept list. It is
// rebuilt wholesale whenever the input changes and never persisted.
type Index struct {
	concepts map[string]*Concept
	children map[string][]string
	order    []string // insertion order, for stable iteration
}

// BuildIndex filters out excluded kinds, registers the remaining concepts and
// derives parent->child edges exclusively from ParentIRIs. Dangling or
// malformed references produce orphaned or childless nodes, never errors.
func BuildIndex(concepts []*Concept) *Index {
	ix := &Index{
		concepts: make(map[string]*Concept, len(concepts)),
		children: make(map[string][]string, len(concepts)),
	}
	for _, c := range concepts {
		if c == nil || c.IRI == "" || excludedKind(c.Kind) {
			continue
		}
		if _, seen := ix.concepts[c.IRI]; seen {
			continue
		}
		ix.concepts[c.IRI] = c
		ix.order = append(ix.order, c.IRI)
		if _, ok := ix.children[c.IRI]; !ok {
			ix.children[c.IRI] = nil
		}
	}
	for _, iri := range ix.order {
		c := ix.concepts[iri]
		for _, parent := range c.ParentIRIs {
			if parent == "" {
				continue
			}
			ix.appendChild(parent, iri)
		}
	}
	return ix
}

func (ix *Index) appendChild(parent, child string) {
	for _, existing := range ix.children[parent] {
		if existing == child {
			return
		}
	}
	ix.children[parent] = append(ix.children[parent], child)
}

func (ix *Index) Len() int {
	return len(ix.concepts)
}

func (ix *Index) Get(iri string) (*Concept, bool) {
	c, ok := ix.concepts[iri]
	return c, ok
}

// IRIs returns every indexed identifier in insertion order.
func (ix *Index) IRIs() []string {
	out := make([]string, len(ix.order))
	copy(out, ix.order)
	return out
}

// Roots returns the concepts with no parent present in the index. A concept
// whose declared parents were all filtered out (or never supplied) is its own
// root, so partial data never hides nodes.
func (ix *Index) Roots() []string {
	var roots []string
	for _, iri := range ix.order {
		if ix.isRoot(iri) {
			roots = append(roots, iri)
		}
	}
	return roots
}

func (ix *Index) isRoot(iri string) bool {
	c, ok := ix.concepts[iri]
	if !ok {
		return false
	}
	for _, parent := range c.ParentIRIs {
		if _, present := ix.concepts[parent]; present {
			return false
		}
	}
	return true
}

// ChildrenOf returns the adjacency entry for iri, or nil when unknown.
func (ix *Index) ChildrenOf(iri string) []string {
	kids := ix.children[iri]
	if len(kids) == 0 {
		return nil
	}
	out := make([]string, len(kids))
	copy(out, kids)
	return out
}

// HasChildren reports whether a node should render an expand arrow. Derived
// edges win; the ChildIRIs hint only fills in when no edge was derived.
func (ix *Index) HasChildren(iri string) bool {
	if len(ix.children[iri]) > 0 {
		return true
	}
	if c, ok := ix.concepts[iri]; ok {
		return len(c.ChildIRIs) > 0
	}
	return false
}

// AncestorsOf walks ParentIRIs transitively. A visited set guarantees
// termination on cyclic data; the start concept is not included unless a
// cycle leads back to it.
func (ix *Index) AncestorsOf(iri string) []string {
	visited := map[string]bool{}
	var out []string
	queue := ix.presentParents(iri)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		out = append(out, current)
		queue = append(queue, ix.presentParents(current)...)
	}
	return out
}

func (ix *Index) presentParents(iri string) []string {
	c, ok := ix.concepts[iri]
	if !ok {
		return nil
	}
	var parents []string
	for _, p := range c.ParentIRIs {
		if _, present := ix.concepts[p]; present {
			parents = append(parents, p)
		}
	}
	return parents
}

// ParentsOf returns the direct parents present in the index.
func (ix *Index) ParentsOf(iri string) []string {
	return ix.presentParents(iri)
}

// DescendantsOf walks derived child edges transitively with the same cycle
// guard as AncestorsOf.
func (ix *Index) DescendantsOf(iri string) []string {
	visited := map[string]bool{}
	var out []string
	queue := append([]string(nil), ix.children[iri]...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		out = append(out, current)
		queue = append(queue, ix.children[current]...)
	}
	return out
}

// SiblingsOf returns the other children of iri's present parents, deduplicated.
func (ix *Index) SiblingsOf(iri string) []string {
	seen := map[string]bool{iri: true}
	var out []string
	for _, parent := range ix.presentParents(iri) {
		for _, child := range ix.children[parent] {
			if seen[child] {
				continue
			}
			seen[child] = true
			out = append(out, child)
		}
	}
	return out
}

// GroupByTaxonomy buckets concepts by their taxonomy name, preserving input
// order inside each bucket. Concepts without a taxonomy land under "default".
func GroupByTaxonomy(concepts []*Concept) map[string][]*Concept {
	grouped := make(map[string][]*Concept)
	for _, c := range concepts {
		if c == nil || excludedKind(c.Kind) {
			continue
		}
		name := c.TaxonomyName
		if name == "" {
			name = "default"
		}
		grouped[name] = append(grouped[name], c)
	}
	return grouped
}
