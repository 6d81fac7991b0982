package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/larsgeorge/ontos-sub000/internal/clients/neo4jdb"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/ontology"
)

// Neighbor is one hop away from a concept in the semantic model.
type Neighbor struct {
	Direction string `json:"direction"` // incoming | outgoing
	Predicate string `json:"predicate"`
	Display   string `json:"display"`
	StepIRI   string `json:"step_iri,omitempty"`
}

// ConceptGraph mirrors glossary concepts into a graph database for neighbor
// expansion and the query console. The relational store stays authoritative.
type ConceptGraph interface {
	SyncConcepts(ctx context.Context, concepts []*ontology.Concept) error
	Neighbors(ctx context.Context, iri string, limit int) ([]Neighbor, error)
	RunReadQuery(ctx context.Context, query string) ([]map[string]any, error)
}

type neo4jConceptGraph struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewNeo4jConceptGraph(client *neo4jdb.Client, log *logger.Logger) ConceptGraph {
	return &neo4jConceptGraph{
		client: client,
		log:    log.With("graph", "Neo4jConceptGraph"),
	}
}

func (g *neo4jConceptGraph) SyncConcepts(ctx context.Context, concepts []*ontology.Concept) error {
	if g.client == nil || g.client.Driver == nil {
		return fmt.Errorf("concept graph not configured")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	nodes := make([]map[string]any, 0, len(concepts))
	var rels []map[string]any
	for _, c := range concepts {
		if c == nil || c.IRI == "" {
			continue
		}
		nodes = append(nodes, map[string]any{
			"iri":       c.IRI,
			"label":     ontology.DisplayLabel(c),
			"kind":      c.Kind,
			"taxonomy":  c.TaxonomyName,
			"synced_at": now,
		})
		for _, parent := range c.ParentIRIs {
			if parent == "" {
				continue
			}
			rels = append(rels, map[string]any{
				"child":  c.IRI,
				"parent": parent,
			})
		}
	}

	session := g.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.client.Database,
	})
	defer session.Close(ctx)

	// Best-effort schema init.
	if res, err := session.Run(ctx,
		`CREATE CONSTRAINT concept_iri_unique IF NOT EXISTS FOR (c:Concept) REQUIRE c.iri IS UNIQUE`, nil); err != nil {
		g.log.Warn("neo4j schema init failed (continuing)", "error", err)
	} else {
		_, _ = res.Consume(ctx)
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if len(nodes) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $nodes AS n
MERGE (c:Concept {iri: n.iri})
SET c += n
`, map[string]any{"nodes": nodes})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		if len(rels) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $rels AS r
MERGE (child:Concept {iri: r.child})
MERGE (parent:Concept {iri: r.parent})
MERGE (child)-[e:BROADER]->(parent)
SET e.synced_at = $synced_at
`, map[string]any{"rels": rels, "synced_at": now})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// Both arms run inside a CALL subquery so the LIMIT bounds the combined
// result, not just the incoming arm.
const neighborsQuery = `
CALL {
  MATCH (c:Concept {iri: $iri})-[r]->(n:Concept)
  RETURN 'outgoing' AS direction, type(r) AS predicate, coalesce(n.label, n.iri) AS display, n.iri AS step_iri
  UNION
  MATCH (c:Concept {iri: $iri})<-[r]-(n:Concept)
  RETURN 'incoming' AS direction, type(r) AS predicate, coalesce(n.label, n.iri) AS display, n.iri AS step_iri
}
RETURN direction, predicate, display, step_iri
LIMIT $limit
`

func (g *neo4jConceptGraph) Neighbors(ctx context.Context, iri string, limit int) ([]Neighbor, error) {
	if g.client == nil || g.client.Driver == nil {
		return nil, fmt.Errorf("concept graph not configured")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	session := g.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: g.client.Database,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, neighborsQuery, map[string]any{"iri": iri, "limit": limit})
		if err != nil {
			return nil, err
		}
		var neighbors []Neighbor
		for res.Next(ctx) {
			rec := res.Record().AsMap()
			neighbors = append(neighbors, Neighbor{
				Direction: asString(rec["direction"]),
				Predicate: asString(rec["predicate"]),
				Display:   asString(rec["display"]),
				StepIRI:   asString(rec["step_iri"]),
			})
		}
		return neighbors, res.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]Neighbor), nil
}

// RunReadQuery executes an arbitrary read statement for the query console.
// Write clauses are rejected before anything reaches the database.
func (g *neo4jConceptGraph) RunReadQuery(ctx context.Context, query string) ([]map[string]any, error) {
	if g.client == nil || g.client.Driver == nil {
		return nil, fmt.Errorf("concept graph not configured")
	}
	if err := rejectWriteClauses(query); err != nil {
		return nil, err
	}

	session := g.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: g.client.Database,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		var rows []map[string]any
		for res.Next(ctx) {
			rows = append(rows, res.Record().AsMap())
		}
		return rows, res.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]map[string]any), nil
}

var writeClauses = []string{"create ", "merge ", "delete ", "detach ", "set ", "remove ", "drop "}

func rejectWriteClauses(query string) error {
	lowered := " " + strings.ToLower(query)
	for _, clause := range writeClauses {
		if strings.Contains(lowered, " "+clause) || strings.Contains(lowered, "\n"+clause) {
			return fmt.Errorf("read-only query console: %q not allowed", strings.TrimSpace(clause))
		}
	}
	return nil
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
