package graph

import (
	"strings"
	"testing"
)

func TestNeighborsQueryLimitsCombinedResult(t *testing.T) {
	open := strings.Index(neighborsQuery, "CALL {")
	closing := strings.Index(neighborsQuery, "}")
	limit := strings.Index(neighborsQuery, "LIMIT $limit")
	if open < 0 || closing < 0 || limit < 0 {
		t.Fatalf("query shape: CALL=%d }=%d LIMIT=%d", open, closing, limit)
	}
	if limit < closing {
		t.Fatal("LIMIT must apply outside the CALL subquery so both arms are bounded")
	}
	inner := neighborsQuery[open:closing]
	if strings.Contains(inner, "LIMIT") {
		t.Fatal("no per-arm LIMIT inside the subquery")
	}
	if got := strings.Count(neighborsQuery, "UNION"); got != 1 {
		t.Fatalf("union arms: want=1 UNION got=%d", got)
	}
}

func TestRejectWriteClausesAllowsReads(t *testing.T) {
	queries := []string{
		"MATCH (c:Concept) RETURN c.iri LIMIT 10",
		"MATCH (a)-[:BROADER]->(b) WHERE a.iri = 'ex:a' RETURN b",
		"MATCH (c:Concept) RETURN count(c)",
	}
	for _, q := range queries {
		if err := rejectWriteClauses(q); err != nil {
			t.Fatalf("query %q: want=nil got=%v", q, err)
		}
	}
}

func TestRejectWriteClausesBlocksWrites(t *testing.T) {
	queries := []string{
		"CREATE (c:Concept {iri: 'ex:a'})",
		"MATCH (c) DELETE c",
		"MATCH (c) DETACH DELETE c",
		"MATCH (c) SET c.label = 'x' RETURN c",
		"MERGE (c:Concept {iri: 'ex:a'})",
		"MATCH (c) REMOVE c.label RETURN c",
		"match (c)\ndelete c",
	}
	for _, q := range queries {
		if err := rejectWriteClauses(q); err == nil {
			t.Fatalf("query %q: want=error got=nil", q)
		}
	}
}
