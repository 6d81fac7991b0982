package app

import (
	"github.com/larsgeorge/ontos-sub000/internal/clients/gcp"
	"github.com/larsgeorge/ontos-sub000/internal/clients/neo4jdb"
	"github.com/larsgeorge/ontos-sub000/internal/clients/redis"
	"github.com/larsgeorge/ontos-sub000/internal/graph"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
)

type Clients struct {
	Bucket       gcp.BucketService
	CatalogBus   redis.CatalogBus
	Neo4j        *neo4jdb.Client
	ConceptGraph graph.ConceptGraph
}

// wireClients builds the optional external clients. Each one degrades to nil
// when unconfigured; the services treat a nil client as "feature off".
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")
	var clients Clients

	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		log.Warn("Bucket storage disabled", "error", err)
	} else {
		clients.Bucket = bucket
	}

	bus, err := redis.NewCatalogBus(log)
	if err != nil {
		log.Warn("Catalog event bus disabled", "error", err)
	} else {
		clients.CatalogBus = bus
	}

	neo, err := neo4jdb.New(neo4jdb.LoadConfig(log), log)
	if err != nil {
		log.Warn("Concept graph disabled", "error", err)
	} else if neo != nil {
		clients.Neo4j = neo
		clients.ConceptGraph = graph.NewNeo4jConceptGraph(neo, log)
	}

	return clients
}
