package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ocasazza/graphlayouts/pkg/graph"
)

// Neo4jConfig configures the Neo4j backend.
type Neo4jConfig struct {
	// URI is the neo4j/bolt connection URI.
	URI string `toml:"uri"`

	// Username and Password authenticate against the server.
	Username string `toml:"username"`
	Password string `toml:"password"`

	// Database is the target database name. Defaults to "neo4j".
	Database string `toml:"database"`
}

// Neo4jStore keeps each graph as one (:Graph {id, data}) node with the
// serialized payload in the data property. The payload stays opaque to
// Cypher: the store does key lookups, never traversals.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore connects to Neo4j and verifies connectivity.
func NewNeo4jStore(ctx context.Context, cfg Neo4jConfig) (*Neo4jStore, error) {
	if cfg.URI == "" {
		cfg.URI = "neo4j://localhost:7687"
	}
	if cfg.Database == "" {
		cfg.Database = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connect to neo4j at %s: %w", cfg.URI, err)
	}
	return &Neo4jStore{driver: driver, database: cfg.Database}, nil
}

// run executes one Cypher query with automatic session and transaction
// handling, buffering all records.
func (s *Neo4jStore) run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	return neo4j.ExecuteQuery(ctx, s.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(s.database))
}

func (s *Neo4jStore) Get(ctx context.Context, id string) (*graph.Graph, error) {
	res, err := s.run(ctx,
		"MATCH (g:Graph {id: $id}) RETURN g.data AS data",
		map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get graph %q: %w", id, err)
	}
	if len(res.Records) == 0 {
		return nil, fmt.Errorf("graph %q: %w", id, ErrNotFound)
	}

	v, ok := res.Records[0].Get("data")
	if !ok {
		return nil, fmt.Errorf("graph %q: result missing data column", id)
	}
	data, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("graph %q: unexpected data type %T", id, v)
	}

	g, err := graph.UnmarshalGraph([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("parse graph %q: %w", id, err)
	}
	return g, nil
}

func (s *Neo4jStore) Save(ctx context.Context, id string, g *graph.Graph) error {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return fmt.Errorf("marshal graph %q: %w", id, err)
	}
	_, err = s.run(ctx,
		"MERGE (g:Graph {id: $id}) SET g.data = $data",
		map[string]any{"id": id, "data": string(data)})
	if err != nil {
		return fmt.Errorf("save graph %q: %w", id, err)
	}
	return nil
}

func (s *Neo4jStore) Delete(ctx context.Context, id string) error {
	res, err := s.run(ctx,
		"MATCH (g:Graph {id: $id}) DETACH DELETE g",
		map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete graph %q: %w", id, err)
	}
	if res.Summary.Counters().NodesDeleted() == 0 {
		return fmt.Errorf("graph %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Neo4jStore) List(ctx context.Context) ([]string, error) {
	res, err := s.run(ctx, "MATCH (g:Graph) RETURN g.id AS id", nil)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}

	var ids []string
	for _, rec := range res.Records {
		v, ok := rec.Get("id")
		if !ok {
			continue
		}
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *Neo4jStore) Close() error {
	return s.driver.Close(context.Background())
}

var _ Store = (*Neo4jStore)(nil)
