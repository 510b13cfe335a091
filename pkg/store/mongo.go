package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ocasazza/graphlayouts/pkg/graph"
)

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string `toml:"uri"`

	// Database is the database name. Defaults to "graphlayouts".
	Database string `toml:"database"`

	// Collection is the collection name. Defaults to "graphs".
	Collection string `toml:"collection"`
}

// mongoDoc is the document shape stored per graph: the id doubles as the
// Mongo document id so saves can upsert by primary key.
type mongoDoc struct {
	ID    string       `bson:"_id"`
	Graph *graph.Graph `bson:"graph"`
}

// MongoStore is a MongoDB-backed graph store.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "graphlayouts"
	}
	if cfg.Collection == "" {
		cfg.Collection = "graphs"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*graph.Graph, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("graph %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get graph %q: %w", id, err)
	}
	if doc.Graph == nil {
		return nil, fmt.Errorf("graph %q: empty document", id)
	}
	return doc.Graph, nil
}

func (s *MongoStore) Save(ctx context.Context, id string, g *graph.Graph) error {
	doc := mongoDoc{ID: id, Graph: g}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save graph %q: %w", id, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete graph %q: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("graph %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode graph id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
