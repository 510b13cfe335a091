package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ocasazza/graphlayouts/pkg/graph"
)

// redisKeyPrefix namespaces graph keys so the store can share a database
// with other applications.
const redisKeyPrefix = "graph:"

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	// Addr is the host:port of the Redis server.
	Addr string `toml:"addr"`

	// Password is the optional AUTH password.
	Password string `toml:"password"`

	// DB is the database number.
	DB int `toml:"db"`

	// TTL is the optional expiration for stored graphs. Zero means graphs
	// never expire.
	TTL time.Duration `toml:"ttl"`
}

// RedisStore is a Redis-backed graph store for multi-instance deployments.
// Graphs are stored as JSON values under "graph:<id>" keys.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*graph.Graph, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("graph %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get graph %q: %w", id, err)
	}

	g, err := graph.UnmarshalGraph(data)
	if err != nil {
		return nil, fmt.Errorf("parse graph %q: %w", id, err)
	}
	return g, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, g *graph.Graph) error {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return fmt.Errorf("marshal graph %q: %w", id, err)
	}
	if err := s.client.Set(ctx, redisKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save graph %q: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.Del(ctx, redisKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete graph %q: %w", id, err)
	}
	if deleted == 0 {
		return fmt.Errorf("graph %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
