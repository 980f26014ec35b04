// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// graph.go provides a Valkey-backed cache of render graphs. A graph is keyed
// by display language and the content hash of the collection it was built
// from, so an edit simply produces a new key and stale entries age out.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

const (
	// graphKeyPrefix is the Valkey key prefix for cached graphs.
	graphKeyPrefix = "graph:"

	// DefaultGraphTTL is how long a built graph stays cached.
	DefaultGraphTTL = 10 * time.Minute
)

// GraphCache stores render graphs in Valkey. Concurrent misses on the same
// key share one build.
type GraphCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewGraphCache creates a graph cache backed by the given Valkey client.
func NewGraphCache(client *redis.Client, ttl time.Duration) *GraphCache {
	if ttl == 0 {
		ttl = DefaultGraphTTL
	}
	return &GraphCache{client: client, ttl: ttl}
}

// GraphKey returns the cache key for a language and content hash.
func GraphKey(lang, hash string) string {
	return graphKeyPrefix + lang + ":" + hash
}

// Get returns the cached graph for lang and hash.
func (gc *GraphCache) Get(ctx context.Context, lang, hash string) (models.Graph, bool) {
	key := GraphKey(lang, hash)
	val, err := gc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Graph{}, false
	}
	if err != nil {
		slog.Warn("graph cache get error", "key", key, "error", err)
		return models.Graph{}, false
	}
	var g models.Graph
	if err := json.Unmarshal(val, &g); err != nil {
		slog.Warn("graph cache decode error", "key", key, "error", err)
		return models.Graph{}, false
	}
	slog.Debug("graph cache hit", "key", key)
	return g, true
}

// Set stores a graph with the configured TTL.
func (gc *GraphCache) Set(ctx context.Context, lang, hash string, g models.Graph) {
	key := GraphKey(lang, hash)
	data, err := json.Marshal(g)
	if err != nil {
		slog.Warn("graph cache encode error", "key", key, "error", err)
		return
	}
	if err := gc.client.Set(ctx, key, data, gc.ttl).Err(); err != nil {
		slog.Warn("graph cache set error", "key", key, "error", err)
	}
}

// GetOrBuild returns the cached graph or calls build and caches its result.
// Cache failures never fail the call; only build errors are returned.
func (gc *GraphCache) GetOrBuild(ctx context.Context, lang, hash string, build func(context.Context) (models.Graph, error)) (models.Graph, error) {
	if g, ok := gc.Get(ctx, lang, hash); ok {
		return g, nil
	}
	v, err, shared := gc.group.Do(GraphKey(lang, hash), func() (any, error) {
		g, err := build(ctx)
		if err != nil {
			return models.Graph{}, err
		}
		gc.Set(ctx, lang, hash, g)
		return g, nil
	})
	if err != nil {
		return models.Graph{}, err
	}
	g := v.(models.Graph)
	if shared {
		g = g.Clone()
	}
	return g, nil
}

// InvalidateAll removes all cached graphs by scanning for the prefix.
func (gc *GraphCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := gc.client.Scan(ctx, cursor, graphKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("graph cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := gc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("graph cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("graph cache cleared", "deleted", deleted)
	}
}
