package record

import (
	"context"
	"fmt"

	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
)

// kvStore is the consumer interface for the redis source (ISP).
type kvStore interface {
	MGet(ctx context.Context, keys []string) ([][]byte, error)
}

// RedisLoader reads each collection as a JSON array stored under
// <prefix><kind>. A missing key is an empty collection.
type RedisLoader struct {
	store  kvStore
	prefix string
}

// NewRedisLoader creates a RedisLoader.
func NewRedisLoader(s kvStore, prefix string) *RedisLoader {
	return &RedisLoader{store: s, prefix: prefix}
}

// Name implements Loader.
func (l *RedisLoader) Name() string { return "redis" }

// Key returns the redis key holding kind.
func (l *RedisLoader) Key(kind dom.Kind) string { return l.prefix + string(kind) }

// Load implements Loader.
func (l *RedisLoader) Load(ctx context.Context) (dom.Collections, error) {
	keys := make([]string, len(dom.Kinds))
	for i, k := range dom.Kinds {
		keys[i] = l.Key(k)
	}

	vals, err := l.store.MGet(ctx, keys)
	if err != nil {
		return dom.Collections{}, fmt.Errorf("mget collections: %w", err)
	}
	if len(vals) != len(keys) {
		return dom.Collections{}, fmt.Errorf("mget collections: expected %d values, got %d", len(keys), len(vals))
	}

	var cols dom.Collections
	for i, k := range dom.Kinds {
		if vals[i] == nil {
			_ = cols.Set(k, nil)
			continue
		}
		if err := decodeInto(&cols, k, vals[i]); err != nil {
			return dom.Collections{}, fmt.Errorf("key %s: %w", keys[i], err)
		}
	}
	return cols, nil
}
