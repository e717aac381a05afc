// Package idgen mints record identifiers.
package idgen

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
)

// UUID allocates "<PREFIX>-<uuid v4>" identifiers, e.g. LIT-9b2f...
type UUID struct {
	newUUID func() (uuid.UUID, error)
}

// NewUUID creates a UUID allocator.
func NewUUID() *UUID {
	return &UUID{newUUID: uuid.NewRandom}
}

// Name returns the allocator name used in metrics.
func (a *UUID) Name() string { return "uuid" }

// Next returns a fresh identifier for kind.
func (a *UUID) Next(_ context.Context, kind dom.Kind) (string, error) {
	id, err := a.newUUID()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return kind.Prefix() + "-" + id.String(), nil
}

// counter is the consumer interface for RedisSequence (ISP).
type counter interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// RedisSequence allocates "<PREFIX><n>" identifiers from a redis counter,
// zero-padded to three digits (LIT001, LIT002, ... LIT1000).
type RedisSequence struct {
	store  counter
	prefix string
}

// NewRedisSequence creates a sequence allocator. Counters live under
// <keyPrefix>seq:<PREFIX>.
func NewRedisSequence(s counter, keyPrefix string) *RedisSequence {
	return &RedisSequence{store: s, prefix: keyPrefix}
}

// Name returns the allocator name used in metrics.
func (a *RedisSequence) Name() string { return "redis" }

// Key returns the counter key for kind.
func (a *RedisSequence) Key(kind dom.Kind) string {
	return a.prefix + "seq:" + kind.Prefix()
}

// Next returns the next identifier for kind.
func (a *RedisSequence) Next(ctx context.Context, kind dom.Kind) (string, error) {
	n, err := a.store.Incr(ctx, a.Key(kind))
	if err != nil {
		return "", fmt.Errorf("next %s id: %w", kind, err)
	}
	return fmt.Sprintf("%s%03d", kind.Prefix(), n), nil
}
