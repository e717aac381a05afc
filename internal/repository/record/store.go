// Package record holds the loaded record collections and the loaders that
// fill them from embedded data, asset readers, redis or sqlite.
package record

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/taxodex/internal/domain"
	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
	"github.com/kailas-cloud/taxodex/internal/metrics"
)

// Loader produces the three collections from one source.
type Loader interface {
	Load(ctx context.Context) (dom.Collections, error)
	Name() string
}

// Store owns the loaded collections behind a one-shot readiness latch.
// The collections are written once before the latch closes and only read
// afterwards.
type Store struct {
	once   sync.Once
	ready  chan struct{}
	data   dom.Collections
	err    error
	logger *zap.Logger
}

// NewStore creates an empty, not yet ready store.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{ready: make(chan struct{}), logger: logger}
}

// Start loads from l in the background. Only the first Start or Load has effect.
func (s *Store) Start(ctx context.Context, l Loader) {
	go s.Load(ctx, l)
}

// Load loads from l and resolves the latch. Later calls return the
// outcome of the first one.
func (s *Store) Load(ctx context.Context, l Loader) error {
	s.once.Do(func() {
		defer close(s.ready)

		data, err := l.Load(ctx)
		metrics.SourceLoadsTotal.WithLabelValues(l.Name(), metrics.Status(err)).Inc()
		if err != nil {
			s.err = fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, l.Name(), err)
			s.logger.Error("record load failed", zap.String("source", l.Name()), zap.Error(err))
			return
		}
		s.data = data
		for _, k := range dom.Kinds {
			metrics.RecordsLoaded.WithLabelValues(string(k)).Set(float64(data.Count(k)))
		}
		s.logger.Info("records loaded",
			zap.String("source", l.Name()),
			zap.Int("literature", data.Count(dom.Literature)),
			zap.Int("taxonomy", data.Count(dom.Taxonomy)),
			zap.Int("samples", data.Count(dom.Samples)),
		)
	})
	<-s.ready
	return s.err
}

// Ready is closed once loading has finished, successfully or not.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Loaded reports without blocking whether loading finished successfully.
func (s *Store) Loaded() bool {
	select {
	case <-s.ready:
		return s.err == nil
	default:
		return false
	}
}

// Err returns the load error once loading has failed. It is nil while
// loading is in progress and after a successful load.
func (s *Store) Err() error {
	select {
	case <-s.ready:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until the store is ready or ctx is done.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return s.err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrNotReady, ctx.Err())
	}
}

// List waits for the store and returns the collection of kind in load order.
func (s *Store) List(ctx context.Context, kind dom.Kind) ([]dom.Record, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	if err := s.Wait(ctx); err != nil {
		return nil, err
	}
	return s.data.Of(kind), nil
}

// Counts waits for the store and returns the size of each collection.
func (s *Store) Counts(ctx context.Context) (map[dom.Kind]int, error) {
	if err := s.Wait(ctx); err != nil {
		return nil, err
	}
	out := make(map[dom.Kind]int, len(dom.Kinds))
	for _, k := range dom.Kinds {
		out[k] = s.data.Count(k)
	}
	return out, nil
}
