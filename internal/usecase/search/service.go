package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
	"github.com/kailas-cloud/taxodex/internal/domain/search/filter"
	"github.com/kailas-cloud/taxodex/internal/metrics"
)

// Stats holds per-collection record counts.
type Stats struct {
	Literature int
	Taxonomy   int
	Samples    int
}

// Service filters collections by free-text query.
type Service struct {
	repo Repository
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search returns the records of kind whose searchable fields contain query,
// case-insensitively, in collection order. An empty query returns the
// whole collection. The returned records must not be modified.
func (s *Service) Search(ctx context.Context, kind dom.Kind, query string) ([]dom.Record, error) {
	start := time.Now()

	recs, err := s.repo.List(ctx, kind)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(kindLabel(kind), "error").Inc()
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	out := filter.Apply(recs, query, kind.SearchFields())

	metrics.SearchRequestsTotal.WithLabelValues(string(kind), "ok").Inc()
	metrics.SearchDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	metrics.SearchResults.WithLabelValues(string(kind)).Observe(float64(len(out)))

	return out, nil
}

// Stats returns the size of each collection.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count records: %w", err)
	}
	return Stats{
		Literature: counts[dom.Literature],
		Taxonomy:   counts[dom.Taxonomy],
		Samples:    counts[dom.Samples],
	}, nil
}

// kindLabel keeps metric cardinality bounded for unknown kinds.
func kindLabel(kind dom.Kind) string {
	if kind.IsValid() {
		return string(kind)
	}
	return "unknown"
}

// String formats stats for CLI output.
func (st Stats) String() string {
	return "literature=" + strconv.Itoa(st.Literature) +
		" taxonomy=" + strconv.Itoa(st.Taxonomy) +
		" samples=" + strconv.Itoa(st.Samples)
}
