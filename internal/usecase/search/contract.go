package search

import (
	"context"

	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
)

// Repository provides the loaded collections.
type Repository interface {
	List(ctx context.Context, kind dom.Kind) ([]dom.Record, error)
	Counts(ctx context.Context) (map[dom.Kind]int, error)
}
