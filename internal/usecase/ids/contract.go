package ids

import (
	"context"

	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
)

// Allocator mints identifiers for a collection.
type Allocator interface {
	Next(ctx context.Context, kind dom.Kind) (string, error)
	Name() string
}
