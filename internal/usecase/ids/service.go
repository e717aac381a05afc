package ids

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/taxodex/internal/domain"
	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
	"github.com/kailas-cloud/taxodex/internal/metrics"
)

// Service hands out fresh record identifiers.
type Service struct {
	alloc Allocator
}

// New creates an id service.
func New(alloc Allocator) *Service {
	return &Service{alloc: alloc}
}

// Generate returns a fresh identifier for kind.
func (s *Service) Generate(ctx context.Context, kind dom.Kind) (string, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	id, err := s.alloc.Next(ctx, kind)
	metrics.IDsGeneratedTotal.WithLabelValues(string(kind), s.alloc.Name(), metrics.Status(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("generate %s id: %w", kind, err)
	}
	return id, nil
}
