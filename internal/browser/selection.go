package browser

import (
	"sync"

	"github.com/kailas-cloud/taxodex/internal/domain/record"
)

// Selection holds the single selected record and its kind.
// The zero value is an empty selection.
type Selection struct {
	mu   sync.RWMutex
	rec  record.Record
	kind record.Kind
}

// Select replaces any prior selection.
func (s *Selection) Select(rec record.Record, kind record.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = rec
	s.kind = kind
}

// Deselect clears the record and its kind.
func (s *Selection) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	s.kind = ""
}

// Current returns the selected record and kind. ok is false when nothing
// is selected.
func (s *Selection) Current() (rec record.Record, kind record.Kind, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec, s.kind, s.rec != nil
}
