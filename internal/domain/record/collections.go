package record

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/taxodex/internal/domain"
)

// Collections holds the three record collections in load order.
type Collections struct {
	Literature []LiteratureEntry `json:"literature"`
	Taxonomy   []Taxon           `json:"taxonomy"`
	Samples    []Sample          `json:"samples"`
}

// Of returns the collection for kind as records, preserving order.
// The records point into c; callers must treat them as read-only.
func (c *Collections) Of(kind Kind) []Record {
	var out []Record
	switch kind {
	case Literature:
		out = make([]Record, len(c.Literature))
		for i := range c.Literature {
			out[i] = &c.Literature[i]
		}
	case Taxonomy:
		out = make([]Record, len(c.Taxonomy))
		for i := range c.Taxonomy {
			out[i] = &c.Taxonomy[i]
		}
	case Samples:
		out = make([]Record, len(c.Samples))
		for i := range c.Samples {
			out[i] = &c.Samples[i]
		}
	}
	return out
}

// Count returns the number of records of kind.
func (c *Collections) Count(kind Kind) int {
	switch kind {
	case Literature:
		return len(c.Literature)
	case Taxonomy:
		return len(c.Taxonomy)
	case Samples:
		return len(c.Samples)
	default:
		return 0
	}
}

// Set replaces the collection for kind from decoded records.
// Records of another kind are rejected.
func (c *Collections) Set(kind Kind, recs []Record) error {
	switch kind {
	case Literature:
		c.Literature = make([]LiteratureEntry, 0, len(recs))
		for _, r := range recs {
			l, ok := r.(*LiteratureEntry)
			if !ok {
				return fmt.Errorf("record %s is not literature", r.RecordID())
			}
			c.Literature = append(c.Literature, *l)
		}
	case Taxonomy:
		c.Taxonomy = make([]Taxon, 0, len(recs))
		for _, r := range recs {
			t, ok := r.(*Taxon)
			if !ok {
				return fmt.Errorf("record %s is not a taxon", r.RecordID())
			}
			c.Taxonomy = append(c.Taxonomy, *t)
		}
	case Samples:
		c.Samples = make([]Sample, 0, len(recs))
		for _, r := range recs {
			s, ok := r.(*Sample)
			if !ok {
				return fmt.Errorf("record %s is not a sample", r.RecordID())
			}
			c.Samples = append(c.Samples, *s)
		}
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	return nil
}

// DecodeList parses a JSON array of records of kind. A JSON null decodes
// to an empty list.
func DecodeList(kind Kind, data []byte) ([]Record, error) {
	switch kind {
	case Literature:
		var items []LiteratureEntry
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode literature: %w", err)
		}
		out := make([]Record, len(items))
		for i := range items {
			out[i] = &items[i]
		}
		return out, nil
	case Taxonomy:
		var items []Taxon
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode taxonomy: %w", err)
		}
		out := make([]Record, len(items))
		for i := range items {
			out[i] = &items[i]
		}
		return out, nil
	case Samples:
		var items []Sample
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode samples: %w", err)
		}
		out := make([]Record, len(items))
		for i := range items {
			out[i] = &items[i]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
}

// DecodeOne parses a single JSON object of kind.
func DecodeOne(kind Kind, data []byte) (Record, error) {
	var (
		rec Record
		err error
	)
	switch kind {
	case Literature:
		var l LiteratureEntry
		err = json.Unmarshal(data, &l)
		rec = &l
	case Taxonomy:
		var t Taxon
		err = json.Unmarshal(data, &t)
		rec = &t
	case Samples:
		var s Sample
		err = json.Unmarshal(data, &s)
		rec = &s
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s record: %w", kind, err)
	}
	return rec, nil
}
