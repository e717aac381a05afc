package record

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/taxodex/internal/domain"
)

// Kind names one of the three record collections.
type Kind string

// Collection kinds.
const (
	Literature Kind = "literature"
	Taxonomy   Kind = "taxonomy"
	Samples    Kind = "samples"
)

// Kinds lists every collection in display order.
var Kinds = []Kind{Literature, Taxonomy, Samples}

var (
	literatureFields = []string{"id", "title", "authors", "journal", "year", "doi", "abstract"}
	taxonomyFields   = []string{"id", "name", "level", "type", "lit_id", "description"}
	sampleFields     = []string{"id", "tax_id", "collector", "latitude", "longitude", "description"}
)

// ParseKind resolves a collection name. The singular "sample" is accepted
// because the id endpoint has always used it.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "literature":
		return Literature, nil
	case "taxonomy":
		return Taxonomy, nil
	case "samples", "sample":
		return Samples, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownKind, s)
	}
}

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == Literature || k == Taxonomy || k == Samples
}

// Prefix returns the id prefix for records of this kind.
func (k Kind) Prefix() string {
	switch k {
	case Literature:
		return "LIT"
	case Taxonomy:
		return "TAX"
	case Samples:
		return "SMP"
	default:
		return ""
	}
}

// SearchFields returns the ordered fields searched for this kind.
// The returned slice must not be modified.
func (k Kind) SearchFields() []string {
	switch k {
	case Literature:
		return literatureFields
	case Taxonomy:
		return taxonomyFields
	case Samples:
		return sampleFields
	default:
		return nil
	}
}

// AssetName returns the bundled JSON file name for this kind.
func (k Kind) AssetName() string {
	if k == Samples {
		return "sample.json"
	}
	return string(k) + ".json"
}
