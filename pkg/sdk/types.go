package taxodex

import "github.com/kailas-cloud/taxodex/internal/domain/record"

// Kind names a record collection.
type Kind = record.Kind

// Collection kinds.
const (
	KindLiterature = record.Literature
	KindTaxonomy   = record.Taxonomy
	KindSamples    = record.Samples
)

// Record is a literature entry, taxon or sample. Use a type switch on
// *Literature, *Taxon or *Sample for typed access.
type Record = record.Record

// Literature is a bibliographic entry.
type Literature = record.LiteratureEntry

// Taxon is a taxonomic name.
type Taxon = record.Taxon

// Sample is a collected specimen.
type Sample = record.Sample

// Stats holds per-collection record counts.
type Stats struct {
	Literature int
	Taxonomy   int
	Samples    int
}

// HealthStatus represents the aggregated server health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"loading"/"error"
}
