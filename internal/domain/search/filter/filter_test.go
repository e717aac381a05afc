package filter

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/taxodex/internal/domain/record"
)

func f64(v float64) *float64 { return &v }

func literature() []record.Record {
	return []record.Record{
		&record.LiteratureEntry{
			ID:      "LIT001",
			Title:   "A new species of butterfly from Amazon rainforest",
			Authors: "Smith, J.; Johnson, A.",
			Journal: "Journal of Insect Taxonomy",
			Year:    "2023",
			DOI:     "10.1234/jit.2023.001",
		},
		&record.LiteratureEntry{
			ID:      "LIT002",
			Title:   "Revision of the genus Panthera in Asia",
			Authors: "Brown, T.; Davis, M.",
			Journal: "Mammalian Biology",
			Year:    "2022",
			DOI:     "10.5678/mb.2022.002",
		},
	}
}

func taxonomy() []record.Record {
	return []record.Record{
		&record.Taxon{ID: "TAX001", Name: "Amazonia papilionis", Level: "Species", LitID: "LIT001"},
		&record.Taxon{ID: "TAX002", Name: "Panthera tigris altaica", Level: "Species", LitID: "LIT002", ParentTaxID: "TAX003"},
		&record.Taxon{ID: "TAX003", Name: "Panthera tigris", Level: "Species", LitID: "LIT002"},
	}
}

func samples() []record.Record {
	return []record.Record{
		&record.Sample{ID: "SMP001", TaxID: "TAX001", Collector: "Dr. Smith", Latitude: f64(3.456789), Longitude: f64(-60.123456)},
		&record.Sample{ID: "SMP002", TaxID: "TAX002", Collector: "Dr. Brown", Latitude: f64(45.678912), Longitude: f64(120.345678)},
		&record.Sample{ID: "SMP003", Collector: "Dr. Lee"},
	}
}

func ids(recs []record.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.RecordID()
	}
	return out
}

func TestApply_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		recs   []record.Record
		query  string
		fields []string
		want   []string
	}{
		{"title panther", literature(), "panther", []string{"title"}, []string{"LIT002"}},
		{"year 2023", literature(), "2023", []string{"year"}, []string{"LIT001"}},
		{"no match", literature(), "xyz", []string{"title", "authors"}, []string{}},
		{"tigris on name", taxonomy(), "tigris", []string{"name"}, []string{"TAX002", "TAX003"}},
		{"case insensitive", literature(), "PANTHERA", []string{"title"}, []string{"LIT002"}},
		{"numeric latitude", samples(), "45.67", []string{"latitude"}, []string{"SMP002"}},
		{"negative longitude", samples(), "-60.1", []string{"longitude"}, []string{"SMP001"}},
		{"or across fields", taxonomy(), "lit001", []string{"name", "lit_id"}, []string{"TAX001"}},
		{"unknown field", samples(), "dr", []string{"nope"}, []string{}},
		{"all kind fields", samples(), "dr.", record.Samples.SearchFields(), []string{"SMP001", "SMP002", "SMP003"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Apply(tc.recs, tc.query, tc.fields))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_EmptyQueryIsIdentity(t *testing.T) {
	recs := taxonomy()
	got := Apply(recs, "", []string{"name"})
	if len(got) != len(recs) {
		t.Fatalf("expected %d records, got %d", len(recs), len(got))
	}
	if &got[0] != &recs[0] {
		t.Error("empty query must return the input slice itself")
	}

	if got := Apply(recs, "", nil); len(got) != len(recs) {
		t.Error("empty query must ignore the field set")
	}
}

func TestApply_SubsetSoundAndComplete(t *testing.T) {
	recs := append(append(literature(), taxonomy()...), samples()...)
	fields := []string{"id", "title", "name", "collector", "latitude", "lit_id"}

	for _, q := range []string{"a", "Pan", "00", "dr", "lit", "3.4", "zzz"} {
		got := Apply(recs, q, fields)
		kept := make(map[string]bool, len(got))
		for _, r := range got {
			kept[r.RecordID()] = true
		}
		lq := strings.ToLower(q)
		for _, r := range recs {
			hit := false
			for _, f := range fields {
				if v, ok := r.Field(f); ok && strings.Contains(strings.ToLower(v), lq) {
					hit = true
				}
			}
			if hit != kept[r.RecordID()] {
				t.Errorf("query %q: record %s hit=%v kept=%v", q, r.RecordID(), hit, kept[r.RecordID()])
			}
		}
		if len(got) > len(recs) {
			t.Errorf("query %q: result larger than input", q)
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	recs := taxonomy()
	fields := record.Taxonomy.SearchFields()
	for _, q := range []string{"panthera", "species", "TAX", "x"} {
		once := Apply(recs, q, fields)
		twice := Apply(once, q, fields)
		if diff := cmp.Diff(ids(once), ids(twice)); diff != "" {
			t.Errorf("query %q not idempotent (-once +twice):\n%s", q, diff)
		}
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	got := ids(Apply(taxonomy(), "species", []string{"level"}))
	want := []string{"TAX001", "TAX002", "TAX003"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_NilInput(t *testing.T) {
	got := Apply[record.Record](nil, "q", []string{"id"})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestMatch_ShortCircuits(t *testing.T) {
	c := &countingFielder{values: map[string]string{"a": "hit", "b": "hit"}}
	if !Match(c, "hit", []string{"a", "b"}) {
		t.Fatal("expected match")
	}
	if c.calls != 1 {
		t.Errorf("expected 1 field lookup, got %d", c.calls)
	}
}

type countingFielder struct {
	values map[string]string
	calls  int
}

func (c *countingFielder) Field(name string) (string, bool) {
	c.calls++
	v, ok := c.values[name]
	return v, ok
}
