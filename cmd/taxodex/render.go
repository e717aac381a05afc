package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kailas-cloud/taxodex/internal/domain/record"
)

const aboutText = `taxodex browses three linked tables: literature, the taxa they
describe and the samples collected for each taxon. Search matches any
field of the current table, ignoring case.`

func writeList(w io.Writer, kind record.Kind, query string, loading bool, recs []record.Record) {
	status := ""
	if loading {
		status = " [loading]"
	}
	_, _ = fmt.Fprintf(w, "%s (%d) search=%q%s\n", kind, len(recs), query, status)
	if len(recs) == 0 {
		_, _ = fmt.Fprintln(w, "  no records")
		return
	}
	for _, rec := range recs {
		_, _ = fmt.Fprintf(w, "  %-8s %s\n", rec.RecordID(), summary(rec))
	}
}

func writeDetail(w io.Writer, kind record.Kind, rec record.Record) {
	_, _ = fmt.Fprintf(w, "selected %s %s\n", kind, rec.RecordID())
	data, err := json.MarshalIndent(rec, "  ", "  ")
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "  %s\n", data)
}

// summary is the one-line description of a record in lists.
func summary(rec record.Record) string {
	switch r := rec.(type) {
	case *record.LiteratureEntry:
		if r.Year != "" {
			return fmt.Sprintf("%s (%s)", r.Title, r.Year)
		}
		return r.Title
	case *record.Taxon:
		if r.Level != "" {
			return fmt.Sprintf("%s [%s]", r.Name, r.Level)
		}
		return r.Name
	case *record.Sample:
		lat, _ := r.Field("latitude")
		lon, _ := r.Field("longitude")
		if lat == "" && lon == "" {
			return r.Collector
		}
		return fmt.Sprintf("%s @ %s,%s", r.Collector, lat, lon)
	default:
		return ""
	}
}
