package record

import (
	"context"
	"embed"

	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
)

//go:embed sampledata/*.json
var sampleData embed.FS

// EmbeddedLoader serves the sample collections compiled into the binary.
type EmbeddedLoader struct{}

// Name implements Loader.
func (EmbeddedLoader) Name() string { return "embedded" }

// Load implements Loader.
func (EmbeddedLoader) Load(_ context.Context) (dom.Collections, error) {
	var cols dom.Collections
	for _, k := range dom.Kinds {
		data, err := sampleData.ReadFile("sampledata/" + k.AssetName())
		if err != nil {
			return dom.Collections{}, err //nolint:wrapcheck // embedded files are fixed at build time
		}
		if err := decodeInto(&cols, k, data); err != nil {
			return dom.Collections{}, err
		}
	}
	return cols, nil
}

func decodeInto(cols *dom.Collections, kind dom.Kind, data []byte) error {
	recs, err := dom.DecodeList(kind, data)
	if err != nil {
		return err //nolint:wrapcheck // DecodeList names the kind
	}
	return cols.Set(kind, recs) //nolint:wrapcheck // same package family
}
