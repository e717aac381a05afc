package record

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"

	"github.com/kailas-cloud/taxodex/internal/blob"
	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeLoader implements Loader for tests.
type fakeLoader struct {
	cols  dom.Collections
	err   error
	gate  chan struct{}
	calls atomic.Int32
}

func (f *fakeLoader) Name() string { return "fake" }

func (f *fakeLoader) Load(ctx context.Context) (dom.Collections, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return dom.Collections{}, ctx.Err()
		}
	}
	return f.cols, f.err
}

// mapReader implements blob.Reader over an in-memory map.
type mapReader struct {
	files map[string]string
	err   error
}

func (m *mapReader) Driver() blob.Driver { return blob.DriverHTTP }

func (m *mapReader) Read(_ context.Context, name string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.files[name]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return []byte(v), nil
}

// mockKV implements kvStore for tests.
type mockKV struct {
	mgetFn func(ctx context.Context, keys []string) ([][]byte, error)
}

func (m *mockKV) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if m.mgetFn != nil {
		return m.mgetFn(ctx, keys)
	}
	return nil, errors.New("not configured")
}

func testCollections() dom.Collections {
	return dom.Collections{
		Literature: []dom.LiteratureEntry{{ID: "LIT001", Title: "Butterflies"}},
		Taxonomy:   []dom.Taxon{{ID: "TAX001", Name: "Amazonia papilionis"}, {ID: "TAX002", Name: "Panthera tigris altaica"}},
	}
}

func recordIDs(recs []dom.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.RecordID()
	}
	return out
}
