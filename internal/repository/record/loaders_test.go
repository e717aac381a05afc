package record

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	fsblob "github.com/kailas-cloud/taxodex/internal/blob/fs"
	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
)

func TestEmbeddedLoader(t *testing.T) {
	cols, err := EmbeddedLoader{}.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"LIT001", "LIT002"}, recordIDs(cols.Of(dom.Literature))); diff != "" {
		t.Errorf("literature mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"TAX001", "TAX002", "TAX003"}, recordIDs(cols.Of(dom.Taxonomy))); diff != "" {
		t.Errorf("taxonomy mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"SMP001", "SMP002"}, recordIDs(cols.Of(dom.Samples))); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestAssetLoader_Reads(t *testing.T) {
	r := &mapReader{files: map[string]string{
		"literature.json": `[{"id":"LIT009","title":"Beetles"}]`,
		"taxonomy.json":   `[]`,
		"sample.json":     `[{"id":"SMP009","latitude":1.5}]`,
	}}
	cols, err := NewAssetLoader(r, EmbeddedLoader{}, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := recordIDs(cols.Of(dom.Literature)); len(got) != 1 || got[0] != "LIT009" {
		t.Errorf("unexpected literature %v", got)
	}
	if cols.Count(dom.Taxonomy) != 0 {
		t.Errorf("expected empty taxonomy, got %d", cols.Count(dom.Taxonomy))
	}
	if v, _ := cols.Samples[0].Field("latitude"); v != "1.5" {
		t.Errorf("latitude = %q, want 1.5", v)
	}
}

func TestAssetLoader_LooselyTypedValues(t *testing.T) {
	r := &mapReader{files: map[string]string{
		"literature.json": `[{"id":"LIT009","year":2021},{"id":"LIT010","year":"2022"}]`,
		"taxonomy.json":   `[{"id":"TAX009","lit_id":9,"parent_tax_id":null}]`,
		"sample.json":     `[{"id":"SMP009","latitude":"3.45","longitude":-60.1}]`,
	}}
	cols, err := NewAssetLoader(r, nil, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"LIT009", "LIT010"}, recordIDs(cols.Of(dom.Literature))); diff != "" {
		t.Errorf("literature mismatch (-want +got):\n%s", diff)
	}
	if v, _ := cols.Literature[0].Field("year"); v != "2021" {
		t.Errorf("year = %q, want 2021", v)
	}
	if v, _ := cols.Taxonomy[0].Field("lit_id"); v != "9" {
		t.Errorf("lit_id = %q, want 9", v)
	}
	if v, _ := cols.Samples[0].Field("latitude"); v != "3.45" {
		t.Errorf("latitude = %q, want 3.45", v)
	}
}

func TestAssetLoader_FallsBackOnMissingAsset(t *testing.T) {
	r := &mapReader{files: map[string]string{"literature.json": `[]`}}
	cols, err := NewAssetLoader(r, EmbeddedLoader{}, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols.Count(dom.Literature) != 2 {
		t.Errorf("expected embedded literature after fallback, got %d", cols.Count(dom.Literature))
	}
}

func TestAssetLoader_FallsBackOnBadJSON(t *testing.T) {
	r := &mapReader{files: map[string]string{
		"literature.json": `{not json`,
		"taxonomy.json":   `[]`,
		"sample.json":     `[]`,
	}}
	cols, err := NewAssetLoader(r, EmbeddedLoader{}, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols.Count(dom.Taxonomy) != 3 {
		t.Errorf("expected embedded taxonomy after fallback, got %d", cols.Count(dom.Taxonomy))
	}
}

func TestAssetLoader_NoFallback(t *testing.T) {
	r := &mapReader{err: errors.New("network down")}
	if _, err := NewAssetLoader(r, nil, nil).Load(context.Background()); err == nil {
		t.Fatal("expected error without fallback")
	}
}

func TestAssetLoader_Filesystem(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"literature.json": `[{"id":"LIT100"}]`,
		"taxonomy.json":   `[{"id":"TAX100","name":"Felis catus"}]`,
		"sample.json":     `null`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	r, err := fsblob.New(dir)
	if err != nil {
		t.Fatal(err)
	}

	l := NewAssetLoader(r, nil, nil)
	if l.Name() != "assets:fs" {
		t.Errorf("Name() = %q", l.Name())
	}
	cols, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols.Count(dom.Literature) != 1 || cols.Count(dom.Taxonomy) != 1 || cols.Count(dom.Samples) != 0 {
		t.Errorf("unexpected counts: %+v", cols)
	}
}

func TestRedisLoader(t *testing.T) {
	var gotKeys []string
	kv := &mockKV{mgetFn: func(_ context.Context, keys []string) ([][]byte, error) {
		gotKeys = keys
		return [][]byte{
			[]byte(`[{"id":"LIT001","title":"Butterflies"}]`),
			nil,
			[]byte(`[{"id":"SMP001","collector":"Dr. Smith"}]`),
		}, nil
	}}

	cols, err := NewRedisLoader(kv, "taxodex:").Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"taxodex:literature", "taxodex:taxonomy", "taxodex:samples"}
	if diff := cmp.Diff(want, gotKeys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if cols.Count(dom.Literature) != 1 || cols.Count(dom.Taxonomy) != 0 || cols.Count(dom.Samples) != 1 {
		t.Errorf("unexpected counts: %+v", cols)
	}
}

func TestRedisLoader_Errors(t *testing.T) {
	tests := []struct {
		name string
		fn   func(context.Context, []string) ([][]byte, error)
	}{
		{"mget error", func(context.Context, []string) ([][]byte, error) { return nil, errors.New("boom") }},
		{"short reply", func(context.Context, []string) ([][]byte, error) { return [][]byte{nil}, nil }},
		{"bad json", func(context.Context, []string) ([][]byte, error) {
			return [][]byte{[]byte("{"), nil, nil}, nil
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRedisLoader(&mockKV{mgetFn: tc.fn}, "p:").Load(context.Background()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSQLiteLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = conn.Close() }()

	ctx := context.Background()
	if _, err := conn.ExecContext(ctx, Schema); err != nil {
		t.Fatal(err)
	}
	rows := []struct{ kind, id, payload string }{
		{"taxonomy", "TAX003", `{"id":"TAX003","name":"Panthera tigris"}`},
		{"literature", "LIT001", `{"id":"LIT001","title":"Butterflies"}`},
		{"taxonomy", "TAX002", `{"id":"TAX002","name":"Panthera tigris altaica"}`},
		{"sample", "SMP001", `{"id":"SMP001","latitude":3.45}`},
		{"minerals", "MIN001", `{"id":"MIN001"}`},
	}
	for _, r := range rows {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO records (kind, id, payload) VALUES (?, ?, ?)`, r.kind, r.id, r.payload); err != nil {
			t.Fatal(err)
		}
	}

	cols, err := NewSQLiteLoader(path, nil).Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"TAX003", "TAX002"}, recordIDs(cols.Of(dom.Taxonomy))); diff != "" {
		t.Errorf("taxonomy order mismatch (-want +got):\n%s", diff)
	}
	if cols.Count(dom.Literature) != 1 || cols.Count(dom.Samples) != 1 {
		t.Errorf("unexpected counts: %+v", cols)
	}
}

func TestSQLiteLoader_MissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	if _, err := NewSQLiteLoader(path, nil).Load(context.Background()); err == nil {
		t.Fatal("expected error for missing records table")
	}
}

type mockRemote struct {
	cols    dom.Collections
	err     error
	queries []string
}

func (m *mockRemote) Search(_ context.Context, kind dom.Kind, query string) ([]dom.Record, error) {
	m.queries = append(m.queries, string(kind)+"?"+query)
	if m.err != nil {
		return nil, m.err
	}
	return m.cols.Of(kind), nil
}

func TestRemoteLoader(t *testing.T) {
	remote := &mockRemote{cols: testCollections()}
	cols, err := NewRemoteLoader(remote).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"literature?", "taxonomy?", "samples?"}, remote.queries); diff != "" {
		t.Errorf("queries mismatch (-want +got):\n%s", diff)
	}
	if cols.Count(dom.Taxonomy) != 2 || cols.Count(dom.Literature) != 1 {
		t.Errorf("unexpected counts: %+v", cols)
	}
}

func TestRemoteLoader_Error(t *testing.T) {
	remote := &mockRemote{err: errors.New("unreachable")}
	if _, err := NewRemoteLoader(remote).Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
