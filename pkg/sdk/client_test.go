package taxodex

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/taxodex/internal/repository/idgen"
	recordrepo "github.com/kailas-cloud/taxodex/internal/repository/record"
	chiTransport "github.com/kailas-cloud/taxodex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/taxodex/internal/usecase/health"
	idsuc "github.com/kailas-cloud/taxodex/internal/usecase/ids"
	searchuc "github.com/kailas-cloud/taxodex/internal/usecase/search"
)

// newAPIServer runs the real query API over the embedded sample data.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := recordrepo.NewStore(nil)
	if err := store.Load(context.Background(), recordrepo.EmbeddedLoader{}); err != nil {
		t.Fatal(err)
	}
	srv := chiTransport.NewServer(
		searchuc.New(store),
		idsuc.New(idgen.NewUUID()),
		healthuc.New(store, nil),
		nil,
	)
	ts := httptest.NewServer(srv.Router(""))
	t.Cleanup(ts.Close)
	return ts
}

func recordIDs(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.RecordID()
	}
	return out
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8000", "ftp://host/", "://bad"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q): expected error", u)
		}
	}
}

func TestClientOptions(t *testing.T) {
	hc := &http.Client{}
	c, err := New("http://localhost:8000", WithHTTPClient(hc), WithTimeout(3*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if c.http != hc {
		t.Error("expected custom http client")
	}
	if c.timeout != 3*time.Second {
		t.Errorf("timeout = %v", c.timeout)
	}
	if c.base.String() != "http://localhost:8000/" {
		t.Errorf("base = %q", c.base.String())
	}

	c, _ = New("http://localhost:8000/sub")
	if c.timeout != defaultTimeout {
		t.Errorf("expected default timeout, got %v", c.timeout)
	}
	if c.base.Path != "/sub/" {
		t.Errorf("base path = %q", c.base.Path)
	}
}

func TestSearch(t *testing.T) {
	c, err := New(newAPIServer(t).URL)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		kind  Kind
		query string
		want  []string
	}{
		{KindLiterature, "panther", []string{"LIT002"}},
		{KindLiterature, "2023", []string{"LIT001"}},
		{KindLiterature, "xyz", []string{}},
		{KindTaxonomy, "tigris", []string{"TAX002", "TAX003"}},
		{KindSamples, "", []string{"SMP001", "SMP002"}},
		{KindSamples, "dr. smith", []string{"SMP001"}},
	}
	for _, tc := range tests {
		t.Run(string(tc.kind)+"/"+tc.query, func(t *testing.T) {
			recs, err := c.Search(context.Background(), tc.kind, tc.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, recordIDs(recs)); diff != "" {
				t.Errorf("Search() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearch_TypedRecords(t *testing.T) {
	c, _ := New(newAPIServer(t).URL)
	recs, err := c.Search(context.Background(), KindSamples, "SMP002")
	if err != nil || len(recs) != 1 {
		t.Fatalf("unexpected result %v, %v", recs, err)
	}
	s, ok := recs[0].(*Sample)
	if !ok {
		t.Fatalf("expected *Sample, got %T", recs[0])
	}
	if s.Latitude == nil || *s.Latitude != 45.678912 {
		t.Errorf("latitude = %v", s.Latitude)
	}
}

func TestSearch_UnknownKind(t *testing.T) {
	c, _ := New("http://localhost:1")
	if _, err := c.Search(context.Background(), Kind("minerals"), ""); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestSearch_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"code":"not_ready","message":"records not ready"}`))
	}))
	defer ts.Close()

	c, _ := New(ts.URL)
	_, err := c.Search(context.Background(), KindTaxonomy, "x")
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	var re *RemoteError
	if !errors.As(err, &re) || re.Status != http.StatusServiceUnavailable || re.Message != "records not ready" {
		t.Errorf("unexpected remote error %+v", re)
	}
}

func TestSearch_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer ts.Close()

	c, _ := New(ts.URL)
	if _, err := c.Search(context.Background(), KindLiterature, ""); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSearch_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, _ := New(url, WithTimeout(time.Second))
	if _, err := c.Search(context.Background(), KindLiterature, ""); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestSearch_SendsQuery(t *testing.T) {
	var gotPath, gotSearch string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSearch = r.URL.Query().Get("search")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c, _ := New(ts.URL + "/prefix")
	if _, err := c.Search(context.Background(), KindTaxonomy, "panthera tigris&x"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/prefix/api/taxonomy" {
		t.Errorf("path = %q", gotPath)
	}
	if gotSearch != "panthera tigris&x" {
		t.Errorf("search = %q", gotSearch)
	}
}

func TestGenerateID(t *testing.T) {
	c, _ := New(newAPIServer(t).URL)
	for kind, prefix := range map[Kind]string{KindLiterature: "LIT-", KindTaxonomy: "TAX-", KindSamples: "SMP-"} {
		id := c.GenerateID(context.Background(), kind)
		if !strings.HasPrefix(id, prefix) {
			t.Errorf("%s: id %q lacks prefix %q", kind, id, prefix)
		}
	}
}

func TestGenerateID_SilentDegrade(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c, _ := New(ts.URL, WithLogger(logger))
	if id := c.GenerateID(context.Background(), KindLiterature); id != "" {
		t.Errorf("expected empty id, got %q", id)
	}
	if id := c.GenerateID(context.Background(), Kind("minerals")); id != "" {
		t.Errorf("expected empty id, got %q", id)
	}
	if !strings.Contains(buf.String(), "op=generate_id") {
		t.Errorf("expected failure to be logged, got %q", buf.String())
	}
}

func TestStats(t *testing.T) {
	c, _ := New(newAPIServer(t).URL)
	st, err := c.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Stats{Literature: 2, Taxonomy: 3, Samples: 2}, st); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

func TestHealth(t *testing.T) {
	c, _ := New(newAPIServer(t).URL)
	hs, err := c.Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if hs.Status != "ok" || hs.Checks["records"] != "ok" {
		t.Errorf("unexpected health %+v", hs)
	}
}

func TestHealth_Degraded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"degraded","checks":{"records":"loading"}}`))
	}))
	defer ts.Close()

	c, _ := New(ts.URL)
	hs, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("degraded report must not be an error: %v", err)
	}
	if hs.Status != "degraded" || hs.Checks["records"] != "loading" {
		t.Errorf("unexpected health %+v", hs)
	}
}

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ts := newAPIServer(t)

	c, err := New(ts.URL, WithPrometheus(reg))
	if err != nil {
		t.Fatal(err)
	}
	_, _ = c.Search(context.Background(), KindTaxonomy, "tigris")
	_, _ = c.Search(context.Background(), Kind("nope"), "")

	// A second client on the same registry reuses the collectors.
	c2, err := New(ts.URL, WithPrometheus(reg))
	if err != nil {
		t.Fatalf("second client: %v", err)
	}
	_, _ = c2.Search(context.Background(), KindTaxonomy, "")

	if v := testutil.ToFloat64(c.obs.metrics.requests.WithLabelValues("search", "taxonomy", "ok")); v != 2 {
		t.Errorf("expected 2 ok searches, got %v", v)
	}
	if v := testutil.ToFloat64(c.obs.metrics.requests.WithLabelValues("search", "nope", "error")); v != 1 {
		t.Errorf("expected 1 failed search, got %v", v)
	}
}

func TestRegisterOrReuse_IncompatibleType(t *testing.T) {
	reg := prometheus.NewRegistry()
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "taxodex", Subsystem: "sdk", Name: "requests_total", Help: "Query API calls by operation, collection and status.",
	}, []string{"operation", "collection", "status"})
	reg.MustRegister(gauge)

	if _, err := New("http://localhost:8000", WithPrometheus(reg)); err == nil {
		t.Fatal("expected error for incompatible collector")
	}
}

func TestNilObserver(t *testing.T) {
	var o *observer
	o.observe("search", KindLiterature, time.Now(), errors.New("ignored"))
}
