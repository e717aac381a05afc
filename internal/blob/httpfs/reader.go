package httpfs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/taxodex/internal/blob"
)

// maxAssetSize caps a single asset download.
const maxAssetSize = 64 << 20

// Reader implements blob.Reader by fetching assets relative to a base URL,
// the way a page fetches its bundled JSON.
type Reader struct {
	base   *url.URL
	client *http.Client
}

var _ blob.Reader = (*Reader)(nil)

// New creates a reader for baseURL. A nil client gets a 10s timeout default.
func New(baseURL string, client *http.Client) (*Reader, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", u.Scheme)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Reader{base: u, client: client}, nil
}

// Driver returns blob.DriverHTTP.
func (r *Reader) Driver() blob.Driver { return blob.DriverHTTP }

// Read downloads name resolved against the base URL.
func (r *Reader) Read(ctx context.Context, name string) ([]byte, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("parse asset name %q: %w", name, err)
	}
	target := r.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", blob.ErrNotFound, name)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", target, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	return data, nil
}
