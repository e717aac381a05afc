package taxodex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/taxodex/internal/domain"
	"github.com/kailas-cloud/taxodex/internal/domain/record"
	"github.com/kailas-cloud/taxodex/internal/transport/api"
)

const maxResponseBytes = 64 << 20

// Client talks to a taxodex query API.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	obs     *observer
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("taxodex: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("taxodex: base url must be http or https, got %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := cfg.timeout
	if timeout <= 0 && cfg.httpClient == nil {
		timeout = defaultTimeout
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return &Client{base: u, http: hc, timeout: timeout, obs: obs}, nil
}

// Search returns the records of kind matching query, in server order.
// An empty query returns the whole collection.
func (c *Client) Search(ctx context.Context, kind Kind, query string) (recs []Record, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", kind, start, err) }()

	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}

	body, err := c.get(ctx, []string{"api", string(kind)}, url.Values{api.QuerySearch: {query}})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", kind, err)
	}
	recs, err = record.DecodeList(kind, body)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", kind, err)
	}
	return recs, nil
}

// GenerateID asks the server for a fresh identifier for kind. Failures are
// logged and yield "".
func (c *Client) GenerateID(ctx context.Context, kind Kind) string {
	start := time.Now()
	id, err := c.generateID(ctx, kind)
	c.obs.observe("generate_id", kind, start, err)
	if err != nil {
		return ""
	}
	return id
}

func (c *Client) generateID(ctx context.Context, kind Kind) (string, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	body, err := c.get(ctx, []string{"api", "generate-id", idType(kind)}, nil)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	var resp api.GenerateIDResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("generate id: decode: %w", err)
	}
	if resp.ID == "" {
		return "", errors.New("generate id: empty id in response")
	}
	return resp.ID, nil
}

// Stats returns the number of records in each collection.
func (c *Client) Stats(ctx context.Context) (st Stats, err error) {
	start := time.Now()
	defer func() { c.obs.observe("stats", "", start, err) }()

	body, err := c.get(ctx, []string{"api", "stats"}, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	var resp api.StatsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Stats{}, fmt.Errorf("stats: decode: %w", err)
	}
	return Stats{
		Literature: resp.LiteratureCount,
		Taxonomy:   resp.TaxonomyCount,
		Samples:    resp.SampleCount,
	}, nil
}

// Health reads the server health report. A degraded server answers 503
// with a report; that is returned without error.
func (c *Client) Health(ctx context.Context) (hs HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", "", start, err) }()

	body, status, err := c.do(ctx, []string{"health"}, nil)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("health: %w", err)
	}
	if status != http.StatusOK && status != http.StatusServiceUnavailable {
		return HealthStatus{}, fmt.Errorf("health: %w", remoteError(status, body))
	}
	var resp api.HealthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return HealthStatus{}, fmt.Errorf("health: decode: %w", err)
	}
	return HealthStatus{Status: string(resp.Status), Checks: resp.Checks}, nil
}

// get performs a GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path []string, query url.Values) ([]byte, error) {
	body, status, err := c.do(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, remoteError(status, body)
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, path []string, query url.Values) ([]byte, int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.base.JoinPath(path...)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read body: %w", domain.ErrSourceUnavailable, err)
	}
	return body, resp.StatusCode, nil
}

func remoteError(status int, body []byte) error {
	var e api.ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return domain.NewRemoteError(status, e.Message)
	}
	return domain.NewRemoteError(status, "")
}

// idType is the path segment the id endpoint expects for kind.
func idType(kind Kind) string {
	if kind == KindSamples {
		return "sample"
	}
	return string(kind)
}
