// Package api holds the JSON wire types of the query API shared by the
// HTTP server and the remote client.
package api

// Route paths.
const (
	PathCollection = "/api/{collection}"
	PathGenerateID = "/api/generate-id/{type}"
	PathStats      = "/api/stats"
	PathHealth     = "/health"
	PathMetrics    = "/metrics"

	// QuerySearch is the free-text query parameter of collection searches.
	QuerySearch = "search"
)

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Defines values for ErrorResponseCode.
const (
	ErrorResponseCodeBadRequest         ErrorResponseCode = "bad_request"
	ErrorResponseCodeCollectionNotFound ErrorResponseCode = "collection_not_found"
	ErrorResponseCodeNotFound           ErrorResponseCode = "not_found"
	ErrorResponseCodeMethodNotAllowed   ErrorResponseCode = "method_not_allowed"
	ErrorResponseCodeNotReady           ErrorResponseCode = "not_ready"
	ErrorResponseCodeSourceUnavailable  ErrorResponseCode = "source_unavailable"
	ErrorResponseCodeInternalError      ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// GenerateIDResponse is the body of GET /api/generate-id/{type}.
type GenerateIDResponse struct {
	ID string `json:"id"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	LiteratureCount int `json:"literature_count"`
	TaxonomyCount   int `json:"taxonomy_count"`
	SampleCount     int `json:"sample_count"`
}

// HealthResponseStatus is the aggregated health status.
type HealthResponseStatus string

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status HealthResponseStatus `json:"status"`
	Checks map[string]string    `json:"checks"`
}
