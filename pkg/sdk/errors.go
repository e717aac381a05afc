package taxodex

import "github.com/kailas-cloud/taxodex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrUnknownKind       = domain.ErrUnknownKind
	ErrSourceUnavailable = domain.ErrSourceUnavailable
)

// RemoteError carries the status of a non-2xx response. It matches
// ErrSourceUnavailable with errors.Is.
type RemoteError = domain.RemoteError
