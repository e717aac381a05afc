// Package blob defines read-only access to bundled record assets
// (literature.json, taxonomy.json, sample.json).
package blob

import (
	"context"
	"errors"
)

// Driver identifies a concrete asset backend.
type Driver string

const (
	// DriverFilesystem reads assets from a local directory.
	DriverFilesystem Driver = "fs"
	// DriverHTTP fetches assets relative to a base URL.
	DriverHTTP Driver = "http"
	// DriverS3 reads assets from an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
)

// ErrNotFound is returned when an asset does not exist.
var ErrNotFound = errors.New("blob: asset not found")

// Reader reads a named asset in full.
type Reader interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Driver() Driver
}
