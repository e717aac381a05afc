package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/taxodex/internal/blob"
)

// Reader implements blob.Reader over a local directory.
type Reader struct {
	root string
}

var _ blob.Reader = (*Reader)(nil)

// New returns a reader rooted at dir. The directory must exist.
func New(dir string) (*Reader, error) {
	if dir == "" {
		dir = "."
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("asset dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset dir %s is not a directory", dir)
	}
	return &Reader{root: dir}, nil
}

// Driver returns blob.DriverFilesystem.
func (r *Reader) Driver() blob.Driver { return blob.DriverFilesystem }

// Read returns the content of name under the root.
func (r *Reader) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := sanitizeName(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(r.root, clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", blob.ErrNotFound, name)
		}
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}
	return data, nil
}

// sanitizeName forbids traversal outside the root and absolute paths.
func sanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty asset name")
	}
	if strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid asset name contains '..'")
	}
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid absolute asset name")
	}
	return filepath.Clean(name), nil
}
