package record

import (
	"context"
	"fmt"

	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
)

// collectionSearcher fetches a collection from another query API.
type collectionSearcher interface {
	Search(ctx context.Context, kind dom.Kind, query string) ([]dom.Record, error)
}

// RemoteLoader mirrors the collections of another taxodex server by
// searching each one with an empty query.
type RemoteLoader struct {
	remote collectionSearcher
}

// NewRemoteLoader creates a RemoteLoader.
func NewRemoteLoader(remote collectionSearcher) *RemoteLoader {
	return &RemoteLoader{remote: remote}
}

// Name implements Loader.
func (l *RemoteLoader) Name() string { return "remote" }

// Load implements Loader.
func (l *RemoteLoader) Load(ctx context.Context) (dom.Collections, error) {
	var cols dom.Collections
	for _, k := range dom.Kinds {
		recs, err := l.remote.Search(ctx, k, "")
		if err != nil {
			return dom.Collections{}, fmt.Errorf("fetch %s: %w", k, err)
		}
		if err := cols.Set(k, recs); err != nil {
			return dom.Collections{}, err //nolint:wrapcheck // kind mismatch is self-describing
		}
	}
	return cols, nil
}
