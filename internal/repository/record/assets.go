package record

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/taxodex/internal/blob"
	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
)

// AssetLoader reads literature.json, taxonomy.json and sample.json through
// a blob reader. Any failure falls back to the fallback loader.
type AssetLoader struct {
	reader   blob.Reader
	fallback Loader
	logger   *zap.Logger
}

// NewAssetLoader creates an AssetLoader. fallback may be nil, in which
// case read failures are returned.
func NewAssetLoader(r blob.Reader, fallback Loader, logger *zap.Logger) *AssetLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetLoader{reader: r, fallback: fallback, logger: logger}
}

// Name implements Loader.
func (l *AssetLoader) Name() string { return "assets:" + string(l.reader.Driver()) }

// Load implements Loader.
func (l *AssetLoader) Load(ctx context.Context) (dom.Collections, error) {
	cols, err := l.read(ctx)
	if err == nil {
		return cols, nil
	}
	if l.fallback == nil {
		return dom.Collections{}, err
	}
	l.logger.Warn("asset load failed, using fallback data",
		zap.String("driver", string(l.reader.Driver())),
		zap.String("fallback", l.fallback.Name()),
		zap.Error(err),
	)
	return l.fallback.Load(ctx) //nolint:wrapcheck // fallback loader errors are already descriptive
}

func (l *AssetLoader) read(ctx context.Context) (dom.Collections, error) {
	lists := make([][]dom.Record, len(dom.Kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, k := range dom.Kinds {
		g.Go(func() error {
			data, err := l.reader.Read(gctx, k.AssetName())
			if err != nil {
				return fmt.Errorf("read %s: %w", k.AssetName(), err)
			}
			recs, err := dom.DecodeList(k, data)
			if err != nil {
				return fmt.Errorf("%s: %w", k.AssetName(), err)
			}
			lists[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dom.Collections{}, err //nolint:wrapcheck // errors wrapped in goroutines
	}

	var cols dom.Collections
	for i, k := range dom.Kinds {
		if err := cols.Set(k, lists[i]); err != nil {
			return dom.Collections{}, err //nolint:wrapcheck // kind mismatch is self-describing
		}
	}
	return cols, nil
}
