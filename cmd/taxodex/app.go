package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/taxodex/internal/blob"
	fsblob "github.com/kailas-cloud/taxodex/internal/blob/fs"
	"github.com/kailas-cloud/taxodex/internal/blob/httpfs"
	s3blob "github.com/kailas-cloud/taxodex/internal/blob/s3"
	"github.com/kailas-cloud/taxodex/internal/browser"
	"github.com/kailas-cloud/taxodex/internal/config"
	"github.com/kailas-cloud/taxodex/internal/db"
	dbRedis "github.com/kailas-cloud/taxodex/internal/db/redis"
	logpkg "github.com/kailas-cloud/taxodex/internal/logger"
	"github.com/kailas-cloud/taxodex/internal/repository/idgen"
	recordrepo "github.com/kailas-cloud/taxodex/internal/repository/record"
	idsuc "github.com/kailas-cloud/taxodex/internal/usecase/ids"
	searchuc "github.com/kailas-cloud/taxodex/internal/usecase/search"
	taxodex "github.com/kailas-cloud/taxodex/pkg/sdk"
)

// app is the composition root shared by all commands.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger

	store  db.Store // nil unless a component uses redis
	remote *taxodex.Client
}

func newApp(ctx context.Context, flags *globalFlags) (*app, error) {
	env := flags.env
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := loadConfig(env, flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.remote != "" {
		cfg.Source.Driver = config.SourceRemote
		cfg.Source.Remote.BaseURL = flags.remote
	}

	level := cfg.Logging.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	logger, err := logpkg.NewLogger(env, level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{env: env, cfg: cfg, logger: logger}

	if cfg.UsesRedis() {
		a.store, err = openRedis(ctx, cfg.Redis)
		if err != nil {
			a.close()
			return nil, err
		}
		logger.Info("connected to redis", zap.Strings("addrs", cfg.Redis.Addrs))
	}

	if cfg.Source.Driver == config.SourceRemote {
		a.remote, err = taxodex.New(cfg.Source.Remote.BaseURL,
			taxodex.WithTimeout(time.Duration(cfg.Source.Remote.TimeoutSec)*time.Second),
			taxodex.WithLogger(sdkLogger(level)),
		)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("create remote client: %w", err)
		}
	}
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}

// loadConfig reads an explicit file, or config/<env>.yaml falling back to
// defaults when that file does not exist.
func loadConfig(env, path string) (config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(env)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func openRedis(ctx context.Context, rc config.RedisConfig) (db.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    rc.Addrs,
		Password: rc.Password,
		DB:       rc.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(rc.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("redis not ready: %w", err)
	}
	return store, nil
}

// loader builds the record loader selected by source.driver.
func (a *app) loader(ctx context.Context) (recordrepo.Loader, error) {
	src := a.cfg.Source
	switch src.Driver {
	case config.SourceEmbedded:
		return recordrepo.EmbeddedLoader{}, nil
	case config.SourceAssets:
		r, err := a.assetReader(ctx)
		if err != nil {
			return nil, err
		}
		return recordrepo.NewAssetLoader(r, recordrepo.EmbeddedLoader{}, a.logger), nil
	case config.SourceRedis:
		return recordrepo.NewRedisLoader(a.store, a.cfg.Redis.KeyPrefix), nil
	case config.SourceSQLite:
		return recordrepo.NewSQLiteLoader(src.SQLite.Path, a.logger), nil
	case config.SourceRemote:
		return recordrepo.NewRemoteLoader(a.remote), nil
	default:
		return nil, fmt.Errorf("unknown source driver %q", src.Driver)
	}
}

func (a *app) assetReader(ctx context.Context) (blob.Reader, error) {
	ac := a.cfg.Source.Assets
	switch blob.Driver(ac.Driver) {
	case blob.DriverFilesystem:
		r, err := fsblob.New(ac.Dir)
		if err != nil {
			return nil, fmt.Errorf("fs assets: %w", err)
		}
		return r, nil
	case blob.DriverHTTP:
		hc := &http.Client{Timeout: time.Duration(a.cfg.Source.LoadTimeoutSec) * time.Second}
		r, err := httpfs.New(ac.BaseURL, hc)
		if err != nil {
			return nil, fmt.Errorf("http assets: %w", err)
		}
		return r, nil
	case blob.DriverS3:
		r, err := s3blob.New(ctx, s3blob.Config{
			Region:    ac.S3.Region,
			Bucket:    ac.S3.Bucket,
			Prefix:    ac.S3.Prefix,
			Endpoint:  ac.S3.Endpoint,
			PathStyle: ac.S3.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 assets: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown assets driver %q", ac.Driver)
	}
}

// allocator builds the id allocator selected by ids.driver.
func (a *app) allocator() idsuc.Allocator {
	if a.cfg.IDs.Driver == config.IDsRedis {
		return idgen.NewRedisSequence(a.store, a.cfg.Redis.KeyPrefix)
	}
	return idgen.NewUUID()
}

// loadStore loads the record store synchronously.
func (a *app) loadStore(ctx context.Context) (*recordrepo.Store, error) {
	l, err := a.loader(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.Source.LoadTimeoutSec)*time.Second)
	defer cancel()

	store := recordrepo.NewStore(a.logger)
	if err := store.Load(ctx, l); err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return store, nil
}

// searcher returns the remote client in remote mode, otherwise a local
// search service over a freshly loaded store.
func (a *app) searcher(ctx context.Context) (browser.Searcher, error) {
	if a.remote != nil {
		return a.remote, nil
	}
	store, err := a.loadStore(ctx)
	if err != nil {
		return nil, err
	}
	return searchuc.New(store), nil
}

// sdkLogger builds the slog logger handed to the remote client, writing
// to stderr at the configured level.
func sdkLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
