package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/taxodex/internal/metrics"
	recordrepo "github.com/kailas-cloud/taxodex/internal/repository/record"
	chiTransport "github.com/kailas-cloud/taxodex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/taxodex/internal/usecase/health"
	idsuc "github.com/kailas-cloud/taxodex/internal/usecase/ids"
	searchuc "github.com/kailas-cloud/taxodex/internal/usecase/search"
	"github.com/kailas-cloud/taxodex/internal/version"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the query API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.close()
			if port > 0 {
				a.cfg.HTTP.Port = port
			}
			return serve(a)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides http.port)")
	return cmd
}

func serve(a *app) error {
	cfg, logger := a.cfg, a.logger

	logger.Info("Starting taxodex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("source", cfg.Source.Driver),
		zap.String("ids", cfg.IDs.Driver),
	)

	metrics.Register()

	loader, err := a.loader(context.Background())
	if err != nil {
		return err
	}

	// Records load in the background; requests wait on the readiness latch.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), time.Duration(cfg.Source.LoadTimeoutSec)*time.Second)
	defer cancelLoad()
	records := recordrepo.NewStore(logger)
	records.Start(loadCtx, loader)

	searchSvc := searchuc.New(records)
	idSvc := idsuc.New(a.allocator())

	// a.store is a nil interface when redis is not in use, so health skips the ping.
	healthSvc := healthuc.New(records, a.store)

	server := chiTransport.NewServer(searchSvc, idSvc, healthSvc, logger).
		WithReadyTimeout(time.Duration(cfg.Source.LoadTimeoutSec) * time.Second)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.HTTP.StaticDir),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
