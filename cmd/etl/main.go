package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/bufkit-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/bufkit-etl/internal/adapter/kafka"
	"github.com/couchcryptid/bufkit-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/bufkit-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/bufkit-etl/internal/config"
	"github.com/couchcryptid/bufkit-etl/internal/domain"
	"github.com/couchcryptid/bufkit-etl/internal/observability"
	"github.com/couchcryptid/bufkit-etl/internal/pipeline"
)

// sink is a pipeline.BatchLoader that owns a connection.
type sink interface {
	pipeline.BatchLoader
	io.Closer
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Station geocoding is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var loader sink
	switch cfg.Sink {
	case config.SinkSQLite:
		store, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			logger.Error("failed to open sqlite sink", "error", err)
			os.Exit(1)
		}
		loader = store
	default:
		loader = kafkaadapter.NewWriter(cfg, logger)
	}
	logger.Info("sink selected", "sink", cfg.Sink)

	reader := kafkaadapter.NewReader(cfg, logger)
	transformer := pipeline.NewTransformer(geocoder, logger)

	p := pipeline.New(reader, transformer, loader, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.MaxFileBytes, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := loader.Close(); err != nil {
		logger.Error("sink close error", "error", err)
	}

	logger.Info("shutdown complete")
}
