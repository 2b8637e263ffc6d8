// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/boxdstats/internal/api"
	"github.com/tomtom215/boxdstats/internal/config"
	"github.com/tomtom215/boxdstats/internal/enrich"
	"github.com/tomtom215/boxdstats/internal/logging"
	"github.com/tomtom215/boxdstats/internal/report"
	"github.com/tomtom215/boxdstats/internal/supervisor"
	"github.com/tomtom215/boxdstats/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Address()).
		Bool("tmdb_enabled", cfg.TMDB.Enabled()).
		Str("metadata_store", cfg.Enrichment.Store).
		Strs("frontend_urls", cfg.Server.FrontendURLs).
		Msg("Configuration loaded")

	engine, err := report.NewEngineFromConfig(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing metadata store")
		}
	}()

	handler := api.NewHandler(engine, cfg.Server.MaxUploadBytes)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Server))

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if m, ok := engine.Store().(enrich.Maintainer); ok {
		tree.AddStorageService(services.NewStoreMaintenanceService(m, cfg.Enrichment.MaintenanceInterval))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Server stopped")
	return nil
}
