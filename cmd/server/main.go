// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

// Command server runs the churn prediction HTTP API.
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

	"github.com/churnsight/churnsight/internal/api"
	"github.com/churnsight/churnsight/internal/artifacts"
	"github.com/churnsight/churnsight/internal/config"
	"github.com/churnsight/churnsight/internal/logging"
	"github.com/churnsight/churnsight/internal/pipeline"
	"github.com/churnsight/churnsight/internal/scorer"
	"github.com/churnsight/churnsight/internal/store"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("feature_order", cfg.Artifacts.FeatureOrderPath).
		Str("model", cfg.Artifacts.ModelPath).
		Bool("store_enabled", cfg.Store.Enabled).
		Msg("Configuration loaded")

	bundle, err := artifacts.Load(
		cfg.Artifacts.FeatureOrderPath,
		cfg.Artifacts.ThresholdPath,
		cfg.Artifacts.ModelPath,
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load model artifacts")
	}
	logging.Info().
		Int("features", len(bundle.FeatureOrder)).
		Float64("threshold", bundle.Threshold).
		Msg("Model artifacts loaded")

	logistic, err := scorer.NewLogistic(bundle.FeatureOrder, bundle.Model.Weights, bundle.Model.Intercept)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build scorer")
	}

	p, err := pipeline.New(pipeline.Config{
		FeatureOrder: bundle.FeatureOrder,
		Threshold:    bundle.Threshold,
		Scorer:       logistic,
		StrictSchema: cfg.Artifacts.StrictSchema,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build pipeline")
	}

	var csvLog *store.CSVLog
	if cfg.Store.Enabled {
		csvLog, err = store.NewCSVLog(cfg.Store.Path)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open submission log")
		}
		logging.Info().Str("path", cfg.Store.Path).Msg("Submission log ready")
	}

	handler := api.NewHandler(cfg, p, csvLog)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, handler),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}
