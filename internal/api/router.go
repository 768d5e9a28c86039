// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/churnsight/churnsight/internal/config"
	"github.com/churnsight/churnsight/internal/middleware"
)

// NewRouter wires the HTTP routes and middleware stack.
func NewRouter(cfg *config.Config, h *Handler) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.API.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))
	r.Use(middleware.SecurityHeaders)

	// Health endpoints get a permissive rate limit so monitoring can poll
	// freely without opening an abuse vector.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, cfg.API.RateLimitWindow))
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Prediction endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.API.RateLimitRequests, cfg.API.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)

		r.Post("/predict", h.Predict)
		r.Post("/predict/batch", h.PredictBatch)
		r.Get("/schema", h.Schema)
		r.Get("/customer-id", h.CustomerID)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
