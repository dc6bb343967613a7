// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

// Package main is the entry point for the Reviewdeck analytics server.
//
// Reviewdeck serves pre-aggregated statistics over a MongoDB database of
// Amazon movie reviews: rating distributions, yearly trends, user
// segmentation, review length, helpfulness, and product rankings.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered loading from defaults, config.yaml, and
//     environment variables (Koanf v2)
//  2. Logging: zerolog with JSON or console output
//  3. Store: MongoDB connection with a circuit breaker; a failed
//     connection degrades the service instead of aborting startup
//  4. Aggregator and cache: statistics computation with a TTL cache
//  5. HTTP server: Chi router with CORS, rate limiting, compression,
//     request IDs, and Prometheus metrics
//
// # Degraded Mode
//
// When MONGODB_URI is unset or the initial connection fails, the server
// still starts and serves health and liveness endpoints. Statistics
// endpoints return 503 STORE_UNAVAILABLE until the store is reachable;
// readiness stays red so load balancers keep traffic away.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the listener stops
// accepting connections, in-flight requests get 10 seconds to finish,
// then the store connection is closed.
//
// # Example Usage
//
//	export MONGODB_URI=mongodb://localhost:27017
//	export MONGODB_DATABASE=amazon_movies
//	./reviewdeck
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

	"github.com/reviewdeck/reviewdeck/internal/api"
	"github.com/reviewdeck/reviewdeck/internal/cache"
	"github.com/reviewdeck/reviewdeck/internal/config"
	"github.com/reviewdeck/reviewdeck/internal/database"
	"github.com/reviewdeck/reviewdeck/internal/logging"
	"github.com/reviewdeck/reviewdeck/internal/stats"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting Reviewdeck")

	store := connectStore(cfg)
	if store != nil {
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Close(closeCtx); err != nil {
				logging.Warn().Err(err).Msg("Error closing store")
			}
		}()
	}

	aggregator := stats.New(storeOrNil(store))
	bundleCache := cache.New(cfg.API.StatsCacheTTL)
	defer bundleCache.Clear()

	handler := api.NewHandler(storeOrNil(store), aggregator, bundleCache, cfg, version)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// connectStore establishes the MongoDB connection. A missing URI or a
// failed connection returns nil: the service starts degraded rather
// than refusing to boot, since the store may come up later.
func connectStore(cfg *config.Config) *database.Mongo {
	if cfg.Mongo.URI == "" {
		logging.Warn().Msg("No MongoDB URI configured, starting in degraded mode")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	store, err := database.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		logging.Warn().Err(err).Msg("Store connection failed, starting in degraded mode")
		return nil
	}

	logging.Info().
		Str("database", cfg.Mongo.Database).
		Msg("Connected to review store")
	return store
}

// storeOrNil converts a possibly-nil *database.Mongo to the Store
// interface without producing a non-nil interface around a nil pointer.
func storeOrNil(store *database.Mongo) database.Store {
	if store == nil {
		return nil
	}
	return store
}
