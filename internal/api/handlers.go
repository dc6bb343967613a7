// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/reviewdeck/reviewdeck/internal/cache"
	"github.com/reviewdeck/reviewdeck/internal/config"
	"github.com/reviewdeck/reviewdeck/internal/database"
	"github.com/reviewdeck/reviewdeck/internal/logging"
	"github.com/reviewdeck/reviewdeck/internal/metrics"
	"github.com/reviewdeck/reviewdeck/internal/models"
	"github.com/reviewdeck/reviewdeck/internal/stats"
)

// pingTimeout bounds the store connectivity check in health handlers.
const pingTimeout = 2 * time.Second

// Handler serves all API endpoints. The store may be nil when the
// service starts degraded (no store configured or initial connect
// failed); statistics endpoints then report STORE_UNAVAILABLE while
// health and liveness keep working.
type Handler struct {
	store      database.Store
	aggregator *stats.Aggregator
	cache      *cache.Cache
	cfg        *config.Config
	version    string
	startTime  time.Time
}

// NewHandler creates a handler with all dependencies wired.
func NewHandler(store database.Store, aggregator *stats.Aggregator, c *cache.Cache, cfg *config.Config, version string) *Handler {
	return &Handler{
		store:      store,
		aggregator: aggregator,
		cache:      c,
		cfg:        cfg,
		version:    version,
		startTime:  time.Now(),
	}
}

// statisticsBundle returns the current bundle, serving from cache when
// fresh. The bool reports whether the result was cached.
func (h *Handler) statisticsBundle(ctx context.Context) (*models.StatisticsBundle, bool, error) {
	key := cache.GenerateKey("stats_bundle", nil)

	if h.cache != nil {
		if v, ok := h.cache.Get(key); ok {
			if bundle, ok := v.(*models.StatisticsBundle); ok {
				metrics.RecordCacheHit()
				return bundle, true, nil
			}
		}
		metrics.RecordCacheMiss()
	}

	bundle, err := h.aggregator.Compute(ctx)
	if err != nil {
		return nil, false, err
	}

	if h.cache != nil {
		h.cache.Set(key, bundle)
	}
	return bundle, false, nil
}

// respondStoreError maps aggregation failures to HTTP statuses. An
// unreachable store is a 503 the client can retry; anything else is a 500.
func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, stats.ErrStoreUnavailable) || errors.Is(err, database.ErrUnavailable) {
		respondError(w, http.StatusServiceUnavailable, ErrCodeStoreUnavailable,
			"Review store is unavailable", err)
		return
	}
	respondError(w, http.StatusInternalServerError, ErrCodeInternalError,
		"Failed to compute statistics", err)
}

// Health returns the full health report including store connectivity.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	connected := h.storeConnected(r.Context())

	status := "ok"
	if !connected {
		status = "degraded"
	}

	respondSuccess(w, models.HealthStatus{
		Status:         status,
		Version:        h.version,
		StoreConnected: connected,
		Uptime:         time.Since(h.startTime).Seconds(),
	}, 0, false)
}

// HealthLive is the liveness probe. It succeeds whenever the process
// can serve HTTP, regardless of store state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]string{"status": "alive"}, 0, false)
}

// HealthReady is the readiness probe. It fails while the store is
// unreachable so load balancers stop routing stats traffic here.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.storeConnected(r.Context()) {
		respondError(w, http.StatusServiceUnavailable, ErrCodeStoreUnavailable,
			"Review store is unavailable", nil)
		return
	}
	respondSuccess(w, map[string]string{"status": "ready"}, 0, false)
}

func (h *Handler) storeConnected(ctx context.Context) bool {
	if !h.aggregator.Available() {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := h.store.Ping(pingCtx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Store ping failed")
		return false
	}
	return true
}

// Stats serves the complete statistics bundle.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	bundle, cached, err := h.statisticsBundle(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, bundle, time.Since(start), cached)
}

// StatsRatings serves the rating histogram with percentages.
func (h *Handler) StatsRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	bundle, cached, err := h.statisticsBundle(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, models.RatingsResponse{
		TotalReviews:      bundle.TotalReviews,
		RatingCounts:      bundle.RatingCounts,
		RatingPercentages: bundle.RatingPercentages,
	}, time.Since(start), cached)
}

// StatsYearly serves per-year review volume and mean score.
func (h *Handler) StatsYearly(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	bundle, cached, err := h.statisticsBundle(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, models.YearlyResponse{
		YearlyData: bundle.YearlyData,
	}, time.Since(start), cached)
}

// StatsSegments serves the user segmentation breakdown.
func (h *Handler) StatsSegments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	bundle, cached, err := h.statisticsBundle(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, models.SegmentsResponse{
		UniqueUsers:  bundle.UniqueUsers,
		UserSegments: bundle.UserSegments,
	}, time.Since(start), cached)
}

// StatsText serves review length statistics.
func (h *Handler) StatsText(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	bundle, cached, err := h.statisticsBundle(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, models.TextStatsResponse{
		AvgWordCount:      bundle.AvgWordCount,
		WordCountByRating: bundle.WordCountByRating,
	}, time.Since(start), cached)
}

// StatsHelpfulness serves per-rating helpfulness averages.
func (h *Handler) StatsHelpfulness(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	bundle, cached, err := h.statisticsBundle(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, models.HelpfulnessResponse{
		HelpfulByRating: bundle.HelpfulByRating,
	}, time.Since(start), cached)
}

// TopProducts serves the most-reviewed products. Limits within the
// bundle's precomputed window are sliced from the shared bundle; larger
// limits query the store directly with their own cache entry.
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	req, apiErr := parseTopProductsRequest(r, h.cfg.API.TopProductsDefault, h.cfg.API.TopProductsMax)
	if apiErr != nil {
		respondErrorWithDetails(w, http.StatusBadRequest, apiErr)
		return
	}

	start := time.Now()

	if req.Limit <= stats.TopProductsLimit {
		bundle, cached, err := h.statisticsBundle(r.Context())
		if err != nil {
			respondStoreError(w, err)
			return
		}
		products := bundle.TopProducts
		if req.Limit < len(products) {
			products = products[:req.Limit]
		}
		respondSuccess(w, models.TopProductsResponse{
			Limit:    req.Limit,
			Products: products,
		}, time.Since(start), cached)
		return
	}

	products, cached, err := h.topProductsDirect(r.Context(), req.Limit)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, models.TopProductsResponse{
		Limit:    req.Limit,
		Products: products,
	}, time.Since(start), cached)
}

func (h *Handler) topProductsDirect(ctx context.Context, limit int) ([]models.ProductSummary, bool, error) {
	if !h.aggregator.Available() {
		return nil, false, database.ErrUnavailable
	}

	key := cache.GenerateKey("top_products", limit)
	if h.cache != nil {
		if v, ok := h.cache.Get(key); ok {
			if products, ok := v.([]models.ProductSummary); ok {
				metrics.RecordCacheHit()
				return products, true, nil
			}
		}
		metrics.RecordCacheMiss()
	}

	products, err := h.store.TopProducts(ctx, limit)
	if err != nil {
		return nil, false, err
	}
	if products == nil {
		products = []models.ProductSummary{}
	}

	if h.cache != nil {
		h.cache.Set(key, products)
	}
	return products, false, nil
}
