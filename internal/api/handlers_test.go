// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/reviewdeck/reviewdeck/internal/cache"
	"github.com/reviewdeck/reviewdeck/internal/config"
	"github.com/reviewdeck/reviewdeck/internal/database"
	"github.com/reviewdeck/reviewdeck/internal/models"
	"github.com/reviewdeck/reviewdeck/internal/stats"
)

// envelope mirrors models.APIResponse with a raw Data payload so each
// test can decode it into the expected shape.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			TopProductsDefault: 15,
			TopProductsMax:     100,
			StatsCacheTTL:      5 * time.Minute,
		},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}
}

func newTestRouter(t *testing.T, store database.Store) http.Handler {
	t.Helper()
	cfg := testConfig()
	handler := NewHandler(store, stats.New(store), cache.New(cfg.API.StatsCacheTTL), cfg, "test")
	return NewRouter(handler, NewChiMiddlewareFromConfig(cfg.Security)).SetupChi()
}

func doGet(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding response from %s: %v (body: %s)", path, err, rec.Body.String())
	}
	return rec, env
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func seededStore() *database.Memory {
	store := &database.Memory{
		Reviews: []models.Review{
			{ID: "r1", ProductID: "p1", UserID: "u1", Score: 5, Year: intp(2003), WordCount: 120, HelpfulRatio: floatp(0.9)},
			{ID: "r2", ProductID: "p1", UserID: "u2", Score: 5, Year: intp(2003), WordCount: 80},
			{ID: "r3", ProductID: "p2", UserID: "u1", Score: 1, Year: intp(2004), WordCount: 40, HelpfulRatio: floatp(0.2)},
			{ID: "r4", ProductID: "p3", UserID: "u3", Score: 3, WordCount: 60},
		},
		Users: []models.UserSummary{
			{UserID: "u1", ReviewCount: 2},
			{UserID: "u2", ReviewCount: 10},
			{UserID: "u3", ReviewCount: 80},
		},
	}
	for i := 1; i <= 20; i++ {
		store.Products = append(store.Products, models.ProductSummary{
			ProductID:   fmt.Sprintf("p%02d", i),
			ReviewCount: 100 - i,
			AvgRating:   4.0,
		})
	}
	return store
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(t, seededStore())

	rec, env := doGet(t, router, "/api/v1/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if env.Status != "success" {
		t.Fatalf("envelope status = %q, want success", env.Status)
	}

	var bundle models.StatisticsBundle
	if err := json.Unmarshal(env.Data, &bundle); err != nil {
		t.Fatalf("decoding bundle: %v", err)
	}
	if bundle.TotalReviews != 4 {
		t.Errorf("total_reviews = %d, want 4", bundle.TotalReviews)
	}
	if bundle.UniqueUsers != 3 {
		t.Errorf("unique_users = %d, want 3", bundle.UniqueUsers)
	}
	if bundle.RatingCounts["5.0"] != 2 {
		t.Errorf("rating_counts[5.0] = %d, want 2", bundle.RatingCounts["5.0"])
	}
	if len(bundle.YearlyData) != 2 {
		t.Errorf("yearly_data has %d years, want 2 (nil year excluded)", len(bundle.YearlyData))
	}
	if bundle.UserSegments != (models.UserSegments{Casual: 1, Regular: 1, Power: 1}) {
		t.Errorf("user_segments = %+v", bundle.UserSegments)
	}
}

func TestStatsSecondRequestIsCached(t *testing.T) {
	router := newTestRouter(t, seededStore())

	_, first := doGet(t, router, "/api/v1/stats")
	if first.Metadata.Cached {
		t.Error("first request should not be served from cache")
	}

	_, second := doGet(t, router, "/api/v1/stats")
	if !second.Metadata.Cached {
		t.Error("second request should be served from cache")
	}
}

func TestStatsUnavailableStore(t *testing.T) {
	router := newTestRouter(t, &database.Memory{Unavailable: true})

	rec, env := doGet(t, router, "/api/v1/stats")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeStoreUnavailable {
		t.Errorf("error = %+v, want code STORE_UNAVAILABLE", env.Error)
	}
}

func TestStatsNilStore(t *testing.T) {
	router := newTestRouter(t, nil)

	rec, env := doGet(t, router, "/api/v1/stats")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeStoreUnavailable {
		t.Errorf("error = %+v, want code STORE_UNAVAILABLE", env.Error)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	router := newTestRouter(t, &database.Memory{})

	rec, env := doGet(t, router, "/api/v1/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for empty store (body: %s)", rec.Code, rec.Body.String())
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		t.Fatalf("decoding bundle: %v", err)
	}
	// Empty groupings serialize as {} / [], never null.
	for _, field := range []string{"rating_counts", "yearly_data", "top_products"} {
		if string(raw[field]) == "null" {
			t.Errorf("%s = null, want empty container", field)
		}
	}
}

func TestStatsRatingsEndpoint(t *testing.T) {
	router := newTestRouter(t, seededStore())

	rec, env := doGet(t, router, "/api/v1/stats/ratings")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var ratings models.RatingsResponse
	if err := json.Unmarshal(env.Data, &ratings); err != nil {
		t.Fatalf("decoding ratings: %v", err)
	}
	if ratings.TotalReviews != 4 {
		t.Errorf("total_reviews = %d, want 4", ratings.TotalReviews)
	}
	if got := ratings.RatingPercentages["5.0"]; got != 50 {
		t.Errorf("rating_percentages[5.0] = %v, want 50", got)
	}
}

func TestStatsSegmentsEndpoint(t *testing.T) {
	router := newTestRouter(t, seededStore())

	_, env := doGet(t, router, "/api/v1/stats/segments")

	var segments models.SegmentsResponse
	if err := json.Unmarshal(env.Data, &segments); err != nil {
		t.Fatalf("decoding segments: %v", err)
	}
	if segments.UniqueUsers != 3 {
		t.Errorf("unique_users = %d, want 3", segments.UniqueUsers)
	}
	if segments.UserSegments.Total() != segments.UniqueUsers {
		t.Errorf("segments total %d != unique users %d", segments.UserSegments.Total(), segments.UniqueUsers)
	}
}

func TestStatsHelpfulnessEndpoint(t *testing.T) {
	router := newTestRouter(t, seededStore())

	_, env := doGet(t, router, "/api/v1/stats/helpfulness")

	var helpfulness models.HelpfulnessResponse
	if err := json.Unmarshal(env.Data, &helpfulness); err != nil {
		t.Fatalf("decoding helpfulness: %v", err)
	}
	// Rating 3.0 has no helpful_ratio values, so it must be absent.
	if _, ok := helpfulness.HelpfulByRating["3.0"]; ok {
		t.Error("helpful_by_rating should omit ratings with no ratio data")
	}
	if got := helpfulness.HelpfulByRating["5.0"]; got != 0.9 {
		t.Errorf("helpful_by_rating[5.0] = %v, want 0.9", got)
	}
}

func TestTopProductsDefaultLimit(t *testing.T) {
	router := newTestRouter(t, seededStore())

	rec, env := doGet(t, router, "/api/v1/products/top")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var top models.TopProductsResponse
	if err := json.Unmarshal(env.Data, &top); err != nil {
		t.Fatalf("decoding top products: %v", err)
	}
	if top.Limit != 15 {
		t.Errorf("limit = %d, want default 15", top.Limit)
	}
	if len(top.Products) != 15 {
		t.Errorf("got %d products, want 15", len(top.Products))
	}
	if top.Products[0].ProductID != "p01" {
		t.Errorf("first product = %s, want p01 (highest review count)", top.Products[0].ProductID)
	}
}

func TestTopProductsExplicitLimit(t *testing.T) {
	router := newTestRouter(t, seededStore())

	tests := []struct {
		limit int
		want  int
	}{
		{1, 1},
		{2, 2},
		{20, 20},
		{100, 20}, // only 20 products exist
	}

	for _, tt := range tests {
		_, env := doGet(t, router, fmt.Sprintf("/api/v1/products/top?limit=%d", tt.limit))

		var top models.TopProductsResponse
		if err := json.Unmarshal(env.Data, &top); err != nil {
			t.Fatalf("decoding top products: %v", err)
		}
		if top.Limit != tt.limit {
			t.Errorf("limit=%d: echoed limit = %d", tt.limit, top.Limit)
		}
		if len(top.Products) != tt.want {
			t.Errorf("limit=%d: got %d products, want %d", tt.limit, len(top.Products), tt.want)
		}
	}
}

func TestTopProductsInvalidLimit(t *testing.T) {
	router := newTestRouter(t, seededStore())

	tests := []struct {
		name  string
		query string
	}{
		{"zero", "?limit=0"},
		{"negative", "?limit=-5"},
		{"over cap", "?limit=101"},
		{"not a number", "?limit=abc"},
		{"float", "?limit=2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doGet(t, router, "/api/v1/products/top"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if env.Error == nil {
				t.Error("expected error payload")
			}
		})
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, &database.Memory{Unavailable: true})

	rec, env := doGet(t, router, "/api/v1/health/live")
	if rec.Code != http.StatusOK {
		t.Errorf("liveness must succeed regardless of store state, got %d", rec.Code)
	}
	if env.Status != "success" {
		t.Errorf("envelope status = %q, want success", env.Status)
	}
}

func TestHealthReady(t *testing.T) {
	healthy := newTestRouter(t, &database.Memory{})
	rec, _ := doGet(t, healthy, "/api/v1/health/ready")
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}

	degraded := newTestRouter(t, &database.Memory{Unavailable: true})
	rec, env := doGet(t, degraded, "/api/v1/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status with unavailable store = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeStoreUnavailable {
		t.Errorf("error = %+v, want STORE_UNAVAILABLE", env.Error)
	}
}

func TestHealthReportsDegraded(t *testing.T) {
	router := newTestRouter(t, nil)

	rec, env := doGet(t, router, "/api/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200 even when degraded", rec.Code)
	}

	var health models.HealthStatus
	if err := json.Unmarshal(env.Data, &health); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if health.Status != "degraded" {
		t.Errorf("status = %q, want degraded", health.Status)
	}
	if health.StoreConnected {
		t.Error("store_connected should be false with nil store")
	}
}
