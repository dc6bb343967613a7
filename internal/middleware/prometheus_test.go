// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/reviewdeck/reviewdeck/internal/metrics"
)

func TestPrometheusMetrics_RecordsRequest(t *testing.T) {
	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/mw-test", "200"))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/mw-test", nil)
	rec := httptest.NewRecorder()

	PrometheusMetrics(handler)(rec, req)

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/mw-test", "200"))
	if after-before != 1 {
		t.Errorf("request counter delta = %v, want 1", after-before)
	}
}

func TestPrometheusMetrics_CapturesStatusCode(t *testing.T) {
	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/mw-404", "404"))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/mw-404", nil)
	rec := httptest.NewRecorder()

	PrometheusMetrics(handler)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/mw-404", "404"))
	if after-before != 1 {
		t.Errorf("request counter delta for 404 = %v, want 1", after-before)
	}
}

func TestPrometheusMetrics_ActiveGaugeReturnsToBaseline(t *testing.T) {
	base := testutil.ToFloat64(metrics.APIActiveRequests)

	var during float64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(metrics.APIActiveRequests)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/mw-gauge", nil)
	rec := httptest.NewRecorder()

	PrometheusMetrics(handler)(rec, req)

	if during != base+1 {
		t.Errorf("gauge during request = %v, want %v", during, base+1)
	}
	if got := testutil.ToFloat64(metrics.APIActiveRequests); got != base {
		t.Errorf("gauge after request = %v, want %v", got, base)
	}
}
