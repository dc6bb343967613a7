// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

/*
Package api implements the HTTP surface of the review analytics service.

The service is read-only: every endpoint serves pre-aggregated statistics
computed from the review store. Routing uses Chi with production-hardened
middleware from the Chi ecosystem (go-chi/cors for CORS preflight,
go-chi/httprate for rate limiting), plus the in-house request ID,
compression, and Prometheus middleware.

Endpoints:

	GET /api/v1/health             - Full health report
	GET /api/v1/health/live        - Liveness probe
	GET /api/v1/health/ready       - Readiness probe (store connectivity)
	GET /api/v1/stats              - Complete statistics bundle
	GET /api/v1/stats/ratings      - Rating histogram and percentages
	GET /api/v1/stats/yearly       - Per-year review volume and mean score
	GET /api/v1/stats/segments     - User segmentation by review count
	GET /api/v1/stats/text         - Review length statistics
	GET /api/v1/stats/helpfulness  - Per-rating helpfulness averages
	GET /api/v1/products/top       - Most-reviewed products (limit param)
	GET /metrics                   - Prometheus metrics

All responses use the models.APIResponse envelope with a "success" or
"error" status. Statistics endpoints share one cached bundle; a cold
cache triggers a full recomputation against the store, and an
unreachable store yields 503 with code STORE_UNAVAILABLE.
*/
package api
