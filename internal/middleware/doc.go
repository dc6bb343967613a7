// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

/*
Package middleware provides HTTP middleware components for the API server.

This package implements infrastructure middleware for request ID tracking,
Prometheus metrics instrumentation, and gzip compression. CORS and rate
limiting are handled at the router level by the api package.

The typical middleware stack for an endpoint is:

	middleware.PrometheusMetrics( // Layer 1: Metrics
	    middleware.Compression(    // Layer 2: Gzip
	        middleware.RequestID(  // Layer 3: Request tracking
	            handler,           // Layer 4: Business logic
	        ),
	    ),
	)
*/
package middleware
