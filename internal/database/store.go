// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

// Package database provides read-only access to the review collections.
//
// The service never owns this data: the reviews, user_stats and
// product_stats collections are populated by an upstream ETL pipeline
// and treated as a slowly-changing analytical sample. Every method is a
// single read with no cross-query transaction requirement; concurrent
// upstream writers may cause successive queries to observe slightly
// different points in time, which callers accept.
package database

import (
	"context"
	"errors"

	"github.com/reviewdeck/reviewdeck/internal/models"
)

// ErrUnavailable signals that the data store cannot be reached. Callers
// must treat it as "no data to display", never as a fatal error.
var ErrUnavailable = errors.New("review store unavailable")

// Store is the read-only query surface the statistics aggregator needs.
// Implementations must be safe for concurrent use.
type Store interface {
	// CountReviews returns the total number of review documents.
	CountReviews(ctx context.Context) (int64, error)

	// CountUsers returns the number of distinct users (user_stats rows).
	CountUsers(ctx context.Context) (int64, error)

	// CountProducts returns the number of distinct products.
	CountProducts(ctx context.Context) (int64, error)

	// RatingCounts groups reviews by score and counts each group.
	// Keys are score labels ("1.0" through "5.0").
	RatingCounts(ctx context.Context) (map[string]int64, error)

	// YearlyStats groups reviews by year, returning volume and mean
	// score per year. Reviews with an absent year are excluded.
	YearlyStats(ctx context.Context) (map[string]models.YearStats, error)

	// UserSegmentCounts partitions users by lifetime review count:
	// casual <= 5, 5 < regular <= 50, power > 50.
	UserSegmentCounts(ctx context.Context) (models.UserSegments, error)

	// TopProducts returns the limit products with the highest review
	// count, descending, ties broken by product id ascending.
	TopProducts(ctx context.Context, limit int) ([]models.ProductSummary, error)

	// ReviewAverages returns the mean score and mean word count over
	// all reviews. Both are 0 when the collection is empty.
	ReviewAverages(ctx context.Context) (avgRating, avgWordCount float64, err error)

	// WordCountByRating returns the mean word count per score group.
	// Reviews missing word_count are excluded from their group's mean.
	WordCountByRating(ctx context.Context) (map[string]float64, error)

	// HelpfulnessByRating returns the mean helpfulness ratio per score
	// group, computed only over reviews where the ratio is present.
	HelpfulnessByRating(ctx context.Context) (map[string]float64, error)

	// Ping verifies connectivity to the underlying store.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
