// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

// Package stats computes the statistics bundle from the review store.
//
// The aggregator is stateless and side-effect free: each Compute call
// issues a fixed sequence of independent read-only queries and
// assembles the results into one immutable StatisticsBundle. There is
// no cross-query snapshot isolation; concurrent upstream writers may
// cause the queries to observe slightly different points in time, which
// is accepted for slowly-changing analytical data. Caching and retry
// policy belong to the caller.
package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviewdeck/reviewdeck/internal/database"
	"github.com/reviewdeck/reviewdeck/internal/models"
)

// ErrStoreUnavailable signals that no statistics can be computed
// because the data store cannot be reached. Callers must render this
// as "no data to display", not as a fatal error.
var ErrStoreUnavailable = errors.New("statistics unavailable: store unreachable")

// TopProductsLimit is the product count included in the full bundle.
const TopProductsLimit = 15

// Aggregator computes statistics bundles from a review store. The zero
// store (nil) models a connection that was never established; Compute
// then returns ErrStoreUnavailable.
type Aggregator struct {
	store database.Store
}

// New creates an aggregator over the given store. A nil store is
// permitted and yields ErrStoreUnavailable from every Compute call.
func New(store database.Store) *Aggregator {
	return &Aggregator{store: store}
}

// Available reports whether a store handle exists.
func (a *Aggregator) Available() bool {
	return a.store != nil
}

// Compute runs the full query sequence and assembles the bundle.
//
// Queries run sequentially; each is independent and read-only. Any
// store-unavailability error aborts the computation and surfaces as
// ErrStoreUnavailable. Empty collections are not errors: they produce
// a zero-valued bundle with empty (non-nil) maps and slices so
// downstream rendering can draw zero-state.
func (a *Aggregator) Compute(ctx context.Context) (*models.StatisticsBundle, error) {
	if a.store == nil {
		return nil, ErrStoreUnavailable
	}

	totalReviews, err := a.store.CountReviews(ctx)
	if err != nil {
		return nil, wrap("count reviews", err)
	}
	uniqueUsers, err := a.store.CountUsers(ctx)
	if err != nil {
		return nil, wrap("count users", err)
	}
	uniqueProducts, err := a.store.CountProducts(ctx)
	if err != nil {
		return nil, wrap("count products", err)
	}

	ratingCounts, err := a.store.RatingCounts(ctx)
	if err != nil {
		return nil, wrap("rating counts", err)
	}

	yearly, err := a.store.YearlyStats(ctx)
	if err != nil {
		return nil, wrap("yearly stats", err)
	}

	segments, err := a.store.UserSegmentCounts(ctx)
	if err != nil {
		return nil, wrap("user segments", err)
	}

	topProducts, err := a.store.TopProducts(ctx, TopProductsLimit)
	if err != nil {
		return nil, wrap("top products", err)
	}

	avgRating, avgWordCount, err := a.store.ReviewAverages(ctx)
	if err != nil {
		return nil, wrap("review averages", err)
	}

	wordCountByRating, err := a.store.WordCountByRating(ctx)
	if err != nil {
		return nil, wrap("word count by rating", err)
	}

	helpfulByRating, err := a.store.HelpfulnessByRating(ctx)
	if err != nil {
		return nil, wrap("helpfulness by rating", err)
	}

	bundle := &models.StatisticsBundle{
		TotalReviews:      totalReviews,
		UniqueUsers:       uniqueUsers,
		UniqueProducts:    uniqueProducts,
		AvgRating:         avgRating,
		AvgWordCount:      avgWordCount,
		RatingCounts:      emptyIfNil(ratingCounts),
		RatingPercentages: ratingPercentages(ratingCounts, totalReviews),
		YearlyData:        emptyIfNil(yearly),
		UserSegments:      segments,
		WordCountByRating: emptyIfNil(wordCountByRating),
		HelpfulByRating:   emptyIfNil(helpfulByRating),
		TopProducts:       topProducts,
	}
	if bundle.TopProducts == nil {
		bundle.TopProducts = []models.ProductSummary{}
	}
	return bundle, nil
}

// ratingPercentages derives the percentage histogram from the count
// histogram. The mapping is empty, not absent, when there are no
// reviews, guarding the division.
func ratingPercentages(counts map[string]int64, total int64) map[string]float64 {
	percentages := make(map[string]float64, len(counts))
	if total <= 0 {
		return percentages
	}
	for label, count := range counts {
		percentages[label] = float64(count) / float64(total) * 100
	}
	return percentages
}

// emptyIfNil normalizes a nil map to an empty one so every bundle
// field marshals as an object rather than null.
func emptyIfNil[M ~map[string]V, V any](m M) M {
	if m == nil {
		return M{}
	}
	return m
}

// wrap annotates a store error, preserving ErrStoreUnavailable
// semantics when the store itself was unreachable.
func wrap(operation string, err error) error {
	if errors.Is(err, database.ErrUnavailable) {
		return fmt.Errorf("%w: %s", ErrStoreUnavailable, operation)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
