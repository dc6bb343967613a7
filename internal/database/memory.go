// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

package database

import (
	"context"
	"sort"
	"strconv"

	"github.com/reviewdeck/reviewdeck/internal/models"
)

// Memory is an in-memory Store over fixed slices. It implements the
// same query semantics as the MongoDB store and serves as the reference
// implementation in tests. The zero value is an empty, reachable store.
type Memory struct {
	Reviews  []models.Review
	Users    []models.UserSummary
	Products []models.ProductSummary

	// Unavailable makes every method return ErrUnavailable, simulating
	// a store that cannot be reached.
	Unavailable bool
}

func (s *Memory) check() error {
	if s.Unavailable {
		return ErrUnavailable
	}
	return nil
}

// CountReviews returns the total number of reviews.
func (s *Memory) CountReviews(ctx context.Context) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return int64(len(s.Reviews)), nil
}

// CountUsers returns the number of user summary rows.
func (s *Memory) CountUsers(ctx context.Context) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return int64(len(s.Users)), nil
}

// CountProducts returns the number of product summary rows.
func (s *Memory) CountProducts(ctx context.Context) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return int64(len(s.Products)), nil
}

// RatingCounts groups reviews by score and counts each group.
func (s *Memory) RatingCounts(ctx context.Context) (map[string]int64, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, r := range s.Reviews {
		counts[scoreLabel(r.Score)]++
	}
	return counts, nil
}

// YearlyStats groups reviews by year, excluding records without one.
func (s *Memory) YearlyStats(ctx context.Context) (map[string]models.YearStats, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	sums := map[string]float64{}
	yearly := map[string]models.YearStats{}
	for _, r := range s.Reviews {
		if r.Year == nil {
			continue
		}
		key := strconv.Itoa(*r.Year)
		entry := yearly[key]
		entry.Count++
		sums[key] += r.Score
		yearly[key] = entry
	}
	for key, entry := range yearly {
		entry.AvgRating = sums[key] / float64(entry.Count)
		yearly[key] = entry
	}
	return yearly, nil
}

// UserSegmentCounts partitions users by lifetime review count.
func (s *Memory) UserSegmentCounts(ctx context.Context) (models.UserSegments, error) {
	var segments models.UserSegments
	if err := s.check(); err != nil {
		return segments, err
	}
	for _, u := range s.Users {
		switch {
		case u.ReviewCount <= casualMaxReviews:
			segments.Casual++
		case u.ReviewCount <= regularMaxReviews:
			segments.Regular++
		default:
			segments.Power++
		}
	}
	return segments, nil
}

// TopProducts returns the limit products with the highest review count,
// ties broken by product id ascending.
func (s *Memory) TopProducts(ctx context.Context, limit int) ([]models.ProductSummary, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	ranked := make([]models.ProductSummary, len(s.Products))
	copy(ranked, s.Products)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ReviewCount != ranked[j].ReviewCount {
			return ranked[i].ReviewCount > ranked[j].ReviewCount
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// ReviewAverages returns mean score and mean word count over all
// reviews, or zeros when there are none.
func (s *Memory) ReviewAverages(ctx context.Context) (float64, float64, error) {
	if err := s.check(); err != nil {
		return 0, 0, err
	}
	if len(s.Reviews) == 0 {
		return 0, 0, nil
	}
	var scoreSum, wordSum float64
	for _, r := range s.Reviews {
		scoreSum += r.Score
		wordSum += float64(r.WordCount)
	}
	n := float64(len(s.Reviews))
	return scoreSum / n, wordSum / n, nil
}

// WordCountByRating returns the mean word count per score group.
func (s *Memory) WordCountByRating(ctx context.Context) (map[string]float64, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range s.Reviews {
		key := scoreLabel(r.Score)
		sums[key] += float64(r.WordCount)
		counts[key]++
	}
	averages := make(map[string]float64, len(sums))
	for key, sum := range sums {
		averages[key] = sum / float64(counts[key])
	}
	return averages, nil
}

// HelpfulnessByRating returns the mean helpfulness ratio per score
// group over reviews where the ratio is present.
func (s *Memory) HelpfulnessByRating(ctx context.Context) (map[string]float64, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range s.Reviews {
		if r.HelpfulRatio == nil {
			continue
		}
		key := scoreLabel(r.Score)
		sums[key] += *r.HelpfulRatio
		counts[key]++
	}
	averages := make(map[string]float64, len(sums))
	for key, sum := range sums {
		averages[key] = sum / float64(counts[key])
	}
	return averages, nil
}

// Ping reports reachability.
func (s *Memory) Ping(ctx context.Context) error {
	return s.check()
}

// Close is a no-op for the in-memory store.
func (s *Memory) Close(ctx context.Context) error {
	return nil
}
