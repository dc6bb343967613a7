// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

package models

// StatisticsBundle is the complete aggregation result consumed by
// presentation code. It is a pure function of the underlying collections
// at query time: it holds no reference back to the data store and is
// never mutated after construction, so it is safe to share across any
// number of concurrent readers without synchronization.
//
// Map keys for per-rating fields are score labels ("1.0" through "5.0");
// yearly keys are the four-digit year. Empty groupings are represented
// by empty (non-nil) maps and slices so renderers can draw zero-state.
type StatisticsBundle struct {
	TotalReviews   int64 `json:"total_reviews"`
	UniqueUsers    int64 `json:"unique_users"`
	UniqueProducts int64 `json:"unique_products"`

	AvgRating    float64 `json:"avg_rating"`
	AvgWordCount float64 `json:"avg_word_count"`

	RatingCounts      map[string]int64   `json:"rating_counts"`
	RatingPercentages map[string]float64 `json:"rating_percentages"`

	YearlyData map[string]YearStats `json:"yearly_data"`

	UserSegments UserSegments `json:"user_segments"`

	WordCountByRating map[string]float64 `json:"word_count_by_rating"`
	HelpfulByRating   map[string]float64 `json:"helpful_by_rating"`

	TopProducts []ProductSummary `json:"top_products"`
}

// YearStats holds the review volume and mean score for a single year.
type YearStats struct {
	Count     int64   `json:"count"`
	AvgRating float64 `json:"avg_rating"`
}

// UserSegments partitions user summaries by lifetime review count:
// casual <= 5, 5 < regular <= 50, power > 50. The thresholds are strict
// and non-overlapping, so the three counts sum to the number of users.
type UserSegments struct {
	Casual  int64 `json:"casual"`
	Regular int64 `json:"regular"`
	Power   int64 `json:"power"`
}

// Total returns the number of users across all segments.
func (s UserSegments) Total() int64 {
	return s.Casual + s.Regular + s.Power
}

// RatingsResponse carries the rating histogram endpoints' payload.
type RatingsResponse struct {
	TotalReviews      int64              `json:"total_reviews"`
	RatingCounts      map[string]int64   `json:"rating_counts"`
	RatingPercentages map[string]float64 `json:"rating_percentages"`
}

// YearlyResponse carries the temporal trend endpoint's payload.
type YearlyResponse struct {
	YearlyData map[string]YearStats `json:"yearly_data"`
}

// SegmentsResponse carries the user segmentation endpoint's payload.
type SegmentsResponse struct {
	UniqueUsers  int64        `json:"unique_users"`
	UserSegments UserSegments `json:"user_segments"`
}

// TextStatsResponse carries review length statistics.
type TextStatsResponse struct {
	AvgWordCount      float64            `json:"avg_word_count"`
	WordCountByRating map[string]float64 `json:"word_count_by_rating"`
}

// HelpfulnessResponse carries per-rating helpfulness averages.
type HelpfulnessResponse struct {
	HelpfulByRating map[string]float64 `json:"helpful_by_rating"`
}

// TopProductsResponse carries the product ranking endpoint's payload.
type TopProductsResponse struct {
	Limit    int              `json:"limit"`
	Products []ProductSummary `json:"products"`
}
