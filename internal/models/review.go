// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

package models

// Review is one user's rating/text submission for one product.
//
// Records are owned by the upstream ETL pipeline and are read-only from
// this service's perspective. Year and HelpfulRatio are pointers because
// the source data contains records where those fields are absent; absent
// values are excluded from averages, never treated as zero.
type Review struct {
	ID           string   `bson:"_id" json:"id"`
	ProductID    string   `bson:"product_id" json:"product_id"`
	UserID       string   `bson:"user_id" json:"user_id"`
	Score        float64  `bson:"score" json:"score"`
	Year         *int     `bson:"year,omitempty" json:"year,omitempty"`
	WordCount    int      `bson:"word_count" json:"word_count"`
	HelpfulRatio *float64 `bson:"helpful_ratio,omitempty" json:"helpful_ratio,omitempty"`
}

// UserSummary is one row per distinct user with their lifetime review
// count, precomputed upstream into the user_stats collection.
type UserSummary struct {
	UserID      string `bson:"_id" json:"user_id"`
	ReviewCount int    `bson:"review_count" json:"review_count"`
}

// ProductSummary is one row per distinct product, precomputed upstream
// into the product_stats collection.
type ProductSummary struct {
	ProductID   string  `bson:"_id" json:"product_id"`
	ReviewCount int     `bson:"review_count" json:"review_count"`
	AvgRating   float64 `bson:"avg_rating" json:"avg_rating"`
}
