// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

package database

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Aggregation pipelines are built here as plain values so their shape
// can be asserted in tests without a running deployment.

// ratingCountsPipeline groups reviews by score and counts each group,
// sorted by score ascending.
func ratingCountsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$score"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// yearlyStatsPipeline groups reviews by year with count and mean score,
// sorted by year ascending. The null-year group is dropped client-side.
func yearlyStatsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$year"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avg_rating", Value: bson.D{{Key: "$avg", Value: "$score"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// reviewAveragesPipeline computes the mean score and mean word count
// over the entire reviews collection in a single group.
func reviewAveragesPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg_rating", Value: bson.D{{Key: "$avg", Value: "$score"}}},
			{Key: "avg_word_count", Value: bson.D{{Key: "$avg", Value: "$word_count"}}},
		}}},
	}
}

// wordCountByRatingPipeline computes the mean word count per score
// group. $avg ignores documents where word_count is absent.
func wordCountByRatingPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$score"},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$word_count"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// helpfulnessByRatingPipeline computes the mean helpfulness ratio per
// score group over reviews where the ratio is present.
func helpfulnessByRatingPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "helpful_ratio", Value: bson.D{{Key: "$ne", Value: nil}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$score"},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$helpful_ratio"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// topProductsSort orders products by review count descending with
// product id ascending as the deterministic tie-break.
func topProductsSort() bson.D {
	return bson.D{
		{Key: "review_count", Value: -1},
		{Key: "_id", Value: 1},
	}
}
