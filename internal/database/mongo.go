// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/reviewdeck/reviewdeck/internal/config"
	"github.com/reviewdeck/reviewdeck/internal/logging"
	"github.com/reviewdeck/reviewdeck/internal/metrics"
	"github.com/reviewdeck/reviewdeck/internal/models"
)

// User segmentation thresholds by lifetime review count.
const (
	casualMaxReviews  = 5
	regularMaxReviews = 50
)

// Mongo implements Store against a MongoDB database.
//
// All queries run through a circuit breaker so a dead store trips fast
// to ErrUnavailable instead of burning the full client timeout on every
// request. The breaker does not retry; one attempt per invocation, as
// the aggregator contract requires.
type Mongo struct {
	client       *mongo.Client
	reviews      *mongo.Collection
	users        *mongo.Collection
	products     *mongo.Collection
	queryTimeout time.Duration
	breaker      *gobreaker.CircuitBreaker[any]
}

// NewMongo connects to the configured MongoDB deployment and verifies
// connectivity with a ping. A connection failure is returned to the
// caller, who is expected to run degraded rather than crash.
func NewMongo(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", ErrUnavailable, err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		// Best effort; the client was never usable.
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping: %w", ErrUnavailable, err)
	}

	db := client.Database(cfg.Database)

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "mongo",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Store circuit breaker state changed")
		},
	})

	logging.Info().
		Str("database", cfg.Database).
		Str("reviews", cfg.ReviewsCollection).
		Msg("Connected to review store")

	return &Mongo{
		client:       client,
		reviews:      db.Collection(cfg.ReviewsCollection),
		users:        db.Collection(cfg.UsersCollection),
		products:     db.Collection(cfg.ProductsCollection),
		queryTimeout: cfg.QueryTimeout,
		breaker:      breaker,
	}, nil
}

// scoreLabel formats a score as the map key used throughout the bundle.
// Matches the upstream data's string form: 1.0 -> "1.0".
func scoreLabel(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

// execute runs fn through the circuit breaker, recording query metrics
// and mapping transport-level failures to ErrUnavailable.
func execute[T any](m *Mongo, ctx context.Context, collection, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	queryCtx, cancel := context.WithTimeout(ctx, m.queryTimeout)
	defer cancel()

	start := time.Now()
	result, err := m.breaker.Execute(func() (any, error) {
		return fn(queryCtx)
	})
	metrics.RecordStoreQuery(collection, operation, time.Since(start), err)

	if err != nil {
		if isUnavailable(err) {
			return zero, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, operation, collection, err)
		}
		return zero, fmt.Errorf("%s %s: %w", operation, collection, err)
	}
	return result.(T), nil
}

// isUnavailable reports whether err indicates the store cannot be
// reached, as opposed to a malformed query.
func isUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) ||
		mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err)
}

// CountReviews returns the total number of review documents.
func (m *Mongo) CountReviews(ctx context.Context) (int64, error) {
	return execute(m, ctx, "reviews", "count", func(ctx context.Context) (int64, error) {
		return m.reviews.CountDocuments(ctx, bson.D{})
	})
}

// CountUsers returns the number of distinct users.
func (m *Mongo) CountUsers(ctx context.Context) (int64, error) {
	return execute(m, ctx, "user_stats", "count", func(ctx context.Context) (int64, error) {
		return m.users.CountDocuments(ctx, bson.D{})
	})
}

// CountProducts returns the number of distinct products.
func (m *Mongo) CountProducts(ctx context.Context) (int64, error) {
	return execute(m, ctx, "product_stats", "count", func(ctx context.Context) (int64, error) {
		return m.products.CountDocuments(ctx, bson.D{})
	})
}

// ratingCountRow is one $group result keyed by score.
type ratingCountRow struct {
	Score float64 `bson:"_id"`
	Count int64   `bson:"count"`
}

// RatingCounts groups reviews by score and counts each group.
func (m *Mongo) RatingCounts(ctx context.Context) (map[string]int64, error) {
	return execute(m, ctx, "reviews", "rating_counts", func(ctx context.Context) (map[string]int64, error) {
		cursor, err := m.reviews.Aggregate(ctx, ratingCountsPipeline())
		if err != nil {
			return nil, err
		}
		var rows []ratingCountRow
		if err := cursor.All(ctx, &rows); err != nil {
			return nil, err
		}

		counts := make(map[string]int64, len(rows))
		for _, row := range rows {
			counts[scoreLabel(row.Score)] = row.Count
		}
		return counts, nil
	})
}

// yearlyRow is one $group result keyed by year. Year is a pointer so
// the null-year group, if present, can be recognized and dropped.
type yearlyRow struct {
	Year      *int    `bson:"_id"`
	Count     int64   `bson:"count"`
	AvgRating float64 `bson:"avg_rating"`
}

// YearlyStats groups reviews by year, excluding records without one.
func (m *Mongo) YearlyStats(ctx context.Context) (map[string]models.YearStats, error) {
	return execute(m, ctx, "reviews", "yearly_stats", func(ctx context.Context) (map[string]models.YearStats, error) {
		cursor, err := m.reviews.Aggregate(ctx, yearlyStatsPipeline())
		if err != nil {
			return nil, err
		}
		var rows []yearlyRow
		if err := cursor.All(ctx, &rows); err != nil {
			return nil, err
		}

		yearly := make(map[string]models.YearStats, len(rows))
		for _, row := range rows {
			if row.Year == nil {
				continue
			}
			yearly[strconv.Itoa(*row.Year)] = models.YearStats{
				Count:     row.Count,
				AvgRating: row.AvgRating,
			}
		}
		return yearly, nil
	})
}

// UserSegmentCounts partitions user_stats rows by review count. The
// filters are strict and non-overlapping so no row is double-counted.
func (m *Mongo) UserSegmentCounts(ctx context.Context) (models.UserSegments, error) {
	return execute(m, ctx, "user_stats", "segment_counts", func(ctx context.Context) (models.UserSegments, error) {
		var segments models.UserSegments

		casual, err := m.users.CountDocuments(ctx, bson.D{
			{Key: "review_count", Value: bson.D{{Key: "$lte", Value: casualMaxReviews}}},
		})
		if err != nil {
			return segments, err
		}

		regular, err := m.users.CountDocuments(ctx, bson.D{
			{Key: "review_count", Value: bson.D{
				{Key: "$gt", Value: casualMaxReviews},
				{Key: "$lte", Value: regularMaxReviews},
			}},
		})
		if err != nil {
			return segments, err
		}

		power, err := m.users.CountDocuments(ctx, bson.D{
			{Key: "review_count", Value: bson.D{{Key: "$gt", Value: regularMaxReviews}}},
		})
		if err != nil {
			return segments, err
		}

		segments.Casual = casual
		segments.Regular = regular
		segments.Power = power
		return segments, nil
	})
}

// TopProducts returns the limit products with the highest review count.
func (m *Mongo) TopProducts(ctx context.Context, limit int) ([]models.ProductSummary, error) {
	return execute(m, ctx, "product_stats", "top_products", func(ctx context.Context) ([]models.ProductSummary, error) {
		opts := options.Find().
			SetSort(topProductsSort()).
			SetLimit(int64(limit))

		cursor, err := m.products.Find(ctx, bson.D{}, opts)
		if err != nil {
			return nil, err
		}
		products := []models.ProductSummary{}
		if err := cursor.All(ctx, &products); err != nil {
			return nil, err
		}
		return products, nil
	})
}

// overallAveragesRow is the single $group result over all reviews.
type overallAveragesRow struct {
	AvgRating    float64 `bson:"avg_rating"`
	AvgWordCount float64 `bson:"avg_word_count"`
}

// ReviewAverages returns the mean score and mean word count over all
// reviews, or zeros when the collection is empty.
func (m *Mongo) ReviewAverages(ctx context.Context) (float64, float64, error) {
	row, err := execute(m, ctx, "reviews", "review_averages", func(ctx context.Context) (overallAveragesRow, error) {
		cursor, err := m.reviews.Aggregate(ctx, reviewAveragesPipeline())
		if err != nil {
			return overallAveragesRow{}, err
		}
		var rows []overallAveragesRow
		if err := cursor.All(ctx, &rows); err != nil {
			return overallAveragesRow{}, err
		}
		if len(rows) == 0 {
			return overallAveragesRow{}, nil
		}
		return rows[0], nil
	})
	if err != nil {
		return 0, 0, err
	}
	return row.AvgRating, row.AvgWordCount, nil
}

// avgByScoreRow is one $group result with a single averaged value.
type avgByScoreRow struct {
	Score float64 `bson:"_id"`
	Avg   float64 `bson:"avg"`
}

// WordCountByRating returns the mean word count per score group.
// $avg skips documents where word_count is missing, which keeps absent
// values out of the mean instead of treating them as zero.
func (m *Mongo) WordCountByRating(ctx context.Context) (map[string]float64, error) {
	return m.avgByScore(ctx, "word_count_by_rating", wordCountByRatingPipeline())
}

// HelpfulnessByRating returns the mean helpfulness ratio per score
// group, computed only over reviews where the ratio is present.
func (m *Mongo) HelpfulnessByRating(ctx context.Context) (map[string]float64, error) {
	return m.avgByScore(ctx, "helpfulness_by_rating", helpfulnessByRatingPipeline())
}

func (m *Mongo) avgByScore(ctx context.Context, operation string, pipeline mongo.Pipeline) (map[string]float64, error) {
	return execute(m, ctx, "reviews", operation, func(ctx context.Context) (map[string]float64, error) {
		cursor, err := m.reviews.Aggregate(ctx, pipeline)
		if err != nil {
			return nil, err
		}
		var rows []avgByScoreRow
		if err := cursor.All(ctx, &rows); err != nil {
			return nil, err
		}

		averages := make(map[string]float64, len(rows))
		for _, row := range rows {
			averages[scoreLabel(row.Score)] = row.Avg
		}
		return averages, nil
	})
}

// Ping verifies connectivity to the store.
func (m *Mongo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.queryTimeout)
	defer cancel()
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrUnavailable, err)
	}
	return nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
