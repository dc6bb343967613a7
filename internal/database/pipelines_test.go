// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

package database

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func stageKey(t *testing.T, stage bson.D) string {
	t.Helper()
	if len(stage) != 1 {
		t.Fatalf("pipeline stage must hold exactly one operator, got %d", len(stage))
	}
	return stage[0].Key
}

func groupFields(t *testing.T, stage bson.D) bson.D {
	t.Helper()
	fields, ok := stage[0].Value.(bson.D)
	if !ok {
		t.Fatalf("stage value is %T, want bson.D", stage[0].Value)
	}
	return fields
}

func TestRatingCountsPipelineShape(t *testing.T) {
	t.Parallel()

	pipeline := ratingCountsPipeline()
	if len(pipeline) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(pipeline))
	}
	if key := stageKey(t, pipeline[0]); key != "$group" {
		t.Errorf("first stage is %q, want $group", key)
	}
	if key := stageKey(t, pipeline[1]); key != "$sort" {
		t.Errorf("second stage is %q, want $sort", key)
	}

	group := groupFields(t, pipeline[0])
	if group[0].Key != "_id" || group[0].Value != "$score" {
		t.Errorf("group key = %v, want _id: $score", group[0])
	}
}

func TestYearlyStatsPipelineGroupsByYear(t *testing.T) {
	t.Parallel()

	pipeline := yearlyStatsPipeline()
	group := groupFields(t, pipeline[0])

	if group[0].Value != "$year" {
		t.Errorf("group _id = %v, want $year", group[0].Value)
	}

	var haveCount, haveAvg bool
	for _, field := range group {
		switch field.Key {
		case "count":
			haveCount = true
		case "avg_rating":
			haveAvg = true
		}
	}
	if !haveCount || !haveAvg {
		t.Errorf("group must compute count and avg_rating, got %v", group)
	}
}

func TestHelpfulnessPipelineFiltersAbsentRatios(t *testing.T) {
	t.Parallel()

	pipeline := helpfulnessByRatingPipeline()
	if len(pipeline) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(pipeline))
	}
	if key := stageKey(t, pipeline[0]); key != "$match" {
		t.Fatalf("first stage is %q, want $match", key)
	}

	match := groupFields(t, pipeline[0])
	if match[0].Key != "helpful_ratio" {
		t.Errorf("match filters on %q, want helpful_ratio", match[0].Key)
	}
	cond, ok := match[0].Value.(bson.D)
	if !ok || len(cond) != 1 || cond[0].Key != "$ne" || cond[0].Value != nil {
		t.Errorf("match condition = %v, want $ne: nil", match[0].Value)
	}
}

func TestTopProductsSortIsDeterministic(t *testing.T) {
	t.Parallel()

	sort := topProductsSort()
	if len(sort) != 2 {
		t.Fatalf("expected 2 sort keys, got %d", len(sort))
	}
	if sort[0].Key != "review_count" || sort[0].Value != -1 {
		t.Errorf("primary sort = %v, want review_count descending", sort[0])
	}
	// Product id ascending breaks review-count ties deterministically.
	if sort[1].Key != "_id" || sort[1].Value != 1 {
		t.Errorf("tie-break sort = %v, want _id ascending", sort[1])
	}
}

func TestScoreLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  string
	}{
		{1, "1.0"},
		{2, "2.0"},
		{5, "5.0"},
	}
	for _, tt := range tests {
		if got := scoreLabel(tt.score); got != tt.want {
			t.Errorf("scoreLabel(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestSegmentThresholdsPartition(t *testing.T) {
	t.Parallel()

	// The three count filters must partition every non-negative review
	// count into exactly one segment.
	for count := 0; count <= 200; count++ {
		casual := count <= casualMaxReviews
		regular := count > casualMaxReviews && count <= regularMaxReviews
		power := count > regularMaxReviews

		matched := 0
		for _, in := range []bool{casual, regular, power} {
			if in {
				matched++
			}
		}
		if matched != 1 {
			t.Fatalf("review count %d matched %d segments", count, matched)
		}
	}
}
