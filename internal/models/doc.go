// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

// Package models defines the data structures shared between the store,
// the statistics aggregator, and the HTTP API.
//
// Input types (Review, UserSummary, ProductSummary) mirror the MongoDB
// collections populated by the upstream ETL pipeline and carry BSON
// tags. The output type (StatisticsBundle) is the immutable aggregation
// result and carries JSON tags for the API surface.
package models
