// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

// Package config loads and validates service configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, then an optional YAML config
// file, then built-in defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Mongo    MongoConfig    `koanf:"mongo"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// MongoConfig holds connection settings for the reviews database.
// The service is read-only: it never writes to these collections.
type MongoConfig struct {
	// URI is the MongoDB connection string. Empty URI means the service
	// starts degraded and every stats request reports store-unavailable.
	URI string `koanf:"uri"`

	// Database is the database name holding the review collections.
	Database string `koanf:"database"`

	// Collection names, overridable for non-standard ETL layouts.
	ReviewsCollection  string `koanf:"reviews_collection"`
	UsersCollection    string `koanf:"users_collection"`
	ProductsCollection string `koanf:"products_collection"`

	// ConnectTimeout bounds the initial connection and ping.
	ConnectTimeout time.Duration `koanf:"connect_timeout"`

	// QueryTimeout bounds each aggregation query.
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	// TopProductsDefault is the product count returned when the client
	// does not pass an explicit limit.
	TopProductsDefault int `koanf:"top_products_default"`

	// TopProductsMax caps the client-supplied limit.
	TopProductsMax int `koanf:"top_products_max"`

	// StatsCacheTTL is how long a computed statistics bundle is served
	// before it is recomputed from the store.
	StatsCacheTTL time.Duration `koanf:"stats_cache_ttl"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid combinations. It is
// called after loading, before any component is constructed.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Mongo.URI != "" {
		if c.Mongo.Database == "" {
			return fmt.Errorf("mongo.database is required when mongo.uri is set")
		}
		if c.Mongo.ConnectTimeout <= 0 {
			return fmt.Errorf("mongo.connect_timeout must be positive, got %s", c.Mongo.ConnectTimeout)
		}
		if c.Mongo.QueryTimeout <= 0 {
			return fmt.Errorf("mongo.query_timeout must be positive, got %s", c.Mongo.QueryTimeout)
		}
	}
	if c.API.TopProductsDefault < 1 {
		return fmt.Errorf("api.top_products_default must be at least 1, got %d", c.API.TopProductsDefault)
	}
	if c.API.TopProductsMax < c.API.TopProductsDefault {
		return fmt.Errorf("api.top_products_max (%d) must be >= api.top_products_default (%d)",
			c.API.TopProductsMax, c.API.TopProductsDefault)
	}
	if c.API.StatsCacheTTL < 0 {
		return fmt.Errorf("api.stats_cache_ttl must not be negative, got %s", c.API.StatsCacheTTL)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_requests must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}
	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("server.environment must be development, production, or test, got %q", c.Server.Environment)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
