// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "negative server timeout",
			mutate:  func(c *Config) { c.Server.Timeout = -time.Second },
			wantErr: "server.timeout",
		},
		{
			name: "uri without database",
			mutate: func(c *Config) {
				c.Mongo.URI = "mongodb://localhost:27017"
				c.Mongo.Database = ""
			},
			wantErr: "mongo.database",
		},
		{
			name: "uri with zero query timeout",
			mutate: func(c *Config) {
				c.Mongo.URI = "mongodb://localhost:27017"
				c.Mongo.QueryTimeout = 0
			},
			wantErr: "mongo.query_timeout",
		},
		{
			name: "no uri skips mongo checks",
			mutate: func(c *Config) {
				c.Mongo.URI = ""
				c.Mongo.QueryTimeout = 0
			},
			wantErr: "",
		},
		{
			name:    "top products default zero",
			mutate:  func(c *Config) { c.API.TopProductsDefault = 0 },
			wantErr: "api.top_products_default",
		},
		{
			name: "max below default",
			mutate: func(c *Config) {
				c.API.TopProductsDefault = 50
				c.API.TopProductsMax = 10
			},
			wantErr: "api.top_products_max",
		},
		{
			name:    "negative cache ttl",
			mutate:  func(c *Config) { c.API.StatsCacheTTL = -time.Minute },
			wantErr: "api.stats_cache_ttl",
		},
		{
			name:    "rate limit zero requests",
			mutate:  func(c *Config) { c.Security.RateLimitReqs = 0 },
			wantErr: "security.rate_limit_requests",
		},
		{
			name: "rate limit disabled skips checks",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
			wantErr: "",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.Server.Environment = "staging" },
			wantErr: "server.environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"MONGODB_URI", "mongo.uri"},
		{"MONGODB_DATABASE", "mongo.database"},
		{"HTTP_PORT", "server.port"},
		{"STATS_CACHE_TTL", "api.stats_cache_ttl"},
		{"LOG_LEVEL", "logging.level"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"PATH", ""},
		{"SOME_RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "reviews_test")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv(ConfigPathEnvVar, "/nonexistent/config.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("Mongo.URI = %q", cfg.Mongo.URI)
	}
	if cfg.Mongo.Database != "reviews_test" {
		t.Errorf("Mongo.Database = %q", cfg.Mongo.Database)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != "https://a.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	// Unset values keep defaults.
	if cfg.API.TopProductsDefault != 15 {
		t.Errorf("TopProductsDefault = %d, want 15", cfg.API.TopProductsDefault)
	}
}
