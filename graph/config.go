// Copyright 2025 AICam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package graph

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds connection settings for the Neo4j store.
type Config struct {
	// URI is the bolt/neo4j connection URI.
	// Example: "bolt://localhost:7687"
	URI string

	// Username and Password authenticate with basic auth.
	Username string
	Password string

	// Database selects the target database. Empty means the server default.
	Database string

	// ConnectTimeout bounds the startup connectivity check.
	// Default: 10s.
	ConnectTimeout time.Duration

	// BatchSize is the number of rows per UNWIND write batch during bulk
	// loads. Default: 200.
	BatchSize int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithURI sets the connection URI.
func WithURI(uri string) ConfigOption {
	return func(c *Config) {
		c.URI = uri
	}
}

// WithAuth sets the basic auth credentials.
func WithAuth(username, password string) ConfigOption {
	return func(c *Config) {
		c.Username = username
		c.Password = password
	}
}

// WithDatabase selects the target database.
func WithDatabase(name string) ConfigOption {
	return func(c *Config) {
		c.Database = name
	}
}

// WithConnectTimeout bounds the startup connectivity check.
func WithConnectTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.ConnectTimeout = d
	}
}

// WithBatchSize sets the rows-per-batch for bulk loads.
func WithBatchSize(n int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = n
	}
}

// DefaultConfig returns a Config wired for a local Neo4j instance. The
// NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD, NEO4J_DATABASE and
// NEO4J_TIMEOUT_SECONDS environment variables override the defaults
// when set.
func DefaultConfig() *Config {
	cfg := &Config{
		URI:            "bolt://localhost:7687",
		Username:       "neo4j",
		Password:       "neo4j",
		ConnectTimeout: 10 * time.Second,
		BatchSize:      200,
	}
	if v := os.Getenv("NEO4J_URI"); v != "" {
		cfg.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("NEO4J_DATABASE"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("NEO4J_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.ConnectTimeout = time.Duration(secs) * time.Second
		}
	}
	return cfg
}

// NewConfig creates a Config from the environment-aware defaults and
// applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.URI == "" {
		return errors.New("graph config: URI is required")
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("graph config: ConnectTimeout must be positive")
	}
	if c.BatchSize <= 0 {
		return errors.New("graph config: BatchSize must be positive")
	}
	return nil
}
