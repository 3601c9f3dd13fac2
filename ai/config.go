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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the embedding and generation services.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "https://api.siliconflow.cn/v1"
	EmbeddingHost string

	// EmbeddingModel is the model identifier for text embeddings.
	// Example: "BAAI/bge-large-zh-v1.5", "text-embedding-3-small"
	EmbeddingModel string

	// LLMHost is the base URL for the generation service API.
	// Example: "https://api.ppinfra.com/v3/openai"
	LLMHost string

	// LLMModel is the model identifier for answer generation.
	// Example: "qwen/qwen3-8b-fp8", "gpt-4o-mini"
	LLMModel string

	// APIKey authenticates against both services. "none" works for local
	// OpenAI-compatible servers without authentication.
	APIKey string

	// RequestTimeout bounds every individual service call. Expiry is
	// treated as "service unavailable", not as a crash.
	// Default: 30s.
	RequestTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithLLMHost sets the generation service host URL.
func WithLLMHost(host string) ConfigOption {
	return func(c *Config) {
		c.LLMHost = host
	}
}

// WithHost sets both service hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.LLMHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithLLMModel sets the generation model identifier.
func WithLLMModel(model string) ConfigOption {
	return func(c *Config) {
		c.LLMModel = model
	}
}

// WithAPIKey sets the API key for both services.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithRequestTimeout sets the per-call timeout.
func WithRequestTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = d
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible server.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:  defaultHost,
		EmbeddingModel: "bge-large-zh-v1.5",
		LLMHost:        defaultHost,
		LLMModel:       "qwen2.5:7b",
		APIKey:         "none",
		RequestTimeout: 30 * time.Second,
	}
}

// NewConfig creates a Config with defaults and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("https://api.siliconflow.cn"),
//	    WithEmbeddingModel("BAAI/bge-large-zh-v1.5"),
//	    WithAPIKey(key),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is canonical. Hosts gain the /v1
// suffix most OpenAI-compatible APIs require, unless the URL already
// carries a versioned path.
func (c *Config) Normalize() {
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.LLMHost = normalizeHost(c.LLMHost)
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
}

func normalizeHost(host string) string {
	if host == "" {
		return host
	}
	host = strings.TrimSuffix(host, "/")
	// Heuristic: already-versioned paths (/v1, /v3/openai, ...) are left alone.
	if strings.Contains(host, "/v1") || strings.Contains(host, "/v2") || strings.Contains(host, "/v3") {
		return host
	}
	return host + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.LLMHost == "" {
		return errors.New("ai config: LLMHost is required")
	}
	if c.LLMModel == "" {
		return errors.New("ai config: LLMModel is required")
	}
	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required (use \"none\" for unauthenticated local services)")
	}
	return nil
}
