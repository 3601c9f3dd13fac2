package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})

	t.Run("options apply", func(t *testing.T) {
		cfg := NewConfig(
			WithHost("https://api.siliconflow.cn"),
			WithEmbeddingModel("BAAI/bge-large-zh-v1.5"),
			WithLLMModel("qwen/qwen3-8b-fp8"),
			WithAPIKey("sk-test"),
			WithRequestTimeout(5*time.Second),
		)
		assert.Equal(t, "https://api.siliconflow.cn", cfg.EmbeddingHost)
		assert.Equal(t, "sk-test", cfg.APIKey)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	})
}

func TestConfig_Normalize(t *testing.T) {
	t.Run("adds /v1 suffix", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:9100"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:9100/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:9100/v1", cfg.LLMHost)
	})

	t.Run("strips trailing slash before adding", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:9100/"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:9100/v1", cfg.EmbeddingHost)
	})

	t.Run("leaves versioned paths alone", func(t *testing.T) {
		cfg := NewConfig(WithLLMHost("https://api.ppinfra.com/v3/openai"))
		cfg.Normalize()
		assert.Equal(t, "https://api.ppinfra.com/v3/openai", cfg.LLMHost)
	})

	t.Run("repairs non-positive timeout", func(t *testing.T) {
		cfg := NewConfig(WithRequestTimeout(0))
		cfg.Normalize()
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		require.NoError(t, NewConfig().Validate())
	})

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"missing llm host", func(c *Config) { c.LLMHost = "" }},
		{"missing llm model", func(c *Config) { c.LLMModel = "" }},
		{"missing api key", func(c *Config) { c.APIKey = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
