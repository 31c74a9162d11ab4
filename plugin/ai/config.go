package ai

import (
	"errors"

	"github.com/miachat/miachat/internal/profile"
)

// Config represents AI configuration.
type Config struct {
	Embedding EmbeddingConfig
	LLM       map[string]LLMConfig // keyed by provider name
}

// EmbeddingConfig represents vector embedding configuration.
type EmbeddingConfig struct {
	Provider   string // openai or gemini
	Model      string // text-embedding-3-small
	Dimensions int    // 1536, must match the message_embedding schema
	APIKey     string
	BaseURL    string
}

// LLMConfig represents chat model configuration for one provider.
// Every provider speaks the OpenAI chat-completion dialect; the base URL
// selects the actual backend.
type LLMConfig struct {
	Provider    string // openai or gemini
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32 // default: 0.7
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Embedding: EmbeddingConfig{
			Provider:   p.EmbeddingProvider,
			Model:      p.EmbeddingModel,
			Dimensions: p.EmbeddingDimensions,
		},
		LLM: map[string]LLMConfig{},
	}

	switch p.EmbeddingProvider {
	case "gemini":
		cfg.Embedding.APIKey = p.GeminiAPIKey
		cfg.Embedding.BaseURL = p.GeminiBaseURL
	default:
		cfg.Embedding.APIKey = p.OpenAIAPIKey
		cfg.Embedding.BaseURL = p.OpenAIBaseURL
	}

	if p.OpenAIAPIKey != "" {
		cfg.LLM["openai"] = LLMConfig{
			Provider:    "openai",
			Model:       p.OpenAIChatModel,
			APIKey:      p.OpenAIAPIKey,
			BaseURL:     p.OpenAIBaseURL,
			Temperature: 0.7,
		}
	}
	if p.GeminiAPIKey != "" {
		cfg.LLM["gemini"] = LLMConfig{
			Provider:    "gemini",
			Model:       p.GeminiChatModel,
			APIKey:      p.GeminiAPIKey,
			BaseURL:     p.GeminiBaseURL,
			Temperature: 0.7,
		}
	}

	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.LLM) == 0 {
		return errors.New("at least one LLM provider API key is required")
	}
	if c.Embedding.APIKey == "" {
		return errors.New("embedding API key is required")
	}
	if c.Embedding.Dimensions <= 0 {
		return errors.New("embedding dimensions must be positive")
	}
	return nil
}
