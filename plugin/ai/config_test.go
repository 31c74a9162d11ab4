package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miachat/miachat/internal/profile"
)

func TestNewConfigFromProfile(t *testing.T) {
	p := &profile.Profile{
		OpenAIAPIKey:        "sk-test",
		OpenAIChatModel:     "gpt-4o-mini",
		GeminiAPIKey:        "g-test",
		GeminiBaseURL:       "https://generativelanguage.googleapis.com/v1beta/openai",
		GeminiChatModel:     "gemini-2.0-flash",
		EmbeddingProvider:   "openai",
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 1536,
	}

	cfg := NewConfigFromProfile(p)
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.LLM, 2)
	require.Equal(t, "gpt-4o-mini", cfg.LLM["openai"].Model)
	require.Equal(t, "gemini-2.0-flash", cfg.LLM["gemini"].Model)
	require.Equal(t, "sk-test", cfg.Embedding.APIKey)
	require.Equal(t, 1536, cfg.Embedding.Dimensions)
}

func TestNewConfigFromProfileSingleProvider(t *testing.T) {
	p := &profile.Profile{
		GeminiAPIKey:        "g-test",
		GeminiChatModel:     "gemini-2.0-flash",
		EmbeddingProvider:   "gemini",
		EmbeddingModel:      "text-embedding-004",
		EmbeddingDimensions: 1536,
	}

	cfg := NewConfigFromProfile(p)
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.LLM, 1)
	require.Contains(t, cfg.LLM, "gemini")
	require.Equal(t, "g-test", cfg.Embedding.APIKey)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{LLM: map[string]LLMConfig{}}
	require.Error(t, cfg.Validate(), "no providers configured")

	cfg = &Config{
		Embedding: EmbeddingConfig{APIKey: "k", Dimensions: 0},
		LLM:       map[string]LLMConfig{"openai": {Provider: "openai", APIKey: "k"}},
	}
	require.Error(t, cfg.Validate(), "dimensions must be positive")
}

func TestMessageHelpers(t *testing.T) {
	require.Equal(t, Message{Role: "system", Content: "s"}, SystemMessage("s"))
	require.Equal(t, Message{Role: "user", Content: "u"}, UserMessage("u"))
	require.Equal(t, Message{Role: "assistant", Content: "a"}, AssistantMessage("a"))
}

func TestNewLLMServiceRejectsUnknownProvider(t *testing.T) {
	_, err := NewLLMService(&LLMConfig{Provider: "anthropic", APIKey: "k"})
	require.Error(t, err)
}
