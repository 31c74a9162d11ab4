package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for the server
	Addr string
	// Port is the binding port for the server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where miachat stores its own data
	DSN string
	// Driver is the database driver (postgres or sqlite)
	Driver string
	// Version is the current version of the server
	Version string

	// LLM configuration
	OpenAIAPIKey    string // MIACHAT_OPENAI_API_KEY
	OpenAIBaseURL   string // MIACHAT_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	OpenAIChatModel string // MIACHAT_OPENAI_CHAT_MODEL (default: gpt-4o-mini)
	GeminiAPIKey    string // MIACHAT_GEMINI_API_KEY
	GeminiBaseURL   string // MIACHAT_GEMINI_BASE_URL (default: Google's OpenAI-compatible endpoint)
	GeminiChatModel string // MIACHAT_GEMINI_CHAT_MODEL (default: gemini-2.0-flash)

	// Embedding configuration
	EmbeddingProvider   string // MIACHAT_EMBEDDING_PROVIDER (openai or gemini, default: openai)
	EmbeddingModel      string // MIACHAT_EMBEDDING_MODEL (default: text-embedding-3-small)
	EmbeddingDimensions int    // MIACHAT_EMBEDDING_DIMENSIONS (default: 1536, must match schema)

	// Retrieval tuning
	RecentWindowSize    int     // MIACHAT_RECENT_WINDOW_SIZE (default: 4)
	SimilarityK         int     // MIACHAT_SIMILARITY_K (default: 5 per role)
	SimilarityThreshold float64 // MIACHAT_SIMILARITY_THRESHOLD (default: 0.6, inclusive)

	// Turn processing
	ChatTimeout        time.Duration // MIACHAT_CHAT_TIMEOUT (default: 60s)
	MaxConcurrentChats int           // MIACHAT_MAX_CONCURRENT_CHATS (default: 8)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads LLM and retrieval configuration from MIACHAT_* environment variables.
// Values already set on the profile (e.g. from flags) keep precedence for the
// server-level fields; AI fields are env-only.
func (p *Profile) FromEnv() {
	p.OpenAIAPIKey = os.Getenv("MIACHAT_OPENAI_API_KEY")
	p.OpenAIBaseURL = getEnvOrDefault("MIACHAT_OPENAI_BASE_URL", "https://api.openai.com/v1")
	p.OpenAIChatModel = getEnvOrDefault("MIACHAT_OPENAI_CHAT_MODEL", "gpt-4o-mini")
	p.GeminiAPIKey = os.Getenv("MIACHAT_GEMINI_API_KEY")
	p.GeminiBaseURL = getEnvOrDefault("MIACHAT_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai")
	p.GeminiChatModel = getEnvOrDefault("MIACHAT_GEMINI_CHAT_MODEL", "gemini-2.0-flash")

	p.EmbeddingProvider = getEnvOrDefault("MIACHAT_EMBEDDING_PROVIDER", "openai")
	p.EmbeddingModel = getEnvOrDefault("MIACHAT_EMBEDDING_MODEL", "text-embedding-3-small")
	if p.EmbeddingDimensions == 0 {
		p.EmbeddingDimensions = 1536
	}

	if p.RecentWindowSize == 0 {
		p.RecentWindowSize = 4
	}
	if p.SimilarityK == 0 {
		p.SimilarityK = 5
	}
	if p.SimilarityThreshold == 0 {
		p.SimilarityThreshold = 0.6
	}
	if p.ChatTimeout == 0 {
		p.ChatTimeout = 60 * time.Second
	}
	if p.MaxConcurrentChats == 0 {
		p.MaxConcurrentChats = 8
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Driver != "postgres" && p.Driver != "sqlite" {
		return errors.Errorf("unsupported database driver %q, expected postgres or sqlite", p.Driver)
	}

	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for the postgres driver")
	}

	if p.Driver == "sqlite" {
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			return err
		}
		p.Data = dataDir
		if p.DSN == "" {
			p.DSN = fmt.Sprintf("file:%s", filepath.Join(p.Data, "miachat_"+p.Mode+".db"))
		}
	}

	if p.SimilarityThreshold < 0 || p.SimilarityThreshold > 1 {
		return errors.Errorf("similarity threshold %v out of range [0,1]", p.SimilarityThreshold)
	}

	return nil
}
