package model

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all process-wide tunables. It is built once at startup and
// passed explicitly into every component constructor; no component reads
// the environment directly.
type Config struct {
	// Embeddings service
	EmbeddingsURL   string
	EmbeddingsModel string
	EmbeddingDim    int

	// Generative model service
	LLMURL          string
	LLMModel        string
	LLMAPIKey       string
	LLMEnabled      bool
	LLMMaxTokens    int
	LLMTemperature  float64
	LLMContextChars int

	// Pipeline
	ChunkSize  int
	TopK       int
	IngestPath string

	// Server
	Port string

	// Bound for every outbound embedding and generation call
	RequestTimeout time.Duration
}

// NewConfigFromEnv builds the configuration from environment variables,
// falling back to defaults where unset. Invalid values are a ConfigError.
func NewConfigFromEnv() (*Config, error) {
	config := &Config{
		EmbeddingsURL:   envString("EMBEDDINGS_URL", "http://localhost:1234/v1/embeddings"),
		EmbeddingsModel: envString("EMBEDDINGS_MODEL", "nomic-embed-text-v1.5"),
		LLMURL:          envString("LLM_URL", "http://localhost:1235/v1/chat/completions"),
		LLMModel:        envString("LLM_MODEL", "qwen3-4b-instruct-2507"),
		LLMAPIKey:       envString("LLM_API_KEY", ""),
		IngestPath:      envString("INGEST_PATH", "data"),
		Port:            envString("PORT", "3000"),
	}

	var err error
	if config.EmbeddingDim, err = envInt("EMBEDDINGS_DIM", 768); err != nil {
		return nil, err
	}
	if config.LLMMaxTokens, err = envInt("LLM_MAX_TOKENS", 512); err != nil {
		return nil, err
	}
	if config.LLMTemperature, err = envFloat("LLM_TEMPERATURE", 0.2); err != nil {
		return nil, err
	}
	if config.LLMContextChars, err = envInt("LLM_CONTEXT_CHARS", 1200); err != nil {
		return nil, err
	}
	if config.ChunkSize, err = envInt("CHUNK_SIZE", 800); err != nil {
		return nil, err
	}
	if config.TopK, err = envInt("TOP_K", 4); err != nil {
		return nil, err
	}

	timeoutSeconds, err := envInt("REQUEST_TIMEOUT", 5)
	if err != nil {
		return nil, err
	}
	config.RequestTimeout = time.Duration(timeoutSeconds) * time.Second

	config.LLMEnabled = !strings.EqualFold(envString("LLM_ENABLED", "true"), "false")

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.EmbeddingsURL == "" {
		return &ConfigError{Key: "EMBEDDINGS_URL", Message: "must not be empty"}
	}
	if c.EmbeddingDim <= 0 {
		return &ConfigError{Key: "EMBEDDINGS_DIM", Message: "must be positive"}
	}
	if c.ChunkSize <= 0 {
		return &ConfigError{Key: "CHUNK_SIZE", Message: "must be positive"}
	}
	if c.TopK <= 0 {
		return &ConfigError{Key: "TOP_K", Message: "must be positive"}
	}
	if c.RequestTimeout <= 0 {
		return &ConfigError{Key: "REQUEST_TIMEOUT", Message: "must be positive"}
	}
	if c.LLMEnabled && (c.LLMURL == "" || c.LLMModel == "") {
		return &ConfigError{Key: "LLM_URL", Message: "LLM_URL and LLM_MODEL are required while LLM_ENABLED is true"}
	}
	return nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ConfigError{Key: key, Message: fmt.Sprintf("not an integer: %v", value)}
	}
	return parsed, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &ConfigError{Key: key, Message: fmt.Sprintf("not a number: %v", value)}
	}
	return parsed, nil
}
