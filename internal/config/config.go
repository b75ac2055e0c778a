// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	Port    int    `env:"DINEWISE_PORT" envDefault:"8080"`
	BaseURL string `env:"DINEWISE_BASE_URL" envDefault:"http://localhost:8080"`

	// SurrealDB connection
	SurrealDBURL       string `env:"SURREALDB_URL" envDefault:"ws://localhost:8000/rpc"`
	SurrealDBNamespace string `env:"SURREALDB_NAMESPACE" envDefault:"dinewise"`
	SurrealDBDatabase  string `env:"SURREALDB_DATABASE" envDefault:"reviews"`
	SurrealDBUser      string `env:"SURREALDB_USER" envDefault:"root"`
	SurrealDBPass      string `env:"SURREALDB_PASS" envDefault:"root"`
	SurrealDBAuthLevel string `env:"SURREALDB_AUTH_LEVEL" envDefault:"root"`

	// Auth
	JWTSecret          string `env:"JWT_SECRET_KEY"`
	TokenExpiryMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"1440"`

	// SMTP (verification and password-reset mail)
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPEmail    string `env:"SMTP_EMAIL"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// Chat model
	LLMProvider     string  `env:"DINEWISE_LLM_PROVIDER" envDefault:"openai"`
	LLMModel        string  `env:"DINEWISE_LLM_MODEL" envDefault:"gpt-4o"`
	OpenAIAPIKey    string  `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string  `env:"ANTHROPIC_API_KEY"`
	OllamaHost      string  `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	ChatTemperature float64 `env:"DINEWISE_CHAT_TEMPERATURE" envDefault:"0.3"`
	ChatTopP        float64 `env:"DINEWISE_CHAT_TOP_P" envDefault:"0.4"`
	ChatMaxTokens   int     `env:"DINEWISE_CHAT_MAX_TOKENS" envDefault:"1000"`

	// Embeddings
	EmbedProvider  string `env:"DINEWISE_EMBED_PROVIDER" envDefault:"ollama"`
	EmbedModel     string `env:"DINEWISE_EMBED_MODEL" envDefault:"all-minilm:l6-v2"`
	EmbedDimension int    `env:"DINEWISE_EMBED_DIMENSION" envDefault:"384"`

	// Logging
	LogFile  string `env:"DINEWISE_LOG_FILE" envDefault:"/tmp/dinewise.log"`
	RawLevel string `env:"DINEWISE_LOG_LEVEL" envDefault:"INFO"`

	// Parsed from RawLevel after env parsing.
	LogLevel slog.Level `env:"-"`
}

// Provider names accepted by LLMProvider / EmbedProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Load reads configuration from the environment, honouring a .env file if present.
func Load() (Config, error) {
	// Missing .env is fine; real deployments use plain env vars.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.RawLevel)
	return cfg, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
