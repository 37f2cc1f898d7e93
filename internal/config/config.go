// Package config provides configuration for the chat router.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Backend (OpenAI-compatible chat completions endpoint)
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// History bounds. KeepLast must be strictly less than MaxTotalMessages.
	MaxTotalMessages int
	KeepLast         int

	// Input limits
	MaxInputLen  int
	MaxUserIDLen int

	// Turn log database
	DatabaseURL string

	// Analytics webhook (empty disables)
	AuditWebhookURL string

	// Prompt template overrides (empty uses built-ins)
	PromptsFile string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnvInt("HTTP_PORT", 8080),
		LLMBaseURL:       getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMAPIKey:        getEnv("LLM_API_KEY", ""),
		LLMModel:         getEnv("LLM_MODEL", "gpt-4o"),
		LLMTimeout:       time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		MaxTotalMessages: getEnvInt("MAX_TOTAL_MESSAGES", 14),
		KeepLast:         getEnvInt("KEEP_LAST", 6),
		MaxInputLen:      getEnvInt("MAX_INPUT_LEN", 4000),
		MaxUserIDLen:     getEnvInt("MAX_USER_ID_LEN", 128),
		DatabaseURL:      getEnv("DATABASE_URL", "file:minai.db?cache=shared&mode=rwc"),
		AuditWebhookURL:  getEnv("AUDIT_WEBHOOK_URL", ""),
		PromptsFile:      getEnv("PROMPTS_FILE", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	// Compaction is undefined when the kept window is not smaller than the
	// trigger threshold. Fall back to defaults rather than refusing to start.
	if cfg.KeepLast >= cfg.MaxTotalMessages || cfg.KeepLast < 0 {
		log.Printf("WARN: invalid history bounds (max=%d keep=%d), using defaults 14/6",
			cfg.MaxTotalMessages, cfg.KeepLast)
		cfg.MaxTotalMessages = 14
		cfg.KeepLast = 6
	}

	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
