// Package config loads pipeline settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// File locations
	SourcesPath string
	OutputPath  string
	CachePath   string

	// Pipeline limits
	RequestTimeout time.Duration
	MaxItems       int
	PerSourceLimit int

	// D1 sync settings
	D1Enabled      bool
	D1DatabaseName string
	D1Remote       bool

	// Optional Postgres mirror
	DatabaseURL string

	// Translation backends
	GeminiAPIKey string
	OpenAIAPIKey string

	// Optional run notification
	TelegramToken  string
	TelegramChatID string

	Debug bool
}

const (
	defaultD1DatabaseName = "cyrus-ai-news"
	defaultMaxItems       = 80
	defaultPerSourceLimit = 15
	defaultTimeoutSeconds = 20
)

func Load() *Config {
	cfg := &Config{
		SourcesPath:    getEnvOrDefault("SOURCES_FILE", "data/news_sources.yaml"),
		OutputPath:     getEnvOrDefault("OUTPUT_FILE", "data/news.json"),
		CachePath:      getEnvOrDefault("TRANSLATION_CACHE_FILE", "data/translation_cache.json"),
		MaxItems:       getEnvIntOrDefault("MAX_ITEMS", defaultMaxItems),
		PerSourceLimit: getEnvIntOrDefault("PER_SOURCE_LIMIT", defaultPerSourceLimit),
		D1Enabled:      getEnvBoolOrDefault("ENABLE_D1_SYNC", true),
		D1DatabaseName: strings.TrimSpace(getEnvOrDefault("D1_DATABASE_NAME", defaultD1DatabaseName)),
		D1Remote:       getEnvBoolOrDefault("D1_REMOTE", true),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
		Debug:          os.Getenv("DEBUG") == "true",
	}

	seconds := getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", defaultTimeoutSeconds)
	if seconds <= 0 {
		seconds = defaultTimeoutSeconds
	}
	cfg.RequestTimeout = time.Duration(seconds) * time.Second

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault treats 0/false/no/off (any case) as false and any
// other non-empty value as true.
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	switch value {
	case "0", "false", "no", "off":
		return false
	}
	return true
}
