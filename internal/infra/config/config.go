package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries all runtime settings, loaded from environment variables.
type Config struct {
	Env  string
	Port string

	MeiliURL    string
	MeiliAPIKey string

	OllamaURL     string
	ChatModel     string
	ChatTimeout   int     // seconds
	ChatRateLimit float64 // generation requests per second, 0 disables throttling

	SearchMaxResults int
	SnippetCacheSize int // 0 disables the retrieval cache
	SnippetCacheTTL  int // minutes

	// LogPrompts gates informational logging of full prompts. Prompts
	// include document content, so this defaults to off.
	LogPrompts bool

	OTelEnabled bool
}

// Load reads configuration from the environment with sensible defaults.
func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		MeiliURL:    getEnv("MEILI_URL", "http://meilisearch:7700"),
		MeiliAPIKey: getSecret("MEILI_API_KEY", "MEILI_API_KEY_FILE", ""),

		OllamaURL:     getEnv("OLLAMA_URL", "http://ollama:11434"),
		ChatModel:     getEnv("CHAT_MODEL", "llama3.1:8b"),
		ChatTimeout:   getEnvInt("CHAT_TIMEOUT_SECONDS", 120),
		ChatRateLimit: getEnvFloat("CHAT_RATE_LIMIT", 0),

		SearchMaxResults: getEnvInt("SEARCH_MAX_RESULTS", 5),
		SnippetCacheSize: getEnvInt("SNIPPET_CACHE_SIZE", 0),
		SnippetCacheTTL:  getEnvInt("SNIPPET_CACHE_TTL_MINUTES", 5),

		LogPrompts: getEnvBool("LOG_PROMPTS", false),

		OTelEnabled: getEnvBool("OTEL_LOGS_ENABLED", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}

	// Docker secrets convention: the _FILE variant points at a file
	// holding the value.
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
