package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every runtime setting of the bot.
type Config struct {
	Server ServerConfig
	Bot    BotConfig
	AI     AIConfig
	Search SearchConfig
	Store  StoreConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	bot, err := loadBotConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	search, err := loadSearchConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Bot:    bot,
		AI:     ai,
		Search: search,
		Store:  loadStoreConfig(),
	}, nil
}

// ServerConfig describes the webhook HTTP server.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// BotConfig describes the Telegram side of the service.
type BotConfig struct {
	Token         string
	WebhookSecret string
	// AllowedUserIDs is the sender allow-list. Empty means everyone.
	AllowedUserIDs []int64
}

func loadBotConfig() (BotConfig, error) {
	token := strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN"))
	if token == "" {
		return BotConfig{}, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	allowed, err := parseIDListEnv("ALLOWED_USER_IDS")
	if err != nil {
		return BotConfig{}, err
	}

	return BotConfig{
		Token:          token,
		WebhookSecret:  strings.TrimSpace(os.Getenv("TELEGRAM_WEBHOOK_SECRET")),
		AllowedUserIDs: allowed,
	}, nil
}

// AIConfig describes the completion provider and session defaults.
type AIConfig struct {
	BaseURL             string
	DefaultModel        string
	DefaultSystemPrompt string
	DefaultLanguage     string
	MaxHistory          int
	EditInterval        time.Duration
}

func loadAIConfig() (AIConfig, error) {
	maxHistory := 10
	if override, err := parseOptionalIntEnv("MAX_HISTORY_MESSAGES"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		if *override < 2 {
			maxHistory = 2
		} else {
			maxHistory = *override
		}
	}

	editInterval := 1500 * time.Millisecond
	if override, err := parseOptionalIntEnv("EDIT_INTERVAL_MS"); err != nil {
		return AIConfig{}, err
	} else if override != nil && *override > 0 {
		editInterval = time.Duration(*override) * time.Millisecond
	}

	return AIConfig{
		BaseURL:             getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		DefaultModel:        getEnvOrDefault("DEFAULT_MODEL", "openai/gpt-4o-mini"),
		DefaultSystemPrompt: getEnvOrDefault("DEFAULT_SYSTEM_PROMPT", "You are a helpful assistant."),
		DefaultLanguage:     getEnvOrDefault("DEFAULT_LANGUAGE", "en"),
		MaxHistory:          maxHistory,
		EditInterval:        editInterval,
	}, nil
}

// SearchConfig describes the web search providers and cache.
type SearchConfig struct {
	SerperKey string
	BraveKey  string
	CacheTTL  time.Duration
}

func loadSearchConfig() (SearchConfig, error) {
	ttl := 4 * time.Hour
	if override, err := parseOptionalIntEnv("SEARCH_CACHE_TTL_MINUTES"); err != nil {
		return SearchConfig{}, err
	} else if override != nil && *override > 0 {
		ttl = time.Duration(*override) * time.Minute
	}

	return SearchConfig{
		SerperKey: strings.TrimSpace(os.Getenv("SERPER_API_KEY")),
		BraveKey:  strings.TrimSpace(os.Getenv("BRAVE_API_KEY")),
		CacheTTL:  ttl,
	}, nil
}

// StoreConfig describes the key-value store location.
type StoreConfig struct {
	Path string
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{Path: getEnvOrDefault("STORE_PATH", "data/tgsage.db")}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseIDListEnv(key string) ([]int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s entry %q: %w", key, part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
