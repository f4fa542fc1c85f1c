package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Catalog source selection.
const (
	CatalogSourceSteamSpy = "steamspy"
	CatalogSourceScraper  = "scraper"
)

// Config holds all configuration for the bot.
type Config struct {
	TelegramBotToken string
	ChannelUsername  string // broadcast channel, e.g. "@steamdealsfeed"
	DatabasePath     string
	LogLevel         string

	CatalogSource       string
	CatalogSyncInterval time.Duration
	DealPollInterval    time.Duration
	WishlistInterval    time.Duration

	DealPageSize   int
	CatalogPageCap int
	HTTPTimeout    time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChannelUsername:     os.Getenv("TELEGRAM_CHANNEL"),
		DatabasePath:        getEnv("DATABASE_PATH", "./steam_deals.db"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CatalogSource:       getEnv("CATALOG_SOURCE", CatalogSourceSteamSpy),
		CatalogSyncInterval: getDurationMinutes("CATALOG_SYNC_MINUTES", 30),
		DealPollInterval:    getDurationMinutes("DEAL_POLL_MINUTES", 5),
		WishlistInterval:    getDurationSeconds("WISHLIST_CHECK_SECONDS", 60),
		DealPageSize:        getInt("DEAL_PAGE_SIZE", 30),
		CatalogPageCap:      getInt("CATALOG_PAGE_CAP", 5),
		HTTPTimeout:         getDurationSeconds("HTTP_TIMEOUT_SECONDS", 20),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.ChannelUsername == "" {
		return fmt.Errorf("TELEGRAM_CHANNEL is required")
	}
	if c.CatalogSource != CatalogSourceSteamSpy && c.CatalogSource != CatalogSourceScraper {
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q", CatalogSourceSteamSpy, CatalogSourceScraper)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationMinutes(key string, defaultMinutes int) time.Duration {
	return time.Duration(getInt(key, defaultMinutes)) * time.Minute
}

func getDurationSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getInt(key, defaultSeconds)) * time.Second
}
