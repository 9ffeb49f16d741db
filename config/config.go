// Package config loads application configuration from a config file and
// environment variables via viper, with defaults for every setting.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string `mapstructure:"host"` // default: "0.0.0.0"
	Port int    `mapstructure:"port"` // default: 8080
	Mode string `mapstructure:"mode"` // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the per-request browser instances.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool `mapstructure:"headless"` // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool `mapstructure:"no_sandbox"` // default: false

	// Bin overrides the Chromium binary path.
	Bin string `mapstructure:"bin"`

	// Stealth injects anti-bot-detection JS before live navigations.
	Stealth bool `mapstructure:"stealth"` // default: false
}

// ScraperConfig controls scraping behavior.
type ScraperConfig struct {
	// PageTimeout is the default deadline applied to every browser-facing
	// operation on an acquired page.
	PageTimeout time.Duration `mapstructure:"page_timeout"` // default: 1s

	// SettleDelay is the pause observed after each successful
	// pre-extraction click before the page is used again.
	SettleDelay time.Duration `mapstructure:"settle_delay"` // default: 500ms
}

// CacheConfig controls the on-disk page cache.
type CacheConfig struct {
	// Path is the cache root directory.
	Path string `mapstructure:"path"` // default: "./pagelens_cache"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool `mapstructure:"enabled"` // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string `mapstructure:"api_keys"`
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"` // default: 5

	// Burst is the maximum burst size per API key.
	Burst int `mapstructure:"burst"` // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // default: "info"
	Format string `mapstructure:"format"` // "json" or "text"; default: "json"
}

// Load reads configuration from an optional config file in the given
// directory and from PAGELENS_* environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("PAGELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.no_sandbox", false)
	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.stealth", false)

	v.SetDefault("scraper.page_timeout", time.Second)
	v.SetDefault("scraper.settle_delay", 500*time.Millisecond)

	v.SetDefault("cache.path", "./pagelens_cache")

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.api_keys", []string{})

	v.SetDefault("ratelimit.requests_per_second", 5.0)
	v.SetDefault("ratelimit.burst", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
