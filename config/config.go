// Package config provides configuration settings for the short-link admin toolkit.
package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// ProxyBasePath is appended to the console origin when no explicit API address
// is configured, so requests go through the same-origin proxy.
const ProxyBasePath = "/api"

// Config holds the configuration settings for the application.
type Config struct {
	// Client side
	APIBaseURL     string        `env:"SHORTLINK_API_BASE"`
	ConsoleOrigin  string        `env:"CONSOLE_ORIGIN"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	CookieFile     string        `env:"COOKIE_FILE"`
	CookieHashKey  string        `env:"COOKIE_HASH_KEY"`
	CookieBlockKey string        `env:"COOKIE_BLOCK_KEY"`

	// Mock server side
	ServerPort       string        `env:"SERVER_PORT"`
	ShortDomain      string        `env:"SHORT_DOMAIN"`
	RateLimit        int           `env:"RATE_LIMIT"`
	RatePeriod       time.Duration `env:"RATE_PERIOD"`
	DisableRateLimit bool          `env:"DISABLE_RATE_LIMIT"`
	JWTSecret        string        `env:"JWT_SECRET"`
	SessionTTL       time.Duration `env:"SESSION_TTL"`
	FetchTitles      bool          `env:"FETCH_TITLES"`
	TitleTimeout     time.Duration `env:"TITLE_TIMEOUT"`

	LogLevel string `env:"LOG_LEVEL"`
}

// DefaultConfig returns the default configuration settings.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:       "",
		ConsoleOrigin:    "http://localhost:3000",
		RequestTimeout:   15 * time.Second,
		CookieFile:       ".shortlink-cookies",
		CookieHashKey:    "shortlink-admin-cookie-hash-key!",
		CookieBlockKey:   "shortlink-block!",
		ServerPort:       ":3000",
		ShortDomain:      "nurl.ink",
		RateLimit:        10,
		RatePeriod:       time.Second,
		DisableRateLimit: false,
		JWTSecret:        "default_jwt_secret",
		SessionTTL:       30 * time.Minute,
		FetchTitles:      false,
		TitleTimeout:     3 * time.Second,
		LogLevel:         "info",
	}
}

// Load returns the default configuration overlaid with any values set in the environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// APIBase returns the base address requests are sent to.
func (c *Config) APIBase() string {
	if c.APIBaseURL == "" {
		return strings.TrimRight(c.ConsoleOrigin, "/") + ProxyBasePath
	}
	return strings.TrimRight(c.APIBaseURL, "/")
}
