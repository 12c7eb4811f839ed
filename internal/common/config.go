// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string         `toml:"environment"`
	TradeFiles  []string       `toml:"trade_files"` // brokerage CSV exports, combined in order
	Server      ServerConfig   `toml:"server"`
	Analysis    AnalysisConfig `toml:"analysis"`
	Clients     ClientsConfig  `toml:"clients"`
	Session     SessionConfig  `toml:"session"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// AnalysisConfig holds pipeline tuning knobs.
type AnalysisConfig struct {
	HistoryDays  int    `toml:"history_days"`  // trailing window for price history
	RequestPause string `toml:"request_pause"` // pause between per-symbol remote calls
}

// GetRequestPause parses and returns the inter-request pause duration.
func (c *AnalysisConfig) GetRequestPause() time.Duration {
	d, err := time.ParseDuration(c.RequestPause)
	if err != nil {
		return 100 * time.Millisecond
	}
	return d
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo        YahooConfig        `toml:"yahoo"`
	NewsAPI      NewsAPIConfig      `toml:"newsapi"`
	AlphaVantage AlphaVantageConfig `toml:"alphavantage"`
}

// YahooConfig holds Yahoo Finance client configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// NewsAPIConfig holds NewsAPI.org client configuration
type NewsAPIConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *NewsAPIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// AlphaVantageConfig holds Alpha Vantage client configuration
type AlphaVantageConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *AlphaVantageConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// SessionConfig holds dashboard session configuration.
type SessionConfig struct {
	TTL string `toml:"ttl"` // idle expiry for analysis sessions
}

// GetTTL parses and returns the session TTL.
func (c *SessionConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 2 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		TradeFiles: []string{
			"Stock_trading_2023.csv",
			"Stock_trading_2024.csv",
			"Stock_trading_2025.csv",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Analysis: AnalysisConfig{
			HistoryDays:  365,
			RequestPause: "100ms",
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "30s",
			},
			NewsAPI: NewsAPIConfig{
				BaseURL: "https://newsapi.org",
				Timeout: "10s",
			},
			AlphaVantage: AlphaVantageConfig{
				BaseURL: "https://www.alphavantage.co",
				APIKey:  "demo",
				Timeout: "10s",
			},
		},
		Session: SessionConfig{
			TTL: "2h",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if files := os.Getenv("FOLIO_TRADE_FILES"); files != "" {
		parts := strings.Split(files, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			config.TradeFiles = trimmed
		}
	}

	if v := os.Getenv("FOLIO_NEWSAPI_KEY"); v != "" {
		config.Clients.NewsAPI.APIKey = v
	}
	if v := os.Getenv("FOLIO_ALPHAVANTAGE_KEY"); v != "" {
		config.Clients.AlphaVantage.APIKey = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
