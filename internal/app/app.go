// Package app wires configuration, clients, and services into one unit
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/folioview/folio/internal/clients/alphavantage"
	"github.com/folioview/folio/internal/clients/newsapi"
	"github.com/folioview/folio/internal/clients/yahoo"
	"github.com/folioview/folio/internal/common"
	"github.com/folioview/folio/internal/interfaces"
	"github.com/folioview/folio/internal/services/analyzer"
	"github.com/folioview/folio/internal/services/news"
	"github.com/folioview/folio/internal/services/session"
)

// App holds all initialized services and clients. It is the shared core
// behind cmd/folio-server and the handler tests.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Market      interfaces.MarketDataClient
	Analyzer    interfaces.AnalyzerService
	News        interfaces.NewsService
	Sessions    *session.Registry
	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	// Resolve config path: explicit arg, FOLIO_CONFIG, binary dir, dev fallback
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	newsapiClient := newsapi.NewClient(
		config.Clients.NewsAPI.APIKey,
		newsapi.WithBaseURL(config.Clients.NewsAPI.BaseURL),
		newsapi.WithTimeout(config.Clients.NewsAPI.GetTimeout()),
		newsapi.WithLogger(logger),
	)
	if config.Clients.NewsAPI.APIKey == "" {
		logger.Warn().Msg("NewsAPI key not configured - strategy disabled")
	}

	alphaClient := alphavantage.NewClient(
		config.Clients.AlphaVantage.APIKey,
		alphavantage.WithBaseURL(config.Clients.AlphaVantage.BaseURL),
		alphavantage.WithTimeout(config.Clients.AlphaVantage.GetTimeout()),
		alphavantage.WithLogger(logger),
	)

	newsService := news.NewService([]interfaces.NewsProvider{
		newsapiClient,
		yahooClient,
		alphaClient,
	}, logger)

	app := &App{
		Config:      config,
		Logger:      logger,
		Market:      yahooClient,
		Analyzer:    analyzer.NewService(yahooClient, config, logger),
		News:        newsService,
		Sessions:    session.NewRegistry(config.Session.GetTTL(), logger),
		StartupTime: time.Now(),
	}

	logger.Info().
		Str("environment", config.Environment).
		Int("trade_files", len(config.TradeFiles)).
		Msg("Application initialized")

	return app, nil
}
