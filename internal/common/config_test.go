package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	if config.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", config.Server.Port)
	}
	if config.Clients.Yahoo.BaseURL == "" {
		t.Error("default Yahoo base URL is empty")
	}
	if config.Clients.AlphaVantage.APIKey != "demo" {
		t.Errorf("default Alpha Vantage key = %q, want %q", config.Clients.AlphaVantage.APIKey, "demo")
	}
	if len(config.TradeFiles) == 0 {
		t.Error("default trade file list is empty")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig("nonexistent/folio.toml")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.Server.Port != 8080 {
		t.Errorf("port = %d, want default 8080", config.Server.Port)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	content := `
environment = "production"
trade_files = ["trades.csv"]

[server]
port = 9090

[session]
ttl = "30m"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", config.Server.Port)
	}
	if !config.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
	if len(config.TradeFiles) != 1 || config.TradeFiles[0] != "trades.csv" {
		t.Errorf("trade files = %v, want [trades.csv]", config.TradeFiles)
	}
	if got := config.Session.GetTTL(); got != 30*time.Minute {
		t.Errorf("session TTL = %v, want 30m", got)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FOLIO_PORT", "7070")
	t.Setenv("FOLIO_LOG_LEVEL", "debug")
	t.Setenv("FOLIO_TRADE_FILES", "a.csv, b.csv")
	t.Setenv("FOLIO_NEWSAPI_KEY", "secret")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", config.Server.Port)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", config.Logging.Level)
	}
	if len(config.TradeFiles) != 2 || config.TradeFiles[1] != "b.csv" {
		t.Errorf("trade files = %v, want [a.csv b.csv]", config.TradeFiles)
	}
	if config.Clients.NewsAPI.APIKey != "secret" {
		t.Errorf("newsapi key = %q, want secret", config.Clients.NewsAPI.APIKey)
	}
}

func TestDurationFallbacks(t *testing.T) {
	y := YahooConfig{Timeout: "not-a-duration"}
	if got := y.GetTimeout(); got != 30*time.Second {
		t.Errorf("yahoo timeout fallback = %v, want 30s", got)
	}

	a := AnalysisConfig{RequestPause: ""}
	if got := a.GetRequestPause(); got != 100*time.Millisecond {
		t.Errorf("request pause fallback = %v, want 100ms", got)
	}
}
