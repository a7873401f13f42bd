package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, DefaultWriteTimeout, cfg.Server.WriteTimeout)
	require.Greater(t, cfg.Server.WriteTimeout, 4*(cfg.Quote.Timeout+cfg.Sell.Timeout))
	require.Equal(t, "scrape", cfg.Quote.Source)
	require.Equal(t, DefaultQuoteURL, cfg.Quote.URLTemplate)
	require.Equal(t, "dyRciG", cfg.Quote.PriceMarker)
	require.True(t, cfg.Quote.Fallback)
	require.Equal(t, 30*time.Second, cfg.Quote.Timeout)
	require.Equal(t, "http", cfg.Sell.Broker)
	require.Equal(t, DefaultSellURL, cfg.Sell.URLTemplate)
	require.Equal(t, 30*time.Second, cfg.Sell.Timeout)
	require.Equal(t, 1.0, cfg.Monitor.ThresholdPercent)
	require.Zero(t, cfg.Monitor.Interval)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STOCKWATCH_SERVER_ADDR", ":9999")
	t.Setenv("STOCKWATCH_MONITOR_INTERVAL", "5m")
	t.Setenv("STOCKWATCH_QUOTE_FALLBACK", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Server.Addr)
	require.Equal(t, 5*time.Minute, cfg.Monitor.Interval)
	require.False(t, cfg.Quote.Fallback)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "stockwatch.yaml")
	content := `
quote:
  url_template: "http://quotes.local/{symbol}"
  timeout: 5s
sell:
  url_template: "http://broker.local/sell/{symbol}"
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://quotes.local/{symbol}", cfg.Quote.URLTemplate)
	require.Equal(t, 5*time.Second, cfg.Quote.Timeout)
	require.Equal(t, "http://broker.local/sell/{symbol}", cfg.Sell.URLTemplate)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown source", func(c *Config) { c.Quote.Source = "bloomberg" }},
		{"template without placeholder", func(c *Config) { c.Quote.URLTemplate = "https://example.com/" }},
		{"zero quote timeout", func(c *Config) { c.Quote.Timeout = 0 }},
		{"unknown broker", func(c *Config) { c.Sell.Broker = "fax" }},
		{"alpaca broker without keys", func(c *Config) { c.Sell.Broker = "alpaca" }},
		{"alpaca source without keys", func(c *Config) { c.Quote.Source = "alpaca" }},
		{"zero threshold", func(c *Config) { c.Monitor.ThresholdPercent = 0 }},
		{"negative rate", func(c *Config) { c.Quote.RatePerSecond = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.mutate(&c)
			require.Error(t, c.Validate())
		})
	}

	t.Run("alpaca with keys", func(t *testing.T) {
		c := *base
		c.Sell.Broker = "alpaca"
		c.Alpaca.APIKey = "key"
		c.Alpaca.APISecret = "secret"
		require.NoError(t, c.Validate())
	})
}
