package config

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix         = "STOCKWATCH"
	SymbolPlaceholder = "{symbol}"

	DefaultQuoteURL  = "https://stockbit.com/symbol/" + SymbolPlaceholder
	DefaultSellURL   = "http://engaging-purely-rabbit.ngrok-free.app/jual=" + SymbolPlaceholder
	DefaultAlpacaURL = "https://paper-api.alpaca.markets"

	// A /check pass is bounded by symbols × (quote.timeout + sell.timeout);
	// a response that outlives the write timeout is lost while the sells
	// still happen.
	DefaultWriteTimeout = 10 * time.Minute

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Quote   QuoteConfig   `mapstructure:"quote"`
	Sell    SellConfig    `mapstructure:"sell"`
	Alpaca  AlpacaConfig  `mapstructure:"alpaca"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// QuoteConfig selects and tunes the price source.
type QuoteConfig struct {
	Source        string        `mapstructure:"source"` // scrape, yahoo, alpaca
	URLTemplate   string        `mapstructure:"url_template"`
	PriceMarker   string        `mapstructure:"price_marker"`
	Fallback      bool          `mapstructure:"fallback"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"` // 0 means unlimited
	UserAgent     string        `mapstructure:"user_agent"`
}

// SellConfig selects the broker that executes sells.
type SellConfig struct {
	Broker      string        `mapstructure:"broker"` // http, alpaca
	URLTemplate string        `mapstructure:"url_template"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Qty         int64         `mapstructure:"qty"`
}

type AlpacaConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	BaseURL   string `mapstructure:"base_url"`
}

type MonitorConfig struct {
	Interval         time.Duration `mapstructure:"interval"` // 0 disables scheduled checks
	ThresholdPercent float64       `mapstructure:"threshold_percent"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string `mapstructure:"level"` // debug, info, warn, error
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAgeDays  int    `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)

	v.SetDefault("quote.source", "scrape")
	v.SetDefault("quote.url_template", DefaultQuoteURL)
	v.SetDefault("quote.price_marker", "dyRciG")
	v.SetDefault("quote.fallback", true)
	v.SetDefault("quote.timeout", 30*time.Second)
	v.SetDefault("quote.rate_per_second", 0.0)
	v.SetDefault("quote.user_agent", DefaultUserAgent)

	v.SetDefault("sell.broker", "http")
	v.SetDefault("sell.url_template", DefaultSellURL)
	v.SetDefault("sell.timeout", 30*time.Second)
	v.SetDefault("sell.qty", 1)

	v.SetDefault("alpaca.api_key", "")
	v.SetDefault("alpaca.api_secret", "")
	v.SetDefault("alpaca.base_url", DefaultAlpacaURL)

	v.SetDefault("monitor.interval", time.Duration(0))
	v.SetDefault("monitor.threshold_percent", 1.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Load reads configuration from defaults, an optional config file and the
// environment. An empty path searches for config.yaml in . and ./config;
// a missing file there is not an error.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Config) Validate() error {
	switch c.Quote.Source {
	case "scrape":
		if !strings.Contains(c.Quote.URLTemplate, SymbolPlaceholder) {
			return errors.Errorf("quote.url_template must contain %s", SymbolPlaceholder)
		}
		if c.Quote.PriceMarker == "" {
			return errors.New("quote.price_marker is required")
		}
	case "yahoo":
	case "alpaca":
		if !c.Alpaca.hasKeys() {
			return errors.New("quote.source alpaca requires alpaca.api_key and alpaca.api_secret")
		}
	default:
		return errors.Errorf("unknown quote.source %q", c.Quote.Source)
	}
	if c.Quote.Timeout <= 0 {
		return errors.New("quote.timeout must be positive")
	}
	if c.Quote.RatePerSecond < 0 {
		return errors.New("quote.rate_per_second must not be negative")
	}

	switch c.Sell.Broker {
	case "http":
		if !strings.Contains(c.Sell.URLTemplate, SymbolPlaceholder) {
			return errors.Errorf("sell.url_template must contain %s", SymbolPlaceholder)
		}
		if c.Sell.Timeout <= 0 {
			return errors.New("sell.timeout must be positive")
		}
	case "alpaca":
		if !c.Alpaca.hasKeys() {
			return errors.New("sell.broker alpaca requires alpaca.api_key and alpaca.api_secret")
		}
		if c.Sell.Qty <= 0 {
			return errors.New("sell.qty must be positive")
		}
	default:
		return errors.Errorf("unknown sell.broker %q", c.Sell.Broker)
	}

	if c.Monitor.ThresholdPercent <= 0 {
		return errors.New("monitor.threshold_percent must be positive")
	}
	if c.Monitor.Interval < 0 {
		return errors.New("monitor.interval must not be negative")
	}
	return nil
}

func (a AlpacaConfig) hasKeys() bool {
	return a.APIKey != "" && a.APISecret != ""
}
