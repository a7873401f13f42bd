package quote

import (
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"stockwatch/pkg/config"
)

// New returns the Source selected by cfg.Quote.Source.
func New(cfg *config.Config, logger *zap.Logger) (Source, error) {
	logger = logger.Named("quote")
	switch cfg.Quote.Source {
	case "scrape":
		return NewScrapeSource(ScrapeConfigFrom(cfg.Quote), logger), nil
	case "yahoo":
		return NewYahooSource(cfg.Quote.Timeout, logger), nil
	case "alpaca":
		return NewAlpacaSource(cfg.Alpaca, logger), nil
	default:
		return nil, errors.Errorf("unknown quote source %q", cfg.Quote.Source)
	}
}
