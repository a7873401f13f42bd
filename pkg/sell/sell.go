package sell

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"stockwatch/pkg/config"
)

// Dispatcher executes a sell for a symbol and reports whether it succeeded.
// Implementations never return errors; failures are logged and reported as
// false.
type Dispatcher interface {
	Sell(ctx context.Context, symbol string) bool
}

// New returns the Dispatcher selected by cfg.Sell.Broker.
func New(cfg *config.Config, logger *zap.Logger) (Dispatcher, error) {
	logger = logger.Named("sell")
	switch cfg.Sell.Broker {
	case "http":
		return NewHTTPDispatcher(cfg.Sell, logger), nil
	case "alpaca":
		return NewAlpacaDispatcher(cfg.Alpaca, cfg.Sell.Qty, logger), nil
	default:
		return nil, errors.Errorf("unknown sell broker %q", cfg.Sell.Broker)
	}
}
