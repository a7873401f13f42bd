package quote

import (
	"context"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"go.uber.org/zap"

	"stockwatch/pkg/config"
)

type latestTrader interface {
	GetLatestTrade(symbol string, req marketdata.GetLatestTradeRequest) (*marketdata.Trade, error)
}

// AlpacaSource uses the latest trade price from Alpaca market data.
type AlpacaSource struct {
	client latestTrader
	Logger *zap.Logger
}

func NewAlpacaSource(cfg config.AlpacaConfig, logger *zap.Logger) *AlpacaSource {
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	})
	return &AlpacaSource{client: client, Logger: logger}
}

func (s *AlpacaSource) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &FetchError{Kind: TransportError, Symbol: symbol, Err: err}
	}
	trade, err := s.client.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		s.Logger.Warn("alpaca latest trade failed", zap.String("symbol", symbol), zap.Error(err))
		return 0, &FetchError{Kind: TransportError, Symbol: symbol, Err: err}
	}
	if trade == nil {
		return 0, &FetchError{Kind: ParseError, Symbol: symbol}
	}
	return trade.Price, nil
}
