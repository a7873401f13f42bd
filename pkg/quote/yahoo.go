package quote

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	yfgo "github.com/komsit37/yf-go"
	"go.uber.org/zap"
)

// YahooSource reads the regular market price from Yahoo Finance.
type YahooSource struct {
	client  *yfgo.Client
	timeout time.Duration
	Logger  *zap.Logger
}

func NewYahooSource(timeout time.Duration, logger *zap.Logger) *YahooSource {
	return &YahooSource{client: yfgo.NewClient(), timeout: timeout, Logger: logger}
}

func (s *YahooSource) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.client.QuoteSummaryTyped(cctx, symbol, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil {
		s.Logger.Warn("yahoo quote failed", zap.String("symbol", symbol), zap.Error(err))
		return 0, &FetchError{Kind: TransportError, Symbol: symbol, Err: err}
	}
	if res.Price == nil || res.Price.RegularMarketPrice.Raw == nil {
		return 0, &FetchError{Kind: ParseError, Symbol: symbol, Err: errors.New("no regular market price")}
	}
	return *res.Price.RegularMarketPrice.Raw, nil
}
