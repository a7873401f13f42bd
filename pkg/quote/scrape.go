package quote

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"stockwatch/pkg/config"
)

// ScrapeConfig configures a ScrapeSource.
type ScrapeConfig struct {
	URLTemplate   string
	UserAgent     string
	Timeout       time.Duration
	RatePerSecond float64
	Extractor     Extractor
}

func ScrapeConfigFrom(cfg config.QuoteConfig) ScrapeConfig {
	return ScrapeConfig{
		URLTemplate:   cfg.URLTemplate,
		UserAgent:     cfg.UserAgent,
		Timeout:       cfg.Timeout,
		RatePerSecond: cfg.RatePerSecond,
		Extractor:     Extractor{Marker: cfg.PriceMarker, Fallback: cfg.Fallback},
	}
}

// ScrapeSource reads prices from an HTML quote page.
type ScrapeSource struct {
	Config  ScrapeConfig
	Client  *http.Client
	Limiter *rate.Limiter
	Logger  *zap.Logger
}

func NewScrapeSource(cfg ScrapeConfig, logger *zap.Logger) *ScrapeSource {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &ScrapeSource{
		Config:  cfg,
		Client:  &http.Client{Timeout: cfg.Timeout},
		Limiter: rate.NewLimiter(limit, 1),
		Logger:  logger,
	}
}

// URL returns the quote page address for symbol.
func (s *ScrapeSource) URL(symbol string) string {
	return strings.ReplaceAll(s.Config.URLTemplate, config.SymbolPlaceholder, url.PathEscape(symbol))
}

func (s *ScrapeSource) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	if err := s.Limiter.Wait(ctx); err != nil {
		return 0, &FetchError{Kind: TransportError, Symbol: symbol, Err: err}
	}

	pageURL := s.URL(symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, &FetchError{Kind: TransportError, Symbol: symbol, Err: err}
	}
	if s.Config.UserAgent != "" {
		req.Header.Set("User-Agent", s.Config.UserAgent)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		s.Logger.Warn("quote request failed", zap.String("symbol", symbol), zap.String("url", pageURL), zap.Error(err))
		return 0, &FetchError{Kind: TransportError, Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.Logger.Warn("quote page returned non-2xx", zap.String("symbol", symbol), zap.Int("status", resp.StatusCode))
		return 0, &FetchError{Kind: StatusError, Symbol: symbol, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &FetchError{Kind: TransportError, Symbol: symbol, Err: errors.Wrap(err, "read body")}
	}

	price, err := s.Config.Extractor.Extract(string(body))
	if err != nil {
		s.Logger.Warn("no price in quote page", zap.String("symbol", symbol), zap.Error(err))
		return 0, &FetchError{Kind: ParseError, Symbol: symbol, Err: err}
	}

	s.Logger.Debug("price fetched", zap.String("symbol", symbol), zap.Float64("price", price))
	return price, nil
}
