package sell

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"stockwatch/pkg/config"
)

// HTTPDispatcher sells by calling a GET endpoint with the symbol in its URL.
type HTTPDispatcher struct {
	URLTemplate string
	Client      *http.Client
	Logger      *zap.Logger
}

func NewHTTPDispatcher(cfg config.SellConfig, logger *zap.Logger) *HTTPDispatcher {
	return &HTTPDispatcher{
		URLTemplate: cfg.URLTemplate,
		Client:      &http.Client{Timeout: cfg.Timeout},
		Logger:      logger,
	}
}

func (d *HTTPDispatcher) URL(symbol string) string {
	return strings.ReplaceAll(d.URLTemplate, config.SymbolPlaceholder, url.PathEscape(symbol))
}

// Sell returns true only for a 200 response.
func (d *HTTPDispatcher) Sell(ctx context.Context, symbol string) bool {
	sellURL := d.URL(symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sellURL, nil)
	if err != nil {
		d.Logger.Error("build sell request", zap.String("symbol", symbol), zap.Error(err))
		return false
	}

	res, err := d.Client.Do(req)
	if err != nil {
		d.Logger.Warn("sell request failed", zap.String("symbol", symbol), zap.String("url", sellURL), zap.Error(err))
		return false
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	d.Logger.Info("sell request sent", zap.String("symbol", symbol), zap.Int("status", res.StatusCode))
	return res.StatusCode == http.StatusOK
}
