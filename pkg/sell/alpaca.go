package sell

import (
	"context"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockwatch/pkg/config"
)

type orderPlacer interface {
	PlaceOrder(req alpaca.PlaceOrderRequest) (*alpaca.Order, error)
}

// AlpacaDispatcher sells a fixed quantity at market through Alpaca.
type AlpacaDispatcher struct {
	client orderPlacer
	qty    decimal.Decimal
	Logger *zap.Logger
}

func NewAlpacaDispatcher(cfg config.AlpacaConfig, shares int64, logger *zap.Logger) *AlpacaDispatcher {
	client := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		BaseURL:   cfg.BaseURL,
	})
	return &AlpacaDispatcher{client: client, qty: decimal.NewFromInt(shares), Logger: logger}
}

func (d *AlpacaDispatcher) Sell(ctx context.Context, symbol string) bool {
	if ctx.Err() != nil {
		return false
	}

	qty := d.qty
	order, err := d.client.PlaceOrder(alpaca.PlaceOrderRequest{
		Symbol:      symbol,
		Qty:         &qty,
		Side:        alpaca.Sell,
		Type:        alpaca.Market,
		TimeInForce: alpaca.Day,
	})
	if err != nil {
		d.Logger.Warn("alpaca sell order failed", zap.String("symbol", symbol), zap.Error(err))
		return false
	}

	d.Logger.Info("alpaca sell order placed",
		zap.String("symbol", symbol),
		zap.String("order_id", order.ID),
		zap.String("status", order.Status),
		zap.String("qty", qty.String()))
	return true
}
