package monitor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockwatch/pkg/quote"
	"stockwatch/pkg/sell"
	"stockwatch/pkg/watchlist"
)

const DefaultThresholdPercent = 1.0

// Evaluator checks every watchlist entry against its current price and sells
// the ones that dropped far enough below target.
type Evaluator struct {
	Store            watchlist.Store
	Quotes           quote.Source
	Seller           sell.Dispatcher
	ThresholdPercent float64
	Logger           *zap.Logger

	// one pass at a time
	mu sync.Mutex
}

func NewEvaluator(store watchlist.Store, quotes quote.Source, seller sell.Dispatcher, threshold float64, logger *zap.Logger) *Evaluator {
	if threshold <= 0 {
		threshold = DefaultThresholdPercent
	}
	return &Evaluator{
		Store:            store,
		Quotes:           quotes,
		Seller:           seller,
		ThresholdPercent: threshold,
		Logger:           logger.Named("monitor"),
	}
}

// DifferencePercent is how far current sits below target, in percent of
// target. Negative when current is above target.
func DifferencePercent(target, current float64) float64 {
	return ((target - current) / target) * 100
}

// round2 rounds half away from zero on the shortest decimal form of v.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Evaluate runs one pass over the watchlist.
func (e *Evaluator) Evaluate(ctx context.Context) Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	checkID := uuid.NewString()
	log := e.Logger.With(zap.String("check_id", checkID))

	entries := e.Store.Entries()
	if len(entries) == 0 {
		log.Debug("watchlist empty, nothing to check")
		return Report{CheckID: checkID, Message: NoStocksMessage}
	}

	results := make([]CheckResult, 0, len(entries))
	var sold []watchlist.Entry
	for _, entry := range entries {
		res, ok := e.check(ctx, log, entry)
		if !ok {
			continue
		}
		results = append(results, res)
		if res.Sold() {
			sold = append(sold, entry)
		}
	}

	for _, entry := range sold {
		if !e.Store.RemoveIf(entry.Symbol, entry.TargetPrice) {
			log.Info("sold symbol changed during check, keeping it", zap.String("symbol", entry.Symbol))
		}
	}

	log.Info("check finished",
		zap.Int("checked", len(entries)),
		zap.Int("results", len(results)),
		zap.Int("sold", len(sold)))

	return Report{
		CheckID:            checkID,
		Results:            results,
		RemainingWatchlist: e.Store.Snapshot(),
	}
}

// check evaluates one entry. ok is false when the symbol is skipped because
// no price is available.
func (e *Evaluator) check(ctx context.Context, log *zap.Logger, entry watchlist.Entry) (res CheckResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("check panicked", zap.String("symbol", entry.Symbol), zap.Any("panic", r))
			res = CheckResult{Symbol: entry.Symbol, Error: fmt.Sprint(r)}
			ok = true
		}
	}()

	current, err := quote.Price(ctx, e.Quotes, entry.Symbol)
	if err != nil {
		log.Info("price unavailable, skipping", zap.String("symbol", entry.Symbol), zap.Error(err))
		return CheckResult{}, false
	}

	diff := DifferencePercent(entry.TargetPrice, current)
	res = CheckResult{
		Symbol:            entry.Symbol,
		CurrentPrice:      current,
		TargetPrice:       entry.TargetPrice,
		DifferencePercent: round2(diff),
	}

	if diff >= e.ThresholdPercent {
		success := e.Seller.Sell(ctx, entry.Symbol)
		res.SellTriggered = true
		res.SellSuccess = &success
		log.Info("sell triggered",
			zap.String("symbol", entry.Symbol),
			zap.Float64("price", current),
			zap.Float64("target", entry.TargetPrice),
			zap.Float64("difference_percent", res.DifferencePercent),
			zap.Bool("success", success))
	}
	return res, true
}
