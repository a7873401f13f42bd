package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Run evaluates the watchlist every interval until ctx is done. A zero
// interval returns immediately. A pass in progress when ctx is done runs to
// completion; cancellation only stops further ticks.
func (e *Evaluator) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	e.Logger.Info("scheduled checks started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			e.Logger.Info("scheduled checks stopped")
			return
		case <-ticker.C:
			e.Evaluate(context.WithoutCancel(ctx))
		}
	}
}
