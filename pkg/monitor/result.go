package monitor

import (
	"encoding/json"
)

const NoStocksMessage = "No stocks in watchlist"

// CheckResult is the outcome for one symbol in a pass.
type CheckResult struct {
	Symbol            string
	CurrentPrice      float64
	TargetPrice       float64
	DifferencePercent float64
	SellTriggered     bool
	// SellSuccess is nil when no sell was attempted.
	SellSuccess *bool
	// Error is set when processing the symbol failed; the other fields are
	// then meaningless.
	Error string
}

type priceResultJSON struct {
	Stock             string  `json:"stock"`
	CurrentPrice      float64 `json:"current_price"`
	TargetPrice       float64 `json:"target_price"`
	DifferencePercent float64 `json:"difference_percent"`
	SellTriggered     bool    `json:"sell_triggered"`
	SellSuccess       *bool   `json:"sell_success,omitempty"`
}

type errorResultJSON struct {
	Stock string `json:"stock"`
	Error string `json:"error"`
}

func (r CheckResult) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(errorResultJSON{Stock: r.Symbol, Error: r.Error})
	}
	return json.Marshal(priceResultJSON{
		Stock:             r.Symbol,
		CurrentPrice:      r.CurrentPrice,
		TargetPrice:       r.TargetPrice,
		DifferencePercent: r.DifferencePercent,
		SellTriggered:     r.SellTriggered,
		SellSuccess:       r.SellSuccess,
	})
}

// Sold reports whether a sell was triggered and succeeded.
func (r CheckResult) Sold() bool {
	return r.SellSuccess != nil && *r.SellSuccess
}

// Report is the outcome of a pass. An empty watchlist yields only Message.
type Report struct {
	CheckID            string
	Message            string
	Results            []CheckResult
	RemainingWatchlist map[string]float64
}

// Empty reports whether the pass found nothing to check.
func (r Report) Empty() bool {
	return r.Message != ""
}

func (r Report) MarshalJSON() ([]byte, error) {
	if r.Empty() {
		return json.Marshal(struct {
			Message string `json:"message"`
		}{r.Message})
	}
	results := r.Results
	if results == nil {
		results = []CheckResult{}
	}
	remaining := r.RemainingWatchlist
	if remaining == nil {
		remaining = map[string]float64{}
	}
	return json.Marshal(struct {
		Results            []CheckResult      `json:"results"`
		RemainingWatchlist map[string]float64 `json:"remaining_watchlist"`
	}{results, remaining})
}
