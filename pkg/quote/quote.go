package quote

import (
	"context"
	"fmt"
	"math"

	"github.com/go-faster/errors"
)

// Source fetches the current price of a symbol.
type Source interface {
	FetchPrice(ctx context.Context, symbol string) (float64, error)
}

// ErrPriceUnavailable matches every FetchError.
var ErrPriceUnavailable = errors.New("price unavailable")

type FetchErrorKind int

const (
	TransportError FetchErrorKind = iota
	StatusError
	ParseError
)

func (k FetchErrorKind) String() string {
	switch k {
	case TransportError:
		return "transport"
	case StatusError:
		return "status"
	case ParseError:
		return "parse"
	default:
		return "unknown"
	}
}

// FetchError explains why no price could be determined for Symbol.
type FetchError struct {
	Kind       FetchErrorKind
	Symbol     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s: %s error", e.Symbol, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrPriceUnavailable }

// Price wraps the result of src so that a non-positive or non-finite price
// is reported as unavailable.
func Price(ctx context.Context, src Source, symbol string) (float64, error) {
	price, err := src.FetchPrice(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if !(price > 0) || math.IsInf(price, 0) {
		return 0, &FetchError{Kind: ParseError, Symbol: symbol, Err: errors.Errorf("invalid price %v", price)}
	}
	return price, nil
}
