package api

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"stockwatch/pkg/watchlist"
)

var (
	stockNamePattern = regexp.MustCompile(`stockName=([A-Z]{3,4})(?:[^A-Za-z]|$)`)
	pricePattern     = regexp.MustCompile(`price=([0-9.]+)`)
)

var (
	errBadStockName = errors.New("Invalid stock name format. Use 3-4 letter code.")
	errNoPrice      = errors.New("Price parameter is required")
	errBadPrice     = errors.New("Invalid price format")
)

// rawTarget is the path and raw query as one string; the add route accepts
// its parameters in either part.
func rawTarget(r *http.Request) string {
	path := r.URL.EscapedPath()
	if r.URL.RawQuery == "" {
		return path
	}
	return path + "?" + r.URL.RawQuery
}

// addInPath reports an add request carried in the path itself; these take
// precedence over /check. One carried only in the query string is routed as
// an add only when the path names no other route.
func addInPath(r *http.Request) bool {
	return strings.Contains(r.URL.EscapedPath(), "stockName=")
}

func addInQuery(r *http.Request) bool {
	return strings.Contains(r.URL.RawQuery, "stockName=")
}

func matchesRoute(path, name string) bool {
	return path == "/"+name || strings.HasSuffix(path, "/"+name)
}

// parseAddRequest extracts the symbol and target price of an add request.
func parseAddRequest(r *http.Request) (watchlist.Entry, error) {
	target := rawTarget(r)

	m := stockNamePattern.FindStringSubmatch(target)
	if m == nil {
		return watchlist.Entry{}, badRequest(errBadStockName)
	}
	symbol := m[1]

	// query first, then path
	pm := pricePattern.FindStringSubmatch(r.URL.RawQuery)
	if pm == nil {
		pm = pricePattern.FindStringSubmatch(r.URL.EscapedPath())
	}
	if pm == nil {
		return watchlist.Entry{}, badRequest(errNoPrice)
	}

	price, err := strconv.ParseFloat(pm[1], 64)
	if err != nil || !(price > 0) {
		return watchlist.Entry{}, badRequest(errBadPrice)
	}
	return watchlist.Entry{Symbol: symbol, TargetPrice: price}, nil
}
