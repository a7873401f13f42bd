package quote

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestSource(t *testing.T, srv *httptest.Server, timeout time.Duration) *ScrapeSource {
	t.Helper()
	return NewScrapeSource(ScrapeConfig{
		URLTemplate: srv.URL + "/symbol/{symbol}",
		UserAgent:   "stockwatch-test",
		Timeout:     timeout,
		Extractor:   Extractor{Marker: "dyRciG", Fallback: true},
	}, zaptest.NewLogger(t))
}

func TestScrapeFetchPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/symbol/BBCA", r.URL.Path)
		assert.Equal(t, "stockwatch-test", r.Header.Get("User-Agent"))
		fmt.Fprint(w, `<html><h3 class="foo dyRciG bar">9,425</h3></html>`)
	}))
	defer srv.Close()

	price, err := newTestSource(t, srv, time.Second).FetchPrice(context.Background(), "BBCA")
	require.NoError(t, err)
	require.Equal(t, 9425.0, price)
}

func TestScrapeNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `<h3 class="dyRciG">9,425</h3>`)
	}))
	defer srv.Close()

	_, err := newTestSource(t, srv, time.Second).FetchPrice(context.Background(), "BBCA")
	require.True(t, errors.Is(err, ErrPriceUnavailable))

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, StatusError, fe.Kind)
	require.Equal(t, http.StatusNotFound, fe.StatusCode)
}

func TestScrapeParseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><p>maintenance</p></html>`)
	}))
	defer srv.Close()

	_, err := newTestSource(t, srv, time.Second).FetchPrice(context.Background(), "BBCA")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, ParseError, fe.Kind)
}

func TestScrapeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := newTestSource(t, srv, 50*time.Millisecond).FetchPrice(context.Background(), "BBCA")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, TransportError, fe.Kind)
}

func TestScrapeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	src := newTestSource(t, srv, time.Second)
	srv.Close()

	_, err := src.FetchPrice(context.Background(), "BBCA")
	require.True(t, errors.Is(err, ErrPriceUnavailable))
}

func TestScrapeURLEscapesSymbol(t *testing.T) {
	src := NewScrapeSource(ScrapeConfig{URLTemplate: "https://stockbit.com/symbol/{symbol}", Timeout: time.Second}, zaptest.NewLogger(t))
	require.Equal(t, "https://stockbit.com/symbol/BBCA", src.URL("BBCA"))
	require.Equal(t, "https://stockbit.com/symbol/A%2FB", src.URL("A/B"))
}

type staticSource struct {
	price float64
	err   error
}

func (s staticSource) FetchPrice(context.Context, string) (float64, error) { return s.price, s.err }

func TestPriceRejectsInvalid(t *testing.T) {
	_, err := Price(context.Background(), staticSource{price: 0}, "BBCA")
	require.True(t, errors.Is(err, ErrPriceUnavailable))

	_, err = Price(context.Background(), staticSource{price: -3}, "BBCA")
	require.True(t, errors.Is(err, ErrPriceUnavailable))

	_, err = Price(context.Background(), staticSource{price: math.Inf(1)}, "BBCA")
	require.True(t, errors.Is(err, ErrPriceUnavailable))

	_, err = Price(context.Background(), staticSource{price: math.NaN()}, "BBCA")
	require.True(t, errors.Is(err, ErrPriceUnavailable))

	p, err := Price(context.Background(), staticSource{price: 98}, "BBCA")
	require.NoError(t, err)
	require.Equal(t, 98.0, p)
}
