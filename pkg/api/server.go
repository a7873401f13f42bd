package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"stockwatch/pkg/monitor"
	"stockwatch/pkg/watchlist"
)

const (
	CheckIDHeader = "X-Check-Id"

	addNote = "Use /check endpoint to manually trigger price checks"
)

var endpoints = map[string]string{
	"/restart":                   "Clear watchlist",
	"/stockName=XXXX?price=YYYY": "Add stock to watchlist",
	"/check":                     "Manually check all stocks",
}

// Checker runs one evaluation pass.
type Checker interface {
	Evaluate(ctx context.Context) monitor.Report
}

// Server exposes the watchlist over HTTP.
type Server struct {
	Store   watchlist.Store
	Checker Checker
	Logger  *zap.Logger
}

func NewServer(store watchlist.Store, checker Checker, logger *zap.Logger) *Server {
	return &Server{
		Store:   store,
		Checker: checker,
		Logger:  logger.Named("api"),
	}
}

// Handler returns the routed handler wrapped with recovery and access logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.recoverPanics(http.HandlerFunc(s.route)))
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		s.writeJSON(w, r, http.StatusOK, map[string]string{"message": "POST received"})
		return
	default:
		s.writeJSON(w, r, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed"})
		return
	}

	path := r.URL.Path
	switch {
	case matchesRoute(path, "restart"):
		s.handleRestart(w, r)
	case addInPath(r):
		s.handleAdd(w, r)
	case matchesRoute(path, "check"):
		s.handleCheck(w, r)
	case addInQuery(r):
		s.handleAdd(w, r)
	case path == "/":
		s.handleInfo(w, r)
	default:
		s.writeJSON(w, r, http.StatusNotFound, map[string]string{"message": "Not found"})
	}
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.Store.Reset()
	s.Logger.Info("watchlist cleared")
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"message":   "Stock watchlist cleared",
		"watchlist": s.Store.Snapshot(),
	})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	entry, err := parseAddRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Store.Upsert(entry); err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}
	s.Logger.Info("stock added",
		zap.String("symbol", entry.Symbol),
		zap.Float64("price", entry.TargetPrice),
	)
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"message":      fmt.Sprintf("Added %s to watchlist", entry.Symbol),
		"stock":        entry.Symbol,
		"target_price": entry.TargetPrice,
		"watchlist":    s.Store.Snapshot(),
		"note":         addNote,
	})
}

// handleCheck runs the pass to completion even if the client goes away, so
// a sell already sent is still recorded and removed.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	report := s.Checker.Evaluate(context.WithoutCancel(r.Context()))
	if report.CheckID != "" {
		w.Header().Set(CheckIDHeader, report.CheckID)
	}
	s.writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"message":           "Stock Monitor API",
		"endpoints":         endpoints,
		"current_watchlist": s.Store.Snapshot(),
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.StatusCode
	}
	s.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.Logger.Error("encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	if r.URL.Query().Get("pretty") == "1" {
		body = pretty.Pretty(body)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.Logger.Debug("write response", zap.Error(err))
	}
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err := errors.Errorf("%v", rec)
				s.Logger.Error("handler panic", zap.String("path", r.URL.Path), zap.Error(err))
				s.writeError(w, r, err)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.Logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
