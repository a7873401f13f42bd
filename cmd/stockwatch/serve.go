package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stockwatch/pkg/api"
	"stockwatch/pkg/monitor"
	"stockwatch/pkg/quote"
	"stockwatch/pkg/sell"
	"stockwatch/pkg/watchlist"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load loader) *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled checker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			store := watchlist.NewMemoryStore()
			if seedFile != "" {
				entries, err := watchlist.LoadFile(seedFile)
				if err != nil {
					return err
				}
				if err := watchlist.Seed(store, entries); err != nil {
					return err
				}
				logger.Info("watchlist seeded", zap.String("file", seedFile), zap.Int("count", len(entries)))
			}

			quotes, err := quote.New(cfg, logger)
			if err != nil {
				return err
			}
			seller, err := sell.New(cfg, logger)
			if err != nil {
				return err
			}
			ev := monitor.NewEvaluator(store, quotes, seller, cfg.Monitor.ThresholdPercent, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go ev.Run(ctx, cfg.Monitor.Interval)

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      api.NewServer(store, ev, logger).Handler(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening",
					zap.String("addr", cfg.Server.Addr),
					zap.String("quote_source", cfg.Quote.Source),
					zap.String("broker", cfg.Sell.Broker),
					zap.Duration("interval", cfg.Monitor.Interval),
				)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return errors.Wrap(err, "listen")
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errors.Wrap(err, "shutdown")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&seedFile, "watchlist", "", "YAML watchlist to load at startup")
	return cmd
}
