package main

import (
	"github.com/spf13/cobra"

	"stockwatch/pkg/monitor"
	"stockwatch/pkg/quote"
	"stockwatch/pkg/render"
	"stockwatch/pkg/sell"
	"stockwatch/pkg/watchlist"
)

func newCheckCmd(load loader) *cobra.Command {
	var (
		asJSON  bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "check <watchlist.yaml>",
		Short: "Run one check over a YAML watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			entries, err := watchlist.LoadFile(args[0])
			if err != nil {
				return err
			}
			store := watchlist.NewMemoryStore()
			if err := watchlist.Seed(store, entries); err != nil {
				return err
			}

			quotes, err := quote.New(cfg, logger)
			if err != nil {
				return err
			}
			seller, err := sell.New(cfg, logger)
			if err != nil {
				return err
			}
			report := monitor.NewEvaluator(store, quotes, seller, cfg.Monitor.ThresholdPercent, logger).
				Evaluate(cmd.Context())

			var r render.Renderer = render.TableRenderer{}
			if asJSON {
				r = render.JSONRenderer{}
			}
			return r.Render(cmd.OutOrStdout(), report, render.Options{Color: !noColor, PrettyJSON: true})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored table output")
	return cmd
}
