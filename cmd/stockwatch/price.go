package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stockwatch/pkg/quote"
)

func newPriceCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "price <SYMBOL>",
		Short: "Fetch the current price of one symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			src, err := quote.New(cfg, logger)
			if err != nil {
				return err
			}
			symbol := strings.ToUpper(args[0])
			price, err := quote.Price(cmd.Context(), src, symbol)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %.2f\n", symbol, price)
			return nil
		},
	}
}
