package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) pair(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return a.luno.Config().Pair
}

func (a *app) tickerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ticker [pair]",
		Short: "Show the ticker of a currency pair",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			tk, err := a.luno.Market.Ticker(ctx, a.pair(args))
			if err != nil {
				return err
			}

			renderTickers(a.out, a.au, "Ticker", *tk)
			return nil
		}),
	}
}

func (a *app) tickersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tickers",
		Short: "Show the tickers of every market",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, args []string) error {
			tickers, err := a.luno.Market.Tickers(ctx)
			if err != nil {
				return err
			}

			renderTickers(a.out, a.au, "Tickers", tickers...)
			return nil
		}),
	}
}

func (a *app) orderBookCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "orderbook [pair]",
		Short: "Show the best bids and asks of a currency pair",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			pair := a.pair(args)

			book, err := a.luno.Market.OrderBook(ctx, pair, limit)
			if err != nil {
				return err
			}

			renderOrderBook(a.out, a.au, pair, book)
			return nil
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "levels per side, 0 for all")

	return cmd
}

func (a *app) tradesCmd() *cobra.Command {
	var (
		limit  int
		window time.Duration
	)

	cmd := &cobra.Command{
		Use:   "trades [pair]",
		Short: "Show recent trades of a currency pair",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			pair := a.pair(args)

			trades, err := a.luno.Market.Trades(ctx, pair, since(time.Now(), window), limit)
			if err != nil {
				return err
			}

			renderTrades(a.out, a.au, pair, trades)
			return nil
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of trades, 0 for all")
	cmd.Flags().DurationVar(&window, "since", 0, "only trades within this window, e.g. 1h")

	return cmd
}
