package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// demoAsset is the asset whose receive address the demo shows.
const demoAsset = "XBT"

func (a *app) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Tour the market data and, with credentials, the account",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, args []string) error {
			pair := a.pair(nil)

			tk, err := a.luno.Market.Ticker(ctx, pair)
			if err != nil {
				return fmt.Errorf("ticker: %w", err)
			}
			renderTickers(a.out, a.au, "Ticker", *tk)

			tickers, err := a.luno.Market.Tickers(ctx)
			if err != nil {
				return fmt.Errorf("tickers: %w", err)
			}
			renderTickers(a.out, a.au, "Tickers", tickers...)

			book, err := a.luno.Market.OrderBook(ctx, pair, 5)
			if err != nil {
				return fmt.Errorf("order book: %w", err)
			}
			renderOrderBook(a.out, a.au, pair, book)

			trades, err := a.luno.Market.Trades(ctx, pair, time.Time{}, 5)
			if err != nil {
				return fmt.Errorf("trades: %w", err)
			}
			renderTrades(a.out, a.au, pair, trades)

			if !a.luno.Authenticated() {
				fmt.Fprintln(a.out, a.au.Faint("set BITX_KEY and BITX_SECRET to include account data"))
				return nil
			}

			orders, err := a.luno.Accounts.ListOrders(ctx, pair, "")
			if err != nil {
				return fmt.Errorf("orders: %w", err)
			}
			renderOrders(a.out, a.au, orders)

			addr, err := a.luno.Receive.ReceiveAddress(ctx, demoAsset, "")
			if err != nil {
				return fmt.Errorf("receive address: %w", err)
			}
			renderAddress(a.out, addr)

			balances, err := a.luno.Accounts.Balances(ctx)
			if err != nil {
				return fmt.Errorf("balances: %w", err)
			}
			renderBalances(a.out, a.au, balances)

			return nil
		}),
	}
}
