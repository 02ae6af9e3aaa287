package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/goluno/api"
)

func (a *app) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show account balances",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}

			balances, err := a.luno.Accounts.Balances(ctx)
			if err != nil {
				return err
			}

			renderBalances(a.out, a.au, balances)
			return nil
		}),
	}
}

func (a *app) ordersCmd() *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "orders [pair]",
		Short: "List orders on a currency pair",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}

			orders, err := a.luno.Accounts.ListOrders(ctx, a.pair(args), state)
			if err != nil {
				return err
			}

			renderOrders(a.out, a.au, orders)
			return nil
		}),
	}

	cmd.Flags().StringVar(&state, "state", "", "only orders in this state ("+api.StatePending+" or "+api.StateComplete+")")

	return cmd
}
