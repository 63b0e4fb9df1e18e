package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/kraftstore/internal/adapters/outbound/tui"
)

func newOrdersCmd(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Work with orders through the API",
	}
	cmd.AddCommand(newOrdersListCmd(dir))
	cmd.AddCommand(newOrdersStatusCmd(dir))
	return cmd
}

func newOrdersListCmd(dir *string) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your orders (every order for admins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTerminal(*dir)
			if err != nil {
				return err
			}
			api, _, err := t.authed()
			if err != nil {
				return err
			}
			orders, err := api.Orders()
			if err != nil {
				return sessionExpired(err)
			}
			if jsonOutput {
				return writeJSON(cmd, orders)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderOrders(orders))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newOrdersStatusCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order to a new status (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTerminal(*dir)
			if err != nil {
				return err
			}
			api, _, err := t.authed()
			if err != nil {
				return err
			}
			o, err := api.UpdateOrderStatus(args[0], args[1])
			if err != nil {
				return sessionExpired(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s is now %s\n", o.ID, o.Status)
			return nil
		},
	}
}
