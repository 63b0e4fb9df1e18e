package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abdidvp/kraftstore/internal/adapters/outbound/tui"
	"github.com/abdidvp/kraftstore/internal/domain"
)

func newCartCmd(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the local cart and check it out",
		Long: "The cart lives in a file next to kraftstore.yaml. Prices are snapshots " +
			"taken when an item is added; stock is only checked at checkout.",
	}
	cmd.AddCommand(newCartAddCmd(dir))
	cmd.AddCommand(newCartUpdateCmd(dir))
	cmd.AddCommand(newCartRemoveCmd(dir))
	cmd.AddCommand(newCartClearCmd(dir))
	cmd.AddCommand(newCartShowCmd(dir))
	cmd.AddCommand(newCartCheckoutCmd(dir))
	return cmd
}

func newCartAddCmd(dir *string) *cobra.Command {
	var qty int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTerminal(*dir)
			if err != nil {
				return err
			}
			p, err := t.api.Product(args[0])
			if err != nil {
				return err
			}
			before, err := t.cart.Items(cmd.Context())
			if err != nil {
				return err
			}
			c, err := t.cart.Add(cmd.Context(), domain.CartItem{ProductID: p.ID, Product: *p, Quantity: qty})
			if err != nil {
				return err
			}
			if before.Contains(p.ID) {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d more of %s\n", qty, p.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", p.Name)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderCart(c))
			return nil
		},
	}

	cmd.Flags().IntVarP(&qty, "qty", "q", 1, "Quantity to add")

	return cmd
}

func newCartUpdateCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set a product's quantity; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q is not a number", args[1])
			}
			t, err := openTerminal(*dir)
			if err != nil {
				return err
			}
			c, err := t.cart.UpdateQuantity(cmd.Context(), args[0], qty)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderCart(c))
			return nil
		},
	}
}

func newCartRemoveCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTerminal(*dir)
			if err != nil {
				return err
			}
			c, err := t.cart.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderCart(c))
			return nil
		},
	}
}

func newCartClearCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTerminal(*dir)
			if err != nil {
				return err
			}
			if _, err := t.cart.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
			return nil
		},
	}
}

func newCartShowCmd(dir *string) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cart and its total",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTerminal(*dir)
			if err != nil {
				return err
			}
			c, err := t.cart.Items(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, c)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderCart(c))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newCartCheckoutCmd(dir *string) *cobra.Command {
	var ship domain.ShippingAddress

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for everything in the cart",
		Long:  "Submit the cart as one order. The cart is emptied only when the order is accepted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTerminal(*dir)
			if err != nil {
				return err
			}
			api, s, err := t.authed()
			if err != nil {
				return err
			}
			c, err := t.cart.Items(cmd.Context())
			if err != nil {
				return err
			}
			if len(c) == 0 {
				return fmt.Errorf("cart is empty")
			}
			if ship.Name == "" {
				ship.Name = s.User.Name
			}

			order, err := api.PlaceOrder(c.Lines(), ship)
			if err != nil {
				return sessionExpired(err)
			}
			if _, err := t.cart.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("order %s placed but clearing the cart failed: %w", order.ID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed, total $%s (%s)\n",
				order.ID, order.TotalAmount.StringFixed(2), order.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&ship.Name, "name", "", "Recipient (defaults to your account name)")
	cmd.Flags().StringVar(&ship.Street, "street", "", "Street address")
	cmd.Flags().StringVar(&ship.City, "city", "", "City")
	cmd.Flags().StringVar(&ship.State, "state", "", "State or region")
	cmd.Flags().StringVar(&ship.ZipCode, "zip", "", "Postal code")
	cmd.Flags().StringVar(&ship.Country, "country", "", "Country")
	cmd.Flags().StringVar(&ship.Phone, "phone", "", "Contact phone")

	return cmd
}
