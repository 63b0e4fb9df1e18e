package cli

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/abdidvp/kraftstore/internal/adapters/outbound/tui"
	"github.com/abdidvp/kraftstore/internal/domain"
)

func newProductsCmd(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog through the API",
	}
	cmd.AddCommand(newProductsListCmd(dir))
	cmd.AddCommand(newProductsShowCmd(dir))
	cmd.AddCommand(newCategoriesCmd(dir))
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func parseOptionalPrice(flag, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %q is not a price", flag, raw)
	}
	return &d, nil
}

func newProductsListCmd(dir *string) *cobra.Command {
	var (
		f                  domain.ProductFilter
		minPrice, maxPrice string
		featuredOnly       bool
		jsonOutput         bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if f.MinPrice, err = parseOptionalPrice("min", minPrice); err != nil {
				return err
			}
			if f.MaxPrice, err = parseOptionalPrice("max", maxPrice); err != nil {
				return err
			}
			if featuredOnly {
				f.Featured = &featuredOnly
			}

			t, err := openTerminal(*dir)
			if err != nil {
				return err
			}
			products, err := t.api.Products(f)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, products)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderProducts(products))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Category, "category", "", "Exact category")
	cmd.Flags().StringVar(&f.Search, "search", "", "Substring of name or description")
	cmd.Flags().StringVar(&minPrice, "min", "", "Lowest price")
	cmd.Flags().StringVar(&maxPrice, "max", "", "Highest price")
	cmd.Flags().BoolVar(&featuredOnly, "featured", false, "Only featured products")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newProductsShowCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product with its specifications",
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
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderProduct(p))
			return nil
		},
	}
}

func newCategoriesCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with product counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTerminal(*dir)
			if err != nil {
				return err
			}
			cats, err := t.api.Categories()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderCategories(cats))
			return nil
		},
	}
}
