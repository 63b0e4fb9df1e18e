package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/abdidvp/kraftstore/internal/domain"
)

type seedAccount struct {
	name, email, password string
	role                  domain.Role
}

var seedAccounts = []seedAccount{
	{"Admin User", "admin@example.com", "admin123", domain.RoleAdmin},
	{"John Doe", "user@example.com", "user123", domain.RoleUser},
}

func sampleCatalog() []*domain.Product {
	p := func(name, desc, price, category string, stock int, featured bool, image string, specs map[string]string) *domain.Product {
		return &domain.Product{
			Name:           name,
			Description:    desc,
			Price:          decimal.RequireFromString(price),
			Category:       category,
			Images:         []string{image},
			Stock:          stock,
			Featured:       featured,
			Specifications: specs,
		}
	}
	return []*domain.Product{
		p("Wireless Bluetooth Headphones",
			"Premium wireless headphones with noise cancellation and 30-hour battery life.",
			"199.99", "Electronics", 25, true,
			"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500",
			map[string]string{"batteryLife": "30 hours", "connectivity": "Bluetooth 5.0", "weight": "250g", "warranty": "2 years"}),
		p("Organic Cotton T-Shirt",
			"Comfortable t-shirt made from 100% organic cotton.",
			"29.99", "Clothing", 50, false,
			"https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=500",
			map[string]string{"material": "100% Organic Cotton", "fit": "Regular", "care": "Machine washable"}),
		p("Smart Fitness Watch",
			"Fitness tracking watch with heart rate monitor, GPS and smartphone connectivity.",
			"299.99", "Electronics", 15, true,
			"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500",
			map[string]string{"display": "1.4 inch AMOLED", "battery": "7 days", "waterResistance": "50m"}),
		p("Ceramic Coffee Mug Set",
			"Handcrafted ceramic coffee mugs, set of 4.",
			"45.99", "Home & Kitchen", 30, false,
			"https://images.unsplash.com/photo-1514228742587-6b1558fcf93a?w=500",
			map[string]string{"material": "Ceramic", "capacity": "12 oz each", "dishwasherSafe": "Yes"}),
		p("Leather Laptop Bag",
			"Leather laptop bag with multiple compartments, fits laptops up to 15 inches.",
			"129.99", "Accessories", 20, true,
			"https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=500",
			map[string]string{"material": "Genuine Leather", "laptopSize": "Up to 15 inches"}),
		p("Yoga Mat Premium",
			"Non-slip yoga mat made from eco-friendly materials.",
			"59.99", "Sports & Fitness", 40, false,
			"https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?w=500",
			map[string]string{"material": "Eco-friendly TPE", "thickness": "6mm"}),
		p("Wireless Phone Charger",
			"Fast wireless charging pad for Qi-enabled devices.",
			"39.99", "Electronics", 35, false,
			"https://images.unsplash.com/photo-1585792180666-f7347c490ee2?w=500",
			map[string]string{"chargingSpeed": "10W Fast Charge", "compatibility": "Qi-enabled devices"}),
		p("Stainless Steel Water Bottle",
			"Insulated bottle that keeps drinks cold for 24 hours or hot for 12.",
			"34.99", "Sports & Fitness", 60, true,
			"https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=500",
			map[string]string{"capacity": "32 oz", "insulation": "Double-wall vacuum", "bpaFree": "Yes"}),
	}
}

// seed inserts the sample catalog and the demo accounts. Accounts that
// already exist are left alone, so seeding twice only duplicates products.
func seed(ctx context.Context, svc *services, out io.Writer) error {
	catalog := sampleCatalog()
	for _, p := range catalog {
		if _, err := svc.catalog.CreateProduct(ctx, operator, p); err != nil {
			return fmt.Errorf("seeding %s: %w", p.Name, err)
		}
	}
	fmt.Fprintf(out, "Added %d products\n", len(catalog))

	for _, a := range seedAccounts {
		_, err := svc.admin.CreateUser(ctx, operator, a.name, a.email, a.password, a.role)
		if errors.Is(err, domain.ErrDuplicateEmail) {
			fmt.Fprintf(out, "Account %s already exists\n", a.email)
			continue
		}
		if err != nil {
			return fmt.Errorf("seeding %s: %w", a.email, err)
		}
		fmt.Fprintf(out, "Added %s %s / %s\n", a.role, a.email, a.password)
	}
	return nil
}

func newSeedCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample catalog and demo accounts",
		Long: "Insert eight sample products plus an admin and a regular demo account into the configured store. " +
			"With the memory driver use `serve --seed` instead; nothing outlives this command.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*dir)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver == domain.DriverMemory {
				return fmt.Errorf("the memory driver keeps nothing between runs; use `kraftstore serve --seed`")
			}

			ctx := cmd.Context()
			st, err := openStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.close(context.Background())

			svc, err := newServices(cfg, st, "")
			if err != nil {
				return err
			}
			return seed(ctx, svc, cmd.OutOrStdout())
		},
	}
}
