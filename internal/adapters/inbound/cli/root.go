package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "kraftstore",
		Short: "Storefront and back-office for a small shop",
		Long: "kraftstore serves the shop's JSON API, seeds and administers its stores, " +
			"and doubles as a terminal client with a local cart.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", ".", "Directory holding kraftstore.yaml and .env")

	cmd.AddCommand(newVersionCmd(&dir))
	cmd.AddCommand(newServeCmd(&dir))
	cmd.AddCommand(newSeedCmd(&dir))
	cmd.AddCommand(newUsersCmd(&dir))
	cmd.AddCommand(newProductsCmd(&dir))
	cmd.AddCommand(newOrdersCmd(&dir))
	cmd.AddCommand(newCartCmd(&dir))
	cmd.AddCommand(newLoginCmd(&dir))
	cmd.AddCommand(newLogoutCmd(&dir))
	cmd.AddCommand(newMCPCmd(&dir))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
