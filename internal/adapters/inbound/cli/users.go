package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/kraftstore/internal/adapters/outbound/tui"
	"github.com/abdidvp/kraftstore/internal/domain"
)

func newUsersCmd(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administer accounts directly in the store",
	}
	cmd.AddCommand(newUsersCreateCmd(dir))
	cmd.AddCommand(newUsersListCmd(dir))
	return cmd
}

// withServices opens the configured store for an operator command and closes
// it afterwards.
func withServices(cmd *cobra.Command, dir string, fn func(ctx context.Context, svc *services) error) error {
	cfg, err := loadConfig(dir)
	if err != nil {
		return err
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
	return fn(ctx, svc)
}

func newUsersCreateCmd(dir *string) *cobra.Command {
	var (
		name, email, password string
		role                  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with a chosen role",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			return withServices(cmd, *dir, func(ctx context.Context, svc *services) error {
				u, err := svc.admin.CreateUser(ctx, operator, name, email, password, r)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", u.Role, u.Email, u.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	cmd.Flags().StringVar(&role, "role", domain.RoleUser.String(), "Role: user, moderator or admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUsersListCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with their order counts and spend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, *dir, func(ctx context.Context, svc *services) error {
				stats, err := svc.admin.ListUsers(ctx, operator)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderUsers(stats))
				return nil
			})
		},
	}
}
