package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newLoginCmd(dir *string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the API and remember the session",
		Long:  "Sign in with email and password. The password may also come from KRAFTSTORE_PASSWORD.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("KRAFTSTORE_PASSWORD")
			}
			t, err := openTerminal(*dir)
			if err != nil {
				return err
			}
			s, err := t.api.Login(email, password)
			if err != nil {
				return err
			}
			if err := t.sessions.Save(s); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", s.User.Email, s.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTerminal(*dir)
			if err != nil {
				return err
			}
			if err := t.sessions.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
