package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"readify-backend/internal/platform/auth"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage login accounts",
	}
	cmd.AddCommand(newAccountCreateCmd())
	return cmd
}

// 最初の admin を作るためのコマンド。API の /accounts は admin しか呼べない
func newAccountCreateCmd() *cobra.Command {
	var (
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Create an account directly in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Database.Driver == "memory" {
				return fmt.Errorf("accounts cannot be created ahead of time with the memory driver")
			}
			a, err := newApp(cmd.Context(), cfg, zap.NewNop())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.auth.Register(cmd.Context(), args[0], password, role); err != nil {
				return err
			}
			ok("Created %s account %q", role, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (at least 8 characters)")
	cmd.Flags().StringVar(&role, "role", auth.RoleAdmin, "user | staff | admin")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
