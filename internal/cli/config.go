package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"readify-backend/internal/platform/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(flagConfig); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", flagConfig)
			}
			if err := config.Save(config.Default(), flagConfig); err != nil {
				return err
			}
			ok("Wrote %s", flagConfig)
			warn("set auth.jwt_secret before running in release mode")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (secrets masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			if c.Database.Password != "" {
				c.Database.Password = "********"
			}
			if c.Auth.JWTSecret != "" {
				c.Auth.JWTSecret = "********"
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(&c)
		},
	}
}
