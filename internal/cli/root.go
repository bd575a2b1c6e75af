package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"readify-backend/internal/platform/config"
)

var (
	cfg        *config.Config
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:   "readify",
	Short: "Library lending backend (books, borrowers, borrowings, reservations, fines)",
	Long: `readify serves the lending API and carries the operational commands around it.

Settings come from config/config.yaml and READIFY_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute は main から呼ぶ
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "Config file path")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// config init は設定ファイルが無くても動く
		if cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSweepCmd(),
		newConfigCmd(),
		newAccountCmd(),
	)
}

func ok(format string, a ...any) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

func warn(format string, a ...any) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}
