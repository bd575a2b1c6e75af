package cli

import (
	"github.com/spf13/cobra"

	"readify-backend/internal/platform/logger"
)

// sweep は cron などから呼ぶ想定。サーバ内で定期実行はしない
func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire pending reservations whose hold period has passed",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(cfg.Mode)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.reservations.ExpireStale(cmd.Context(), a.clock.Now())
			if err != nil {
				return err
			}
			ok("Expired %d reservation(s)", n)
			return nil
		},
	}
}
