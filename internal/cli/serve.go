package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"readify-backend/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(cfg.Mode)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			log.Info("starting", zap.String("mode", cfg.Mode), zap.String("version", cfg.Version))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = cfg.Server.Addr
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(cfg, a, log),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				var err error
				if cfg.Server.TLS.Cert != "" && cfg.Server.TLS.Key != "" {
					log.Info("listening (https)", zap.String("addr", addr))
					err = srv.ListenAndServeTLS(cfg.Server.TLS.Cert, cfg.Server.TLS.Key)
				} else {
					log.Info("listening (http)", zap.String("addr", addr))
					err = srv.ListenAndServe()
				}
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			// Graceful shutdown
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			log.Info("shutting down...")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
