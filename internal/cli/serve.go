package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dori/doist/internal/logger"
	"github.com/dori/doist/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.Config.ListenAddr
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.NewRouter(a.Service),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info(ctx, "listening", "addr", addr)
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("failed to serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info(context.Background(), "shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
