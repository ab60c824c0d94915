package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/flow-weather/internal/api/http"
)

const shutdownTimeout = 10 * time.Second

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API in front of OpenWeather",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.OpenWeatherAPIKey == "" {
				a.log.Warnw("OPENWEATHER_API_KEY is not set; upstream calls will fail")
			}

			server := httpapi.NewApp(a.service(), a.log)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Listen(":" + a.cfg.Port)
			}()
			a.log.Infow("listening", "port", a.cfg.Port)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return fmt.Errorf("listen: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.ShutdownWithContext(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			a.log.Infow("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&a.cfg.Port, "port", "p", a.cfg.Port, "listen port")
	return cmd
}
