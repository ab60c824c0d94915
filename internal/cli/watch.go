package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/flow-weather/internal/scheduler"
	"github.com/i474232898/flow-weather/internal/view"
)

func (a *app) watchCmd() *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "watch <city>...",
		Short: "Show weather for cities and refresh it periodically",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api := a.api()
			term := &terminal{out: cmd.OutOrStdout()}
			settled := func(s view.State) {
				if s.Loading || s.LocationLoading {
					return
				}
				term.printf("%s\n", time.Now().Format(time.DateTime))
				term.render(s)
			}

			targets := make([]scheduler.Refresher, 0, len(args))
			for _, city := range args {
				o := view.New(api, view.Options{OnChange: settled, Logger: a.log})
				defer o.Close()

				o.FetchCity(ctx, city, true)
				targets = append(targets, o)
			}

			sched := scheduler.New(targets, every, a.log)
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().DurationVar(&every, "every", a.cfg.RefreshInterval, "refresh interval")
	return cmd
}
