// Package cli is the flow-weather command tree: the HTTP server and the
// terminal front end over the search/display orchestrator.
package cli

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/flow-weather/internal/client"
	"github.com/i474232898/flow-weather/internal/config"
	"github.com/i474232898/flow-weather/internal/logging"
	"github.com/i474232898/flow-weather/internal/view"
	"github.com/i474232898/flow-weather/internal/weather"
	"github.com/i474232898/flow-weather/internal/weather/providers"
)

var (
	_ view.API = (*weather.Service)(nil)
	_ view.API = (*client.Client)(nil)
)

type app struct {
	cfg    *config.AppConfig
	log    *zap.SugaredLogger
	server string
}

// New builds the root command around cfg. Flags override cfg in place.
func New(cfg *config.AppConfig) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:          "flow-weather",
		Short:        "Weather lookup: OpenWeather translation API and terminal client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(a.cfg.LogLevel)
			if err != nil {
				return err
			}
			a.log = log

			if err := a.cfg.DotEnvError(); err != nil {
				a.log.Debugw("no .env file applied", "error", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	flags.StringVar(&cfg.PageURL, "page-url", cfg.PageURL, "page URL holding the ?city= state")
	flags.StringVar(&a.server, "server", "", "use a running flow-weather API instead of calling OpenWeather in-process")
	flags.Lookup("server").NoOptDefVal = cfg.APIURL

	root.AddCommand(
		a.serveCmd(),
		a.weatherCmd(),
		a.forecastCmd(),
		a.suggestCmd(),
		a.interactiveCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) httpClient() *http.Client {
	return &http.Client{Timeout: a.cfg.HTTPTimeout}
}

// service wires the Translation Layer in-process.
func (a *app) service() *weather.Service {
	provider := providers.NewOpenWeatherProvider(
		a.httpClient(),
		a.cfg.OpenWeatherAPIKey,
		providers.WithBaseURL(a.cfg.OpenWeatherBaseURL),
		providers.WithBreakerThreshold(a.cfg.BreakerThreshold),
		providers.WithLogger(a.log),
	)
	return weather.NewService(provider, a.cfg.SuggestionLimit, a.log)
}

// api returns the remote client when --server is set, the in-process
// service otherwise.
func (a *app) api() view.API {
	if a.server != "" {
		a.log.Debugw("using remote API", "url", a.server)
		return client.New(a.httpClient(), a.server)
	}
	return a.service()
}

// geolocator reports the configured fixed position, or nil when none is set.
func (a *app) geolocator() view.Geolocator {
	if a.cfg.LocationLat == nil || a.cfg.LocationLon == nil {
		return nil
	}
	return view.FixedPosition(*a.cfg.LocationLat, *a.cfg.LocationLon)
}
