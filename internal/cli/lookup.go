package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/flow-weather/internal/view"
	"github.com/i474232898/flow-weather/internal/weather"
)

var errNoLocation = errors.New("a city, or both --lat and --lon, is required")

type pointFlags struct {
	lat, lon float64
}

func (p *pointFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&p.lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&p.lon, "lon", 0, "longitude in decimal degrees")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
}

func (p *pointFlags) set(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("lat")
}

func (a *app) weatherCmd() *cobra.Command {
	var point pointFlags

	cmd := &cobra.Command{
		Use:   "weather [city]",
		Short: "Show current weather and the 7-day forecast",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			geo := a.geolocator()
			if point.set(cmd) {
				geo = view.FixedPosition(point.lat, point.lon)
			}

			o := view.New(a.api(), view.Options{
				Geolocator: geo,
				Logger:     a.log,
			})
			defer o.Close()

			switch {
			case len(args) == 1:
				o.FetchCity(cmd.Context(), args[0], true)
			case geo != nil:
				o.LocateMe(cmd.Context())
			default:
				return errNoLocation
			}

			s := o.State()
			if s.Error != "" {
				return errors.New(s.Error)
			}
			return view.Render(cmd.OutOrStdout(), s)
		},
	}

	point.register(cmd)
	return cmd
}

func (a *app) forecastCmd() *cobra.Command {
	var point pointFlags

	cmd := &cobra.Command{
		Use:   "forecast [city]",
		Short: "Show one sample per day for the coming week",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var loc weather.Location
			switch {
			case len(args) == 1:
				loc = weather.CityLocation(args[0])
			case point.set(cmd):
				loc = weather.PointLocation(point.lat, point.lon)
			default:
				return errNoLocation
			}

			forecast, err := a.api().Forecast(cmd.Context(), loc)
			if err != nil {
				return errors.New(weather.MessageOf(err, weather.MsgForecastInternal))
			}

			out := cmd.OutOrStdout()
			if len(forecast) == 0 {
				fmt.Fprintln(out, "no forecast available")
				return nil
			}
			for _, day := range forecast {
				fmt.Fprintf(out, "%-4s %s  %s %4d°C  %3d%%  %5s m/s  %s\n",
					view.Weekday(day.Date),
					strings.SplitN(day.Date, "T", 2)[0],
					view.Icon(day.Description),
					day.Temperature,
					day.Humidity,
					strconv.FormatFloat(day.WindSpeed, 'f', -1, 64),
					day.Description,
				)
			}
			return nil
		},
	}

	point.register(cmd)
	return cmd
}

func (a *app) suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <text>",
		Short: "List places matching a partial name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			search := strings.Join(args, " ")

			places, err := a.api().PlaceSuggestions(cmd.Context(), search, a.cfg.SuggestionLimit)
			if err != nil {
				return errors.New(weather.MessageOf(err, weather.MsgSuggestFailed))
			}

			out := cmd.OutOrStdout()
			if len(places) == 0 {
				fmt.Fprintf(out, "no places match %q\n", search)
				return nil
			}
			for i, p := range places {
				fmt.Fprintf(out, "%d. %s  %s\n", i+1, p.Label(), weather.Coordinates{Lat: p.Lat, Lon: p.Lon})
			}
			return nil
		},
	}
}
