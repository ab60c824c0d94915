package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/flow-weather/internal/weather"
)

const defaultIcon = "🌡️"

var icons = map[string]string{
	"clear sky":        "☀️",
	"few clouds":       "🌤️",
	"scattered clouds": "⛅",
	"broken clouds":    "☁️",
	"shower rain":      "🌧️",
	"rain":             "🌧️",
	"thunderstorm":     "⛈️",
	"snow":             "🌨️",
	"mist":             "🌫️",
	"overcast clouds":  "☁️",
	"light rain":       "🌦️",
	"moderate rain":    "🌧️",
	"heavy rain":       "⛈️",
	"drizzle":          "🌧️",
}

// Icon maps a condition description to its glyph, case-insensitively.
func Icon(description string) string {
	if icon, ok := icons[strings.ToLower(description)]; ok {
		return icon
	}
	return defaultIcon
}

// Weekday returns the short English weekday of an ISO-8601 forecast date,
// or the raw date when it does not parse.
func Weekday(date string) string {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return date
	}
	return t.UTC().Format("Mon")
}

// Render writes a plain-text rendition of s.
func Render(w io.Writer, s State) error {
	title := cases.Title(language.English)
	var b strings.Builder

	fmt.Fprintf(&b, "Search: %s\n", s.Query)
	if s.DropdownOpen() {
		for i, p := range s.Suggestions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, p.Label())
		}
	}
	if s.Loading {
		b.WriteString("Loading...\n")
	}
	if s.LocationLoading && s.Weather == nil {
		b.WriteString("Detecting your location...\n")
	}
	if s.Error != "" {
		fmt.Fprintf(&b, "! %s\n", s.Error)
	}
	if s.Notice != "" {
		fmt.Fprintf(&b, "* %s\n", s.Notice)
	}

	if s.Weather != nil {
		renderWeather(&b, s.Weather, title)
		renderForecast(&b, s.Forecast, title)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderWeather(b *strings.Builder, ws *weather.WeatherSnapshot, title cases.Caser) {
	fmt.Fprintf(b, "\n%s\n", ws.CityName)
	fmt.Fprintf(b, "  Temperature  %s %d°C\n", defaultIcon, ws.Temperature)
	fmt.Fprintf(b, "  Humidity     💧 %d%%\n", ws.Humidity)
	fmt.Fprintf(b, "  Wind Speed   🌬️ %d m/s\n", ws.WindSpeed)
	fmt.Fprintf(b, "  Condition    %s %s\n", Icon(ws.Description), title.String(ws.Description))
}

func renderForecast(b *strings.Builder, f weather.Forecast, title cases.Caser) {
	if len(f) == 0 {
		return
	}
	b.WriteString("\n7-Day Forecast\n")
	for _, day := range f {
		fmt.Fprintf(b, "  %-4s %s %4d°C  %-20s 💧 %d%%\n",
			Weekday(day.Date), Icon(day.Description), day.Temperature, title.String(day.Description), day.Humidity)
	}
}
