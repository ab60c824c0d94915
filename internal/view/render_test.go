package view

import (
	"strings"
	"testing"

	"github.com/i474232898/flow-weather/internal/weather"
)

func TestIcon(t *testing.T) {
	cases := map[string]string{
		"clear sky":        "☀️",
		"Light Rain":       "🌦️",
		"HEAVY RAIN":       "⛈️",
		"scattered clouds": "⛅",
		"volcanic ash":     "🌡️",
		"":                 "🌡️",
	}
	for in, want := range cases {
		if got := Icon(in); got != want {
			t.Errorf("Icon(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWeekday(t *testing.T) {
	if got := Weekday("2024-05-01T12:00:00.000Z"); got != "Wed" {
		t.Fatalf("unexpected weekday %q", got)
	}
	if got := Weekday("soon"); got != "soon" {
		t.Fatalf("unparseable date should pass through, got %q", got)
	}
}

func TestRender(t *testing.T) {
	s := State{
		Query: "Lon",
		Suggestions: []weather.PlaceSuggestion{
			{Name: "London", State: "England", Country: "GB"},
		},
		SuggestionsVisible: true,
		Weather:            &weather.WeatherSnapshot{CityName: "London", Temperature: 15, Humidity: 72, WindSpeed: 4, Description: "broken clouds"},
		Forecast: weather.Forecast{
			{Date: "2024-05-01T12:00:00.000Z", Temperature: 18, Humidity: 50, Description: "clear sky"},
		},
		Notice: MsgLinkCopied,
	}

	var b strings.Builder
	if err := Render(&b, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"Search: Lon",
		"1. London (England, GB)",
		"* Link copied to clipboard!",
		"Humidity     💧 72%",
		"Broken Clouds",
		"7-Day Forecast",
		"Wed",
		"Clear Sky",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderLocationPending(t *testing.T) {
	var b strings.Builder
	_ = Render(&b, State{LocationLoading: true, Error: "boom"})
	out := b.String()
	if !strings.Contains(out, "Detecting your location...") || !strings.Contains(out, "! boom") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "7-Day Forecast") {
		t.Fatal("forecast drawn without weather")
	}
}
