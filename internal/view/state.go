package view

import "github.com/i474232898/flow-weather/internal/weather"

// State is everything the view renders. Weather and Forecast always belong
// to the same fetch cycle. An empty Error means no error is shown.
type State struct {
	Query       string
	Weather     *weather.WeatherSnapshot
	Forecast    weather.Forecast
	Suggestions []weather.PlaceSuggestion
	Error       string
	Notice      string

	Loading            bool
	LocationLoading    bool
	SuggestionsVisible bool
}

// clone returns a deep copy safe to hand out of the orchestrator lock.
func (s State) clone() State {
	out := s
	if s.Weather != nil {
		w := *s.Weather
		out.Weather = &w
	}
	// An empty but non-nil forecast means "fetched, nothing to show" and
	// must survive the copy.
	if s.Forecast != nil {
		out.Forecast = make(weather.Forecast, len(s.Forecast))
		copy(out.Forecast, s.Forecast)
	}
	if s.Suggestions != nil {
		out.Suggestions = make([]weather.PlaceSuggestion, len(s.Suggestions))
		copy(out.Suggestions, s.Suggestions)
	}
	return out
}

// DropdownOpen reports whether the suggestion list should be drawn.
func (s State) DropdownOpen() bool {
	return s.SuggestionsVisible && len(s.Suggestions) > 0
}
