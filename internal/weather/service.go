package weather

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// DefaultSuggestionLimit is used when a caller does not ask for a limit.
const DefaultSuggestionLimit = 5

// User-facing messages of the Translation Layer.
const (
	MsgInvalidCity         = "Invalid city name"
	MsgCoordinatesRequired = "Latitude and longitude are required"
	MsgCityOrCoordinates   = "City or coordinates required"
	MsgSearchRequired      = "Search query is required"

	MsgCityNotFound     = "City not found"
	MsgLocationNotFound = "Location not found"
	MsgForecastFailed   = "Failed to fetch forecast data"
	MsgSuggestFailed    = "Failed to fetch suggestions"

	MsgWeatherInternal  = "Failed to fetch weather data"
	MsgForecastInternal = "Failed to fetch forecast"
)

// Service is the Translation Layer: each operation validates its input,
// makes exactly one provider call and normalizes the result. It holds no
// state between calls.
type Service struct {
	provider        Provider
	suggestionLimit int
	log             *zap.SugaredLogger
}

// NewService creates a new Service.
func NewService(provider Provider, suggestionLimit int, log *zap.SugaredLogger) *Service {
	if suggestionLimit <= 0 {
		suggestionLimit = DefaultSuggestionLimit
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		provider:        provider,
		suggestionLimit: suggestionLimit,
		log:             log,
	}
}

// CurrentWeatherByCity returns current conditions for a city name.
func (s *Service) CurrentWeatherByCity(ctx context.Context, city string) (WeatherSnapshot, error) {
	loc := CityLocation(strings.TrimSpace(city))
	if !loc.HasCity() {
		return WeatherSnapshot{}, BadRequest(MsgInvalidCity)
	}

	payload, err := s.provider.Current(ctx, loc)
	if err != nil {
		return WeatherSnapshot{}, s.translate("current", loc, err, MsgCityNotFound, MsgWeatherInternal)
	}
	return Snapshot(payload), nil
}

// CurrentWeatherByCoordinates returns current conditions for a coordinate pair.
func (s *Service) CurrentWeatherByCoordinates(ctx context.Context, coords *Coordinates) (WeatherSnapshot, error) {
	if coords == nil {
		return WeatherSnapshot{}, BadRequest(MsgCoordinatesRequired)
	}

	loc := Location{Coordinates: coords}
	payload, err := s.provider.Current(ctx, loc)
	if err != nil {
		return WeatherSnapshot{}, s.translate("current", loc, err, MsgLocationNotFound, MsgWeatherInternal)
	}
	return Snapshot(payload), nil
}

// Forecast returns up to seven daily entries for a city or a coordinate pair.
func (s *Service) Forecast(ctx context.Context, loc Location) (Forecast, error) {
	switch {
	case loc.HasCity():
		loc = CityLocation(strings.TrimSpace(loc.City))
	case loc.Coordinates != nil:
		loc = Location{Coordinates: loc.Coordinates}
	default:
		return nil, BadRequest(MsgCityOrCoordinates)
	}

	payload, err := s.provider.Forecast(ctx, loc)
	if err != nil {
		return nil, s.translate("forecast", loc, err, MsgForecastFailed, MsgForecastInternal)
	}
	return SampleDaily(payload), nil
}

// PlaceSuggestions returns at most limit geocoding matches for a partial
// place name. A limit <= 0 uses the configured default.
func (s *Service) PlaceSuggestions(ctx context.Context, search string, limit int) ([]PlaceSuggestion, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil, BadRequest(MsgSearchRequired)
	}
	if limit <= 0 || limit > s.suggestionLimit {
		limit = s.suggestionLimit
	}

	places, err := s.provider.Geocode(ctx, search, limit)
	if err != nil {
		return nil, s.translate("geocode", CityLocation(search), err, MsgSuggestFailed, MsgSuggestFailed)
	}

	if len(places) > limit {
		places = places[:limit]
	}
	suggestions := make([]PlaceSuggestion, 0, len(places))
	for _, p := range places {
		suggestions = append(suggestions, PlaceSuggestion{
			Name:    p.Name,
			State:   p.State,
			Country: p.Country,
			Lat:     p.Lat,
			Lon:     p.Lon,
		})
	}
	return suggestions, nil
}

// translate maps a provider failure onto the error taxonomy.
func (s *Service) translate(op string, loc Location, err error, upstreamDefault, internalMsg string) error {
	var se *StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = upstreamDefault
		}
		s.log.Warnw("upstream rejected request",
			"op", op,
			"location", loc.Key(),
			"status", se.Status,
			"message", se.Message)
		return Upstream(se.Status, msg)
	}

	s.log.Errorw("upstream call failed",
		"op", op,
		"location", loc.Key(),
		"error", err)
	return Internal(internalMsg, err)
}
