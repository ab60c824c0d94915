package weather

import (
	"context"
	"fmt"
)

// Conditions is the part of the provider schema shared by current-weather
// responses and forecast samples.
type Conditions struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Description returns weather[0].description, or "" when the list is empty.
func (c Conditions) Description() string {
	if len(c.Weather) == 0 {
		return ""
	}
	return c.Weather[0].Description
}

// CurrentPayload is the provider's current-weather response.
type CurrentPayload struct {
	Conditions
	Name string `json:"name"`
}

// ForecastSample is one 3-hour step of the provider's forecast.
type ForecastSample struct {
	Conditions
	Dt int64 `json:"dt"`
}

// ForecastPayload is the provider's forecast response.
type ForecastPayload struct {
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	List []ForecastSample `json:"list"`
}

// GeocodePlace is one entry of the provider's direct-geocoding response.
type GeocodePlace struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Provider abstracts the upstream weather/geocoding source.
type Provider interface {
	Name() string
	Current(ctx context.Context, loc Location) (CurrentPayload, error)
	Forecast(ctx context.Context, loc Location) (ForecastPayload, error)
	Geocode(ctx context.Context, query string, limit int) ([]GeocodePlace, error)
}

// StatusError is returned by a Provider when the upstream answered with a
// non-success status. Message is the provider's own message, if any.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream status %d", e.Status)
	}
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
}
