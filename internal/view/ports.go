package view

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/i474232898/flow-weather/internal/weather"
)

// API is the Translation Layer as seen by the view. weather.Service
// (in-process) and client.Client (over HTTP) both implement it.
type API interface {
	CurrentWeatherByCity(ctx context.Context, city string) (weather.WeatherSnapshot, error)
	CurrentWeatherByCoordinates(ctx context.Context, coords *weather.Coordinates) (weather.WeatherSnapshot, error)
	Forecast(ctx context.Context, loc weather.Location) (weather.Forecast, error)
	PlaceSuggestions(ctx context.Context, search string, limit int) ([]weather.PlaceSuggestion, error)
}

// ErrGeolocationUnsupported is returned when the platform cannot locate the device.
var ErrGeolocationUnsupported = errors.New("geolocation is not supported")

// Geolocator resolves the device position once. It may block until the
// platform grants, denies or times out the request.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (weather.Coordinates, error)
}

// GeolocatorFunc adapts a function to Geolocator.
type GeolocatorFunc func(ctx context.Context) (weather.Coordinates, error)

func (f GeolocatorFunc) CurrentPosition(ctx context.Context) (weather.Coordinates, error) {
	return f(ctx)
}

// FixedPosition is a Geolocator that always reports the same coordinates.
func FixedPosition(lat, lon float64) Geolocator {
	return GeolocatorFunc(func(context.Context) (weather.Coordinates, error) {
		return weather.Coordinates{Lat: lat, Lon: lon}, nil
	})
}

// Navigator exposes the page's navigable location. The chosen city lives in
// the ?city= query parameter so the page can be shared and reloaded.
type Navigator interface {
	City() string
	Push(city string)
	URL() string
}

// ShareData is what a native share sheet receives.
type ShareData struct {
	Title string
	Text  string
	URL   string
}

// Sharer is a native share capability. Platforms without one pass nil.
type Sharer interface {
	Share(ctx context.Context, data ShareData) error
}

// Clipboard receives the page URL when there is no native share.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// PageURL is an in-memory Navigator over a URL.
type PageURL struct {
	mu sync.Mutex
	u  *url.URL
}

// NewPageURL parses raw as the current page URL.
func NewPageURL(raw string) (*PageURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &PageURL{u: u}, nil
}

func (p *PageURL) City() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.u.Query().Get("city")
}

func (p *PageURL) Push(city string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	q := p.u.Query()
	q.Set("city", city)
	p.u.RawQuery = q.Encode()
}

// Replace swaps the whole page URL, as when the user opens a link.
func (p *PageURL) Replace(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.u = u
	return nil
}

func (p *PageURL) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.u.String()
}
