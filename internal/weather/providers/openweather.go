package providers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/flow-weather/internal/weather"
)

// DefaultOpenWeatherBaseURL is the public OpenWeatherMap API host.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

const (
	currentPath  = "/data/2.5/weather"
	forecastPath = "/data/2.5/forecast"
	geocodePath  = "/geo/1.0/direct"
)

// Option configures an OpenWeatherProvider.
type Option func(*OpenWeatherProvider)

// WithBaseURL points the provider at another host, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(p *OpenWeatherProvider) {
		if baseURL != "" {
			p.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithBreakerThreshold sets how many consecutive failures open a circuit.
func WithBreakerThreshold(n uint32) Option {
	return func(p *OpenWeatherProvider) {
		p.threshold = n
	}
}

// WithLogger sets the provider's logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(p *OpenWeatherProvider) {
		if log != nil {
			p.log = log
		}
	}
}

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap. Each
// endpoint family has its own circuit breaker so a failing geocoder does not
// take current conditions down with it.
type OpenWeatherProvider struct {
	name      string
	apiKey    string
	baseURL   string
	threshold uint32
	client    *resty.Client
	log       *zap.SugaredLogger

	currentCB  *gobreaker.CircuitBreaker
	forecastCB *gobreaker.CircuitBreaker
	geocodeCB  *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		name:      "openweathermap",
		apiKey:    apiKey,
		baseURL:   DefaultOpenWeatherBaseURL,
		threshold: DefaultBreakerThreshold,
		log:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if client == nil {
		client = http.DefaultClient
	}
	p.client = resty.NewWithClient(client).
		SetBaseURL(p.baseURL).
		SetHeader("Accept", "application/json")

	p.currentCB = newBreaker("openweather-current", p.threshold)
	p.forecastCB = newBreaker("openweather-forecast", p.threshold)
	p.geocodeCB = newBreaker("openweather-geocode", p.threshold)
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Current(ctx context.Context, loc weather.Location) (weather.CurrentPayload, error) {
	var payload weather.CurrentPayload
	err := p.get(ctx, p.currentCB, currentPath, p.locationParams(loc), &payload)
	return payload, err
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, loc weather.Location) (weather.ForecastPayload, error) {
	var payload weather.ForecastPayload
	err := p.get(ctx, p.forecastCB, forecastPath, p.locationParams(loc), &payload)
	return payload, err
}

func (p *OpenWeatherProvider) Geocode(ctx context.Context, query string, limit int) ([]weather.GeocodePlace, error) {
	params := map[string]string{
		"q":     query,
		"limit": strconv.Itoa(limit),
	}

	var places []weather.GeocodePlace
	if err := p.get(ctx, p.geocodeCB, geocodePath, params, &places); err != nil {
		return nil, err
	}
	return places, nil
}

func (p *OpenWeatherProvider) locationParams(loc weather.Location) map[string]string {
	params := map[string]string{"units": "metric"}
	if loc.HasCity() {
		params["q"] = loc.City
	} else if loc.Coordinates != nil {
		params["lat"] = strconv.FormatFloat(loc.Coordinates.Lat, 'f', -1, 64)
		params["lon"] = strconv.FormatFloat(loc.Coordinates.Lon, 'f', -1, 64)
	}
	return params
}

func (p *OpenWeatherProvider) get(
	ctx context.Context,
	cb *gobreaker.CircuitBreaker,
	path string,
	params map[string]string,
	out interface{},
) error {
	if p.apiKey == "" {
		return errNoAPIKey
	}

	req := p.client.R().
		SetQueryParams(params).
		SetQueryParam("appid", p.apiKey)

	resp, err := doRequest(ctx, cb, req, path)
	if err != nil {
		return err
	}

	p.log.Debugw("openweather response",
		"path", path,
		"status", resp.StatusCode(),
		"duration", resp.Time())

	return decode(resp, out)
}
