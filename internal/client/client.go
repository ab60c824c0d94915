// Package client talks to the Translation Layer over HTTP. It satisfies the
// same operation set as weather.Service so a view can use either.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/flow-weather/internal/weather"
)

// Client calls the /api endpoints of a flow-weather server.
type Client struct {
	rest *resty.Client
}

// New returns a Client for baseURL, e.g. http://localhost:8080/api.
func New(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		rest: resty.NewWithClient(httpClient).
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) CurrentWeatherByCity(ctx context.Context, city string) (weather.WeatherSnapshot, error) {
	var out weather.WeatherSnapshot
	err := c.get(ctx, "/weather", map[string]string{"city": city}, weather.MsgWeatherInternal, &out)
	return out, err
}

func (c *Client) CurrentWeatherByCoordinates(ctx context.Context, coords *weather.Coordinates) (weather.WeatherSnapshot, error) {
	if coords == nil {
		return weather.WeatherSnapshot{}, weather.BadRequest(weather.MsgCoordinatesRequired)
	}

	var out weather.WeatherSnapshot
	err := c.get(ctx, "/weather/coordinates", coordinateParams(coords), weather.MsgWeatherInternal, &out)
	return out, err
}

func (c *Client) Forecast(ctx context.Context, loc weather.Location) (weather.Forecast, error) {
	var params map[string]string
	switch {
	case loc.HasCity():
		params = map[string]string{"city": loc.City}
	case loc.Coordinates != nil:
		params = coordinateParams(loc.Coordinates)
	default:
		return nil, weather.BadRequest(weather.MsgCityOrCoordinates)
	}

	var out weather.Forecast
	err := c.get(ctx, "/weather/forecast", params, weather.MsgForecastInternal, &out)
	return out, err
}

// PlaceSuggestions asks the server for matches. The server applies its own
// limit; limit here only trims the response further.
func (c *Client) PlaceSuggestions(ctx context.Context, search string, limit int) ([]weather.PlaceSuggestion, error) {
	var out []weather.PlaceSuggestion
	if err := c.get(ctx, "/places/suggestions", map[string]string{"search": search}, weather.MsgSuggestFailed, &out); err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func coordinateParams(coords *weather.Coordinates) map[string]string {
	return map[string]string{
		"lat": strconv.FormatFloat(coords.Lat, 'f', -1, 64),
		"lon": strconv.FormatFloat(coords.Lon, 'f', -1, 64),
	}
}

// get performs one request. A non-success response becomes a *weather.Error
// with the server's status and message; transport and decode failures
// become internal errors with fallback as their message.
func (c *Client) get(ctx context.Context, path string, params map[string]string, fallback string, out interface{}) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return weather.Internal(fallback, fmt.Errorf("GET %s: %w", path, err))
	}

	if !resp.IsSuccess() {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(resp.Body(), &body)
		if body.Message == "" {
			body.Message = fallback
		}
		return &weather.Error{
			Kind:    kindFor(resp.StatusCode()),
			Status:  resp.StatusCode(),
			Message: body.Message,
		}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return weather.Internal(fallback, fmt.Errorf("decode %s: %w", path, err))
	}
	return nil
}

func kindFor(status int) weather.Kind {
	switch {
	case status == http.StatusBadRequest:
		return weather.KindBadRequest
	case status == http.StatusInternalServerError:
		return weather.KindInternal
	default:
		return weather.KindUpstream
	}
}
