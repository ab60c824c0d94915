package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/i474232898/flow-weather/internal/weather"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc, opts ...Option) (*OpenWeatherProvider, *int32) {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL), WithLogger(zaptest.NewLogger(t).Sugar())}, opts...)
	return NewOpenWeatherProvider(&http.Client{Timeout: 2 * time.Second}, "test-key", opts...), &hits
}

func TestCurrentByCity(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != currentPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if q.Get("q") != "London" || q.Get("appid") != "test-key" || q.Get("units") != "metric" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"name":"London","main":{"temp":20.4,"humidity":55},"wind":{"speed":3.2},"weather":[{"description":"sunny"}]}`))
	})

	payload, err := p.Current(context.Background(), weather.CityLocation("London"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Name != "London" || payload.Main.Temp != 20.4 || payload.Main.Humidity != 55 || payload.Description() != "sunny" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestForecastByCoordinates(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != forecastPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if q.Get("lat") != "51.5074" || q.Get("lon") != "-0.1278" || q.Get("q") != "" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"city":{"name":"London"},"list":[{"dt":1714564800,"main":{"temp":12.6,"humidity":70},"wind":{"speed":4.4},"weather":[{"description":"light rain"}]}]}`))
	})

	payload, err := p.Forecast(context.Background(), weather.PointLocation(51.5074, -0.1278))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.City.Name != "London" || len(payload.List) != 1 || payload.List[0].Dt != 1714564800 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestGeocodePassesLimit(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != geocodePath || q.Get("q") != "Lon" || q.Get("limit") != "5" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"name":"London","state":"England","country":"GB","lat":51.5,"lon":-0.12},{"name":"Londrina","country":"BR","lat":-23.3,"lon":-51.16}]`))
	})

	places, err := p.Geocode(context.Background(), "Lon", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 2 || places[0].State != "England" || places[1].State != "" {
		t.Fatalf("unexpected places %+v", places)
	}
}

func TestNotFoundCarriesProviderMessage(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	})

	_, err := p.Current(context.Background(), weather.CityLocation("Atlantis"))
	var se *weather.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Status != http.StatusNotFound || se.Message != "city not found" {
		t.Fatalf("unexpected status error %+v", se)
	}
}

func TestServerErrorOpensBreaker(t *testing.T) {
	p, hits := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, WithBreakerThreshold(2))

	for i := 0; i < 2; i++ {
		_, err := p.Current(context.Background(), weather.CityLocation("London"))
		var se *weather.StatusError
		if !errors.As(err, &se) || se.Status != http.StatusBadGateway {
			t.Fatalf("call %d: expected 502 status error, got %v", i, err)
		}
	}

	_, err := p.Current(context.Background(), weather.CityLocation("London"))
	if !errors.Is(err, errCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if got := atomic.LoadInt32(hits); got != 2 {
		t.Fatalf("upstream hit %d times, want 2", got)
	}

	// The forecast breaker is independent.
	if _, err := p.Forecast(context.Background(), weather.CityLocation("London")); errors.Is(err, errCircuitOpen) {
		t.Fatalf("forecast breaker should still be closed")
	}
}

func TestClientErrorsDoNotOpenBreaker(t *testing.T) {
	p, hits := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, WithBreakerThreshold(1))

	for i := 0; i < 3; i++ {
		_, err := p.Current(context.Background(), weather.CityLocation("Atlantis"))
		var se *weather.StatusError
		if !errors.As(err, &se) || se.Message != "" {
			t.Fatalf("call %d: expected bare 404, got %v", i, err)
		}
	}
	if got := atomic.LoadInt32(hits); got != 3 {
		t.Fatalf("upstream hit %d times, want 3", got)
	}
}

func TestMissingAPIKeySkipsUpstream(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "", WithBaseURL(srv.URL))
	if _, err := p.Current(context.Background(), weather.CityLocation("London")); !errors.Is(err, errNoAPIKey) {
		t.Fatalf("expected missing key error, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("upstream was called")
	}
}

func TestMalformedBodyIsDecodeError(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":`))
	})

	_, err := p.Current(context.Background(), weather.CityLocation("London"))
	var se *weather.StatusError
	if err == nil || errors.As(err, &se) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
