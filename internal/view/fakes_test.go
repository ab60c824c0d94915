package view

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/i474232898/flow-weather/internal/weather"
)

// manualClock collects timers and fires them only when told to.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, delay: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Pending returns the number of armed timers.
func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance fires every armed timer synchronously.
func (c *manualClock) Advance() {
	c.mu.Lock()
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

type fakeAPI struct {
	mu sync.Mutex

	cityErr     map[string]error
	coordsErr   error
	forecastErr error
	suggestions map[string][]weather.PlaceSuggestion
	suggestErr  error
	gates       map[string]chan struct{}

	cityCalls    []string
	coordCalls   []weather.Coordinates
	suggestCalls []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		cityErr:     map[string]error{},
		suggestions: map[string][]weather.PlaceSuggestion{},
		gates:       map[string]chan struct{}{},
	}
}

func (f *fakeAPI) CurrentWeatherByCity(ctx context.Context, city string) (weather.WeatherSnapshot, error) {
	f.mu.Lock()
	f.cityCalls = append(f.cityCalls, city)
	gate := f.gates[city]
	err := f.cityErr[city]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}
	return weather.WeatherSnapshot{CityName: city, Temperature: 20, Humidity: 55, WindSpeed: 3, Description: "clear sky"}, nil
}

func (f *fakeAPI) CurrentWeatherByCoordinates(ctx context.Context, coords *weather.Coordinates) (weather.WeatherSnapshot, error) {
	f.mu.Lock()
	f.coordCalls = append(f.coordCalls, *coords)
	err := f.coordsErr
	f.mu.Unlock()

	if err != nil {
		return weather.WeatherSnapshot{}, err
	}
	return weather.WeatherSnapshot{CityName: "Here", Temperature: 11, Humidity: 80, WindSpeed: 5, Description: "mist"}, nil
}

func (f *fakeAPI) Forecast(ctx context.Context, loc weather.Location) (weather.Forecast, error) {
	f.mu.Lock()
	err := f.forecastErr
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return weather.Forecast{
		{Date: "2024-05-01T12:00:00.000Z", Temperature: 18, Humidity: 50, WindSpeed: 3.4, Description: "clear sky"},
		{Date: "2024-05-02T12:00:00.000Z", Temperature: 16, Humidity: 62, WindSpeed: 4.1, Description: "light rain"},
	}, nil
}

func (f *fakeAPI) PlaceSuggestions(ctx context.Context, search string, limit int) ([]weather.PlaceSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestCalls = append(f.suggestCalls, search)
	if f.suggestErr != nil {
		return nil, f.suggestErr
	}
	return f.suggestions[search], nil
}

func (f *fakeAPI) calledCity(city string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cityCalls {
		if c == city {
			return true
		}
	}
	return false
}

func (f *fakeAPI) suggestCallList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.suggestCalls...)
}

type fakeSharer struct {
	got []ShareData
	err error
}

func (s *fakeSharer) Share(ctx context.Context, data ShareData) error {
	s.got = append(s.got, data)
	return s.err
}

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) WriteText(ctx context.Context, text string) error {
	c.text = text
	return nil
}

func newTestOrchestrator(t *testing.T, api API, opts Options) (*Orchestrator, *manualClock) {
	t.Helper()
	clock := &manualClock{}
	if opts.AfterFunc == nil {
		opts.AfterFunc = clock.AfterFunc
	}
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t).Sugar()
	}
	o := New(api, opts)
	t.Cleanup(o.Close)
	return o, clock
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
