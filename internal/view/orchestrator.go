// Package view drives the search/display page: the search box with its
// debounced suggestions, the parallel weather+forecast fetch cycles, device
// location, sharing and the ?city= URL state.
package view

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/i474232898/flow-weather/internal/weather"
)

const (
	// DefaultDebounce is the quiet period before a suggestion fetch.
	DefaultDebounce = 300 * time.Millisecond

	// MinSuggestionRunes is the shortest query that triggers suggestions.
	MinSuggestionRunes = 2

	// Messages shown in State.Error and State.Notice.
	MsgLocationUnavailable = "Unable to get your location. Please search for a city instead."
	MsgLocationFailed      = "Failed to fetch location weather"
	MsgSomethingWrong      = "Something went wrong"
	MsgLinkCopied          = "Link copied to clipboard!"

	// ShareTitle is the title handed to the native share sheet.
	ShareTitle = "Weather Information"
)

// Options configures an Orchestrator. Nil ports are allowed: without a
// Geolocator location requests fail, without a Sharer Share falls back to
// the Clipboard.
type Options struct {
	Geolocator      Geolocator
	Navigator       Navigator
	Sharer          Sharer
	Clipboard       Clipboard
	Debounce        time.Duration
	SuggestionLimit int
	AfterFunc       AfterFunc

	// OnChange is called with a copy of the state after every transition.
	// It may be called from several goroutines at once.
	OnChange func(State)

	Logger *zap.SugaredLogger
}

// ticket identifies one intent. gen orders it against every other intent
// that writes weather data; seq orders it against intents of the same kind.
type ticket struct {
	gen uint64
	seq uint64
}

type intent struct {
	city   string
	coords *weather.Coordinates
}

// Orchestrator owns the view state and turns user intents into fetch
// cycles. It is safe for concurrent use.
type Orchestrator struct {
	api       API
	geo       Geolocator
	nav       Navigator
	sharer    Sharer
	clipboard Clipboard
	limit     int
	onChange  func(State)
	log       *zap.SugaredLogger

	debounce *debouncer
	wg       sync.WaitGroup

	mu         sync.Mutex
	state      State
	gen        uint64
	citySeq    uint64
	locateSeq  uint64
	suggestSeq uint64
	last       intent
	mounted    bool
}

// New creates a new Orchestrator over api. Nothing is fetched until Mount
// or another intent.
func New(api API, opts Options) *Orchestrator {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = weather.DefaultSuggestionLimit
	}
	if opts.Navigator == nil {
		opts.Navigator, _ = NewPageURL("/")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	o := &Orchestrator{
		api:       api,
		geo:       opts.Geolocator,
		nav:       opts.Navigator,
		sharer:    opts.Sharer,
		clipboard: opts.Clipboard,
		limit:     opts.SuggestionLimit,
		onChange:  opts.OnChange,
		log:       opts.Logger,
	}
	o.debounce = newDebouncer(opts.Debounce, opts.AfterFunc, &o.wg)
	return o
}

// State returns a copy of the current view state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// Mount starts device location and, when the URL names a city, a city
// cycle. Both run in the background; the city is issued last so an
// explicit ?city= wins. Only the first call has any effect.
func (o *Orchestrator) Mount(ctx context.Context) {
	o.mu.Lock()
	if o.mounted {
		o.mu.Unlock()
		return
	}
	o.mounted = true
	o.mu.Unlock()

	lt := o.beginLocate()
	o.spawn(func() { o.runLocate(ctx, lt) })

	if city := o.nav.City(); city != "" {
		ct := o.beginCity(city, true)
		o.spawn(func() { o.runCity(ctx, city, ct) })
	}
}

// Navigate applies a URL change: a non-empty city becomes the query and is
// fetched.
func (o *Orchestrator) Navigate(ctx context.Context, city string) {
	if city == "" {
		return
	}
	o.FetchCity(ctx, city, true)
}

// SetQuery replaces the query text without touching suggestions.
func (o *Orchestrator) SetQuery(text string) {
	o.mu.Lock()
	o.state.Query = text
	o.mu.Unlock()
	o.emit()
}

// Submit records the query in the URL and fetches it. A blank query is
// ignored.
func (o *Orchestrator) Submit(ctx context.Context) {
	query := o.State().Query
	if !weather.CityLocation(query).HasCity() {
		return
	}
	o.nav.Push(query)
	o.FetchCity(ctx, query, false)
}

// FetchCity runs one city fetch cycle and blocks until it settles. With
// setQuery the city also becomes the query text.
func (o *Orchestrator) FetchCity(ctx context.Context, city string, setQuery bool) {
	t := o.beginCity(city, setQuery)
	o.runCity(ctx, city, t)
}

// LocateMe resolves the device position and fetches weather for it,
// blocking until the cycle settles.
func (o *Orchestrator) LocateMe(ctx context.Context) {
	t := o.beginLocate()
	o.runLocate(ctx, t)
}

// SearchInput handles a keystroke. Queries shorter than two characters hide
// the dropdown at once; longer ones fetch suggestions after the quiet
// period, superseding any pending fetch.
func (o *Orchestrator) SearchInput(ctx context.Context, text string) {
	o.mu.Lock()
	o.state.Query = text
	if utf8.RuneCountInString(text) < MinSuggestionRunes {
		o.suggestSeq++
		o.state.Suggestions = nil
		o.state.SuggestionsVisible = false
		o.mu.Unlock()

		o.debounce.Cancel()
		o.emit()
		return
	}
	o.mu.Unlock()
	o.emit()

	o.debounce.Arm(func() { o.fetchSuggestions(ctx, text) })
}

// Focus re-shows the dropdown for a long enough query.
func (o *Orchestrator) Focus() {
	o.mu.Lock()
	if utf8.RuneCountInString(o.state.Query) < MinSuggestionRunes || o.state.SuggestionsVisible {
		o.mu.Unlock()
		return
	}
	o.state.SuggestionsVisible = true
	o.mu.Unlock()
	o.emit()
}

// Blur hides the dropdown without dropping the list.
func (o *Orchestrator) Blur() {
	o.mu.Lock()
	o.state.SuggestionsVisible = false
	o.mu.Unlock()
	o.emit()
}

// SelectSuggestion makes the place name the query, records it in the URL
// and fetches it.
func (o *Orchestrator) SelectSuggestion(ctx context.Context, s weather.PlaceSuggestion) {
	o.debounce.Cancel()

	o.mu.Lock()
	o.suggestSeq++
	o.state.SuggestionsVisible = false
	o.mu.Unlock()

	o.nav.Push(s.Name)
	o.FetchCity(ctx, s.Name, true)
}

// SelectSuggestionAt selects the i-th (zero based) suggestion in the
// current list.
func (o *Orchestrator) SelectSuggestionAt(ctx context.Context, i int) error {
	o.mu.Lock()
	if i < 0 || i >= len(o.state.Suggestions) {
		n := len(o.state.Suggestions)
		o.mu.Unlock()
		return fmt.Errorf("no suggestion %d (have %d)", i+1, n)
	}
	s := o.state.Suggestions[i]
	o.mu.Unlock()

	o.SelectSuggestion(ctx, s)
	return nil
}

// Share hands the current weather to the native share sheet, or copies the
// page URL to the clipboard when there is none. Without weather it does
// nothing.
func (o *Orchestrator) Share(ctx context.Context) {
	o.mu.Lock()
	w := o.state.Weather
	o.mu.Unlock()
	if w == nil {
		return
	}

	data := ShareData{
		Title: ShareTitle,
		Text:  fmt.Sprintf("Check out the weather in %s: %d°C, %s", w.CityName, w.Temperature, w.Description),
		URL:   o.nav.URL(),
	}

	if o.sharer != nil {
		if err := o.sharer.Share(ctx, data); err != nil {
			o.log.Warnw("share failed", "error", err)
		}
		return
	}
	if o.clipboard == nil {
		o.log.Warnw("share unavailable", "url", data.URL)
		return
	}
	if err := o.clipboard.WriteText(ctx, data.URL); err != nil {
		o.log.Warnw("clipboard write failed", "error", err)
		return
	}

	o.mu.Lock()
	o.state.Notice = MsgLinkCopied
	o.mu.Unlock()
	o.emit()
}

// Refresh repeats the last successful or attempted intent: the last city,
// or the last resolved coordinates. It is a no-op before any intent.
func (o *Orchestrator) Refresh(ctx context.Context) {
	o.mu.Lock()
	last := o.last
	o.mu.Unlock()

	switch {
	case last.city != "":
		o.FetchCity(ctx, last.city, false)
	case last.coords != nil:
		t := o.beginLocate()
		o.fetchCoordinates(ctx, *last.coords, t)
	default:
		o.log.Debugw("refresh skipped, nothing fetched yet")
	}
}

// Wait blocks until background work started by Mount and any pending or
// running suggestion fetch has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close drops a pending suggestion fetch.
func (o *Orchestrator) Close() {
	o.debounce.Cancel()
}

func (o *Orchestrator) spawn(f func()) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		f()
	}()
}

func (o *Orchestrator) emit() {
	if o.onChange != nil {
		o.onChange(o.State())
	}
}

func (o *Orchestrator) beginCity(city string, setQuery bool) ticket {
	o.mu.Lock()
	o.gen++
	o.citySeq++
	t := ticket{gen: o.gen, seq: o.citySeq}

	if setQuery {
		o.state.Query = city
	}
	o.state.Loading = true
	o.state.Error = ""
	o.state.Notice = ""
	o.state.Weather = nil
	o.state.Forecast = nil
	o.last = intent{city: city}
	o.mu.Unlock()

	o.emit()
	return t
}

func (o *Orchestrator) runCity(ctx context.Context, city string, t ticket) {
	snap, forecast, err := o.fetchPair(ctx, weather.CityLocation(city), func(ctx context.Context) (weather.WeatherSnapshot, error) {
		return o.api.CurrentWeatherByCity(ctx, city)
	})

	o.mu.Lock()
	if t.gen == o.gen {
		if err != nil {
			o.log.Infow("city weather failed", "city", city, "error", err)
			o.state.Error = weather.MessageOf(err, MsgSomethingWrong)
		} else {
			o.state.Weather = &snap
			o.state.Forecast = forecast
		}
	} else {
		o.log.Debugw("dropping stale city result", "city", city, "generation", t.gen)
	}
	if t.seq == o.citySeq {
		o.state.Loading = false
	}
	o.mu.Unlock()

	o.emit()
}

func (o *Orchestrator) beginLocate() ticket {
	o.mu.Lock()
	o.gen++
	o.locateSeq++
	t := ticket{gen: o.gen, seq: o.locateSeq}

	o.state.LocationLoading = true
	o.state.Error = ""
	o.state.Notice = ""
	o.mu.Unlock()

	o.emit()
	return t
}

func (o *Orchestrator) runLocate(ctx context.Context, t ticket) {
	var (
		coords weather.Coordinates
		err    = ErrGeolocationUnsupported
	)
	if o.geo != nil {
		coords, err = o.geo.CurrentPosition(ctx)
	}
	if err != nil {
		o.log.Warnw("geolocation failed", "error", err)

		o.mu.Lock()
		if t.gen == o.gen {
			o.state.Error = MsgLocationUnavailable
		}
		if t.seq == o.locateSeq {
			o.state.LocationLoading = false
		}
		o.mu.Unlock()

		o.emit()
		return
	}

	o.fetchCoordinates(ctx, coords, t)
}

func (o *Orchestrator) fetchCoordinates(ctx context.Context, coords weather.Coordinates, t ticket) {
	snap, forecast, err := o.fetchPair(ctx, weather.Location{Coordinates: &coords}, func(ctx context.Context) (weather.WeatherSnapshot, error) {
		return o.api.CurrentWeatherByCoordinates(ctx, &coords)
	})

	o.mu.Lock()
	if t.gen == o.gen {
		if err != nil {
			o.log.Infow("location weather failed", "coordinates", coords.String(), "error", err)
			o.state.Error = weather.MessageOf(err, MsgLocationFailed)
		} else {
			o.state.Weather = &snap
			o.state.Forecast = forecast
			o.last = intent{coords: &coords}
		}
	} else {
		o.log.Debugw("dropping stale location result", "coordinates", coords.String(), "generation", t.gen)
	}
	if t.seq == o.locateSeq {
		o.state.LocationLoading = false
	}
	o.mu.Unlock()

	o.emit()
}

// fetchPair runs the current-weather and forecast calls in parallel. A
// forecast failure is logged and yields an empty forecast.
func (o *Orchestrator) fetchPair(
	ctx context.Context,
	loc weather.Location,
	current func(context.Context) (weather.WeatherSnapshot, error),
) (weather.WeatherSnapshot, weather.Forecast, error) {
	var (
		wg       sync.WaitGroup
		snap     weather.WeatherSnapshot
		forecast weather.Forecast
		werr     error
		ferr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		snap, werr = current(ctx)
	}()
	go func() {
		defer wg.Done()
		forecast, ferr = o.api.Forecast(ctx, loc)
	}()
	wg.Wait()

	if werr != nil {
		return weather.WeatherSnapshot{}, nil, werr
	}
	if ferr != nil {
		o.log.Warnw("forecast failed", "location", loc.Key(), "error", ferr)
		forecast = nil
	}
	if forecast == nil {
		forecast = weather.Forecast{}
	}
	return snap, forecast, nil
}

func (o *Orchestrator) fetchSuggestions(ctx context.Context, text string) {
	o.mu.Lock()
	o.suggestSeq++
	seq := o.suggestSeq
	o.mu.Unlock()

	list, err := o.api.PlaceSuggestions(ctx, text, o.limit)
	if err != nil {
		o.log.Warnw("suggestions failed", "search", text, "error", err)
		return
	}

	o.mu.Lock()
	if seq != o.suggestSeq {
		o.mu.Unlock()
		o.log.Debugw("dropping stale suggestions", "search", text)
		return
	}
	o.state.Suggestions = list
	o.state.SuggestionsVisible = true
	o.mu.Unlock()

	o.emit()
}
