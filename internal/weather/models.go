package weather

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// Location identifies what a query is about: a free-text city name or a
// coordinate pair. When both are set the city name wins.
type Location struct {
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// CityLocation builds a Location for a city name.
func CityLocation(city string) Location {
	return Location{City: city}
}

// PointLocation builds a Location for a coordinate pair.
func PointLocation(lat, lon float64) Location {
	return Location{Coordinates: &Coordinates{Lat: lat, Lon: lon}}
}

// HasCity reports whether the location carries a non-blank city name.
func (l Location) HasCity() bool {
	return strings.TrimSpace(l.City) != ""
}

// Key returns a short human readable key, used in logs.
func (l Location) Key() string {
	if l.HasCity() {
		return "city:" + l.City
	}
	if l.Coordinates != nil {
		return "coords:" + l.Coordinates.String()
	}
	return "none"
}

// WeatherSnapshot is the normalized current-conditions view for one place.
type WeatherSnapshot struct {
	CityName    string `json:"cityName"`
	Temperature int    `json:"temperature"` // °C
	Humidity    int    `json:"humidity"`    // %
	WindSpeed   int    `json:"windSpeed"`   // m/s
	Description string `json:"description"`
}

func (w WeatherSnapshot) String() string {
	return fmt.Sprintf("%s: %d°C, %s", w.CityName, w.Temperature, w.Description)
}

// ForecastEntry is one daily sample of a forecast. Wind speed is passed
// through from the provider without rounding.
type ForecastEntry struct {
	Date        string  `json:"date"` // ISO-8601, UTC
	CityName    string  `json:"cityName,omitempty"`
	Temperature int     `json:"temperature"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Description string  `json:"description"`
}

// Forecast is a chronologically ascending list of daily entries.
type Forecast []ForecastEntry

// PlaceSuggestion is one typeahead match from the geocoding provider.
type PlaceSuggestion struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Label renders the suggestion the way the dropdown shows it.
func (p PlaceSuggestion) Label() string {
	if p.State != "" {
		return p.Name + " (" + p.State + ", " + p.Country + ")"
	}
	return p.Name + " (" + p.Country + ")"
}
