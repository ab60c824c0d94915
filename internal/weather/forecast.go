package weather

import "github.com/i474232898/flow-weather/internal/common"

const (
	// SamplesPerDay is the number of 3-hour provider steps in 24 hours.
	SamplesPerDay = 8
	// MaxForecastDays caps the number of daily entries returned.
	MaxForecastDays = 7
)

// SampleDaily reduces a 3-hour forecast to one entry per day: samples at
// index 0, 8, 16, ... truncated to MaxForecastDays. Provider order is kept.
func SampleDaily(payload ForecastPayload) Forecast {
	forecast := make(Forecast, 0, MaxForecastDays)

	for i := 0; i < len(payload.List) && len(forecast) < MaxForecastDays; i += SamplesPerDay {
		s := payload.List[i]
		forecast = append(forecast, ForecastEntry{
			Date:        common.ISOTime(s.Dt),
			CityName:    payload.City.Name,
			Temperature: common.RoundHalfUp(s.Main.Temp),
			Humidity:    s.Main.Humidity,
			WindSpeed:   s.Wind.Speed,
			Description: s.Description(),
		})
	}

	return forecast
}

// Snapshot normalizes a current-weather payload. Temperature and wind speed
// are rounded to whole numbers.
func Snapshot(payload CurrentPayload) WeatherSnapshot {
	return WeatherSnapshot{
		CityName:    payload.Name,
		Temperature: common.RoundHalfUp(payload.Main.Temp),
		Humidity:    payload.Main.Humidity,
		WindSpeed:   common.RoundHalfUp(payload.Wind.Speed),
		Description: payload.Description(),
	}
}
