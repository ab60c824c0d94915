package weather

import (
	"testing"
	"time"
)

func samples(n int, start time.Time) ForecastPayload {
	var p ForecastPayload
	p.City.Name = "Oslo"
	for i := 0; i < n; i++ {
		var s ForecastSample
		s.Dt = start.Add(time.Duration(i) * 3 * time.Hour).Unix()
		s.Main.Temp = float64(i) + 0.5
		s.Main.Humidity = 40 + i
		s.Wind.Speed = 1.25
		s.Weather = []struct {
			Description string `json:"description"`
		}{{Description: "light rain"}}
		p.List = append(p.List, s)
	}
	return p
}

func TestSampleDailyPicksEveryEighth(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	got := SampleDaily(samples(24, start))

	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, idx := range []int{0, 8, 16} {
		wantDate := start.Add(time.Duration(idx) * 3 * time.Hour).Format("2006-01-02T15:04:05.000Z")
		if got[i].Date != wantDate {
			t.Errorf("entry %d date %s, want %s", i, got[i].Date, wantDate)
		}
		if got[i].Humidity != 40+idx {
			t.Errorf("entry %d humidity %d, want %d", i, got[i].Humidity, 40+idx)
		}
		if got[i].Temperature != idx+1 {
			t.Errorf("entry %d temperature %d, want %d", i, got[i].Temperature, idx+1)
		}
		if got[i].WindSpeed != 1.25 {
			t.Errorf("entry %d wind speed %v should be unrounded", i, got[i].WindSpeed)
		}
		if got[i].CityName != "Oslo" || got[i].Description != "light rain" {
			t.Errorf("entry %d unexpected %+v", i, got[i])
		}
	}
}

func TestSampleDailyCapsAtSevenDays(t *testing.T) {
	got := SampleDaily(samples(80, time.Now()))
	if len(got) != MaxForecastDays {
		t.Fatalf("expected %d entries, got %d", MaxForecastDays, len(got))
	}
}

func TestSampleDailyEmpty(t *testing.T) {
	got := SampleDaily(ForecastPayload{})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil forecast, got %#v", got)
	}
}

func TestSnapshotWithoutWeatherList(t *testing.T) {
	var p CurrentPayload
	p.Name = "Reykjavik"
	p.Main.Temp = -2.5
	p.Wind.Speed = 7.5
	got := Snapshot(p)
	if got.Description != "" || got.Temperature != -2 || got.WindSpeed != 8 {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}
