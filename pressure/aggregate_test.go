package pressure

import (
	"errors"
	"math"
	"testing"
	"time"

	"kiatsu-notification/models"
)

// baseTime is a Sunday morning in JST.
var baseTime = time.Date(2026, 3, 1, 6, 0, 0, 0, models.JST)

func entry(ts time.Time, pressure float64, description string) models.ForecastEntry {
	e := models.ForecastEntry{
		Dt:   ts.Unix(),
		Main: models.MainMetrics{Pressure: pressure, Temp: 15},
	}
	if description != "" {
		e.Weather = []models.WeatherInfo{{Description: description}}
	}
	return e
}

func TestAggregate_SingleDayMean(t *testing.T) {
	pressures := []float64{1004, 1006, 1008, 1010, 1012}
	var entries []models.ForecastEntry
	for i, p := range pressures {
		entries = append(entries, entry(baseTime.Add(time.Duration(i)*3*time.Hour), p, "晴れ"))
	}

	buckets, err := Aggregate(entries)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("Expected 1 bucket, got %d", len(buckets))
	}

	b := buckets[0]
	if math.Abs(b.AvgPressure-1008) > 1e-9 {
		t.Errorf("AvgPressure = %f; want 1008", b.AvgPressure)
	}
	if b.MinPressure != 1004 || b.MaxPressure != 1012 {
		t.Errorf("Min/Max = %f/%f; want 1004/1012", b.MinPressure, b.MaxPressure)
	}
	if b.Label != "3/1(日)" {
		t.Errorf("Label = %q; want 3/1(日)", b.Label)
	}
}

func TestAggregate_GroupsByCalendarDay(t *testing.T) {
	entries := []models.ForecastEntry{
		entry(baseTime, 1005, "晴れ"),
		// 23:00 same day, then 02:00 the next day
		entry(time.Date(2026, 3, 1, 23, 0, 0, 0, models.JST), 1006, "晴れ"),
		entry(time.Date(2026, 3, 2, 2, 0, 0, 0, models.JST), 1013, "曇り"),
	}

	buckets, err := Aggregate(entries)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("Expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "3/1(日)" || buckets[1].Label != "3/2(月)" {
		t.Errorf("Labels = %q, %q; want 3/1(日), 3/2(月)", buckets[0].Label, buckets[1].Label)
	}
	if len(buckets[0].Pressures) != 2 || len(buckets[1].Pressures) != 1 {
		t.Errorf("Sample counts = %d, %d; want 2, 1", len(buckets[0].Pressures), len(buckets[1].Pressures))
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	if _, err := Aggregate(nil); !errors.Is(err, ErrEmptyForecast) {
		t.Errorf("Expected ErrEmptyForecast, got %v", err)
	}
}

func TestAggregate_MissingWeather(t *testing.T) {
	entries := []models.ForecastEntry{entry(baseTime, 1005, "")}
	if _, err := Aggregate(entries); !errors.Is(err, ErrMissingWeather) {
		t.Errorf("Expected ErrMissingWeather, got %v", err)
	}
}

func TestAggregate_CommonWeatherTieBreak(t *testing.T) {
	tests := []struct {
		name    string
		weather []string
		want    string
	}{
		{"clear majority", []string{"曇り", "晴れ", "晴れ"}, "晴れ"},
		{"tie keeps first encountered", []string{"晴れ", "曇り", "曇り", "晴れ"}, "晴れ"},
		{"single", []string{"小雨"}, "小雨"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var entries []models.ForecastEntry
			for i, w := range test.weather {
				entries = append(entries, entry(baseTime.Add(time.Duration(i)*3*time.Hour), 1010, w))
			}
			buckets, err := Aggregate(entries)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if buckets[0].CommonWeather != test.want {
				t.Errorf("CommonWeather = %q; want %q", buckets[0].CommonWeather, test.want)
			}
		})
	}
}

func TestDayLabel_Weekdays(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, 3, 1, 0, 0, 0, 0, models.JST), "3/1(日)"},
		{time.Date(2026, 3, 2, 0, 0, 0, 0, models.JST), "3/2(月)"},
		{time.Date(2026, 3, 7, 0, 0, 0, 0, models.JST), "3/7(土)"},
		{time.Date(2026, 12, 31, 0, 0, 0, 0, models.JST), "12/31(木)"},
	}
	for _, test := range tests {
		if got := DayLabel(test.date); got != test.want {
			t.Errorf("DayLabel(%v) = %q; want %q", test.date, got, test.want)
		}
	}
}
