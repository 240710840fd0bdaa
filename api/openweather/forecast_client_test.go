package openweather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kiatsu-notification/api"
	"kiatsu-notification/models"
)

func TestFetchForecast(t *testing.T) {
	wantResp := models.ForecastResponse{
		Cod:   "200",
		Count: 1,
		List: []models.ForecastEntry{
			{
				Dt:      1767225600,
				Main:    models.MainMetrics{Temp: 12.3, Pressure: 1008, Humidity: 60},
				Weather: []models.WeatherInfo{{ID: 500, Main: "Rain", Description: "小雨"}},
			},
		},
		City: models.City{ID: 1857550, Name: "Matsue", Country: "JP", Timezone: 32400},
	}

	// Handler to verify request and return stubbed JSON
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET; got %s", r.Method)
		}
		if r.URL.Path != "/forecast" {
			t.Errorf("expected path /forecast; got %s", r.URL.Path)
		}

		query := r.URL.Query()
		checks := []struct {
			key  string
			want string
		}{
			{"id", "1857550"},
			{"appid", "secret"},
			{"units", "metric"},
			{"lang", "ja"},
		}
		for _, c := range checks {
			if got := query.Get(c.key); got != c.want {
				t.Errorf("query[%q] = %q; want %q", c.key, got, c.want)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(wantResp)
	}))
	defer srv.Close()

	client := NewOpenWeatherClient(api.NewHTTPClient(srv.URL), 100, 1)
	client.SetAPIKey("secret")

	got, err := client.FetchForecast(context.Background(), "1857550")
	if err != nil {
		t.Fatal(err)
	}
	if got.City.Name != "Matsue" {
		t.Errorf("City.Name = %q; want Matsue", got.City.Name)
	}
	if len(got.List) != 1 || got.List[0].Main.Pressure != 1008 {
		t.Errorf("List = %+v; want one entry at 1008hPa", got.List)
	}
	if got.List[0].Description() != "小雨" {
		t.Errorf("Description() = %q; want 小雨", got.List[0].Description())
	}
}

func TestFetchForecast_MissingAPIKey(t *testing.T) {
	client := NewOpenWeatherClient(api.NewHTTPClient("http://unused"), 100, 1)

	if _, err := client.FetchForecast(context.Background(), "1857550"); err == nil {
		t.Fatal("Expected an error without an api key, got nil")
	}
}

func TestFetchForecast_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	client := NewOpenWeatherClient(api.NewHTTPClient(srv.URL), 100, 1)
	client.SetAPIKey("bad")

	if _, err := client.FetchForecast(context.Background(), "1857550"); err == nil {
		t.Fatal("Expected an error on 401, got nil")
	}
}

func TestSyntheticForecast_Shape(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, models.JST)

	forecast := SyntheticForecast(now, "1857550")

	if forecast.Count != 40 || len(forecast.List) != 40 {
		t.Fatalf("Expected 40 samples, got cnt=%d len=%d", forecast.Count, len(forecast.List))
	}
	if forecast.City.ID != 1857550 {
		t.Errorf("City.ID = %d; want 1857550", forecast.City.ID)
	}

	dates := map[string]int{}
	for _, e := range forecast.List {
		dates[e.Time().Format("2006-01-02")]++
	}
	if len(dates) != 5 {
		t.Errorf("Expected samples spread over 5 dates, got %d", len(dates))
	}
	for date, n := range dates {
		if n != 8 {
			t.Errorf("Date %s has %d samples; want 8", date, n)
		}
	}

	// First sample: base 1010 with the -6hPa morning offset at 00h.
	if got := forecast.List[0].Main.Pressure; got != 1004 {
		t.Errorf("First pressure = %f; want 1004", got)
	}

	// Deterministic for a fixed clock.
	again := SyntheticForecast(now, "1857550")
	if forecast.List[17].Dt != again.List[17].Dt ||
		forecast.List[17].Main != again.List[17].Main ||
		forecast.List[17].Description() != again.List[17].Description() {
		t.Errorf("Synthetic forecast is not deterministic")
	}
}

func TestSyntheticForecastClient(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, models.JST)
	client := &SyntheticForecastClient{Now: func() time.Time { return now }}

	forecast, err := client.FetchForecast(context.Background(), "1850144")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if forecast.City.ID != 1850144 {
		t.Errorf("City.ID = %d; want 1850144", forecast.City.ID)
	}
}
