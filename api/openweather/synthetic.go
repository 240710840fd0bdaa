package openweather

import (
	"context"
	"strconv"
	"time"

	"kiatsu-notification/models"
)

var syntheticWeatherTypes = []string{"晴れ", "曇り", "小雨", "適度な雨"}

// SyntheticForecast builds a deterministic 5-day x 8-point pseudo forecast
// with the same shape as the provider payload, so the formatting pipeline
// can run without network access. Pressure drifts up 2hPa per day with a
// small intra-day swing around noon.
func SyntheticForecast(now time.Time, cityID string) *models.ForecastResponse {
	now = now.In(models.JST)
	cityIDInt, _ := strconv.Atoi(cityID)

	var list []models.ForecastEntry
	for day := 0; day < 5; day++ {
		weather := syntheticWeatherTypes[day%len(syntheticWeatherTypes)]
		for hour := 0; hour < 24; hour += 3 {
			dt := now.Add(time.Duration(day)*24*time.Hour + time.Duration(hour)*time.Hour)
			basePressure := 1010.0 + float64(day)*2
			list = append(list, models.ForecastEntry{
				Dt: dt.Unix(),
				Main: models.MainMetrics{
					Temp:     20 + float64(day) + float64(hour-12)*0.5,
					Pressure: basePressure + float64(hour-12)*0.5,
					Humidity: 70 - float64(day)*5,
				},
				Weather: []models.WeatherInfo{
					{ID: 800 + day*100, Main: weather, Description: weather, Icon: "01d"},
				},
				DtTxt: dt.Format("2006-01-02 15:04:05"),
			})
		}
	}

	return &models.ForecastResponse{
		Cod:   "200",
		Count: len(list),
		List:  list,
		City: models.City{
			ID:       cityIDInt,
			Name:     "合成データ",
			Country:  "JP",
			Timezone: 32400,
		},
	}
}

// SyntheticForecastClient serves generated data instead of calling the
// provider, for offline runs and tests.
type SyntheticForecastClient struct {
	// Now is called per fetch; defaults to time.Now.
	Now func() time.Time
}

// NewSyntheticForecastClient creates a new instance of SyntheticForecastClient.
func NewSyntheticForecastClient() *SyntheticForecastClient {
	return &SyntheticForecastClient{Now: time.Now}
}

// FetchForecast returns the deterministic synthetic series.
func (c *SyntheticForecastClient) FetchForecast(ctx context.Context, cityID string) (*models.ForecastResponse, error) {
	return SyntheticForecast(c.Now(), cityID), nil
}

// SetAPIKey is a no-op for the synthetic client.
func (c *SyntheticForecastClient) SetAPIKey(apiKey string) {}
