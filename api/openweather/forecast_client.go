package openweather

import (
	"context"
	"fmt"
	"net/url"

	"kiatsu-notification/api"
	"kiatsu-notification/models"

	"golang.org/x/time/rate"
)

// OpenWeatherClient embeds the common HTTPClient. Outbound calls go through
// a client-side rate limiter so the regional fan-out cannot burst past the
// free-tier quota.
type OpenWeatherClient struct {
	*api.HTTPClient
	apiKey  string
	limiter *rate.Limiter
}

// NewOpenWeatherClient creates a new instance of OpenWeatherClient.
// rps is the maximum requests per second allowed, burst the burst size.
func NewOpenWeatherClient(httpClient *api.HTTPClient, rps float64, burst int) *OpenWeatherClient {
	return &OpenWeatherClient{
		HTTPClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// SetAPIKey sets the OpenWeatherMap credential used on every request.
func (c *OpenWeatherClient) SetAPIKey(apiKey string) {
	c.apiKey = apiKey
}

// FetchForecast retrieves the 5-day/3-hour forecast for a city id and
// decodes it into ForecastResponse.
func (c *OpenWeatherClient) FetchForecast(ctx context.Context, cityID string) (*models.ForecastResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	query := url.Values{}
	query.Set("id", cityID)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	query.Set("lang", "ja")

	var response models.ForecastResponse
	if err := c.Request("GET", "/forecast", query, nil, nil, &response); err != nil {
		return nil, fmt.Errorf("forecast fetch for city %s failed: %w", cityID, err)
	}
	return &response, nil
}
