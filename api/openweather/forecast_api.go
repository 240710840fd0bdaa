package openweather

import (
	"context"

	"kiatsu-notification/models"
)

// ForecastAPI defines the interface for retrieving 5-day/3-hour forecasts.
type ForecastAPI interface {
	FetchForecast(ctx context.Context, cityID string) (*models.ForecastResponse, error)
	SetAPIKey(apiKey string)
}
