package models

import "time"

// JST is the fixed timezone every forecast timestamp is interpreted in.
// A fixed offset avoids a tzdata dependency inside containers.
var JST = time.FixedZone("JST", 9*60*60)

// ForecastResponse is the OpenWeatherMap 5-day/3-hour forecast payload.
type ForecastResponse struct {
	Cod   string          `json:"cod,omitempty"`
	Count int             `json:"cnt,omitempty"`
	List  []ForecastEntry `json:"list"`
	City  City            `json:"city"`
}

// ForecastEntry is a single 3-hour forecast sample.
type ForecastEntry struct {
	Dt      int64         `json:"dt"`
	Main    MainMetrics   `json:"main"`
	Weather []WeatherInfo `json:"weather"`
	DtTxt   string        `json:"dt_txt,omitempty"`
}

// MainMetrics carries the numeric readings of a sample.
type MainMetrics struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like,omitempty"`
	TempMin   float64 `json:"temp_min,omitempty"`
	TempMax   float64 `json:"temp_max,omitempty"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity,omitempty"`
}

// WeatherInfo is one weather condition attached to a sample.
type WeatherInfo struct {
	ID          int    `json:"id,omitempty"`
	Main        string `json:"main,omitempty"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// City identifies the forecast location.
type City struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Country  string `json:"country,omitempty"`
	Timezone int    `json:"timezone,omitempty"`
}

// Time returns the sample timestamp in JST.
func (e ForecastEntry) Time() time.Time {
	return time.Unix(e.Dt, 0).In(JST)
}

// Description returns the first weather description of the sample, or an
// empty string when the sample carries none.
func (e ForecastEntry) Description() string {
	if len(e.Weather) == 0 {
		return ""
	}
	return e.Weather[0].Description
}

// HasSamples reports whether the payload carries a usable sample list.
func (r *ForecastResponse) HasSamples() bool {
	return r != nil && len(r.List) > 0
}
