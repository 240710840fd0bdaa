package pressure

import (
	"context"
	"fmt"
	"math"
	"strings"

	"kiatsu-notification/config"
	"kiatsu-notification/models"
)

// Fixed failure strings returned when a payload has no sample list.
const FIVE_DAY_FETCH_FAILED = "天気予報データの取得に失敗しました。"
const HOURLY_FETCH_FAILED = "時間単位の気圧データを取得できませんでした。"

// MessageBuilder assembles the outbound notification bodies from the
// aggregator, detector and composer outputs. Each message is an ordered
// list of sections; optional sections are dropped, never left blank.
type MessageBuilder struct {
	cityName          string
	pressureThreshold float64
	changeThreshold   float64
	alertThreshold    float64
	composer          *Composer
}

// NewMessageBuilder constructs a MessageBuilder from the immutable config.
func NewMessageBuilder(cfg *config.Config, composer *Composer) *MessageBuilder {
	return &MessageBuilder{
		cityName:          cfg.CityName,
		pressureThreshold: cfg.PressureThreshold,
		changeThreshold:   cfg.PressureChangeThreshold,
		alertThreshold:    cfg.PressureAlertThreshold,
		composer:          composer,
	}
}

// BuildFiveDay composes the 5-day pressure summary message.
func (b *MessageBuilder) BuildFiveDay(ctx context.Context, forecast *models.ForecastResponse) string {
	if !forecast.HasSamples() {
		return FIVE_DAY_FETCH_FAILED
	}
	buckets, err := Aggregate(forecast.List)
	if err != nil {
		return FIVE_DAY_FETCH_FAILED
	}

	var sections []string
	sections = append(sections, fmt.Sprintf("【%sの気圧情報】", b.cityName))

	sections = append(sections, "\n【気圧予報のポイント】")
	if len(buckets) > 1 {
		sections = append(sections, TrendSentence(buckets[1].AvgPressure-buckets[0].AvgPressure, b.changeThreshold))
		if lowDays := b.lowPressureDays(buckets); len(lowDays) > 0 {
			sections = append(sections, fmt.Sprintf("%sは低気圧になる予報です。体調管理に気をつけましょう。", strings.Join(lowDays, ", ")))
		}
	}

	sections = append(sections, fmt.Sprintf("現在の気圧: %.0fhPa", buckets[0].AvgPressure))

	if lowDays := b.lowPressureDays(buckets); len(lowDays) > 0 {
		sections = append(sections, fmt.Sprintf("低気圧の日: %s", strings.Join(lowDays, ", ")))
	}

	if changes := b.notableChanges(buckets); len(changes) > 0 {
		sections = append(sections, fmt.Sprintf("気圧変化: %s", strings.Join(changes, ", ")))
	}

	sections = append(sections, "\n【5日間気圧予報】")
	for _, bucket := range buckets {
		sections = append(sections, fmt.Sprintf("%s: %.0fhPa (%s)", bucket.Label, bucket.AvgPressure, bucket.CommonWeather))
	}

	request := models.AdviceRequest{
		CurrentPressure:  buckets[0].AvgPressure,
		WeatherCondition: buckets[0].CommonWeather,
	}
	if len(buckets) > 1 {
		delta := buckets[1].AvgPressure - buckets[0].AvgPressure
		request.PressureChange24h = &delta
	}
	sections = append(sections, "\n"+b.composer.Compose(ctx, request))

	return strings.Join(sections, "\n")
}

// BuildHourly composes the 24h pressure summary message. baseline is
// yesterday's hourly payload from the snapshot store, nil when absent.
func (b *MessageBuilder) BuildHourly(ctx context.Context, forecast *models.ForecastResponse, baseline *models.ForecastResponse) string {
	if !forecast.HasSamples() {
		return HOURLY_FETCH_FAILED
	}
	entries := forecast.List
	first := entries[0]

	var sections []string
	sections = append(sections, "【24時間気圧予報】")
	sections = append(sections, fmt.Sprintf("%s %.0fhPa", first.Time().Format("01/02 15:04"), first.Main.Pressure))

	if len(entries) >= AlertWindowSamples {
		last := entries[AlertWindowSamples-1]
		sections = append(sections, fmt.Sprintf("%s %.0fhPa", last.Time().Format("01/02 15:04"), last.Main.Pressure))

		change := last.Main.Pressure - first.Main.Pressure
		arrow := "→"
		if change > 0 {
			arrow = "↑"
		} else if change < 0 {
			arrow = "↓"
		}
		sections = append(sections, fmt.Sprintf("\n24時間変化: %s %.1fhPa", arrow, math.Abs(change)))
	}

	if alert := DetectAlert(entries, b.alertThreshold); alert.Triggered {
		sections = append(sections, "\n"+alert.Warning())
	}

	request := models.AdviceRequest{
		CurrentPressure:   first.Main.Pressure,
		PressureChange24h: Delta24h(entries, baseline),
		WeatherCondition:  first.Description(),
	}
	sections = append(sections, "\n"+b.composer.Compose(ctx, request))

	return strings.Join(sections, "\n")
}

// BuildRegional composes the short fan-out message for an extra city.
// The city name comes from the payload itself.
func (b *MessageBuilder) BuildRegional(forecast *models.ForecastResponse) (string, error) {
	if !forecast.HasSamples() {
		return "", ErrEmptyForecast
	}
	current := forecast.List[0]

	var sections []string
	sections = append(sections, fmt.Sprintf("【%sの気圧情報】", forecast.City.Name))
	sections = append(sections, fmt.Sprintf("現在の気圧: %.0fhPa（%s、%.1f℃）",
		current.Main.Pressure, current.Description(), current.Main.Temp))

	if len(forecast.List) >= AlertWindowSamples {
		future := forecast.List[AlertWindowSamples-1]
		change := future.Main.Pressure - current.Main.Pressure

		// Regional arrows use a 1hPa dead band, unlike the 24h message.
		arrow := "→"
		if change > 1 {
			arrow = "↑"
		} else if change < -1 {
			arrow = "↓"
		}

		sections = append(sections, fmt.Sprintf("24時間後の予測: %.0fhPa（%s、%.1f℃）",
			future.Main.Pressure, future.Description(), future.Main.Temp))
		sections = append(sections, fmt.Sprintf("変化: %s %.1fhPa", arrow, change))

		if math.Abs(change) >= b.changeThreshold {
			sections = append(sections, fmt.Sprintf("\n⚠️ 24時間以内に%.1fhPaの気圧変化が予測されています。体調の変化に注意してください。", math.Abs(change)))
		}
	}

	return strings.Join(sections, "\n"), nil
}

// Delta24h computes the 24h pressure delta for the advice request. The
// previous-day snapshot baseline wins when present; otherwise the delta
// falls back to the eighth-vs-first sample within today's series, and nil
// when neither is available.
func Delta24h(entries []models.ForecastEntry, baseline *models.ForecastResponse) *float64 {
	if len(entries) == 0 {
		return nil
	}
	if baseline.HasSamples() {
		delta := entries[0].Main.Pressure - baseline.List[0].Main.Pressure
		return &delta
	}
	if len(entries) >= AlertWindowSamples {
		delta := entries[AlertWindowSamples-1].Main.Pressure - entries[0].Main.Pressure
		return &delta
	}
	return nil
}

func (b *MessageBuilder) lowPressureDays(buckets []DayBucket) []string {
	var days []string
	for _, bucket := range buckets {
		if bucket.AvgPressure < b.pressureThreshold {
			days = append(days, bucket.Label)
		}
	}
	return days
}

func (b *MessageBuilder) notableChanges(buckets []DayBucket) []string {
	var changes []string
	for _, trend := range DailyTrends(buckets, b.changeThreshold) {
		if math.Abs(trend.Delta) >= b.changeThreshold {
			direction := "上昇"
			if trend.Delta < 0 {
				direction = "下降"
			}
			changes = append(changes, fmt.Sprintf("%sに%.1fhPa%s", trend.ToLabel, math.Abs(trend.Delta), direction))
		}
	}
	return changes
}
