package pressure

import (
	"fmt"
	"math"
	"time"

	"kiatsu-notification/models"
)

// TrendBand classifies a day-to-day average pressure delta.
type TrendBand int

const (
	TrendStable TrendBand = iota
	TrendMildRise
	TrendSharpRise
	TrendMildFall
	TrendSharpFall
)

// ClassifyTrend maps a delta onto its narrative band. The threshold is
// exclusive on the rise/fall side: exactly +threshold is still a mild rise.
func ClassifyTrend(delta, changeThreshold float64) TrendBand {
	switch {
	case delta > changeThreshold:
		return TrendSharpRise
	case delta > 0:
		return TrendMildRise
	case delta < -changeThreshold:
		return TrendSharpFall
	case delta < 0:
		return TrendMildFall
	default:
		return TrendStable
	}
}

// TrendSentence renders the Japanese narrative for a day-to-day delta.
func TrendSentence(delta, changeThreshold float64) string {
	abs := math.Abs(delta)
	switch ClassifyTrend(delta, changeThreshold) {
	case TrendSharpRise:
		return fmt.Sprintf("明日は気圧が%.1fhPa上昇する予報です。頭痛や関節痛が出やすくなるかもしれません。水分をしっかり取って、無理をしないようにしましょう。", abs)
	case TrendMildRise:
		return fmt.Sprintf("明日は気圧が%.1fhPa上昇する予報です。体調の変化に注意して、十分な休息を取るようにしましょう。", abs)
	case TrendSharpFall:
		return fmt.Sprintf("明日は気圧が%.1fhPa下降する予報です。自律神経に影響が出やすいので、ゆっくり休息を取り、温かい飲み物を摂るといいでしょう。", abs)
	case TrendMildFall:
		return fmt.Sprintf("明日は気圧が%.1fhPa下降する予報です。疲れやすく感じるかもしれないので、無理せず過ごしましょう。", abs)
	default:
		return "明日も気圧は安定しています。快適に過ごせる一日になりそうです。"
	}
}

// DailyTrend is the delta between two chronologically adjacent day buckets.
type DailyTrend struct {
	FromLabel string
	ToLabel   string
	Delta     float64
	Band      TrendBand
}

// DailyTrends computes the adjacent-day deltas over the ordered buckets.
func DailyTrends(buckets []DayBucket, changeThreshold float64) []DailyTrend {
	var trends []DailyTrend
	for i := 1; i < len(buckets); i++ {
		delta := buckets[i].AvgPressure - buckets[i-1].AvgPressure
		trends = append(trends, DailyTrend{
			FromLabel: buckets[i-1].Label,
			ToLabel:   buckets[i].Label,
			Delta:     delta,
			Band:      ClassifyTrend(delta, changeThreshold),
		})
	}
	return trends
}

// AlertWindowSamples is the number of leading 3-hour samples covering 24h.
const AlertWindowSamples = 8

// AlertEvent is the result of scanning the 24h window for the largest
// consecutive-sample pressure jump.
type AlertEvent struct {
	MaxDelta  float64
	At        time.Time
	Triggered bool
}

// DetectAlert walks consecutive pairs in the leading 24h window and keeps
// the single largest absolute jump. Fewer than AlertWindowSamples samples
// disables alerting entirely.
func DetectAlert(entries []models.ForecastEntry, alertThreshold float64) AlertEvent {
	if len(entries) < AlertWindowSamples {
		return AlertEvent{}
	}

	window := entries[:AlertWindowSamples]
	event := AlertEvent{}
	previous := window[0].Main.Pressure

	for i := 1; i < len(window); i++ {
		current := window[i].Main.Pressure
		if delta := math.Abs(current - previous); delta > event.MaxDelta {
			event.MaxDelta = delta
			event.At = window[i].Time()
		}
		previous = current
	}

	event.Triggered = event.MaxDelta >= alertThreshold
	return event
}

// Warning renders the rapid-change alert block.
func (e AlertEvent) Warning() string {
	return fmt.Sprintf("⚠️ 気圧変化アラート ⚠️\n%s頃に%.1fhPaの急激な気圧変化が予測されています。体調の変化に注意してください。",
		e.At.In(models.JST).Format("01/02 15:04"), e.MaxDelta)
}
