// Package pressure holds the trend-analysis and notification-composition
// core: daily aggregation, trend banding, rapid-change alerting, health
// advice and message assembly.
package pressure

import (
	"errors"
	"fmt"
	"time"

	"kiatsu-notification/models"
)

var ErrEmptyForecast = errors.New("forecast has no samples")
var ErrMissingWeather = errors.New("forecast sample has no weather description")

// weekdayKanji is indexed by time.Weekday (Sunday = 0).
var weekdayKanji = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// DayLabel formats a date as 「月/日(曜日)」 in JST.
func DayLabel(date time.Time) string {
	d := date.In(models.JST)
	return fmt.Sprintf("%d/%d(%s)", int(d.Month()), d.Day(), weekdayKanji[d.Weekday()])
}

// DayBucket aggregates all samples sharing one JST calendar date.
type DayBucket struct {
	Date      time.Time
	Label     string
	Pressures []float64
	Temps     []float64
	Weather   []string

	AvgPressure float64
	MaxPressure float64
	MinPressure float64
	AvgTemp     float64
	MaxTemp     float64
	MinTemp     float64
	// CommonWeather is the most frequent description; ties go to the
	// description that appeared first.
	CommonWeather string
}

// Aggregate groups 3-hour forecast samples into per-day buckets ordered by
// first occurrence. Every sample must carry at least one weather
// description.
func Aggregate(entries []models.ForecastEntry) ([]DayBucket, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyForecast
	}

	index := make(map[string]int)
	var buckets []DayBucket

	for _, entry := range entries {
		description := entry.Description()
		if description == "" {
			return nil, ErrMissingWeather
		}

		ts := entry.Time()
		dateKey := ts.Format("2006-01-02")
		i, seen := index[dateKey]
		if !seen {
			date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, models.JST)
			buckets = append(buckets, DayBucket{
				Date:  date,
				Label: DayLabel(date),
			})
			i = len(buckets) - 1
			index[dateKey] = i
		}

		buckets[i].Pressures = append(buckets[i].Pressures, entry.Main.Pressure)
		buckets[i].Temps = append(buckets[i].Temps, entry.Main.Temp)
		buckets[i].Weather = append(buckets[i].Weather, description)
	}

	for i := range buckets {
		b := &buckets[i]
		b.AvgPressure, b.MinPressure, b.MaxPressure = stats(b.Pressures)
		b.AvgTemp, b.MinTemp, b.MaxTemp = stats(b.Temps)
		b.CommonWeather = mostCommonString(b.Weather)
	}

	return buckets, nil
}

func stats(values []float64) (avg, min, max float64) {
	min, max = values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return sum / float64(len(values)), min, max
}

// mostCommonString returns the mode of the slice; on ties the value whose
// first occurrence comes earliest wins.
func mostCommonString(values []string) string {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	best := order[0]
	for _, v := range order {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}
