package util

import (
	"fmt"
	"os"

	"kiatsu-notification/pressure"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// PlotPressureTrend renders the per-day average/min/max pressure as an
// HTML line chart.
func PlotPressureTrend(buckets []pressure.DayBucket, path string) error {
	labels := make([]string, 0, len(buckets))
	avg := make([]opts.LineData, 0, len(buckets))
	min := make([]opts.LineData, 0, len(buckets))
	max := make([]opts.LineData, 0, len(buckets))

	for _, bucket := range buckets {
		labels = append(labels, bucket.Label)
		avg = append(avg, opts.LineData{Value: bucket.AvgPressure})
		min = append(min, opts.LineData{Value: bucket.MinPressure})
		max = append(max, opts.LineData{Value: bucket.MaxPressure})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Pressure Trend",
			Width:     "800px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "5日間気圧予報",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "hPa",
		}),
	)

	line.SetXAxis(labels).
		AddSeries("平均気圧", avg).
		AddSeries("最低気圧", min).
		AddSeries("最高気圧", max)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file %s: %w", path, err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
