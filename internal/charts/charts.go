// Package charts renders deck distributions as interactive HTML charts.
package charts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/arcanum-labs/deckforge/internal/analytics"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title    string // Chart title
	Subtitle string // Chart subtitle
	Width    string // Chart width (e.g., "900px")
	Height   string // Chart height (e.g., "500px")
	Theme    string // Chart theme
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
	}
}

// RenderCostCurve writes the cost distribution as a bar chart HTML file.
// Buckets are ordered numerically with the overflow bucket last.
func RenderCostCurve(dist analytics.Distribution, config ChartConfig, outputPath string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)

	labels := costOrderedLabels(dist)
	data := make([]opts.BarData, 0, len(labels))
	for _, label := range labels {
		data = append(data, opts.BarData{Value: dist[label].Count})
	}

	bar.SetXAxis(labels).AddSeries("Copies", data)
	return renderToFile(bar, outputPath)
}

// RenderDistributionPie writes a categorical distribution as a pie chart
// HTML file. Slices are ordered by count descending for a stable layout.
func RenderDistributionPie(dist analytics.Distribution, config ChartConfig, outputPath string) error {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)

	labels := make([]string, 0, len(dist))
	for label := range dist {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if dist[labels[i]].Count != dist[labels[j]].Count {
			return dist[labels[i]].Count > dist[labels[j]].Count
		}
		return labels[i] < labels[j]
	})

	data := make([]opts.PieData, 0, len(labels))
	for _, label := range labels {
		data = append(data, opts.PieData{Name: label, Value: dist[label].Count})
	}

	pie.AddSeries("Cards", data)
	return renderToFile(pie, outputPath)
}

type renderable interface {
	Render(w io.Writer) error
}

func renderToFile(chart renderable, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// costOrderedLabels sorts bucket labels numerically, with non-numeric
// buckets ("8+", "Unknown") after the numbered ones.
func costOrderedLabels(dist analytics.Distribution) []string {
	numeric := make([]string, 0, len(dist))
	tail := make([]string, 0)
	for label := range dist {
		if _, err := strconv.Atoi(label); err == nil {
			numeric = append(numeric, label)
		} else {
			tail = append(tail, label)
		}
	}
	sort.Slice(numeric, func(i, j int) bool {
		a, _ := strconv.Atoi(numeric[i])
		b, _ := strconv.Atoi(numeric[j])
		return a < b
	})
	sort.Strings(tail)
	return append(numeric, tail...)
}
