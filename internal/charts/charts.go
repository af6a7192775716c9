// Package charts renders analysis results as interactive HTML charts.
package charts

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/edhtools/manatuner/internal/analytics"
	"github.com/edhtools/manatuner/internal/oracle"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	Smooth     bool     // Smooth line (for line charts)
	Colors     []string // Custom colors
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Smooth:     true,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string
	Value float64
}

// SeriesData represents a data series for multi-series charts.
type SeriesData struct {
	Name   string
	Points []DataPoint
}

// RenderManaStability writes a per-turn line chart for a single simulation
// result: castable-on-curve, mana screw, and mana flood rates, plus the
// running product of on-curve turns.
func RenderManaStability(result *oracle.Result, config ChartConfig, outputPath string) error {
	turns := result.Turns()
	if turns == 0 {
		return fmt.Errorf("result has no turns to chart")
	}

	labels := make([]string, turns)
	for i := range labels {
		labels[i] = "T" + strconv.Itoa(i+1)
	}

	series := []SeriesData{
		{Name: "On curve", Points: pointsFor(labels, result.OK)},
		{Name: "Mana screw", Points: pointsFor(labels, result.Screw)},
		{Name: "Mana flood", Points: pointsFor(labels, result.Flood)},
		{Name: "On curve every turn", Points: pointsFor(labels, cumulativeProduct(result.OK))},
	}

	return RenderMultiLineChart(series, config, outputPath)
}

// RenderMulliganChart writes a bar chart of the mulligan stop distribution:
// the probability of keeping at each hand size, best hand size first.
func RenderMulliganChart(distribution map[string]float64, config ChartConfig, outputPath string) error {
	keys := make([]string, 0, len(distribution))
	for k := range distribution {
		keys = append(keys, k)
	}
	// stop_7 before stop_6 before stop_5 before stop_4.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	data := make([]DataPoint, 0, len(keys))
	for _, k := range keys {
		data = append(data, DataPoint{Label: k, Value: distribution[k]})
	}
	return RenderBarChart(data, config, outputPath)
}

// RenderFreeMulliganChart writes a bar chart comparing the odds of an
// ideal-land opening hand with and without one free mulligan.
func RenderFreeMulliganChart(analysis map[string]float64, config ChartConfig, outputPath string) error {
	data := []DataPoint{
		{Label: "no_mulligan", Value: analysis["no_mulligan"]},
		{Label: "with_free_mulligan", Value: analysis["with_free_mulligan"]},
	}
	return RenderBarChart(data, config, outputPath)
}

// RenderOpeningHandChart writes a bar chart of opening-hand land-count
// probabilities, 0 lands through handSize lands.
func RenderOpeningHandChart(probs []float64, config ChartConfig, outputPath string) error {
	data := make([]DataPoint, 0, len(probs))
	for lands, p := range probs {
		data = append(data, DataPoint{Label: strconv.Itoa(lands) + " lands", Value: p})
	}
	return RenderBarChart(data, config, outputPath)
}

// OpeningHandPoints evaluates the opening-hand land distribution for a deck
// of the given size and land count.
func OpeningHandPoints(deckSize, landCount, handSize int) []float64 {
	probs := make([]float64, handSize+1)
	for lands := 0; lands <= handSize; lands++ {
		probs[lands] = analytics.Hypergeometric(deckSize, landCount, handSize, lands)
	}
	return probs
}

// RenderBarChart creates an interactive bar chart HTML file.
func RenderBarChart(data []DataPoint, config ChartConfig, outputPath string) error {
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
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithColorsOpts(opts.Colors{
			config.Colors[0],
		}),
	)

	xLabels := make([]string, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
	}

	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries("Probability", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// RenderMultiLineChart creates a multi-series line chart HTML file.
func RenderMultiLineChart(series []SeriesData, config ChartConfig, outputPath string) error {
	line := charts.NewLine()

	line.SetGlobalOptions(
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
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
	)

	if len(series) == 0 {
		return fmt.Errorf("no data series provided")
	}

	// Use first series for X-axis labels
	xLabels := make([]string, len(series[0].Points))
	for i, point := range series[0].Points {
		xLabels[i] = point.Label
	}

	line.SetXAxis(xLabels)

	for i, s := range series {
		yData := make([]opts.LineData, len(s.Points))
		for j, point := range s.Points {
			yData[j] = opts.LineData{Value: point.Value}
		}

		color := config.Colors[i%len(config.Colors)]
		line.AddSeries(s.Name, yData).
			SetSeriesOptions(
				charts.WithLineChartOpts(opts.LineChart{
					Smooth: opts.Bool(config.Smooth),
				}),
				charts.WithLabelOpts(opts.Label{
					Show: opts.Bool(false),
				}),
				charts.WithItemStyleOpts(opts.ItemStyle{
					Color: color,
				}),
			)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	cmd, err := browserCommand(runtime.GOOS, absPath)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// browserCommand builds the platform-specific opener invocation.
func browserCommand(goos, absPath string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", absPath), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", absPath), nil
	case "linux":
		return exec.Command("xdg-open", absPath), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

func pointsFor(labels []string, values []float64) []DataPoint {
	points := make([]DataPoint, 0, len(labels))
	for i, label := range labels {
		v := 0.0
		if i < len(values) {
			v = values[i]
		}
		points = append(points, DataPoint{Label: label, Value: v})
	}
	return points
}

// cumulativeProduct turns per-turn on-curve rates into the chance of
// staying on curve through each turn.
func cumulativeProduct(values []float64) []float64 {
	out := make([]float64, len(values))
	running := 1.0
	for i, v := range values {
		running *= v
		out[i] = running
	}
	return out
}
