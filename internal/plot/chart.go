package plot

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/trialscope/trialscope/pkg/trial"
)

const (
	lineWidth          = 2
	dataZoomEndPercent = 100

	// gapValue marks rows where a metric was not reported, so the line
	// breaks instead of interpolating across missing iterations.
	gapValue = "-"
)

// chartOpts derives themed echarts options.
type chartOpts struct {
	theme themeConfig
}

func (c chartOpts) Init(width, height string) opts.Initialization {
	return opts.Initialization{
		Width:           width,
		Height:          height,
		BackgroundColor: "transparent",
	}
}

func (c chartOpts) Tooltip() opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}
}

func (c chartOpts) DataZoom() []opts.DataZoom {
	return []opts.DataZoom{
		{Type: "slider", Start: 0, End: dataZoomEndPercent},
		{Type: "inside"},
	}
}

func (c chartOpts) XAxis(name string) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: c.theme.TextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
	}
}

func (c chartOpts) YAxis() opts.YAxis {
	return opts.YAxis{
		AxisLabel: &opts.AxisLabel{Color: c.theme.TextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: c.theme.ChartGrid},
		},
	}
}

func (c chartOpts) Grid() opts.Grid {
	return opts.Grid{
		Top:          "40",
		Bottom:       "15%",
		Left:         "5%",
		Right:        "5%",
		ContainLabel: opts.Bool(true),
	}
}

// metricLine builds one line chart for a single metric across the history.
// Rows that do not report the metric, or report it as a non-number, become
// gaps in the series.
func metricLine(history trial.History, key string, color string, co chartOpts, heightPx int) *charts.Line {
	labels := make([]string, len(history))
	points := make([]opts.LineData, len(history))

	for i, snap := range history {
		labels[i] = strconv.Itoa(i + 1)
		points[i] = opts.LineData{Value: gapValue}

		v, ok := snap.Lookup(key)
		if !ok {
			continue
		}

		if num, isNum := v.Number(); isNum {
			points[i] = opts.LineData{Value: num}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init("100%", strconv.Itoa(heightPx)+"px")),
		charts.WithTooltipOpts(co.Tooltip()),
		charts.WithDataZoomOpts(co.DataZoom()...),
		charts.WithXAxisOpts(co.XAxis("iteration")),
		charts.WithYAxisOpts(co.YAxis()),
		charts.WithGridOpts(co.Grid()),
	)
	line.SetXAxis(labels)
	line.AddSeries(key, points,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)

	return line
}

// chartFragment renders a chart and strips the full-page wrapping echarts
// emits, leaving the chart container and its init script for embedding.
func chartFragment(chart *charts.Line) (template.HTML, error) {
	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}

	return template.HTML(extractFragment(buf.String())), nil
}

func extractFragment(page string) string {
	start := strings.Index(page, `<div class="container">`)
	if start == -1 {
		return page
	}

	end := strings.Index(page, `</body>`)
	if end == -1 {
		return page
	}

	fragment := page[start:end]
	fragment = strings.ReplaceAll(fragment, `class="container"`, `class="chart-box"`)

	return stripStyleTags(fragment)
}

func stripStyleTags(fragment string) string {
	for {
		open := strings.Index(fragment, "<style>")
		if open == -1 {
			return fragment
		}

		rest := strings.Index(fragment[open:], "</style>")
		if rest == -1 {
			return fragment
		}

		fragment = fragment[:open] + fragment[open+rest+len("</style>"):]
	}
}
