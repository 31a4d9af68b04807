// Package plot renders a trial's metric history as an HTML page of
// interactive line charts, one chart per numeric metric.
package plot

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/trialscope/trialscope/pkg/flatten"
	"github.com/trialscope/trialscope/pkg/trial"
)

// DefaultHeightPx is the chart height used when Options leaves it unset.
const DefaultHeightPx = 500

// echartsJS is the script the embedded chart fragments expect on the page.
const echartsJS = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

// ErrNoSeries reports a history with nothing to plot.
var ErrNoSeries = errors.New("no numeric metric series to plot")

// Options controls page construction. The zero value plots every numeric
// metric on a dark page with default-height charts.
type Options struct {
	// Title is the page heading. Empty means the trial path.
	Title string

	// Theme selects the color scheme. Empty means dark.
	Theme Theme

	// HeightPx is the per-chart height. Zero means DefaultHeightPx.
	HeightPx int

	// Metrics restricts the page to the named metrics, in the given
	// order. Empty means every numeric column outside the config
	// section.
	Metrics []string
}

// Page is a renderable collection of per-metric charts.
type Page struct {
	title    string
	subtitle string
	theme    themeConfig
	sections []section
}

type section struct {
	Title string
	Chart template.HTML
}

// NewPage builds the chart page for a restored trial. Metrics are plotted
// against 1-based iteration indexes; rows missing a metric leave a gap.
func NewPage(res *trial.Result, o Options) (*Page, error) {
	keys, err := selectSeries(res.History, o.Metrics)
	if err != nil {
		return nil, err
	}

	theme := themeFor(o.Theme)
	co := chartOpts{theme: theme}

	heightPx := o.HeightPx
	if heightPx <= 0 {
		heightPx = DefaultHeightPx
	}

	title := o.Title
	if title == "" {
		title = res.Path
	}

	page := &Page{
		title:    title,
		subtitle: describeSeries(len(keys), len(res.History)),
		theme:    theme,
	}

	for i, key := range keys {
		color := theme.Series[i%len(theme.Series)]

		fragment, fragErr := chartFragment(metricLine(res.History, key, color, co, heightPx))
		if fragErr != nil {
			return nil, fmt.Errorf("chart %s: %w", key, fragErr)
		}

		page.sections = append(page.sections, section{Title: key, Chart: fragment})
	}

	return page, nil
}

// selectSeries resolves the metric keys to plot. An explicit request must
// name metrics that carry at least one numeric value somewhere in the
// history.
func selectSeries(history trial.History, requested []string) ([]string, error) {
	numeric := numericColumns(history)

	if len(requested) == 0 {
		if len(numeric) == 0 {
			return nil, ErrNoSeries
		}

		return numeric, nil
	}

	available := make(map[string]bool, len(numeric))
	for _, key := range numeric {
		available[key] = true
	}

	for _, key := range requested {
		if !available[key] {
			return nil, fmt.Errorf("%w: %q is not a numeric metric (numeric metrics: %s)",
				trial.ErrUnknownMetric, key, strings.Join(numeric, ", "))
		}
	}

	return requested, nil
}

// numericColumns returns history columns holding at least one numeric
// value, in first-appearance order, skipping the config section.
func numericColumns(history trial.History) []string {
	var cols []string

	for _, key := range history.Columns() {
		if strings.HasPrefix(key, trial.ConfigPrefix+flatten.Separator) {
			continue
		}

		if columnNumeric(history, key) {
			cols = append(cols, key)
		}
	}

	return cols
}

func columnNumeric(history trial.History, key string) bool {
	for _, snap := range history {
		v, ok := snap.Lookup(key)
		if !ok {
			continue
		}

		if _, isNum := v.Number(); isNum {
			return true
		}
	}

	return false
}

func describeSeries(series, rows int) string {
	return strconv.Itoa(series) + " numeric series over " +
		strconv.Itoa(rows) + " reported iterations"
}

// Render writes the page as a standalone HTML document.
func (p *Page) Render(w io.Writer) error {
	data := pageData{
		Title:     p.title,
		Subtitle:  p.subtitle,
		Theme:     p.theme,
		EchartsJS: echartsJS,
		Sections:  p.sections,
	}

	err := pageTemplate.Execute(w, data)
	if err != nil {
		return fmt.Errorf("render plot page: %w", err)
	}

	return nil
}

type pageData struct {
	Title     string
	Subtitle  string
	Theme     themeConfig
	EchartsJS string
	Sections  []section
}

var pageTemplate = template.Must(template.New("plotpage").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script src="{{.EchartsJS}}"></script>
<style>
  body { margin: 0; font-family: system-ui, -apple-system, sans-serif; background: {{.Theme.Background}}; color: {{.Theme.Text}}; }
  header { padding: 24px 32px 8px; }
  header h1 { margin: 0 0 4px; font-size: 1.4rem; font-family: ui-monospace, monospace; }
  header p { margin: 0; color: {{.Theme.TextMuted}}; font-size: 0.9rem; }
  main { padding: 16px 32px 32px; }
  section.chart { background: {{.Theme.Surface}}; border: 1px solid {{.Theme.Border}}; border-radius: 8px; padding: 16px; margin-bottom: 24px; }
  section.chart h2 { margin: 0 0 8px; font-size: 1.05rem; font-family: ui-monospace, monospace; }
  .chart-box .item { margin: 0 auto; }
</style>
</head>
<body>
<header>
<h1>{{.Title}}</h1>
<p>{{.Subtitle}}</p>
</header>
<main>
{{- range .Sections}}
<section class="chart">
<h2>{{.Title}}</h2>
{{.Chart}}
</section>
{{- end}}
</main>
</body>
</html>
`))
