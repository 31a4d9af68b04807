package plot

// Theme selects the color scheme for rendered pages and charts.
type Theme string

// Supported themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// themeConfig holds the colors a theme paints the page and charts with.
type themeConfig struct {
	Background string
	Surface    string
	Border     string
	Text       string
	TextMuted  string
	ChartGrid  string
	ChartAxis  string

	// Series colors, cycled across charts.
	Series []string
}

func themeFor(theme Theme) themeConfig {
	if theme == ThemeLight {
		return lightTheme
	}

	return darkTheme
}

var darkTheme = themeConfig{
	Background: "#0c0a09",
	Surface:    "#1c1917",
	Border:     "#44403c",
	Text:       "#d6d3d1",
	TextMuted:  "#a8a29e",
	ChartGrid:  "#44403c",
	ChartAxis:  "#57534e",
	Series: []string{
		"#fbbf24", // amber.
		"#38bdf8", // sky.
		"#a3e635", // lime.
		"#a78bfa", // violet.
		"#f472b6", // pink.
		"#22d3ee", // cyan.
		"#fb923c", // orange.
		"#4ade80", // green.
	},
}

var lightTheme = themeConfig{
	Background: "#fafaf9",
	Surface:    "#ffffff",
	Border:     "#e7e5e4",
	Text:       "#44403c",
	TextMuted:  "#78716c",
	ChartGrid:  "#e7e5e4",
	ChartAxis:  "#a8a29e",
	Series: []string{
		"#a16207", // amber.
		"#0369a1", // sky.
		"#4d7c0f", // lime.
		"#7c3aed", // violet.
		"#be185d", // pink.
		"#0891b2", // cyan.
		"#c2410c", // orange.
		"#15803d", // green.
	},
}
