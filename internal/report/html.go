package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdownInstance is initialized once and reused. The converter
// configuration never changes and goldmark is safe to share; per-call
// state lives in the conversion itself.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})

	return markdownInstance
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; color: #1c1917; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #d6d3d1; padding: 0.3rem 0.7rem; text-align: left; }
th { background: #f5f5f4; }
code { background: #f5f5f4; padding: 0.1rem 0.3rem; border-radius: 3px; }
pre { background: #f5f5f4; padding: 0.7rem; overflow-x: auto; }
pre code { padding: 0; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

type pageData struct {
	Title string
	Body  template.HTML
}

// HTML converts a markdown report into a standalone HTML page.
func HTML(title, markdownSrc string) (string, error) {
	var body bytes.Buffer

	err := getMarkdown().Convert([]byte(markdownSrc), &body)
	if err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	var page bytes.Buffer

	err = pageTemplate.Execute(&page, pageData{
		Title: title,
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}

	return page.String(), nil
}
