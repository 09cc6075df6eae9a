package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Meta carries the document header fields the renderer displays above the
// plan body.
type Meta struct {
	Goal       string
	Experience string
	Score      *float64 // percent, nil when unknown
}

// Renderer turns a markdown study plan into a deliverable artifact.
// Failure of a Renderer must never be treated as failure of plan synthesis.
type Renderer interface {
	Render(markdown string, meta Meta) ([]byte, error)
}

// HTMLRenderer renders the plan to a standalone HTML page.
type HTMLRenderer struct {
	md goldmark.Markdown
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

func (r *HTMLRenderer) Render(markdown string, meta Meta) ([]byte, error) {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	score := ""
	if meta.Score != nil {
		score = fmt.Sprintf("<p class=\"score\">Placement score: %.0f%%</p>", *meta.Score)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, pageTemplate,
		html.EscapeString(meta.Goal),
		html.EscapeString(meta.Goal),
		html.EscapeString(meta.Experience),
		score,
		body.String(),
	)
	return out.Bytes(), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Study Plan — %s</title>
<style>
body { font-family: Georgia, serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; }
h1, h2, h3 { font-family: Helvetica, Arial, sans-serif; }
.header { border-bottom: 2px solid #333; margin-bottom: 2rem; padding-bottom: 1rem; }
.score { font-weight: bold; }
</style>
</head>
<body>
<div class="header">
<h1>%s</h1>
<p>Starting point: %s</p>
%s
</div>
%s
</body>
</html>
`
