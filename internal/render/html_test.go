package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesStandalonePage(t *testing.T) {
	r := NewHTMLRenderer()
	score := 67.0

	out, err := r.Render("# Your Plan\n\n- item one\n- item two\n\n| a | b |\n|---|---|\n| 1 | 2 |", Meta{
		Goal:       "learn Go",
		Experience: "python developer",
		Score:      &score,
	})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "<h1>learn Go</h1>")
	assert.Contains(t, html, "python developer")
	assert.Contains(t, html, "Placement score: 67%")
	// GFM tables render.
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<li>item one</li>")
}

func TestRenderEscapesMetaFields(t *testing.T) {
	r := NewHTMLRenderer()

	out, err := r.Render("body", Meta{Goal: `<script>alert("x")</script>`, Experience: "a & b"})
	require.NoError(t, err)

	html := string(out)
	assert.NotContains(t, html, "<script>alert")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "a &amp; b")
}

func TestRenderWithoutScoreOmitsScoreLine(t *testing.T) {
	r := NewHTMLRenderer()

	out, err := r.Render("body", Meta{Goal: "g", Experience: "e"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Placement score")
}
