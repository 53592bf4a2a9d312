// Package preview renders fetched dataset documents to HTML for the viewer pane.
package preview

import (
	"bytes"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Result contains the rendered document
type Result struct {
	HTML  string `json:"html"`
	Title string `json:"title"`
}

// Renderer converts dataset text to HTML with goldmark
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer with GFM extensions and syntax highlighting.
// Plot summaries in the corpus are wiki-flavored text that benefits from
// markdown rendering; screenplay text passes through as hard-wrapped lines.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle("monokai"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &Renderer{md: md}
}

// Render converts document text to HTML and derives a display title from the
// first non-empty line.
func (r *Renderer) Render(source string) (*Result, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return nil, err
	}

	return &Result{
		HTML:  buf.String(),
		Title: deriveTitle(source),
	}, nil
}

// deriveTitle takes the first non-empty line, stripped of heading markers.
func deriveTitle(source string) string {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return line
		}
	}
	return ""
}
