// Package services provides rendering helpers shared by the UI views.
package services

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown into styled terminal output at a
// given wrap width.
type MarkdownRenderer interface {
	Render(content string, width int) (string, error)
}

// GlamourRenderer implements MarkdownRenderer with glamour. Renderers
// are cached per width since glamour fixes word wrap at construction.
type GlamourRenderer struct {
	style string
	cache map[int]*glamour.TermRenderer
}

// NewGlamourRenderer creates a renderer using the named glamour style
// ("auto" picks light or dark based on the terminal background).
func NewGlamourRenderer(style string) *GlamourRenderer {
	return &GlamourRenderer{
		style: style,
		cache: make(map[int]*glamour.TermRenderer),
	}
}

func (r *GlamourRenderer) Render(content string, width int) (string, error) {
	if width < 1 {
		width = 80
	}

	tr, ok := r.cache[width]
	if !ok {
		var err error
		opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
		if r.style == "auto" || r.style == "" {
			opts = append(opts, glamour.WithAutoStyle())
		} else {
			opts = append(opts, glamour.WithStandardStyle(r.style))
		}
		tr, err = glamour.NewTermRenderer(opts...)
		if err != nil {
			return "", err
		}
		r.cache[width] = tr
	}

	return tr.Render(content)
}

// RenderMarkdown renders content through the given renderer, falling
// back to the raw text on error.
func RenderMarkdown(content string, width int, renderer MarkdownRenderer) string {
	if renderer == nil {
		return content
	}
	rendered, err := renderer.Render(content, width)
	if err != nil {
		return content
	}
	return rendered
}
