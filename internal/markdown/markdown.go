// Package markdown turns the document buffer into what the user sees.
package markdown

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"mdpad/internal/state"
)

// Renderer converts markdown into styled terminal text.
type Renderer interface {
	Render(text string) (string, error)
}

// View is the projected representation of the buffer.
type View struct {
	Text   string
	Styled bool // false when the raw buffer is shown
}

// Project maps mode and buffer to a View. Viewing tries the renderer and
// falls back to the identical buffer if it fails or panics; Editing always
// shows the raw buffer.
func Project(mode state.ViewMode, text string, r Renderer) View {
	if mode == state.Editing || r == nil {
		return View{Text: text}
	}
	out, err := safeRender(r, text)
	if err != nil {
		return View{Text: text}
	}
	return View{Text: out, Styled: true}
}

func safeRender(r Renderer, text string) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = "", fmt.Errorf("render panic: %v", p)
		}
	}()
	return r.Render(text)
}

// Plain is a Renderer that returns its input unchanged.
type Plain struct{}

func (Plain) Render(text string) (string, error) { return text, nil }

// Glamour renders with charmbracelet/glamour. The underlying renderer is
// rebuilt lazily whenever the wrap width or style changes.
type Glamour struct {
	style string
	width int
	r     *glamour.TermRenderer
}

// NewGlamour returns a renderer for style ("auto", "dark", "light", "notty",
// "dracula", "pink", or a JSON style file) wrapping at width (0 = no wrap).
func NewGlamour(style string, width int) *Glamour {
	return &Glamour{style: style, width: width}
}

// SetWidth changes the wrap width.
func (g *Glamour) SetWidth(width int) {
	if width != g.width {
		g.width = width
		g.r = nil
	}
}

func (g *Glamour) Render(text string) (string, error) {
	if g.r == nil {
		r, err := glamour.NewTermRenderer(g.options()...)
		if err != nil {
			return "", err
		}
		g.r = r
	}
	return g.r.Render(text)
}

func (g *Glamour) options() []glamour.TermRendererOption {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(g.width),
	}
	switch strings.ToLower(strings.TrimSpace(g.style)) {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	case "dark", "light", "notty", "dracula", "pink", "ascii":
		opts = append(opts, glamour.WithStandardStyle(strings.ToLower(g.style)))
	default:
		// A JSON style file; anything else falls back to auto.
		if _, err := os.Stat(g.style); err == nil {
			opts = append(opts, glamour.WithStylesFromJSONFile(g.style))
		} else {
			opts = append(opts, glamour.WithAutoStyle())
		}
	}
	return opts
}
