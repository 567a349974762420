package card

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/sakif/ghlookup/internal/apperror"
)

// TextRenderer draws cards for a terminal.
type TextRenderer struct {
	box   lipgloss.Style
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	err   lipgloss.Style
}

// NewTextRenderer binds styles to w. color is "auto" (detect from w),
// "always" (force TrueColor) or "never" (plain text).
//
// COLOR PROFILES:
// A lipgloss.Renderer decides how much color to emit by inspecting its
// writer through termenv: a pipe or file gets no escape codes, a terminal
// gets what it supports. "always" and "never" override that detection,
// which is what --color exposes and what tests rely on for stable output.
func NewTextRenderer(w io.Writer, color string) (*TextRenderer, error) {
	r := lipgloss.NewRenderer(w)
	switch color {
	case "", "auto":
	case "always":
		// lipgloss v1 detects TrueColor but does not always apply it.
		r.SetColorProfile(termenv.TrueColor)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		return nil, apperror.ValidationFailed("color", fmt.Sprintf("color must be auto, always or never, got %q", color))
	}

	return &TextRenderer{
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 1),
		title: r.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		label: r.NewStyle().Foreground(lipgloss.Color("245")),
		value: r.NewStyle().Foreground(lipgloss.Color("15")),
		err:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}, nil
}

// Render writes c as a bordered box.
func (t *TextRenderer) Render(w io.Writer, c Card) error {
	var b strings.Builder
	b.WriteString(t.title.Render(c.Title()))
	for _, line := range c.Lines() {
		b.WriteString("\n")
		b.WriteString(t.label.Render(line.Label + ":"))
		b.WriteString(" ")
		b.WriteString(t.value.Render(line.Value))
	}
	_, err := fmt.Fprintln(w, t.box.Render(b.String()))
	return err
}

// RenderError writes msg in the error style.
func (t *TextRenderer) RenderError(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, t.err.Render(msg))
	return err
}
