// package ui implements the operator-facing console: lipgloss styling,
// line-oriented prompts, and a bubbletea browser for playlist listings.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette is a small stylesheet of named [lipgloss.Style] values. A disabled
// palette renders plain text, used when stdout is not a terminal.
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	accent lipgloss.Style
	dim    lipgloss.Style
}

// NewPalette builds the default stylesheet. With enabled false every style is
// a no-op.
func NewPalette(enabled bool) *Palette {
	if !enabled {
		plain := lipgloss.NewStyle()
		return &Palette{title: plain, ok: plain, err: plain, warn: plain, accent: plain, dim: plain}
	}
	return &Palette{
		title:  newBold("#36C5F0"),
		ok:     newBold("#04B575"),
		err:    newBold("#FF5555"),
		warn:   newStyle("#FFA500"),
		accent: newStyle("#36C5F0"),
		dim:    newStyle("#626262"),
	}
}

// TermPalette builds a palette that is enabled only when stdout is a terminal.
func TermPalette() *Palette {
	return NewPalette(isatty.IsTerminal(os.Stdout.Fd()))
}

func newStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func newBold(fg string) lipgloss.Style {
	return newStyle(fg).Bold(true)
}

func (p *Palette) Title(s string) string  { return p.title.Render(s) }
func (p *Palette) OK(s string) string     { return p.ok.Render(s) }
func (p *Palette) Err(s string) string    { return p.err.Render(s) }
func (p *Palette) Warn(s string) string   { return p.warn.Render(s) }
func (p *Palette) Accent(s string) string { return p.accent.Render(s) }
func (p *Palette) Dim(s string) string    { return p.dim.Render(s) }
