package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/theme"
	"github.com/Nitika2334/Rule-Engine-App/pkg/version"
)

const helpText = " F1 Help "

type Style int

const (
	StyleNormal Style = iota
	StyleSuccess
	StyleError
)

// Renderer draws the single-line status bar at the bottom of every view.
type Renderer struct {
	theme   *theme.Theme
	message string
	width   int
	style   Style
}

type Opt func(*Renderer)

func NewRenderer(t *theme.Theme, width int, opts ...Opt) *Renderer {
	r := &Renderer{theme: t, width: width, style: StyleNormal}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithMessage replaces the view's note with a transient message.
func WithMessage(message string, style Style) Opt {
	return func(r *Renderer) {
		r.message = message
		r.style = style
	}
}

// Render draws the bar with note on the left and the rule count on the
// right. A negative count means the rules are not loaded.
func (r *Renderer) Render(note string, count int) string {
	logo := r.theme.LogoStyle.Render(fmt.Sprintf(" rules %s ", version.GetVersion()))
	pos := r.posStyle().Render(" " + countText(count) + " ")
	help := r.theme.HelpStyle.Render(helpText)

	if r.message != "" {
		note = r.message
	}

	note = strings.TrimSpace(strings.ReplaceAll(note, "\n", " "))

	available := max(0, r.width-
		ansi.PrintableRuneWidth(logo)-
		ansi.PrintableRuneWidth(pos)-
		ansi.PrintableRuneWidth(help))

	note = truncate.StringWithTail(" "+note+" ", uint(available), theme.Ellipsis) //nolint:gosec // Uses max.
	note = r.noteStyle().Render(note)

	padding := max(0, available-ansi.PrintableRuneWidth(note))
	fill := r.noteStyle().Render(strings.Repeat(" ", padding))

	return lipgloss.JoinHorizontal(lipgloss.Top, logo, note, fill, pos, help)
}

func (r *Renderer) noteStyle() lipgloss.Style {
	switch r.style {
	case StyleError:
		return r.theme.StatusBarErrorStyle
	case StyleSuccess:
		return r.theme.StatusBarMessageStyle
	default:
		return r.theme.StatusBarStyle
	}
}

func (r *Renderer) posStyle() lipgloss.Style {
	if r.style == StyleNormal {
		return r.theme.StatusBarPosStyle
	}

	return r.noteStyle()
}

func countText(n int) string {
	switch {
	case n < 0:
		return "…"
	case n == 1:
		return "1 rule"
	default:
		return humanize.Comma(int64(n)) + " rules"
	}
}
