// Package overlay draws one rendered view centered over another.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	charmansi "github.com/charmbracelet/x/ansi"

	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/theme"
)

const (
	defaultMinWidth = 24
	ellipsis        = "…"
)

type Overlay struct {
	theme *theme.Theme

	width, height int

	// Minimum width of the overlay, in cells.
	minWidth int
}

func New(t *theme.Theme, opts ...Opt) *Overlay {
	o := &Overlay{
		theme:    t,
		minWidth: defaultMinWidth,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

type Opt func(*Overlay)

// WithMinWidth sets the minimum width of the overlay, in cells.
func WithMinWidth(minWidth int) Opt {
	return func(o *Overlay) {
		o.minWidth = minWidth
	}
}

// SetSize sets the size of the view the overlay is placed on.
func (o *Overlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Place draws fg, rendered with style at widthFraction of the view's width,
// centered over bg. Lines of fg that do not fit the view's height are cut
// and replaced with an ellipsis line. Before the view has a size, fg is
// returned alone.
func (o *Overlay) Place(bg, fg string, widthFraction float64, style lipgloss.Style) string {
	if o.width <= 0 || o.height <= 0 {
		return style.Render(fg)
	}

	fgWidth := clamp(int(float64(o.width)*widthFraction), o.minWidth, o.width)
	innerWidth := max(1, fgWidth-style.GetHorizontalFrameSize())

	fgLines, _ := getLines(cellbuf.Wrap(fg, innerWidth, " /-"))

	maxHeight := o.height - style.GetVerticalFrameSize() - 2
	switch {
	case maxHeight < 1:
		fgLines = nil
	case len(fgLines) > maxHeight:
		fgLines = append(fgLines[:maxHeight-1], o.theme.SubtleStyle.Render(ellipsis))
	}

	fg = style.Width(innerWidth + style.GetHorizontalPadding()).Render(strings.Join(fgLines, "\n"))

	fgLines, fgWidth = getLines(fg)
	bgLines, bgWidth := getLines(bg)

	// Pad bg so the overlay is centered on the view, not on bg's content.
	for len(bgLines) < o.height {
		bgLines = append(bgLines, "")
	}

	bgWidth = max(bgWidth, o.width)

	x := clamp(bgWidth-fgWidth, 0, bgWidth) / 2
	y := clamp(len(bgLines)-len(fgLines), 0, len(bgLines)) / 2

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}

		if i < y || i >= y+len(fgLines) {
			b.WriteString(bgLine)

			continue
		}

		pos := 0
		if x > 0 {
			left := truncate.String(bgLine, uint(x)) //nolint:gosec // x is non-negative.
			pos = ansi.PrintableRuneWidth(left)
			b.WriteString(left)

			if pos < x {
				b.WriteString(strings.Repeat(" ", x-pos))
				pos = x
			}
		}

		fgLine := fgLines[i-y]
		b.WriteString(fgLine)
		pos += ansi.PrintableRuneWidth(fgLine)

		b.WriteString(charmansi.TruncateLeft(bgLine, pos, ""))
	}

	return b.String()
}

func clamp(v, lower, upper int) int {
	return min(max(v, lower), upper)
}

// getLines splits s into lines and returns the width of the widest one.
func getLines(s string) ([]string, int) {
	lines := strings.Split(s, "\n")
	widest := 0

	for _, l := range lines {
		widest = max(widest, charmansi.StringWidth(l))
	}

	return lines, widest
}
