// Package theme derives the UI's lipgloss styles from a chroma style, so the
// highlighted JSON payloads and the surrounding chrome share one palette.
package theme

import (
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const Ellipsis = "…"

var Default = New("github")

type Theme struct {
	ChromaStyle *chroma.Style

	CursorStyle           lipgloss.Style
	ErrorTextStyle        lipgloss.Style
	ErrorTitleStyle       lipgloss.Style
	FilterStyle           lipgloss.Style
	GenericTextStyle      lipgloss.Style
	HelpStyle             lipgloss.Style
	LogoStyle             lipgloss.Style
	PanelStyle            lipgloss.Style
	SelectedStyle         lipgloss.Style
	SelectedSubtleStyle   lipgloss.Style
	StatusBarMessageStyle lipgloss.Style
	StatusBarErrorStyle   lipgloss.Style
	StatusBarPosStyle     lipgloss.Style
	StatusBarStyle        lipgloss.Style
	SubtleStyle           lipgloss.Style
	SuccessTextStyle      lipgloss.Style
	TitleStyle            lipgloss.Style

	Name string
}

// New builds a theme from the named chroma style. "auto", "light", and
// "dark" pick a GitHub style that suits the terminal background. Unknown
// names fall back to chroma's default.
func New(name string) *Theme {
	resolved := resolve(name)
	cs := palette{style: styles.Get(resolved)}
	if cs.style == nil {
		cs.style = styles.Fallback
	}

	text := lipgloss.NewStyle().Foreground(cs.fg(chroma.Background))
	selected := lipgloss.NewStyle().Foreground(cs.fg(chroma.NameTag))
	selectedSubtle := lipgloss.NewStyle().Foreground(cs.fgShift(chroma.NameTag, 0.3))
	subtle := lipgloss.NewStyle().Foreground(cs.fg(chroma.Comment))
	errText := lipgloss.NewStyle().Foreground(cs.fg(chroma.GenericDeleted))
	successText := lipgloss.NewStyle().Foreground(cs.fg(chroma.GenericInserted))

	return &Theme{
		ChromaStyle: cs.style,
		Name:        resolved,

		CursorStyle:      selectedSubtle,
		ErrorTextStyle:   errText,
		FilterStyle:      selected,
		GenericTextStyle: text,
		SelectedStyle:    selected,
		SubtleStyle:      subtle,
		SuccessTextStyle: successText,

		SelectedSubtleStyle: selectedSubtle,

		ErrorTitleStyle: text.
			Foreground(cs.bg(chroma.Background)).
			Background(cs.fg(chroma.GenericDeleted)).
			Padding(0, 1),

		HelpStyle: lipgloss.NewStyle().
			Foreground(cs.fgShift(chroma.Background, 0.2)).
			Background(cs.bgShift(chroma.Background, 0.2)),

		LogoStyle: lipgloss.NewStyle().
			Foreground(cs.bg(chroma.Background)).
			Background(cs.fg(chroma.NameTag)).
			Bold(true),

		PanelStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cs.fg(chroma.Comment)).
			Padding(0, 1),

		StatusBarStyle: lipgloss.NewStyle().
			Foreground(cs.fg(chroma.Background)).
			Background(cs.bgShift(chroma.Background, 0.1)),

		StatusBarPosStyle: lipgloss.NewStyle().
			Foreground(cs.fg(chroma.Background)).
			Background(cs.bgShift(chroma.Background, 0.15)),

		StatusBarMessageStyle: lipgloss.NewStyle().
			Foreground(cs.bg(chroma.Background)).
			Background(cs.fgShift(chroma.NameTag, 0.15)),

		StatusBarErrorStyle: lipgloss.NewStyle().
			Foreground(cs.bg(chroma.Background)).
			Background(cs.fg(chroma.GenericDeleted)),

		TitleStyle: selected.Bold(true),
	}
}

type palette struct {
	style *chroma.Style
}

func (p palette) fg(t chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(p.style.Get(t).Colour.String()) //nolint:misspell // Chroma naming.
}

func (p palette) bg(t chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(p.style.Get(t).Background.String())
}

func (p palette) fgShift(t chroma.TokenType, factor float64) lipgloss.Color {
	return lipgloss.Color(p.style.Get(t).Colour.BrightenOrDarken(factor).String()) //nolint:misspell // Chroma naming.
}

func (p palette) bgShift(t chroma.TokenType, factor float64) lipgloss.Color {
	return lipgloss.Color(p.style.Get(t).Background.BrightenOrDarken(factor).String())
}

func resolve(name string) string {
	switch name {
	case "dark":
		return "github-dark"
	case "light":
		return "github"
	case "auto", "":
		return detect()
	default:
		return name
	}
}

func detect() string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return "github"
	}

	if termenv.HasDarkBackground() {
		return "github-dark"
	}

	return "github"
}
