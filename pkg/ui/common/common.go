package common

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nitika2334/Rule-Engine-App/pkg/keys"
	"github.com/Nitika2334/Rule-Engine-App/pkg/repository"
	"github.com/Nitika2334/Rule-Engine-App/pkg/submit"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/statusbar"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/theme"
)

// Backend is everything the views need from the rule service.
type Backend interface {
	repository.Lister
	submit.Backend
}

type CommonModel struct {
	Backend            Backend
	Theme              *theme.Theme
	StatusMessageTimer *time.Timer
	KeyBinds           *KeyBinds
	StatusMessage      StatusMessage
	Width              int
	Height             int
	ShowStatusMessage  bool
}

const StatusMessageTimeout = time.Second * 3

type (
	StatusMessage struct {
		Message string
		Style   statusbar.Style
	}
	StatusMessageTimeoutMsg struct{}
)

// GetStatusBar returns a renderer for the current status.
func (m *CommonModel) GetStatusBar() *statusbar.Renderer {
	opts := []statusbar.Opt{}
	if m.ShowStatusMessage && m.StatusMessage.Message != "" {
		opts = append(opts, statusbar.WithMessage(m.StatusMessage.Message, m.StatusMessage.Style))
	}

	return statusbar.NewRenderer(m.Theme, m.Width, opts...)
}

// SendStatusMessage shows msg in the status bar until the timeout elapses.
func (m *CommonModel) SendStatusMessage(msg string, style statusbar.Style) tea.Cmd {
	m.ShowStatusMessage = true
	m.StatusMessage = StatusMessage{
		Message: msg,
		Style:   style,
	}
	if m.StatusMessageTimer != nil {
		m.StatusMessageTimer.Stop()
	}

	m.StatusMessageTimer = time.NewTimer(StatusMessageTimeout)

	return WaitForStatusMessageTimeout(m.StatusMessageTimer)
}

func WaitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C

		return StatusMessageTimeoutMsg{}
	}
}

type KeyBinds struct {
	Quit    *keys.KeyBind `json:"quit,omitempty"`
	Suspend *keys.KeyBind `json:"suspend,omitempty"`
	Help    *keys.KeyBind `json:"help,omitempty"`
	Menu    *keys.KeyBind `json:"menu,omitempty"`
	Focus   *keys.KeyBind `json:"focus,omitempty"`

	// Navigation.
	Up   *keys.KeyBind `json:"up,omitempty"`
	Down *keys.KeyBind `json:"down,omitempty"`
	Prev *keys.KeyBind `json:"prev,omitempty"`
	Next *keys.KeyBind `json:"next,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Quit, keys.NewBind("quit", keys.New("ctrl+q", keys.WithAlias("⌃q"))))
	// Forms take printable keys, so ctrl+c always quits.
	kb.Quit.AddKey(keys.New("ctrl+c", keys.WithAlias("⌃c"), keys.Hidden()))

	keys.SetDefaultBind(&kb.Suspend,
		keys.NewBind("suspend",
			keys.New("ctrl+z", keys.WithAlias("⌃z"), keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.Help,
		keys.NewBind("toggle help",
			keys.New("f1"),
		))
	keys.SetDefaultBind(&kb.Menu,
		keys.NewBind("open menu",
			keys.New("ctrl+o", keys.WithAlias("⌃o")),
		))

	keys.SetDefaultBind(&kb.Focus,
		keys.NewBind("switch form/list",
			keys.New("ctrl+t", keys.WithAlias("⌃t")),
		))

	keys.SetDefaultBind(&kb.Up,
		keys.NewBind("move up",
			keys.New("up", keys.WithAlias("↑")),
		))
	keys.SetDefaultBind(&kb.Down,
		keys.NewBind("move down",
			keys.New("down", keys.WithAlias("↓")),
		))
	keys.SetDefaultBind(&kb.Prev,
		keys.NewBind("previous field",
			keys.New("shift+tab", keys.WithAlias("⇧+tab")),
		))
	keys.SetDefaultBind(&kb.Next,
		keys.NewBind("next field",
			keys.New("tab"),
		))
}

func (kb *KeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Quit,
		*kb.Suspend,
		*kb.Help,
		*kb.Menu,
		*kb.Focus,
		*kb.Up,
		*kb.Down,
		*kb.Prev,
		*kb.Next,
	}
}
