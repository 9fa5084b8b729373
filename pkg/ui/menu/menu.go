// Package menu is the page switcher.
package menu

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/common"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/theme"
)

// Page is a destination in the menu.
type Page int

const (
	PageHome Page = iota
	PageCreate
	PageCombine
	PageEvaluate
)

func (p Page) String() string {
	switch p {
	case PageHome:
		return "Home"
	case PageCreate:
		return "Create Rule"
	case PageCombine:
		return "Combine Rules"
	case PageEvaluate:
		return "Evaluate Rule"
	}

	return fmt.Sprintf("Page(%d)", int(p))
}

// Width is the menu's content width, in cells.
const Width = 36

// SelectedMsg is sent when the user picks a page.
type SelectedMsg struct {
	Page Page
}

type Model struct {
	cm      *common.CommonModel
	form    *huh.Form
	current Page
}

func New(cm *common.CommonModel, current Page) Model {
	m := Model{cm: cm, current: current}
	m.form = m.buildForm()

	return m
}

func (m Model) buildForm() *huh.Form {
	choice := m.current

	km := huh.NewDefaultKeyMap()
	km.Quit.SetEnabled(false)

	if kb := m.cm.KeyBinds; kb != nil {
		km.Select.Up = kb.Up.BubbleKey()
		km.Select.Down = kb.Down.BubbleKey()
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Page]().
				Key("page").
				Title("Rules Menu").
				Description("Showing "+m.current.String()).
				Options(
					huh.NewOption(PageCreate.String(), PageCreate),
					huh.NewOption(PageCombine.String(), PageCombine),
					huh.NewOption(PageEvaluate.String(), PageEvaluate),
					huh.NewOption(PageHome.String(), PageHome),
				).
				Value(&choice),
		),
	).
		WithShowHelp(false).
		WithWidth(Width).
		WithTheme(theme.HuhTheme(m.cm.Theme)).
		WithKeyMap(km)
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	page, ok := m.form.Get("page").(Page)
	if !ok {
		page = m.current
	}

	m.current = page
	m.form = m.buildForm()

	return m, tea.Batch(cmd, m.form.Init(), func() tea.Msg {
		return SelectedMsg{Page: page}
	})
}

func (m Model) View() string {
	return lipgloss.NewStyle().
		Padding(1, 1).
		Render(m.form.View())
}

// Current returns the last selected page.
func (m Model) Current() Page {
	return m.current
}
