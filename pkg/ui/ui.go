// Package ui provides the terminal interface for the rule engine.
//
// The interface has a home page and one page per operation. Every page shows
// the stored rules below it. Opening a page builds a fresh rule list, so the
// rules are fetched again on every navigation and never otherwise.
package ui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nitika2334/Rule-Engine-App/pkg/keys"
	"github.com/Nitika2334/Rule-Engine-App/pkg/submit"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/common"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/forms"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/menu"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/overlay"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/rulelist"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/statusbar"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/theme"
)

// NewProgram returns a new Tea program.
func NewProgram(ctx context.Context, cfg *Config, backend common.Backend, opts ...tea.ProgramOption) *tea.Program {
	slog.Debug("starting rules ui")

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)

	return tea.NewProgram(program{model: NewModel(cfg, backend)}, opts...)
}

// program adapts [Model] to [tea.Model].
type program struct {
	model Model
}

func (p program) Init() tea.Cmd { return p.model.Init() }
func (p program) View() string  { return p.model.View() }

//nolint:ireturn // Must satisfy [tea.Model].
func (p program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := p.model.Update(msg)

	return program{model: m}, cmd
}

type focusArea int

const (
	focusPage focusArea = iota
	focusList
)

type Model struct {
	cm       *common.CommonModel
	kb       *KeyBinds
	help     *statusbar.HelpRenderer
	menu     menu.Model
	overlay  *overlay.Overlay
	create   forms.CreateModel
	combine  forms.CombineModel
	evaluate forms.EvaluateModel
	list     rulelist.Model
	page     menu.Page
	focus    focusArea
	compact  bool
	showMenu bool
	showHelp bool
}

// NewModel returns the model showing the home page. cfg must have its
// defaults applied.
func NewModel(cfg *Config, backend common.Backend) Model {
	cm := &common.CommonModel{
		Backend:  backend,
		Theme:    theme.New(cfg.Theme),
		KeyBinds: cfg.KeyBinds.Common,
	}

	kbr := &keys.KeyBindRenderer{}
	kbr.AddColumn(cfg.KeyBinds.Common.GetKeyBinds()...)
	kbr.AddColumn(cfg.KeyBinds.RuleList.GetKeyBinds()...)
	kbr.AddColumn(cfg.KeyBinds.Forms.GetKeyBinds()...)

	m := Model{
		cm:      cm,
		kb:      cfg.KeyBinds,
		help:    statusbar.NewHelpRenderer(cm.Theme, kbr),
		overlay: overlay.New(cm.Theme),
		compact: cfg.Compact != nil && *cfg.Compact,
	}
	m.activate(menu.PageHome)

	return m
}

func (m Model) Init() tea.Cmd {
	return m.pageInit()
}

// activate switches to page p with a new form and a new rule list.
func (m *Model) activate(p menu.Page) {
	m.page = p
	m.showMenu = false

	fc := forms.Config{CommonModel: m.cm, KeyBinds: m.kb.Forms}

	switch p {
	case menu.PageCreate:
		m.create = forms.NewCreate(fc)
	case menu.PageCombine:
		m.combine = forms.NewCombine(fc)
	case menu.PageEvaluate:
		m.evaluate = forms.NewEvaluate(fc)
	case menu.PageHome:
	}

	m.list = rulelist.New(rulelist.Config{CommonModel: m.cm, KeyBinds: m.kb.RuleList})

	m.focus = focusPage
	if p == menu.PageHome {
		m.focus = focusList
		m.list.Focus()
	}
}

// setPageWidth resizes the active form. Inactive forms are rebuilt on
// activation with the current width.
func (m *Model) setPageWidth(w int) {
	switch m.page {
	case menu.PageCreate:
		m.create.SetWidth(w)
	case menu.PageCombine:
		m.combine.SetWidth(w)
	case menu.PageEvaluate:
		m.evaluate.SetWidth(w)
	case menu.PageHome:
	}
}

func (m Model) pageInit() tea.Cmd {
	cmds := []tea.Cmd{m.list.Init()}

	switch m.page {
	case menu.PageCreate:
		cmds = append(cmds, m.create.Init())
	case menu.PageCombine:
		cmds = append(cmds, m.combine.Init())
	case menu.PageEvaluate:
		cmds = append(cmds, m.evaluate.Init())
	case menu.PageHome:
	}

	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cm.Width = msg.Width
		m.cm.Height = msg.Height
		m.overlay.SetSize(msg.Width, msg.Height)
		m.setPageWidth(msg.Width)

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case menu.SelectedMsg:
		slog.Debug("switching page", slog.String("page", msg.Page.String()))
		m.activate(msg.Page)

		return m, m.pageInit()

	case common.StatusMessageTimeoutMsg:
		m.cm.ShowStatusMessage = false

		return m, nil
	}

	// Everything else is internal to a child model; route it to all of them.
	var cmds []tea.Cmd

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	m, cmd = m.updatePage(msg)
	cmds = append(cmds, cmd)

	if m.showMenu {
		m.menu, cmd = m.menu.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	ckb := m.cm.KeyBinds

	switch {
	case ckb.Quit.Match(key):
		return m, tea.Quit

	case ckb.Suspend.Match(key):
		return m, tea.Suspend

	case ckb.Help.Match(key):
		m.showHelp = !m.showHelp

		return m, nil

	case ckb.Menu.Match(key):
		m.showMenu = !m.showMenu
		if !m.showMenu {
			return m, nil
		}

		m.menu = menu.New(m.cm, m.page)

		return m, m.menu.Init()
	}

	if m.showMenu {
		if key == "esc" {
			m.showMenu = false

			return m, nil
		}

		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)

		return m, cmd
	}

	if ckb.Focus.Match(key) && m.page != menu.PageHome {
		if m.focus == focusPage {
			m.focus = focusList
			m.list.Focus()
		} else {
			m.focus = focusPage
			m.list.Blur()
		}

		return m, nil
	}

	if m.focus == focusList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)

		return m, cmd
	}

	return m.updatePage(msg)
}

func (m Model) updatePage(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.page {
	case menu.PageCreate:
		m.create, cmd = m.create.Update(msg)
	case menu.PageCombine:
		m.combine, cmd = m.combine.Update(msg)
	case menu.PageEvaluate:
		m.evaluate, cmd = m.evaluate.Update(msg)
	case menu.PageHome:
	}

	return m, cmd
}

// Page returns the page being shown.
func (m Model) Page() menu.Page {
	return m.page
}

// Display returns the submission result shown on the current page.
func (m Model) Display() submit.Display {
	switch m.page {
	case menu.PageCreate:
		return m.create.Display()
	case menu.PageCombine:
		return m.combine.Display()
	case menu.PageEvaluate:
		return m.evaluate.Display()
	case menu.PageHome:
	}

	return submit.Display{}
}

func (m Model) View() string {
	var top string

	switch {
	case m.page == menu.PageCreate:
		top = m.create.View()
	case m.page == menu.PageCombine:
		top = m.combine.View()
	case m.page == menu.PageEvaluate:
		top = m.evaluate.View()
	default:
		top = m.homeView()
	}

	if !m.compact {
		top += "\n"
	}

	var bottom []string
	if m.showHelp {
		bottom = append(bottom, m.help.Render(m.cm.Width))
	}

	note := m.page.String()
	if m.page != menu.PageHome {
		note += " • " + m.cm.KeyBinds.Focus.String() + " switch focus"
	}

	bottom = append(bottom, m.cm.GetStatusBar().Render(note, m.list.Count()))
	footer := strings.Join(bottom, "\n")

	list := m.list
	body := lipgloss.JoinVertical(lipgloss.Left, top, list.View())

	if m.cm.Height > 0 {
		avail := max(0, m.cm.Height-lipgloss.Height(footer))
		list.SetHeight(max(1, avail-lipgloss.Height(top)))

		body = lipgloss.JoinVertical(lipgloss.Left, top, list.View())
		body = lipgloss.NewStyle().Height(avail).MaxHeight(avail).Render(body)
	}

	view := lipgloss.JoinVertical(lipgloss.Left, body, footer)
	if m.showMenu {
		view = m.overlay.Place(view, m.menu.View(), 0.4, m.cm.Theme.PanelStyle)
	}

	return view
}

func (m Model) homeView() string {
	t := m.cm.Theme

	return lipgloss.JoinVertical(lipgloss.Left,
		t.TitleStyle.Render("Welcome to the Rule Engine"),
		t.GenericTextStyle.Render("Create, combine, and evaluate eligibility rules."),
		t.SubtleStyle.Render("Press "+m.cm.KeyBinds.Menu.String()+" to open the Rules Menu."),
	)
}
