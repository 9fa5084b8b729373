// Package rulelist shows the stored rules as an accordion.
//
// Each [Model] owns a fresh repository and fetches exactly once. Results are
// tagged with the model's instance id, so a fetch that finishes after its view
// was replaced is ignored.
package rulelist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nitika2334/Rule-Engine-App/pkg/expansion"
	"github.com/Nitika2334/Rule-Engine-App/pkg/repository"
	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/common"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/statusbar"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/theme"
)

var instances atomic.Uint64

// LoadedMsg carries a finished fetch back to the model that started it.
type LoadedMsg struct {
	State repository.State
	ID    uint64
}

type copiedMsg struct {
	err error
}

type Config struct {
	CommonModel *common.CommonModel
	KeyBinds    *KeyBinds
}

type Model struct {
	cm      *common.CommonModel
	kb      *KeyBinds
	repo    *repository.Repository
	filter  textinput.Model
	spinner spinner.Model
	view    expansion.View
	id      uint64
	cursor  int
	height  int

	filtering bool
	focused   bool
}

// New returns a loading rule list backed by a new repository.
func New(c Config) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = c.CommonModel.Theme.SelectedStyle

	fi := textinput.New()
	fi.Prompt = "/"
	fi.PromptStyle = c.CommonModel.Theme.FilterStyle
	fi.Cursor.Style = c.CommonModel.Theme.CursorStyle

	return Model{
		cm:      c.CommonModel,
		kb:      c.KeyBinds,
		repo:    repository.New(c.CommonModel.Backend),
		id:      instances.Add(1),
		spinner: sp,
		filter:  fi,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m Model) fetch() tea.Cmd {
	repo, id := m.repo, m.id

	return func() tea.Msg {
		return LoadedMsg{ID: id, State: repo.FetchAll(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.ID != m.id {
			slog.Debug("dropping stale rule list", slog.Uint64("id", msg.ID), slog.Uint64("active", m.id))

			return m, nil
		}

		m.view.Settle(msg.State)
		m.clampCursor()

		return m, nil

	case spinner.TickMsg:
		if m.view.Phase() != expansion.PhaseLoading {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case copiedMsg:
		if msg.err != nil {
			return m, m.cm.SendStatusMessage(fmt.Sprintf("Copy failed: %v", msg.err), statusbar.StyleError)
		}

		return m, m.cm.SendStatusMessage("Copied expression", statusbar.StyleSuccess)

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}

		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()

	if m.filtering {
		switch key {
		case "enter":
			m.filtering = false
			m.filter.Blur()

			return m, nil

		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.clampCursor()

			return m, nil
		}

		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.cursor = 0

		return m, cmd
	}

	if m.view.Phase() != expansion.PhaseLoaded {
		return m, nil
	}

	ckb := m.cm.KeyBinds
	visible := m.visible()

	switch {
	case ckb.Up.Match(key):
		m.cursor = max(0, m.cursor-1)

	case ckb.Down.Match(key):
		m.cursor = min(max(0, len(visible)-1), m.cursor+1)

	case m.kb.Toggle.Match(key):
		if m.cursor < len(visible) {
			m.view.Toggle(m.view.Key(visible[m.cursor]))
		}

	case m.kb.Close.Match(key):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.clampCursor()
		}

		m.view.Close()

	case m.kb.Filter.Match(key):
		m.filtering = true

		return m, m.filter.Focus()

	case m.kb.Copy.Match(key):
		r, ok := m.view.ExpandedRule()
		if !ok {
			return m, m.cm.SendStatusMessage("Expand a rule to copy it", statusbar.StyleNormal)
		}

		return m, copyExpression(r.Expression)
	}

	return m, nil
}

func copyExpression(expr string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(expr)}
	}
}

// Visible returns the loaded rules that pass the filter.
func (m Model) Visible() []rule.Rule {
	rules := m.view.Rules()
	visible := m.visible()

	out := make([]rule.Rule, 0, len(visible))
	for _, i := range visible {
		out = append(out, rules[i])
	}

	return out
}

// visible returns the positions of the filtered rules in the loaded list.
func (m Model) visible() []int {
	return filterRules(m.view.Rules(), m.filter.Value())
}

func (m *Model) clampCursor() {
	m.cursor = min(m.cursor, max(0, len(m.visible())-1))
}

func (m *Model) Focus() {
	m.focused = true
}

// Blur stops key handling and abandons an in-progress filter edit.
func (m *Model) Blur() {
	m.focused = false
	m.filtering = false
	m.filter.Blur()
}

func (m Model) Focused() bool   { return m.focused }
func (m Model) Filtering() bool { return m.filtering }

// ID identifies this model's fetch.
func (m Model) ID() uint64 { return m.id }

func (m Model) Phase() expansion.Phase { return m.view.Phase() }

func (m Model) Selection() expansion.Selection { return m.view.Selection() }

// Count returns the number of loaded rules, or -1 while not loaded.
func (m Model) Count() int {
	if m.view.Phase() != expansion.PhaseLoaded {
		return -1
	}

	return len(m.view.Rules())
}

func (m *Model) SetHeight(h int) {
	m.height = h
}

func (m Model) View() string {
	t := m.cm.Theme
	width := max(0, m.cm.Width)

	title := t.TitleStyle.Render("Rules")
	if !m.focused {
		title = t.SubtleStyle.Render("Rules")
	}

	lines := []string{title}

	if m.filtering || m.filter.Value() != "" {
		lines = append(lines, m.filter.View())
	}

	switch m.view.Phase() {
	case expansion.PhaseLoading:
		lines = append(lines, m.spinner.View()+" "+t.SubtleStyle.Render("Loading rules..."))

	case expansion.PhaseError:
		lines = append(lines, t.ErrorTextStyle.Render(m.view.Err()))

	case expansion.PhaseLoaded:
		avail := 0
		if m.height > 0 {
			avail = max(1, m.height-len(lines))
		}

		lines = append(lines, m.rowsView(t, width, avail)...)
	}

	out := strings.Join(lines, "\n")
	if m.height > 0 {
		out = lipgloss.NewStyle().MaxHeight(m.height).Render(out)
	}

	return out
}

// rowsView renders the visible rules within avail lines, or all of them when
// avail is zero. Each entry is a rule's row followed by its details when
// expanded.
func (m Model) rowsView(t *theme.Theme, width, avail int) []string {
	visible := m.visible()
	if len(visible) == 0 {
		if m.filter.Value() != "" {
			return []string{t.SubtleStyle.Render("No rules match the filter.")}
		}

		return []string{t.SubtleStyle.Render("No rules found.")}
	}

	sel := m.view.Selection()
	rules := m.view.Rules()

	blocks := make([]string, len(visible))
	heights := make([]int, len(visible))

	for i, idx := range visible {
		r := rules[idx]
		expanded := sel.Is(m.view.Key(idx))

		name := r.Name
		if name == "" {
			name = t.SubtleStyle.Render("(unnamed)")
		}

		marker := "▸ "
		if expanded {
			marker = "▾ "
		}

		row := marker + name
		if width > 2 {
			row = truncate.StringWithTail(row, uint(width-2), theme.Ellipsis) //nolint:gosec // Checked above.
		}

		switch {
		case i == m.cursor && m.focused:
			row = t.CursorStyle.Render("│ ") + t.SelectedStyle.Render(row)
		case i == m.cursor:
			row = "  " + t.SelectedSubtleStyle.Render(row)
		default:
			row = "  " + t.GenericTextStyle.Render(row)
		}

		if expanded {
			row += "\n" + detailsView(t, r, width)
		}

		blocks[i] = row
		heights[i] = lipgloss.Height(row)
	}

	start, end := window(heights, m.cursor, avail)

	return blocks[start:end]
}

// window returns the range of entries that fit in avail lines and include the
// cursor. The cursor entry is kept even when it alone is taller than avail.
func window(heights []int, cursor, avail int) (int, int) {
	n := len(heights)

	total := 0
	for _, h := range heights {
		total += h
	}

	if avail <= 0 || total <= avail {
		return 0, n
	}

	cursor = min(max(0, cursor), n-1)
	start, end := cursor, cursor+1
	used := heights[cursor]

	for start > 0 && used+heights[start-1] <= avail {
		start--
		used += heights[start]
	}

	for end < n && used+heights[end] <= avail {
		used += heights[end]
		end++
	}

	return start, end
}

func detailsView(t *theme.Theme, r rule.Rule, width int) string {
	field := func(label, value string) string {
		return t.SubtleStyle.Render(fmt.Sprintf("%-10s", label)) + " " + t.GenericTextStyle.Render(value)
	}

	body := strings.Join([]string{
		field("ID", string(r.ID)),
		field("Expression", r.Expression),
		field("Root", r.Root.String()),
		field("Postfix", r.Postfix.String()),
	}, "\n")

	return t.PanelStyle.
		Width(max(0, width-6)).
		MarginLeft(2).
		Render(body)
}
