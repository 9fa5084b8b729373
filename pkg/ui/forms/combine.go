package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nitika2334/Rule-Engine-App/pkg/editor"
	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
	"github.com/Nitika2334/Rule-Engine-App/pkg/submit"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/common"
)

// CombineModel edits a rule name and a variable number of rule expressions.
// Focus moves over the name, each row, and the submit button, in that order.
type CombineModel struct {
	result

	cm     *common.CommonModel
	kb     *KeyBinds
	svc    *submit.Service
	editor *editor.Editor
	name   textinput.Model
	rows   []textinput.Model
	focus  int
	width  int
}

func NewCombine(c Config) CombineModel {
	m := CombineModel{
		result: newResult(c.CommonModel),
		cm:     c.CommonModel,
		kb:     c.KeyBinds,
		svc:    submit.NewService(c.CommonModel.Backend),
		editor: editor.New(),
		width:  c.CommonModel.Width,
	}

	m.name = m.newInput("R3")
	for range m.editor.Len() {
		m.rows = append(m.rows, m.newInput("age > 18"))
	}

	m.focusInputs()

	return m
}

func (m CombineModel) newInput(placeholder string) textinput.Model {
	t := m.cm.Theme

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.PromptStyle = t.SubtleStyle
	ti.TextStyle = t.GenericTextStyle
	ti.PlaceholderStyle = t.SubtleStyle
	ti.Cursor.Style = t.CursorStyle

	if m.width > 6 {
		ti.Width = m.width - 6
	}

	return ti
}

func (m CombineModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m CombineModel) submitIndex() int {
	return len(m.rows) + 1
}

// focusInputs focuses the input under the cursor and blurs the rest.
func (m *CombineModel) focusInputs() tea.Cmd {
	m.name.Blur()
	for i := range m.rows {
		m.rows[i].Blur()
	}

	switch {
	case m.focus == 0:
		return m.name.Focus()

	case m.focus <= len(m.rows):
		return m.rows[m.focus-1].Focus()
	}

	return nil
}

func (m CombineModel) Update(msg tea.Msg) (CombineModel, tea.Cmd) {
	switch msg := msg.(type) {
	case OutcomeMsg:
		m.receive(msg)

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m CombineModel) handleKey(msg tea.KeyMsg) (CombineModel, tea.Cmd) {
	key := msg.String()
	ckb := m.cm.KeyBinds

	switch {
	case m.kb.Submit.Match(key), key == "enter" && m.focus == m.submitIndex():
		return m, m.submit()

	case ckb.Next.Match(key), ckb.Down.Match(key), key == "enter":
		m.focus = min(m.submitIndex(), m.focus+1)

		return m, m.focusInputs()

	case ckb.Prev.Match(key), ckb.Up.Match(key):
		m.focus = max(0, m.focus-1)

		return m, m.focusInputs()

	case m.kb.AddRow.Match(key):
		i := m.editor.AddRow()
		m.rows = append(m.rows, m.newInput("age > 18"))
		m.focus = i + 1

		return m, m.focusInputs()

	case m.kb.RemoveRow.Match(key):
		return m.removeFocusedRow()
	}

	return m.updateFocused(msg)
}

func (m CombineModel) removeFocusedRow() (CombineModel, tea.Cmd) {
	i := m.focus - 1
	if i < 0 || i >= len(m.rows) {
		return m, nil
	}

	if err := m.editor.RemoveRow(i); err != nil {
		return m, nil
	}

	m.rows = append(m.rows[:i:i], m.rows[i+1:]...)
	m.focus = min(m.focus, m.submitIndex())

	return m, m.focusInputs()
}

// updateFocused forwards msg to the focused input and copies its value into
// the editor.
func (m CombineModel) updateFocused(msg tea.Msg) (CombineModel, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case m.focus == 0:
		m.name, cmd = m.name.Update(msg)
		m.editor.SetName(m.name.Value())

	case m.focus <= len(m.rows):
		i := m.focus - 1
		m.rows[i], cmd = m.rows[i].Update(msg)

		if err := m.editor.EditRow(i, m.rows[i].Value()); err != nil {
			return m, nil
		}
	}

	return m, cmd
}

func (m *CombineModel) submit() tea.Cmd {
	draft := m.editor.Draft()
	svc := m.svc

	return m.send(submit.OpCombine, func(ctx context.Context) submit.Outcome {
		return svc.CombineRules(ctx, draft.RuleName, draft.Rules)
	})
}

// Draft returns the current editor contents.
func (m CombineModel) Draft() rule.CombineDraft {
	return m.editor.Draft()
}

func (m *CombineModel) SetWidth(w int) {
	m.width = w
	if w <= 6 {
		return
	}

	m.name.Width = w - 6
	for i := range m.rows {
		m.rows[i].Width = w - 6
	}
}

func (m CombineModel) View() string {
	t := m.cm.Theme

	label := func(s string, focused bool) string {
		if focused {
			return t.SelectedStyle.Bold(true).Render(s)
		}

		return t.SubtleStyle.Render(s)
	}

	lines := []string{
		t.TitleStyle.Render("Combine Rules"),
		"",
		label("Rule Name", m.focus == 0),
		m.name.View(),
		"",
		label("Rules", m.focus > 0 && m.focus <= len(m.rows)),
	}

	if len(m.rows) == 0 {
		lines = append(lines, t.SubtleStyle.Render(fmt.Sprintf("No rules. Press %s to add one.", m.kb.AddRow.String())))
	}

	for i, row := range m.rows {
		lines = append(lines, t.SubtleStyle.Render(fmt.Sprintf("%2d.", i+1))+" "+row.View())
	}

	button := t.SubtleStyle.Padding(0, 2).Render("Submit")
	if m.focus == m.submitIndex() {
		button = t.LogoStyle.Padding(0, 2).Render("Submit")
	}

	hint := t.SubtleStyle.Render(strings.Join([]string{
		m.kb.AddRow.String() + " add",
		m.kb.RemoveRow.String() + " remove",
		m.kb.Submit.String() + " submit",
	}, " • "))

	lines = append(lines, "", button+"  "+hint)

	if rv := m.result.view(m.cm, m.width); rv != "" {
		lines = append(lines, "", rv)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
