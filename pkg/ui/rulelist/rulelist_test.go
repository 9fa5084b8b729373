package rulelist_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Nitika2334/Rule-Engine-App/pkg/expansion"
	"github.com/Nitika2334/Rule-Engine-App/pkg/repository"
	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/common"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/rulelist"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/theme"
	"github.com/Nitika2334/Rule-Engine-App/pkg/uitest"
)

var testRules = []rule.Rule{
	{ID: "1", Name: "Adult", Expression: "age > 18"},
	{ID: "2", Name: "Senior", Expression: "age > 65"},
	{ID: "3", Name: "Überprüfung", Expression: "checked = 'yes'"},
}

func newModel(t *testing.T, be *uitest.Backend) rulelist.Model {
	t.Helper()

	ckb := &common.KeyBinds{}
	ckb.EnsureDefaults()

	kb := &rulelist.KeyBinds{}
	kb.EnsureDefaults()

	cm := &common.CommonModel{
		Backend:  be,
		Theme:    theme.Default,
		KeyBinds: ckb,
		Width:    80,
	}

	return rulelist.New(rulelist.Config{CommonModel: cm, KeyBinds: kb})
}

// load runs the model's fetch and delivers the result.
func load(t *testing.T, m rulelist.Model) rulelist.Model {
	t.Helper()

	batch, ok := m.Init()().(tea.BatchMsg)
	require.True(t, ok)

	for _, cmd := range batch {
		if cmd == nil {
			continue
		}

		if msg, ok := cmd().(rulelist.LoadedMsg); ok {
			m, _ = m.Update(msg)

			return m
		}
	}

	require.FailNow(t, "no LoadedMsg produced")

	return m
}

func press(m rulelist.Model, keys ...tea.KeyMsg) rulelist.Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}

	return m
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Load(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		be        *uitest.Backend
		want      []string
		phase     expansion.Phase
		wantCount int
	}{
		"rules": {
			be:        &uitest.Backend{Rules: testRules},
			phase:     expansion.PhaseLoaded,
			wantCount: 3,
			want:      []string{"Adult", "Senior", "Überprüfung"},
		},
		"empty": {
			be:        &uitest.Backend{},
			phase:     expansion.PhaseLoaded,
			wantCount: 0,
			want:      []string{"No rules found."},
		},
		"error": {
			be:        &uitest.Backend{ListErr: errors.New("connection refused")},
			phase:     expansion.PhaseError,
			wantCount: -1,
			want:      []string{repository.LoadErrorMessage},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := newModel(t, tc.be)
			assert.Equal(t, expansion.PhaseLoading, m.Phase())
			assert.Contains(t, uitest.PlainText(m.View()), "Loading rules...")

			m = load(t, m)

			assert.Equal(t, tc.phase, m.Phase())
			assert.Equal(t, tc.wantCount, m.Count())
			assert.Equal(t, 1, tc.be.Lists())

			view := uitest.PlainText(m.View())
			for _, w := range tc.want {
				assert.Contains(t, view, w)
			}
		})
	}
}

func TestModel_StaleResult(t *testing.T) {
	t.Parallel()

	be := &uitest.Backend{Rules: testRules}
	old := newModel(t, be)
	m := newModel(t, be)

	require.NotEqual(t, old.ID(), m.ID())

	m, _ = m.Update(rulelist.LoadedMsg{
		ID:    old.ID(),
		State: repository.State{Rules: testRules},
	})

	assert.Equal(t, expansion.PhaseLoading, m.Phase())
}

func TestModel_Toggle(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		keys []tea.KeyMsg
		want expansion.Selection
	}{
		"expand first": {
			keys: []tea.KeyMsg{enter},
			want: expansion.Expanded("1"),
		},
		"same rule twice": {
			keys: []tea.KeyMsg{enter, enter},
			want: expansion.None(),
		},
		"other rule": {
			keys: []tea.KeyMsg{enter, down, enter},
			want: expansion.Expanded("2"),
		},
		"close": {
			keys: []tea.KeyMsg{down, enter, runes("x")},
			want: expansion.None(),
		},
		"escape closes": {
			keys: []tea.KeyMsg{enter, esc},
			want: expansion.None(),
		},
		"cursor stops at last row": {
			keys: []tea.KeyMsg{down, down, down, down, enter},
			want: expansion.Expanded("3"),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := load(t, newModel(t, &uitest.Backend{Rules: testRules}))
			m.Focus()

			m = press(m, tc.keys...)

			assert.Equal(t, tc.want, m.Selection())
		})
	}
}

func TestModel_Details(t *testing.T) {
	t.Parallel()

	rules := []rule.Rule{{
		ID:         "7",
		Name:       "Adult",
		Expression: "age > 18",
		Root:       rule.NewRef("42"),
		Postfix:    rule.PostfixExpr{"age", "18", ">"},
	}}

	m := load(t, newModel(t, &uitest.Backend{Rules: rules}))
	m.Focus()
	m = press(m, enter)

	view := uitest.PlainText(m.View())
	assert.Contains(t, view, "age > 18")
	assert.Contains(t, view, "42")
	assert.Contains(t, view, "age 18 >")
}

func TestModel_Unfocused(t *testing.T) {
	t.Parallel()

	m := load(t, newModel(t, &uitest.Backend{Rules: testRules}))
	m = press(m, enter)

	assert.Equal(t, expansion.None(), m.Selection())
}

func TestModel_Filter(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		term string
		want []string
	}{
		"prefix":      {term: "sen", want: []string{"Senior"}},
		"case folded": {term: "ADU", want: []string{"Adult"}},
		"diacritics":  {term: "uber", want: []string{"Überprüfung"}},
		"no match":    {term: "zzz", want: []string{}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := load(t, newModel(t, &uitest.Backend{Rules: testRules}))
			m.Focus()

			m = press(m, runes("/"))
			require.True(t, m.Filtering())

			m = press(m, runes(tc.term), enter)
			require.False(t, m.Filtering())

			got := []string{}
			for _, r := range m.Visible() {
				got = append(got, r.Name)
			}

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestModel_FilterEscapeClears(t *testing.T) {
	t.Parallel()

	m := load(t, newModel(t, &uitest.Backend{Rules: testRules}))
	m.Focus()

	m = press(m, runes("/"), runes("sen"), esc)

	assert.False(t, m.Filtering())
	assert.Len(t, m.Visible(), 3)
}

func TestModel_ToggleSameName(t *testing.T) {
	t.Parallel()

	rules := []rule.Rule{
		{Name: "Adult", Expression: "age > 18"},
		{Name: "Adult", Expression: "age >= 21"},
	}

	m := load(t, newModel(t, &uitest.Backend{Rules: rules}))
	m.Focus()
	m = press(m, down, enter)

	assert.Equal(t, expansion.Expanded("#1"), m.Selection())

	view := uitest.PlainText(m.View())
	assert.Equal(t, 1, strings.Count(view, "▾"))
	assert.Contains(t, view, "age >= 21")
	assert.NotContains(t, view, "age > 18")
}

func TestModel_WindowKeepsCursorWithDetails(t *testing.T) {
	t.Parallel()

	rules := []rule.Rule{
		{ID: "1", Name: "Adult", Expression: "age > 18"},
		{ID: "2", Name: "Senior", Expression: "age > 65"},
		{ID: "3", Name: "Minor", Expression: "age < 18"},
		{ID: "4", Name: "Retired", Expression: "retired = 'yes'"},
		{ID: "5", Name: "Student", Expression: "student = 'yes'"},
	}

	m := load(t, newModel(t, &uitest.Backend{Rules: rules}))
	m.Focus()
	m.SetHeight(8)

	m = press(m, enter, down, down, down, down)
	require.Equal(t, expansion.Expanded("1"), m.Selection())

	view := uitest.PlainText(m.View())
	assert.Contains(t, view, "Student")
	assert.LessOrEqual(t, lipgloss.Height(m.View()), 8)
}
