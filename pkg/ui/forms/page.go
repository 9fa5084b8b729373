package forms

import (
	"context"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nitika2334/Rule-Engine-App/pkg/submit"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/common"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/theme"
)

type field struct {
	key         string
	title       string
	placeholder string
	lines       int // Zero for a single-line input.
}

// page is a huh form followed by the submission result. Completing the form
// submits it and replaces it with a fresh form holding the same values, so the
// fields stay editable.
type page struct {
	result

	cm     *common.CommonModel
	kb     *KeyBinds
	form   *huh.Form
	run    func(ctx context.Context, values []string) submit.Outcome
	title  string
	fields []field
	values []string
	// bound holds the form's live field values.
	bound []*string
	op    submit.Operation
	width int
}

func newPage(c Config, title string, op submit.Operation, fields []field,
	run func(ctx context.Context, values []string) submit.Outcome,
) page {
	cm := c.CommonModel

	p := page{
		result: newResult(cm),
		cm:     cm,
		kb:     c.KeyBinds,
		title:  title,
		op:     op,
		fields: fields,
		values: make([]string, len(fields)),
		run:    run,
		width:  cm.Width,
	}
	p.buildForm()

	return p
}

// buildForm replaces the form with a fresh one holding the last submitted
// values.
func (p *page) buildForm() {
	inputs := make([]huh.Field, 0, len(p.fields))
	p.bound = make([]*string, len(p.fields))

	for i, f := range p.fields {
		value := p.values[i]
		p.bound[i] = &value

		if f.lines > 0 {
			inputs = append(inputs, huh.NewText().
				Key(f.key).
				Title(f.title).
				Placeholder(f.placeholder).
				Lines(f.lines).
				Value(&value))

			continue
		}

		inputs = append(inputs, huh.NewInput().
			Key(f.key).
			Title(f.title).
			Placeholder(f.placeholder).
			Value(&value))
	}

	form := huh.NewForm(huh.NewGroup(inputs...)).
		WithShowHelp(false).
		WithTheme(theme.HuhTheme(p.cm.Theme)).
		WithKeyMap(huhKeyMap())

	if p.width > 0 {
		form = form.WithWidth(p.width)
	}

	p.form = form
}

func (p page) Init() tea.Cmd {
	return p.form.Init()
}

func (p page) update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case OutcomeMsg:
		p.receive(msg)

		return p, nil

	case tea.KeyMsg:
		// Submitting from any field skips the rest of the form.
		if p.kb != nil && p.kb.Submit.Match(msg.String()) {
			return p.submit(nil)
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State != huh.StateCompleted {
		return p, cmd
	}

	return p.submit(cmd)
}

// submit sends the current field values and resets the form to hold them.
func (p page) submit(cmd tea.Cmd) (page, tea.Cmd) {
	values := make([]string, len(p.bound))
	for i, v := range p.bound {
		values[i] = *v
	}

	p.values = values

	run := p.run
	send := p.send(p.op, func(ctx context.Context) submit.Outcome {
		return run(ctx, values)
	})

	p.buildForm()

	return p, tea.Batch(cmd, send, p.form.Init())
}

func (p *page) SetWidth(w int) {
	p.width = w
	p.form = p.form.WithWidth(w)
}

// Values returns the last submitted field values.
func (p page) Values() []string {
	return append([]string(nil), p.values...)
}

func (p page) View() string {
	parts := []string{
		p.cm.Theme.TitleStyle.Render(p.title),
		p.form.View(),
	}

	if rv := p.result.view(p.cm, p.width); rv != "" {
		parts = append(parts, rv)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
