package forms

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nitika2334/Rule-Engine-App/pkg/submit"
)

type CreateModel struct {
	page
}

func NewCreate(c Config) CreateModel {
	svc := submit.NewService(c.CommonModel.Backend)

	return CreateModel{page: newPage(c, "Create Rule", submit.OpCreate,
		[]field{
			{key: "name", title: "Rule Name", placeholder: "Adult"},
			{key: "expression", title: "Rule Expression", placeholder: "age > 18 AND department = 'Sales'"},
		},
		func(ctx context.Context, v []string) submit.Outcome {
			return svc.CreateRule(ctx, v[0], v[1])
		},
	)}
}

func (m CreateModel) Update(msg tea.Msg) (CreateModel, tea.Cmd) {
	var cmd tea.Cmd
	m.page, cmd = m.update(msg)

	return m, cmd
}
