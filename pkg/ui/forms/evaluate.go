package forms

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nitika2334/Rule-Engine-App/pkg/submit"
)

type EvaluateModel struct {
	page
}

func NewEvaluate(c Config) EvaluateModel {
	svc := submit.NewService(c.CommonModel.Backend)

	return EvaluateModel{page: newPage(c, "Evaluate Rule", submit.OpEvaluate,
		[]field{
			{key: "name", title: "Rule Name", placeholder: "Adult"},
			{key: "conditions", title: "Conditions (JSON)", placeholder: `{"age": 35, "department": "Sales"}`, lines: 4},
		},
		func(ctx context.Context, v []string) submit.Outcome {
			return svc.EvaluateRule(ctx, v[0], v[1])
		},
	)}
}

func (m EvaluateModel) Update(msg tea.Msg) (EvaluateModel, tea.Cmd) {
	var cmd tea.Cmd
	m.page, cmd = m.update(msg)

	return m, cmd
}
