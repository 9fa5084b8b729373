// Package forms implements the create, combine, and evaluate pages.
//
// Each form runs its submission in a command and folds the [submit.Outcome]
// into a [submit.Display]. Submissions are never queued or canceled; if two
// overlap, the one that finishes last is shown.
package forms

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nitika2334/Rule-Engine-App/pkg/submit"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/common"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/payload"
)

var instances atomic.Uint64

// OutcomeMsg delivers a finished submission to the form that sent it.
type OutcomeMsg struct {
	Outcome submit.Outcome
	ID      uint64
}

type Config struct {
	CommonModel *common.CommonModel
	KeyBinds    *KeyBinds
}

// result is the submission state every form shares.
type result struct {
	display  submit.Display
	renderer *payload.Renderer
	id       uint64
	pending  int
}

func newResult(cm *common.CommonModel) result {
	return result{
		id:       instances.Add(1),
		renderer: payload.NewRenderer(cm.Theme),
	}
}

// send starts op and resets the display as the operation requires.
func (r *result) send(op submit.Operation, run func(ctx context.Context) submit.Outcome) tea.Cmd {
	r.display.Begin(op)
	r.pending++

	id := r.id

	return func() tea.Msg {
		return OutcomeMsg{ID: id, Outcome: run(context.Background())}
	}
}

// receive applies msg if it belongs to this form.
func (r *result) receive(msg OutcomeMsg) bool {
	if msg.ID != r.id {
		return false
	}

	r.pending = max(0, r.pending-1)
	r.display.Apply(msg.Outcome)

	return true
}

func (r *result) view(cm *common.CommonModel, width int) string {
	t := cm.Theme

	var lines []string

	if r.pending > 0 {
		lines = append(lines, t.SubtleStyle.Render("Submitting..."))
	}

	if r.display.Message != "" {
		lines = append(lines, t.SuccessTextStyle.Render(r.display.Message))
	}

	if len(r.display.Payload) > 0 {
		out, err := r.renderer.Render(r.display.Payload, width)
		if err != nil {
			slog.Debug("render payload", slog.Any("err", err))

			out = string(r.display.Payload)
		}

		lines = append(lines, out)
	}

	if r.display.Error != "" {
		lines = append(lines, t.ErrorTextStyle.Render(r.display.Error))
	}

	return strings.Join(lines, "\n")
}

// Display returns what the form currently shows.
func (r result) Display() submit.Display {
	return r.display
}
