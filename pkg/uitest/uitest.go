package uitest

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/x/exp/teatest"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultWait = 3 * time.Second

// Size is a terminal size.
type Size struct {
	Width  int
	Height int
}

var (
	Compact  = Size{Width: 80, Height: 24}
	Standard = Size{Width: 120, Height: 40}
)

// Model is a Bubble Tea model whose Update returns its concrete type.
type Model[T any] interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (T, tea.Cmd)
	View() string
}

type adapter[T Model[T]] struct {
	model T
}

func (a adapter[T]) Init() tea.Cmd { return a.model.Init() }
func (a adapter[T]) View() string  { return a.model.View() }

//nolint:ireturn // Must satisfy [tea.Model].
func (a adapter[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.model.Update(msg)

	return adapter[T]{model: m}, cmd
}

// NewTestModel starts m under teatest with the given terminal size.
func NewTestModel[T Model[T]](tb testing.TB, m T, size Size) *teatest.TestModel {
	tb.Helper()

	return teatest.NewTestModel(tb, adapter[T]{model: m},
		teatest.WithInitialTermSize(size.Width, size.Height),
	)
}

// WaitFor waits until condition holds for the output read so far.
func WaitFor(tb testing.TB, r io.Reader, condition func([]byte) bool, opts ...teatest.WaitForOption) {
	tb.Helper()

	opts = append([]teatest.WaitForOption{teatest.WithDuration(defaultWait)}, opts...)
	teatest.WaitFor(tb, r, condition, opts...)
}

// FinalModel quits the program and returns the model it ended with.
func FinalModel[T Model[T]](tb testing.TB, tm *teatest.TestModel) T {
	tb.Helper()

	if err := tm.Quit(); err != nil {
		tb.Fatal(err)
	}

	a, ok := tm.FinalModel(tb, teatest.WithFinalTimeout(defaultWait)).(adapter[T])
	if !ok {
		tb.Fatalf("unexpected final model type %T", a)
	}

	return a.model
}
