// Package editor holds the editable state of the combine form: a rule name and
// an ordered list of raw rule expressions.
package editor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
)

var ErrRowOutOfRange = errors.New("row index out of range")

// Row is one rule expression. Ordinal is a stable identity for rendering;
// operations address rows by position.
type Row struct {
	Text    string
	Ordinal int
}

// Editor is the combine form's draft. The zero value has no rows; [New]
// starts with a single empty row.
type Editor struct {
	name        string
	rows        []Row
	nextOrdinal int
}

func New() *Editor {
	e := &Editor{}
	e.AddRow()

	return e
}

func (e *Editor) Name() string {
	return e.name
}

func (e *Editor) SetName(name string) {
	e.name = name
}

// Len returns the number of rows.
func (e *Editor) Len() int {
	return len(e.rows)
}

// Rows returns a copy of the rows in order.
func (e *Editor) Rows() []Row {
	return slices.Clone(e.rows)
}

// Texts returns the row texts in order.
func (e *Editor) Texts() []string {
	out := make([]string, 0, len(e.rows))
	for _, r := range e.rows {
		out = append(out, r.Text)
	}

	return out
}

// AddRow appends an empty row and returns its position.
func (e *Editor) AddRow() int {
	e.rows = append(e.rows, Row{Ordinal: e.nextOrdinal})
	e.nextOrdinal++

	return len(e.rows) - 1
}

// RemoveRow deletes the row at position i. Later rows shift down by one.
// Removing the last remaining row is allowed.
func (e *Editor) RemoveRow(i int) error {
	if err := e.check(i); err != nil {
		return err
	}

	e.rows = slices.Delete(e.rows, i, i+1)

	return nil
}

// EditRow replaces the text at position i.
func (e *Editor) EditRow(i int, text string) error {
	if err := e.check(i); err != nil {
		return err
	}

	e.rows[i].Text = text

	return nil
}

// Draft snapshots the editor for submission. Later edits do not affect the
// returned draft.
func (e *Editor) Draft() rule.CombineDraft {
	return rule.CombineDraft{
		RuleName: e.name,
		Rules:    e.Texts(),
	}
}

func (e *Editor) check(i int) error {
	if i < 0 || i >= len(e.rows) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrRowOutOfRange, i, len(e.rows))
	}

	return nil
}
