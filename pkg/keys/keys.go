// Package keys defines configurable key bindings and renders them as help.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const ellipsis = "…"

var ErrDuplicateBinding = errors.New("duplicate key binding")

// Key is a single key, as reported by bubbletea's KeyMsg.String().
type Key struct {
	// Code is the key code identifier.
	Code string `json:"code" jsonschema:"title=Code"`
	// Alias is an alternative display name for the key.
	Alias string `json:"alias,omitempty" jsonschema:"title=Alias"`
	// Hidden keeps the key out of the help view.
	Hidden bool `json:"hidden,omitempty" jsonschema:"title=Hidden"`
}

type KeyOpt func(k *Key)

func New(code string, opts ...KeyOpt) Key {
	k := Key{Code: code}
	for _, opt := range opts {
		opt(&k)
	}

	return k
}

func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// KeyBind is an action and the keys that trigger it.
type KeyBind struct {
	// Description of the action.
	Description string `json:"description" jsonschema:"title=Description"`
	// Keys that trigger the action.
	Keys []Key `json:"keys" jsonschema:"title=Keys"`
}

func NewBind(description string, keys ...Key) KeyBind {
	return KeyBind{Description: description, Keys: keys}
}

// String renders the visible keys, e.g. "↑/k".
func (kb *KeyBind) String() string {
	visible := make([]string, 0, len(kb.Keys))
	for _, k := range kb.Keys {
		if !k.Hidden {
			visible = append(visible, k.String())
		}
	}

	return strings.Join(visible, "/")
}

// Match reports whether key triggers the binding.
func (kb *KeyBind) Match(key string) bool {
	if kb == nil {
		return false
	}

	for _, k := range kb.Keys {
		if k.Code == key {
			return true
		}
	}

	return false
}

// AddKey adds key unless a key with the same code is already bound.
func (kb *KeyBind) AddKey(key Key) {
	if kb == nil || kb.Match(key.Code) {
		return
	}

	kb.Keys = append(kb.Keys, key)
}

// BubbleKey converts the binding for components that take a [key.Binding],
// such as huh forms.
func (kb *KeyBind) BubbleKey() key.Binding {
	codes := make([]string, 0, len(kb.Keys))
	for _, k := range kb.Keys {
		codes = append(codes, k.Code)
	}

	return key.NewBinding(
		key.WithKeys(codes...),
		key.WithHelp(kb.String(), kb.Description),
	)
}

// SetDefaultBind fills a nil or partially configured binding from def.
func SetDefaultBind(kb **KeyBind, def KeyBind) {
	if *kb == nil {
		*kb = &def

		return
	}

	if len((*kb).Keys) == 0 {
		(*kb).Keys = def.Keys
	}

	if (*kb).Description == "" {
		(*kb).Description = def.Description
	}
}

// ValidateBinds reports key codes bound more than once across the given
// groups. Groups that are active at the same time must be validated together.
func ValidateBinds(groups ...[]KeyBind) error {
	var errs []error

	seen := map[string]string{}
	for _, group := range groups {
		for _, kb := range group {
			for _, k := range kb.Keys {
				if prev, ok := seen[k.Code]; ok {
					errs = append(errs, fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateBinding, k.Code, prev, kb.Description))

					continue
				}

				seen[k.Code] = kb.Description
			}
		}
	}

	return errors.Join(errs...)
}

// KeyBindRenderer lays bindings out in columns for the help view.
type KeyBindRenderer struct {
	columns [][]KeyBind
}

func (r *KeyBindRenderer) AddColumn(kbs ...KeyBind) {
	if len(kbs) > 0 {
		r.columns = append(r.columns, kbs)
	}
}

func (r *KeyBindRenderer) Render(width int) string {
	if len(r.columns) == 0 {
		return ""
	}

	colWidth := max(6, width/len(r.columns)-2)

	cols := make([][]string, len(r.columns))
	rows := 0

	for i, col := range r.columns {
		cols[i] = renderColumn(colWidth, col)
		rows = max(rows, len(cols[i]))
	}

	lines := make([]string, 0, rows)
	for row := range rows {
		var sb strings.Builder
		for _, col := range cols {
			cell := strings.Repeat(" ", colWidth)
			if row < len(col) {
				cell = col[row]
			}

			sb.WriteString(" " + cell + " ")
		}

		lines = append(lines, sb.String())
	}

	return strings.Join(lines, "\n")
}

func renderColumn(width int, kbs []KeyBind) []string {
	keyWidth := 0
	for _, kb := range kbs {
		keyWidth = max(keyWidth, ansi.PrintableRuneWidth(kb.String()))
	}

	descWidth := max(0, width-keyWidth-2)

	rows := make([]string, 0, len(kbs))
	for _, kb := range kbs {
		keys := kb.String()
		if keys == "" {
			continue
		}

		desc := truncate.StringWithTail(kb.Description, uint(descWidth), ellipsis) //nolint:gosec // Uses max.
		rows = append(rows, pad(keys, keyWidth)+"  "+pad(desc, descWidth))
	}

	return rows
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-ansi.PrintableRuneWidth(s)))
}
