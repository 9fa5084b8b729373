// Package expansion implements the single-selection accordion over a fetched
// rule list.
//
// A [View] starts in [PhaseLoading] and settles exactly once, into either
// [PhaseError] or [PhaseLoaded]. Only a loaded view has a selection, and the
// selection names at most one rule.
package expansion

import (
	"fmt"
	"strconv"

	"github.com/Nitika2334/Rule-Engine-App/pkg/repository"
	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseLoaded
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseLoaded:
		return "loaded"
	}

	return fmt.Sprintf("Phase(%d)", int(p))
}

// Selection is either None or Expanded(id).
type Selection struct {
	id  string
	set bool
}

func None() Selection {
	return Selection{}
}

func Expanded(id string) Selection {
	return Selection{id: id, set: true}
}

// ID returns the expanded rule's key, if any.
func (s Selection) ID() (string, bool) {
	return s.id, s.set
}

// Is reports whether the rule keyed by id is expanded.
func (s Selection) Is(id string) bool {
	return s.set && s.id == id
}

func (s Selection) String() string {
	if !s.set {
		return "None"
	}

	return fmt.Sprintf("Expanded(%s)", s.id)
}

// View is the accordion state. The zero value is loading.
type View struct {
	expanded Selection
	err      string
	rules    []rule.Rule
	keys     []string
	phase    Phase
}

func (v *View) Phase() Phase         { return v.phase }
func (v *View) Err() string          { return v.err }
func (v *View) Rules() []rule.Rule   { return v.rules }
func (v *View) Selection() Selection { return v.expanded }

// Resolve moves a loading view to loaded with nothing expanded.
func (v *View) Resolve(rules []rule.Rule) bool {
	if v.phase != PhaseLoading {
		return false
	}

	v.phase = PhaseLoaded
	v.rules = rules
	v.keys = keyRules(rules)
	v.expanded = None()

	return true
}

// Fail moves a loading view to the error phase. The error is terminal for
// this view.
func (v *View) Fail(msg string) bool {
	if v.phase != PhaseLoading {
		return false
	}

	v.phase = PhaseError
	v.err = msg

	return true
}

// Settle applies a fetched repository state. A state that is still loading is
// ignored.
func (v *View) Settle(s repository.State) bool {
	switch {
	case s.Loading:
		return false
	case s.Err != "":
		return v.Fail(s.Err)
	default:
		return v.Resolve(s.Rules)
	}
}

// Toggle selects the rule keyed by id. Selecting the expanded rule collapses
// it; selecting any other rule expands it instead.
func (v *View) Toggle(id string) bool {
	if v.phase != PhaseLoaded || !v.has(id) {
		return false
	}

	if v.expanded.Is(id) {
		v.expanded = None()
	} else {
		v.expanded = Expanded(id)
	}

	return true
}

// Close collapses any expanded rule.
func (v *View) Close() bool {
	if v.phase != PhaseLoaded {
		return false
	}

	v.expanded = None()

	return true
}

// ExpandedRule returns the expanded rule, if any.
func (v *View) ExpandedRule() (rule.Rule, bool) {
	id, ok := v.expanded.ID()
	if !ok {
		return rule.Rule{}, false
	}

	for i, k := range v.keys {
		if k == id {
			return v.rules[i], true
		}
	}

	return rule.Rule{}, false
}

// Key returns the selection key of the i-th loaded rule, or "" when i is out
// of range.
func (v *View) Key(i int) string {
	if i < 0 || i >= len(v.keys) {
		return ""
	}

	return v.keys[i]
}

func (v *View) has(id string) bool {
	for _, k := range v.keys {
		if k == id {
			return true
		}
	}

	return false
}

// keyRules gives every rule a distinct key. A rule is keyed by its id, or by
// its position when the id is missing or already taken.
func keyRules(rules []rule.Rule) []string {
	keys := make([]string, len(rules))
	seen := make(map[string]bool, len(rules))

	for i, r := range rules {
		k := string(r.ID)
		if k == "" || seen[k] {
			k = "#" + strconv.Itoa(i)
		}

		for seen[k] {
			k = "#" + k
		}

		seen[k] = true
		keys[i] = k
	}

	return keys
}
