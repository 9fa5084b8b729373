// Package repository loads the stored rule collection for a single view
// activation.
//
// A [Repository] fetches at most once. Views that need fresh data create a new
// repository, so no state is cached across activations and instances never
// share state.
package repository

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/Nitika2334/Rule-Engine-App/pkg/log"
	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
)

// LoadErrorMessage is shown when the rule collection cannot be fetched.
const LoadErrorMessage = "Failed to load rules. Please try again later."

// Lister fetches the full rule collection.
type Lister interface {
	ListRules(ctx context.Context) ([]rule.Rule, error)
}

// State is a snapshot of a repository.
type State struct {
	Err     string
	Rules   []rule.Rule
	Loading bool
}

// Failed reports whether the fetch settled with an error.
func (s State) Failed() bool {
	return !s.Loading && s.Err != ""
}

type Repository struct {
	backend Lister
	once    sync.Once
	state   State
	mu      sync.RWMutex
}

// New creates a [Repository] in the loading state.
func New(backend Lister) *Repository {
	return &Repository{
		backend: backend,
		state:   State{Loading: true},
	}
}

// FetchAll requests the rule collection and settles the repository's state.
// Only the first call performs a request; later calls return the settled state.
func (r *Repository) FetchAll(ctx context.Context) State {
	r.once.Do(func() {
		rules, err := r.backend.ListRules(ctx)

		r.mu.Lock()
		defer r.mu.Unlock()

		if err != nil {
			log.WithContext(ctx).ErrorContext(ctx, "fetch rules", slog.Any("err", err))

			r.state = State{Err: LoadErrorMessage, Rules: []rule.Rule{}}

			return
		}

		if rules == nil {
			rules = []rule.Rule{}
		}

		log.WithContext(ctx).DebugContext(ctx, "fetched rules", slog.Int("count", len(rules)))

		r.state = State{Rules: rules}
	})

	return r.State()
}

// State returns a copy of the current state.
func (r *Repository) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.state
	s.Rules = slices.Clone(s.Rules)

	return s
}
