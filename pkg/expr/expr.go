package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
)

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

var ErrNotBool = errors.New("expression must evaluate to a bool")

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates an [Environment] with the rule variable and the
// package's functions. opts are applied after them.
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append([]cel.EnvOption{
		cel.Variable("rule", cel.MapType(cel.StringType, cel.DynType)),
		cel.Lib(&lib{}),
	}, opts...)

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

// Compile compiles a CEL expression and returns a program.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	if !ast.OutputType().IsExactType(types.BoolType) && !ast.OutputType().IsExactType(types.DynType) {
		return nil, fmt.Errorf("%w, got %s", ErrNotBool, ast.OutputType())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}

// RuleFilter is a compiled boolean expression over a rule.
type RuleFilter struct {
	program    cel.Program
	expression string
}

// NewRuleFilter compiles expression in a default [Environment].
func NewRuleFilter(expression string) (*RuleFilter, error) {
	env, err := NewEnvironment()
	if err != nil {
		return nil, err
	}

	return env.NewRuleFilter(expression)
}

func (e *Environment) NewRuleFilter(expression string) (*RuleFilter, error) {
	program, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}

	return &RuleFilter{program: program, expression: expression}, nil
}

// Match reports whether r satisfies the filter.
func (f *RuleFilter) Match(r rule.Rule) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{"rule": Activation(r)})
	if err != nil {
		return false, fmt.Errorf("evaluate %q for rule %q: %w", f.expression, r.Name, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w, got %s for rule %q", ErrNotBool, out.Type(), r.Name)
	}

	return b, nil
}

// Filter returns the rules that match, in their original order.
func (f *RuleFilter) Filter(rules []rule.Rule) ([]rule.Rule, error) {
	out := make([]rule.Rule, 0, len(rules))

	for _, r := range rules {
		ok, err := f.Match(r)
		if err != nil {
			return nil, err
		}

		if ok {
			out = append(out, r)
		}
	}

	return out, nil
}

// Activation returns the value bound to `rule` for r.
func Activation(r rule.Rule) map[string]any {
	postfix := []string(r.Postfix)
	if postfix == nil {
		postfix = []string{}
	}

	return map[string]any{
		"id":         string(r.ID),
		"name":       r.Name,
		"expression": r.Expression,
		"root":       r.Root.String(),
		"postfix":    postfix,
	}
}
