package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitika2334/Rule-Engine-App/pkg/expr"
	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
)

var rules = []rule.Rule{
	{
		ID:         "r1",
		Name:       "Adult",
		Expression: "age > 18",
		Root:       rule.NewRef(`"n1"`),
		Postfix:    rule.PostfixExpr{"age", "18", ">"},
	},
	{
		ID:         "r2",
		Name:       "Über Sales",
		Expression: "age > 30 AND department = 'Sales'",
		Root:       rule.NewRef(`"n7"`),
		Postfix:    rule.PostfixExpr{"age", "30", ">", "department", "'Sales'", "=", "AND"},
	},
	{
		ID:         "42",
		Name:       "Combined",
		Expression: "(a > 1) OR (b < 2) AND c = 3",
		Postfix:    rule.PostfixExpr{"a", "1", ">", "b", "2", "<", "OR", "c", "3", "=", "and"},
	},
}

func names(rs []rule.Rule) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}

	return out
}

func TestRuleFilter_Filter(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expression string
		want       []string
	}{
		"by name": {
			expression: `rule.name == "Adult"`,
			want:       []string{"Adult"},
		},
		"by id": {
			expression: `rule.id == "42"`,
			want:       []string{"Combined"},
		},
		"expression contains": {
			expression: `rule.expression.contains("age")`,
			want:       []string{"Adult", "Über Sales"},
		},
		"root": {
			expression: `rule.root == "n7"`,
			want:       []string{"Über Sales"},
		},
		"postfix membership": {
			expression: `"department" in rule.postfix`,
			want:       []string{"Über Sales"},
		},
		"postfix size": {
			expression: `rule.postfix.size() <= 3`,
			want:       []string{"Adult"},
		},
		"fold": {
			expression: `fold(rule.name).startsWith("uber")`,
			want:       []string{"Über Sales"},
		},
		"operators": {
			expression: `operators(rule.postfix) == ["OR", "AND"]`,
			want:       []string{"Combined"},
		},
		"strings extension": {
			expression: `rule.name.lowerAscii() == "combined"`,
			want:       []string{"Combined"},
		},
		"everything": {
			expression: `true`,
			want:       []string{"Adult", "Über Sales", "Combined"},
		},
		"nothing": {
			expression: `false`,
			want:       []string{},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := expr.NewRuleFilter(tc.expression)
			require.NoError(t, err)

			got, err := f.Filter(rules)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(got))
		})
	}
}

func TestNewRuleFilter_Errors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expression string
	}{
		"syntax":        {expression: `rule.name ==`},
		"unknown var":   {expression: `user.name == "x"`},
		"unknown func":  {expression: `nope(rule.name)`},
		"not a boolean": {expression: `rule.postfix.size()`},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := expr.NewRuleFilter(tc.expression)
			require.Error(t, err)
		})
	}
}

func TestRuleFilter_DynamicNonBool(t *testing.T) {
	t.Parallel()

	// Map values are dynamic, so this only fails once evaluated.
	f, err := expr.NewRuleFilter(`rule.name`)
	require.NoError(t, err)

	_, err = f.Match(rules[0])
	require.ErrorIs(t, err, expr.ErrNotBool)
}

func TestActivation(t *testing.T) {
	t.Parallel()

	got := expr.Activation(rule.Rule{Name: "Empty"})

	assert.Equal(t, map[string]any{
		"id":         "",
		"name":       "Empty",
		"expression": "",
		"root":       "",
		"postfix":    []string{},
	}, got)
}
