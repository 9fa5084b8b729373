package rule_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
)

func TestRule_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  rule.Rule
	}{
		"created rule with postfix array": {
			input: `{"id":"6712a1","rule_name":"Adult","rule":"age > 18","root":140231,"postfixExpr":["age",">","18"]}`,
			want: rule.Rule{
				ID:         "6712a1",
				Name:       "Adult",
				Expression: "age > 18",
				Root:       rule.NewRef("140231"),
				Postfix:    rule.PostfixExpr{"age", ">", "18"},
			},
		},
		"combined rule with postfix string": {
			input: `{"id":"6712a2","rule_name":"R3","rule":"(age>18) AND (dept=='Sales')","root":"n1","postfixExpr":"age 18 > dept 'Sales' == AND"}`,
			want: rule.Rule{
				ID:         "6712a2",
				Name:       "R3",
				Expression: "(age>18) AND (dept=='Sales')",
				Root:       rule.NewRef(`"n1"`),
				Postfix:    rule.PostfixExpr{"age", "18", ">", "dept", "'Sales'", "==", "AND"},
			},
		},
		"numeric id and null fields": {
			input: `{"id":42,"rule_name":"X","rule":"a = 1","root":null,"postfixExpr":null}`,
			want: rule.Rule{
				ID:         "42",
				Name:       "X",
				Expression: "a = 1",
				Root:       rule.NewRef("null"),
			},
		},
		"mixed postfix tokens": {
			input: `{"id":"1","rule_name":"N","rule":"salary > 50000","postfixExpr":["salary",">",50000]}`,
			want: rule.Rule{
				ID:         "1",
				Name:       "N",
				Expression: "salary > 50000",
				Postfix:    rule.PostfixExpr{"salary", ">", "50000"},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var got rule.Rule

			err := json.Unmarshal([]byte(tc.input), &got)
			require.NoError(t, err)

			assert.Equal(t, tc.want.ID, got.ID)
			assert.Equal(t, tc.want.Name, got.Name)
			assert.Equal(t, tc.want.Expression, got.Expression)
			assert.Equal(t, tc.want.Root.String(), got.Root.String())
			assert.Equal(t, tc.want.Postfix, got.Postfix)
		})
	}
}

func TestRef(t *testing.T) {
	t.Parallel()

	var r rule.Ref

	require.NoError(t, json.Unmarshal([]byte(`140231`), &r))
	assert.Equal(t, "140231", r.String())
	assert.False(t, r.IsZero())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `140231`, string(b))

	var empty rule.Ref

	assert.True(t, empty.IsZero())
	assert.Empty(t, empty.String())

	b, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestPostfixExpr_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "age 18 >", rule.PostfixExpr{"age", "18", ">"}.String())
	assert.Empty(t, rule.PostfixExpr(nil).String())
}

func TestParseConditions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want  map[string]any
		input string
		err   bool
	}{
		"object": {
			input: `{"age": 35, "department": "Sales"}`,
			want:  map[string]any{"age": float64(35), "department": "Sales"},
		},
		"empty object": {
			input: `{}`,
			want:  map[string]any{},
		},
		"truncated": {
			input: `{`,
			err:   true,
		},
		"empty text": {
			input: ``,
			err:   true,
		},
		"array": {
			input: `[1, 2]`,
			err:   true,
		},
		"null": {
			input: `null`,
			err:   true,
		},
		"scalar": {
			input: `"age"`,
			err:   true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := rule.ParseConditions(tc.input)
			if tc.err {
				require.ErrorIs(t, err, rule.ErrInvalidConditions)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRequests_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		req interface{ Validate() error }
		err bool
	}{
		"create ok": {
			req: rule.CreateRequest{RuleName: "Adult", RuleExpression: "age > 18"},
		},
		"create without name": {
			req: rule.CreateRequest{RuleExpression: "age > 18"},
			err: true,
		},
		"create without expression": {
			req: rule.CreateRequest{RuleName: "Adult"},
			err: true,
		},
		"combine ok": {
			req: rule.CombineDraft{RuleName: "R3", Rules: []string{"age>18", "dept=='Sales'"}},
		},
		"combine with no rows": {
			req: rule.CombineDraft{RuleName: "R3"},
		},
		"combine with empty row": {
			req: rule.CombineDraft{RuleName: "R3", Rules: []string{"age>18", ""}},
			err: true,
		},
		"combine without name": {
			req: rule.CombineDraft{Rules: []string{"age>18"}},
			err: true,
		},
		"evaluate ok": {
			req: rule.EvaluationRequest{RuleName: "Adult", Conditions: map[string]any{}},
		},
		"evaluate without conditions": {
			req: rule.EvaluationRequest{RuleName: "Adult"},
			err: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.req.Validate()
			if tc.err {
				require.ErrorIs(t, err, rule.ErrInvalidRequest)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestCombineDraft_MarshalJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(rule.CombineDraft{RuleName: "R3"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rule_name":"R3","rules":[]}`, string(b))

	b, err = json.Marshal(rule.CombineDraft{RuleName: "R3", Rules: []string{"a > 1"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rule_name":"R3","rules":["a > 1"]}`, string(b))
}
