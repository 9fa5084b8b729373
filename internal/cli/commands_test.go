package cli_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitika2334/Rule-Engine-App/internal/cli"
	"github.com/Nitika2334/Rule-Engine-App/pkg/client"
	"github.com/Nitika2334/Rule-Engine-App/pkg/submit"
)

const storedRules = `[
  {"id": "r1", "rule_name": "Seniors", "rule": "age > 60",
   "root": {"type": "operand", "value": "age > 60"}, "postfixExpr": ["age", "60", ">"]},
  {"id": "r2", "rule_name": "SalesAdults", "rule": "age > 18 AND department = 'Sales'",
   "root": {"type": "operator", "value": "AND"}, "postfixExpr": "age 18 > department 'Sales' = AND"}
]`

type response struct {
	body   string
	status int
}

type service struct {
	*httptest.Server

	bodies map[string][]string
	mu     sync.Mutex
}

func newService(t *testing.T, responses map[string]response) *service {
	t.Helper()

	s := &service{bodies: map[string][]string{}}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		s.mu.Lock()
		s.bodies[r.URL.Path] = append(s.bodies[r.URL.Path], string(b))
		s.mu.Unlock()

		resp, ok := responses[r.URL.Path]
		if !ok {
			resp = response{status: http.StatusNotFound, body: `{"error":"not found"}`}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		_, err = w.Write([]byte(resp.body))
		assert.NoError(t, err)
	}))
	t.Cleanup(s.Close)

	return s
}

func (s *service) requests(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.bodies[path]...)
}

// execute runs the root command against svc with a config path that does not
// exist, so defaults apply.
func execute(t *testing.T, svc *service, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	args = append(args, "--config", cfgPath, "--server", svc.URL, "--log-level", "error")

	var stdout, stderr bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), err
}

func TestList(t *testing.T) {
	svc := newService(t, map[string]response{
		client.PathListRules: {status: http.StatusOK, body: storedRules},
	})

	tcs := map[string]struct {
		check func(t *testing.T, out string)
		args  []string
	}{
		"text": {
			args: []string{"list"},
			check: func(t *testing.T, out string) {
				t.Helper()
				assert.Contains(t, out, "NAME")
				assert.Contains(t, out, "Seniors")
				assert.Contains(t, out, "age 18 > department 'Sales' = AND")
			},
		},
		"json": {
			args: []string{"list", "-o", "json"},
			check: func(t *testing.T, out string) {
				t.Helper()

				var got []map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &got))
				require.Len(t, got, 2)
				assert.Equal(t, "Seniors", got[0]["rule_name"])
				assert.Equal(t, []any{"age", "18", ">", "department", "'Sales'", "=", "AND"}, got[1]["postfixExpr"])
			},
		},
		"yaml": {
			args: []string{"list", "--output", "yaml"},
			check: func(t *testing.T, out string) {
				t.Helper()
				assert.Contains(t, out, "rule_name: Seniors")
				assert.Contains(t, out, "rule_name: SalesAdults")
			},
		},
		"where": {
			args: []string{"list", "-o", "json", "--where", "'AND' in operators(rule.postfix)"},
			check: func(t *testing.T, out string) {
				t.Helper()

				var got []map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &got))
				require.Len(t, got, 1)
				assert.Equal(t, "SalesAdults", got[0]["rule_name"])
			},
		},
		"where matches nothing": {
			args: []string{"list", "--where", "rule.name == 'nope'"},
			check: func(t *testing.T, out string) {
				t.Helper()
				assert.Contains(t, out, "No rules found.")
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, svc, tc.args...)
			require.NoError(t, err)

			tc.check(t, out)
		})
	}
}

func TestList_Errors(t *testing.T) {
	tcs := map[string]struct {
		list    response
		want    string
		args    []string
		fetches int
	}{
		"service error": {
			list:    response{status: http.StatusInternalServerError, body: `{"error":"db down"}`},
			args:    []string{"list"},
			want:    "Failed to load rules. Please try again later.",
			fetches: 1,
		},
		"bad output": {
			list: response{status: http.StatusOK, body: `[]`},
			args: []string{"list", "-o", "xml"},
			want: `invalid argument "xml" for "--output" flag`,
		},
		"bad where": {
			list: response{status: http.StatusOK, body: `[]`},
			args: []string{"list", "--where", "rule.name +"},
			want: `invalid argument "rule.name +" for "--where" flag`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			svc := newService(t, map[string]response{client.PathListRules: tc.list})

			_, err := execute(t, svc, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.Len(t, svc.requests(client.PathListRules), tc.fetches)
		})
	}
}

func TestSubmit(t *testing.T) {
	tcs := map[string]struct {
		responses map[string]response
		path      string
		wantBody  string
		wantOut   []string
		wantErr   string
		args      []string
	}{
		"create": {
			responses: map[string]response{
				client.PathCreate: {status: http.StatusCreated, body: `{"message":"created","id":"r9"}`},
			},
			args:     []string{"create", "Adult", "age > 18"},
			path:     client.PathCreate,
			wantBody: `{"rule_name":"Adult","rule":"age > 18"}`,
			wantOut:  []string{`"message": "created"`, `"id": "r9"`},
		},
		"create server error": {
			responses: map[string]response{
				client.PathCreate: {status: http.StatusBadRequest, body: `{"error":"Rule already exists"}`},
			},
			args:     []string{"create", "Adult", "age > 18"},
			path:     client.PathCreate,
			wantBody: `{"rule_name":"Adult","rule":"age > 18"}`,
			wantErr:  "Rule already exists",
		},
		"combine": {
			responses: map[string]response{
				client.PathCombine: {status: http.StatusOK, body: `{"message":"Rules combined successfully"}`},
			},
			args:     []string{"combine", "R3", "age > 18", "salary > 50000"},
			path:     client.PathCombine,
			wantBody: `{"rule_name":"R3","rules":["age > 18","salary > 50000"]}`,
			wantOut:  []string{"Rules combined successfully"},
		},
		"combine without error field": {
			responses: map[string]response{
				client.PathCombine: {status: http.StatusBadGateway, body: `<html>bad gateway</html>`},
			},
			args:     []string{"combine", "R3", "age > 18"},
			path:     client.PathCombine,
			wantBody: `{"rule_name":"R3","rules":["age > 18"]}`,
			wantErr:  submit.CombineFallback,
		},
		"evaluate": {
			responses: map[string]response{
				client.PathEvaluate: {status: http.StatusOK, body: `{"message":"Rule evaluated","result":true}`},
			},
			args:     []string{"evaluate", "Adult", `{"age": 35}`},
			path:     client.PathEvaluate,
			wantBody: `{"rule_name":"Adult","conditions":{"age":35}}`,
			wantOut:  []string{"Rule evaluated", `"result": true`},
		},
		"evaluate alias": {
			responses: map[string]response{
				client.PathEvaluate: {status: http.StatusOK, body: `{"message":"Rule evaluated","result":false}`},
			},
			args:     []string{"eval", "Adult", `{"age": 12}`},
			path:     client.PathEvaluate,
			wantBody: `{"rule_name":"Adult","conditions":{"age":12}}`,
			wantOut:  []string{`"result": false`},
		},
		"evaluate invalid conditions": {
			args:    []string{"evaluate", "Adult", "{"},
			path:    client.PathEvaluate,
			wantErr: submit.EvaluateFallback,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			svc := newService(t, tc.responses)

			out, err := execute(t, svc, tc.args...)

			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr, err.Error())

				var de *cli.DisplayError
				assert.ErrorAs(t, err, &de)
			} else {
				require.NoError(t, err)
			}

			for _, want := range tc.wantOut {
				assert.Contains(t, out, want)
			}

			bodies := svc.requests(tc.path)
			if tc.wantBody == "" {
				assert.Empty(t, bodies)

				return
			}

			require.Len(t, bodies, 1)
			assert.JSONEq(t, tc.wantBody, bodies[0])
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	svc := newService(t, nil)

	cmd := cli.NewRootCmd()
	cmd.SetArgs([]string{"list", "--server", "ftp://" + svc.Listener.Addr().String(), "--config", filepath.Join(t.TempDir(), "c.yaml")})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrInvalidConfig)
	assert.Empty(t, svc.requests(client.PathListRules))
}

func TestShowConfig(t *testing.T) {
	svc := newService(t, nil)

	out, err := execute(t, svc, "--show-config")
	require.NoError(t, err)

	assert.Contains(t, out, "rules.nitika2334.github.io/v1beta1")
	assert.Contains(t, out, "kind: Configuration")

	// The flag overrides the written default.
	assert.Contains(t, out, svc.URL)
	assert.NotContains(t, out, client.DefaultURL)
}
