package client_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitika2334/Rule-Engine-App/pkg/client"
	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
)

type recorded struct {
	header http.Header
	method string
	path   string
	body   string
}

func newServer(t *testing.T, status int, response string) (*client.Client, *[]recorded) {
	t.Helper()

	var calls []recorded

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		calls = append(calls, recorded{
			method: r.Method,
			path:   r.URL.Path,
			body:   string(b),
			header: r.Header.Clone(),
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, err = w.Write([]byte(response))
		assert.NoError(t, err)
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)

	return c, &calls
}

func TestNew(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		url string
		err bool
	}{
		"http":         {url: "http://127.0.0.1:5000"},
		"https prefix": {url: "https://rules.example.com/engine"},
		"no scheme":    {url: "127.0.0.1:5000", err: true},
		"ftp":          {url: "ftp://example.com", err: true},
		"no host":      {url: "http://", err: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c, err := client.New(tc.url, client.WithTimeout(time.Second))
			if tc.err {
				require.ErrorIs(t, err, client.ErrInvalidBaseURL)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.url, c.BaseURL())
		})
	}
}

func TestClient_ListRules(t *testing.T) {
	t.Parallel()

	c, calls := newServer(t, http.StatusOK, `[
		{"id":"b","rule_name":"Second","rule":"b = 2","root":2,"postfixExpr":["b","2","="]},
		{"id":"a","rule_name":"First","rule":"a = 1","root":1,"postfixExpr":"a 1 ="}
	]`)

	rules, err := c.ListRules(t.Context())
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "Second", rules[0].Name)
	assert.Equal(t, "First", rules[1].Name)
	assert.Equal(t, rule.PostfixExpr{"a", "1", "="}, rules[1].Postfix)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, client.PathListRules, call.path)
	assert.Empty(t, call.body)
	assert.NotEmpty(t, call.header.Get(client.HeaderRequestID))
}

func TestClient_CreateRule(t *testing.T) {
	t.Parallel()

	response := `{"message":"created"}`
	c, calls := newServer(t, http.StatusCreated, response)

	got, err := c.CreateRule(t.Context(), rule.CreateRequest{RuleName: "Adult", RuleExpression: "age > 18"})
	require.NoError(t, err)
	assert.JSONEq(t, response, string(got))

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, client.PathCreate, call.path)
	assert.JSONEq(t, `{"rule_name":"Adult","rule":"age > 18"}`, call.body)
	assert.Equal(t, "application/json", call.header.Get("Content-Type"))
}

func TestClient_CombineRules(t *testing.T) {
	t.Parallel()

	c, calls := newServer(t, http.StatusOK, `{"message":"combined"}`)

	got, err := c.CombineRules(t.Context(), rule.CombineDraft{
		RuleName: "R3",
		Rules:    []string{"age>18", "dept=='Sales'"},
	})
	require.NoError(t, err)
	assert.Equal(t, "combined", got.Message)

	require.Len(t, *calls, 1)
	assert.Equal(t, client.PathCombine, (*calls)[0].path)
	assert.JSONEq(t, `{"rule_name":"R3","rules":["age>18","dept=='Sales'"]}`, (*calls)[0].body)
}

func TestClient_EvaluateRule(t *testing.T) {
	t.Parallel()

	response := `{"status":"success","message":"Rule evaluated","data":{"evaluation_result":true}}`
	c, calls := newServer(t, http.StatusOK, response)

	got, err := c.EvaluateRule(t.Context(), rule.EvaluationRequest{
		RuleName:   "Adult",
		Conditions: map[string]any{"age": 35},
	})
	require.NoError(t, err)
	assert.Equal(t, "Rule evaluated", got.Message)
	assert.JSONEq(t, response, string(got.Payload))

	require.Len(t, *calls, 1)
	assert.Equal(t, client.PathEvaluate, (*calls)[0].path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte((*calls)[0].body), &sent))
	assert.Equal(t, "Adult", sent["rule_name"])
	assert.Equal(t, map[string]any{"age": float64(35)}, sent["conditions"])
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		body       string
		wantMsg    string
		status     int
		wantServer bool
	}{
		"error field": {
			status:     http.StatusBadRequest,
			body:       `{"error":"Rule name already exists"}`,
			wantMsg:    "Rule name already exists",
			wantServer: true,
		},
		"message without error field": {
			status: http.StatusBadRequest,
			body:   `{"status":"error","message":"Invalid rule"}`,
		},
		"html body": {
			status: http.StatusInternalServerError,
			body:   `<html>boom</html>`,
		},
		"empty error field": {
			status: http.StatusNotFound,
			body:   `{"error":""}`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c, _ := newServer(t, tc.status, tc.body)

			_, err := c.CombineRules(t.Context(), rule.CombineDraft{RuleName: "R3", Rules: []string{"a>1"}})
			require.Error(t, err)

			var apiErr *client.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)

			msg, ok := client.ServerMessage(err)
			assert.Equal(t, tc.wantServer, ok)
			assert.Equal(t, tc.wantMsg, msg)

			if !tc.wantServer {
				assert.Equal(t, "Failed to combine rules", client.MessageOr(err, "Failed to combine rules"))
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := client.New(url)
	require.NoError(t, err)

	_, err = c.ListRules(t.Context())
	require.Error(t, err)

	var apiErr *client.APIError
	assert.NotErrorAs(t, err, &apiErr)
	assert.Equal(t, "Something went wrong", client.MessageOr(err, "Something went wrong"))
}

func TestNew_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	tcs := map[string]struct {
		build func(hc *http.Client) (*client.Client, error)
	}{
		"timeout before http client": {
			build: func(hc *http.Client) (*client.Client, error) {
				return client.New(srv.URL, client.WithTimeout(50*time.Millisecond), client.WithHTTPClient(hc))
			},
		},
		"timeout after http client": {
			build: func(hc *http.Client) (*client.Client, error) {
				return client.New(srv.URL, client.WithHTTPClient(hc), client.WithTimeout(50*time.Millisecond))
			},
		},
		"config timeout with http client": {
			build: func(hc *http.Client) (*client.Client, error) {
				return client.NewFromConfig(&client.Config{URL: srv.URL, Timeout: "50ms"}, client.WithHTTPClient(hc))
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			shared := &http.Client{}

			c, err := tc.build(shared)
			require.NoError(t, err)

			start := time.Now()
			_, err = c.ListRules(t.Context())
			require.Error(t, err)

			assert.Less(t, time.Since(start), 3*time.Second)
			assert.Zero(t, shared.Timeout)
		})
	}
}
