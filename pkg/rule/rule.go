// Package rule defines the records exchanged with the rule engine service.
//
// The service stores every rule as a raw expression together with the root of
// its abstract syntax tree and a postfix rendering of the tree. The client only
// reads these records, so the types here carry no mutators.
package rule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Rule is a stored rule as returned by the list endpoint.
type Rule struct {
	ID         ID          `json:"id"          yaml:"id"`
	Name       string      `json:"rule_name"   yaml:"rule_name"`
	Expression string      `json:"rule"        yaml:"rule"`
	Root       Ref         `json:"root"        yaml:"root"`
	Postfix    PostfixExpr `json:"postfixExpr" yaml:"postfixExpr"`
}

// ID is a server-assigned identifier. The service emits string ids, but
// numeric ids are accepted and kept in their JSON text form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""

		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string

		err := json.Unmarshal(b, &s)
		if err != nil {
			return fmt.Errorf("decode id: %w", err)
		}

		*id = ID(s)

		return nil
	}

	var n json.Number

	err := json.Unmarshal(b, &n)
	if err != nil {
		return fmt.Errorf("decode id: %w", err)
	}

	*id = ID(n.String())

	return nil
}

// Ref is an opaque reference into a rule's syntax tree. The raw JSON token is
// preserved so that it round-trips unchanged.
type Ref struct {
	raw json.RawMessage
}

// NewRef wraps a raw JSON token.
func NewRef(raw string) Ref {
	return Ref{raw: json.RawMessage(raw)}
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	r.raw = append(r.raw[:0], bytes.TrimSpace(b)...)

	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}

	return r.raw, nil
}

func (r Ref) MarshalYAML() (any, error) {
	return r.String(), nil
}

// IsZero reports whether the reference is absent or null.
func (r Ref) IsZero() bool {
	return len(r.raw) == 0 || bytes.Equal(r.raw, []byte("null"))
}

func (r Ref) String() string {
	if r.IsZero() {
		return ""
	}

	var s string
	if err := json.Unmarshal(r.raw, &s); err == nil {
		return s
	}

	return string(r.raw)
}

// PostfixExpr is the reverse-Polish token sequence of a rule's tree.
//
// The service encodes it as a JSON array for created rules and as a single
// space-separated string for combined rules. Both decode to the same tokens.
type PostfixExpr []string

func (p *PostfixExpr) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*p = nil

		return nil

	case b[0] == '"':
		var s string

		err := json.Unmarshal(b, &s)
		if err != nil {
			return fmt.Errorf("decode postfix expression: %w", err)
		}

		*p = strings.Fields(s)

		return nil
	}

	var tokens []any

	err := json.Unmarshal(b, &tokens)
	if err != nil {
		return fmt.Errorf("decode postfix expression: %w", err)
	}

	out := make(PostfixExpr, 0, len(tokens))
	for _, t := range tokens {
		switch v := t.(type) {
		case string:
			out = append(out, v)
		default:
			out = append(out, fmt.Sprint(v))
		}
	}

	*p = out

	return nil
}

func (p PostfixExpr) String() string {
	return strings.Join(p, " ")
}
