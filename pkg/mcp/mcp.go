// Package mcp exposes the rule engine operations as Model Context Protocol
// tools, so that agents can list, create, combine, and evaluate rules.
package mcp

import "github.com/modelcontextprotocol/go-sdk/jsonschema"

const (
	name         = "rules"
	instructions = `MCP Server 'rules' manages eligibility rules stored by a rule engine service.

A rule has a name and a boolean expression over user attributes, e.g. "age > 30 AND department = 'Sales'".

Tools:
- 'list_rules' returns the stored rules. Pass 'where' to filter them with a CEL expression over 'rule' (fields: id, name, expression, root, postfix).
- 'create_rule' stores a new rule from a name and an expression.
- 'combine_rules' stores a new rule that merges several rule expressions.
- 'evaluate_rule' evaluates a stored rule against a JSON object of conditions.

REQUIRED workflow:
1. Use 'list_rules' first to see which rule names exist.
2. Use EXACT rule names from 'list_rules' output when calling 'evaluate_rule'.
3. After 'create_rule' or 'combine_rules', call 'list_rules' again to confirm the stored result.
`

	// Payloads longer than this are truncated in text content. The structured
	// content always carries the full payload.
	maxPreview = 2000
)

func newStringSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: description,
	}
}

func newRuleNameSchema() *jsonschema.Schema {
	return newStringSchema("The name of the rule, e.g. \"R1\".")
}

// truncateString truncates a string to maxLen bytes, marking the cut.
func truncateString(str string, maxLen int) string {
	if len(str) > maxLen {
		return str[:maxLen] + "\n[OUTPUT TRUNCATED]"
	}

	return str
}
