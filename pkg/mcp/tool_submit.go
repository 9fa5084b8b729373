package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Nitika2334/Rule-Engine-App/pkg/submit"
)

// CreateRuleParams defines parameters for the create_rule tool.
type CreateRuleParams struct {
	RuleName string `json:"ruleName"`
	Rule     string `json:"rule"`
}

// CombineRulesParams defines parameters for the combine_rules tool.
type CombineRulesParams struct {
	RuleName string   `json:"ruleName"`
	Rules    []string `json:"rules"`
}

// EvaluateRuleParams defines parameters for the evaluate_rule tool.
type EvaluateRuleParams struct {
	Conditions map[string]any `json:"conditions"`
	RuleName   string         `json:"ruleName"`
}

// SubmitResult is the result of create_rule, combine_rules, and
// evaluate_rule.
type SubmitResult struct {
	// Payload is the service's response body, when it returned one.
	Payload   any    `json:"payload,omitempty"`
	Operation string `json:"operation"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleCreateRule(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[CreateRuleParams],
) (*mcp.CallToolResultFor[SubmitResult], error) {
	args := params.Arguments

	return createSubmitResult(s.svc.CreateRule(ctx, args.RuleName, args.Rule)), nil
}

func (s *Server) handleCombineRules(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[CombineRulesParams],
) (*mcp.CallToolResultFor[SubmitResult], error) {
	args := params.Arguments

	return createSubmitResult(s.svc.CombineRules(ctx, args.RuleName, args.Rules)), nil
}

func (s *Server) handleEvaluateRule(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[EvaluateRuleParams],
) (*mcp.CallToolResultFor[SubmitResult], error) {
	args := params.Arguments

	// The service parses conditions from text, as typed in the UI.
	conditions := "null"
	if args.Conditions != nil {
		b, err := json.Marshal(args.Conditions)
		if err != nil {
			return nil, fmt.Errorf("encode conditions: %w", err)
		}

		conditions = string(b)
	}

	return createSubmitResult(s.svc.EvaluateRule(ctx, args.RuleName, conditions)), nil
}

// createSubmitResult creates the MCP tool result from a submission outcome.
func createSubmitResult(o submit.Outcome) *mcp.CallToolResultFor[SubmitResult] {
	result := SubmitResult{
		Operation: o.Op.String(),
		Message:   o.Message,
		Error:     o.Error,
	}

	if o.Failed() {
		return &mcp.CallToolResultFor[SubmitResult]{
			Content:           []mcp.Content{&mcp.TextContent{Text: "Error: " + o.Error}},
			StructuredContent: result,
			IsError:           true,
		}
	}

	text := o.Message
	if text == "" {
		text = fmt.Sprintf("%s succeeded.", o.Op)
	}

	if len(o.Payload) > 0 {
		var payload any
		if err := json.Unmarshal(o.Payload, &payload); err == nil {
			result.Payload = payload
		}

		var buf bytes.Buffer
		if err := json.Indent(&buf, o.Payload, "", "  "); err == nil {
			text += "\n\n" + truncateString(buf.String(), maxPreview)
		}
	}

	return &mcp.CallToolResultFor[SubmitResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: text}},
		StructuredContent: result,
	}
}
