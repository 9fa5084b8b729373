package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Nitika2334/Rule-Engine-App/pkg/log"
	"github.com/Nitika2334/Rule-Engine-App/pkg/repository"
	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
)

// ListRulesParams defines parameters for the list_rules tool.
type ListRulesParams struct {
	Where string `json:"where,omitempty"`
}

// ListRulesResult contains the result of listing rules.
type ListRulesResult struct {
	Error     string        `json:"error,omitempty"`
	Message   string        `json:"message"`
	Rules     []RuleDetails `json:"rules"`
	RuleCount int           `json:"ruleCount"`
}

// RuleDetails is a stored rule as reported to clients.
type RuleDetails struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Expression string   `json:"expression"`
	Root       string   `json:"root,omitempty"`
	Postfix    []string `json:"postfix"`
}

func newRuleDetails(r rule.Rule) RuleDetails {
	postfix := []string(r.Postfix)
	if postfix == nil {
		postfix = []string{}
	}

	return RuleDetails{
		ID:         string(r.ID),
		Name:       r.Name,
		Expression: r.Expression,
		Root:       r.Root.String(),
		Postfix:    postfix,
	}
}

func (s *Server) handleListRules(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ListRulesParams],
) (*mcp.CallToolResultFor[ListRulesResult], error) {
	startTime := time.Now()
	where := params.Arguments.Where

	// Compile before fetching, so a bad filter costs no request.
	var match func([]rule.Rule) ([]rule.Rule, error)

	if where != "" {
		f, err := s.env.NewRuleFilter(where)
		if err != nil {
			return createListRulesResult(ListRulesResult{
				Error: fmt.Sprintf("INVALID INPUT ERROR: compile 'where': %v", err),
			}), nil
		}

		match = f.Filter
	}

	state := repository.New(s.backend).FetchAll(ctx)
	if state.Failed() {
		return createListRulesResult(ListRulesResult{Error: state.Err}), nil
	}

	rules := state.Rules

	if match != nil {
		var err error

		rules, err = match(rules)
		if err != nil {
			return createListRulesResult(ListRulesResult{
				Error: fmt.Sprintf("INVALID INPUT ERROR: evaluate 'where': %v", err),
			}), nil
		}
	}

	result := ListRulesResult{Rules: make([]RuleDetails, 0, len(rules))}
	for _, r := range rules {
		result.Rules = append(result.Rules, newRuleDetails(r))
	}

	log.WithContext(ctx).DebugContext(ctx, "list_rules completed",
		slog.Int("stored", len(state.Rules)),
		slog.Int("matched", len(rules)),
		slog.Duration("duration", time.Since(startTime)),
	)

	return createListRulesResult(result), nil
}

// createListRulesResult creates the MCP tool result from a ListRulesResult.
func createListRulesResult(result ListRulesResult) *mcp.CallToolResultFor[ListRulesResult] {
	if result.Rules == nil {
		result.Rules = []RuleDetails{}
	}

	result.RuleCount = len(result.Rules)

	if result.Error != "" {
		result.Message = result.Error

		return &mcp.CallToolResultFor[ListRulesResult]{
			Content:           []mcp.Content{&mcp.TextContent{Text: result.Error}},
			StructuredContent: result,
			IsError:           true,
		}
	}

	switch result.RuleCount {
	case 1:
		result.Message = "Found 1 rule."
	default:
		result.Message = fmt.Sprintf("Found %d rules.", result.RuleCount)
	}

	return &mcp.CallToolResultFor[ListRulesResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: result.Message}},
		StructuredContent: result,
	}
}
