// Package submit runs the create, combine, and evaluate operations and
// reduces each result to what a form displays.
//
// Every failure collapses to a single message. The service's "error" field is
// preferred; anything else, including a request rejected before it was sent,
// shows the operation's fallback text. Operations never retry and never cancel
// one another, so when calls overlap the last one to finish is what the form
// shows.
package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Nitika2334/Rule-Engine-App/pkg/client"
	"github.com/Nitika2334/Rule-Engine-App/pkg/log"
	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
)

// Fallback messages used when the service provides no "error" field.
const (
	CreateFallback   = "Something went wrong"
	CombineFallback  = "Failed to combine rules"
	EvaluateFallback = "Error Evaluating rules"
)

// Backend performs the write and query operations.
type Backend interface {
	CreateRule(ctx context.Context, req rule.CreateRequest) (json.RawMessage, error)
	CombineRules(ctx context.Context, draft rule.CombineDraft) (*client.CombineResponse, error)
	EvaluateRule(ctx context.Context, req rule.EvaluationRequest) (*client.EvaluationResponse, error)
}

// Operation identifies one of the submission operations.
type Operation int

const (
	OpCreate Operation = iota
	OpCombine
	OpEvaluate
)

func (o Operation) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpCombine:
		return "combine"
	case OpEvaluate:
		return "evaluate"
	}

	return fmt.Sprintf("Operation(%d)", int(o))
}

// Fallback returns the operation's fallback error message.
func (o Operation) Fallback() string {
	switch o {
	case OpCombine:
		return CombineFallback
	case OpEvaluate:
		return EvaluateFallback
	default:
		return CreateFallback
	}
}

// Outcome is the normalized result of one operation.
type Outcome struct {
	Err     error           // Underlying failure, for logging.
	Error   string          // Displayable failure message.
	Message string          // The service's "message" field.
	Payload json.RawMessage // Success body, verbatim.
	Op      Operation
}

// Failed reports whether the operation failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

type Service struct {
	backend Backend
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// CreateRule stores a new rule. On success the payload is the service's
// response, unchanged.
func (s *Service) CreateRule(ctx context.Context, ruleName, ruleExpression string) Outcome {
	req := rule.CreateRequest{RuleName: ruleName, RuleExpression: ruleExpression}
	if err := req.Validate(); err != nil {
		return s.fail(ctx, OpCreate, err)
	}

	payload, err := s.backend.CreateRule(ctx, req)
	if err != nil {
		return s.fail(ctx, OpCreate, err)
	}

	return Outcome{Op: OpCreate, Payload: payload}
}

// CombineRules merges raw rule expressions into a new rule named ruleName.
func (s *Service) CombineRules(ctx context.Context, ruleName string, ruleExpressions []string) Outcome {
	draft := rule.CombineDraft{RuleName: ruleName, Rules: ruleExpressions}
	if err := draft.Validate(); err != nil {
		return s.fail(ctx, OpCombine, err)
	}

	resp, err := s.backend.CombineRules(ctx, draft)
	if err != nil {
		return s.fail(ctx, OpCombine, err)
	}

	return Outcome{Op: OpCombine, Message: resp.Message}
}

// EvaluateRule evaluates the rule named ruleName. conditionsText must hold a
// JSON object; otherwise the call fails without contacting the service.
func (s *Service) EvaluateRule(ctx context.Context, ruleName, conditionsText string) Outcome {
	conditions, err := rule.ParseConditions(conditionsText)
	if err != nil {
		return s.fail(ctx, OpEvaluate, err)
	}

	req := rule.EvaluationRequest{RuleName: ruleName, Conditions: conditions}
	if err := req.Validate(); err != nil {
		return s.fail(ctx, OpEvaluate, err)
	}

	resp, err := s.backend.EvaluateRule(ctx, req)
	if err != nil {
		return s.fail(ctx, OpEvaluate, err)
	}

	return Outcome{Op: OpEvaluate, Message: resp.Message, Payload: resp.Payload}
}

func (s *Service) fail(ctx context.Context, op Operation, err error) Outcome {
	log.WithContext(ctx).DebugContext(ctx, "submission failed",
		slog.String("op", op.String()),
		slog.Any("err", err),
	)

	return Outcome{
		Op:    op,
		Err:   fmt.Errorf("%s: %w", op, err),
		Error: client.MessageOr(err, op.Fallback()),
	}
}
