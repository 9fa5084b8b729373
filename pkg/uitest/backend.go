package uitest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Nitika2334/Rule-Engine-App/pkg/client"
	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
)

// Backend is an in-memory rule service. Each operation returns its Err field
// when set, and records its calls.
type Backend struct {
	ListErr     error
	CreateErr   error
	CombineErr  error
	EvaluateErr error

	// Block, when non-nil, delays ListRules until it is closed.
	Block chan struct{}

	Created  json.RawMessage
	Combined *client.CombineResponse
	Result   *client.EvaluationResponse

	Rules []rule.Rule

	creates   []rule.CreateRequest
	combines  []rule.CombineDraft
	evaluates []rule.EvaluationRequest
	lists     int

	mu sync.Mutex
}

func (b *Backend) ListRules(ctx context.Context) ([]rule.Rule, error) {
	b.mu.Lock()
	b.lists++
	block := b.Block
	b.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if b.ListErr != nil {
		return nil, b.ListErr
	}

	return append([]rule.Rule(nil), b.Rules...), nil
}

func (b *Backend) CreateRule(_ context.Context, req rule.CreateRequest) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.creates = append(b.creates, req)
	if b.CreateErr != nil {
		return nil, b.CreateErr
	}

	return b.Created, nil
}

func (b *Backend) CombineRules(_ context.Context, draft rule.CombineDraft) (*client.CombineResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.combines = append(b.combines, draft)
	if b.CombineErr != nil {
		return nil, b.CombineErr
	}

	if b.Combined == nil {
		return &client.CombineResponse{}, nil
	}

	return b.Combined, nil
}

func (b *Backend) EvaluateRule(_ context.Context, req rule.EvaluationRequest) (*client.EvaluationResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.evaluates = append(b.evaluates, req)
	if b.EvaluateErr != nil {
		return nil, b.EvaluateErr
	}

	if b.Result == nil {
		return &client.EvaluationResponse{}, nil
	}

	return b.Result, nil
}

// Lists returns the number of ListRules calls.
func (b *Backend) Lists() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.lists
}

func (b *Backend) Creates() []rule.CreateRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]rule.CreateRequest(nil), b.creates...)
}

func (b *Backend) Combines() []rule.CombineDraft {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]rule.CombineDraft(nil), b.combines...)
}

func (b *Backend) Evaluates() []rule.EvaluationRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]rule.EvaluationRequest(nil), b.evaluates...)
}
