// Package client talks to the rule engine service over HTTP.
//
// All four operations exchange JSON with the service under the /api/v1/
// prefix. Any status outside 2xx is reported as an [*APIError] carrying the
// service's "error" field when the body provides one.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Nitika2334/Rule-Engine-App/pkg/log"
	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
	"github.com/Nitika2334/Rule-Engine-App/pkg/version"
)

const (
	PathListRules = "/api/v1/getRules"
	PathCreate    = "/api/v1/create"
	PathCombine   = "/api/v1/combine_rules"
	PathEvaluate  = "/api/v1/eval"

	// HeaderRequestID identifies a single call in service logs.
	HeaderRequestID = "X-Request-Id"

	maxResponseBytes = 8 << 20
	tracerName       = "github.com/Nitika2334/Rule-Engine-App/pkg/client"
)

var ErrInvalidBaseURL = errors.New("invalid base URL")

// Client is an HTTP client for the rule engine service.
type Client struct {
	http      *http.Client
	baseURL   *url.URL
	tracer    trace.Tracer
	timeout   *time.Duration
	userAgent string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying [http.Client].
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded, so the
// service's own timeout governs. The timeout applies to a copy of the
// [http.Client], whichever order it is given in relative to [WithHTTPClient].
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = &d
	}
}

// WithTracerProvider creates spans from tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a [Client] for the service rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidBaseURL, baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q: missing host", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		http:      &http.Client{},
		baseURL:   u,
		tracer:    otel.Tracer(tracerName),
		userAgent: "rules/" + version.GetVersion(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.timeout != nil {
		hc := *c.http
		hc.Timeout = *c.timeout
		c.http = &hc
	}

	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// CombineResponse is the body returned by the combine endpoint.
type CombineResponse struct {
	Message string `json:"message"`
}

// EvaluationResponse holds the evaluate endpoint's body verbatim, along with
// its optional message field.
type EvaluationResponse struct {
	Message string
	Payload json.RawMessage
}

// ListRules fetches every stored rule in the order the service returns them.
func (c *Client) ListRules(ctx context.Context) ([]rule.Rule, error) {
	body, err := c.do(ctx, http.MethodGet, PathListRules, nil)
	if err != nil {
		return nil, err
	}

	var rules []rule.Rule

	err = json.Unmarshal(body, &rules)
	if err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	return rules, nil
}

// CreateRule stores a new rule and returns the service's response verbatim.
func (c *Client) CreateRule(ctx context.Context, req rule.CreateRequest) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, PathCreate, req)
	if err != nil {
		return nil, err
	}

	return json.RawMessage(body), nil
}

// CombineRules merges raw rule expressions into a new named rule.
func (c *Client) CombineRules(ctx context.Context, draft rule.CombineDraft) (*CombineResponse, error) {
	body, err := c.do(ctx, http.MethodPost, PathCombine, draft)
	if err != nil {
		return nil, err
	}

	resp := &CombineResponse{}

	err = json.Unmarshal(body, resp)
	if err != nil {
		return nil, fmt.Errorf("decode combine response: %w", err)
	}

	return resp, nil
}

// EvaluateRule evaluates a stored rule against the given conditions.
func (c *Client) EvaluateRule(ctx context.Context, req rule.EvaluationRequest) (*EvaluationResponse, error) {
	body, err := c.do(ctx, http.MethodPost, PathEvaluate, req)
	if err != nil {
		return nil, err
	}

	var msg struct {
		Message string `json:"message"`
	}

	// The payload is shown verbatim, so a body without a message is fine.
	_ = json.Unmarshal(body, &msg)

	return &EvaluationResponse{
		Message: msg.Message,
		Payload: json.RawMessage(body),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	body, err := c.roundTrip(ctx, method, path, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	return body, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in any) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}

		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	reqID := uuid.NewString()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderRequestID, reqID)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := log.WithContext(ctx).With(
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", reqID),
	)

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.DebugContext(ctx, "request failed", slog.Any("err", err))

		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Body is fully read below.

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	logger.DebugContext(ctx, "request complete",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
		slog.Int("bytes", len(body)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(method, path, resp.StatusCode, body)
	}

	return body, nil
}
