package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Nitika2334/Rule-Engine-App/pkg/expr"
	"github.com/Nitika2334/Rule-Engine-App/pkg/repository"
	"github.com/Nitika2334/Rule-Engine-App/pkg/submit"
	"github.com/Nitika2334/Rule-Engine-App/pkg/version"
)

const tracerName = "github.com/Nitika2334/Rule-Engine-App/pkg/mcp"

// Backend is the rule service the tools call.
type Backend interface {
	repository.Lister
	submit.Backend
}

// Server implements the MCP server for the rule engine.
type Server struct {
	backend Backend
	svc     *submit.Service
	env     *expr.Environment
	server  *mcp.Server
	tracer  trace.Tracer
	address string
}

// ServerOpt configures a [Server].
type ServerOpt func(*Server)

// WithTracerProvider sets the provider used for tool call spans. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) ServerOpt {
	return func(s *Server) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// NewServer creates a new MCP server. An empty address serves over stdio.
func NewServer(address string, backend Backend, opts ...ServerOpt) (*Server, error) {
	env, err := expr.NewEnvironment()
	if err != nil {
		return nil, fmt.Errorf("create filter environment: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		address: address,
		backend: backend,
		svc:     submit.NewService(backend),
		env:     env,
		server:  mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		tracer:  otel.GetTracerProvider().Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	return s, nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_rules",
		Description: "List the rules stored by the rule engine. Optionally filter them with a CEL expression.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"where": newStringSchema(
					"A CEL expression over 'rule' that must evaluate to a bool, " +
						"e.g. \"rule.name.startsWith('R')\" or \"'AND' in operators(rule.postfix)\".",
				),
			},
		},
	}, WithTracing(s.tracer, s.handleListRules))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_rule",
		Description: "Create a rule from a name and a boolean expression.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"ruleName": newRuleNameSchema(),
				"rule": newStringSchema(
					"The rule expression, e.g. \"(age > 30 AND department = 'Sales') OR salary > 50000\".",
				),
			},
			Required: []string{"ruleName", "rule"},
		},
	}, WithTracing(s.tracer, s.handleCreateRule))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "combine_rules",
		Description: "Create a rule that combines several rule expressions.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"ruleName": newRuleNameSchema(),
				"rules": {
					Type:        "array",
					Description: "The rule expressions to combine, in order.",
					Items:       newStringSchema("A rule expression."),
				},
			},
			Required: []string{"ruleName", "rules"},
		},
	}, WithTracing(s.tracer, s.handleCombineRules))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate_rule",
		Description: "Evaluate a stored rule against user attributes. You MUST use a rule name from the list_rules output EXACTLY.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"ruleName": newRuleNameSchema(),
				"conditions": {
					Type:        "object",
					Description: "The attributes to evaluate the rule against, e.g. {\"age\": 35, \"department\": \"Sales\"}.",
				},
			},
			Required: []string{"ruleName", "conditions"},
		},
	}, WithTracing(s.tracer, s.handleEvaluateRule))
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server and blocks until ctx is canceled or the
// transport fails.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.ErrorContext(ctx, "shutdown MCP server", slog.Any("err", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)

	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
