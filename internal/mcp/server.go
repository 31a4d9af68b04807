// Package mcp implements a Model Context Protocol server exposing trial
// restoration as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/trialscope/trialscope/internal/observability"
	"github.com/trialscope/trialscope/pkg/version"
)

const serverName = "trialscope"

// ServerDeps carries the optional wiring for a Server. A nil Logger falls
// back to the slog default; a nil Metrics or Tracer disables that concern.
type ServerDeps struct {
	Logger  *slog.Logger
	Metrics *observability.REDMetrics
	Tracer  trace.Tracer
}

// Server wraps the MCP SDK server with the trial restoration tool set.
type Server struct {
	inner   *mcpsdk.Server
	tools   []string
	metrics *observability.REDMetrics
	tracer  trace.Tracer
}

// NewServer creates an MCP server with every trial tool registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	srv := &Server{
		inner: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		}, opts),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
	}

	registerTool(srv, ToolNameRestore, restoreToolDescription, handleRestore)
	registerTool(srv, ToolNameBestCheckpoint, bestToolDescription, handleBestCheckpoint)
	registerTool(srv, ToolNameHistory, historyToolDescription, handleHistory)
	registerTool(srv, ToolNameExperimentList, experimentToolDescription, handleExperimentList)

	return srv
}

// ListToolNames returns the registered tool names in sorted order.
func (s *Server) ListToolNames() []string {
	return slices.Sorted(slices.Values(s.tools))
}

// Run serves MCP over stdio until the context is canceled or the
// connection closes.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport serves MCP over the given transport. It blocks until
// the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTool is a free function because methods cannot take type
// parameters; Input is the tool's typed argument struct.
func registerTool[Input any](
	srv *Server,
	name, description string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) {
	mcpsdk.AddTool(srv.inner, &mcpsdk.Tool{
		Name:        name,
		Description: description,
	}, instrument(srv, name, handler))

	srv.tools = append(srv.tools, name)
}

// instrument wraps a tool handler with one span and one RED metrics sample
// per invocation. When the span is sampled its trace_id is appended to the
// response content so callers can correlate with backend traces.
func instrument[Input any](
	srv *Server,
	name string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if srv.tracer == nil && srv.metrics == nil {
		return handler
	}

	op := "mcp." + name

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		started := time.Now()

		var span trace.Span
		if srv.tracer != nil {
			ctx, span = srv.tracer.Start(ctx, op,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attribute.String("mcp.tool", name)),
			)
			defer span.End()
		}

		if srv.metrics != nil {
			defer srv.metrics.TrackInflight(ctx, op)()
		}

		result, output, err := handler(ctx, req, input)

		if srv.metrics != nil {
			srv.metrics.RecordRequest(ctx, op, callStatus(result, err), time.Since(started))
		}

		if span != nil {
			if sc := span.SpanContext(); sc.IsSampled() && result != nil {
				result.Content = append(result.Content, &mcpsdk.TextContent{
					Text: "trace_id=" + sc.TraceID().String(),
				})
			}
		}

		return result, output, err
	}
}

func callStatus(result *mcpsdk.CallToolResult, err error) string {
	if err != nil || (result != nil && result.IsError) {
		return "error"
	}

	return "ok"
}

// Tool description constants.
const (
	restoreToolDescription = "Restore the outcome of a completed training trial from its " +
		"run directory: latest metrics, checkpoints with correlated metrics, and any " +
		"terminal error. Accepts a local path or file:// URI."

	bestToolDescription = "Select the best checkpoint of a trial by a metric. " +
		"Mode is min or max; ties resolve to the earliest checkpoint."

	historyToolDescription = "Return the reported metrics history of a trial, " +
		"optionally restricted to named metrics or the last N rows."

	experimentToolDescription = "List the trials under an experiment root with their " +
		"status, iteration and checkpoint counts, and latest metrics."
)
