package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names as exposed over MCP.
const (
	ToolNameRestore        = "trial_restore"
	ToolNameBestCheckpoint = "trial_best_checkpoint"
	ToolNameHistory        = "trial_history"
	ToolNameExperimentList = "experiment_list"
)

// Validation errors shared by the tool handlers.
var (
	ErrEmptyPath   = errors.New("path parameter is required and must not be empty")
	ErrEmptyMetric = errors.New("metric parameter is required and must not be empty")
)

// Input types (JSON schemas derive from struct tags).

// RestoreInput is the input schema for the trial_restore tool.
type RestoreInput struct {
	Path        string `json:"path"                   jsonschema:"trial directory path or file:// URI"`
	WithHistory bool   `json:"with_history,omitempty" jsonschema:"include the full metrics history in the result"`
}

// BestCheckpointInput is the input schema for the trial_best_checkpoint
// tool.
type BestCheckpointInput struct {
	Path   string `json:"path"           jsonschema:"trial directory path or file:// URI"`
	Metric string `json:"metric"         jsonschema:"metric key to rank checkpoints by"`
	Mode   string `json:"mode,omitempty" jsonschema:"optimization direction: min or max (default max)"`
}

// HistoryInput is the input schema for the trial_history tool.
type HistoryInput struct {
	Path    string   `json:"path"              jsonschema:"trial directory path or file:// URI"`
	Metrics []string `json:"metrics,omitempty" jsonschema:"restrict rows to these metric keys"`
	Tail    int      `json:"tail,omitempty"    jsonschema:"return only the last N rows"`
}

// ExperimentListInput is the input schema for the experiment_list tool.
type ExperimentListInput struct {
	Path string `json:"path" jsonschema:"experiment root directory path or file:// URI"`
}

// ToolOutput carries the structured half of every tool reply.
type ToolOutput struct {
	Data any `json:"data"`
}

func textResult(text string, failed bool) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
		IsError: failed,
	}
}

// errorResult reports a tool failure in-band via isError rather than as a
// protocol error, so the client sees the message.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return textResult(err.Error(), true), ToolOutput{}, nil
}

// jsonResult returns value both as indented JSON text and as the
// structured output payload.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return textResult(string(data), false), ToolOutput{Data: value}, nil
}
