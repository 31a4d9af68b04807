package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/trialscope/trialscope/internal/render"
	"github.com/trialscope/trialscope/pkg/experiment"
	"github.com/trialscope/trialscope/pkg/storage"
	"github.com/trialscope/trialscope/pkg/trial"
)

// handleRestore processes trial_restore tool calls.
func handleRestore(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input RestoreInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Path == "" {
		return errorResult(ErrEmptyPath)
	}

	res, err := trial.Restore(ctx, input.Path)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(render.NewResultDoc(res, input.WithHistory))
}

// handleBestCheckpoint processes trial_best_checkpoint tool calls.
func handleBestCheckpoint(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input BestCheckpointInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Path == "" {
		return errorResult(ErrEmptyPath)
	}

	if input.Metric == "" {
		return errorResult(ErrEmptyMetric)
	}

	mode := trial.ModeMax

	if input.Mode != "" {
		parsed, err := trial.ParseMode(input.Mode)
		if err != nil {
			return errorResult(err)
		}

		mode = parsed
	}

	res, err := trial.Restore(ctx, input.Path)
	if err != nil {
		return errorResult(err)
	}

	rec, err := res.BestCheckpoint(input.Metric, mode)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(render.NewBestDoc(input.Metric, mode, rec))
}

// handleHistory processes trial_history tool calls.
func handleHistory(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input HistoryInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Path == "" {
		return errorResult(ErrEmptyPath)
	}

	res, err := trial.Restore(ctx, input.Path)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(render.NewHistoryDoc(res, input.Tail, input.Metrics))
}

// handleExperimentList processes experiment_list tool calls.
func handleExperimentList(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ExperimentListInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Path == "" {
		return errorResult(ErrEmptyPath)
	}

	fsys, root, err := storage.Resolve(input.Path)
	if err != nil {
		return errorResult(err)
	}

	entries, err := experiment.Load(ctx, fsys, root, nil)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(render.NewExperimentDoc(entries))
}
