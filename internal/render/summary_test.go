package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trialscope/trialscope/internal/render"
	"github.com/trialscope/trialscope/pkg/trial"
)

func TestSummary_CleanRun(t *testing.T) {
	t.Parallel()

	out := render.Summary(plainTerminal(), restoredResult())

	assert.Contains(t, out, "Trial: /runs/trial_a")
	assert.Contains(t, out, "Status: OK")
	assert.Contains(t, out, "Iterations: 2")
	assert.Contains(t, out, "Checkpoints: 2 (latest checkpoint_000001)")
}

func TestSummary_FailedRun(t *testing.T) {
	t.Parallel()

	res := &trial.Result{
		Path:  "/runs/trial_b",
		Error: &trial.ErrorRecord{Kind: "RuntimeError", Message: "Failing step 4"},
	}

	out := render.Summary(plainTerminal(), res)

	assert.Contains(t, out, "Status: FAILED RuntimeError: Failing step 4")
	assert.Contains(t, out, "Checkpoints: 0\n")
}
