package commands_test

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"gotest.tools/v3/fs"

	"github.com/trialscope/trialscope/cmd/trialscope/commands"
)

// cleanResultLog is a two-iteration metrics log whose rows each name a
// checkpoint.
const cleanResultLog = `{"training_iteration": 1, "loss": 0.5, "acc": 0.6, "checkpoint_dir_name": "checkpoint_000000", "config": {"lr": 0.001}}
{"training_iteration": 2, "loss": 0.25, "acc": 0.8, "checkpoint_dir_name": "checkpoint_000001", "config": {"lr": 0.001}}
`

// cleanTrialDir lays out a healthy trial: metrics log plus two
// checkpoint directories.
func cleanTrialDir(t *testing.T) *fs.Dir {
	t.Helper()

	return fs.NewDir(t, "trial",
		fs.WithFile("result.json", cleanResultLog),
		fs.WithDir("checkpoint_000000", fs.WithFile("weights.bin", "w0")),
		fs.WithDir("checkpoint_000001", fs.WithFile("weights.bin", "w1")),
	)
}

// failedTrialDir lays out a trial that died mid-run: one metrics row, one
// checkpoint, and a terminal error envelope.
func failedTrialDir(t *testing.T) *fs.Dir {
	t.Helper()

	return fs.NewDir(t, "trial",
		fs.WithFile("result.json", `{"training_iteration": 1, "loss": 0.5, "checkpoint_dir_name": "checkpoint_000000"}`+"\n"),
		fs.WithDir("checkpoint_000000", fs.WithFile("weights.bin", "w0")),
		fs.WithFile("error.json", `{"kind": "RuntimeError", "message": "worker died", "trace": "train_loop()\n"}`),
	)
}

// execute runs cmd with args and returns everything it wrote.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

// plainGlobals disables color so rendered output is byte-stable.
func plainGlobals() *commands.Globals {
	return &commands.Globals{NoColor: true, Quiet: true}
}
