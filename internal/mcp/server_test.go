package mcp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/trialscope/trialscope/internal/mcp"
	"github.com/trialscope/trialscope/pkg/trial"
)

func TestNewServer_RegistersAllTools(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})

	names := srv.ListToolNames()
	assert.Equal(t, []string{
		mcp.ToolNameExperimentList,
		mcp.ToolNameBestCheckpoint,
		mcp.ToolNameHistory,
		mcp.ToolNameRestore,
	}, names)
}

// startSession connects an in-process client to srv and tears everything
// down through t.Cleanup: the session closes first, then the server context
// is canceled and Run is drained.
func startSession(t *testing.T, srv *mcp.Server) (context.Context, *mcpsdk.ClientSession) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	done := make(chan error, 1)

	go func() { done <- srv.RunWithTransport(ctx, serverTransport) }()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "trialscope-test",
		Version: "0.0.1",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-done
	})

	return ctx, session
}

func TestServer_ExposesToolsOverTransport(t *testing.T) {
	t.Parallel()

	ctx, session := startSession(t, mcp.NewServer(mcp.ServerDeps{}))

	listed, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, listed)

	byName := make(map[string]*mcpsdk.Tool, len(listed.Tools))
	for _, tool := range listed.Tools {
		byName[tool.Name] = tool
	}

	require.Len(t, byName, 4)

	for _, name := range []string{
		mcp.ToolNameRestore,
		mcp.ToolNameBestCheckpoint,
		mcp.ToolNameHistory,
		mcp.ToolNameExperimentList,
	} {
		tool, ok := byName[name]
		require.True(t, ok, "tool %s not listed", name)
		assert.NotNil(t, tool.InputSchema)
		assert.NotEmpty(t, tool.Description)
	}
}

func TestServer_RestoreToolRoundTrip(t *testing.T) {
	t.Parallel()

	dir := fs.NewDir(t, "trial",
		fs.WithFile(trial.MetricsLogName, `{"score": 1, "checkpoint_dir_name": "checkpoint_000000"}`+"\n"),
		fs.WithDir("checkpoint_000000"),
	)
	defer dir.Remove()

	ctx, session := startSession(t, mcp.NewServer(mcp.ServerDeps{}))

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      mcp.ToolNameRestore,
		Arguments: map[string]any{"path": dir.Path()},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.IsError)
	assert.NotEmpty(t, result.Content)
}

func TestServer_RestoreToolRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	ctx, session := startSession(t, mcp.NewServer(mcp.ServerDeps{}))

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      mcp.ToolNameRestore,
		Arguments: map[string]any{"path": ""},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.IsError)
}
