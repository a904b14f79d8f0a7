//go:build !windows

package adapters

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/db"
	"github.com/VoxDroid/cmdpal/internal/executor"
	"github.com/VoxDroid/cmdpal/internal/history"
	"github.com/VoxDroid/cmdpal/internal/registry"
)

func TestSessionRunnerRunsAndRecords(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	conn, err := db.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	host := executor.NewPTYHost(executor.Options{Shell: sh, Rows: 24, Cols: 120})
	reg := registry.New(host, t.TempDir(), nil)
	defer reg.Close()
	hist := history.New(conn, "/ws")

	runner := NewSessionRunner(reg, host, hist, nil)
	_, _, ok := runner.Output()
	assert.False(t, ok)

	rec := commands.Record{Name: "greet", Command: "printf '\\033[2Jhello-%s\\n' pty", Group: "Dev"}
	require.NoError(t, runner.Run(context.Background(), rec))
	defer runner.DisposeAll(context.Background())

	require.Eventually(t, func() bool {
		_, text, ok := runner.Output()
		return ok && strings.Contains(text, "hello-pty")
	}, 5*time.Second, 20*time.Millisecond)

	name, text, _ := runner.Output()
	assert.Equal(t, registry.SessionKey("greet"), name)
	assert.NotContains(t, text, "\x1b[2J")

	sessions := runner.Sessions()
	require.Len(t, sessions, 1)

	runs, err := hist.Recent(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "greet", runs[0].Name)
	assert.Equal(t, sessions[0].ID, runs[0].SessionID)

	runner.DisposeAll(context.Background())
	assert.Empty(t, runner.Sessions())
	_, _, ok = runner.Output()
	assert.False(t, ok)
}

func TestSessionRunnerWithoutHost(t *testing.T) {
	runner := NewSessionRunner(registry.New(nil, "", nil), nil, nil, nil)
	err := runner.Run(context.Background(), commands.Record{Name: "x", Command: "true"})
	assert.ErrorIs(t, err, registry.ErrNoHost)
	_, _, ok := runner.Output()
	assert.False(t, ok)
}
