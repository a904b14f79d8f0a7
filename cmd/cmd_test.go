package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/config"
)

// setupWorkspace isolates the data directory and global config and returns
// an empty workspace.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	data := t.TempDir()
	t.Setenv(config.EnvHome, data)
	t.Setenv(config.EnvDB, "")
	t.Setenv(config.EnvConfig, filepath.Join(data, "missing.yaml"))
	return t.TempDir()
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between Execute calls.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, ws, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"-w", ws}, args...))
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func mustExecute(t *testing.T, ws string, args ...string) string {
	t.Helper()
	out, _, err := execute(t, ws, "", args...)
	require.NoError(t, err, "cmdpal %v", args)
	return out
}

func TestAddAndList(t *testing.T) {
	ws := setupWorkspace(t)

	assert.Contains(t, mustExecute(t, ws, "list"), "no commands found")
	assert.Contains(t, mustExecute(t, ws, "add", "Start", "-c", "npm start", "-g", "Dev"), "added 'Start' to Dev")
	assert.Contains(t, mustExecute(t, ws, "add", "Start", "-c", "npm start", "-g", "Dev"), "already exists")
	mustExecute(t, ws, "add", "Lint", "-c", "npm run lint")

	out := mustExecute(t, ws, "list")
	assert.Contains(t, out, "Dev (user)")
	assert.Contains(t, out, "General (user)")
	assert.Contains(t, out, "npm run lint")

	out = mustExecute(t, ws, "list", "--filter", "start")
	assert.Contains(t, out, "Start")
	assert.NotContains(t, out, "Lint")

	var groups []map[string]any
	out = mustExecute(t, ws, "list", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	assert.Len(t, groups, 2)

	_, err := os.Stat(filepath.Join(ws, commands.DefaultConfigFile))
	assert.NoError(t, err)
}

func TestAddRejectsBadInput(t *testing.T) {
	ws := setupWorkspace(t)
	_, _, err := execute(t, ws, "", "add", "x")
	assert.Error(t, err)
	_, _, err = execute(t, ws, "", "add", "x", "-c", "ls", "-t", "bash")
	assert.ErrorIs(t, err, commands.ErrInvalidKind)
	_, _, err = execute(t, ws, "", "add", "x", "-c", "ls", "-g", commands.ManifestGroup)
	assert.Error(t, err)
}

func TestListFuzzy(t *testing.T) {
	ws := setupWorkspace(t)
	mustExecute(t, ws, "add", "deploy", "-c", "make deploy")
	mustExecute(t, ws, "add", "test", "-c", "go test ./...")

	out := mustExecute(t, ws, "list", "--filter", "dpy")
	assert.Contains(t, out, "no commands found")
	out = mustExecute(t, ws, "list", "--filter", "dpy", "--fuzzy")
	assert.Contains(t, out, "General/deploy")
	assert.NotContains(t, out, "test")
}

func TestListIncludesManifestScripts(t *testing.T) {
	ws := setupWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(ws, "package.json"), []byte(`{"scripts":{"build":"tsc"}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(ws, commands.DefaultConfigFile), []byte(`{"commands":[{"name":"a","command":"echo a",}]}`), 0o644))

	out, stderr, err := execute(t, ws, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, commands.ManifestGroup+" (manifest)")
	assert.Contains(t, out, "npm run build")
	assert.Contains(t, out, "echo a")
	assert.Contains(t, stderr, "warning:")
}

func TestMoveAndRemoveGroup(t *testing.T) {
	ws := setupWorkspace(t)
	mustExecute(t, ws, "add", "a", "-c", "echo a")
	mustExecute(t, ws, "add", "b", "-c", "echo b", "-g", "Old")

	assert.Contains(t, mustExecute(t, ws, "move", "a", "--to", "Old"), "moved 'a' from General to Old")
	_, _, err := execute(t, ws, "", "move", "a", "--to", "Old")
	assert.Error(t, err)

	out, _, err := execute(t, ws, "n\n", "remove-group", "Old")
	require.NoError(t, err)
	assert.Contains(t, out, "aborted")

	assert.Contains(t, mustExecute(t, ws, "rmg", "Old", "--yes"), "deleted group 'Old' (2 commands)")
	assert.Contains(t, mustExecute(t, ws, "list"), "no commands found")

	_, _, err = execute(t, ws, "", "remove-group", commands.ScriptsGroup, "-y")
	assert.Error(t, err)
}

func TestRecordFromStdin(t *testing.T) {
	ws := setupWorkspace(t)
	input := "Build: make all\n# comment\n\ngo test ./...\n"
	out, _, err := execute(t, ws, input, "record", "-g", "Rec")
	require.NoError(t, err)
	assert.Contains(t, out, "saved 2 of 2 commands to Rec")

	recs := commands.ListFileRecords(ws, commands.DefaultConfigFile)
	require.Len(t, recs, 2)
	assert.Equal(t, "Build", recs[0].Name)
	assert.Equal(t, "make all", recs[0].Command)
	assert.Equal(t, "go test", recs[1].Name)
	assert.Equal(t, "Rec", recs[1].Group)

	out, _, err = execute(t, ws, "", "record")
	require.NoError(t, err)
	assert.Contains(t, out, "no commands recorded")
}

func TestRunDryRunAndSecurity(t *testing.T) {
	ws := setupWorkspace(t)
	mustExecute(t, ws, "add", "hello", "-c", "echo hello")
	mustExecute(t, ws, "add", "wipe", "-c", "rm -rf /")

	assert.Equal(t, "-> echo hello\n", mustExecute(t, ws, "run", "hello", "--dry-run"))
	assert.Equal(t, "-> echo hello\n", mustExecute(t, ws, "run", "General/hello", "--dry-run"))

	_, _, err := execute(t, ws, "", "run", "wipe", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, _, err = execute(t, ws, "", "run", "missing")
	assert.ErrorContains(t, err, "command not found")
}

func TestFavorites(t *testing.T) {
	ws := setupWorkspace(t)
	mustExecute(t, ws, "add", "a", "-c", "echo a")
	mustExecute(t, ws, "add", "b", "-c", "echo b")

	assert.Contains(t, mustExecute(t, ws, "favs"), "no favorites")
	assert.Contains(t, mustExecute(t, ws, "fav", "General", "b"), "starred General/b")
	assert.Contains(t, mustExecute(t, ws, "list"), "* b")
	assert.Contains(t, mustExecute(t, ws, "favs"), "* General/b")

	mustExecute(t, ws, "rmg", "General", "-y")
	out := mustExecute(t, ws, "favs", "--prune")
	assert.Contains(t, out, "pruned 1 stale favorites")
	assert.Contains(t, out, "no favorites")

	_, _, err := execute(t, ws, "", "fav", "General", "zzz")
	assert.Error(t, err)
}

func TestTemplates(t *testing.T) {
	ws := setupWorkspace(t)
	assert.Contains(t, mustExecute(t, ws, "templates"), "docker")
	assert.Contains(t, mustExecute(t, ws, "templates", "install", "docker"), "installed 4 commands")
	assert.Contains(t, mustExecute(t, ws, "templates", "install", "docker"), "installed 0 commands")
	assert.Contains(t, mustExecute(t, ws, "tpl", "install", "git", "-g", "VCS"), "template 'git'")
	out := mustExecute(t, ws, "list")
	assert.Contains(t, out, "Docker (user)")
	assert.Contains(t, out, "VCS (user)")

	_, _, err := execute(t, ws, "", "templates", "install", "nope")
	assert.ErrorIs(t, err, commands.ErrUnknownTemplate)
}

func TestExportImportRoundTrip(t *testing.T) {
	ws := setupWorkspace(t)
	mustExecute(t, ws, "add", "a", "-c", "echo a", "-g", "Share")
	mustExecute(t, ws, "add", "b", "-c", "echo b", "-g", "Share")
	mustExecute(t, ws, "add", "c", "-c", "echo c")

	dest := filepath.Join(t.TempDir(), "share.json")
	assert.Contains(t, mustExecute(t, ws, "export", "Share", dest), "exported 2 commands")

	other := t.TempDir()
	assert.Contains(t, mustExecute(t, other, "import", dest), "imported 2 commands")
	assert.Contains(t, mustExecute(t, other, "import", dest, "-g", "Copied"), "imported 2 commands")
	out := mustExecute(t, other, "list")
	assert.Contains(t, out, "Share (user)")
	assert.Contains(t, out, "Copied (user)")
	assert.NotContains(t, out, "echo c")

	_, _, err := execute(t, other, "", "import", filepath.Join(other, "nope.json"))
	assert.Error(t, err)
}

func TestExportDatabase(t *testing.T) {
	ws := setupWorkspace(t)
	mustExecute(t, ws, "add", "a", "-c", "echo a")
	mustExecute(t, ws, "fav", "General", "a")

	dst := filepath.Join(t.TempDir(), "backup.db")
	assert.Contains(t, mustExecute(t, ws, "export", "db", dst), "exported database")
	fi, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Positive(t, fi.Size())

	// restore into a fresh data directory
	t.Setenv(config.EnvHome, t.TempDir())
	assert.Contains(t, mustExecute(t, ws, "favs"), "no favorites")
	mustExecute(t, ws, "import", "db", dst, "--overwrite")
	assert.Contains(t, mustExecute(t, ws, "favs"), "* General/a")
}

func TestRecentClear(t *testing.T) {
	ws := setupWorkspace(t)
	assert.Contains(t, mustExecute(t, ws, "recent"), "no runs recorded")
	assert.Contains(t, mustExecute(t, ws, "history", "--clear"), "cleared 0 runs")
}

func TestVersion(t *testing.T) {
	ws := setupWorkspace(t)
	assert.True(t, strings.HasPrefix(mustExecute(t, ws, "version"), "cmdpal "))
}

func TestUniqueDestPath(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "x.db")
	assert.Equal(t, base, uniqueDestPath(base))
	require.NoError(t, os.WriteFile(base, nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "x-1.db"), uniqueDestPath(base))
}

func TestResolveRecord(t *testing.T) {
	groups := []commands.Group{
		{Name: "A", Commands: []commands.Record{{Name: "build", Group: "A"}, {Name: "only", Group: "A"}}},
		{Name: "B", Commands: []commands.Record{{Name: "build", Group: "B"}}},
	}
	r, err := resolveRecord(groups, "only")
	require.NoError(t, err)
	assert.Equal(t, "A", r.Group)

	r, err = resolveRecord(groups, "B/build")
	require.NoError(t, err)
	assert.Equal(t, "B", r.Group)

	_, err = resolveRecord(groups, "build")
	assert.ErrorContains(t, err, "ambiguous")
	_, err = resolveRecord(groups, "C/build")
	assert.ErrorContains(t, err, "command not found")
}
