package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/bdsm/pkg/archive"
	"github.com/ssargent/bdsm/pkg/catalog"
	"github.com/ssargent/bdsm/pkg/config"
	"github.com/ssargent/bdsm/pkg/di"
	"github.com/ssargent/bdsm/pkg/store"
)

type testEnv struct {
	dir        string
	configPath string
	archiveDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{config.EnvDataFile, config.EnvArchiveDir, config.EnvLogLevel, config.EnvMetricsAddr} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "config.yaml"),
		archiveDir: filepath.Join(dir, "snapshots"),
	}

	cfg := config.DefaultConfig()
	cfg.ArchiveDir = env.archiveDir
	cfg.Shell.Prompt = ""
	cfg.Logging.Level = "error"
	require.NoError(t, config.SaveConfig(cfg, env.configPath))

	SetContainer(di.NewContainer())
	return env
}

// resetFlags clears flag values left behind by earlier executions
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func (e *testEnv) execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func (e *testEnv) writeCatalog(t *testing.T, name string) string {
	t.Helper()
	c := catalog.New()
	require.NoError(t, c.Insert(catalog.NewBook("1", "Dune", "Herbert", "scifi", 0, 5, 10)))
	require.NoError(t, c.Insert(catalog.NewBook("2", "Emma", "Austen", "classic", 3, 1, 8)))

	path := filepath.Join(e.dir, name)
	require.NoError(t, store.Save(c, path))
	return path
}

func TestRootCommand(t *testing.T) {
	t.Run("missing file is created", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(env.dir, "new.dat")

		out, err := env.execute(t, "bookadd 1 T A G 1 0 1\nsave\nexit\n", path)
		require.NoError(t, err)
		assert.Contains(t, out, "does not exist yet, creating")
		assert.Contains(t, out, "Saved 1 book(s) to "+path)

		c, err := store.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("existing file is loaded", func(t *testing.T) {
		env := newTestEnv(t)
		path := env.writeCatalog(t, "store.dat")

		out, err := env.execute(t, "ls\n", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Loaded bookstore database from "+path)
		assert.Contains(t, out, "2 book(s) in store")
	})

	t.Run("in memory", func(t *testing.T) {
		env := newTestEnv(t)

		out, err := env.execute(t, "exit\n")
		require.NoError(t, err)
		assert.Contains(t, out, "working in-memory only")
		assert.Contains(t, out, "Bye.")
	})

	t.Run("corrupt file", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(env.dir, "corrupt.dat")
		require.NoError(t, os.WriteFile(path, []byte{3, 0, 0, 0, 'x'}, 0600))

		_, err := env.execute(t, "", path)
		assert.Error(t, err)
	})

	t.Run("missing container", func(t *testing.T) {
		env := newTestEnv(t)
		SetContainer(nil)
		defer SetContainer(di.NewContainer())

		_, err := env.execute(t, "")
		assert.ErrorContains(t, err, "dependency container not initialized")
	})
}

func TestLsCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeCatalog(t, "store.dat")

	out, err := env.execute(t, "", "ls", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Emma")

	out, err = env.execute(t, "", "ls", path, "--soldout")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.NotContains(t, out, "Emma")

	out, err = env.execute(t, "", "ls", path, "--author", "Austen")
	require.NoError(t, err)
	assert.Contains(t, out, "Emma")
	assert.NotContains(t, out, "Dune")

	_, err = env.execute(t, "", "ls", filepath.Join(env.dir, "missing.dat"))
	assert.ErrorContains(t, err, "does not exist")
}

func TestDumpCommand(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeCatalog(t, "store.dat")

	out, err := env.execute(t, "", "dump", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 book(s)")
	assert.Contains(t, out, "00000000  02 00 00 00")
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "fresh", "bdsm.yaml")

	_, err := env.execute(t, "", "config", "init", "--config", path)
	require.NoError(t, err)
	assert.True(t, config.ConfigExists(path))

	_, err = env.execute(t, "", "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = env.execute(t, "", "config", "init", "--config", path, "--force")
	assert.NoError(t, err)

	t.Setenv(config.EnvLogLevel, "debug")
	out, err := env.execute(t, "", "config", "show", "--archive-dir", "/tmp/elsewhere")
	require.NoError(t, err)
	assert.Contains(t, out, "level: debug")
	assert.Contains(t, out, "archive_dir: /tmp/elsewhere")
}

func TestSnapshotsCommands(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeCatalog(t, "store.dat")

	out, err := env.execute(t, "", "snapshots", "create", path, "nightly", "backup")
	require.NoError(t, err)
	assert.Contains(t, out, "saved (2 book(s))")

	out, err = env.execute(t, "", "snapshots")
	require.NoError(t, err)
	assert.Contains(t, out, "nightly backup")

	a, err := archive.Open(env.archiveDir)
	require.NoError(t, err)
	snaps, err := a.List()
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.Len(t, snaps, 1)

	exported := filepath.Join(env.dir, "exported.dat")
	out, err = env.execute(t, "", "snapshots", "export", snaps[0].ID.String(), exported)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 book(s)")

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	restored, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Equal(t, original, restored)

	_, err = env.execute(t, "", "snapshots", "export", "bogus", exported)
	assert.ErrorContains(t, err, "invalid snapshot id")
}
