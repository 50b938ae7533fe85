package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/drawsync/internal/config"
	"github.com/roach88/drawsync/internal/delta"
	"github.com/roach88/drawsync/internal/draw"
	"github.com/roach88/drawsync/internal/testutil"
)

// cliEnv is a config file pointing at a fake source and a temp store.
type cliEnv struct {
	server     *testutil.SourceServer
	dir        string
	configPath string
	opts       *RootOptions
}

func newCLIEnv(t *testing.T, driver string, pages ...[]testutil.WireEntry) *cliEnv {
	t.Helper()
	for _, key := range []string{
		config.EnvConfig, config.EnvDriver, config.EnvStorePath,
		config.EnvDatabaseURL, config.EnvLogLevel, config.EnvPageCap,
	} {
		t.Setenv(key, "")
	}

	env := &cliEnv{
		server: testutil.NewSourceServer(t, pages...),
		dir:    t.TempDir(),
	}
	env.configPath = filepath.Join(env.dir, "drawsync.yaml")

	body := fmt.Sprintf(`source:
  endpoint: %s
  timeout: 2s
store:
  driver: %s
  dir: %s
log:
  level: error
`, env.server.Endpoint(), driver, filepath.Join(env.dir, "data"))
	require.NoError(t, os.WriteFile(env.configPath, []byte(body), 0o644))

	ids := make([]string, 10)
	for i := range ids {
		ids[i] = fmt.Sprintf("run-%d", i+1)
	}
	env.opts = &RootOptions{
		Now:    testutil.NewDeterministicClock().Now,
		RunIDs: delta.NewFixedGenerator(ids...),
	}
	return env
}

// run executes the root command with args and returns stdout and stderr.
func (e *cliEnv) run(args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := NewRootCommandWithOptions(e.opts)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// workedExample is the two-page history where 2452 appears on both pages.
func workedExample() [][]testutil.WireEntry {
	return [][]testutil.WireEntry{
		testutil.Entries("2455", "2454", "2453", "2452"),
		testutil.Entries("2452", "2451", "2450"),
	}
}

func idsOf(records []draw.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = string(r.DrawID)
	}
	return out
}
