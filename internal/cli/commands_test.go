package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drawsync/internal/delta"
	"github.com/roach88/drawsync/internal/store/workbook"
	"github.com/roach88/drawsync/internal/testutil"
)

func TestShow(t *testing.T) {
	env := newCLIEnv(t, "sqlite", workedExample()...)
	_, _, err := env.run("sync")
	require.NoError(t, err)

	stdout, _, err := env.run("show", "-n", "3")
	require.NoError(t, err)
	testutil.AssertGolden(t, "show_latest", []byte(stdout))
}

func TestShow_InvalidLimit(t *testing.T) {
	env := newCLIEnv(t, "sqlite")
	_, _, err := env.run("show", "-n", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExport(t *testing.T) {
	env := newCLIEnv(t, "sqlite", workedExample()...)
	_, _, err := env.run("sync")
	require.NoError(t, err)

	target := filepath.Join(env.dir, "out", "history.xlsx")
	stdout, _, err := env.run("export", target)
	require.NoError(t, err)
	assert.Equal(t, "Exported 6 draws to "+target+".\n", stdout)

	ds, err := workbook.New(target).ReadExisting(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"2455", "2454", "2453", "2452", "2451", "2450"}, idsOf(ds.Records))
}

func TestExport_RejectsOtherExtensions(t *testing.T) {
	env := newCLIEnv(t, "sqlite")
	_, _, err := env.run("export", filepath.Join(env.dir, "history.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".xlsx")
}

func TestRuns(t *testing.T) {
	env := newCLIEnv(t, "sqlite", workedExample()...)
	for i := 0; i < 2; i++ {
		_, _, err := env.run("sync")
		require.NoError(t, err)
	}

	stdout, _, err := env.run("--format", "json", "runs")
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Runs []struct {
				ID      string `json:"id"`
				Status  string `json:"status"`
				Fetched int    `json:"fetched"`
			} `json:"runs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Runs, 2)
	assert.Equal(t, "run-2", resp.Data.Runs[0].ID)
	assert.Equal(t, "up_to_date", resp.Data.Runs[0].Status)
	assert.Equal(t, "run-1", resp.Data.Runs[1].ID)
	assert.Equal(t, "updated", resp.Data.Runs[1].Status)
	assert.Equal(t, 6, resp.Data.Runs[1].Fetched)

	text, _, err := env.run("runs", "-n", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "run-2  "), text)
	assert.Equal(t, 1, strings.Count(text, "\n"))
}

func TestRuns_NoJournalForWorkbook(t *testing.T) {
	env := newCLIEnv(t, "xlsx")
	_, _, err := env.run("runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not keep a run journal")
}

func TestWatch(t *testing.T) {
	env := newCLIEnv(t, "sqlite", workedExample()...)

	stdout, _, err := env.run("watch", "--count", "2", "--interval", "10ms")
	require.NoError(t, err)
	assert.Equal(t,
		"Found 6 new draws, newest 2455. 6 draws stored.\n"+
			"Data is already up to date (newest draw 2455).\n",
		stdout)
}

func TestWatch_SourceFailureKeepsGoing(t *testing.T) {
	env := newCLIEnv(t, "sqlite")

	stdout, _, err := env.run("watch", "--count", "2", "--interval", "10ms")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stdout, "Could not reach the draw source"))
}

func TestConfigCommand(t *testing.T) {
	env := newCLIEnv(t, "xlsx")

	stdout, _, err := env.run("config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "driver: xlsx")
	assert.Contains(t, stdout, "page_cap: 100")

	stdout, _, err = env.run("--format", "json", "config")
	require.NoError(t, err)
	var resp struct {
		Data struct {
			Sync struct {
				PageCap int `json:"page_cap"`
			} `json:"sync"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, delta.DefaultPageCap, resp.Data.Sync.PageCap)
}

func TestConfigCommand_BadFile(t *testing.T) {
	env := newCLIEnv(t, "sqlite")
	env.configPath = filepath.Join(env.dir, "missing.yaml")

	_, _, err := env.run("config")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	env := newCLIEnv(t, "sqlite")

	_, _, err := env.run("migrate", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMigrate_InvalidSteps(t *testing.T) {
	env := newCLIEnv(t, "sqlite")

	_, _, err := env.run("migrate", "down", "zero")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid steps")
}
