package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/archgate/internal/state"
	"github.com/leapstack-labs/archgate/internal/testutil"
)

func TestHistoryCommand_Empty(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"archgate.yaml": "output: json\n"})

	stdout, _, err := executeCommand(t, NewHistoryCommand(), "--config", filepath.Join(dir, "archgate.yaml"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", stdout)
	assert.FileExists(t, filepath.Join(dir, ".archgate", "history.db"))
}

func TestHistoryCommand_RecordedRuns(t *testing.T) {
	dir := ioutilProject(t, "rules:\n  preConfiguredRules: [builtin.NoIoutil]\n")
	cfg := filepath.Join(dir, "archgate.yaml")

	for range 2 {
		_, _, err := executeCommand(t, NewCheckCommand(), "--config", cfg, "-o", "json", "--record")
		require.ErrorIs(t, err, ErrViolations)
	}

	stdout, _, err := executeCommand(t, NewHistoryCommand(), "--config", cfg, "-o", "json")
	require.NoError(t, err)

	var runs []state.Run
	require.NoError(t, json.Unmarshal([]byte(stdout), &runs))
	require.Len(t, runs, 2)
	for _, run := range runs {
		assert.Equal(t, state.RunStatusFailed, run.Status)
		assert.Equal(t, 1, run.ViolationCount)
		assert.Equal(t, dir, run.Dir)
	}
	assert.False(t, runs[0].Changed, "second run reports the same violations")
	assert.True(t, runs[1].Changed, "first run has nothing to compare with")
	assert.Equal(t, runs[0].ReportHash, runs[1].ReportHash)

	t.Run("limit", func(t *testing.T) {
		stdout, _, err := executeCommand(t, NewHistoryCommand(), "--config", cfg, "-o", "json", "--limit", "1")
		require.NoError(t, err)
		var limited []state.Run
		require.NoError(t, json.Unmarshal([]byte(stdout), &limited))
		require.Len(t, limited, 1)
		assert.Equal(t, runs[0].ID, limited[0].ID)
	})

	t.Run("show by prefix", func(t *testing.T) {
		stdout, _, err := executeCommand(t, NewHistoryCommand(), runs[1].ID[:8], "--config", cfg, "-o", "markdown")
		require.NoError(t, err)
		assert.Contains(t, stdout, "# Run "+runs[1].ID[:8]+" (failed)")
		assert.Contains(t, stdout, "## `builtin.NoIoutil`")
		assert.Contains(t, stdout, "example.com/store.Store imports io/ioutil")
	})

	t.Run("table", func(t *testing.T) {
		stdout, _, err := executeCommand(t, NewHistoryCommand(), "--config", cfg, "-o", "markdown")
		require.NoError(t, err)
		assert.Contains(t, stdout, "# Check History")
		assert.Contains(t, stdout, "| "+runs[0].ID[:8]+" |")
	})

	t.Run("unknown run", func(t *testing.T) {
		_, _, err := executeCommand(t, NewHistoryCommand(), "zzzzzzzz", "--config", cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run not found: zzzzzzzz")
	})
}

func TestHistoryCommand_DBFlag(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"archgate.yaml": "output: json\n"})
	db := filepath.Join(t.TempDir(), "runs.db")

	_, _, err := executeCommand(t, NewHistoryCommand(), "--config", filepath.Join(dir, "archgate.yaml"), "--history-db", db)
	require.NoError(t, err)
	assert.FileExists(t, db)
	assert.NoFileExists(t, filepath.Join(dir, ".archgate", "history.db"))
}
