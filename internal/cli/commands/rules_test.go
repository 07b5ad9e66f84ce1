package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/archgate/internal/testutil"
	"github.com/leapstack-labs/archgate/pkg/rules"
)

func TestRulesCommand_ListJSON(t *testing.T) {
	stdout, _, err := executeCommand(t, NewRulesCommand(), "--dir", t.TempDir(), "--format", "json")
	require.NoError(t, err)

	var got RulesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, len(got.Rules), got.Count)

	ids := make(map[string]rules.Kind, len(got.Rules))
	for _, info := range got.Rules {
		ids[info.ID] = info.Kind
	}
	assert.Equal(t, rules.KindPreConfigured, ids["builtin.NoIoutil"])
	assert.Equal(t, rules.KindConfigurable, ids["builtin.Layering"])

	for i := 1; i < len(got.Rules); i++ {
		prev, cur := got.Rules[i-1], got.Rules[i]
		assert.True(t, prev.Group < cur.Group || (prev.Group == cur.Group && prev.ID < cur.ID),
			"rules should be sorted by group then id: %s before %s", prev.ID, cur.ID)
	}
}

func TestRulesCommand_Filters(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, info rules.Info)
	}{
		{
			name: "kind",
			args: []string{"--kind", "configurable"},
			check: func(t *testing.T, info rules.Info) {
				assert.Equal(t, rules.KindConfigurable, info.Kind)
				assert.NotEmpty(t, info.Checks)
			},
		},
		{
			name: "group",
			args: []string{"--group", "style"},
			check: func(t *testing.T, info rules.Info) {
				assert.Equal(t, "style", info.Group)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--dir", t.TempDir(), "-f", "json"}, tt.args...)
			stdout, _, err := executeCommand(t, NewRulesCommand(), args...)
			require.NoError(t, err)

			var got RulesJSONOutput
			require.NoError(t, json.Unmarshal([]byte(stdout), &got))
			require.NotEmpty(t, got.Rules)
			for _, info := range got.Rules {
				tt.check(t, info)
			}
		})
	}
}

func TestRulesCommand_ListMarkdown(t *testing.T) {
	stdout, _, err := executeCommand(t, NewRulesCommand(), "--dir", t.TempDir(), "-f", "markdown")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Architecture Rules (")
	assert.Contains(t, stdout, "| builtin.NoIoutil |")
	assert.Contains(t, stdout, "pkgDoesNotImportInternal")
}

func TestRulesCommand_ShowMarkdown(t *testing.T) {
	stdout, _, err := executeCommand(t, NewRulesCommand(), "builtin.Layering", "--dir", t.TempDir(), "-f", "markdown")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# builtin.Layering")
	assert.Contains(t, stdout, "**Kind:** configurable")
	assert.Contains(t, stdout, "## Checks")
	assert.Contains(t, stdout, "- `pkgDoesNotImportInternal`")
}

func TestRulesCommand_ShowPreConfigured(t *testing.T) {
	stdout, _, err := executeCommand(t, NewRulesCommand(), "builtin.NoIoutil", "--dir", t.TempDir(), "-f", "markdown")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# builtin.NoIoutil")
	assert.NotContains(t, stdout, "## Checks")
}

func TestRulesCommand_ShowPack(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"archgate.yaml": "output: json\n",
		"rules/local.yaml": `description: Local rules
checks:
  - name: noDatabase
    description: keep database/sql out of the domain
    should:
      notImport: [database/sql]
`,
	})

	stdout, _, err := executeCommand(t, NewRulesCommand(), "rules/local.yaml",
		"--config", filepath.Join(dir, "archgate.yaml"))
	require.NoError(t, err)

	var info rules.Info
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, "rules/local.yaml", info.ID)
	assert.Equal(t, rules.KindConfigurable, info.Kind)
	require.Len(t, info.Checks, 1)
	assert.Equal(t, "noDatabase", info.Checks[0].Name)
}

func TestRulesCommand_NotFound(t *testing.T) {
	_, _, err := executeCommand(t, NewRulesCommand(), "builtin.Nope", "--dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rule "builtin.Nope" not found`)
}

func TestRulesCommand_InvalidFormat(t *testing.T) {
	_, _, err := executeCommand(t, NewRulesCommand(), "--dir", t.TempDir(), "-f", "yaml")
	require.Error(t, err)
}

func TestCheckNames(t *testing.T) {
	assert.Equal(t, "-", checkNames(rules.Info{Kind: rules.KindPreConfigured}))
	assert.Equal(t, "a, b", checkNames(rules.Info{
		Kind:   rules.KindConfigurable,
		Checks: []rules.CheckInfo{{Name: "a"}, {Name: "b"}},
	}))
}
