package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/archgate/internal/cli/config"
	"github.com/leapstack-labs/archgate/internal/cli/output"
	"github.com/leapstack-labs/archgate/internal/rulepack"
	"github.com/leapstack-labs/archgate/internal/testutil"
)

func TestIsWatchedFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"internal/store/store.go", true},
		{"go.mod", true},
		{"go.work", true},
		{"archgate.yaml", true},
		{"rules/layers.yml", true},
		{"rules/layers.star", true},
		{"rules/LAYERS.YAML", true},
		{"go.sum", false},
		{"README.md", false},
		{"store.go.swp", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, isWatchedFile(tt.path))
		})
	}
}

func TestSkipWatchDir(t *testing.T) {
	for _, name := range []string{"vendor", "testdata", "node_modules", ".git", ".archgate"} {
		assert.True(t, skipWatchDir(name), name)
	}
	for _, name := range []string{"internal", "cmd", "."} {
		assert.False(t, skipWatchDir(name), name)
	}
}

func TestIsConfigFile(t *testing.T) {
	assert.True(t, isConfigFile("/repo/archgate.yaml"))
	assert.True(t, isConfigFile("archgate.yml"))
	assert.False(t, isConfigFile("/repo/rules/layers.yaml"))
}

func watchContext(dir string, out *bytes.Buffer) *CommandContext {
	logger := slog.New(slog.DiscardHandler)
	return &CommandContext{
		Cfg:      &config.Config{Dir: dir, ProjectRoot: dir},
		Logger:   logger,
		Renderer: output.NewRendererWithTTY(out, out, false, output.ModeMarkdown),
		Resolver: rulepack.NewResolver(dir, nil, logger),
	}
}

func receive(t *testing.T, ch <-chan *CommandContext) *CommandContext {
	t.Helper()
	select {
	case cc := <-ch:
		return cc
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a check run")
		return nil
	}
}

func TestRunWatch(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"go.mod":        "module example.com/w\n\ngo 1.22\n",
		"archgate.yaml": "rules:\n  preConfiguredRules: [builtin.NoIoutil]\n",
		"w.go":          "package w\n",
	})

	var out, reloadOut bytes.Buffer
	initial := watchContext(dir, &out)
	fresh := watchContext(dir, &reloadOut)

	runs := make(chan *CommandContext, 10)
	reloads := 0
	check := func(cc *CommandContext) error {
		runs <- cc
		return nil
	}
	reload := func() (*CommandContext, error) {
		reloads++
		return fresh, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, initial, reload, check) }()

	assert.Same(t, initial, receive(t, runs), "check runs once before any change")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "w.go"), []byte("package w\n\ntype T struct{}\n"), 0o600))
	assert.Same(t, initial, receive(t, runs), "a Go change re-runs without reloading")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "archgate.yaml"), []byte("skip: true\n"), 0o600))
	assert.Same(t, fresh, receive(t, runs), "a config change reloads the command context")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	select {
	case <-runs:
		t.Fatal("unrelated files should not trigger a run")
	case <-time.After(3 * watchDebounce):
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.Equal(t, 1, reloads)
	assert.Contains(t, out.String(), "Watching for changes")
}
