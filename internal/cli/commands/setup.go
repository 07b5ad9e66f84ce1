// Package commands implements the archgate subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/archgate/internal/buildunit"
	"github.com/leapstack-labs/archgate/internal/cli/config"
	"github.com/leapstack-labs/archgate/internal/cli/output"
	"github.com/leapstack-labs/archgate/internal/loader"
	"github.com/leapstack-labs/archgate/internal/rulepack"
	"github.com/leapstack-labs/archgate/internal/state"
	"github.com/leapstack-labs/archgate/pkg/gate"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Resolver *rulepack.Resolver
	Engine   *gate.Engine
}

// NewCommandContext creates a CommandContext for the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	resolver := rulepack.NewResolver(cfg.ProjectRoot, nil, logger)
	ld := loader.New(loader.Config{
		Dirs:       []string{cfg.Dir},
		Patterns:   cfg.Patterns,
		Tests:      cfg.Tests,
		BuildFlags: cfg.BuildFlags,
		Logger:     logger,
	})

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Resolver: resolver,
		Engine:   gate.New(resolver, ld, gate.WithLogger(logger)),
	}
}

// getConfig returns the current configuration, or an empty one rooted in
// the working directory when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Dir:         ".",
		ProjectRoot: ".",
		Patterns:    config.DefaultPatterns,
		Output:      config.DefaultOutput,
	}
}

// BuildUnit returns the configured packaging for the checked directory, or
// detects it.
func (c *CommandContext) BuildUnit() (buildunit.Unit, error) {
	if c.Cfg.Packaging != "" {
		kind, ok := buildunit.ParseKind(c.Cfg.Packaging)
		if !ok {
			return buildunit.Unit{}, fmt.Errorf("invalid packaging %q", c.Cfg.Packaging)
		}
		return buildunit.Unit{Dir: c.Cfg.Dir, Kind: kind}, nil
	}
	return buildunit.Detect(c.Cfg.Dir)
}

// OpenHistory opens the run history database. The returned cleanup closes it.
func (c *CommandContext) OpenHistory(ctx context.Context) (state.Store, func(), error) {
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(ctx, c.Cfg.History.Path); err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	return store, func() { _ = store.Close() }, nil
}
