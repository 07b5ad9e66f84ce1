package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/archgate/internal/cli/config"
	"github.com/leapstack-labs/archgate/internal/cli/output"
	"github.com/leapstack-labs/archgate/internal/state"
	"github.com/leapstack-labs/archgate/pkg/gate"
)

// ErrViolations is returned by check when violations fail the run.
var ErrViolations = errors.New("architecture violations found")

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the code base against the configured architecture rules",
		Long: `Load the Go packages of the project and run every configured rule.

Pre-configured rules run first, then configurable rules in the order they
are declared. Any violation fails the command unless noFailOnError is set,
in which case the report is only logged.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check with archgate.yaml from the current directory or a parent
  archgate check

  # Report without failing
  archgate check --no-fail-on-error

  # Run a single built-in rule without a config file
  archgate check --rule builtin.NoIoutil

  # Re-run on every change and keep a history of reports
  archgate check --watch --record`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			if !opts.Watch {
				return runCheck(cmd, cc)
			}
			reload := func() (*CommandContext, error) {
				if _, err := config.LoadConfig(config.GetConfigFileUsed(), cmd.Flags()); err != nil {
					return nil, err
				}
				return NewCommandContext(cmd), nil
			}
			return runWatch(cmd.Context(), cc, reload, func(cc *CommandContext) error {
				return runCheck(cmd, cc)
			})
		},
	}

	cmd.Flags().Bool("skip", false, "Skip rule execution")
	cmd.Flags().Bool("no-fail-on-error", false, "Log violations instead of failing")
	cmd.Flags().Bool("tests", false, "Include _test.go files")
	cmd.Flags().StringSlice("pattern", nil, "Package patterns to load (default ./...)")
	cmd.Flags().StringSlice("rule", nil, "Pre-configured rules to run, replacing the configured list")
	cmd.Flags().StringSlice("build-flags", nil, "Flags passed to the go command, e.g. -tags=integration")
	cmd.Flags().String("packaging", "", "Override build unit detection: module, workspace, none")
	cmd.Flags().Bool("record", false, "Record the run in the history database")
	cmd.Flags().String("history-db", "", "Path to the history database")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when Go files or rule packs change")

	_ = cmd.RegisterFlagCompletionFunc("packaging", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"module", "workspace", "none"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runCheck(cmd *cobra.Command, cc *CommandContext) error {
	ctx := cmd.Context()

	// Skipped runs never look at packaging.
	var unit gate.UnitKind
	if !cc.Cfg.Skip {
		bu, err := cc.BuildUnit()
		if err != nil {
			return err
		}
		if bu.Kind.Checkable() {
			cc.Logger.Debug("detected build unit", "dir", bu.Dir, "kind", bu.Kind, "module", bu.ModulePath)
		}
		unit = bu.Kind
	}

	started := time.Now()
	out, err := cc.Engine.Run(ctx, cc.Cfg.Request(unit))
	var failure *gate.FailureError
	if err != nil && !errors.As(err, &failure) {
		return err
	}
	elapsed := time.Since(started)
	action := gate.Decide(out, cc.Cfg.NoFailOnError)

	if err := renderOutcome(cc.Renderer, out, action, elapsed); err != nil {
		return err
	}

	if cc.Cfg.History.Enabled {
		if err := recordRun(cmd, cc, state.RunRecord{
			Dir:       cc.Cfg.Dir,
			StartedAt: started,
			Duration:  elapsed,
			Outcome:   out,
			Action:    action,
		}); err != nil {
			return err
		}
	}

	if failure != nil {
		return fmt.Errorf("%w: %d rules violated", ErrViolations, len(out.Violations))
	}
	return nil
}

func recordRun(cmd *cobra.Command, cc *CommandContext, rec state.RunRecord) error {
	store, cleanup, err := cc.OpenHistory(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	run, err := store.RecordRun(cmd.Context(), rec)
	if err != nil {
		return err
	}
	if cc.Renderer.EffectiveMode() != output.ModeJSON {
		if run.Changed {
			cc.Renderer.Muted(fmt.Sprintf("Recorded run %s (report changed)", shortID(run.ID)))
		} else {
			cc.Renderer.Muted(fmt.Sprintf("Recorded run %s (report unchanged)", shortID(run.ID)))
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
