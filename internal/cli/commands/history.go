package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/archgate/internal/cli/output"
	"github.com/leapstack-labs/archgate/internal/state"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
	All   bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded check runs",
		Long: `List check runs recorded with 'archgate check --record' or
history.enabled, newest first. A run is marked changed when its report differs
from the run before it. Pass a run id, or a prefix of one, to show the
violations recorded for that run.`,
		Example: `  # Last 10 runs for this project
  archgate history

  # Runs for every checked directory
  archgate history --all --limit 50

  # Violations of one run
  archgate history 3f2a9c1e`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			store, cleanup, err := cc.OpenHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) > 0 {
				return showRun(cmd, cc, store, args[0])
			}
			return listRuns(cmd, cc, store, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Show runs for every directory")
	cmd.Flags().String("history-db", "", "Path to the history database")

	return cmd
}

func listRuns(cmd *cobra.Command, cc *CommandContext, store state.Store, opts *HistoryOptions) error {
	dir := cc.Cfg.Dir
	if opts.All {
		dir = ""
	}
	runs, err := store.Runs(cmd.Context(), dir, opts.Limit)
	if err != nil {
		return err
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if runs == nil {
			runs = []state.Run{}
		}
		return r.JSON(runs)
	}
	if len(runs) == 0 {
		r.Muted("No runs recorded yet. Use 'archgate check --record'.")
		return nil
	}

	r.Header(1, "Check History")
	header := []string{"Run", "Started", "Status", "Violations", "Checks", "Types", "Duration", "Changed"}
	if opts.All {
		header = append(header, "Dir")
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		changed := ""
		if run.Changed {
			changed = "yes"
		}
		row := []string{
			shortID(run.ID),
			run.StartedAt.Local().Format(time.DateTime),
			string(run.Status),
			strconv.Itoa(run.ViolationCount),
			strconv.Itoa(run.ChecksRun),
			strconv.Itoa(run.TypesAnalyzed),
			run.Duration.String(),
			changed,
		}
		if opts.All {
			row = append(row, run.Dir)
		}
		rows = append(rows, row)
	}
	r.Table(header, rows)
	return nil
}

// findRun resolves a run id or unique id prefix among every recorded run.
func findRun(cmd *cobra.Command, store state.Store, idOrPrefix string) (*state.Run, error) {
	runs, err := store.Runs(cmd.Context(), "", 0)
	if err != nil {
		return nil, err
	}
	var match *state.Run
	for i := range runs {
		if !strings.HasPrefix(runs[i].ID, idOrPrefix) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("run id %q is ambiguous", idOrPrefix)
		}
		match = &runs[i]
	}
	if match == nil {
		return nil, errors.New("run not found: " + idOrPrefix)
	}
	return match, nil
}

func showRun(cmd *cobra.Command, cc *CommandContext, store state.Store, idOrPrefix string) error {
	run, err := findRun(cmd, store, idOrPrefix)
	if err != nil {
		return err
	}
	vs, err := store.Violations(cmd.Context(), run.ID)
	if err != nil {
		return err
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if vs == nil {
			vs = []state.StoredViolation{}
		}
		return r.JSON(struct {
			Run        *state.Run              `json:"run"`
			Violations []state.StoredViolation `json:"violations"`
		}{run, vs})
	}

	r.Header(1, fmt.Sprintf("Run %s (%s)", shortID(run.ID), run.Status))
	r.Muted(fmt.Sprintf("%s in %s, %d checks over %d types",
		run.StartedAt.Local().Format(time.DateTime), run.Dir, run.ChecksRun, run.TypesAnalyzed))
	r.Println("")
	if len(vs) == 0 {
		r.Success("No violations recorded")
		return nil
	}
	styles := r.Styles()
	markdown := r.EffectiveMode() == output.ModeMarkdown
	for _, v := range vs {
		if markdown {
			r.Printf("## `%s`\n\n**Priority:** `%s` | %s\n\n", v.Label(), v.Priority, v.Description)
			for _, d := range v.Details {
				r.Printf("- %s\n", d)
			}
		} else {
			r.Printf("%s  %s\n  %s\n", styles.RuleID.Render(v.Label()), v.Priority, v.Description)
			for _, d := range v.Details {
				r.Println(styles.Muted.Render("    " + d))
			}
		}
		r.Println("")
	}
	return nil
}
