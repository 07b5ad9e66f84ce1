package commands

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/archgate/internal/cli/output"
	"github.com/leapstack-labs/archgate/internal/state"
	"github.com/leapstack-labs/archgate/pkg/gate"
)

// CheckJSONOutput is the JSON output structure for check.
type CheckJSONOutput struct {
	Status        string          `json:"status"`
	SkipReason    string          `json:"skipReason,omitempty"`
	ChecksRun     int             `json:"checksRun"`
	TypesAnalyzed int             `json:"typesAnalyzed"`
	DurationMS    int64           `json:"durationMs"`
	Violations    []ViolationJSON `json:"violations"`
}

// ViolationJSON is one violated rule in JSON output.
type ViolationJSON struct {
	Rule        string   `json:"rule"`
	Check       string   `json:"check,omitempty"`
	Priority    string   `json:"priority"`
	Description string   `json:"description"`
	Details     []string `json:"details"`
}

func renderOutcome(r *output.Renderer, out *gate.Outcome, action gate.Action, elapsed time.Duration) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return renderOutcomeJSON(r, out, action, elapsed)
	case output.ModeMarkdown:
		renderOutcomeMarkdown(r, out, action)
	default:
		renderOutcomeText(r, out, action, elapsed)
	}
	return nil
}

func renderOutcomeJSON(r *output.Renderer, out *gate.Outcome, action gate.Action, elapsed time.Duration) error {
	res := CheckJSONOutput{
		Status:        string(state.StatusOf(out, action)),
		SkipReason:    out.SkipReason,
		ChecksRun:     out.ChecksRun,
		TypesAnalyzed: out.TypesAnalyzed,
		DurationMS:    elapsed.Milliseconds(),
		Violations:    make([]ViolationJSON, 0, len(out.Violations)),
	}
	for _, rv := range out.Violations {
		res.Violations = append(res.Violations, ViolationJSON{
			Rule:        rv.RuleID,
			Check:       rv.Check,
			Priority:    rv.Violation.Priority.String(),
			Description: rv.Violation.Description,
			Details:     rv.Violation.Details,
		})
	}
	return r.JSON(res)
}

func renderOutcomeText(r *output.Renderer, out *gate.Outcome, action gate.Action, elapsed time.Duration) {
	styles := r.Styles()

	if out.Skipped {
		r.Warning(out.SkipReason)
		return
	}
	if !out.HasViolations() {
		r.Success(fmt.Sprintf("Architecture rules passed (%d checks, %d types, %s)",
			out.ChecksRun, out.TypesAnalyzed, elapsed.Round(time.Millisecond)))
		return
	}

	r.Println("")
	for _, rv := range out.Violations {
		v := rv.Violation
		r.Printf("%s  %s\n",
			styles.RuleID.Render(rv.Label()),
			styles.Priority(v.Priority).Render(v.Priority.String()),
		)
		r.Printf("  %s %s\n", v.Description, styles.Muted.Render(fmt.Sprintf("(%d times)", v.Count())))
		for _, d := range v.Details {
			r.Println(styles.Muted.Render("    " + d))
		}
		r.Println("")
	}

	summary := fmt.Sprintf("%d rules violated (%d checks, %d types)",
		len(out.Violations), out.ChecksRun, out.TypesAnalyzed)
	if action.Kind == gate.ActionLogOnly {
		r.Warning(summary + ", not failing because noFailOnError is set")
		return
	}
	r.Println(styles.Error.Render("✗ " + summary))
}

func renderOutcomeMarkdown(r *output.Renderer, out *gate.Outcome, action gate.Action) {
	if out.Skipped {
		r.Printf("_%s_\n", out.SkipReason)
		return
	}
	if !out.HasViolations() {
		r.Printf("**Architecture rules passed** (%d checks, %d types)\n", out.ChecksRun, out.TypesAnalyzed)
		return
	}

	r.Println("# Architecture Violations")
	r.Println("")
	for _, rv := range out.Violations {
		v := rv.Violation
		r.Printf("## `%s`\n\n", rv.Label())
		r.Printf("**Priority:** `%s` | %s (%d times)\n\n", v.Priority, v.Description, v.Count())
		for _, d := range v.Details {
			r.Printf("- %s\n", d)
		}
		r.Println("")
	}

	if action.Kind == gate.ActionLogOnly {
		r.Printf("_%d rules violated, not failing because noFailOnError is set_\n", len(out.Violations))
		return
	}
	r.Printf("**%d rules violated**\n", len(out.Violations))
}
