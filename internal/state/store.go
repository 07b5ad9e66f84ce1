// Package state records architecture check runs so that repeated runs over
// the same directory can be compared. Runs are kept in a SQLite database.
package state

import (
	"context"
	"time"

	"github.com/leapstack-labs/archgate/pkg/gate"
)

// RunStatus is the final state of a recorded run.
type RunStatus string

// Run statuses.
const (
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
	RunStatusLogged  RunStatus = "logged"
	RunStatusSkipped RunStatus = "skipped"
)

// StatusOf maps an engine outcome and the action taken on it to a status.
func StatusOf(out *gate.Outcome, action gate.Action) RunStatus {
	if out != nil && out.Skipped {
		return RunStatusSkipped
	}
	switch action.Kind {
	case gate.ActionFail:
		return RunStatusFailed
	case gate.ActionLogOnly:
		return RunStatusLogged
	default:
		return RunStatusPassed
	}
}

// Run is one recorded check run.
type Run struct {
	ID             string        `json:"id"`
	Dir            string        `json:"dir"`
	Status         RunStatus     `json:"status"`
	StartedAt      time.Time     `json:"startedAt"`
	Duration       time.Duration `json:"durationNs"`
	ChecksRun      int           `json:"checksRun"`
	TypesAnalyzed  int           `json:"typesAnalyzed"`
	ViolationCount int           `json:"violationCount"`
	ReportHash     string        `json:"reportHash"`
	// Changed is true when the report differs from the previous run over the
	// same directory, or when there was no previous run.
	Changed bool `json:"changed"`
}

// StoredViolation is a violation as persisted for a run.
type StoredViolation struct {
	RuleID      string   `json:"rule"`
	Check       string   `json:"check,omitempty"`
	Priority    string   `json:"priority"`
	Description string   `json:"description"`
	Details     []string `json:"details"`
}

// Label returns the rule id, suffixed with the check name when present.
func (v StoredViolation) Label() string {
	if v.Check == "" {
		return v.RuleID
	}
	return v.RuleID + "#" + v.Check
}

// RunRecord is the input for recording a run.
type RunRecord struct {
	Dir       string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   *gate.Outcome
	Action    gate.Action
}

// Store persists check runs.
type Store interface {
	// RecordRun stores a completed run and its violations.
	RecordRun(ctx context.Context, rec RunRecord) (*Run, error)
	// Runs lists the most recent runs, newest first. An empty dir lists runs
	// for every directory. A limit of zero or less means no limit.
	Runs(ctx context.Context, dir string, limit int) ([]Run, error)
	// LatestRun returns the most recent run for dir, or nil when there is none.
	LatestRun(ctx context.Context, dir string) (*Run, error)
	// Violations returns the violations recorded for a run in report order.
	Violations(ctx context.Context, runID string) ([]StoredViolation, error)
	Close() error
}
