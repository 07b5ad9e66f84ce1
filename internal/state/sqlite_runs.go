package state

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/archgate/pkg/gate"
)

const runColumns = `id, dir, status, started_at, duration_ms, checks_run, types_analyzed, violation_count, report_hash, changed`

// ReportHash fingerprints the violations of an outcome. Runs with the same
// violations in the same order have the same hash.
func ReportHash(out *gate.Outcome) string {
	var report string
	if out != nil {
		report = gate.Report(out.Violations)
	}
	sum := sha256.Sum256([]byte(report))
	return hex.EncodeToString(sum[:])
}

// RecordRun stores a completed run and its violations.
func (s *SQLiteStore) RecordRun(ctx context.Context, rec RunRecord) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	prev, err := s.LatestRun(ctx, rec.Dir)
	if err != nil {
		return nil, err
	}

	started := rec.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	run := &Run{
		ID:         generateID(),
		Dir:        rec.Dir,
		Status:     StatusOf(rec.Outcome, rec.Action),
		StartedAt:  started.UTC(),
		Duration:   rec.Duration,
		ReportHash: ReportHash(rec.Outcome),
	}
	if out := rec.Outcome; out != nil {
		run.ChecksRun = out.ChecksRun
		run.TypesAnalyzed = out.TypesAnalyzed
		run.ViolationCount = len(out.Violations)
	}
	run.Changed = prev == nil || prev.ReportHash != run.ReportHash

	s.logger.Debug("recording run",
		slog.String("id", run.ID),
		slog.String("status", string(run.Status)),
		slog.Bool("changed", run.Changed))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Dir, string(run.Status), run.StartedAt.UnixNano(), run.Duration.Milliseconds(),
		run.ChecksRun, run.TypesAnalyzed, run.ViolationCount, run.ReportHash, run.Changed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	if rec.Outcome != nil {
		for i, v := range rec.Outcome.Violations {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO run_violations (run_id, position, rule_id, check_name, priority, description, details)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				run.ID, i, v.RuleID, v.Check, v.Violation.Priority.String(), v.Violation.Description,
				strings.Join(v.Violation.Details, "\n"),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to record violation: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}
	return run, nil
}

// Runs lists recorded runs, newest first.
func (s *SQLiteStore) Runs(ctx context.Context, dir string, limit int) ([]Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if dir != "" {
		query += ` WHERE dir = ?`
		args = append(args, dir)
	}
	query += ` ORDER BY started_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recent run for dir, or nil when there is none.
func (s *SQLiteStore) LatestRun(ctx context.Context, dir string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE dir = ? ORDER BY started_at DESC, rowid DESC LIMIT 1`, dir)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// Violations returns the violations recorded for a run in report order.
func (s *SQLiteStore) Violations(ctx context.Context, runID string) ([]StoredViolation, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT rule_id, check_name, priority, description, details
		 FROM run_violations WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	defer rows.Close()

	var out []StoredViolation
	for rows.Next() {
		var v StoredViolation
		var details string
		if err := rows.Scan(&v.RuleID, &v.Check, &v.Priority, &v.Description, &details); err != nil {
			return nil, fmt.Errorf("failed to scan violation: %w", err)
		}
		if details != "" {
			v.Details = strings.Split(details, "\n")
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		status     string
		startedAt  int64
		durationMs int64
	)
	err := row.Scan(&run.ID, &run.Dir, &status, &startedAt, &durationMs,
		&run.ChecksRun, &run.TypesAnalyzed, &run.ViolationCount, &run.ReportHash, &run.Changed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Status = RunStatus(status)
	run.StartedAt = time.Unix(0, startedAt).UTC()
	run.Duration = time.Duration(durationMs) * time.Millisecond
	return &run, nil
}
