package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/shocktest/internal/canonical"
	"github.com/roach88/shocktest/pkg/shocktest"
)

// timeLayout is fixed-width so started_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned by Cases when no run has the given ID.
var ErrRunNotFound = errors.New("run not found")

// Run is the stored summary of one report.
type Run struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Total     int           `json:"total"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"-"`
	ElapsedMS int64         `json:"elapsed_ms"`
	// Digest identifies the outcome set: runs with identical cases, outcomes
	// and messages share a digest regardless of timing.
	Digest  string `json:"digest"`
	Version string `json:"version"`
}

// Record stores report and its case results in one transaction.
func (s *Store) Record(ctx context.Context, report *shocktest.Report, startedAt time.Time) (*Run, error) {
	digest, err := canonical.Digest(canonical.DomainReport, report.Snapshot(false))
	if err != nil {
		return nil, fmt.Errorf("digest report: %w", err)
	}

	run := &Run{
		ID:        s.newID(),
		StartedAt: startedAt.UTC(),
		Total:     report.Total,
		Failed:    report.Failed,
		Elapsed:   report.Elapsed,
		ElapsedMS: report.Elapsed.Milliseconds(),
		Digest:    digest,
		Version:   shocktest.Version,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, total, failed, elapsed_ms, digest, version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.Format(timeLayout), run.Total, run.Failed, run.ElapsedMS, run.Digest, run.Version)
	if err != nil {
		return nil, fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for i, c := range report.Cases {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO case_results (run_id, seq, name, expect_fail, outcome, passed, message, elapsed_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, c.Name, c.ExpectFail, c.Outcome.String(), c.Passed, c.Message, c.Elapsed.Milliseconds())
		if err != nil {
			return nil, fmt.Errorf("insert case %d of run %s: %w", i, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return run, nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, total, failed, elapsed_ms, digest, version
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			startedAt string
		)
		if err := rows.Scan(&run.ID, &startedAt, &run.Total, &run.Failed, &run.ElapsedMS, &run.Digest, &run.Version); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, err = time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at of run %s: %w", run.ID, err)
		}
		run.Elapsed = time.Duration(run.ElapsedMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Cases returns the stored case results of a run in registration order.
func (s *Store) Cases(ctx context.Context, runID string) ([]shocktest.CaseResult, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup run %s: %w", runID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, expect_fail, outcome, passed, message, elapsed_ms
		FROM case_results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query cases of run %s: %w", runID, err)
	}
	defer rows.Close()

	var cases []shocktest.CaseResult
	for rows.Next() {
		var (
			c         shocktest.CaseResult
			outcome   string
			elapsedMS int64
		)
		if err := rows.Scan(&c.Name, &c.ExpectFail, &outcome, &c.Passed, &c.Message, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		if err := c.Outcome.UnmarshalText([]byte(outcome)); err != nil {
			return nil, fmt.Errorf("case %q of run %s: %w", c.Name, runID, err)
		}
		c.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return cases, nil
}
