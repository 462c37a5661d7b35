package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/reporting"
)

// DB is the run history backed by SQLite.
type DB struct {
	conn *sql.DB
}

// Run is one recorded audit.
type Run struct {
	ID        string
	StartedAt time.Time
	Release   string // upstream tool release the rules came from, optional
	Result    reporting.Result
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id          TEXT PRIMARY KEY,
  started_at  TEXT,          -- RFC3339Nano
  variant     TEXT NOT NULL,
  tool_release TEXT,
  fingerprint TEXT,
  rules       INTEGER,
  added       INTEGER,
  removed     INTEGER,
  matched     INTEGER,
  unmatched   INTEGER,
  report_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_variant ON runs(variant, started_at);

CREATE TABLE IF NOT EXISTS rule_changes (
  run_id  TEXT NOT NULL,
  rule_id TEXT NOT NULL,
  change  TEXT NOT NULL,     -- 'added' | 'removed'
  PRIMARY KEY (run_id, rule_id),
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_rule_changes_rule ON rule_changes(rule_id);
`)
	return err
}

// SaveRun upserts a run and (re)writes its drift rows. Dry runs never moved
// the baseline, so they record no drift rows.
func (db *DB) SaveRun(run *Run) error {
	b, err := json.Marshal(&run.Result)
	if err != nil {
		return err
	}
	ts := run.StartedAt.UTC().Format(time.RFC3339Nano)
	s := run.Result.Summary

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, started_at, variant, tool_release, fingerprint, rules, added, removed, matched, unmatched, report_json)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET started_at=excluded.started_at, variant=excluded.variant, tool_release=excluded.tool_release,
           fingerprint=excluded.fingerprint, rules=excluded.rules, added=excluded.added, removed=excluded.removed,
           matched=excluded.matched, unmatched=excluded.unmatched, report_json=excluded.report_json`,
		run.ID, ts, run.Result.Variant, run.Release, run.Result.Fingerprint,
		s.Rules, s.Added, s.Removed, s.Matched, s.Unmatched, string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM rule_changes WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	if run.Result.Drift.Changed() && !run.Result.Snapshot.DryRun {
		stmt, err := tx.Prepare(`INSERT INTO rule_changes (run_id, rule_id, change) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, id := range run.Result.Drift.Added {
			if _, err := stmt.Exec(run.ID, string(id), "added"); err != nil {
				return err
			}
		}
		for _, id := range run.Result.Drift.Removed {
			if _, err := stmt.Exec(run.ID, string(id), "removed"); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// DeleteRun removes a run and its drift rows.
func (db *DB) DeleteRun(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`DELETE FROM rule_changes WHERE run_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadRun returns the full run (from stored JSON).
func (db *DB) LoadRun(id string) (Run, error) {
	var s, ts, release string
	row := db.conn.QueryRow(`SELECT report_json, started_at, COALESCE(tool_release, '') FROM runs WHERE id = ?`, id)
	if err := row.Scan(&s, &ts, &release); err != nil {
		return Run{}, err
	}
	run := Run{ID: id, Release: release, StartedAt: parseTime(ts)}
	if err := json.Unmarshal([]byte(s), &run.Result); err != nil {
		return Run{}, err
	}
	return run, nil
}

// parseTime reads RFC3339Nano first, falling back to RFC3339.
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
