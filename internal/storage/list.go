package storage

import (
	"database/sql"
)

// ListRuns returns recorded runs, newest first. An empty variant lists all.
func (db *DB) ListRuns(variant string, limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT id, started_at, variant, COALESCE(tool_release, ''), COALESCE(fingerprint, ''),
		       rules, added, removed, matched, unmatched
		  FROM runs
		 WHERE (? = '' OR variant = ?)
		 ORDER BY started_at DESC, id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, variant, variant, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var startedAtStr string
		if err := rows.Scan(&rr.ID, &startedAtStr, &rr.Variant, &rr.Release, &rr.Fingerprint,
			&rr.Rules, &rr.Added, &rr.Removed, &rr.Matched, &rr.Unmatched); err != nil {
			return nil, err
		}
		rr.StartedAt = parseTime(startedAtStr)
		out = append(out, rr)
	}
	return out, rows.Err()
}

// RuleHistory lists every recorded addition or removal of ruleID, oldest first.
func (db *DB) RuleHistory(ruleID string) ([]RuleChange, error) {
	const q = `
		SELECT r.id, r.started_at, r.variant, COALESCE(r.tool_release, ''), c.change
		  FROM rule_changes c
		  JOIN runs r ON r.id = c.run_id
		 WHERE c.rule_id = ?
		 ORDER BY r.started_at, r.id`
	rows, err := db.conn.Query(q, ruleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RuleChange
	for rows.Next() {
		var rc RuleChange
		var startedAtStr string
		if err := rows.Scan(&rc.RunID, &startedAtStr, &rc.Variant, &rc.Release, &rc.Change); err != nil {
			return nil, err
		}
		rc.StartedAt = parseTime(startedAtStr)
		out = append(out, rc)
	}
	return out, rows.Err()
}

// HasRun reports whether id was recorded.
func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
