package storage

import "time"

// RunRow is a lightweight listing row for sniffy history.
type RunRow struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	Variant     string    `json:"variant"`
	Release     string    `json:"release,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	Rules       int       `json:"rules"`
	Added       int       `json:"added"`
	Removed     int       `json:"removed"`
	Matched     int       `json:"matched"`
	Unmatched   int       `json:"unmatched"`
}

// RuleChange is one appearance or disappearance of a rule.
type RuleChange struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Variant   string    `json:"variant"`
	Release   string    `json:"release,omitempty"`
	Change    string    `json:"change"` // "added"|"removed"
}
