// Package reporting assembles run results and renders them as console text,
// JSON and HTML.
package reporting

import (
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/drift"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/match"
)

// Result is everything one run found.
type Result struct {
	ID          string       `json:"id"`
	Variant     string       `json:"variant"`
	Root        string       `json:"root"`
	Config      string       `json:"config"`
	Fingerprint string       `json:"fingerprint"`
	Summary     Summary      `json:"summary"`
	Rules       []ir.Record  `json:"rules"`
	Warnings    []string     `json:"warnings"`
	Drift       drift.Report `json:"drift"`
	Match       match.Report `json:"match"`
	Snapshot    Snapshot     `json:"snapshot"`
}

// Summary holds the headline counts.
type Summary struct {
	Rules               int `json:"rules"`
	Added               int `json:"added"`
	Removed             int `json:"removed"`
	Matched             int `json:"matched"`
	TotalMatched        int `json:"total_matched"`
	Unmatched           int `json:"unmatched"`
	UnmatchedReferences int `json:"unmatched_references"`
}

// Snapshot describes what happened to the snapshot file.
type Snapshot struct {
	Path    string `json:"path"`
	DryRun  bool   `json:"dry_run"`
	Written bool   `json:"written"`
}

// Build aggregates the registry, drift and match results. It does no I/O.
func Build(reg *ir.Registry, d drift.Report, m match.Report) Result {
	rules := reg.Records()
	if rules == nil {
		rules = []ir.Record{}
	}
	return Result{
		Fingerprint: reg.Fingerprint(),
		Summary: Summary{
			Rules:               reg.Len(),
			Added:               len(d.Added),
			Removed:             len(d.Removed),
			Matched:             len(m.Matched),
			TotalMatched:        m.TotalMatched,
			Unmatched:           len(m.Unmatched),
			UnmatchedReferences: len(m.UnmatchedReferences),
		},
		Rules:    rules,
		Warnings: []string{},
		Drift:    d,
		Match:    m,
	}
}
