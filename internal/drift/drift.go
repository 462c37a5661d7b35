// Package drift compares the current registry with the previous run's snapshot.
package drift

import (
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
)

// Report lists ids that appeared or disappeared since the snapshot.
type Report struct {
	// Baseline is false on a first run, when there was no snapshot to compare to.
	Baseline bool        `json:"baseline"`
	Added    []ir.RuleID `json:"added"`
	Removed  []ir.RuleID `json:"removed"`
}

// Changed reports whether anything was added or removed.
func (r Report) Changed() bool { return len(r.Added) > 0 || len(r.Removed) > 0 }

// Diff compares current against previous. A nil previous is a first run and
// yields empty sets. Metadata changes under an unchanged id are not drift.
func Diff(current *ir.Registry, previous *ir.Snapshot) Report {
	rep := Report{Added: []ir.RuleID{}, Removed: []ir.RuleID{}}
	if previous == nil {
		return rep
	}
	rep.Baseline = true

	for _, id := range current.IDs() {
		if !previous.Has(id) {
			rep.Added = append(rep.Added, id)
		}
	}
	for _, id := range previous.IDs() {
		if !current.Has(id) {
			rep.Removed = append(rep.Removed, id)
		}
	}
	return rep
}
