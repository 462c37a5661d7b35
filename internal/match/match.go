// Package match classifies registry rules against configuration references.
package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
)

// Policy decides whether a reference selects a rule id.
type Policy int

const (
	// Exact selects only the id equal to the reference.
	Exact Policy = iota
	// ExactOrPrefix also selects ids below the reference: "A.B" selects "A.B.C" but not "A.BC".
	ExactOrPrefix
)

func (p Policy) String() string {
	switch p {
	case Exact:
		return "exact"
	case ExactOrPrefix:
		return "prefix"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy accepts "exact" and "prefix".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return Exact, nil
	case "prefix", "exact-or-prefix":
		return ExactOrPrefix, nil
	default:
		return 0, fmt.Errorf("unknown match policy %q", s)
	}
}

// Matches reports whether ref selects id. Matching is case-sensitive.
func (p Policy) Matches(ref string, id ir.RuleID) bool {
	if string(id) == ref {
		return true
	}
	return p == ExactOrPrefix && strings.HasPrefix(string(id), ref+".")
}

// Select returns every registry id ref selects, sorted.
func (p Policy) Select(reg *ir.Registry, ref string) []ir.RuleID {
	var out []ir.RuleID
	if reg.Has(ir.RuleID(ref)) {
		out = append(out, ir.RuleID(ref))
	}
	if p == ExactOrPrefix {
		out = append(out, reg.WithPrefix(ref+".")...)
	}
	return out
}

// ReferenceMatch is the outcome for one reference.
type ReferenceMatch struct {
	Reference string      `json:"reference"`
	RuleIDs   []ir.RuleID `json:"rule_ids"`
}

// Report is the classification of a registry against a reference list.
type Report struct {
	Policy              string           `json:"policy"`
	Skipped             bool             `json:"skipped,omitempty"` // no configuration available
	Matches             []ReferenceMatch `json:"matches"`
	UnmatchedReferences []string         `json:"unmatched_references"`
	Matched             []ir.RuleID      `json:"matched"`
	Unmatched           []ir.RuleID      `json:"unmatched"`
	TotalMatched        int              `json:"total_matched"`
}

// Match classifies every registry id. A rule selected by several references
// is counted once per reference in TotalMatched but listed once in Matched.
func Match(reg *ir.Registry, refs []string, p Policy) Report {
	rep := Report{
		Policy:              p.String(),
		Matches:             []ReferenceMatch{},
		UnmatchedReferences: []string{},
	}
	hit := map[ir.RuleID]struct{}{}
	for _, ref := range refs {
		ids := p.Select(reg, ref)
		if ids == nil {
			ids = []ir.RuleID{}
		}
		rep.Matches = append(rep.Matches, ReferenceMatch{Reference: ref, RuleIDs: ids})
		rep.TotalMatched += len(ids)
		if len(ids) == 0 {
			rep.UnmatchedReferences = append(rep.UnmatchedReferences, ref)
		}
		for _, id := range ids {
			hit[id] = struct{}{}
		}
	}

	rep.Matched = make([]ir.RuleID, 0, len(hit))
	for id := range hit {
		rep.Matched = append(rep.Matched, id)
	}
	sort.Slice(rep.Matched, func(i, j int) bool { return rep.Matched[i] < rep.Matched[j] })

	rep.Unmatched = []ir.RuleID{}
	for _, id := range reg.IDs() {
		if _, ok := hit[id]; !ok {
			rep.Unmatched = append(rep.Unmatched, id)
		}
	}
	return rep
}

// Skipped is the report when no configuration could be read: nothing
// matched, every rule unmatched.
func Skipped(reg *ir.Registry, p Policy) Report {
	rep := Match(reg, nil, p)
	rep.Skipped = true
	return rep
}
