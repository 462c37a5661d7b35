package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
)

// ConsoleOptions selects optional console sections.
type ConsoleOptions struct {
	CountRules      bool // print "Counted N rules in distribution"
	RevealAll       bool // list every rule
	RevealMetadata  bool // list rules with metadata and show metadata next to matches
	RevealUnmatched bool // list unmatched rules instead of their count
}

// Console prints a Result as the human-readable run narrative.
type Console struct {
	w    io.Writer
	opts ConsoleOptions

	comment func(a ...any) string
	info    func(a ...any) string
	errc    func(a ...any) string
}

func NewConsole(w io.Writer, opts ConsoleOptions) *Console {
	return &Console{
		w:       w,
		opts:    opts,
		comment: color.New(color.FgYellow).SprintFunc(),
		info:    color.New(color.FgGreen).SprintFunc(),
		errc:    color.New(color.FgRed).SprintFunc(),
	}
}

func (c *Console) Print(res *Result) error {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}
	list := func(ids []ir.RuleID) {
		for _, id := range ids {
			line("  * %s", id)
		}
	}

	for _, w := range res.Warnings {
		line("%s", c.errc(w))
	}
	if c.opts.CountRules {
		line("Counted %s rules in distribution", c.comment(res.Summary.Rules))
	}

	if c.opts.RevealAll {
		line("Available rules:")
		for _, rec := range res.Rules {
			if c.opts.RevealMetadata {
				meta, _ := rec.Metadata.MarshalJSON()
				line("  * %s %s", rec.ID, meta)
				continue
			}
			line("  * %s", rec.ID)
		}
	}

	if res.Drift.Baseline {
		line("%s rules removed, %s new rules.", c.comment(res.Summary.Removed), c.comment(res.Summary.Added))
		if len(res.Drift.Removed) > 0 {
			line("Removed:")
			list(res.Drift.Removed)
		}
		if len(res.Drift.Added) > 0 {
			line("New:")
			list(res.Drift.Added)
		}
	}

	if res.Match.Skipped {
		line("%s", c.errc(fmt.Sprintf("File %s not found, missing ruleset.", res.Config)))
	} else {
		meta := map[ir.RuleID]string{}
		if c.opts.RevealMetadata {
			for _, rec := range res.Rules {
				js, _ := rec.Metadata.MarshalJSON()
				meta[rec.ID] = string(js)
			}
		}
		for _, m := range res.Match.Matches {
			if len(m.RuleIDs) == 0 {
				line("%s matching for %s.", c.errc("No rules"), c.comment(m.Reference))
				continue
			}
			parts := make([]string, 0, len(m.RuleIDs))
			for _, id := range m.RuleIDs {
				if js, ok := meta[id]; ok {
					parts = append(parts, "["+js+"]")
					continue
				}
				parts = append(parts, string(id))
			}
			line("Rules matching for %s: %s", c.comment(m.Reference), c.comment(strings.Join(parts, ", ")))
		}
		line("%s", c.info(fmt.Sprintf("Total of %d matched to available rules.", res.Match.TotalMatched)))

		if c.opts.RevealUnmatched {
			line("Unmatched rules:")
			list(res.Match.Unmatched)
		} else {
			line("%s", c.info(fmt.Sprintf("Total of %d not enabled rules.", res.Summary.Unmatched)))
		}
	}

	switch {
	case res.Snapshot.DryRun:
		line("%s", c.info(fmt.Sprintf("Not updating %s due to dry-run.", res.Snapshot.Path)))
	case res.Snapshot.Written:
		line("%s", c.info(fmt.Sprintf("Wrote %s with %d rules. See you next time.", res.Snapshot.Path, res.Summary.Rules)))
	}

	_, err := io.WriteString(c.w, b.String())
	return err
}
