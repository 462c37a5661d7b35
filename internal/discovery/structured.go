package discovery

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ruleset"
)

var defaultExclude = []string{"phpunit"}

// Structured discovers rules by loading every *Set rule-set document and
// merging their rules into one aggregate.
type Structured struct {
	fs      billy.Filesystem
	exclude []string
}

// NewStructured returns a structured discoverer. Paths containing any of
// exclude (case-insensitive) are skipped.
func NewStructured(fsys billy.Filesystem, exclude []string) (*Structured, error) {
	if exclude == nil {
		exclude = defaultExclude
	}
	lower := make([]string, 0, len(exclude))
	for _, x := range exclude {
		if x = strings.ToLower(strings.TrimSpace(x)); x != "" {
			lower = append(lower, x)
		}
	}
	if len(ruleset.Extensions()) == 0 {
		return nil, fmt.Errorf("no rule set loaders registered")
	}
	return &Structured{fs: fsys, exclude: lower}, nil
}

// Pattern is the glob a rule-set file path must match.
func (s *Structured) Pattern() string {
	return "**/*Set{" + strings.Join(ruleset.Extensions(), ",") + "}"
}

// lowerExt folds the extension of p so loader lookup and matching agree.
func lowerExt(p string) string {
	ext := path.Ext(p)
	return strings.TrimSuffix(p, ext) + strings.ToLower(ext)
}

func (s *Structured) excluded(p string) bool {
	lp := strings.ToLower(p)
	for _, x := range s.exclude {
		if strings.Contains(lp, x) {
			return true
		}
	}
	return false
}

func (s *Structured) Discover(root string) (*ir.Registry, Diagnostics, error) {
	var diags Diagnostics
	pattern := s.Pattern()

	var files []string
	err := walk(s.fs, root, func(p, rel string, info os.FileInfo) error {
		if info.IsDir() {
			return nil
		}
		if ok, _ := doublestar.Match(pattern, lowerExt(rel)); !ok {
			return nil
		}
		if s.excluded(rel) {
			diags.Skipped = append(diags.Skipped, rel)
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, diags, &Error{Root: root, Err: err}
	}
	sort.Strings(files)

	agg := ir.NewMap()
	origin := map[string]string{}
	for _, p := range files {
		src, err := ruleset.Open(s.fs, p)
		if err != nil {
			return nil, diags, &Error{Root: root, Err: err}
		}
		rules := src.Rules()
		agg = ir.Merge(agg, rules)
		for _, k := range rules.Keys() {
			origin[k] = relSlash(root, p)
		}
	}

	records := make([]ir.Record, 0, agg.Len())
	for _, k := range agg.Keys() {
		v, _ := agg.Get(k)
		records = append(records, ir.Record{ID: ir.RuleID(k), Origin: origin[k], Metadata: v})
	}
	reg, err := ir.NewRegistry(records)
	if err != nil {
		return nil, diags, err
	}
	return reg, diags, nil
}
