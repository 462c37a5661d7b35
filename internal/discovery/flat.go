package discovery

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
)

const (
	sniffsDir     = "Sniffs"
	defaultSrcExt = ".php"
)

// Flat discovers rules from the file layout <Category>/Sniffs/<Path><Name>Sniff.<ext>.
type Flat struct {
	fs      billy.Filesystem
	ext     string
	pattern *regexp.Regexp
}

// NewFlat returns a flat discoverer for source files with extension ext.
func NewFlat(fsys billy.Filesystem, ext string) (*Flat, error) {
	if ext == "" {
		ext = defaultSrcExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	ext = strings.ToLower(ext)
	if !doublestar.ValidatePattern("*" + ext) {
		return nil, fmt.Errorf("invalid rule source extension %q", ext)
	}
	return &Flat{fs: fsys, ext: ext, pattern: flatPattern(ext)}, nil
}

// flatPattern takes the first segment followed by Sniffs as the category, so
// nested Sniffs directories stay part of the rule path.
func flatPattern(ext string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:.*?/)??([^/]+)/` + sniffsDir + `/(.+)Sniff` + regexp.QuoteMeta(ext) + `$`)
}

// Canonicalize maps a root-relative slash path to its rule id.
func (f *Flat) Canonicalize(rel string) (ir.RuleID, bool) {
	m := f.pattern.FindStringSubmatch(rel)
	if m == nil {
		return "", false
	}
	return ir.RuleID(m[1] + "." + strings.ReplaceAll(m[2], "/", ".")), true
}

func (f *Flat) Discover(root string) (*ir.Registry, Diagnostics, error) {
	var diags Diagnostics

	var dirs []string
	err := walk(f.fs, root, func(p, _ string, info os.FileInfo) error {
		if info.IsDir() && strings.EqualFold(info.Name(), sniffsDir) {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		return nil, diags, &Error{Root: root, Err: err}
	}
	sort.Strings(dirs)

	// Nested Sniffs directories must not count a file twice.
	seen := map[string]bool{}
	var records []ir.Record
	for _, dir := range dirs {
		err := walk(f.fs, dir, func(p, _ string, info os.FileInfo) error {
			if info.IsDir() || seen[p] {
				return nil
			}
			if ok, _ := doublestar.Match("*"+f.ext, strings.ToLower(info.Name())); !ok {
				return nil
			}
			seen[p] = true

			rel := relSlash(root, p)
			id, ok := f.Canonicalize(rel)
			if !ok {
				diags.Warnings = append(diags.Warnings, &UnrecognizedPathError{Path: rel})
				return nil
			}
			records = append(records, ir.Record{ID: id, Origin: rel, Metadata: ir.EmptyMap()})
			return nil
		})
		if err != nil {
			return nil, diags, &Error{Root: root, Err: err}
		}
	}

	// Walk order differs between filesystems; keep origins deterministic
	// before the registry sees them so duplicate errors are stable too.
	sort.Slice(records, func(i, j int) bool { return records[i].Origin < records[j].Origin })
	reg, err := ir.NewRegistry(records)
	if err != nil {
		return nil, diags, err
	}
	return reg, diags, nil
}
