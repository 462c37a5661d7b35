// Package discovery enumerates rule definitions below a root directory and
// builds the sorted rule registry.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
)

// Strategy selects how rules are discovered.
type Strategy string

const (
	// StrategyFlat derives rule ids from the file layout below Sniffs directories.
	StrategyFlat Strategy = "flat"
	// StrategyStructured loads *Set rule-set documents and merges their rules.
	StrategyStructured Strategy = "structured"
)

// Discoverer produces a registry from a directory tree.
type Discoverer interface {
	Discover(root string) (*ir.Registry, Diagnostics, error)
}

// Diagnostics carries non-fatal findings of a discovery run.
type Diagnostics struct {
	Warnings []error
	Skipped  []string // files ignored by an exclusion filter
}

// Messages renders the warnings for logging.
func (d Diagnostics) Messages() []string {
	out := make([]string, 0, len(d.Warnings))
	for _, w := range d.Warnings {
		out = append(out, w.Error())
	}
	return out
}

// UnrecognizedPathError marks a file below a Sniffs directory that does not
// follow the <Category>/Sniffs/<Path><Name>Sniff.<ext> naming scheme.
type UnrecognizedPathError struct {
	Path string
}

func (e *UnrecognizedPathError) Error() string {
	return fmt.Sprintf("confused about naming scheme of %s", e.Path)
}

// Error is a fatal discovery failure (unreadable tree, broken rule set).
type Error struct {
	Root string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("discover rules in %s: %v", e.Root, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Options tunes the strategies. Zero values pick the defaults.
type Options struct {
	Extension string   // flat: rule source extension, default ".php"
	Exclude   []string // structured: case-insensitive path fragments to skip, default ["phpunit"]
}

// New returns the discoverer for strategy reading from fsys.
func New(strategy Strategy, fsys billy.Filesystem, opts Options) (Discoverer, error) {
	switch strategy {
	case StrategyFlat:
		return NewFlat(fsys, opts.Extension)
	case StrategyStructured:
		return NewStructured(fsys, opts.Exclude)
	default:
		return nil, fmt.Errorf("unknown discovery strategy %q", strategy)
	}
}

// walk visits every entry below root. A missing root is an error.
func walk(fsys billy.Filesystem, root string, fn func(path, rel string, info os.FileInfo) error) error {
	return util.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return fn(p, relSlash(root, p), info)
	})
}

func relSlash(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = p
	}
	return filepath.ToSlash(rel)
}
