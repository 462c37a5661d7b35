// Package ruleset loads rule-set documents: named collections of rules with
// their configuration, one per file.
package ruleset

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
)

// Identity is the canonical identity of a rule-set file.
type Identity struct {
	Name string // base name without extension, e.g. "PSR12Set"
	Path string // slash path inside the filesystem it was read from
	Ext  string // lower-case extension including the dot
}

// IdentityOf canonicalizes a file path.
func IdentityOf(p string) Identity {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	base := path.Base(p)
	ext := path.Ext(base)
	return Identity{
		Name: strings.TrimSuffix(base, ext),
		Path: p,
		Ext:  strings.ToLower(ext),
	}
}

// Source is anything that can report a set of rules.
type Source interface {
	Identity() Identity
	// Rules returns rule id (or category) -> configuration, in declaration order.
	Rules() *ir.Map
}

// Factory builds a Source from raw file content.
type Factory func(id Identity, data []byte) (Source, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{} // extension -> factory
)

// Register installs the factory for a file extension (".yaml").
func Register(ext string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[strings.ToLower(ext)] = f
}

// Lookup returns the factory registered for ext.
func Lookup(ext string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[strings.ToLower(ext)]
	return f, ok
}

// Extensions lists registered extensions, sorted.
func Extensions() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for ext := range factories {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Open reads p from fsys and builds its Source through the registered factory.
func Open(fsys billy.Filesystem, p string) (Source, error) {
	id := IdentityOf(p)
	f, ok := Lookup(id.Ext)
	if !ok {
		return nil, fmt.Errorf("rule set %s: no loader for %q files", id.Path, id.Ext)
	}
	b, err := util.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("read rule set: %w", err)
	}
	src, err := f(id, b)
	if err != nil {
		return nil, fmt.Errorf("rule set %s: %w", id.Path, err)
	}
	return src, nil
}
