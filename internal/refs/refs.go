// Package refs extracts enabled rule references from a project's lint configuration.
package refs

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ruleset"
)

// Format is the configuration document type.
type Format string

const (
	// FormatXML is a ruleset document with <rule ref="..."/> children.
	FormatXML Format = "xml"
	// FormatRuleSet is a rule-set document whose rules keys are the references.
	FormatRuleSet Format = "ruleset"
)

// ConfigNotFoundError means the configuration file does not exist.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("file %s not found, missing ruleset", e.Path)
}

// Source yields the references of one configuration file.
type Source struct {
	FS     billy.Filesystem
	Path   string
	Format Format
}

// References reads the configuration and returns its references in document
// order, first occurrence wins.
func (s Source) References() ([]string, error) {
	if _, err := s.FS.Stat(s.Path); err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{Path: s.Path}
		}
		return nil, fmt.Errorf("stat config: %w", err)
	}
	var (
		refs []string
		err  error
	)
	switch s.Format {
	case FormatXML:
		refs, err = FromXML(s.FS, s.Path)
	case FormatRuleSet:
		refs, err = FromRuleSet(s.FS, s.Path)
	default:
		return nil, fmt.Errorf("unknown config format %q", s.Format)
	}
	if err != nil {
		return nil, err
	}
	return dedupe(refs), nil
}

type xmlRuleset struct {
	Rules []struct {
		Ref string `xml:"ref,attr"`
	} `xml:"rule"`
}

// FromXML returns the ref attributes of the root element's <rule> children.
func FromXML(fsys billy.Filesystem, path string) ([]string, error) {
	b, err := util.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseXML(b)
}

// ParseXML is FromXML over raw bytes.
func ParseXML(b []byte) ([]string, error) {
	var doc xmlRuleset
	dec := xml.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse xml config: %w", err)
	}
	out := make([]string, 0, len(doc.Rules))
	for _, r := range doc.Rules {
		out = append(out, strings.TrimSpace(r.Ref))
	}
	return out, nil
}

// FromRuleSet returns the keys of the document's rules mapping.
func FromRuleSet(fsys billy.Filesystem, path string) ([]string, error) {
	src, err := ruleset.Open(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return src.Rules().Keys(), nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, r := range in {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
