package ruleset

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
)

func init() {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		Register(ext, LoadDocument)
	}
}

// document is the on-disk rule-set format. JSON documents are read by the
// same decoder since JSON is a subset of YAML.
type document struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Rules       yaml.Node `yaml:"rules"`
}

type docSource struct {
	id          Identity
	name        string
	description string
	rules       *ir.Map
}

func (d *docSource) Identity() Identity { return d.id }
func (d *docSource) Rules() *ir.Map     { return d.rules.Clone() }

// Name is the declared set name, falling back to the file name.
func (d *docSource) Name() string {
	if d.name != "" {
		return d.name
	}
	return d.id.Name
}

func (d *docSource) Description() string { return d.description }

// LoadDocument parses a YAML or JSON rule-set document.
func LoadDocument(id Identity, data []byte) (Source, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	rules := ir.NewMap()
	switch doc.Rules.Kind {
	case 0:
		return nil, fmt.Errorf("missing required field: rules")
	case yaml.MappingNode:
		v, err := ir.FromYAML(&doc.Rules)
		if err != nil {
			return nil, fmt.Errorf("rules: %w", err)
		}
		rules, _ = v.AsMap()
	case yaml.ScalarNode:
		// "rules:" with no value
		if doc.Rules.Tag != "!!null" {
			return nil, fmt.Errorf("line %d: rules must be a mapping", doc.Rules.Line)
		}
	default:
		return nil, fmt.Errorf("line %d: rules must be a mapping", doc.Rules.Line)
	}
	return &docSource{id: id, name: doc.Name, description: doc.Description, rules: rules}, nil
}
