package engine

import (
	"sort"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/discovery"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/match"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/refs"
)

// Profile binds a discovery strategy to its configuration format and match policy.
type Profile struct {
	Name         string
	Description  string
	Strategy     discovery.Strategy
	ConfigFormat refs.Format
	Policy       match.Policy

	DefaultRoot     string
	DefaultConfig   string
	DefaultSnapshot string

	// console hints
	CountRules     bool
	RevealMetadata bool
}

var (
	// Sniffer audits a PHP_CodeSniffer standards tree against phpcs.xml.
	Sniffer = Profile{
		Name:            "sniffer",
		Description:     "PHP_CodeSniffer sniffs vs. phpcs.xml",
		Strategy:        discovery.StrategyFlat,
		ConfigFormat:    refs.FormatXML,
		Policy:          match.ExactOrPrefix,
		DefaultRoot:     "vendor/squizlabs/php_codesniffer/src/Standards",
		DefaultConfig:   "phpcs.xml",
		DefaultSnapshot: "Sniffy.json",
		CountRules:      true,
	}

	// Fixer audits PHP-CS-Fixer rule sets against the project's fixer rules.
	Fixer = Profile{
		Name:            "fixer",
		Description:     "PHP-CS-Fixer rule sets vs. .php-cs-fixer.yaml",
		Strategy:        discovery.StrategyStructured,
		ConfigFormat:    refs.FormatRuleSet,
		Policy:          match.Exact,
		DefaultRoot:     "vendor/friendsofphp/php-cs-fixer/src/RuleSet/Sets",
		DefaultConfig:   ".php-cs-fixer.yaml",
		DefaultSnapshot: "Fixer.json",
		RevealMetadata:  true,
	}
)

var profiles = map[string]Profile{
	Sniffer.Name: Sniffer,
	Fixer.Name:   Fixer,
}

// LookupProfile finds a profile by name.
func LookupProfile(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// Profiles returns all profiles sorted by name.
func Profiles() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
