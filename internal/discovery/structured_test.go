package discovery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
)

func TestStructuredPattern(t *testing.T) {
	s, err := NewStructured(tree(t, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, "**/*Set{.json,.yaml,.yml}", s.Pattern())
}

func TestStructuredDiscoverMerges(t *testing.T) {
	fs := tree(t, map[string]string{
		"PSR2Set.yaml": `
name: "@PSR2"
rules:
  braces: true
  ordered_imports:
    imports_order: [class]
`,
		"PSR12Set.json": `{"name":"@PSR12","rules":{"binary_operator_spaces":{"default":"single_space"},"ordered_imports":{"imports_order":["function"],"sort_algorithm":"alpha"}}}`,
		"Nested/SymfonySet.yml": `
rules:
  braces: false
  yoda_style: ~
`,
		"README.md":                       "not a set",
		"PhpUnit84MigrationRiskySet.yaml": "rules: {php_unit_dedicate_assert: true}",
		"Helpers.yaml":                    "rules: {not_a_set: true}",
	})
	d, err := New(StrategyStructured, fs, Options{})
	require.NoError(t, err)

	reg, diags, err := d.Discover(".")
	require.NoError(t, err)
	assert.Equal(t, []ir.RuleID{"binary_operator_spaces", "braces", "ordered_imports", "yoda_style"}, reg.IDs())
	assert.Equal(t, []string{"PhpUnit84MigrationRiskySet.yaml"}, diags.Skipped)
	assert.Empty(t, diags.Warnings)

	// Files load in path order: Nested/SymfonySet.yml, PSR12Set.json, PSR2Set.yaml.
	braces, ok := reg.Get("braces")
	require.True(t, ok)
	assert.Equal(t, true, braces.Metadata.Interface())
	assert.Equal(t, "PSR2Set.yaml", braces.Origin)

	imports, ok := reg.Get("ordered_imports")
	require.True(t, ok)
	b, err := json.Marshal(imports.Metadata)
	require.NoError(t, err)
	assert.Equal(t, `{"imports_order":["function","class"],"sort_algorithm":"alpha"}`, string(b))
}

func TestStructuredDiscoverCustomExclude(t *testing.T) {
	fs := tree(t, map[string]string{
		"PSR2Set.yaml":      "rules: {braces: true}",
		"PhpUnitSet.yaml":   "rules: {php_unit_strict: true}",
		"Legacy/OldSet.yml": "rules: {old_rule: true}",
	})
	d, err := New(StrategyStructured, fs, Options{Exclude: []string{"LEGACY"}})
	require.NoError(t, err)

	reg, diags, err := d.Discover(".")
	require.NoError(t, err)
	assert.Equal(t, []ir.RuleID{"braces", "php_unit_strict"}, reg.IDs())
	assert.Equal(t, []string{"Legacy/OldSet.yml"}, diags.Skipped)
}

func TestStructuredDiscoverBrokenSetIsFatal(t *testing.T) {
	fs := tree(t, map[string]string{
		"PSR2Set.yaml": "name: x\n",
	})
	d, err := New(StrategyStructured, fs, Options{})
	require.NoError(t, err)

	_, _, err = d.Discover(".")
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, err.Error(), "missing required field: rules")
}

func TestStructuredDiscoverExtensionIgnoresCase(t *testing.T) {
	fs := tree(t, map[string]string{
		"PSR12Set.YAML":   "rules: {braces: true}",
		"SymfonySet.Json": `{"rules":{"yoda_style":false}}`,
	})
	d, err := New(StrategyStructured, fs, Options{})
	require.NoError(t, err)

	reg, _, err := d.Discover(".")
	require.NoError(t, err)
	assert.Equal(t, []ir.RuleID{"braces", "yoda_style"}, reg.IDs())
}
