package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/drift"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/match"
)

func init() { color.NoColor = true }

func sample(t *testing.T) Result {
	t.Helper()
	m := ir.NewMap()
	m.Set("syntax", ir.Scalar("short"))
	reg, err := ir.NewRegistry([]ir.Record{
		{ID: "Generic.Files.LineLength", Metadata: ir.EmptyMap()},
		{ID: "Generic.Files.EndFileNewline", Metadata: ir.EmptyMap()},
		{ID: "Squiz.Arrays.ArrayDeclaration", Metadata: ir.MapOf(m)},
	})
	require.NoError(t, err)
	prev, err := ir.NewRegistry([]ir.Record{
		{ID: "Generic.Files.LineLength"},
		{ID: "Generic.Old.Gone"},
	})
	require.NoError(t, err)

	res := Build(reg, drift.Diff(reg, prev.Snapshot()), match.Match(reg, []string{"Generic.Files", "PSR12"}, match.ExactOrPrefix))
	res.ID = "run-test"
	res.Variant = "sniffer"
	res.Config = "phpcs.xml"
	res.Snapshot.Path = "Sniffy.json"
	res.Snapshot.Written = true
	return res
}

func TestBuild(t *testing.T) {
	res := sample(t)
	assert.Equal(t, Summary{
		Rules:               3,
		Added:               2,
		Removed:             1,
		Matched:             2,
		TotalMatched:        2,
		Unmatched:           1,
		UnmatchedReferences: 1,
	}, res.Summary)
	assert.Len(t, res.Fingerprint, 64)
	assert.NotNil(t, res.Warnings)
}

func TestBuildEmpty(t *testing.T) {
	reg, err := ir.NewRegistry(nil)
	require.NoError(t, err)
	res := Build(reg, drift.Diff(reg, nil), match.Skipped(reg, match.Exact))
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"rules":[]`)
	assert.Contains(t, string(b), `"warnings":[]`)
}

func TestConsole(t *testing.T) {
	res := sample(t)
	var buf bytes.Buffer
	require.NoError(t, NewConsole(&buf, ConsoleOptions{CountRules: true}).Print(&res))
	assert.Equal(t, strings.Join([]string{
		"Counted 3 rules in distribution",
		"1 rules removed, 2 new rules.",
		"Removed:",
		"  * Generic.Old.Gone",
		"New:",
		"  * Generic.Files.EndFileNewline",
		"  * Squiz.Arrays.ArrayDeclaration",
		"Rules matching for Generic.Files: Generic.Files.EndFileNewline, Generic.Files.LineLength",
		"No rules matching for PSR12.",
		"Total of 2 matched to available rules.",
		"Total of 1 not enabled rules.",
		"Wrote Sniffy.json with 3 rules. See you next time.",
		"",
	}, "\n"), buf.String())
}

func TestConsoleReveal(t *testing.T) {
	res := sample(t)
	res.Snapshot = Snapshot{Path: "Sniffy.json", DryRun: true}
	res.Warnings = []string{"confused about naming scheme of X/Sniffs/Y.php"}
	var buf bytes.Buffer
	require.NoError(t, NewConsole(&buf, ConsoleOptions{RevealAll: true, RevealMetadata: true, RevealUnmatched: true}).Print(&res))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "confused about naming scheme of X/Sniffs/Y.php\nAvailable rules:\n"))
	assert.Contains(t, out, "  * Squiz.Arrays.ArrayDeclaration {\"syntax\":\"short\"}\n")
	assert.Contains(t, out, "Rules matching for Generic.Files: [{}], [{}]\n")
	assert.Contains(t, out, "Unmatched rules:\n  * Squiz.Arrays.ArrayDeclaration\n")
	assert.Contains(t, out, "Not updating Sniffy.json due to dry-run.\n")
	assert.NotContains(t, out, "Counted")
	assert.NotContains(t, out, "not enabled rules")
}

func TestConsoleSkippedAndFirstRun(t *testing.T) {
	reg, err := ir.NewRegistry([]ir.Record{{ID: "A.B", Metadata: ir.EmptyMap()}})
	require.NoError(t, err)
	res := Build(reg, drift.Diff(reg, nil), match.Skipped(reg, match.ExactOrPrefix))
	res.Config = "phpcs.xml"

	var buf bytes.Buffer
	require.NoError(t, NewConsole(&buf, ConsoleOptions{}).Print(&res))
	assert.Equal(t, "File phpcs.xml not found, missing ruleset.\n", buf.String())
}

func TestRenderHTML(t *testing.T) {
	res := sample(t)
	res.Match.Matches[1].Reference = "<script>"
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, &res))
	out := buf.String()

	assert.Contains(t, out, "<title>run-test</title>")
	assert.Contains(t, out, "1 rules removed, 2 new rules.")
	assert.Contains(t, out, "Generic.Files.EndFileNewline<br>Generic.Files.LineLength")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<h2>Not enabled</h2>")
}

func TestWriteFiles(t *testing.T) {
	res := sample(t)
	dir := t.TempDir()

	jp, err := WriteJSON(res.ID, dir, &res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run-test.json"), jp)

	b, err := os.ReadFile(jp)
	require.NoError(t, err)
	var back Result
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, res.Summary, back.Summary)
	assert.Equal(t, res.Drift, back.Drift)
	assert.Equal(t, res.Match.Unmatched, back.Match.Unmatched)

	hp, err := WriteHTML(res.ID, dir, &res)
	require.NoError(t, err)
	assert.FileExists(t, hp)
}
