package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/engine"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/shared"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/storage"
)

func TestResolvePaths(t *testing.T) {
	p := engine.Sniffer
	got := resolvePaths(p, shared.Variant{}, nil, checkFlags{})
	assert.Equal(t, engine.Paths{Root: p.DefaultRoot, Config: p.DefaultConfig, Snapshot: p.DefaultSnapshot}, got)

	v := shared.Variant{Root: "cfg-root", Config: "cfg.xml", Snapshot: "cfg.json"}
	got = resolvePaths(p, v, nil, checkFlags{})
	assert.Equal(t, engine.Paths{Root: "cfg-root", Config: "cfg.xml", Snapshot: "cfg.json"}, got)

	got = resolvePaths(p, v, []string{"arg-root", "arg.xml"}, checkFlags{snapshot: "flag.json"})
	assert.Equal(t, engine.Paths{Root: "arg-root", Config: "arg.xml", Snapshot: "flag.json"}, got)
}

func TestSortByRelease(t *testing.T) {
	rows := []storage.RunRow{
		{ID: "a", Release: ""},
		{ID: "b", Release: "3.9.0"},
		{ID: "c", Release: "not-a-version"},
		{ID: "d", Release: "3.10.1"},
		{ID: "e", Release: "v2.0.0"},
	}
	sortByRelease(rows)
	ids := []string{}
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"d", "b", "e", "a", "c"}, ids)
}

func TestSnifferCommand(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	root := filepath.Join(dir, "Standards")
	sniff := filepath.Join(root, "Generic", "Sniffs", "Files", "LineLengthSniff.php")
	require.NoError(t, os.MkdirAll(filepath.Dir(sniff), 0o755))
	require.NoError(t, os.WriteFile(sniff, []byte("<?php\n"), 0o644))
	cfgPath := filepath.Join(dir, "phpcs.xml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`<ruleset><rule ref="Generic"/></ruleset>`), 0o644))
	snap := filepath.Join(dir, "Sniffy.json")
	out := filepath.Join(dir, "reports")
	history := filepath.Join(dir, "history.db")
	t.Setenv("SNIFFY_HISTORY_DSN", history)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"check-sniffer", root, cfgPath, "--snapshot", snap, "--out", out, "--release", "3.9.0"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, stdout.String(), "Counted 1 rules in distribution")
	assert.Contains(t, stdout.String(), "Rules matching for Generic: Generic.Files.LineLength")
	assert.FileExists(t, snap)

	db, err := storage.OpenSQLite(history)
	require.NoError(t, err)
	defer db.Close()
	rows, err := db.ListRuns("sniffer", 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "3.9.0", rows[0].Release)
	assert.FileExists(t, filepath.Join(out, rows[0].ID+".json"))
	assert.FileExists(t, filepath.Join(out, rows[0].ID+".html"))
}

func TestSnifferCommandKeepsSnapshotWhenHistoryFails(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	root := filepath.Join(dir, "Standards")
	sniff := filepath.Join(root, "Generic", "Sniffs", "Files", "LineLengthSniff.php")
	require.NoError(t, os.MkdirAll(filepath.Dir(sniff), 0o755))
	require.NoError(t, os.WriteFile(sniff, []byte("<?php\n"), 0o644))
	cfgPath := filepath.Join(dir, "phpcs.xml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`<ruleset><rule ref="Generic"/></ruleset>`), 0o644))
	snap := filepath.Join(dir, "Sniffy.json")
	require.NoError(t, os.WriteFile(snap, []byte(`{"X.Y.Old":{}}`), 0o644))
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	t.Setenv("SNIFFY_HISTORY_DSN", filepath.Join(blocker, "history.db"))

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"check-sniffer", root, cfgPath, "--snapshot", snap,
		"--out", filepath.Join(dir, "reports"), "--release", "3.9.0", "--dry-run=false"})
	assert.ErrorContains(t, rootCmd.Execute(), "record history")

	b, err := os.ReadFile(snap)
	require.NoError(t, err)
	assert.Equal(t, `{"X.Y.Old":{}}`, string(b))
}

func TestReleaseMustBeSemver(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"sniffer", t.TempDir(), "--dry-run", "--release", "banana"})
	assert.ErrorContains(t, rootCmd.Execute(), "--release")
}
