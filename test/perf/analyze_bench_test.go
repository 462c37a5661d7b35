package perf

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/discovery"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/engine"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/refs"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/snapshot"
)

// A distribution about the size of PHP_CodeSniffer's: 12 standards with
// 10 categories of 8 sniffs each.
func BenchmarkRun_Distribution(b *testing.B) {
	rules := memfs.New()
	for s := 0; s < 12; s++ {
		for c := 0; c < 10; c++ {
			for n := 0; n < 8; n++ {
				p := fmt.Sprintf("Std%02d/Sniffs/Cat%02d/Rule%02dSniff.php", s, c, n)
				if err := util.WriteFile(rules, p, []byte("<?php\n"), 0o644); err != nil {
					b.Fatal(err)
				}
			}
		}
	}
	cfg := memfs.New()
	xml := `<ruleset><rule ref="Std00"/><rule ref="Std01.Cat03"/><rule ref="Std05.Cat01.Rule07"/><rule ref="Missing"/></ruleset>`
	if err := util.WriteFile(cfg, "phpcs.xml", []byte(xml), 0o644); err != nil {
		b.Fatal(err)
	}

	d, err := discovery.New(engine.Sniffer.Strategy, rules, discovery.Options{})
	if err != nil {
		b.Fatal(err)
	}
	e := &engine.Engine{
		Profile:    engine.Sniffer,
		Discoverer: d,
		References: refs.Source{FS: cfg, Path: "phpcs.xml", Format: refs.FormatXML},
		Store:      snapshot.NewStore(memfs.New(), "Sniffy.json"),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := e.Run(engine.Options{ID: "bench", Root: "."})
		if err != nil {
			b.Fatal(err)
		}
		if res.Summary.Rules != 960 {
			b.Fatalf("got %d rules", res.Summary.Rules)
		}
	}
}
