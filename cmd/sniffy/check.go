package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/discovery"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/engine"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/reporting"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/shared"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/storage"
)

// checkFlags are the flags shared by the sniffer and fixer commands.
type checkFlags struct {
	dryRun          bool
	reveal          bool
	revealUnmatched bool
	snapshot        string
	outDir          string
	release         string
	history         bool
	noHistory       bool
}

func newCheckCmd(p engine.Profile, alias string) *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:     p.Name + " [rules-directory] [config]",
		Aliases: []string{alias},
		Short:   "Check " + p.Description,
		Long: fmt.Sprintf(`Check %s.

Discovers every rule below the rules directory (default %s), compares the
result with the snapshot of the previous run (default %s), reports which
rules your configuration (default %s) enables, and writes the new snapshot
unless --dry-run is set.`, p.Description, p.DefaultRoot, p.DefaultSnapshot, p.DefaultConfig),
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, p, args, f)
		},
	}
	fl := cmd.Flags()
	fl.BoolVarP(&f.dryRun, "dry-run", "d", false, "When set, the snapshot file will not be updated")
	fl.BoolVarP(&f.reveal, "reveal", "r", false, "When set, the available rules will be shown alphabetically")
	fl.BoolVarP(&f.revealUnmatched, "reveal-unmatched", "u", false, "When set, the unmatched rules will be shown alphabetically")
	fl.StringVar(&f.snapshot, "snapshot", "", "Snapshot file (default "+p.DefaultSnapshot+")")
	fl.StringVar(&f.outDir, "out", "", "Directory for JSON and HTML reports (optional)")
	fl.StringVar(&f.release, "release", "", "Semantic version of the audited tool, recorded in history")
	fl.BoolVar(&f.history, "history", false, "Record this run in the history database")
	fl.BoolVar(&f.noHistory, "no-history", false, "Do not record this run even if history is enabled in config")
	return cmd
}

func init() {
	rootCmd.AddCommand(newCheckCmd(engine.Sniffer, "check-sniffer"))
	rootCmd.AddCommand(newCheckCmd(engine.Fixer, "check-fixer"))
}

// resolvePaths applies precedence: args/flags > config > profile defaults.
func resolvePaths(p engine.Profile, v shared.Variant, args []string, f checkFlags) engine.Paths {
	paths := engine.Paths{Root: v.Root, Config: v.Config, Snapshot: v.Snapshot}
	if len(args) > 0 {
		paths.Root = args[0]
	}
	if len(args) > 1 {
		paths.Config = args[1]
	}
	if f.snapshot != "" {
		paths.Snapshot = f.snapshot
	}
	if paths.Root == "" {
		paths.Root = p.DefaultRoot
	}
	if paths.Config == "" {
		paths.Config = p.DefaultConfig
	}
	if paths.Snapshot == "" {
		paths.Snapshot = p.DefaultSnapshot
	}
	return paths
}

func runCheck(cmd *cobra.Command, p engine.Profile, args []string, f checkFlags) error {
	var release string
	if f.release != "" {
		v, err := semver.NewVersion(f.release)
		if err != nil {
			return fmt.Errorf("--release: %w", err)
		}
		release = v.String()
	}

	v := cfg.Variant(p.Name)
	paths := resolvePaths(p, v, args, f)
	e, opts, err := engine.NewOS(p, paths, discovery.Options{Extension: v.Extension, Exclude: v.Exclude}, slog.Default())
	if err != nil {
		return err
	}
	opts.DryRun = f.dryRun
	opts.DeferPersist = true
	opts.RevealAll = f.reveal
	opts.RevealUnmatched = f.revealUnmatched

	started := time.Now().UTC()
	res, err := e.Run(opts)
	if err != nil {
		return err
	}

	outDir := f.outDir
	if outDir == "" {
		outDir = cfg.Reporting.OutDir
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("cannot create out dir: %w", err)
		}
		jsonPath, err := reporting.WriteJSON(res.ID, outDir, &res)
		if err != nil {
			return fmt.Errorf("write json report: %w", err)
		}
		htmlPath, err := reporting.WriteHTML(res.ID, outDir, &res)
		if err != nil {
			return fmt.Errorf("write html report: %w", err)
		}
		slog.Info("reports written", "run", res.ID, "json", jsonPath, "html", htmlPath)
	}

	recorded := (cfg.History.Enabled || f.history) && !f.noHistory
	if recorded {
		if err := recordRun(cfg.History.DSN, &storage.Run{
			ID:        res.ID,
			StartedAt: started,
			Release:   release,
			Result:    res,
		}); err != nil {
			return fmt.Errorf("record history: %w", err)
		}
	}

	// The snapshot moves last so a failed run can be repeated against the
	// same baseline.
	if err := e.Commit(); err != nil {
		if recorded {
			if ferr := forgetRun(cfg.History.DSN, res.ID); ferr != nil {
				slog.Warn("cannot remove history entry of failed run", "run", res.ID, "err", ferr)
			}
		}
		return err
	}

	return reporting.NewConsole(cmd.OutOrStdout(), opts.Console(p)).Print(&res)
}
