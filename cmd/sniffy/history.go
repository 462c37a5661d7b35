package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/engine"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/reporting"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/storage"
)

func openHistory(dsn string) (*storage.DB, error) {
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create history dir: %w", err)
		}
	}
	db, err := storage.OpenSQLite(dsn)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func recordRun(dsn string, run *storage.Run) error {
	db, err := openHistory(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.SaveRun(run)
}

func forgetRun(dsn, id string) error {
	db, err := openHistory(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.DeleteRun(id)
}

var (
	historyVariant   string
	historyLimit     int
	historyByRelease bool
	historyJSON      bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory(cfg.History.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := db.ListRuns(historyVariant, historyLimit, 0)
		if err != nil {
			return err
		}
		if historyByRelease {
			sortByRelease(rows)
		}
		if historyJSON {
			return writeJSON(cmd.OutOrStdout(), rows)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTARTED\tVARIANT\tRELEASE\tRULES\tADDED\tREMOVED\tMATCHED\tUNMATCHED")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
				r.ID, r.StartedAt.Format(time.RFC3339), r.Variant, orDash(r.Release),
				r.Rules, r.Added, r.Removed, r.Matched, r.Unmatched)
		}
		return tw.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the report of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory(cfg.History.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := db.LoadRun(args[0])
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("run %s not found", args[0])
		}
		if err != nil {
			return err
		}
		if historyJSON {
			return writeJSON(cmd.OutOrStdout(), &run.Result)
		}
		p, ok := engine.LookupProfile(run.Result.Variant)
		if !ok {
			return fmt.Errorf("run %s has unknown variant %q", run.ID, run.Result.Variant)
		}
		opts := engine.Options{RevealUnmatched: true}.Console(p)
		return reporting.NewConsole(cmd.OutOrStdout(), opts).Print(&run.Result)
	},
}

var historyRuleCmd = &cobra.Command{
	Use:   "rule <rule-id>",
	Short: "Show when a rule appeared in or vanished from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory(cfg.History.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		changes, err := db.RuleHistory(args[0])
		if err != nil {
			return err
		}
		if historyJSON {
			return writeJSON(cmd.OutOrStdout(), changes)
		}
		if len(changes) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No recorded changes for %s.\n", args[0])
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN\tSTARTED\tVARIANT\tRELEASE\tCHANGE")
		for _, c := range changes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				c.RunID, c.StartedAt.Format(time.RFC3339), c.Variant, orDash(c.Release), c.Change)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyVariant, "variant", "", "Only list runs of this variant (sniffer|fixer)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs")
	historyCmd.Flags().BoolVar(&historyByRelease, "by-release", false, "Order by tool release (newest first)")
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "Print JSON instead of a table")
	historyCmd.AddCommand(historyShowCmd, historyRuleCmd)
	rootCmd.AddCommand(historyCmd)
}

// sortByRelease orders rows by descending semantic version. Rows without a
// parseable release keep their order at the end.
func sortByRelease(rows []storage.RunRow) {
	parse := func(s string) *semver.Version {
		if s == "" {
			return nil
		}
		v, err := semver.NewVersion(s)
		if err != nil {
			return nil
		}
		return v
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := parse(rows[i].Release), parse(rows[j].Release)
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.GreaterThan(b)
		}
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
