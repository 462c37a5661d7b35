package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/shared"
)

var (
	configPath string
	cfg        shared.Config
)

var rootCmd = &cobra.Command{
	Use:   "sniffy",
	Short: "Audit lint rule catalogs against your configuration",
	Long: `sniffy – rule inventory and drift checker

Very simple checker to see which rules a lint tool has available, and which
of them are not enabled by your project's configuration.

The set of known rules is stored in a snapshot file and updated with all
known rules on every run. When new rules get added to (or removed from) the
tool, the next run reveals them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := shared.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = c
		shared.InitLogger(os.Stderr, cfg.Logging.Format, cfg.Logging.Level)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "sniffy snapshot format:", ir.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to sniffy YAML config (optional)")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
