package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"timew-companion/internal/config"
	"timew-companion/internal/storage"
	"timew-companion/internal/timerange"
)

var (
	rootDataDir string
	rootVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "twc",
	Short: "Timewarrior companion – list, export and mirror tracked time",
	Long: `twc reads the plain-text data files written by timewarrior and turns
them into listings, Outlook calendar events and MySQL rows. The data
files themselves are never modified.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDataDir, "data-dir", "", "Timewarrior data directory (default ~/.timewarrior/data)")
	rootCmd.PersistentFlags().BoolVar(&rootVerbose, "verbose", false, "Enable debug logging")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(outlookCmd)
	rootCmd.AddCommand(mirrorCmd)
}

// dataDir resolves the data directory: the --data-dir flag wins, then
// the config file, then the timewarrior default.
func dataDir(cfg config.Config) (string, error) {
	if rootDataDir != "" {
		return rootDataDir, nil
	}
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}
	return storage.DefaultDir()
}

// loadEntries loads entries from the resolved data directory, filtered
// by the given range expression when non-empty.
func loadEntries(cfg config.Config, rangeExpr string) (*storage.Work, error) {
	dir, err := dataDir(cfg)
	if err != nil {
		return nil, err
	}
	if rangeExpr == "" {
		return storage.LoadAll(dir)
	}
	r, err := timerange.Parse(rangeExpr)
	if err != nil {
		return nil, err
	}
	return storage.LoadRange(dir, &r)
}
