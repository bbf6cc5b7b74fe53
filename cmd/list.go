package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"timew-companion/internal/config"
	"timew-companion/internal/storage"
	"timew-companion/internal/timerange"
)

var listRange string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List time entries",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listRange, "range", "", `Filter range, e.g. ":week" or "20220701T080000Z - 20220701T120000Z"`)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	work, err := loadEntries(cfg, listRange)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	printEntries(work)
	return nil
}

// printEntries prints one line per entry and the total tracked time.
// Entries come back newest first.
func printEntries(w *storage.Work) {
	entries := w.Entries()
	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return
	}

	for _, e := range entries {
		fmt.Printf("@%d %s\n", e.ID, e)
	}
	fmt.Printf("\nTotal: %s\n", timerange.FormatDuration(w.Duration()))
}
