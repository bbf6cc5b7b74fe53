package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"timew-companion/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show running entries",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	work, err := loadEntries(cfg, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	now := time.Now()
	running := 0
	for _, e := range work.Entries() {
		if !e.Range.IsOpen() {
			continue
		}
		running++
		elapsed := int64(now.Sub(e.Range.From()).Seconds())
		fmt.Printf("@%d %q (running for %s)\n", e.ID, e.Tags, formatElapsed(elapsed))
	}
	if running == 0 {
		fmt.Println("No running entries.")
	}
	return nil
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
