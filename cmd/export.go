package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"timew-companion/internal/config"
	"timew-companion/internal/model"
)

var (
	exportFormat string
	exportRange  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export time entries to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
	exportCmd.Flags().StringVar(&exportRange, "range", "", "Filter range (default all entries)")
}

// exportEntry is the serialized form of an entry. Running entries have
// no end and carry duration_sec -1, matching the MySQL mirror.
type exportEntry struct {
	ID          int        `json:"id"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	DurationSec int64      `json:"duration_sec"`
	Tags        []string   `json:"tags"`
}

func toExportEntry(e model.Entry) exportEntry {
	out := exportEntry{
		ID:          e.ID,
		Start:       e.Range.From(),
		DurationSec: -1,
		Tags:        e.Tags,
	}
	if end, ok := e.Range.To(); ok {
		out.End = &end
		out.DurationSec = int64(end.Sub(e.Range.From()).Seconds())
	}
	return out
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	work, err := loadEntries(cfg, exportRange)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	switch exportFormat {
	case "json":
		out := make([]exportEntry, 0, len(work.Entries()))
		for _, e := range work.Entries() {
			out = append(out, toExportEntry(e))
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	default: // csv
		printCSV(work.Entries())
	}

	return nil
}

func printCSV(entries []model.Entry) {
	fmt.Println("id,start,end,duration_sec,tags")
	for _, e := range entries {
		ee := toExportEntry(e)
		end := ""
		if ee.End != nil {
			end = ee.End.Format(time.RFC3339)
		}
		fmt.Printf("%d,%s,%s,%d,%s\n",
			ee.ID,
			csvEscape(ee.Start.Format(time.RFC3339)),
			csvEscape(end),
			ee.DurationSec,
			csvEscape(strings.Join(ee.Tags, ";")),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
