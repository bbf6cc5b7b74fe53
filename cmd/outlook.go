package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"timew-companion/internal/config"
	"timew-companion/internal/msgraph"
)

var (
	outlookPushRange  string
	outlookPushDryRun bool
	outlookPushTZ     string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Create Outlook calendar events from tracked entries",
	Args:  cobra.NoArgs,
	RunE:  runOutlookPush,
}

func init() {
	outlookPushCmd.Flags().StringVar(&outlookPushRange, "range", ":week", `Range of entries to push, e.g. ":day" or ":lastweek"`)
	outlookPushCmd.Flags().BoolVar(&outlookPushDryRun, "dry-run", false, "Print planned operations without creating events")
	outlookPushCmd.Flags().StringVar(&outlookPushTZ, "timezone", "", "IANA timezone for event times (e.g. Europe/Berlin); overrides the config file")
	outlookCmd.AddCommand(outlookPushCmd)
}

func runOutlookPush(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	work, err := loadEntries(cfg, outlookPushRange)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	timezone := outlookPushTZ
	if timezone == "" {
		timezone = cfg.Outlook.Timezone
	}

	dryTag := ""
	if outlookPushDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Pushing %d entries to Outlook%s...\n", len(work.Entries()), dryTag)
	fmt.Println()

	ctx := context.Background()

	tok, acfg, err := msgraph.Authenticate(ctx, cfg.Outlook.TenantID, cfg.Outlook.ClientID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}

	client := msgraph.NewClient(ctx, tok, acfg)

	opts := msgraph.PushOptions{
		Timezone: timezone,
		DryRun:   outlookPushDryRun,
	}
	result, err := msgraph.PushEntries(ctx, client, work.Entries(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Push error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d exported\n", result.Exported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}
