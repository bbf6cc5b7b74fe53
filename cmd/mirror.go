package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"timew-companion/internal/config"
	"timew-companion/internal/logger"
	"timew-companion/internal/mysql"
)

var (
	mirrorRange string
	mirrorDSN   string
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Mirror entries into a MySQL table",
	Args:  cobra.NoArgs,
	RunE:  runMirror,
}

func init() {
	mirrorCmd.Flags().StringVar(&mirrorRange, "range", "", "Range of entries to mirror (default all)")
	mirrorCmd.Flags().StringVar(&mirrorDSN, "dsn", "", "MySQL DSN; overrides the config file")
}

func runMirror(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	dsn := mirrorDSN
	if dsn == "" {
		dsn = cfg.MySQL.DSN
	}
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "no MySQL DSN configured; set mysql.dsn in the config file or pass --dsn")
		os.Exit(1)
	}

	work, err := loadEntries(cfg, mirrorRange)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(os.Stderr, rootVerbose)
	ctx := context.Background()

	if err := mysql.Migrate(ctx, dsn, log); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	sink, err := mysql.NewClient(ctx, dsn, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mysql connection failed: %v\n", err)
		os.Exit(1)
	}
	defer sink.Close()

	if err := sink.MirrorEntries(ctx, work.Entries()); err != nil {
		fmt.Fprintf(os.Stderr, "mirror failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Mirrored %d entries.\n", len(work.Entries()))
	return nil
}
