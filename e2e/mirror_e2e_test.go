//go:build e2e

package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"timew-companion/internal/logger"
	msql "timew-companion/internal/mysql"
	"timew-companion/internal/storage"
)

func writeDataFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestMirrorToMySQL_UpsertsEntries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_DATABASE":      "testdb",
			"MYSQL_ROOT_PASSWORD": "secret",
			"MYSQL_USER":          "test",
			"MYSQL_PASSWORD":      "pass",
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(90 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start mysql container: %v", err)
	}
	t.Cleanup(func() { _ = mysqlC.Terminate(context.Background()) })

	host, err := mysqlC.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := mysqlC.MappedPort(ctx, "3306/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true", "test", "pass", host, port.Port(), "testdb")

	log := logger.New(os.Stdout, true)
	if err := msql.Migrate(ctx, dsn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sink, err := msql.NewClient(ctx, dsn, log)
	if err != nil {
		t.Fatalf("mysql client: %v", err)
	}
	t.Cleanup(func() { _ = sink.Close() })

	// Entries come from real data files, through the real loader.
	dataDir := t.TempDir()
	writeDataFile(t, dataDir, "2022-07.data",
		"inc 20220701T100000Z - 20220701T104500Z # dev feature\n"+
			"inc 20220701T110000Z # meeting\n")

	work, err := storage.LoadAll(dataDir)
	if err != nil {
		t.Fatalf("loading entries: %v", err)
	}
	if err := sink.MirrorEntries(ctx, work.Entries()); err != nil {
		t.Fatalf("mirror run: %v", err)
	}

	// Verify rows
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM timew_entries").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}

	var (
		stopped  sql.NullTime
		duration int64
		tags     string
	)
	closedStart := time.Date(2022, 7, 1, 10, 0, 0, 0, time.UTC)
	row := db.QueryRowContext(ctx, "SELECT stopped_at, duration_sec, tags FROM timew_entries WHERE started_at = ?", closedStart)
	if err := row.Scan(&stopped, &duration, &tags); err != nil {
		t.Fatalf("closed row: %v", err)
	}
	if !stopped.Valid || !stopped.Time.Equal(closedStart.Add(45*time.Minute)) {
		t.Errorf("stopped_at = %v, want %v", stopped, closedStart.Add(45*time.Minute))
	}
	if duration != 2700 {
		t.Errorf("duration_sec = %d, want 2700", duration)
	}
	if tags != `["dev","feature"]` {
		t.Errorf("tags = %s, want [\"dev\",\"feature\"]", tags)
	}

	// The running entry is stored with NULL stopped_at and duration -1.
	row = db.QueryRowContext(ctx, "SELECT duration_sec FROM timew_entries WHERE stopped_at IS NULL")
	if err := row.Scan(&duration); err != nil {
		t.Fatalf("running row: %v", err)
	}
	if duration != -1 {
		t.Errorf("running duration_sec = %d, want -1", duration)
	}

	// Run again to assert idempotency (upsert)
	if err := sink.MirrorEntries(ctx, work.Entries()); err != nil {
		t.Fatalf("mirror run 2: %v", err)
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM timew_entries").Scan(&count); err != nil {
		t.Fatalf("count 2: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows after upsert, got %d", count)
	}
}
