package mysql

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"timew-companion/internal/model"
	"timew-companion/internal/timerange"
)

// Client mirrors entries into a MySQL table.
type Client struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewClient opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func NewClient(ctx context.Context, dsn string, log zerolog.Logger) (*Client, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	// Conservative pool defaults.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{db: db, log: log}, nil
}

// EntryKey returns a stable identifier for an entry, derived from its
// bounds and tags. Ids shift as data files change, so they cannot serve
// as a database key; the entry's content can.
func EntryKey(e model.Entry) string {
	h := sha1.New()
	h.Write([]byte(e.Range.From().Format(timerange.TimeLayout)))
	h.Write([]byte{'|'})
	if end, ok := e.Range.To(); ok {
		h.Write([]byte(end.Format(timerange.TimeLayout)))
	}
	h.Write([]byte{'|'})
	h.Write([]byte(strings.Join(e.Tags, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}

// MirrorEntries upserts entries into the timew_entries table. Running
// entries are stored with a NULL stopped_at and duration_sec -1.
func (c *Client) MirrorEntries(ctx context.Context, entries []model.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	const q = `
INSERT INTO timew_entries
  (entry_key, started_at, stopped_at, duration_sec, tags, mirrored_at)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  started_at=VALUES(started_at),
  stopped_at=VALUES(stopped_at),
  duration_sec=VALUES(duration_sec),
  tags=VALUES(tags),
  mirrored_at=VALUES(mirrored_at);
`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range entries {
		// Tags are stored as a JSON array in a TEXT column.
		tagsJSON, _ := json.Marshal(e.Tags)
		var stopped interface{}
		durationSec := int64(-1)
		if end, ok := e.Range.To(); ok {
			stopped = end.UTC()
			durationSec = int64(end.Sub(e.Range.From()).Seconds())
		}
		if _, err := stmt.ExecContext(
			ctx,
			EntryKey(e),
			e.Range.From().UTC(),
			stopped,
			durationSec,
			string(tagsJSON),
			now,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	c.log.Info().Int("count", len(entries)).Msg("mirrored entries")
	return nil
}

// Close closes the underlying DB.
func (c *Client) Close() error { return c.db.Close() }
