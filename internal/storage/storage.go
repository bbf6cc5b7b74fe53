package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"timew-companion/internal/model"
	"timew-companion/internal/timerange"
)

// dataFileRe matches the monthly database files, e.g. "2022-07.data".
var dataFileRe = regexp.MustCompile(`^\d{4}-\d{2}\.data$`)

// Work is a loaded collection of entries, most recent first.
type Work struct {
	entries []model.Entry
}

// DefaultDir returns the conventional timewarrior database directory
// (~/.timewarrior/data).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".timewarrior", "data"), nil
}

// LoadAll loads every entry from the database directory.
func LoadAll(dir string) (*Work, error) {
	return LoadRange(dir, nil)
}

// LoadRange loads every entry from the database directory, sorts them
// most recent first and numbers them from 1. With a non-nil filter only
// entries overlapping it are kept; their ids are assigned before
// filtering and not renumbered.
func LoadRange(dir string, filter *timerange.Range) (*Work, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read database directory: %w", err)
	}

	var entries []model.Entry
	for _, f := range files {
		if !f.Type().IsRegular() || !dataFileRe.MatchString(f.Name()) {
			continue
		}
		loaded, err := loadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return nil, err
		}
		entries = append(entries, loaded...)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Range.From().After(entries[j].Range.From())
	})
	for i := range entries {
		entries[i].ID = i + 1
	}

	if filter != nil {
		var kept []model.Entry
		for _, e := range entries {
			if _, ok := e.Range.Intersection(*filter); ok {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	return &Work{entries: entries}, nil
}

// loadFile parses every non-blank line of one monthly file.
func loadFile(path string) ([]model.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	var entries []model.Entry
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		e, err := model.ParseEntry(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return entries, nil
}

// Entries returns the loaded entries, post-filter order preserved.
func (w *Work) Entries() []model.Entry {
	return w.entries
}

// Duration returns the summed duration of every loaded entry.
func (w *Work) Duration() time.Duration {
	var total time.Duration
	for _, e := range w.entries {
		total += e.Range.Duration()
	}
	return total
}

// String reports how many entries the collection holds.
func (w *Work) String() string {
	return fmt.Sprintf("%d entries loaded", len(w.entries))
}
