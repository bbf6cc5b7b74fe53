package model

import (
	"fmt"
	"time"

	"timew-companion/internal/timerange"
)

// Entry is one tracked interval with its tags. ID is the entry's rank in
// the loaded collection, most recent first; it is assigned by the loader
// on every load and is not a stable identity.
type Entry struct {
	Range timerange.Range
	Tags  []string
	ID    int
}

// Day returns the local midnight of the day the entry started.
func (e Entry) Day() time.Time {
	from := e.Range.From().Local()
	y, m, d := from.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, from.Location())
}

// String renders the entry as its range followed by its tags.
func (e Entry) String() string {
	return fmt.Sprintf("%s: %q", e.Range, e.Tags)
}
