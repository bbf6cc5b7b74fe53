package timerange

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange reports bounds that violate the one second minimum or
// local wall-clock bounds with no unique UTC mapping.
var ErrInvalidRange = errors.New("invalid range")

// nowFunc is stubbed in tests.
var nowFunc = time.Now

// Range is a span of time starting at a fixed instant. A Range without
// an end is open: it is still running, and its end is taken to be "now"
// wherever a computation needs one. Instants are stored in UTC.
type Range struct {
	from time.Time
	to   *time.Time
}

// New creates a Range between from and to. A nil to produces an open
// range, which is always valid. A closed range must span at least one
// second.
func New(from time.Time, to *time.Time) (Range, error) {
	from = from.UTC()
	if to == nil {
		return Range{from: from}, nil
	}
	end := to.UTC()
	if end.Before(from.Add(time.Second)) {
		return Range{}, fmt.Errorf("%w: to must be at least one second after from", ErrInvalidRange)
	}
	return Range{from: from, to: &end}, nil
}

// From returns the start instant.
func (r Range) From() time.Time { return r.from }

// To returns the end instant; ok is false for an open range.
func (r Range) To() (time.Time, bool) {
	if r.to == nil {
		return time.Time{}, false
	}
	return *r.to, true
}

// IsOpen reports whether the range has no end yet.
func (r Range) IsOpen() bool { return r.to == nil }

// Equal reports whether both ranges have the same bounds.
func (r Range) Equal(o Range) bool {
	if !r.from.Equal(o.from) {
		return false
	}
	if (r.to == nil) != (o.to == nil) {
		return false
	}
	return r.to == nil || r.to.Equal(*o.to)
}

// localTime maps a wall-clock time in loc to its single UTC instant. It
// fails when the wall time falls in a DST gap or occurs twice around a
// backward transition.
func localTime(year int, month time.Month, day, hour, min, sec int, loc *time.Location) (time.Time, error) {
	t := time.Date(year, month, day, hour, min, sec, 0, loc)
	if t.Year() != year || t.Month() != month || t.Day() != day ||
		t.Hour() != hour || t.Minute() != min || t.Second() != sec {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d:%02d does not exist in %s",
			ErrInvalidRange, year, int(month), day, hour, min, sec, loc)
	}
	for _, step := range []time.Duration{-time.Hour, time.Hour, -30 * time.Minute, 30 * time.Minute} {
		alt := t.Add(step)
		if alt.Year() == year && alt.Month() == month && alt.Day() == day &&
			alt.Hour() == hour && alt.Minute() == min && alt.Second() == sec {
			return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d:%02d is ambiguous in %s",
				ErrInvalidRange, year, int(month), day, hour, min, sec, loc)
		}
	}
	return t.UTC(), nil
}

// dayRange builds the range from 00:00:00 through 23:59:59 of the given
// calendar day in loc.
func dayRange(year int, month time.Month, day int, loc *time.Location) (Range, error) {
	start, err := localTime(year, month, day, 0, 0, 0, loc)
	if err != nil {
		return Range{}, err
	}
	end, err := localTime(year, month, day, 23, 59, 59, loc)
	if err != nil {
		return Range{}, err
	}
	return New(start, &end)
}

// Day returns the range covering t's calendar day in t's location.
func Day(t time.Time) (Range, error) {
	y, m, d := t.Date()
	return dayRange(y, m, d, t.Location())
}

// Today returns the range covering the current day.
func Today() (Range, error) {
	return Day(nowFunc())
}

// Yesterday returns the range covering the previous day.
func Yesterday() (Range, error) {
	return Day(nowFunc().AddDate(0, 0, -1))
}

// Week returns the range covering t's week, Monday 00:00:00 through
// Sunday 23:59:59 in t's location.
func Week(t time.Time) (Range, error) {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	sunday := monday.AddDate(0, 0, 6)

	my, mm, md := monday.Date()
	start, err := localTime(my, mm, md, 0, 0, 0, t.Location())
	if err != nil {
		return Range{}, err
	}
	sy, sm, sd := sunday.Date()
	end, err := localTime(sy, sm, sd, 23, 59, 59, t.Location())
	if err != nil {
		return Range{}, err
	}
	return New(start, &end)
}

// CurrentWeek returns the range covering the week containing today.
func CurrentWeek() (Range, error) {
	return Week(nowFunc())
}

// LastWeek returns the range covering the week seven days back.
func LastWeek() (Range, error) {
	return Week(nowFunc().AddDate(0, 0, -7))
}

// Month returns the range covering t's calendar month, first day through
// last day in t's location.
func Month(t time.Time) (Range, error) {
	y, m, _ := t.Date()
	start, err := localTime(y, m, 1, 0, 0, 0, t.Location())
	if err != nil {
		return Range{}, err
	}
	// day 0 of the next month is the last day of this one; noon keeps
	// the date stable in zones that skip midnight
	ly, lm, ld := time.Date(y, m+1, 0, 12, 0, 0, 0, t.Location()).Date()
	end, err := localTime(ly, lm, ld, 23, 59, 59, t.Location())
	if err != nil {
		return Range{}, err
	}
	return New(start, &end)
}

// CurrentMonth returns the range covering the month containing today.
func CurrentMonth() (Range, error) {
	return Month(nowFunc())
}

// LastMonth returns the range covering the month before the current one.
func LastMonth() (Range, error) {
	now := nowFunc()
	y, m, _ := now.Date()
	first := time.Date(y, m, 1, 12, 0, 0, 0, now.Location())
	return Month(first.AddDate(0, 0, -1))
}

// Intersection returns the overlap of r and o; ok is false when they do
// not overlap. Two closed ranges sharing only a boundary instant do not
// overlap, since the result would be shorter than one second.
func (r Range) Intersection(o Range) (Range, bool) {
	from := r.from
	if o.from.After(from) {
		from = o.from
	}

	switch {
	case r.to == nil && o.to == nil:
		return Range{from: from}, true
	case r.to == nil:
		res, err := New(from, o.to)
		if err != nil {
			return Range{}, false
		}
		return res, true
	case o.to == nil:
		res, err := New(from, r.to)
		if err != nil {
			return Range{}, false
		}
		return res, true
	default:
		if r.from.After(*o.to) || o.from.After(*r.to) {
			return Range{}, false
		}
		to := *r.to
		if o.to.Before(to) {
			to = *o.to
		}
		res, err := New(from, &to)
		if err != nil {
			return Range{}, false
		}
		return res, true
	}
}

// Duration returns the length of the range. For an open range the end is
// taken to be now, sampled once per call.
func (r Range) Duration() time.Duration {
	end := nowFunc()
	if r.to != nil {
		end = *r.to
	}
	return end.Sub(r.from)
}

// Days returns every instant reached from the start in whole 24 hour
// steps, up to and including the end (now for an open range).
func (r Range) Days() []time.Time {
	end := nowFunc().UTC()
	if r.to != nil {
		end = *r.to
	}
	var days []time.Time
	for cur := r.from; !cur.After(end); cur = cur.Add(24 * time.Hour) {
		days = append(days, cur)
	}
	return days
}

// SplitAt splits the range at the given instant into two adjoining
// ranges. The instant must lie inside the range (now bounds an open one)
// and both halves must keep the one second minimum. Splitting an open
// range leaves the second half open.
func (r Range) SplitAt(at time.Time) (Range, Range, error) {
	end := nowFunc().UTC()
	if r.to != nil {
		end = *r.to
	}
	at = at.UTC()
	if at.Before(r.from) || at.After(end) {
		return Range{}, Range{}, fmt.Errorf("%w: split point %s outside range", ErrInvalidRange, at.Format(TimeLayout))
	}
	first, err := New(r.from, &at)
	if err != nil {
		return Range{}, Range{}, err
	}
	second, err := New(at, r.to)
	if err != nil {
		return Range{}, Range{}, err
	}
	return first, second, nil
}

// Split splits the range into two halves of equal duration.
func (r Range) Split() (Range, Range, error) {
	end := nowFunc().UTC()
	if r.to != nil {
		end = *r.to
	}
	return r.SplitAt(r.from.Add(end.Sub(r.from) / 2))
}

const displayLayout = "2006-01-02 15:04:05 -07:00"

// String renders the range in local time together with its duration; the
// end shows as "..." while the range is open.
func (r Range) String() string {
	from := r.from.Local().Format(displayLayout)
	to := "..."
	if r.to != nil {
		to = r.to.Local().Format(displayLayout)
	}
	return fmt.Sprintf("%s - %s [%s]", from, to, FormatDuration(r.Duration()))
}

// FormatDuration formats a duration as HH:MM:SS, hours uncapped.
func FormatDuration(d time.Duration) string {
	s := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}
