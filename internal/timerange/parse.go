package timerange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the database timestamp format: UTC with a literal Z, no
// offset, second precision.
const TimeLayout = "20060102T150405Z"

// ParseError reports text that does not match any textual range form.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse range %q", e.Input)
}

// Parse reads a range from one of its textual forms, tried in order:
//
//	<datetime> - <datetime>
//	<datetime>
//	:<period>
//
// where datetime follows TimeLayout and period is one of today,
// yesterday, week, lastweek, month or lastmonth. The whole input must be
// consumed, and a standalone open range must start at least one second
// in the past.
func Parse(s string) (Range, error) {
	r, rest, err := ParsePrefix(s)
	if err != nil {
		return Range{}, err
	}
	if rest != "" {
		return Range{}, &ParseError{Input: s}
	}
	if r.IsOpen() && nowFunc().Sub(r.from) < time.Second {
		return Range{}, fmt.Errorf("%w: an open range must start at least one second in the past", ErrInvalidRange)
	}
	return r, nil
}

// ParsePrefix reads a range from the start of s and returns the
// unconsumed rest. The closed form is tried first, then the open form,
// then the named periods; a closed form whose bounds are not a valid
// range falls back to the open reading of its first timestamp.
func ParsePrefix(s string) (Range, string, error) {
	if from, rest, ok := cutDatetime(s); ok {
		if after, found := strings.CutPrefix(rest, " - "); found {
			if to, rest2, ok := cutDatetime(after); ok {
				if r, err := New(from, &to); err == nil {
					return r, rest2, nil
				}
			}
		}
		r, _ := New(from, nil)
		return r, rest, nil
	}

	if rest, found := strings.CutPrefix(s, ":"); found {
		i := 0
		for i < len(rest) && isAlphanumeric(rest[i]) {
			i++
		}
		r, err := fromPeriod(rest[:i])
		switch {
		case err == nil:
			return r, rest[i:], nil
		case errors.Is(err, ErrInvalidRange):
			// A known period that cannot be built, e.g. a DST gap at
			// midnight. Not a spelling problem.
			return Range{}, "", err
		default:
			return Range{}, "", &ParseError{Input: s}
		}
	}

	return Range{}, "", &ParseError{Input: s}
}

// cutDatetime parses a leading timestamp token, delimited by the next
// space or the end of input. The whole token must match TimeLayout.
func cutDatetime(s string) (time.Time, string, bool) {
	token := s
	if i := strings.IndexByte(s, ' '); i >= 0 {
		token = s[:i]
	}
	if token == "" {
		return time.Time{}, "", false
	}
	t, err := time.Parse(TimeLayout, token)
	if err != nil {
		return time.Time{}, "", false
	}
	return t, s[len(token):], true
}

func fromPeriod(name string) (Range, error) {
	switch name {
	case "today":
		return Today()
	case "yesterday":
		return Yesterday()
	case "week":
		return CurrentWeek()
	case "lastweek":
		return LastWeek()
	case "month":
		return CurrentMonth()
	case "lastmonth":
		return LastMonth()
	}
	return Range{}, fmt.Errorf("unknown period %q", name)
}

func isAlphanumeric(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
