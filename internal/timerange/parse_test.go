package timerange_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"timew-companion/internal/timerange"
)

func TestParseClosed(t *testing.T) {
	r, err := timerange.Parse("20220101T120000Z - 20220101T124500Z")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	wantFrom := time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC)
	wantTo := time.Date(2022, 1, 1, 12, 45, 0, 0, time.UTC)
	if !r.From().Equal(wantFrom) {
		t.Errorf("From() = %v, want %v", r.From(), wantFrom)
	}
	got, ok := r.To()
	if !ok || !got.Equal(wantTo) {
		t.Errorf("To() = %v, %v, want %v, true", got, ok, wantTo)
	}
	if r.Duration() != 45*time.Minute {
		t.Errorf("Duration() = %v, want 45m", r.Duration())
	}
}

func TestParseRoundTrip(t *testing.T) {
	from := time.Date(2022, 7, 11, 13, 33, 12, 0, time.UTC)
	to := from.Add(3 * time.Hour)
	r, err := timerange.New(from, &to)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	text := fmt.Sprintf("%s - %s", from.Format(timerange.TimeLayout), to.Format(timerange.TimeLayout))
	back, err := timerange.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", text, err)
	}
	if !back.Equal(r) {
		t.Errorf("Parse(%q) = %v, want %v", text, back, r)
	}
}

func TestParseOpen(t *testing.T) {
	from := time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC)
	restore := timerange.SetNowFunc(func() time.Time { return from.Add(time.Hour) })
	defer restore()

	r, err := timerange.Parse("20220101T120000Z")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !r.IsOpen() {
		t.Fatal("Parse() of a single timestamp must yield an open range")
	}
	if !r.From().Equal(from) {
		t.Errorf("From() = %v, want %v", r.From(), from)
	}
}

func TestParseOpenMustBePast(t *testing.T) {
	from := time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		now     time.Time
		wantErr bool
	}{
		{from.Add(time.Hour), false},
		{from.Add(time.Second), false},
		{from.Add(500 * time.Millisecond), true},
		{from, true},
		{from.Add(-time.Minute), true},
	}
	for _, tt := range tests {
		restore := timerange.SetNowFunc(func() time.Time { return tt.now })
		_, err := timerange.Parse("20220101T120000Z")
		restore()
		if gotErr := err != nil; gotErr != tt.wantErr {
			t.Errorf("Parse() with now=%v error = %v, wantErr %v", tt.now, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, timerange.ErrInvalidRange) {
			t.Errorf("Parse() with now=%v error = %v, want ErrInvalidRange", tt.now, err)
		}
	}
}

func TestParsePeriods(t *testing.T) {
	// Tuesday 2022-07-12
	now := time.Date(2022, 7, 12, 10, 30, 0, 0, time.UTC)
	restore := timerange.SetNowFunc(func() time.Time { return now })
	defer restore()

	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	end := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
	}

	tests := []struct {
		in       string
		wantFrom time.Time
		wantTo   time.Time
	}{
		{":today", day(2022, 7, 12), end(2022, 7, 12)},
		{":yesterday", day(2022, 7, 11), end(2022, 7, 11)},
		{":week", day(2022, 7, 11), end(2022, 7, 17)},
		{":lastweek", day(2022, 7, 4), end(2022, 7, 10)},
		{":month", day(2022, 7, 1), end(2022, 7, 31)},
		{":lastmonth", day(2022, 6, 1), end(2022, 6, 30)},
	}
	for _, tt := range tests {
		r, err := timerange.Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.in, err)
		}
		got, _ := r.To()
		if !r.From().Equal(tt.wantFrom) || !got.Equal(tt.wantTo) {
			t.Errorf("Parse(%q) = %v, want %v - %v", tt.in, r, tt.wantFrom, tt.wantTo)
		}
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"garbage",
		"20221301T120000Z",
		"20220101T126100Z",
		"20220101T120000",
		"2022-01-01T12:00:00Z",
		"20220101T120000Z - ",
		"20220101T120000Z - garbage",
		"20220101T120000Z - 20220101T110000Z",
		"20220101T120000Z - 20220101T120000Z",
		"20220101T120000Z-20220101T130000Z",
		"20220101T120000Z - 20220101T130000Z extra",
		":tomorrow",
		":",
		":today extra",
	}
	for _, in := range inputs {
		if _, err := timerange.Parse(in); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestParseErrorType(t *testing.T) {
	_, err := timerange.Parse("garbage")
	var perr *timerange.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error = %T, want *ParseError", err)
	}
	if perr.Input != "garbage" {
		t.Errorf("ParseError.Input = %q, want the offending text", perr.Input)
	}
}

func TestParsePrefix(t *testing.T) {
	r, rest, err := timerange.ParsePrefix("20220101T120000Z - 20220101T130000Z # tag")
	if err != nil {
		t.Fatalf("ParsePrefix() error = %v", err)
	}
	if rest != " # tag" {
		t.Errorf("rest = %q, want %q", rest, " # tag")
	}
	if r.IsOpen() {
		t.Error("ParsePrefix() read an open range, want closed")
	}

	// an inverted pair falls back to the open reading of its first timestamp
	r, rest, err = timerange.ParsePrefix("20220101T120000Z - 20220101T110000Z")
	if err != nil {
		t.Fatalf("ParsePrefix() error = %v", err)
	}
	if !r.IsOpen() || rest != " - 20220101T110000Z" {
		t.Errorf("ParsePrefix() = %v with rest %q, want open range and the pair's tail", r, rest)
	}
}
