package model

import (
	"errors"
	"fmt"
	"strings"

	"timew-companion/internal/timerange"
)

// ParseError reports a data file line that does not match the entry
// grammar.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse entry %q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseEntry parses one data file line:
//
//	inc <from> - <to> # <tag> <tag> ...
//	inc <from> # <tag> <tag> ...
//
// Tags are space separated; a tag wrapped in double quotes keeps its
// spaces verbatim. Order and duplicates are preserved, and the tag list
// may be empty. The whole line must be consumed.
func ParseEntry(line string) (Entry, error) {
	rest, ok := strings.CutPrefix(line, "inc ")
	if !ok {
		return Entry{}, &ParseError{Line: line, Err: errors.New(`missing "inc " prefix`)}
	}

	rng, rest, err := timerange.ParsePrefix(rest)
	if err != nil {
		return Entry{}, &ParseError{Line: line, Err: err}
	}

	rest, ok = strings.CutPrefix(rest, " # ")
	if !ok {
		return Entry{}, &ParseError{Line: line, Err: errors.New(`missing " # " separator`)}
	}

	tags, rest := scanTags(rest)
	if rest != "" {
		return Entry{}, &ParseError{Line: line, Err: fmt.Errorf("trailing text %q", rest)}
	}

	return Entry{Range: rng, Tags: tags}, nil
}

// scanTags reads a space separated tag list and returns the unconsumed
// rest. A separator not followed by a tag is left unconsumed.
func scanTags(s string) ([]string, string) {
	tag, rest, ok := scanTag(s)
	if !ok {
		return nil, s
	}
	tags := []string{tag}
	for strings.HasPrefix(rest, " ") {
		tag, after, ok := scanTag(rest[1:])
		if !ok {
			return tags, rest
		}
		tags = append(tags, tag)
		rest = after
	}
	return tags, rest
}

// scanTag reads one tag: either a double quoted string (spaces kept, may
// be empty) or a bare token running to the next space or quote.
func scanTag(s string) (string, string, bool) {
	if strings.HasPrefix(s, `"`) {
		end := strings.IndexByte(s[1:], '"')
		if end < 0 {
			return "", "", false
		}
		return s[1 : 1+end], s[2+end:], true
	}
	i := 0
	for i < len(s) && s[i] != ' ' && s[i] != '"' {
		i++
	}
	if i == 0 {
		return "", "", false
	}
	return s[:i], s[i:], true
}
