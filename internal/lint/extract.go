package lint

import (
	"regexp"
	"strconv"
	"strings"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityWarning is the default severity when a checker's output
	// pattern has no type group or the type is not recognized.
	SeverityWarning Severity = iota
	// SeverityError is used only when the checker explicitly reports an
	// error-class diagnostic.
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity maps a checker-reported type string to a Severity.
// Only explicit error markers map to SeverityError; everything else,
// including an absent type, is a warning.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "e", "err", "error", "fatal":
		return SeverityError
	default:
		return SeverityWarning
	}
}

// RawMatch is one extraction result from checker output.
//
// Row and Col are zero-based; -1 means absent. A RawMatch with Matched set
// to false (or Row < 0) is a non-match and is skipped by callers.
type RawMatch struct {
	Matched  bool
	Row      int
	Col      int
	Severity Severity
	Message  string
	Near     string
}

// Capture group names read from checker patterns.
const (
	groupLine  = "line"
	groupCol   = "col"
	groupType  = "type"
	groupError = "error"
	groupNear  = "near"
)

// Extract applies a compiled checker pattern to raw output.
//
// In multiline mode the pattern runs once across the whole output and every
// occurrence yields one RawMatch; zero occurrences yield exactly one empty
// RawMatch so callers can tell "ran but nothing structured" from "no output
// at all" (the latter is handled before extraction is reached).
//
// In single-line mode the output is split into lines and the pattern is
// applied once per trimmed line, anchored at the line start. Every line
// yields one RawMatch, possibly a non-match.
func Extract(re *regexp.Regexp, multiline bool, output string) []RawMatch {
	if re == nil {
		return nil
	}

	if multiline {
		locs := re.FindAllStringSubmatchIndex(output, -1)
		if len(locs) == 0 {
			return []RawMatch{emptyMatch()}
		}
		matches := make([]RawMatch, 0, len(locs))
		for _, loc := range locs {
			matches = append(matches, splitMatch(re, output, loc))
		}
		return matches
	}

	lines := splitLines(output)
	matches := make([]RawMatch, 0, len(lines))
	for _, line := range lines {
		matches = append(matches, matchLine(re, strings.TrimSpace(line)))
	}
	return matches
}

// matchLine applies the pattern to one line, anchored at the start.
func matchLine(re *regexp.Regexp, line string) RawMatch {
	loc := re.FindStringSubmatchIndex(line)
	if loc == nil || loc[0] != 0 {
		return emptyMatch()
	}
	return splitMatch(re, line, loc)
}

// splitMatch normalizes one pattern occurrence into a RawMatch. The line
// group is required for a usable match; line and col convert from the
// checker's 1-based convention to 0-based.
func splitMatch(re *regexp.Regexp, src string, loc []int) RawMatch {
	m := RawMatch{Row: -1, Col: -1}

	lineStr, ok := captured(re, src, loc, groupLine)
	if !ok {
		return m
	}
	row, err := strconv.Atoi(lineStr)
	if err != nil {
		return m
	}
	m.Matched = true
	m.Row = row - 1

	if colStr, ok := captured(re, src, loc, groupCol); ok {
		if col, err := strconv.Atoi(colStr); err == nil {
			m.Col = col - 1
		}
	}

	typeStr, _ := captured(re, src, loc, groupType)
	m.Severity = ParseSeverity(typeStr)

	// Message defaults to empty, never absent.
	m.Message, _ = captured(re, src, loc, groupError)
	m.Near, _ = captured(re, src, loc, groupNear)

	return m
}

// captured returns the text of a named group in a submatch index slice.
// Returns false when the pattern lacks the group or it did not participate.
func captured(re *regexp.Regexp, src string, loc []int, name string) (string, bool) {
	idx := re.SubexpIndex(name)
	if idx < 0 || 2*idx+1 >= len(loc) {
		return "", false
	}
	start, end := loc[2*idx], loc[2*idx+1]
	if start < 0 || end < 0 {
		return "", false
	}
	if start == end {
		return "", false
	}
	return src[start:end], true
}

// emptyMatch is the non-match value: callers skip it silently.
func emptyMatch() RawMatch {
	return RawMatch{Row: -1, Col: -1}
}

// splitLines splits output the way Python's splitlines does: a trailing
// newline does not produce a final empty line.
func splitLines(output string) []string {
	output = strings.TrimSuffix(output, "\n")
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
