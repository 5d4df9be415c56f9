// Package dates provides canonical date parsing and validation helpers.
//
// This package exists to avoid duplicating date logic across:
// - frontmatter property checks
// - auto-fix rewrites
// - note creation
// - CLI date args
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical date format used in frontmatter.
	DateLayout = "2006-01-02"

	// DatetimeLayout is the minute-precision datetime format used by templates.
	DatetimeLayout = "2006-01-02 15:04"

	// TimestampLayout is the second-precision format stamped on reports and
	// audit output.
	TimestampLayout = "2006-01-02 15:04:05"

	// Pattern is the regexp fragment matching a YYYY-MM-DD date.
	// Checks and fixes embed it when building larger expressions.
	Pattern = `\d{4}-\d{2}-\d{2}`
)

var dateRegex = regexp.MustCompile(`^` + Pattern + `$`)

// IsValidDate checks if a string is a valid YYYY-MM-DD calendar date.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsValidDate(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.Parse(DateLayout, s)
}

// Format renders a time as a canonical YYYY-MM-DD frontmatter date.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateArg parses a CLI date argument which can be:
// - "today", "yesterday", "tomorrow" (relative dates)
// - "YYYY-MM-DD" format (absolute date)
// - Empty string defaults to today
func ParseDateArg(arg string, now time.Time) (time.Time, error) {
	if arg == "" {
		return now, nil
	}

	dateArg := strings.ToLower(strings.TrimSpace(arg))
	switch dateArg {
	case "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	default:
		parsed, err := ParseDate(dateArg)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date format '%s', use YYYY-MM-DD or today/yesterday/tomorrow", dateArg)
		}
		return parsed, nil
	}
}
