// Package template provides variable substitution for note scaffolds.
package template

import (
	"strings"
	"time"

	"github.com/vaultlint/vaultlint/internal/dates"
)

// Variables holds the available template variables for substitution.
type Variables struct {
	// Title is the title passed to vaultlint new
	Title string
	// Slug is the slugified title
	Slug string
	// Type is the note type name
	Type string
	// Date is today's date (YYYY-MM-DD)
	Date string
	// Datetime is the current datetime (YYYY-MM-DD HH:MM)
	Datetime string
	// Year is the current year
	Year string
	// Month is the current month (2 digit)
	Month string
	// Day is the current day (2 digit)
	Day string
	// Weekday is the day name (Monday, Tuesday, etc.)
	Weekday string
	// Fields are field values from --field flags
	Fields map[string]string
}

// NewVariables creates a Variables struct with the given title, type, and fields.
// Date/time fields are populated with current time.
func NewVariables(title, typeName, slug string, fields map[string]string) *Variables {
	now := time.Now()
	return &Variables{
		Title:    title,
		Slug:     slug,
		Type:     typeName,
		Date:     now.Format(dates.DateLayout),
		Datetime: now.Format(dates.DatetimeLayout),
		Year:     now.Format("2006"),
		Month:    now.Format("01"),
		Day:      now.Format("02"),
		Weekday:  now.Weekday().String(),
		Fields:   fields,
	}
}

// NewDailyVariables creates Variables for a daily note with a specific date.
func NewDailyVariables(date time.Time) *Variables {
	return &Variables{
		Title:    date.Format(dates.DateLayout),
		Slug:     date.Format(dates.DateLayout),
		Type:     "daily",
		Date:     date.Format(dates.DateLayout),
		Datetime: date.Format(dates.DatetimeLayout),
		Year:     date.Format("2006"),
		Month:    date.Format("01"),
		Day:      date.Format("02"),
		Weekday:  date.Weekday().String(),
		Fields:   make(map[string]string),
	}
}

// Apply substitutes template variables in the content.
// Variables use {{name}} syntax. Unknown variables are left as-is.
// Escaped variables \{{name}} are converted to literal {{name}}.
func Apply(content string, vars *Variables) string {
	if content == "" || vars == nil {
		return content
	}

	// First, temporarily replace escaped sequences
	// Use safe placeholder strings instead of null bytes to avoid editor issues
	content = strings.ReplaceAll(content, "\\{{", "«VAULTLINT_ESC_OPEN»")
	content = strings.ReplaceAll(content, "\\}}", "«VAULTLINT_ESC_CLOSE»")

	// Build replacement map
	replacements := map[string]string{
		"{{title}}":    vars.Title,
		"{{slug}}":     vars.Slug,
		"{{type}}":     vars.Type,
		"{{date}}":     vars.Date,
		"{{datetime}}": vars.Datetime,
		"{{year}}":     vars.Year,
		"{{month}}":    vars.Month,
		"{{day}}":      vars.Day,
		"{{weekday}}":  vars.Weekday,
	}

	// Apply standard variable replacements
	for placeholder, value := range replacements {
		content = strings.ReplaceAll(content, placeholder, value)
	}

	// Apply field variables: {{field.X}}
	if vars.Fields != nil {
		for fieldName, fieldValue := range vars.Fields {
			placeholder := "{{field." + fieldName + "}}"
			content = strings.ReplaceAll(content, placeholder, fieldValue)
		}
	}

	// Restore escaped sequences as literals
	content = strings.ReplaceAll(content, "«VAULTLINT_ESC_OPEN»", "{{")
	content = strings.ReplaceAll(content, "«VAULTLINT_ESC_CLOSE»", "}}")

	return content
}
