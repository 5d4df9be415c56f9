// Package check handles vault-wide frontmatter validation and repair.
package check

import "strings"

// Category identifies one class of validation issue.
type Category string

const (
	MissingFrontmatter     Category = "missing_frontmatter"
	EmptyTypes             Category = "empty_types"
	MissingProperties      Category = "missing_properties"
	InvalidDailyLinks      Category = "invalid_daily_links"
	UnquotedWikilinks      Category = "unquoted_wikilinks"
	InvalidCreated         Category = "invalid_created"
	TitleProperties        Category = "title_properties"
	DateMismatches         Category = "date_mismatches"
	TypePropertyViolations Category = "type_property_violations"
)

// Categories lists every category in stable report order.
var Categories = []Category{
	MissingFrontmatter,
	EmptyTypes,
	MissingProperties,
	InvalidDailyLinks,
	UnquotedWikilinks,
	InvalidCreated,
	TitleProperties,
	DateMismatches,
	TypePropertyViolations,
}

// Title returns the human heading for a category, e.g. "Empty Types".
func (c Category) Title() string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Issues collects issue entries per category. Entries are vault-relative
// paths, some carrying a detail suffix like "path (missing: type, up)".
type Issues struct {
	byCategory map[Category][]string
}

// NewIssues returns an empty collection.
func NewIssues() *Issues {
	return &Issues{byCategory: make(map[Category][]string)}
}

// Add records an entry under a category.
func (i *Issues) Add(cat Category, entry string) {
	i.byCategory[cat] = append(i.byCategory[cat], entry)
}

// Files returns the entries recorded under a category.
func (i *Issues) Files(cat Category) []string {
	return i.byCategory[cat]
}

// Total returns the number of entries across all categories.
func (i *Issues) Total() int {
	total := 0
	for _, entries := range i.byCategory {
		total += len(entries)
	}
	return total
}

// Counts returns per-category entry counts, omitting empty categories.
func (i *Issues) Counts() map[string]int {
	counts := make(map[string]int)
	for cat, entries := range i.byCategory {
		if len(entries) > 0 {
			counts[string(cat)] = len(entries)
		}
	}
	return counts
}

// Detail returns the entries per category, omitting empty categories.
func (i *Issues) Detail() map[string][]string {
	detail := make(map[string][]string)
	for cat, entries := range i.byCategory {
		if len(entries) > 0 {
			detail[string(cat)] = entries
		}
	}
	return detail
}

// Reset drops every recorded entry, keeping the collection reusable for a
// re-validation pass.
func (i *Issues) Reset() {
	i.byCategory = make(map[Category][]string)
}
