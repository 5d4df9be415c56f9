package check

import (
	"reflect"
	"testing"
)

func TestCategoryTitle(t *testing.T) {
	for cat, want := range map[Category]string{
		MissingFrontmatter:     "Missing Frontmatter",
		EmptyTypes:             "Empty Types",
		InvalidDailyLinks:      "Invalid Daily Links",
		TypePropertyViolations: "Type Property Violations",
	} {
		if got := cat.Title(); got != want {
			t.Errorf("Title(%s) = %q, want %q", cat, got, want)
		}
	}
}

func TestIssues(t *testing.T) {
	issues := NewIssues()
	issues.Add(EmptyTypes, "a.md")
	issues.Add(EmptyTypes, "b.md")
	issues.Add(TitleProperties, "c.md")

	if got := issues.Total(); got != 3 {
		t.Errorf("Total = %d, want 3", got)
	}

	wantCounts := map[string]int{"empty_types": 2, "title_properties": 1}
	if got := issues.Counts(); !reflect.DeepEqual(got, wantCounts) {
		t.Errorf("Counts = %v, want %v", got, wantCounts)
	}

	wantDetail := map[string][]string{
		"empty_types":      {"a.md", "b.md"},
		"title_properties": {"c.md"},
	}
	if got := issues.Detail(); !reflect.DeepEqual(got, wantDetail) {
		t.Errorf("Detail = %v, want %v", got, wantDetail)
	}

	issues.Reset()
	if issues.Total() != 0 {
		t.Errorf("Total after Reset = %d, want 0", issues.Total())
	}
	if len(issues.Counts()) != 0 {
		t.Errorf("Counts after Reset = %v", issues.Counts())
	}
}
