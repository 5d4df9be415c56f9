package check

import (
	"fmt"
	"strings"
	"time"

	"github.com/vaultlint/vaultlint/internal/dates"
)

// reportMaxFiles caps how many files a report lists per category.
const reportMaxFiles = 10

// Report renders the markdown validation report for a completed run.
func Report(result *Result, settingsVersion string) string {
	var b strings.Builder

	b.WriteString("# Vault Validation Report\n\n")
	fmt.Fprintf(&b, "**Date**: %s\n", time.Now().Format(dates.TimestampLayout))
	fmt.Fprintf(&b, "**Mode**: %s\n", result.Mode)
	fmt.Fprintf(&b, "**Settings Version**: %s\n", settingsVersion)
	fmt.Fprintf(&b, "**Total Issues**: %d\n\n", result.Issues.Total())
	b.WriteString("---\n\n## Summary\n\n")

	for _, cat := range Categories {
		files := result.Issues.Files(cat)
		if len(files) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s (%d files)\n\n", cat.Title(), len(files))

		shown := files
		if len(shown) > reportMaxFiles {
			shown = shown[:reportMaxFiles]
		}
		for _, f := range shown {
			fmt.Fprintf(&b, "- `%s`\n", f)
		}
		if rest := len(files) - reportMaxFiles; rest > 0 {
			fmt.Fprintf(&b, "\n... and %d more\n", rest)
		}
	}

	return b.String()
}
