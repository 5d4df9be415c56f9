package check

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/vaultlint/vaultlint/internal/settings"
)

const testSettingsYAML = `
version: "1.0"
methodology: lyt-ace
core_properties:
  - type
  - up
  - created
note_types:
  map:
    folder_hints: ["Atlas/Maps/"]
  dot:
    folder_hints: ["Atlas/Dots/"]
    validation:
      allow_empty_up: true
  source:
    folder_hints: ["Atlas/Sources/"]
    properties:
      additional_required: [author]
  daily:
    folder_hints: ["Calendar/daily/"]
    properties:
      required: [type, created]
    validation:
      allow_empty_up: true
  effort:
    folder_hints: ["Efforts/"]
    properties:
      additional_required: [daily]
    validation:
      require_daily_link: true
validation:
  require_core_properties: true
  allow_empty_properties: [tags, author]
  strict_types: true
  check_up_links: true
  check_inbox_no_frontmatter: true
auto_fix:
  empty_types: true
  missing_properties: true
  daily_links: true
  wikilink_quotes: true
  invalid_created: true
  title_properties: true
  date_mismatches: true
folder_structure:
  inbox: "+/"
up_links:
  Atlas/Maps/: "[[Home]]"
`

func testSettings(t *testing.T) *settings.Settings {
	t.Helper()
	s, err := settings.Parse([]byte(testSettingsYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func writeNote(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// detect validates a single note written into a fresh vault.
func detect(t *testing.T, s *settings.Settings, relPath, content string) *Issues {
	t.Helper()
	root := t.TempDir()
	writeNote(t, root, relPath, content)
	issues := NewIssues()
	d := NewDetector(root, s, issues)
	d.ErrWriter = io.Discard
	d.ValidateFile(relPath)
	return issues
}

func assertFiles(t *testing.T, issues *Issues, cat Category, want ...string) {
	t.Helper()
	if got := issues.Files(cat); !slices.Equal(got, want) {
		t.Errorf("%s = %v, want %v", cat, got, want)
	}
}

func TestValidateFile(t *testing.T) {
	s := testSettings(t)

	t.Run("clean note", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Maps/Go.md", `---
type: map
up: "[[Home]]"
created: 2025-01-15
---

# Go
`)
		if issues.Total() != 0 {
			t.Fatalf("Total = %d, want 0: %v", issues.Total(), issues.Detail())
		}
	})

	t.Run("missing frontmatter", func(t *testing.T) {
		issues := detect(t, s, "Notes/Idea.md", "# Idea\nNo frontmatter here.\n")
		assertFiles(t, issues, MissingFrontmatter, "Notes/Idea.md")
	})

	t.Run("unclosed frontmatter counts as missing", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Maps/Unclosed.md", "---\ntype: map\nNo closing delimiter.\n")
		assertFiles(t, issues, MissingFrontmatter, "Atlas/Maps/Unclosed.md")
	})

	t.Run("inbox note exempt from frontmatter", func(t *testing.T) {
		issues := detect(t, s, "+/Capture.md", "quick thought\n")
		if issues.Total() != 0 {
			t.Fatalf("Total = %d, want 0", issues.Total())
		}
	})

	t.Run("inbox exemption respects flag", func(t *testing.T) {
		strict := testSettings(t)
		strict.Validation.CheckInboxNoFrontmatter = false
		issues := detect(t, strict, "+/Capture.md", "quick thought\n")
		assertFiles(t, issues, MissingFrontmatter, "+/Capture.md")
	})

	t.Run("empty type", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Maps/NoType.md", `---
type:
up: "[[Home]]"
created: 2025-01-15
---
`)
		assertFiles(t, issues, EmptyTypes, "Atlas/Maps/NoType.md")
		if issues.Total() != 1 {
			t.Errorf("Total = %d, want 1: %v", issues.Total(), issues.Detail())
		}
	})

	t.Run("missing properties", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Maps/Sparse.md", "---\ntype: map\n---\n# Sparse\n")
		assertFiles(t, issues, MissingProperties, "Atlas/Maps/Sparse.md (missing: up, created)")
	})

	t.Run("unknown folder falls back to core properties", func(t *testing.T) {
		issues := detect(t, s, "Notes/Orphan.md", "---\ntype: note\n---\n")
		assertFiles(t, issues, MissingProperties, "Notes/Orphan.md (missing: up, created)")
		assertFiles(t, issues, TypePropertyViolations)
	})

	t.Run("daily note skips property check", func(t *testing.T) {
		issues := detect(t, s, "Calendar/daily/2025/01/2025-01-15.md", `---
type: daily
created: 2025-01-15
---
`)
		if issues.Total() != 0 {
			t.Fatalf("Total = %d, want 0: %v", issues.Total(), issues.Detail())
		}
	})

	t.Run("full path daily link", func(t *testing.T) {
		issues := detect(t, s, "Efforts/App.md", `---
type: effort
up: "[[Efforts]]"
created: 2025-01-15
daily: "[[Calendar/daily/2025/01/2025-01-15]]"
---
`)
		assertFiles(t, issues, InvalidDailyLinks, "Efforts/App.md")
		if issues.Total() != 1 {
			t.Errorf("Total = %d, want 1: %v", issues.Total(), issues.Detail())
		}
	})

	t.Run("unquoted wikilinks recorded once per file", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Maps/Links.md", `---
type: map
up: [[Home]]
related: [[Other]]
created: 2025-01-15
---
`)
		assertFiles(t, issues, UnquotedWikilinks, "Atlas/Maps/Links.md")
	})

	t.Run("wikilink created", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Maps/Created.md", `---
type: map
up: "[[Home]]"
created: [[2025-01-15]]
---
`)
		assertFiles(t, issues, InvalidCreated, "Atlas/Maps/Created.md")
		// The created line is also an unquoted wikilink.
		assertFiles(t, issues, UnquotedWikilinks, "Atlas/Maps/Created.md")
	})

	t.Run("title property", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Maps/Titled.md", `---
type: map
up: "[[Home]]"
created: 2025-01-15
title: Go Notes
---
`)
		assertFiles(t, issues, TitleProperties, "Atlas/Maps/Titled.md")
	})

	t.Run("date mismatch", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Maps/Dated.md", `---
type: map
up: "[[Home]]"
created: 2025-01-14
daily: "[[2025-01-15]]"
---
`)
		assertFiles(t, issues, DateMismatches, "Atlas/Maps/Dated.md")
	})

	t.Run("read error reported, not recorded", func(t *testing.T) {
		issues := NewIssues()
		d := NewDetector(t.TempDir(), s, issues)
		var buf bytes.Buffer
		d.ErrWriter = &buf
		d.ValidateFile("missing.md")
		if issues.Total() != 0 {
			t.Errorf("Total = %d, want 0", issues.Total())
		}
		if !strings.Contains(buf.String(), "Error validating missing.md") {
			t.Errorf("stderr = %q, want read error", buf.String())
		}
	})
}

func TestTypePropertyViolations(t *testing.T) {
	s := testSettings(t)

	t.Run("empty required property", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Maps/EmptyUp.md", "---\ntype: map\nup:\ncreated: 2025-01-15\n---\n")
		assertFiles(t, issues, TypePropertyViolations, "Atlas/Maps/EmptyUp.md (up: empty)")
	})

	t.Run("allow_empty_up honored", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Dots/EmptyUp.md", "---\ntype: dot\nup:\ncreated: 2025-01-15\n---\n")
		if issues.Total() != 0 {
			t.Fatalf("Total = %d, want 0: %v", issues.Total(), issues.Detail())
		}
	})

	t.Run("allow_empty_properties honored", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Sources/Book.md", `---
type: source
up: "[[Sources]]"
created: 2025-01-15
author:
---
`)
		if issues.Total() != 0 {
			t.Fatalf("Total = %d, want 0: %v", issues.Total(), issues.Detail())
		}
	})

	t.Run("created format", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Maps/BadDate.md", "---\ntype: map\nup: \"[[Home]]\"\ncreated: Jan 5\n---\n")
		assertFiles(t, issues, TypePropertyViolations, "Atlas/Maps/BadDate.md (created: expected YYYY-MM-DD)")
	})

	t.Run("bare up value", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Maps/BareUp.md", "---\ntype: map\nup: Home\ncreated: 2025-01-15\n---\n")
		assertFiles(t, issues, TypePropertyViolations,
			"Atlas/Maps/BareUp.md (up: expected wikilink)",
			"Atlas/Maps/BareUp.md (up: expected [[Home]])")
	})

	t.Run("daily link required", func(t *testing.T) {
		issues := detect(t, s, "Efforts/NoDaily.md", "---\ntype: effort\nup: \"[[Efforts]]\"\ncreated: 2025-01-15\n---\n")
		assertFiles(t, issues, MissingProperties, "Efforts/NoDaily.md (missing: daily)")
		assertFiles(t, issues, TypePropertyViolations, "Efforts/NoDaily.md (daily: required)")
	})

	t.Run("up link expectation", func(t *testing.T) {
		issues := detect(t, s, "Atlas/Maps/Wrong.md", "---\ntype: map\nup: \"[[Elsewhere]]\"\ncreated: 2025-01-15\n---\n")
		assertFiles(t, issues, TypePropertyViolations, "Atlas/Maps/Wrong.md (up: expected [[Home]])")
	})

	t.Run("strict_types off disables checks", func(t *testing.T) {
		lax := testSettings(t)
		lax.Validation.StrictTypes = false
		issues := detect(t, lax, "Atlas/Maps/EmptyUp.md", "---\ntype: map\nup:\ncreated: 2025-01-15\n---\n")
		if issues.Total() != 0 {
			t.Fatalf("Total = %d, want 0: %v", issues.Total(), issues.Detail())
		}
	})
}
