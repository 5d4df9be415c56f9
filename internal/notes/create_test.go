package notes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vaultlint/vaultlint/internal/dates"
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
  source:
    folder_hints: ["Atlas/Sources/"]
    properties:
      additional_required: [author]
  daily:
    folder_hints: ["Calendar/daily/"]
    properties:
      required: [type, created]
  effort:
    folder_hints: ["Efforts/"]
    properties:
      additional_required: [daily]
    validation:
      require_daily_link: true
  loose: {}
validation:
  strict_types: true
  check_up_links: true
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

func readCreated(t *testing.T, res *CreateResult) string {
	t.Helper()
	data, err := os.ReadFile(res.FilePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestCreate(t *testing.T) {
	today := time.Now().Format(dates.DateLayout)

	t.Run("map note under folder hint", func(t *testing.T) {
		root := t.TempDir()
		res, err := Create(CreateOptions{
			VaultPath: root,
			TypeName:  "map",
			Title:     "Reading List",
			Settings:  testSettings(t),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if res.RelativePath != "Atlas/Maps/reading-list.md" {
			t.Fatalf("RelativePath = %q", res.RelativePath)
		}
		if res.Slug != "reading-list" {
			t.Fatalf("Slug = %q", res.Slug)
		}

		want := "---\n" +
			"type: map\n" +
			"up: \"[[Home]]\"\n" +
			"created: " + today + "\n" +
			"---\n\n" +
			"# Reading List\n"
		if got := readCreated(t, res); got != want {
			t.Fatalf("content = %q, want %q", got, want)
		}
	})

	t.Run("field overrides and extras", func(t *testing.T) {
		root := t.TempDir()
		res, err := Create(CreateOptions{
			VaultPath: root,
			TypeName:  "source",
			Title:     "How to Take Smart Notes",
			Settings:  testSettings(t),
			Fields: map[string]string{
				"author": "Ahrens",
				"up":     "[[Library]]",
				"tags":   "reading",
			},
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		got := readCreated(t, res)
		for _, line := range []string{
			"type: source\n",
			"up: \"[[Library]]\"\n",
			"author: Ahrens\n",
			"tags: reading\n",
		} {
			if !strings.Contains(got, line) {
				t.Errorf("content missing %q:\n%s", line, got)
			}
		}
		// Required properties come first, extras after.
		if strings.Index(got, "author:") > strings.Index(got, "tags:") {
			t.Errorf("extras should follow required properties:\n%s", got)
		}
	})

	t.Run("effort gets daily link", func(t *testing.T) {
		root := t.TempDir()
		res, err := Create(CreateOptions{
			VaultPath: root,
			TypeName:  "effort",
			Title:     "Ship v2",
			Settings:  testSettings(t),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		got := readCreated(t, res)
		if !strings.Contains(got, "daily: \"[["+today+"]]\"\n") {
			t.Errorf("missing quoted daily link:\n%s", got)
		}
	})

	t.Run("daily note nests under year and month", func(t *testing.T) {
		root := t.TempDir()
		res, err := Create(CreateOptions{
			VaultPath: root,
			TypeName:  "daily",
			Title:     "2026-01-05",
			Settings:  testSettings(t),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if res.RelativePath != "Calendar/daily/2026/01/2026-01-05.md" {
			t.Fatalf("RelativePath = %q", res.RelativePath)
		}
		want := "---\n" +
			"type: daily\n" +
			"created: 2026-01-05\n" +
			"---\n\n" +
			"# 2026-01-05\n"
		if got := readCreated(t, res); got != want {
			t.Fatalf("content = %q, want %q", got, want)
		}
	})

	t.Run("daily defaults to today", func(t *testing.T) {
		root := t.TempDir()
		res, err := Create(CreateOptions{
			VaultPath: root,
			TypeName:  "daily",
			Settings:  testSettings(t),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if filepath.Base(res.FilePath) != today+".md" {
			t.Fatalf("FilePath = %q, want basename %q", res.FilePath, today+".md")
		}
	})

	t.Run("path override", func(t *testing.T) {
		root := t.TempDir()
		res, err := Create(CreateOptions{
			VaultPath: root,
			TypeName:  "map",
			Title:     "Scratch Map",
			TargetDir: "Sandbox",
			Settings:  testSettings(t),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if res.RelativePath != "Sandbox/scratch-map.md" {
			t.Fatalf("RelativePath = %q", res.RelativePath)
		}
		// Outside Atlas/Maps/ there is no up-link expectation.
		if got := readCreated(t, res); !strings.Contains(got, "up:\n") {
			t.Errorf("expected bare up placeholder:\n%s", got)
		}
	})

	t.Run("type without hints lands at vault root", func(t *testing.T) {
		root := t.TempDir()
		res, err := Create(CreateOptions{
			VaultPath: root,
			TypeName:  "loose",
			Title:     "Floating Idea",
			Settings:  testSettings(t),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if res.RelativePath != "floating-idea.md" {
			t.Fatalf("RelativePath = %q", res.RelativePath)
		}
	})
}

func TestCreateErrors(t *testing.T) {
	s := testSettings(t)

	t.Run("unknown type", func(t *testing.T) {
		_, err := Create(CreateOptions{VaultPath: t.TempDir(), TypeName: "wiki", Title: "X", Settings: s})
		if err == nil || !strings.Contains(err.Error(), "unknown note type") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := Create(CreateOptions{VaultPath: t.TempDir(), TypeName: "map", Settings: s})
		if err == nil || !strings.Contains(err.Error(), "title is required") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("invalid daily date", func(t *testing.T) {
		_, err := Create(CreateOptions{VaultPath: t.TempDir(), TypeName: "daily", Title: "Jan 5", Settings: s})
		if err == nil || !strings.Contains(err.Error(), "invalid date") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("existing note", func(t *testing.T) {
		root := t.TempDir()
		opts := CreateOptions{VaultPath: root, TypeName: "map", Title: "Dup", Settings: s}
		if _, err := Create(opts); err != nil {
			t.Fatalf("first Create: %v", err)
		}
		_, err := Create(opts)
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("path escape rejected", func(t *testing.T) {
		root := t.TempDir()
		_, err := Create(CreateOptions{
			VaultPath: root,
			TypeName:  "map",
			Title:     "Escape",
			TargetDir: "../outside",
			Settings:  s,
		})
		if err == nil {
			t.Fatal("expected error for path outside vault")
		}
	})
}
