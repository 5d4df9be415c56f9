package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func rawSettings(t *testing.T, vault string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(Path(vault))
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("settings are not valid YAML after set: %v", err)
	}
	return doc
}

func TestSet(t *testing.T) {
	t.Run("top-level string", func(t *testing.T) {
		vault := t.TempDir()
		writeSettings(t, vault, "version: \"1.0\"\nmethodology: custom\n")

		if err := Set(vault, "methodology", "para", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := rawSettings(t, vault)["methodology"]; got != "para" {
			t.Errorf("expected para, got %v", got)
		}
	})

	t.Run("nested key creates intermediate maps", func(t *testing.T) {
		vault := t.TempDir()
		writeSettings(t, vault, "version: \"1.0\"\n")

		if err := Set(vault, "formats.date_format", "YYYY-MM-DD", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		formats, ok := rawSettings(t, vault)["formats"].(map[string]any)
		if !ok {
			t.Fatal("expected formats mapping to be created")
		}
		if formats["date_format"] != "YYYY-MM-DD" {
			t.Errorf("unexpected value: %v", formats["date_format"])
		}
	})

	t.Run("bool conversion", func(t *testing.T) {
		vault := t.TempDir()
		writeSettings(t, vault, "version: \"1.0\"\ncore_properties: [type]\n")

		if err := Set(vault, "validation.strict_types", "false", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s, err := Load(vault)
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if s.Validation.StrictTypes {
			t.Error("expected strict_types to be false after set")
		}
	})

	t.Run("int conversion", func(t *testing.T) {
		vault := t.TempDir()
		writeSettings(t, vault, "version: \"1.0\"\n")

		if err := Set(vault, "logging.max_entries", "500", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		logging := rawSettings(t, vault)["logging"].(map[string]any)
		if logging["max_entries"] != 500 {
			t.Errorf("expected int 500, got %v (%T)", logging["max_entries"], logging["max_entries"])
		}
	})

	t.Run("list conversion", func(t *testing.T) {
		vault := t.TempDir()
		writeSettings(t, vault, "version: \"1.0\"\n")

		if err := Set(vault, "exclude.files", `[a.md, "b.md", 'c.md']`, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		exclude := rawSettings(t, vault)["exclude"].(map[string]any)
		files, ok := exclude["files"].([]any)
		if !ok {
			t.Fatalf("expected list, got %T", exclude["files"])
		}
		want := []string{"a.md", "b.md", "c.md"}
		if len(files) != len(want) {
			t.Fatalf("expected %v, got %v", want, files)
		}
		for i := range want {
			if files[i] != want[i] {
				t.Errorf("expected %v, got %v", want, files)
				break
			}
		}
	})

	t.Run("traversing a scalar fails", func(t *testing.T) {
		vault := t.TempDir()
		writeSettings(t, vault, "version: \"1.0\"\n")

		err := Set(vault, "version.patch", "1", false)
		if err == nil || !strings.Contains(err.Error(), "not a mapping") {
			t.Fatalf("expected traversal error, got %v", err)
		}
	})

	t.Run("missing settings", func(t *testing.T) {
		err := Set(t.TempDir(), "version", "2.0", false)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("backup requested", func(t *testing.T) {
		vault := t.TempDir()
		writeSettings(t, vault, "version: \"1.0\"\n")

		if err := Set(vault, "methodology", "minimal", true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		backups, err := filepath.Glob(filepath.Join(vault, StateDir, "backups", "settings_*.yaml"))
		if err != nil {
			t.Fatalf("glob failed: %v", err)
		}
		if len(backups) != 1 {
			t.Fatalf("expected one backup, got %v", backups)
		}
		data, err := os.ReadFile(backups[0])
		if err != nil {
			t.Fatalf("failed to read backup: %v", err)
		}
		if !strings.Contains(string(data), "version: \"1.0\"") {
			t.Error("expected backup to hold the pre-set content")
		}
	})
}

func TestBackup(t *testing.T) {
	t.Run("no settings", func(t *testing.T) {
		path, err := Backup(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "" {
			t.Errorf("expected empty path, got %q", path)
		}
	})

	t.Run("copies settings", func(t *testing.T) {
		vault := t.TempDir()
		writeSettings(t, vault, "version: \"1.0\"\nmethodology: para\n")

		path, err := Backup(vault)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(filepath.Base(path), "settings_") {
			t.Errorf("unexpected backup name: %q", path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read backup: %v", err)
		}
		if !strings.Contains(string(data), "methodology: para") {
			t.Error("expected backup content to match settings")
		}
	})
}

func TestDiff(t *testing.T) {
	t.Run("missing settings", func(t *testing.T) {
		lines, err := Diff(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(lines) != 1 || lines[0] != "Settings file does not exist - using defaults" {
			t.Errorf("unexpected lines: %v", lines)
		}
	})

	t.Run("defaults diff clean", func(t *testing.T) {
		vault := t.TempDir()
		data, err := yaml.Marshal(DefaultSettingsMap())
		if err != nil {
			t.Fatalf("failed to marshal defaults: %v", err)
		}
		writeSettings(t, vault, string(data))

		lines, err := Diff(vault)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(lines) != 0 {
			t.Errorf("expected no differences, got %v", lines)
		}
	})

	t.Run("reports changes additions and removals", func(t *testing.T) {
		vault := t.TempDir()
		writeSettings(t, vault, `
methodology: para
core_properties: [type, up, created, daily, tags, collection, related]
note_types: {}
validation:
  require_core_properties: true
  allow_empty_properties: [tags, collection, related]
  strict_types: false
  check_templates: true
  check_up_links: true
  check_inbox_no_frontmatter: true
exclude:
  paths: ["+/", "x/", ".obsidian/", ".vaultlint/", ".git/"]
  files: [Home.md, README.md]
  patterns: [_*_MOC.md]
logging:
  level: info
`)

		lines, err := Diff(vault)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		joined := strings.Join(lines, "\n")
		for _, want := range []string{
			"- version: REMOVED (was: 1.0)",
			"~ methodology: custom → para",
			"~ validation.strict_types: true → false",
			"+ logging: ADDED",
		} {
			if !strings.Contains(joined, want) {
				t.Errorf("expected %q in diff:\n%s", want, joined)
			}
		}
	})
}
