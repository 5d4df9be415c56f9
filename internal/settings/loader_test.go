package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vaultlint/vaultlint/internal/methodology"
)

func writeSettings(t *testing.T, vault, content string) {
	t.Helper()
	dir := filepath.Join(vault, StateDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create state dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("valid settings", func(t *testing.T) {
		vault := t.TempDir()
		writeSettings(t, vault, `
version: "1.0"
methodology: minimal
core_properties: [type, up, created]
`)

		s, err := Load(vault)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Methodology != "minimal" {
			t.Errorf("expected methodology minimal, got %q", s.Methodology)
		}
		if len(s.Raw) == 0 {
			t.Error("expected raw document to be retained")
		}
	})

	t.Run("vault path missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope"))
		if err == nil || !strings.Contains(err.Error(), "does not exist") {
			t.Fatalf("expected vault path error, got %v", err)
		}
	})

	t.Run("vault path is a file", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "vault.md")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		_, err := Load(file)
		if err == nil || !strings.Contains(err.Error(), "not a directory") {
			t.Fatalf("expected directory error, got %v", err)
		}
	})

	t.Run("settings missing", func(t *testing.T) {
		vault := t.TempDir()
		_, err := Load(vault)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("settings empty", func(t *testing.T) {
		vault := t.TempDir()
		writeSettings(t, vault, "")

		_, err := Load(vault)
		if err == nil || !strings.Contains(err.Error(), "empty") {
			t.Fatalf("expected empty-file error, got %v", err)
		}
	})

	t.Run("exists", func(t *testing.T) {
		vault := t.TempDir()
		if Exists(vault) {
			t.Error("expected no settings yet")
		}
		writeSettings(t, vault, "version: \"1.0\"\n")
		if !Exists(vault) {
			t.Error("expected settings to exist")
		}
	})
}

func TestCreateDefault(t *testing.T) {
	t.Run("seeds from methodology", func(t *testing.T) {
		vault := t.TempDir()
		catalog := methodology.New()

		path, err := CreateDefault(vault, "lyt-ace", catalog)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != Path(vault) {
			t.Errorf("unexpected path: %q", path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read created settings: %v", err)
		}
		if !strings.Contains(string(data), "methodology: lyt-ace") {
			t.Error("expected methodology line in template")
		}

		if _, err := os.Stat(filepath.Join(vault, StateDir, "logs")); err != nil {
			t.Errorf("expected logs directory: %v", err)
		}

		s, err := Load(vault)
		if err != nil {
			t.Fatalf("created settings failed to load: %v", err)
		}
		if problems := s.Validate(); len(problems) != 0 {
			t.Errorf("created settings invalid: %v", problems)
		}
	})

	t.Run("custom uses fallback template", func(t *testing.T) {
		vault := t.TempDir()

		path, err := CreateDefault(vault, "custom", methodology.New())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read created settings: %v", err)
		}
		if !strings.Contains(string(data), "note_types: {}") {
			t.Error("expected fallback template with empty note_types")
		}
	})

	t.Run("never overwrites", func(t *testing.T) {
		vault := t.TempDir()
		writeSettings(t, vault, "version: \"2.0\"\ncore_properties: [type]\n")

		if _, err := CreateDefault(vault, "minimal", methodology.New()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(Path(vault))
		if err != nil {
			t.Fatalf("failed to read settings: %v", err)
		}
		if !strings.Contains(string(data), "version: \"2.0\"") {
			t.Error("expected existing settings to be kept")
		}
	})
}
