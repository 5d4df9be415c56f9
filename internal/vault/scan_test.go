package vault

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/vaultlint/vaultlint/internal/settings"
)

func scanVault(t *testing.T) (string, *settings.Settings) {
	t.Helper()
	root := t.TempDir()

	files := []string{
		"Home.md",
		"Atlas/Maps/Projects.md",
		"Atlas/Dots/idea.md",
		"Notes/reading.md",
		"+/quick-capture.md",
		".obsidian/workspace.md",
		".vaultlint/settings.yaml",
		"Atlas/diagram.excalidraw.txt",
	}
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}

	s, err := settings.Parse([]byte(`
version: "1.0"
core_properties: [type]
exclude:
  paths: ["+/"]
`))
	if err != nil {
		t.Fatalf("failed to parse settings: %v", err)
	}
	return root, s
}

func TestScan(t *testing.T) {
	t.Run("full vault", func(t *testing.T) {
		root, s := scanVault(t)

		files, skipped, err := NewScanner(root, s).Scan("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{
			"Atlas/Dots/idea.md",
			"Atlas/Maps/Projects.md",
			"Notes/reading.md",
		}
		if len(files) != len(want) {
			t.Fatalf("expected %v, got %v", want, files)
		}
		for _, f := range want {
			if !slices.Contains(files, f) {
				t.Errorf("expected %q in scan results %v", f, files)
			}
		}

		// +/quick-capture.md by exclude.paths, Home.md as a root system file.
		if skipped != 2 {
			t.Errorf("expected 2 skipped files, got %d", skipped)
		}
	})

	t.Run("path filter", func(t *testing.T) {
		root, s := scanVault(t)

		files, _, err := NewScanner(root, s).Scan("Atlas")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"Atlas/Dots/idea.md", "Atlas/Maps/Projects.md"}
		if len(files) != len(want) {
			t.Fatalf("expected %v, got %v", want, files)
		}
		for _, f := range files {
			if !slices.Contains(want, f) {
				t.Errorf("unexpected file %q", f)
			}
		}
	})

	t.Run("missing filter path", func(t *testing.T) {
		root, s := scanVault(t)

		files, skipped, err := NewScanner(root, s).Scan("Bogus")
		if err != nil {
			t.Fatalf("expected missing filter to be tolerated, got %v", err)
		}
		if len(files) != 0 || skipped != 0 {
			t.Errorf("expected empty scan, got files=%v skipped=%d", files, skipped)
		}
	})
}
