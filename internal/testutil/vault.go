// Package testutil provides reusable test utilities for vaultlint integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestVault represents a temporary vault for testing.
type TestVault struct {
	Path     string
	t        *testing.T
	settings string
	files    map[string]string
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual vault directory.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:     t,
		files: make(map[string]string),
	}
}

// WithSettings sets the .vaultlint/settings.yaml content for the vault.
func (v *TestVault) WithSettings(yaml string) *TestVault {
	v.settings = yaml
	return v
}

// WithNote adds a Markdown note to the vault.
// The path is relative to the vault root.
func (v *TestVault) WithNote(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithFile adds an arbitrary file to the vault.
func (v *TestVault) WithFile(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// Build creates the vault directory and all configured files.
// Returns the TestVault for method chaining.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	v.Path = v.t.TempDir()

	if v.settings != "" {
		v.writeFile(filepath.Join(".vaultlint", "settings.yaml"), v.settings)
	}

	for path, content := range v.files {
		v.writeFile(path, content)
	}

	return v
}

// writeFile writes a file to the vault, creating directories as needed.
func (v *TestVault) writeFile(relPath, content string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// WriteFile writes a file into an already-built vault.
func (v *TestVault) WriteFile(relPath, content string) {
	v.t.Helper()
	v.writeFile(relPath, content)
}

// ReadFile reads a file from the vault.
// Returns the content as a string.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		v.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the vault.
func (v *TestVault) FileExists(relPath string) bool {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	_, err := os.Stat(fullPath)
	return err == nil
}

// MinimalSettings returns a minimal valid settings.yaml content.
func MinimalSettings() string {
	return `version: "1.0"
methodology: minimal
core_properties:
  - up
  - created
  - type
note_types:
  note:
    description: General note
    folder_hints: [Notes/]
    properties:
      additional_required: []
      optional: [tags]
  daily:
    description: Daily note
    folder_hints: [Daily/]
    properties:
      additional_required: []
      optional: []
`
}

// LytSettings returns a settings.yaml for an LYT-style vault with several
// note types, exclusions, and up-link expectations.
func LytSettings() string {
	return `version: "1.0"
methodology: lyt-ace
core_properties:
  - up
  - created
  - type
note_types:
  map:
    description: Map of Content
    icon: "🗺️"
    folder_hints: [Atlas/Maps/]
    properties:
      additional_required: []
      optional: [tags]
  source:
    description: External source
    icon: "📚"
    folder_hints: [Atlas/Sources/]
    properties:
      additional_required: [author]
      optional: [url]
  daily:
    description: Daily note
    icon: "📅"
    folder_hints: [Calendar/]
    properties:
      additional_required: []
      optional: []
  project:
    description: Active effort
    icon: "🎯"
    folder_hints: [Efforts/Projects/]
    properties:
      additional_required: [status]
      optional: [due]
validation:
  require_core_properties: true
  allow_empty_properties: [tags]
exclude:
  paths: [Attachments/]
  files: [template.md]
  patterns: ["*.excalidraw.md"]
folder_structure:
  inbox: +/
up_links:
  Atlas/Maps/: "[[Home]]"
  Efforts/Projects/: "[[Projects]]"
`
}
