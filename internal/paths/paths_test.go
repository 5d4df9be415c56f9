package paths

import (
	"path/filepath"
	"testing"
)

func TestNormalizeDirRoot(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"Atlas/Maps", "Atlas/Maps/"},
		{"Atlas/Maps/", "Atlas/Maps/"},
		{"/Atlas/Maps/", "Atlas/Maps/"},
		{"Efforts//", "Efforts/"},
	}
	for _, tc := range tests {
		if got := NormalizeDirRoot(tc.in); got != tc.want {
			t.Fatalf("NormalizeDirRoot(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRelPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"./Atlas/Maps/Home.md", "Atlas/Maps/Home.md"},
		{"/Atlas/Maps/Home.md", "Atlas/Maps/Home.md"},
		{"Atlas//Maps//Home.md", "Atlas/Maps/Home.md"},
		{"Notes/Plain.md", "Notes/Plain.md"},
	}
	for _, tc := range tests {
		if got := NormalizeRelPath(tc.in); got != tc.want {
			t.Fatalf("NormalizeRelPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateWithinVault(t *testing.T) {
	vault := t.TempDir()

	inside := []string{
		filepath.Join(vault, "Atlas", "Maps", "Home.md"),
		filepath.Join(vault, "note.md"),
		vault,
	}
	for _, p := range inside {
		if err := ValidateWithinVault(vault, p); err != nil {
			t.Fatalf("ValidateWithinVault(%q) = %v, want nil", p, err)
		}
	}

	outside := []string{
		filepath.Join(vault, ".."),
		filepath.Join(vault, "..", "other", "note.md"),
		filepath.Join(vault, "Atlas", "..", "..", "escape.md"),
	}
	for _, p := range outside {
		if err := ValidateWithinVault(vault, p); err == nil {
			t.Fatalf("ValidateWithinVault(%q) = nil, want error", p)
		}
	}
}
