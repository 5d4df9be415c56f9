package vault

import (
	"testing"

	"github.com/vaultlint/vaultlint/internal/config"
)

func TestOpenInEditorUnconfigured(t *testing.T) {
	if OpenInEditor(nil, "note.md") {
		t.Fatal("OpenInEditor(nil) should report false")
	}
	if OpenInEditor(&config.Config{}, "note.md") {
		t.Fatal("OpenInEditor with no editor should report false")
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"note.md", "'note.md'"},
		{"my note.md", "'my note.md'"},
		{"it's.md", `'it'"'"'s.md'`},
	}

	for _, tt := range tests {
		if got := shellQuote(tt.input); got != tt.want {
			t.Errorf("shellQuote(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
