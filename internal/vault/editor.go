package vault

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/vaultlint/vaultlint/internal/config"
)

// OpenInEditor opens a file in the user's configured editor. The editor is
// started in the background and not waited on. Returns false when no editor
// is configured or it could not be started.
//
// An editor value with spaces (e.g. "open -a Obsidian") runs via the shell
// so its arguments survive.
func OpenInEditor(cfg *config.Config, filePath string) bool {
	if cfg == nil {
		return false
	}

	editor := cfg.GetEditor()
	if editor == "" {
		return false
	}

	var cmd *exec.Cmd
	if strings.Contains(editor, " ") {
		cmd = exec.Command("sh", "-c", editor+" "+shellQuote(filePath))
	} else {
		cmd = exec.Command(editor, filePath)
	}

	if err := cmd.Start(); err != nil {
		fmt.Printf("Warning: failed to open editor %q: %v\n", editor, err)
		return false
	}
	return true
}

// shellQuote single-quotes a string for the shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}

// OpenInEditorOrPrintPath opens a file in the editor, or prints the path
// when no editor is configured.
func OpenInEditorOrPrintPath(cfg *config.Config, filePath string) {
	if !OpenInEditor(cfg, filePath) {
		fmt.Printf("Open: %s\n", filePath)
		fmt.Println("(Set 'editor' in ~/.config/vaultlint/config.toml or $EDITOR to open automatically)")
	}
}
