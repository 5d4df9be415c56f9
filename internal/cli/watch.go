package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaultlint/vaultlint/internal/check"
	"github.com/vaultlint/vaultlint/internal/settings"
	"github.com/vaultlint/vaultlint/internal/ui"
	"github.com/vaultlint/vaultlint/internal/watcher"
)

var watchDebounceMS int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and re-validate changed notes",
	Long: `Watches the vault directory and validates each Markdown file as it is
saved, printing the file's issues immediately.

This runs in the foreground. The watcher:
- Monitors all .md files in the vault
- Debounces rapid changes (waits 100ms after the last write)
- Ignores .vaultlint/, .obsidian/, .git/, .trash/ and excluded paths
- Validates one file at a time; run 'vaultlint validate' for a full pass

Examples:
  vaultlint watch
  vaultlint watch --debounce 500
  vaultlint watch --vault ~/vault`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	vaultPath := getVaultPath()

	s, err := settings.Load(vaultPath)
	if err != nil {
		return fmt.Errorf("%w\n\nRun 'vaultlint init %s' to set up the vault", err, vaultPath)
	}

	w, err := watcher.New(watcher.Config{
		VaultPath:     vaultPath,
		Settings:      s,
		DebounceDelay: time.Duration(watchDebounceMS) * time.Millisecond,
		OnValidate:    printWatchResult,
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down watcher...")
		cancel()
	}()

	fmt.Printf("Watching vault: %s\n", vaultPath)
	fmt.Println("Press Ctrl+C to stop")

	return w.Start(ctx)
}

// printWatchResult reports one re-validated file. Entries repeat the file
// path, so only the detail suffix is shown per category.
func printWatchResult(relPath string, issues *check.Issues) {
	total := issues.Total()
	if total == 0 {
		fmt.Println(ui.Successf("%s: clean", ui.FilePath(relPath)))
		return
	}

	fmt.Println(ui.Warningf("%s: %d %s", ui.FilePath(relPath), total, ui.Pluralize("issue", total)))
	for _, cat := range check.Categories {
		for _, entry := range issues.Files(cat) {
			suffix := strings.TrimPrefix(entry, relPath)
			fmt.Printf("    - %s%s\n", cat.Title(), suffix)
		}
	}
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounceMS, "debounce", 100, "debounce delay in milliseconds")
	rootCmd.AddCommand(watchCmd)
}
