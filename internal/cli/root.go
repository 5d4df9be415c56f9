// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaultlint/vaultlint/internal/config"
	"github.com/vaultlint/vaultlint/internal/logging"
)

var (
	// Global flags
	vaultPathFlag  string
	configPathFlag string
	verbose        bool

	// Resolved values
	resolvedVaultPath string
	cfg               *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vaultlint",
	Short: "Vaultlint - an Obsidian vault validator",
	Long: `Vaultlint validates an Obsidian vault's frontmatter against the note-type
conventions declared in .vaultlint/settings.yaml: required properties per
type, folder-based type inference, wikilink quoting, created dates, and
daily-note links. Issues it knows how to repair can be fixed automatically
or interactively, and every run is appended to a JSONL audit log.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose)

		// Skip vault resolution for commands that don't operate on one
		switch cmd.Name() {
		case "init", "methodologies", "config", "completion", "help", "version":
			return nil
		}
		if p := cmd.Parent(); p != nil && (p.Name() == "completion" || p.Name() == "config") {
			return nil
		}

		// Load global config
		var err error
		if configPathFlag != "" {
			cfg, err = config.LoadFrom(configPathFlag)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Resolve vault path: explicit flag > config default > working directory
		switch {
		case vaultPathFlag != "":
			resolvedVaultPath = vaultPathFlag
		case cfg.DefaultVault != "":
			resolvedVaultPath = cfg.DefaultVault
		default:
			resolvedVaultPath, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}
		}

		// Verify vault exists
		if _, err := os.Stat(resolvedVaultPath); os.IsNotExist(err) {
			return fmt.Errorf("vault not found: %s\n\nRun 'vaultlint init %s' to create it", resolvedVaultPath, resolvedVaultPath)
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&vaultPathFlag, "vault", "v", "", "Path to the vault (default: config default_vault, else current directory)")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to global config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

// getVaultPath returns the resolved vault path.
func getVaultPath() string {
	return resolvedVaultPath
}

// getConfig returns the loaded global config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}
