package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultlint/vaultlint/internal/config"
	"github.com/vaultlint/vaultlint/internal/ui"
)

var (
	configSetEditor       string
	configSetDefaultVault string

	configUnsetEditor       bool
	configUnsetDefaultVault bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage global vaultlint config.toml settings",
	Long: `Manage the machine-level vaultlint configuration.

The global config holds the default vault path and the editor used by
'vaultlint settings edit'. Vault-specific validation settings live in the
vault's .vaultlint/settings.yaml instead (see 'vaultlint settings').`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default global config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath := configTargetPath()
		existed := false
		if _, err := os.Stat(targetPath); err == nil {
			existed = true
		}

		createdPath, err := config.CreateDefaultAt(targetPath)
		if err != nil {
			return err
		}

		if existed {
			fmt.Printf("Config already exists: %s\n", createdPath)
		} else {
			fmt.Printf("Created config: %s\n", createdPath)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set global config.toml fields",
	Long: `Sets global configuration fields.

Examples:
  vaultlint config set --default-vault ~/vault
  vaultlint config set --editor nvim`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadGlobalConfigAllowMissing()
		if err != nil {
			return err
		}

		changed := make([]string, 0, 2)

		if cmd.Flags().Changed("editor") {
			value := strings.TrimSpace(configSetEditor)
			if value == "" {
				return fmt.Errorf("editor cannot be empty; use 'vaultlint config unset --editor' to clear it")
			}
			cfg.Editor = value
			changed = append(changed, "editor")
		}

		if cmd.Flags().Changed("default-vault") {
			value := strings.TrimSpace(configSetDefaultVault)
			if value == "" {
				return fmt.Errorf("default-vault cannot be empty; use 'vaultlint config unset --default-vault' to clear it")
			}
			if info, err := os.Stat(value); err != nil || !info.IsDir() {
				return fmt.Errorf("default-vault %q is not a directory", value)
			}
			cfg.DefaultVault = value
			changed = append(changed, "default_vault")
		}

		if len(changed) == 0 {
			return fmt.Errorf("no fields provided; set at least one of --editor/--default-vault")
		}

		if err := config.SaveTo(path, cfg); err != nil {
			return err
		}

		fmt.Printf("Updated config: %s\n", path)
		fmt.Printf("changed: %s\n", strings.Join(changed, ", "))
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset",
	Short: "Clear global config.toml fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadGlobalConfigAllowMissing()
		if err != nil {
			return err
		}

		changed := make([]string, 0, 2)
		if configUnsetEditor {
			cfg.Editor = ""
			changed = append(changed, "editor")
		}
		if configUnsetDefaultVault {
			cfg.DefaultVault = ""
			changed = append(changed, "default_vault")
		}

		if len(changed) == 0 {
			return fmt.Errorf("no fields provided; pass --editor and/or --default-vault")
		}

		if err := config.SaveTo(path, cfg); err != nil {
			return err
		}

		fmt.Printf("Updated config: %s\n", path)
		fmt.Printf("cleared: %s\n", strings.Join(changed, ", "))
		return nil
	},
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadGlobalConfigAllowMissing()
	if err != nil {
		return err
	}

	exists := false
	if _, statErr := os.Stat(path); statErr == nil {
		exists = true
	}

	fmt.Println(ui.Header("Global Configuration"))
	fmt.Println()
	fmt.Printf("Path: %s\n", path)
	if !exists {
		fmt.Println(ui.Hint("(file does not exist yet; run 'vaultlint config init')"))
	}
	fmt.Printf("default_vault: %s\n", orUnset(cfg.DefaultVault))
	fmt.Printf("editor: %s\n", orUnset(cfg.Editor))
	if cfg.Editor == "" && os.Getenv("EDITOR") != "" {
		fmt.Println(ui.Hint(fmt.Sprintf("($EDITOR is %q and will be used)", os.Getenv("EDITOR"))))
	}
	return nil
}

// configTargetPath honors --config for the config command itself.
func configTargetPath() string {
	if configPathFlag != "" {
		return configPathFlag
	}
	return config.DefaultPath()
}

// loadGlobalConfigAllowMissing loads the global config, treating a missing
// file as empty so set/unset can create it.
func loadGlobalConfigAllowMissing() (*config.Config, string, error) {
	path := configTargetPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &config.Config{}, path, nil
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func orUnset(value string) string {
	if value == "" {
		return "(unset)"
	}
	return value
}

func init() {
	configSetCmd.Flags().StringVar(&configSetEditor, "editor", "", "editor command for 'settings edit'")
	configSetCmd.Flags().StringVar(&configSetDefaultVault, "default-vault", "", "vault path used when --vault is not given")
	configUnsetCmd.Flags().BoolVar(&configUnsetEditor, "editor", false, "clear the editor")
	configUnsetCmd.Flags().BoolVar(&configUnsetDefaultVault, "default-vault", false, "clear the default vault")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the global configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})
	rootCmd.AddCommand(configCmd)
}
