package cli

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultlint/vaultlint/internal/methodology"
	"github.com/vaultlint/vaultlint/internal/settings"
	"github.com/vaultlint/vaultlint/internal/ui"
)

var (
	settingsShowAll  bool
	settingsResetYes bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage vault validation settings",
	Long: `Manage the vault's .vaultlint/settings.yaml.

Use this to inspect, edit, and reset the settings that 'vaultlint validate'
enforces. Mutating subcommands back up the current file to
.vaultlint/backups/ first.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the vault settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	vaultPath := getVaultPath()
	s, err := settings.Load(vaultPath)
	if err != nil {
		return err
	}

	fmt.Println(ui.Header("Vault Configuration"))
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("\nPath: %s\n", vaultPath)
	fmt.Printf("Version: %s\n", s.Version)
	fmt.Printf("Methodology: %s\n", s.Methodology)

	fmt.Println("\nCore Properties")
	fmt.Println(strings.Repeat("-", 30))
	props := ui.NewList()
	props.SetBullet("-")
	for _, prop := range s.CoreProperties {
		props.Add(prop)
	}
	fmt.Print(props.String())

	names := s.TypeNames()
	fmt.Printf("\nNote Types (%d)\n", len(names))
	fmt.Println(strings.Repeat("-", 30))
	for _, name := range names {
		nt := s.NoteType(name)
		folders := "-"
		if len(nt.FolderHints) > 0 {
			folders = strings.Join(nt.FolderHints, ", ")
		}
		fmt.Printf("  %s: %s\n", typeHeading(nt), folders)
	}

	if settingsShowAll {
		fmt.Println("\nValidation Rules")
		fmt.Println(strings.Repeat("-", 30))
		fmt.Printf("  Require core properties: %t\n", s.Validation.RequireCoreProperties)
		fmt.Printf("  Allow empty: %s\n", strings.Join(s.Validation.AllowEmptyProperties, ", "))
		fmt.Printf("  Strict types: %t\n", s.Validation.StrictTypes)
		fmt.Printf("  Check templates: %t\n", s.Validation.CheckTemplates)
		fmt.Printf("  Check up links: %t\n", s.Validation.CheckUpLinks)
		fmt.Printf("  Check inbox frontmatter: %t\n", s.Validation.CheckInboxNoFrontmatter)

		fmt.Println("\nExclusions")
		fmt.Println(strings.Repeat("-", 30))
		fmt.Printf("  Paths: %s\n", strings.Join(s.Exclude.Paths, ", "))
		fmt.Printf("  Files: %s\n", strings.Join(s.Exclude.Files, ", "))
		fmt.Printf("  Patterns: %s\n", strings.Join(s.Exclude.Patterns, ", "))
	}

	fmt.Println()
	return nil
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the settings file for problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load(getVaultPath())
		if err != nil {
			return err
		}

		problems := s.Validate()
		if len(problems) > 0 {
			fmt.Println(ui.Warningf("Configuration has %d %s:", len(problems), ui.Pluralize("problem", len(problems))))
			fmt.Println()
			for _, p := range problems {
				fmt.Printf("  - %s\n", p)
			}
			os.Exit(1)
		}

		fmt.Println(ui.Success("Configuration is valid."))
		fmt.Printf("  Methodology: %s\n", s.Methodology)
		fmt.Printf("  Note types: %d\n", len(s.TypeNames()))
		fmt.Printf("  Core properties: %d\n", len(s.CoreProperties))
		return nil
	},
}

var settingsDiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show differences from the built-in defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		changes, err := settings.Diff(getVaultPath())
		if err != nil {
			return err
		}

		fmt.Println(ui.Header("Configuration Changes"))
		fmt.Println(strings.Repeat("=", 50))
		fmt.Println()
		if len(changes) == 0 {
			fmt.Println(ui.Success("No changes from defaults."))
			return nil
		}
		for _, change := range changes {
			fmt.Printf("  %s\n", change)
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one settings value by dot-separated key path",
	Long: `Sets a value in settings.yaml. The key is a dot-separated path into the
document; the value auto-converts (true/false, integers, [a, b] lists).
Comments in the file are not preserved.

Examples:
  vaultlint settings set validation.strict_types false
  vaultlint settings set auto_fix.enabled true
  vaultlint settings set exclude.files "[Home.md, README.md]"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()

		backupPath, err := settings.Backup(vaultPath)
		if err != nil {
			return err
		}
		if backupPath != "" {
			fmt.Printf("Backup created: %s\n", backupPath)
		}

		if err := settings.Set(vaultPath, args[0], args[1], false); err != nil {
			return err
		}
		fmt.Println(ui.Successf("Set %s = %s", args[0], args[1]))
		fmt.Printf("Saved to: %s\n", settings.Path(vaultPath))
		return nil
	},
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the settings file in your editor",
	Long: `Opens settings.yaml in the configured editor and re-validates the file
after the editor exits. A backup is written first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()
		settingsPath := settings.Path(vaultPath)
		if !settings.Exists(vaultPath) {
			return fmt.Errorf("no settings file at %s\n\nRun 'vaultlint init %s' to create it", settingsPath, vaultPath)
		}

		editor := getConfig().GetEditor()
		if editor == "" {
			return fmt.Errorf("no editor configured (set editor in config.toml or $EDITOR)")
		}

		backupPath, err := settings.Backup(vaultPath)
		if err != nil {
			return err
		}
		if backupPath != "" {
			fmt.Printf("Backup created: %s\n", backupPath)
		}

		execCmd := exec.Command(editor, settingsPath)
		execCmd.Stdin = os.Stdin
		execCmd.Stdout = os.Stdout
		execCmd.Stderr = os.Stderr
		if err := execCmd.Run(); err != nil {
			return fmt.Errorf("editor %s failed: %w", editor, err)
		}

		fmt.Printf("\nSettings edited: %s\n", settingsPath)

		s, err := settings.Load(vaultPath)
		if err != nil {
			fmt.Println(ui.Errorf("Settings no longer load: %v", err))
			if backupPath != "" {
				fmt.Printf("Backup available at: %s\n", backupPath)
			}
			os.Exit(1)
		}
		if problems := s.Validate(); len(problems) > 0 {
			fmt.Println(ui.Warning("Settings have validation problems:"))
			for _, p := range problems {
				fmt.Printf("  - %s\n", p)
			}
			if backupPath != "" {
				fmt.Printf("\nBackup available at: %s\n", backupPath)
			}
			os.Exit(1)
		}
		fmt.Println(ui.Success("Settings are valid"))
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset <methodology>",
	Short: "Reset settings to a methodology's defaults",
	Long: `Replaces settings.yaml with the named methodology's default settings.
The current file is backed up to .vaultlint/backups/ first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()
		name := args[0]

		catalog := methodology.New()
		if name != methodology.Custom && !slices.Contains(catalog.Names(), name) {
			return fmt.Errorf("unknown methodology %q\n\nAvailable: %s", name, strings.Join(append(catalog.Names(), methodology.Custom), ", "))
		}

		if !settingsResetYes {
			if !shouldPromptForConfirm() {
				return fmt.Errorf("refusing to reset settings without confirmation (use --yes)")
			}
			if !promptForConfirm(fmt.Sprintf("Reset settings to the %q defaults?", name)) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		backupPath, err := settings.Reset(vaultPath, name, catalog)
		if err != nil {
			return err
		}
		if backupPath != "" {
			fmt.Printf("Backup created: %s\n", backupPath)
		}
		fmt.Println(ui.Successf("Reset settings to %s defaults", name))
		fmt.Printf("Saved to: %s\n", settings.Path(vaultPath))
		return nil
	},
}

func init() {
	settingsShowCmd.Flags().BoolVar(&settingsShowAll, "all", false, "include validation rules and exclusions")
	settingsResetCmd.Flags().BoolVarP(&settingsResetYes, "yes", "y", false, "skip confirmation")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	settingsCmd.AddCommand(settingsDiffCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEditCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}
