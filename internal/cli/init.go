package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vaultlint/vaultlint/internal/methodology"
	"github.com/vaultlint/vaultlint/internal/settings"
	"github.com/vaultlint/vaultlint/internal/template"
	"github.com/vaultlint/vaultlint/internal/ui"
)

var (
	initMethodology string
	initList        bool
	initDryRun      bool
)

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Initialize a vault with a PKM methodology",
	Long: `Creates the folder structure and validation settings for a new vault using
one of the catalog methodologies. Existing files are kept.

Creates:
  - methodology folders      (e.g. Atlas/, Calendar/, Efforts/)
  - .obsidian/               (Obsidian config directory)
  - .vaultlint/settings.yaml (validation settings)
  - .vaultlint/logs/         (audit log directory)
  - README.md                (methodology overview)

Without --methodology, an interactive picker runs on a terminal.

Examples:
  vaultlint init ~/vault --methodology lyt-ace
  vaultlint init ~/vault --methodology para --dry-run
  vaultlint init --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	catalog := methodology.New()

	if initList {
		printMethodologies(catalog)
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("vault path is required (or use --list to see methodologies)")
	}
	vaultPath := args[0]

	name := initMethodology
	if name == "" {
		var err error
		name, err = chooseMethodology(catalog)
		if err != nil {
			return err
		}
	}

	m, err := catalog.Load(name)
	if err != nil {
		return fmt.Errorf("%w\n\nAvailable: %s", err, strings.Join(catalog.Names(), ", "))
	}

	fmt.Printf("\nInitializing vault at: %s\n", vaultPath)
	fmt.Printf("Methodology: %s\n", m.Name)

	if initDryRun {
		fmt.Println("\n*** DRY RUN MODE - No files will be created ***")
	} else if err := os.MkdirAll(vaultPath, 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	fmt.Printf("\nCreating %s folder structure...\n", m.Name)
	folders := append([]string{}, m.Folders...)
	folders = append(folders, ".obsidian")
	for _, folder := range folders {
		folderPath := filepath.Join(vaultPath, folder)
		if initDryRun {
			fmt.Printf("  [DRY RUN] Would create: %s\n", folderPath)
			continue
		}
		if err := os.MkdirAll(folderPath, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", folder, err)
		}
		fmt.Printf("  Created: %s\n", folderPath)
	}

	fmt.Println("\nCreating configuration files...")
	if initDryRun {
		fmt.Printf("  [DRY RUN] Would create: %s\n", settings.Path(vaultPath))
	} else {
		existed := settings.Exists(vaultPath)
		settingsPath, err := settings.CreateDefault(vaultPath, name, catalog)
		if err != nil {
			return fmt.Errorf("failed to create settings: %w", err)
		}
		if existed {
			fmt.Printf("  Kept existing: %s\n", settingsPath)
		} else {
			fmt.Printf("  Created: %s\n", settingsPath)
		}
	}

	if err := writeReadme(vaultPath, m, initDryRun); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(ui.Success("Vault initialization complete!"))
	if !initDryRun {
		fmt.Printf("\nYour vault is ready at: %s\n", vaultPath)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Open the vault in Obsidian")
		fmt.Println("  2. Create notes following the methodology folders")
		fmt.Printf("  3. Run 'vaultlint validate --vault %s' to check frontmatter\n", vaultPath)
	}
	return nil
}

// printMethodologies lists the catalog for --list and the interactive picker.
func printMethodologies(catalog *methodology.Catalog) {
	fmt.Println("\nAvailable methodologies:")
	fmt.Println()
	for _, name := range catalog.Names() {
		m, err := catalog.Load(name)
		if err != nil {
			fmt.Println(ui.Warningf("%s: %v", name, err))
			continue
		}
		fmt.Printf("  %-15s - %s\n", name, m.Name)
		fmt.Printf("  %17s %s\n", "", m.Description)
		fmt.Printf("  %17s Folders: %s\n", "", strings.Join(m.Folders, ", "))
		fmt.Println()
	}
}

// chooseMethodology prompts for a methodology on a terminal. Off a terminal
// the flag is required.
func chooseMethodology(catalog *methodology.Catalog) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", fmt.Errorf("--methodology is required (one of: %s)", strings.Join(catalog.Names(), ", "))
	}

	printMethodologies(catalog)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("Select methodology (%s): ", strings.Join(catalog.Names(), "/"))
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read selection: %w", err)
		}
		choice := strings.ToLower(strings.TrimSpace(line))
		for _, name := range catalog.Names() {
			if choice == name {
				return choice, nil
			}
		}
		fmt.Printf("Invalid choice: %s. Please try again.\n", choice)
	}
}

const readmeTemplate = `# {{title}}

This Obsidian vault uses the **{{field.methodology}}** methodology.

## Methodology

{{field.description}}

## Folder Structure

{{field.folders}}
## Configuration

Validation settings live in ` + "`.vaultlint/settings.yaml`" + `. Audit logs are
appended to ` + "`.vaultlint/logs/validate.jsonl`" + `.

## Validation

To check frontmatter against the methodology conventions:

` + "```bash" + `
vaultlint validate
` + "```" + `

To apply automatic fixes:

` + "```bash" + `
vaultlint validate --fix
` + "```" + `
`

func writeReadme(vaultPath string, m *methodology.Methodology, dryRun bool) error {
	title := filepath.Base(vaultPath)
	if abs, err := filepath.Abs(vaultPath); err == nil {
		title = filepath.Base(abs)
	}

	var folders strings.Builder
	for _, folder := range m.Folders {
		fmt.Fprintf(&folders, "- `%s/`\n", folder)
	}
	vars := template.NewVariables(title, m.Key, "", map[string]string{
		"methodology": m.Name,
		"description": m.Description,
		"folders":     folders.String(),
	})
	content := template.Apply(readmeTemplate, vars)

	readmePath := filepath.Join(vaultPath, "README.md")
	if dryRun {
		fmt.Printf("  [DRY RUN] Would create: %s\n", readmePath)
		return nil
	}
	if _, err := os.Stat(readmePath); err == nil {
		fmt.Printf("  Kept existing: %s\n", readmePath)
		return nil
	}
	if err := os.WriteFile(readmePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write README: %w", err)
	}
	fmt.Printf("  Created: %s\n", readmePath)
	return nil
}

func init() {
	initCmd.Flags().StringVarP(&initMethodology, "methodology", "m", "", "methodology to initialize (lyt-ace, para, zettelkasten, minimal)")
	initCmd.Flags().BoolVar(&initList, "list", false, "list available methodologies and exit")
	initCmd.Flags().BoolVar(&initDryRun, "dry-run", false, "print what would be created without writing")
	rootCmd.AddCommand(initCmd)
}
