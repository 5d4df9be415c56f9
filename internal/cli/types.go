package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultlint/vaultlint/internal/settings"
	"github.com/vaultlint/vaultlint/internal/ui"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Show the vault's note types",
	Long: `Shows the note types configured in the vault settings, with the required
properties computed after core property inheritance.`,
	Args: cobra.NoArgs,
	RunE: runTypesList,
}

var typesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all note types",
	Args:  cobra.NoArgs,
	RunE:  runTypesList,
}

var typesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show details for one note type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load(getVaultPath())
		if err != nil {
			return err
		}
		return showType(s, args[0])
	},
}

func runTypesList(cmd *cobra.Command, args []string) error {
	s, err := settings.Load(getVaultPath())
	if err != nil {
		return err
	}

	names := s.TypeNames()
	if len(names) == 0 {
		fmt.Println("No note types defined.")
		return nil
	}

	fmt.Println(ui.Header(fmt.Sprintf("Note Types (%d)", len(names))))
	fmt.Println()
	fmt.Printf("Core properties: %s\n\n", strings.Join(s.CoreProperties, ", "))

	for _, name := range names {
		nt := s.NoteType(name)
		fmt.Printf("  %s\n", typeHeading(nt))
		if nt.Description != "" {
			fmt.Printf("    Description: %s\n", nt.Description)
		}
		if len(nt.FolderHints) > 0 {
			fmt.Printf("    Folders: %s\n", strings.Join(nt.FolderHints, ", "))
		}
		fmt.Printf("    Required: %s\n", strings.Join(s.RequiredFor(name), ", "))
		if len(nt.OptionalProperties) > 0 {
			fmt.Printf("    Optional: %s\n", strings.Join(nt.OptionalProperties, ", "))
		}
		fmt.Println()
	}
	return nil
}

func showType(s *settings.Settings, name string) error {
	nt := s.NoteType(name)
	if nt == nil {
		return fmt.Errorf("unknown note type %q\n\nAvailable: %s", name, strings.Join(s.TypeNames(), ", "))
	}

	fmt.Println(ui.Header(fmt.Sprintf("Note Type: %s", typeHeading(nt))))
	fmt.Println()
	if nt.Description != "" {
		fmt.Printf("  Description: %s\n", nt.Description)
	}
	if len(nt.FolderHints) > 0 {
		fmt.Printf("  Folders: %s\n", strings.Join(nt.FolderHints, ", "))
	}
	fmt.Printf("  Core properties: %s\n", strings.Join(s.CoreProperties, ", "))
	fmt.Printf("  Required: %s\n", strings.Join(s.RequiredFor(name), ", "))
	if len(nt.OptionalProperties) > 0 {
		fmt.Printf("  Optional: %s\n", strings.Join(nt.OptionalProperties, ", "))
	}
	if !nt.InheritCore {
		fmt.Println("  Inherit core: false")
	}

	if len(nt.Validation) > 0 {
		fmt.Println("  Validation:")
		keys := make([]string, 0, len(nt.Validation))
		for k := range nt.Validation {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("    %s: %v\n", k, nt.Validation[k])
		}
	}

	if upPath, ok := firstHintUpLink(s, nt); ok {
		fmt.Printf("  Expected up link: %s\n", upPath)
	}
	return nil
}

// typeHeading renders "icon name" or just the name when no icon is set.
func typeHeading(nt *settings.NoteTypeConfig) string {
	if nt.Icon != "" {
		return nt.Icon + " " + nt.Name
	}
	return nt.Name
}

// firstHintUpLink reports the up-link expectation covering the type's first
// folder hint, if any.
func firstHintUpLink(s *settings.Settings, nt *settings.NoteTypeConfig) (string, bool) {
	if len(nt.FolderHints) == 0 {
		return "", false
	}
	return s.UpLinkForPath(strings.Trim(nt.FolderHints[0], "/") + "/probe.md")
}

func init() {
	typesCmd.AddCommand(typesListCmd)
	typesCmd.AddCommand(typesShowCmd)
	rootCmd.AddCommand(typesCmd)
}
