package cli

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaultlint/vaultlint/internal/dates"
	"github.com/vaultlint/vaultlint/internal/notes"
	"github.com/vaultlint/vaultlint/internal/settings"
	"github.com/vaultlint/vaultlint/internal/ui"
	"github.com/vaultlint/vaultlint/internal/vault"
)

var (
	newFieldFlags []string
	newPathFlag   string
)

var newCmd = &cobra.Command{
	Use:   "new <type> [title]",
	Short: "Create a note that passes validation",
	Long: `Creates a note of the given type with frontmatter listing every required
property: type set, created stamped with today's date, an up link where the
folder expects one, and the rest as empty placeholders to fill in.

The file lands under the type's first folder hint with a slugified name.
Daily notes ('new daily') take a YYYY-MM-DD date or today/yesterday/tomorrow
(default today) and nest under year/month subfolders.

Examples:
  vaultlint new map "Home Lab"
  vaultlint new source "Deep Work" --field author="Cal Newport"
  vaultlint new effort "Garden redesign" --path "Efforts/On/"
  vaultlint new daily
  vaultlint new daily yesterday
  vaultlint new daily 2026-01-05`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()
		typeName := args[0]

		s, err := settings.Load(vaultPath)
		if err != nil {
			return fmt.Errorf("%w\n\nRun 'vaultlint init %s' to set up the vault", err, vaultPath)
		}

		var title string
		if len(args) >= 2 {
			title = args[1]
		} else if typeName != "daily" {
			if !shouldPromptForConfirm() {
				return fmt.Errorf("title is required")
			}
			fmt.Printf("Title: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			title = strings.TrimSpace(line)
			if title == "" {
				return fmt.Errorf("title cannot be empty")
			}
		}

		if typeName == "daily" {
			date, err := dates.ParseDateArg(title, time.Now())
			if err != nil {
				return err
			}
			title = dates.Format(date)
		}

		fields := make(map[string]string)
		for _, f := range newFieldFlags {
			parts := strings.SplitN(f, "=", 2)
			if len(parts) != 2 {
				return fmt.Errorf("invalid --field %q (expected name=value)", f)
			}
			fields[parts[0]] = parts[1]
		}

		result, err := notes.Create(notes.CreateOptions{
			VaultPath: vaultPath,
			TypeName:  typeName,
			Title:     title,
			TargetDir: newPathFlag,
			Fields:    fields,
			Settings:  s,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created: %s\n", ui.FilePath(result.RelativePath))
		vault.OpenInEditorOrPrintPath(getConfig(), result.FilePath)
		return nil
	},
	ValidArgsFunction: completeTypes,
}

// completeTypes completes the first argument with the vault's note types.
func completeTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	s, err := settings.Load(getVaultPath())
	if err != nil {
		return []string{"daily"}, cobra.ShellCompDirectiveNoFileComp
	}

	names := append([]string(nil), s.TypeNames()...)
	if !slices.Contains(names, "daily") {
		names = append(names, "daily")
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	newCmd.Flags().StringArrayVar(&newFieldFlags, "field", nil, "set a frontmatter property (name=value, repeatable)")
	newCmd.Flags().StringVar(&newPathFlag, "path", "", "vault-relative folder overriding the type's folder hint")
	rootCmd.AddCommand(newCmd)
}
