package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultlint/vaultlint/internal/methodology"
	"github.com/vaultlint/vaultlint/internal/ui"
)

var methodologiesCmd = &cobra.Command{
	Use:   "methodologies",
	Short: "List the methodology catalog",
	Long: `Lists the built-in PKM methodologies that 'vaultlint init' can seed a
vault with, along with the folders each one creates.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := methodology.New()

		var loaded []*methodology.Methodology
		for _, name := range catalog.Names() {
			m, err := catalog.Load(name)
			if err != nil {
				return err
			}
			loaded = append(loaded, m)
		}

		fmt.Println(ui.Header("Available methodologies"))
		fmt.Println()

		table := ui.NewTable(3)
		for _, m := range loaded {
			table.AddRow(m.Key, m.Name, strings.Join(m.Folders, ", "))
		}
		fmt.Print(table.String())

		fmt.Println()
		for _, m := range loaded {
			fmt.Printf("%s\n  %s\n", m.Key, m.Description)
		}

		fmt.Println()
		fmt.Println(ui.Hint("Run 'vaultlint init <path> --methodology <name>' to create a vault."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(methodologiesCmd)
}
