package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaultlint/vaultlint/internal/audit"
	"github.com/vaultlint/vaultlint/internal/ui"
)

var (
	auditSince string
	auditLimit int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent validation runs",
	Long: `Shows entries from the vault's audit log. Every 'vaultlint validate' run
appends one JSONL entry unless --no-jsonl was given.

Examples:
  vaultlint audit
  vaultlint audit --since 24h
  vaultlint audit --limit 50`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := audit.New(getVaultPath(), true)

		var entries []audit.Entry
		var err error
		if auditSince != "" {
			d, parseErr := time.ParseDuration(auditSince)
			if parseErr != nil {
				return fmt.Errorf("invalid --since %q (expected a duration like 24h or 30m)", auditSince)
			}
			entries, err = logger.ReadSince(time.Now().Add(-d))
		} else {
			entries, err = logger.Read()
		}
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No audit entries found.")
			fmt.Println(ui.Hint("Runs of 'vaultlint validate' are logged to " + logger.Path()))
			return nil
		}

		if auditLimit > 0 && len(entries) > auditLimit {
			entries = entries[len(entries)-auditLimit:]
		}

		fmt.Println(ui.Header("Audit Log"))
		fmt.Println(ui.Hint(logger.Path()))
		fmt.Println()

		table := ui.NewTable(5)
		table.AddRow("TIME", "MODE", "METHODOLOGY", "ISSUES", "FIXES")
		for _, e := range entries {
			table.AddRow(
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Mode,
				e.Methodology,
				fmt.Sprintf("%d", e.TotalIssues),
				fmt.Sprintf("%d", e.FixesApplied),
			)
		}
		fmt.Print(table.String())
		return nil
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditSince, "since", "", "only entries newer than this duration (e.g. 24h)")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 10, "maximum entries to show, newest kept (0 = all)")
	rootCmd.AddCommand(auditCmd)
}
