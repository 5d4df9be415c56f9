package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/vaultlint/vaultlint/internal/audit"
	"github.com/vaultlint/vaultlint/internal/check"
	"github.com/vaultlint/vaultlint/internal/settings"
	"github.com/vaultlint/vaultlint/internal/ui"
)

var (
	validateFix         bool
	validateInteractive bool
	validatePath        string
	validateType        string
	validateReport      string
	validateJSONL       string
	validateNoJSONL     bool
)

// fixMessages are the per-file lines printed as fixes are applied.
var fixMessages = map[check.Category]string{
	check.EmptyTypes:        "Fixed empty type in",
	check.MissingProperties: "Added missing properties to",
	check.InvalidDailyLinks: "Fixed daily link in",
	check.UnquotedWikilinks: "Fixed unquoted wikilinks in",
	check.InvalidCreated:    "Fixed created date in",
	check.TitleProperties:   "Removed title property from",
	check.DateMismatches:    "Synchronized dates in",
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate vault frontmatter",
	Long: `Scans the vault's markdown files and reports frontmatter issues: missing
frontmatter, empty or missing properties, unquoted wikilinks, malformed
created dates, title properties, and daily-link problems.

By default issues are only reported. With --fix, every repair enabled under
auto_fix in settings.yaml is applied and the vault is re-validated so the
summary shows what remains. With --interactive, vaultlint asks per issue
category before fixing.

Each run is appended to .vaultlint/logs/validate.jsonl unless --no-jsonl
is given. The exit code is 0 only when no issues remain.

Examples:
  vaultlint validate
  vaultlint validate --fix
  vaultlint validate --interactive
  vaultlint validate --type effort
  vaultlint validate --path Atlas/Maps --report report.md
  vaultlint validate --report -`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateFix && validateInteractive {
		return fmt.Errorf("--fix and --interactive are mutually exclusive")
	}

	vaultPath := getVaultPath()

	s, err := settings.Load(vaultPath)
	if err != nil {
		return fmt.Errorf("%w\n\nRun 'vaultlint init %s' to set up the vault", err, vaultPath)
	}
	for _, problem := range s.Validate() {
		fmt.Println(ui.Warningf("settings: %s", problem))
	}

	mode := check.ModeReport
	switch {
	case validateFix:
		mode = check.ModeAuto
	case validateInteractive:
		mode = check.ModeInteractive
	}

	pathFilter := validatePath
	if validateType != "" {
		if nt := s.NoteType(validateType); nt != nil {
			if len(nt.FolderHints) > 0 {
				pathFilter = nt.FolderHints[0]
				fmt.Println(ui.Infof("Filtering to type %q (%s)", validateType, pathFilter))
			}
		} else {
			fmt.Println(ui.Warningf("Unknown note type: %s", validateType))
			fmt.Printf("   Available: %s\n", strings.Join(s.TypeNames(), ", "))
		}
	}

	runner := check.NewRunner(vaultPath, s)
	runner.Confirm = promptForConfirm

	spinner := ui.NewSpinner("Scanning vault")
	scanned := false
	runner.OnScan = func(files, skipped int) {
		if !scanned {
			scanned = true
			spinner.Stop()
		}
		if skipped > 0 {
			fmt.Println(ui.Infof("Found %d markdown files (%d excluded)", files, skipped))
		} else {
			fmt.Println(ui.Infof("Found %d markdown files", files))
		}
		fmt.Println()
	}
	runner.OnFix = func(cat check.Category, relPath string) {
		msg, ok := fixMessages[cat]
		if !ok {
			msg = "Fixed"
		}
		fmt.Println(ui.Successf("%s: %s", msg, ui.FilePath(relPath)))
	}
	if mode == check.ModeAuto {
		runner.OnFixes = func() {
			fmt.Println()
			fmt.Println(ui.Info("Running auto-fixes..."))
			fmt.Println()
		}
	}
	runner.OnRevalidate = func(fixesApplied int) {
		fmt.Println()
		fmt.Println(ui.Successf("Total fixes applied: %d", fixesApplied))
		fmt.Println()
		fmt.Println(ui.Info("Re-validating after fixes..."))
		fmt.Println()
	}

	spinner.Start()
	result, err := runner.Run(mode, pathFilter)
	if err != nil {
		if !scanned {
			spinner.Stop()
		}
		return err
	}

	printSummary(result)

	if validateReport != "" {
		if err := writeReport(result, s.Version); err != nil {
			return err
		}
	}

	if err := logAudit(vaultPath, s, result); err != nil {
		fmt.Println(ui.Warningf("Failed to write audit log: %v", err))
	}

	if result.Issues.Total() > 0 {
		os.Exit(1)
	}
	return nil
}

// printSummary mirrors the terminal summary block: a banner, either a
// success line or per-category counts, and a closing rule.
func printSummary(result *check.Result) {
	rule := strings.Repeat("=", 60)
	fmt.Println("\n" + rule)
	fmt.Println(ui.Header("VALIDATION SUMMARY"))
	fmt.Println(rule + "\n")

	total := result.Issues.Total()
	if total == 0 {
		fmt.Println(ui.Success("No issues found! Vault is compliant with standards."))
	} else {
		fmt.Println(ui.Warningf("Found %d %s:", total, ui.Pluralize("issue", total)))
		fmt.Println()
		counts := result.Issues.Counts()
		for _, cat := range check.Categories {
			if n := counts[string(cat)]; n > 0 {
				fmt.Printf("  - %s: %d\n", cat.Title(), n)
			}
		}
	}

	fmt.Println("\n" + rule + "\n")
}

// writeReport renders the markdown report to a file, or to stdout when the
// target is "-" (through glamour on a terminal).
func writeReport(result *check.Result, settingsVersion string) error {
	report := check.Report(result, settingsVersion)

	if validateReport == "-" {
		display := ui.NewDisplayContext()
		if display.IsTTY {
			if rendered, err := ui.RenderMarkdown(report, display.AvailableWidth(0)); err == nil {
				fmt.Print(rendered)
				return nil
			}
		}
		fmt.Print(report)
		return nil
	}

	if err := atomic.WriteFile(validateReport, strings.NewReader(report)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Println(ui.Successf("Report saved to: %s", ui.FilePath(validateReport)))
	return nil
}

// logAudit appends the run to the JSONL audit log.
func logAudit(vaultPath string, s *settings.Settings, result *check.Result) error {
	var logger *audit.Logger
	switch {
	case validateNoJSONL:
		return nil
	case validateJSONL != "":
		logger = audit.NewFile(validateJSONL)
	default:
		logger = audit.New(vaultPath, true)
	}

	absVault, err := filepath.Abs(vaultPath)
	if err != nil {
		absVault = vaultPath
	}

	entry := audit.Entry{
		VaultPath:       absVault,
		Mode:            string(result.Mode),
		Methodology:     s.Methodology,
		SettingsVersion: s.Version,
		TotalIssues:     result.Issues.Total(),
		IssuesByType:    result.Issues.Counts(),
		IssuesDetail:    result.Issues.Detail(),
		FixesApplied:    result.FixesApplied,
	}
	if err := logger.Log(entry); err != nil {
		return err
	}
	fmt.Println(ui.Successf("Logged to JSONL: %s", ui.FilePath(logger.Path())))
	return nil
}

func init() {
	validateCmd.Flags().BoolVar(&validateFix, "fix", false, "Auto-fix issues")
	validateCmd.Flags().BoolVar(&validateInteractive, "interactive", false, "Ask before fixing each issue category")
	validateCmd.Flags().StringVar(&validatePath, "path", "", "Validate only this vault subdirectory")
	validateCmd.Flags().StringVar(&validateType, "type", "", "Validate only the named note type's folder")
	validateCmd.Flags().StringVar(&validateReport, "report", "", "Save markdown report to FILE (- for stdout)")
	validateCmd.Flags().StringVar(&validateJSONL, "jsonl", "", "Custom path for the JSONL audit log")
	validateCmd.Flags().BoolVar(&validateNoJSONL, "no-jsonl", false, "Disable JSONL audit logging")
	rootCmd.AddCommand(validateCmd)
}
