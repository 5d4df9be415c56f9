package check

import (
	"fmt"
	"io"
	"os"

	"github.com/vaultlint/vaultlint/internal/settings"
	"github.com/vaultlint/vaultlint/internal/vault"
)

// Mode selects what a validation run does with the issues it finds.
type Mode string

const (
	// ModeReport detects issues without touching any file.
	ModeReport Mode = "report"

	// ModeAuto applies every enabled fix.
	ModeAuto Mode = "auto"

	// ModeInteractive asks per category before fixing.
	ModeInteractive Mode = "interactive"
)

// Result is the outcome of a validation run. After a fixing run, Files,
// Skipped, and Issues describe the re-validation pass, so Issues holds
// exactly what remains wrong.
type Result struct {
	Files        int
	Skipped      int
	Issues       *Issues
	FixesApplied int
	Mode         Mode
}

// Runner wires the scanner, detector, and fixer into a full validation
// run.
type Runner struct {
	root     string
	settings *settings.Settings

	// Confirm answers interactive-mode prompts. A nil Confirm declines
	// everything.
	Confirm func(prompt string) bool

	// OnFix is forwarded to the fixer.
	OnFix func(Category, string)

	// OnScan is called after each scan pass with the file counts, before
	// validation starts.
	OnScan func(files, skipped int)

	// OnFixes is called before fixing starts, OnRevalidate with the fix
	// count before the second validation pass.
	OnFixes      func()
	OnRevalidate func(fixesApplied int)

	// ErrWriter receives per-file failures from the detector and fixer.
	ErrWriter io.Writer
}

// NewRunner returns a runner for the vault rooted at root.
func NewRunner(root string, s *settings.Settings) *Runner {
	return &Runner{
		root:      root,
		settings:  s,
		ErrWriter: os.Stderr,
	}
}

// Run validates the vault, optionally fixes what it found, and
// re-validates after fixing. pathFilter restricts the scan to one vault
// subdirectory; empty means the whole vault.
func (r *Runner) Run(mode Mode, pathFilter string) (*Result, error) {
	switch mode {
	case ModeReport, ModeAuto, ModeInteractive:
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	scanner := vault.NewScanner(r.root, r.settings)
	issues := NewIssues()
	detector := NewDetector(r.root, r.settings, issues)
	detector.ErrWriter = r.ErrWriter

	files, skipped, err := scanner.Scan(pathFilter)
	if err != nil {
		return nil, err
	}
	if r.OnScan != nil {
		r.OnScan(len(files), skipped)
	}
	for _, file := range files {
		detector.ValidateFile(file)
	}

	result := &Result{
		Files:   len(files),
		Skipped: skipped,
		Issues:  issues,
		Mode:    mode,
	}
	if mode == ModeReport || issues.Total() == 0 {
		return result, nil
	}

	fixer := NewFixer(r.root, r.settings, issues)
	fixer.ErrWriter = r.ErrWriter
	fixer.OnFix = r.OnFix

	if r.OnFixes != nil {
		r.OnFixes()
	}
	if mode == ModeAuto {
		result.FixesApplied = fixer.FixAll()
	} else {
		for _, cf := range fixer.categoryFixes() {
			if !cf.Enabled {
				continue
			}
			n := len(issues.Files(cf.Category))
			if n == 0 {
				continue
			}
			if r.Confirm == nil || !r.Confirm(fmt.Sprintf("Fix %s (%d files)?", cf.Category.Title(), n)) {
				continue
			}
			result.FixesApplied += cf.Run()
		}
	}

	// Re-validate so the result reflects the vault as it now stands.
	if r.OnRevalidate != nil {
		r.OnRevalidate(result.FixesApplied)
	}
	issues.Reset()
	files, skipped, err = scanner.Scan(pathFilter)
	if err != nil {
		return nil, err
	}
	if r.OnScan != nil {
		r.OnScan(len(files), skipped)
	}
	for _, file := range files {
		detector.ValidateFile(file)
	}
	result.Files = len(files)
	result.Skipped = skipped

	return result, nil
}
