package check

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/vaultlint/vaultlint/internal/dates"
	"github.com/vaultlint/vaultlint/internal/settings"
)

var (
	fixDailyLinkRe   = regexp.MustCompile(`daily: "\[\[Calendar/daily/\d{4}/\d{2}/(` + dates.Pattern + `)\]\]"`)
	fixUnquotedRe    = regexp.MustCompile(`^(\w+): (\[\[.*?\]\])$`)
	fixCreatedLinkRe = regexp.MustCompile(`(?m)^created: \[\[(` + dates.Pattern + `)\]\].*$`)
	fixShortDailyRe  = regexp.MustCompile(`(?m)^daily: "\[\[` + dates.Pattern + `\]\]"`)
)

// Fixer rewrites files recorded in an issue collection. Each Fix method
// covers one category and returns the number of files changed.
type Fixer struct {
	root     string
	settings *settings.Settings
	issues   *Issues

	// ErrWriter receives per-file read and write failures.
	ErrWriter io.Writer

	// OnFix, when set, is called once per rewritten file.
	OnFix func(Category, string)
}

// NewFixer returns a fixer for the vault rooted at root, consuming the
// findings collected by a detector.
func NewFixer(root string, s *settings.Settings, issues *Issues) *Fixer {
	return &Fixer{
		root:      root,
		settings:  s,
		issues:    issues,
		ErrWriter: os.Stderr,
	}
}

type categoryFix struct {
	Category Category
	Enabled  bool
	Run      func() int
}

// categoryFixes lists every fix in execution order with its auto_fix gate.
func (f *Fixer) categoryFixes() []categoryFix {
	cfg := f.settings.AutoFix
	return []categoryFix{
		{EmptyTypes, cfg.EmptyTypes, f.FixEmptyTypes},
		{MissingProperties, cfg.MissingProperties, f.FixMissingProperties},
		{InvalidDailyLinks, cfg.DailyLinks, f.FixDailyLinks},
		{UnquotedWikilinks, cfg.WikilinkQuotes, f.FixWikilinkQuotes},
		{InvalidCreated, cfg.InvalidCreated, f.FixInvalidCreated},
		{TitleProperties, cfg.TitleProperties, f.FixTitleProperties},
		{DateMismatches, cfg.DateMismatches, f.FixDateMismatches},
	}
}

// FixAll runs every enabled fix and returns the total files changed.
func (f *Fixer) FixAll() int {
	total := 0
	for _, cf := range f.categoryFixes() {
		if cf.Enabled {
			total += cf.Run()
		}
	}
	return total
}

// FixEmptyTypes fills empty type properties with the type inferred from the
// file's folder. Files whose folder matches no configured type are left
// alone.
func (f *Fixer) FixEmptyTypes() int {
	fixed := 0
	for _, relPath := range f.issues.Files(EmptyTypes) {
		if f.rewriteFile(EmptyTypes, relPath, func(content string) (string, bool) {
			noteType, ok := f.settings.InferTypeFromPath(relPath)
			if !ok {
				return "", false
			}
			return emptyTypeRe.ReplaceAllString(content, "type: "+noteType), true
		}) {
			fixed++
		}
	}
	return fixed
}

// FixMissingProperties inserts missing property lines right after the
// opening frontmatter delimiter. The type property gets an inferred value
// when one exists; everything else is added with an empty value. Properties
// already present are left alone.
func (f *Fixer) FixMissingProperties() int {
	fixed := 0
	for _, entry := range f.issues.Files(MissingProperties) {
		relPath, missing, ok := parseMissingEntry(entry)
		if !ok {
			continue
		}
		if f.rewriteFile(MissingProperties, relPath, func(content string) (string, bool) {
			lines := strings.Split(content, "\n")
			if strings.TrimSpace(lines[0]) != "---" {
				return "", false
			}
			fmEnd := len(lines)
			for i := 1; i < len(lines); i++ {
				if strings.TrimSpace(lines[i]) == "---" {
					fmEnd = i
					break
				}
			}
			fmLines := lines[1:fmEnd]

			var insert []string
			if slices.Contains(missing, "type") && !hasProperty(fmLines, "type") {
				if noteType, ok := f.settings.InferTypeFromPath(relPath); ok {
					insert = append(insert, "type: "+noteType)
				}
			}
			for _, prop := range missing {
				if prop != "type" && !hasProperty(fmLines, prop) {
					insert = append(insert, prop+":")
				}
			}
			if len(insert) == 0 {
				return "", false
			}

			out := make([]string, 0, len(lines)+len(insert))
			out = append(out, lines[0])
			out = append(out, insert...)
			out = append(out, lines[1:]...)
			return strings.Join(out, "\n"), true
		}) {
			fixed++
		}
	}
	return fixed
}

// parseMissingEntry splits a "path (missing: a, b)" entry back into its
// path and property list.
func parseMissingEntry(entry string) (string, []string, bool) {
	relPath, _, ok := strings.Cut(entry, " (missing:")
	if !ok {
		return "", nil, false
	}
	_, rest, ok := strings.Cut(entry, "(missing: ")
	if !ok {
		return "", nil, false
	}
	props := strings.Split(strings.TrimRight(rest, ")"), ", ")
	return relPath, props, true
}

// FixDailyLinks shortens full-path daily links to bare date links.
func (f *Fixer) FixDailyLinks() int {
	fixed := 0
	for _, relPath := range f.issues.Files(InvalidDailyLinks) {
		if f.rewriteFile(InvalidDailyLinks, relPath, func(content string) (string, bool) {
			return fixDailyLinkRe.ReplaceAllString(content, `daily: "[[${1}]]"`), true
		}) {
			fixed++
		}
	}
	return fixed
}

// FixWikilinkQuotes wraps bare wikilink values in quotes. Only lines inside
// the first frontmatter block are touched.
func (f *Fixer) FixWikilinkQuotes() int {
	fixed := 0
	for _, relPath := range f.issues.Files(UnquotedWikilinks) {
		if f.rewriteFile(UnquotedWikilinks, relPath, func(content string) (string, bool) {
			lines := strings.Split(content, "\n")
			inFM := false
			delims := 0
			for i, line := range lines {
				if strings.TrimSpace(line) == "---" {
					delims++
					inFM = delims == 1
					continue
				}
				if inFM {
					lines[i] = fixUnquotedRe.ReplaceAllString(line, `${1}: "${2}"`)
				}
			}
			return strings.Join(lines, "\n"), true
		}) {
			fixed++
		}
	}
	return fixed
}

// FixInvalidCreated rewrites wikilink-formatted created properties to the
// plain date, discarding any trailing text on the line.
func (f *Fixer) FixInvalidCreated() int {
	fixed := 0
	for _, relPath := range f.issues.Files(InvalidCreated) {
		if f.rewriteFile(InvalidCreated, relPath, func(content string) (string, bool) {
			return fixCreatedLinkRe.ReplaceAllString(content, "created: ${1}"), true
		}) {
			fixed++
		}
	}
	return fixed
}

// FixTitleProperties deletes title lines inside the first frontmatter
// block.
func (f *Fixer) FixTitleProperties() int {
	fixed := 0
	for _, relPath := range f.issues.Files(TitleProperties) {
		if f.rewriteFile(TitleProperties, relPath, func(content string) (string, bool) {
			lines := strings.Split(content, "\n")
			kept := make([]string, 0, len(lines))
			inFM := false
			delims := 0
			for _, line := range lines {
				if strings.TrimSpace(line) == "---" {
					delims++
					inFM = delims == 1
					kept = append(kept, line)
					continue
				}
				if inFM && strings.HasPrefix(strings.TrimSpace(line), "title:") {
					continue
				}
				kept = append(kept, line)
			}
			return strings.Join(kept, "\n"), true
		}) {
			fixed++
		}
	}
	return fixed
}

// FixDateMismatches aligns short-form daily links with the created date.
// Files without a plain created date are left alone.
func (f *Fixer) FixDateMismatches() int {
	fixed := 0
	for _, relPath := range f.issues.Files(DateMismatches) {
		if f.rewriteFile(DateMismatches, relPath, func(content string) (string, bool) {
			m := createdDateRe.FindStringSubmatch(content)
			if m == nil {
				return "", false
			}
			return fixShortDailyRe.ReplaceAllLiteralString(content, `daily: "[[`+m[1]+`]]"`), true
		}) {
			fixed++
		}
	}
	return fixed
}

// rewriteFile reads one file, applies transform, and writes the result back
// when it differs. Read and write failures are reported and treated as not
// fixed.
func (f *Fixer) rewriteFile(cat Category, relPath string, transform func(string) (string, bool)) bool {
	fullPath := filepath.Join(f.root, filepath.FromSlash(relPath))
	raw, err := os.ReadFile(fullPath)
	if err != nil {
		fmt.Fprintf(f.ErrWriter, "Error fixing %s: %v\n", relPath, err)
		return false
	}
	content := string(raw)

	fixedContent, ok := transform(content)
	if !ok || fixedContent == content {
		return false
	}

	if err := atomic.WriteFile(fullPath, strings.NewReader(fixedContent)); err != nil {
		fmt.Fprintf(f.ErrWriter, "Error fixing %s: %v\n", relPath, err)
		return false
	}
	if f.OnFix != nil {
		f.OnFix(cat, relPath)
	}
	return true
}
