package check

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vaultlint/vaultlint/internal/dates"
	"github.com/vaultlint/vaultlint/internal/frontmatter"
	"github.com/vaultlint/vaultlint/internal/settings"
)

// All detection regexes run against the frontmatter block only.
var (
	emptyTypeRe     = regexp.MustCompile(`(?m)^type:\s*$`)
	dailyTypeRe     = regexp.MustCompile(`(?m)^type:\s*daily\s*$`)
	dailyFullPathRe = regexp.MustCompile(`(?m)^daily: "\[\[Calendar/daily/`)
	unquotedLineRe  = regexp.MustCompile(`^[a-z_]+: \[\[.*\]\]\s*$`)
	invalidCreatedRe = regexp.MustCompile(`(?m)^created: \[\[`)
	createdDateRe   = regexp.MustCompile(`(?m)^created: (` + dates.Pattern + `)`)
	dailyDateRe     = regexp.MustCompile(`(?m)^daily: "\[\[.*?(` + dates.Pattern + `)`)
)

// Detector runs the per-file checks and records findings in an issue
// collection.
type Detector struct {
	root     string
	settings *settings.Settings
	issues   *Issues

	// ErrWriter receives per-file read failures.
	ErrWriter io.Writer
}

// NewDetector returns a detector for the vault rooted at root.
func NewDetector(root string, s *settings.Settings, issues *Issues) *Detector {
	return &Detector{
		root:      root,
		settings:  s,
		issues:    issues,
		ErrWriter: os.Stderr,
	}
}

// ValidateFile runs every check on one vault-relative file. Files that
// cannot be read are reported to ErrWriter and skipped; a single bad file
// never aborts the scan.
func (d *Detector) ValidateFile(relPath string) {
	content, err := os.ReadFile(filepath.Join(d.root, filepath.FromSlash(relPath)))
	if err != nil {
		fmt.Fprintf(d.ErrWriter, "Error validating %s: %v\n", relPath, err)
		return
	}

	fm, ok := frontmatter.Extract(string(content))
	if !ok {
		if d.settings.Validation.CheckInboxNoFrontmatter && d.settings.IsInboxPath(relPath) {
			return
		}
		d.issues.Add(MissingFrontmatter, relPath)
		return
	}
	fmLines := strings.Split(fm, "\n")

	if emptyTypeRe.MatchString(fm) {
		d.issues.Add(EmptyTypes, relPath)
	}

	inferredType, hasType := d.settings.InferTypeFromPath(relPath)
	required := d.settings.CoreProperties
	if hasType {
		required = d.settings.RequiredFor(inferredType)
	}

	// Daily notes carry their own reduced property set.
	isDaily := dailyTypeRe.MatchString(fm)
	if !isDaily {
		var missing []string
		for _, prop := range required {
			if !hasProperty(fmLines, prop) {
				missing = append(missing, prop)
			}
		}
		if len(missing) > 0 {
			d.issues.Add(MissingProperties,
				fmt.Sprintf("%s (missing: %s)", relPath, strings.Join(missing, ", ")))
		}
	}

	if dailyFullPathRe.MatchString(fm) {
		d.issues.Add(InvalidDailyLinks, relPath)
	}

	for _, line := range fmLines {
		if unquotedLineRe.MatchString(line) && !strings.Contains(line, `"[[`) {
			d.issues.Add(UnquotedWikilinks, relPath)
			break
		}
	}

	if invalidCreatedRe.MatchString(fm) {
		d.issues.Add(InvalidCreated, relPath)
	}

	for _, line := range fmLines {
		if strings.HasPrefix(strings.TrimSpace(line), "title:") {
			d.issues.Add(TitleProperties, relPath)
			break
		}
	}

	created := createdDateRe.FindStringSubmatch(fm)
	daily := dailyDateRe.FindStringSubmatch(fm)
	if created != nil && daily != nil && created[1] != daily[1] {
		d.issues.Add(DateMismatches, relPath)
	}

	if d.settings.Validation.StrictTypes && hasType {
		if nt := d.settings.NoteType(inferredType); nt != nil {
			d.checkTypeProperties(relPath, fmLines, nt, isDaily)
		}
	}
}

// checkTypeProperties enforces the per-type property rules for a file whose
// type is configured in settings. One entry per violated property.
func (d *Detector) checkTypeProperties(relPath string, fmLines []string, nt *settings.NoteTypeConfig, isDaily bool) {
	rules := d.settings.Validation

	for _, prop := range nt.RequiredProperties {
		value, present := propertyValue(fmLines, prop)
		if !present {
			continue // already recorded under missing_properties
		}

		if value == "" || value == `""` {
			if prop == "type" || rules.AllowsEmpty(prop) || (prop == "up" && nt.AllowEmptyUp()) {
				continue
			}
			d.issues.Add(TypePropertyViolations, fmt.Sprintf("%s (%s: empty)", relPath, prop))
			continue
		}

		switch prop {
		case "created":
			if !strings.Contains(value, "[[") && !dates.IsValidDate(value) {
				d.issues.Add(TypePropertyViolations,
					fmt.Sprintf("%s (created: expected YYYY-MM-DD)", relPath))
			}
		case "up", "daily":
			if !strings.Contains(value, "[[") {
				d.issues.Add(TypePropertyViolations,
					fmt.Sprintf("%s (%s: expected wikilink)", relPath, prop))
			}
		}
	}

	if nt.RequireDailyLink() && !isDaily {
		if _, present := propertyValue(fmLines, "daily"); !present {
			d.issues.Add(TypePropertyViolations, relPath+" (daily: required)")
		}
	}

	if rules.CheckUpLinks {
		if expected, ok := d.settings.UpLinkForPath(relPath); ok {
			value, present := propertyValue(fmLines, "up")
			if present && value != "" && value != `""` && !strings.Contains(value, expected) {
				d.issues.Add(TypePropertyViolations,
					fmt.Sprintf("%s (up: expected %s)", relPath, expected))
			}
		}
	}
}

// hasProperty reports whether any frontmatter line declares the property.
func hasProperty(fmLines []string, prop string) bool {
	prefix := prop + ":"
	for _, line := range fmLines {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// propertyValue returns the trimmed value of the first line declaring the
// property.
func propertyValue(fmLines []string, prop string) (string, bool) {
	prefix := prop + ":"
	for _, line := range fmLines {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return "", false
}
