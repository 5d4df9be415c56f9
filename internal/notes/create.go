// Package notes creates Markdown notes with frontmatter derived from vault settings.
package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vaultlint/vaultlint/internal/dates"
	"github.com/vaultlint/vaultlint/internal/paths"
	"github.com/vaultlint/vaultlint/internal/settings"
	"github.com/vaultlint/vaultlint/internal/slugs"
	"github.com/vaultlint/vaultlint/internal/template"
)

// defaultScaffold is the note body written below the frontmatter.
const defaultScaffold = "# {{title}}\n"

// CreateOptions configures note creation behavior.
type CreateOptions struct {
	// VaultPath is the root path of the vault.
	VaultPath string

	// TypeName is the note type (must exist in the vault settings).
	TypeName string

	// Title is the display title for the note. For the daily type it is the
	// note date (YYYY-MM-DD); empty means today.
	Title string

	// TargetDir is a vault-relative directory overriding the type's first
	// folder hint.
	TargetDir string

	// Fields are frontmatter values from --field flags. They override the
	// generated values for required properties; unknown keys are appended.
	Fields map[string]string

	// Settings supplies the note types, required properties, and up-link
	// expectations.
	Settings *settings.Settings
}

// CreateResult contains information about the created note.
type CreateResult struct {
	// FilePath is the absolute path to the created file.
	FilePath string

	// RelativePath is the path relative to the vault, in slash form.
	RelativePath string

	// Slug is the slugified filename stem.
	Slug string
}

// Create creates a new note file with the given options.
func Create(opts CreateOptions) (*CreateResult, error) {
	if opts.VaultPath == "" {
		return nil, fmt.Errorf("vault path is required")
	}
	if opts.TypeName == "" {
		return nil, fmt.Errorf("type name is required")
	}
	if opts.Settings == nil {
		return nil, fmt.Errorf("settings are required")
	}

	noteType := opts.Settings.NoteType(opts.TypeName)
	if noteType == nil {
		return nil, fmt.Errorf("unknown note type %q", opts.TypeName)
	}

	isDaily := opts.TypeName == "daily"

	var vars *template.Variables
	if isDaily {
		date, err := dailyDate(opts.Title)
		if err != nil {
			return nil, err
		}
		vars = template.NewDailyVariables(date)
	} else {
		if opts.Title == "" {
			return nil, fmt.Errorf("title is required")
		}
		vars = template.NewVariables(opts.Title, opts.TypeName, slugs.ComponentSlug(opts.Title), opts.Fields)
	}

	dir := opts.TargetDir
	if dir == "" && len(noteType.FolderHints) > 0 {
		dir = noteType.FolderHints[0]
	}
	dir = paths.NormalizeDirRoot(paths.NormalizeRelPath(dir))

	relPath := dir + vars.Slug + ".md"
	if isDaily {
		// Daily notes nest under year/month subfolders.
		relPath = dir + vars.Year + "/" + vars.Month + "/" + vars.Slug + ".md"
	}

	filePath := filepath.Join(opts.VaultPath, filepath.FromSlash(relPath))
	if err := paths.ValidateWithinVault(opts.VaultPath, filePath); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filePath); err == nil {
		return nil, fmt.Errorf("note already exists: %s", relPath)
	}

	content := buildContent(opts, noteType, vars, relPath, isDaily)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &CreateResult{
		FilePath:     filePath,
		RelativePath: relPath,
		Slug:         vars.Slug,
	}, nil
}

// dailyDate parses the daily note date, defaulting to today.
func dailyDate(title string) (time.Time, error) {
	if title == "" {
		return time.Now(), nil
	}
	date, err := time.Parse(dates.DateLayout, title)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", title)
	}
	return date, nil
}

// buildContent assembles the frontmatter and scaffold body for a new note.
func buildContent(opts CreateOptions, noteType *settings.NoteTypeConfig, vars *template.Variables, relPath string, isDaily bool) string {
	required := append([]string(nil), opts.Settings.RequiredFor(opts.TypeName)...)
	if noteType.RequireDailyLink() && !containsProp(required, "daily") {
		required = append(required, "daily")
	}

	written := make(map[string]bool, len(required))

	var content strings.Builder
	content.WriteString("---\n")
	for _, prop := range required {
		if written[prop] {
			continue
		}
		written[prop] = true
		content.WriteString(formatProperty(prop, propertyValue(opts, prop, vars, relPath, isDaily)))
	}

	// Extra --field keys beyond the required set, in stable order.
	var extras []string
	for name := range opts.Fields {
		if !written[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		content.WriteString(formatProperty(name, opts.Fields[name]))
	}

	content.WriteString("---\n\n")
	content.WriteString(template.Apply(defaultScaffold, vars))
	return content.String()
}

// propertyValue resolves the value for a required property. Field overrides
// win; otherwise type, created, daily, and expected up-links are generated
// and everything else is left as an empty placeholder.
func propertyValue(opts CreateOptions, prop string, vars *template.Variables, relPath string, isDaily bool) string {
	if v, ok := opts.Fields[prop]; ok {
		return v
	}
	switch prop {
	case "type":
		return vars.Type
	case "created":
		return vars.Date
	case "daily":
		if isDaily {
			return ""
		}
		return "[[" + time.Now().Format(dates.DateLayout) + "]]"
	case "up":
		if expected, ok := opts.Settings.UpLinkForPath(relPath); ok {
			return expected
		}
	}
	return ""
}

// formatProperty renders one frontmatter line. Wikilink values are quoted so
// Obsidian does not strip them when editing properties.
func formatProperty(name, value string) string {
	if value == "" {
		return name + ":\n"
	}
	if strings.HasPrefix(value, "[[") || strings.ContainsAny(value, ":\"'") {
		return fmt.Sprintf("%s: \"%s\"\n", name, strings.ReplaceAll(value, "\"", "\\\""))
	}
	return fmt.Sprintf("%s: %s\n", name, value)
}

func containsProp(props []string, name string) bool {
	for _, p := range props {
		if p == name {
			return true
		}
	}
	return false
}
