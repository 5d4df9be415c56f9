// Package settings loads, models, and mutates a vault's
// .vaultlint/settings.yaml.
//
// The parsed Settings is the single source of truth for validation: core
// properties, note types with their computed required lists, validation
// rules, auto-fix gates, and exclusion config. The raw document is kept
// alongside for pass-through access (settings set/diff).
package settings

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// StateDir is the vault-relative directory holding vaultlint state.
	StateDir = ".vaultlint"

	// FileName is the settings file name inside StateDir.
	FileName = "settings.yaml"
)

// Settings is a vault's parsed configuration.
type Settings struct {
	Version        string
	Methodology    string
	CoreProperties []string
	NoteTypes      map[string]*NoteTypeConfig
	Validation     ValidationRules
	AutoFix        AutoFixConfig
	Exclude        ExcludeConfig

	// FolderStructure maps roles like "inbox" to vault folders.
	FolderStructure map[string]string

	// UpLinks maps folder fragments to the expected up: wikilink.
	UpLinks map[string]string

	// Formats and Logging are passed through unparsed.
	Formats map[string]any
	Logging map[string]any

	// Raw is the full decoded document.
	Raw map[string]any

	typeOrder   []string
	upLinkOrder []string
}

// NoteTypeConfig is one configured note type.
type NoteTypeConfig struct {
	Name        string
	Description string
	Icon        string

	// FolderHints are path fragments that identify notes of this type.
	FolderHints []string

	// RequiredProperties is the computed list after core inheritance.
	RequiredProperties []string
	OptionalProperties []string

	// Validation holds per-type flags such as allow_empty_up.
	Validation map[string]any

	InheritCore bool
}

// AllowEmptyUp reports whether this type tolerates an empty up property.
func (c *NoteTypeConfig) AllowEmptyUp() bool {
	v, _ := c.Validation["allow_empty_up"].(bool)
	return v
}

// RequireDailyLink reports whether notes of this type must carry a daily
// property.
func (c *NoteTypeConfig) RequireDailyLink() bool {
	v, _ := c.Validation["require_daily_link"].(bool)
	return v
}

// ValidationRules are the vault-wide validation switches.
type ValidationRules struct {
	RequireCoreProperties   bool
	AllowEmptyProperties    []string
	StrictTypes             bool
	CheckTemplates          bool
	CheckUpLinks            bool
	CheckInboxNoFrontmatter bool
}

// AllowsEmpty reports whether prop may be present with an empty value.
func (r ValidationRules) AllowsEmpty(prop string) bool {
	return slices.Contains(r.AllowEmptyProperties, prop)
}

// AutoFixConfig gates which issue categories the fixer may rewrite.
type AutoFixConfig struct {
	EmptyTypes        bool
	MissingProperties bool
	DailyLinks        bool
	WikilinkQuotes    bool
	InvalidCreated    bool
	TitleProperties   bool
	DateMismatches    bool

	// FolderRenames is parsed for compatibility; no fixer consumes it.
	FolderRenames bool
}

// ExcludeConfig lists what the scanner skips.
type ExcludeConfig struct {
	Paths    []string
	Files    []string
	Patterns []string
}

// rootSystemFiles are vault-root documentation files exempt from note
// validation.
var rootSystemFiles = map[string]struct{}{
	"AGENTS.md": {},
	"CLAUDE.md": {},
	"README.md": {},
	"Home.md":   {},
}

// methodologyFolders decide whether a system file counts as root-level: a
// path containing none of these fragments is treated as the vault root.
var methodologyFolders = []string{
	"Atlas/",
	"Calendar/",
	"Efforts/",
	"Projects/",
	"Areas/",
	"Resources/",
	"Archives/",
	"Notes/",
	"Daily/",
	"Zettel/",
	"References/",
	"Literature/",
}

// TypeNames returns the configured note type names in declaration order.
func (s *Settings) TypeNames() []string {
	return s.typeOrder
}

// NoteType returns the config for a note type, or nil.
func (s *Settings) NoteType(name string) *NoteTypeConfig {
	return s.NoteTypes[name]
}

// RequiredFor returns the required properties for a note type, falling back
// to the core properties for unknown types.
func (s *Settings) RequiredFor(typeName string) []string {
	if nt, ok := s.NoteTypes[typeName]; ok {
		return nt.RequiredProperties
	}
	return s.CoreProperties
}

// PropertiesFor returns required plus optional properties for a note type.
func (s *Settings) PropertiesFor(typeName string) []string {
	nt, ok := s.NoteTypes[typeName]
	if !ok {
		return append([]string(nil), s.CoreProperties...)
	}
	props := append([]string(nil), nt.RequiredProperties...)
	return append(props, nt.OptionalProperties...)
}

// InferTypeFromPath infers a note type from folder hints. Declaration order
// of note_types decides when hints overlap.
func (s *Settings) InferTypeFromPath(relPath string) (string, bool) {
	for _, name := range s.typeOrder {
		for _, hint := range s.NoteTypes[name].FolderHints {
			if strings.Contains(relPath, hint) {
				return name, true
			}
		}
	}
	return "", false
}

// UpLinkForPath returns the expected up: link for a path, matching up_links
// entries in declaration order.
func (s *Settings) UpLinkForPath(relPath string) (string, bool) {
	for _, folder := range s.upLinkOrder {
		if strings.Contains(relPath, folder) {
			return s.UpLinks[folder], true
		}
	}
	return "", false
}

// InboxPath returns folder_structure.inbox, defaulting to "+/".
func (s *Settings) InboxPath() string {
	if p, ok := s.FolderStructure["inbox"]; ok {
		return p
	}
	return "+/"
}

// IsInboxPath reports whether the path lies under the inbox folder.
func (s *Settings) IsInboxPath(relPath string) bool {
	return strings.Contains(relPath, s.InboxPath())
}

// ShouldExclude reports whether a vault-relative path is excluded from
// validation.
func (s *Settings) ShouldExclude(relPath string) bool {
	for _, excluded := range s.Exclude.Paths {
		if strings.Contains(relPath, excluded) {
			return true
		}
	}

	name := path.Base(relPath)
	for _, f := range s.Exclude.Files {
		if name == f {
			return true
		}
	}
	for _, pattern := range s.Exclude.Patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}

	// Root-level system docs don't follow note type rules.
	if _, ok := rootSystemFiles[name]; ok {
		for _, folder := range methodologyFolders {
			if strings.Contains(relPath, folder) {
				return false
			}
		}
		return true
	}

	return false
}

// Validate checks the settings structure. It returns human-readable
// problems; an empty slice means the settings are valid.
func (s *Settings) Validate() []string {
	var problems []string

	if s.Version == "" {
		problems = append(problems, "Missing 'version' in settings")
	}
	if len(s.CoreProperties) == 0 {
		problems = append(problems, "Missing or empty 'core_properties'")
	}

	for _, name := range s.typeOrder {
		nt := s.NoteTypes[name]
		if len(nt.RequiredProperties) == 0 {
			problems = append(problems, fmt.Sprintf("Note type '%s' has no required properties", name))
		}
		if nt.InheritCore {
			var missing []string
			for _, prop := range s.CoreProperties {
				if !slices.Contains(nt.RequiredProperties, prop) {
					missing = append(missing, prop)
				}
			}
			if len(missing) > 0 {
				problems = append(problems, fmt.Sprintf(
					"Note type '%s' has inherit_core=true but missing core properties: %v",
					name, missing))
			}
		}
	}

	return problems
}
