package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/vaultlint/vaultlint/internal/methodology"
)

// ErrNotFound indicates the vault has no settings file.
var ErrNotFound = errors.New("settings file not found")

// Path returns the settings file path for a vault.
func Path(vaultPath string) string {
	return filepath.Join(vaultPath, StateDir, FileName)
}

// Exists reports whether the vault has a settings file.
func Exists(vaultPath string) bool {
	_, err := os.Stat(Path(vaultPath))
	return err == nil
}

// Load reads and parses the vault's settings.
func Load(vaultPath string) (*Settings, error) {
	info, err := os.Stat(vaultPath)
	if err != nil {
		return nil, fmt.Errorf("vault path does not exist: %s", vaultPath)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault path is not a directory: %s", vaultPath)
	}

	settingsPath := Path(vaultPath)
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, settingsPath)
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", settingsPath, err)
	}
	return s, nil
}

// Parse decodes a settings document.
func Parse(data []byte) (*Settings, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML in settings file: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("settings file is empty")
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML in settings file: %w", err)
	}

	return doc.toSettings(raw), nil
}

// CreateDefault writes a commented settings file seeded from the catalog
// entry for the given methodology (the generic template for custom and
// unknown names), creating .vaultlint/ and .vaultlint/logs/ on the way. An
// existing settings file is left untouched. Returns the settings path.
func CreateDefault(vaultPath, methodologyName string, catalog *methodology.Catalog) (string, error) {
	if err := os.MkdirAll(filepath.Join(vaultPath, StateDir, "logs"), 0755); err != nil {
		return "", fmt.Errorf("creating state directory: %w", err)
	}

	settingsPath := Path(vaultPath)
	if _, err := os.Stat(settingsPath); err == nil {
		return settingsPath, nil
	}

	content, err := catalog.SettingsTemplate(methodologyName)
	if err != nil {
		return "", err
	}
	if err := atomic.WriteFile(settingsPath, strings.NewReader(content)); err != nil {
		return "", fmt.Errorf("writing settings: %w", err)
	}
	return settingsPath, nil
}

// document mirrors the YAML wire format of settings.yaml.
type document struct {
	Version         string            `yaml:"version"`
	Methodology     string            `yaml:"methodology"`
	CoreProperties  corePropertiesDoc `yaml:"core_properties"`
	NoteTypes       noteTypesDoc      `yaml:"note_types"`
	Validation      validationDoc     `yaml:"validation"`
	AutoFix         autoFixDoc        `yaml:"auto_fix"`
	Exclude         excludeDoc        `yaml:"exclude"`
	FolderStructure map[string]string `yaml:"folder_structure"`
	UpLinks         upLinksDoc        `yaml:"up_links"`
	Formats         map[string]any    `yaml:"formats"`
	Logging         map[string]any    `yaml:"logging"`
}

// corePropertiesDoc accepts both wire formats:
//
//	core_properties: [type, up, created]
//	core_properties: {all: [type, up], mandatory: [...], optional: [...]}
//
// The mapping form keeps only the 'all' key.
type corePropertiesDoc struct {
	props []string
}

func (d *corePropertiesDoc) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		return value.Decode(&d.props)
	case yaml.MappingNode:
		var m struct {
			All []string `yaml:"all"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		d.props = m.All
		return nil
	default:
		return fmt.Errorf("core_properties must be a list or a mapping with an 'all' key")
	}
}

type noteTypeDoc struct {
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	FolderHints []string `yaml:"folder_hints"`
	InheritCore *bool    `yaml:"inherit_core"`
	Properties  struct {
		// Required is the legacy full-list form.
		Required           []string `yaml:"required"`
		AdditionalRequired []string `yaml:"additional_required"`
		Optional           []string `yaml:"optional"`
	} `yaml:"properties"`
	Validation map[string]any `yaml:"validation"`
}

// noteTypesDoc preserves the declaration order of the note_types mapping.
type noteTypesDoc struct {
	byName map[string]*noteTypeDoc
	order  []string
}

func (d *noteTypesDoc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("note_types must be a mapping")
	}
	d.byName = make(map[string]*noteTypeDoc)
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		var nt noteTypeDoc
		if err := value.Content[i+1].Decode(&nt); err != nil {
			return err
		}
		d.byName[name] = &nt
		d.order = append(d.order, name)
	}
	return nil
}

// upLinksDoc preserves the declaration order of the up_links mapping.
type upLinksDoc struct {
	byFolder map[string]string
	order    []string
}

func (d *upLinksDoc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("up_links must be a mapping")
	}
	d.byFolder = make(map[string]string)
	for i := 0; i+1 < len(value.Content); i += 2 {
		folder := value.Content[i].Value
		var link string
		if err := value.Content[i+1].Decode(&link); err != nil {
			return err
		}
		d.byFolder[folder] = link
		d.order = append(d.order, folder)
	}
	return nil
}

type validationDoc struct {
	RequireCoreProperties   *bool    `yaml:"require_core_properties"`
	AllowEmptyProperties    []string `yaml:"allow_empty_properties"`
	StrictTypes             *bool    `yaml:"strict_types"`
	CheckTemplates          *bool    `yaml:"check_templates"`
	CheckUpLinks            *bool    `yaml:"check_up_links"`
	CheckInboxNoFrontmatter *bool    `yaml:"check_inbox_no_frontmatter"`
}

type autoFixDoc struct {
	EmptyTypes        *bool `yaml:"empty_types"`
	MissingProperties *bool `yaml:"missing_properties"`
	DailyLinks        *bool `yaml:"daily_links"`
	WikilinkQuotes    *bool `yaml:"wikilink_quotes"`
	InvalidCreated    *bool `yaml:"invalid_created"`
	TitleProperties   *bool `yaml:"title_properties"`
	DateMismatches    *bool `yaml:"date_mismatches"`
	FolderRenames     *bool `yaml:"folder_renames"`
}

type excludeDoc struct {
	Paths    []string `yaml:"paths"`
	Files    []string `yaml:"files"`
	Patterns []string `yaml:"patterns"`
}

func (d *document) toSettings(raw map[string]any) *Settings {
	core := d.CoreProperties.props

	s := &Settings{
		Version:         d.Version,
		Methodology:     d.Methodology,
		CoreProperties:  core,
		NoteTypes:       make(map[string]*NoteTypeConfig),
		FolderStructure: d.FolderStructure,
		UpLinks:         d.UpLinks.byFolder,
		Formats:         d.Formats,
		Logging:         d.Logging,
		Raw:             raw,
		typeOrder:       d.NoteTypes.order,
		upLinkOrder:     d.UpLinks.order,
	}

	// Defaults apply only when the key is absent, not when it is empty.
	if _, ok := raw["version"]; !ok {
		s.Version = "1.0"
	}
	if _, ok := raw["methodology"]; !ok {
		s.Methodology = methodology.Custom
	}

	for _, name := range d.NoteTypes.order {
		nt := d.NoteTypes.byName[name]
		inherit := boolOr(nt.InheritCore, true)

		var required []string
		if inherit {
			legacy := nt.Properties.Required
			additional := nt.Properties.AdditionalRequired
			if len(legacy) > 0 && len(additional) == 0 {
				// Legacy documents carry the full list in 'required'.
				required = legacy
			} else {
				required = append(append([]string{}, core...), additional...)
			}
		} else {
			required = nt.Properties.Required
		}

		s.NoteTypes[name] = &NoteTypeConfig{
			Name:               name,
			Description:        nt.Description,
			Icon:               nt.Icon,
			FolderHints:        nt.FolderHints,
			RequiredProperties: required,
			OptionalProperties: nt.Properties.Optional,
			Validation:         nt.Validation,
			InheritCore:        inherit,
		}
	}

	s.Validation = ValidationRules{
		RequireCoreProperties:   boolOr(d.Validation.RequireCoreProperties, true),
		AllowEmptyProperties:    d.Validation.AllowEmptyProperties,
		StrictTypes:             boolOr(d.Validation.StrictTypes, true),
		CheckTemplates:          boolOr(d.Validation.CheckTemplates, true),
		CheckUpLinks:            boolOr(d.Validation.CheckUpLinks, true),
		CheckInboxNoFrontmatter: boolOr(d.Validation.CheckInboxNoFrontmatter, true),
	}

	s.AutoFix = AutoFixConfig{
		EmptyTypes:        boolOr(d.AutoFix.EmptyTypes, true),
		MissingProperties: boolOr(d.AutoFix.MissingProperties, true),
		DailyLinks:        boolOr(d.AutoFix.DailyLinks, true),
		WikilinkQuotes:    boolOr(d.AutoFix.WikilinkQuotes, true),
		InvalidCreated:    boolOr(d.AutoFix.InvalidCreated, true),
		TitleProperties:   boolOr(d.AutoFix.TitleProperties, true),
		DateMismatches:    boolOr(d.AutoFix.DateMismatches, true),
		FolderRenames:     boolOr(d.AutoFix.FolderRenames, false),
	}

	s.Exclude = ExcludeConfig{
		Paths:    d.Exclude.Paths,
		Files:    d.Exclude.Files,
		Patterns: d.Exclude.Patterns,
	}

	if s.FolderStructure == nil {
		s.FolderStructure = make(map[string]string)
	}
	if s.UpLinks == nil {
		s.UpLinks = make(map[string]string)
	}

	return s
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
