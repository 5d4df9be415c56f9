// Package methodology defines the PKM methodologies vaultlint knows how to
// scaffold and validate against.
//
// A Catalog is an explicit repository of methodology definitions: construct
// one with New (embedded presets) or NewFromDir (a user-supplied directory)
// and pass it to whatever needs methodology data. Definitions are cached per
// catalog instance.
package methodology

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Custom is the methodology name for vaults that opt out of a preset.
// It is a valid settings value but never a catalog entry.
const Custom = "custom"

// NotFoundError is returned when a requested methodology does not exist.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("methodology '%s' not found. Available: %s",
		e.Name, strings.Join(e.Available, ", "))
}

// ParseError reports a malformed methodology definition.
type ParseError struct {
	Name   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("methodology '%s': %s", e.Name, e.Reason)
}

// NoteType is one note type a methodology defines.
type NoteType struct {
	Name        string
	Description string
	Icon        string

	// FolderHints are path fragments that identify notes of this type.
	FolderHints []string

	// AdditionalRequired extends the methodology's core properties.
	AdditionalRequired []string
	Optional           []string

	// Validation holds per-type validation flags such as allow_empty_up.
	Validation map[string]any
}

// Methodology is a complete methodology definition.
type Methodology struct {
	// Key is the catalog name, e.g. "lyt-ace".
	Key string

	// Name is the display name, e.g. "LYT + ACE Framework".
	Name        string
	Description string

	// Folders are created (relative to the vault root) by vault init.
	Folders []string

	CoreProperties  []string
	NoteTypes       map[string]*NoteType
	FolderStructure map[string]string
	UpLinks         map[string]string

	typeOrder   []string
	upLinkOrder []string
}

// TypeNames returns note type names in definition order.
func (m *Methodology) TypeNames() []string {
	return m.typeOrder
}

// OrderedTypes returns the note types in definition order.
func (m *Methodology) OrderedTypes() []*NoteType {
	types := make([]*NoteType, 0, len(m.typeOrder))
	for _, name := range m.typeOrder {
		types = append(types, m.NoteTypes[name])
	}
	return types
}

// UpLinkFolders returns the up_links folder keys in definition order.
func (m *Methodology) UpLinkFolders() []string {
	return m.upLinkOrder
}

// TypeRule maps a folder prefix to the note type expected there.
type TypeRule struct {
	Prefix string
	Type   string
}

// TypeRules derives folder-to-type rules from the note types' folder hints,
// in definition order.
func (m *Methodology) TypeRules() []TypeRule {
	var rules []TypeRule
	for _, name := range m.typeOrder {
		for _, hint := range m.NoteTypes[name].FolderHints {
			rules = append(rules, TypeRule{Prefix: hint, Type: name})
		}
	}
	return rules
}

// Catalog loads methodology definitions from a file system.
type Catalog struct {
	fsys  fs.FS
	root  string
	cache map[string]*Methodology
}

// New returns a catalog backed by the embedded presets.
func New() *Catalog {
	return &Catalog{
		fsys:  presetFS,
		root:  "presets",
		cache: make(map[string]*Methodology),
	}
}

// NewFromDir returns a catalog reading definitions from a directory of
// <name>.yaml files.
func NewFromDir(dir string) *Catalog {
	return &Catalog{
		fsys:  os.DirFS(dir),
		root:  ".",
		cache: make(map[string]*Methodology),
	}
}

// Names returns the available methodology names, sorted.
func (c *Catalog) Names() []string {
	matches, err := fs.Glob(c.fsys, path.Join(c.root, "*.yaml"))
	if err != nil {
		return nil
	}
	var names []string
	for _, match := range matches {
		stem := strings.TrimSuffix(path.Base(match), ".yaml")
		if stem == "README" {
			continue
		}
		names = append(names, stem)
	}
	sort.Strings(names)
	return names
}

// Load returns the named methodology, reading and validating its definition
// on first use.
func (c *Catalog) Load(name string) (*Methodology, error) {
	if m, ok := c.cache[name]; ok {
		return m, nil
	}

	data, err := fs.ReadFile(c.fsys, path.Join(c.root, name+".yaml"))
	if err != nil {
		return nil, &NotFoundError{Name: name, Available: c.Names()}
	}

	m, err := parse(name, data)
	if err != nil {
		return nil, err
	}

	c.cache[name] = m
	return m, nil
}

// LoadAll loads every methodology in the catalog. The returned map holds
// each definition that loaded; err aggregates per-file failures so callers
// can surface them as warnings.
func (c *Catalog) LoadAll() (map[string]*Methodology, error) {
	result := make(map[string]*Methodology)
	var errs []error
	for _, name := range c.Names() {
		m, err := c.Load(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result[name] = m
	}
	return result, errors.Join(errs...)
}

// methodologyDoc mirrors the YAML wire format of a definition file.
type methodologyDoc struct {
	Name            string            `yaml:"name"`
	Description     string            `yaml:"description"`
	Folders         []string          `yaml:"folders"`
	CoreProperties  []string          `yaml:"core_properties"`
	NoteTypes       noteTypesDoc      `yaml:"note_types"`
	FolderStructure map[string]string `yaml:"folder_structure"`
	UpLinks         upLinksDoc        `yaml:"up_links"`
}

type noteTypeDoc struct {
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	FolderHints []string `yaml:"folder_hints"`
	Properties  struct {
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

func parse(name string, data []byte) (*Methodology, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Name: name, Reason: fmt.Sprintf("invalid YAML: %v", err)}
	}
	if len(raw) == 0 {
		return nil, &ParseError{Name: name, Reason: "empty definition"}
	}

	if missing := missingKeys(raw, "name", "description", "folders", "core_properties", "note_types"); len(missing) > 0 {
		return nil, &ParseError{Name: name, Reason: fmt.Sprintf("missing required fields: %v", missing)}
	}

	var doc methodologyDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Name: name, Reason: fmt.Sprintf("invalid YAML: %v", err)}
	}

	// Required-field checks run on the raw document: typed decoding cannot
	// distinguish an absent key from an empty value.
	rawTypes, _ := raw["note_types"].(map[string]any)
	for _, ntName := range doc.NoteTypes.order {
		rawNT, _ := rawTypes[ntName].(map[string]any)
		if missing := missingKeys(rawNT, "description", "folder_hints", "properties", "validation", "icon"); len(missing) > 0 {
			return nil, &ParseError{
				Name:   name,
				Reason: fmt.Sprintf("note type '%s' missing: %v", ntName, missing),
			}
		}
		rawProps, _ := rawNT["properties"].(map[string]any)
		for _, key := range []string{"additional_required", "optional"} {
			if _, ok := rawProps[key]; !ok {
				return nil, &ParseError{
					Name:   name,
					Reason: fmt.Sprintf("note type '%s' missing properties.%s", ntName, key),
				}
			}
		}
	}

	m := &Methodology{
		Key:             name,
		Name:            doc.Name,
		Description:     doc.Description,
		Folders:         doc.Folders,
		CoreProperties:  doc.CoreProperties,
		NoteTypes:       make(map[string]*NoteType),
		FolderStructure: doc.FolderStructure,
		UpLinks:         doc.UpLinks.byFolder,
		typeOrder:       doc.NoteTypes.order,
		upLinkOrder:     doc.UpLinks.order,
	}
	if m.FolderStructure == nil {
		m.FolderStructure = make(map[string]string)
	}
	if m.UpLinks == nil {
		m.UpLinks = make(map[string]string)
	}

	for _, ntName := range doc.NoteTypes.order {
		nt := doc.NoteTypes.byName[ntName]
		icon := nt.Icon
		if icon == "" {
			icon = "file"
		}
		m.NoteTypes[ntName] = &NoteType{
			Name:               ntName,
			Description:        nt.Description,
			Icon:               icon,
			FolderHints:        nt.FolderHints,
			AdditionalRequired: nt.Properties.AdditionalRequired,
			Optional:           nt.Properties.Optional,
			Validation:         nt.Validation,
		}
	}

	return m, nil
}

func missingKeys(m map[string]any, keys ...string) []string {
	var missing []string
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
