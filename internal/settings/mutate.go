package settings

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/vaultlint/vaultlint/internal/methodology"
)

// backupStamp is the timestamp layout for backup file names.
const backupStamp = "20060102_150405"

// Set writes one value into the raw settings document under a dot-separated
// key path, creating intermediate mappings as needed. String values
// auto-convert: true/false become bools, digit runs become ints, and
// bracketed lists become string slices. Comments in the file are not
// preserved; Backup runs first when requested.
func Set(vaultPath, key, value string, backup bool) error {
	settingsPath := Path(vaultPath)
	if _, err := os.Stat(settingsPath); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, settingsPath)
	}

	if backup {
		if _, err := Backup(vaultPath); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid YAML in settings file: %w", err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}

	keys := strings.Split(key, ".")
	current := doc
	for _, k := range keys[:len(keys)-1] {
		next, ok := current[k]
		if !ok {
			child := make(map[string]any)
			current[k] = child
			current = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot set nested key: %s is not a mapping", k)
		}
		current = child
	}
	current[keys[len(keys)-1]] = convertValue(value)

	return save(settingsPath, doc)
}

// convertValue maps a CLI string onto the YAML type it spells.
func convertValue(value string) any {
	lower := strings.ToLower(value)
	if lower == "true" || lower == "false" {
		return lower == "true"
	}
	if isDigits(value) {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		items := []string{}
		for _, item := range strings.Split(value[1:len(value)-1], ",") {
			if strings.TrimSpace(item) == "" {
				continue
			}
			items = append(items, strings.Trim(strings.TrimSpace(item), `'"`))
		}
		return items
	}
	return value
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func save(path string, doc map[string]any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Backup copies the settings file into .vaultlint/backups with a timestamped
// name. It returns the backup path, or "" with a nil error when the vault
// has no settings file.
func Backup(vaultPath string) (string, error) {
	data, err := os.ReadFile(Path(vaultPath))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading settings: %w", err)
	}

	backupDir := filepath.Join(vaultPath, StateDir, "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	backupPath := filepath.Join(backupDir, "settings_"+time.Now().Format(backupStamp)+".yaml")
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return backupPath, nil
}

// Reset overwrites the settings file with the catalog seed for the given
// methodology, backing up the existing file first. Returns the backup path,
// or "" when there was nothing to back up.
func Reset(vaultPath, methodologyName string, catalog *methodology.Catalog) (string, error) {
	content, err := catalog.SettingsTemplate(methodologyName)
	if err != nil {
		return "", err
	}

	backupPath, err := Backup(vaultPath)
	if err != nil {
		return "", err
	}

	settingsPath := Path(vaultPath)
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0755); err != nil {
		return "", fmt.Errorf("creating state directory: %w", err)
	}
	if err := atomic.WriteFile(settingsPath, strings.NewReader(content)); err != nil {
		return "", fmt.Errorf("writing settings: %w", err)
	}
	return backupPath, nil
}

// Diff compares the raw settings document against the built-in defaults and
// returns one line per difference, keys sorted at each level.
func Diff(vaultPath string) ([]string, error) {
	data, err := os.ReadFile(Path(vaultPath))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{"Settings file does not exist - using defaults"}, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var current map[string]any
	if err := yaml.Unmarshal(data, &current); err != nil {
		return nil, fmt.Errorf("invalid YAML in settings file: %w", err)
	}
	if current == nil {
		current = make(map[string]any)
	}

	return diffMaps(DefaultSettingsMap(), current, ""), nil
}

func diffMaps(defaults, current map[string]any, prefix string) []string {
	union := make(map[string]struct{}, len(defaults)+len(current))
	for k := range defaults {
		union[k] = struct{}{}
	}
	for k := range current {
		union[k] = struct{}{}
	}
	keys := make([]string, 0, len(union))
	for k := range union {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var changes []string
	for _, key := range keys {
		keyPath := key
		if prefix != "" {
			keyPath = prefix + "." + key
		}

		defVal, inDefaults := defaults[key]
		curVal, inCurrent := current[key]
		switch {
		case !inCurrent:
			changes = append(changes, fmt.Sprintf("- %s: REMOVED (was: %v)", keyPath, defVal))
		case !inDefaults:
			changes = append(changes, fmt.Sprintf("+ %s: ADDED (value: %v)", keyPath, curVal))
		default:
			defMap, defIsMap := defVal.(map[string]any)
			curMap, curIsMap := curVal.(map[string]any)
			if defIsMap && curIsMap {
				changes = append(changes, diffMaps(defMap, curMap, keyPath)...)
			} else if !reflect.DeepEqual(defVal, curVal) {
				changes = append(changes, fmt.Sprintf("~ %s: %v → %v", keyPath, defVal, curVal))
			}
		}
	}
	return changes
}

// DefaultSettingsMap returns the built-in defaults Diff compares against.
// List values use []any so they compare equal to what yaml.Unmarshal
// produces.
func DefaultSettingsMap() map[string]any {
	return map[string]any{
		"version":     "1.0",
		"methodology": "custom",
		"core_properties": []any{
			"type", "up", "created", "daily", "tags", "collection", "related",
		},
		"note_types": map[string]any{},
		"validation": map[string]any{
			"require_core_properties":    true,
			"allow_empty_properties":     []any{"tags", "collection", "related"},
			"strict_types":               true,
			"check_templates":            true,
			"check_up_links":             true,
			"check_inbox_no_frontmatter": true,
		},
		"exclude": map[string]any{
			"paths":    []any{"+/", "x/", ".obsidian/", ".vaultlint/", ".git/"},
			"files":    []any{"Home.md", "README.md"},
			"patterns": []any{"_*_MOC.md"},
		},
	}
}
